package deploy

import (
	"context"
	"strings"
	"testing"

	"dockship/internal/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appDir = "/home/ubuntu/app"

func TestDeployPrefersComposeManifest(t *testing.T) {
	fake := remote.NewFakeRunner()
	fake.Outputs["for f in"] = "docker-compose.yml\n"

	d := New(fake, appDir, 8080)
	require.NoError(t, d.Deploy(context.Background(), nil))

	assert.True(t, fake.Ran("docker compose down --remove-orphans || true"))
	assert.True(t, fake.Ran("docker compose up -d --build"))
	assert.False(t, fake.Ran("docker build"))
	assert.False(t, fake.Ran("docker run"))
}

func TestDeployFallsBackToDockerfile(t *testing.T) {
	fake := remote.NewFakeRunner()

	d := New(fake, appDir, 8080)
	require.NoError(t, d.Deploy(context.Background(), nil))

	assert.True(t, fake.Ran("cd /home/ubuntu/app && docker build -t dockship-app ."))
	assert.True(t, fake.Ran("docker rm -f dockship-app || true"))
	assert.True(t, fake.Ran("docker run -d --name dockship-app --restart unless-stopped -p 127.0.0.1:8080:8080 dockship-app"))
	assert.False(t, fake.Ran("docker compose up"))
}

func TestDeployTeardownTolerantOfAbsence(t *testing.T) {
	// Every destructive step issued before the new container starts must
	// tolerate the resource being absent, so a second run over existing
	// state cannot fail on leftovers.
	fake := remote.NewFakeRunner()
	d := New(fake, appDir, 80)
	require.NoError(t, d.Deploy(context.Background(), nil))

	for _, cmd := range fake.Commands {
		if strings.Contains(cmd, "docker rm") {
			assert.Contains(t, cmd, "|| true")
		}
	}

	// Re-running against the same fake state succeeds as well.
	require.NoError(t, d.Deploy(context.Background(), nil))
}

func TestCleanupRemovesEverythingAndNothingElse(t *testing.T) {
	fake := remote.NewFakeRunner()

	d := New(fake, appDir, 8080)
	require.NoError(t, d.Cleanup(context.Background(), nil))

	assert.True(t, fake.Ran("docker compose down --rmi all --volumes --remove-orphans || true"))
	assert.True(t, fake.Ran("docker rm -f dockship-app || true"))
	assert.True(t, fake.Ran("docker rmi -f dockship-app || true"))
	assert.True(t, fake.Ran("sudo rm -rf /home/ubuntu/app"))

	// Cleanup never prepares, transfers, deploys, or configures the proxy.
	assert.False(t, fake.Ran("apt-get"))
	assert.False(t, fake.Ran("docker build"))
	assert.False(t, fake.Ran("docker run"))
	assert.False(t, fake.Ran("sites-available"))
}
