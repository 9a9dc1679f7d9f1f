package nginx

import (
	"context"
	"errors"
	"strings"
	"testing"

	"dockship/internal/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishInstallsEnablesTestsAndReloads(t *testing.T) {
	fake := remote.NewFakeRunner()
	c := NewConfigurator(fake)

	require.NoError(t, c.Publish(context.Background(), 8080, nil))

	// Config content travels over stdin, never through a shell command line.
	require.Len(t, fake.Pushed, 1)
	assert.Contains(t, fake.Pushed[0], "proxy_pass http://127.0.0.1:8080;")

	assert.True(t, fake.Ran("sudo tee /etc/nginx/sites-available/dockship"))
	assert.True(t, fake.Ran("ln -sfn /etc/nginx/sites-available/dockship /etc/nginx/sites-enabled/dockship"))

	// nginx -t must come before the reload.
	testIdx, reloadIdx := -1, -1
	for i, cmd := range fake.Commands {
		if strings.Contains(cmd, "nginx -t") {
			testIdx = i
		}
		if strings.Contains(cmd, "systemctl reload nginx") {
			reloadIdx = i
		}
	}
	require.GreaterOrEqual(t, testIdx, 0)
	require.GreaterOrEqual(t, reloadIdx, 0)
	assert.Less(t, testIdx, reloadIdx)
}

func TestPublishSkipsReloadWhenConfigTestFails(t *testing.T) {
	fake := remote.NewFakeRunner()
	fake.Failures["nginx -t"] = errors.New("nginx: configuration file test failed")

	err := NewConfigurator(fake).Publish(context.Background(), 8080, nil)
	require.Error(t, err)
	assert.False(t, fake.Ran("systemctl reload nginx"))
}

func TestRemoveDeletesSiteFiles(t *testing.T) {
	fake := remote.NewFakeRunner()

	require.NoError(t, NewConfigurator(fake).Remove(context.Background(), nil))
	assert.True(t, fake.Ran("rm -f /etc/nginx/sites-enabled/dockship /etc/nginx/sites-available/dockship"))
	assert.True(t, fake.Ran("systemctl reload nginx || true"))
}
