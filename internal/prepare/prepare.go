package prepare

import (
	"context"
	"fmt"
	"io"
	"strings"

	"dockship/internal/logger"
	"dockship/internal/remote"
)

var plog = logger.PackageLogger("prepare")

// Packages installed ahead of the Docker repository registration.
var prerequisites = []string{
	"ca-certificates",
	"curl",
	"gnupg",
	"lsb-release",
	"rsync",
}

// Packages installed from the Docker apt repository plus the reverse proxy.
var runtimePackages = []string{
	"docker-ce",
	"docker-ce-cli",
	"containerd.io",
	"docker-buildx-plugin",
	"docker-compose-plugin",
	"nginx",
}

// Preparer installs the container runtime and proxy server on the target
// host. Idempotency relies on apt and mkdir -p; there is no state probing
// before acting.
type Preparer struct {
	runner     remote.Runner
	remoteUser string
	appDir     string
}

func New(runner remote.Runner, remoteUser, appDir string) *Preparer {
	return &Preparer{runner: runner, remoteUser: remoteUser, appDir: appDir}
}

// Prepare runs the whole package setup as one composite script over a single
// SSH invocation.
func (p *Preparer) Prepare(ctx context.Context, stream io.Writer) error {
	plog.Info("Preparing remote host (Docker, Buildx, Compose plugin, Nginx)...")

	if _, err := p.runner.Run(ctx, p.Script(), stream); err != nil {
		return fmt.Errorf("remote preparation: %w", err)
	}

	plog.Success("Remote host prepared")
	return nil
}

// Script returns the batched preparation script.
func (p *Preparer) Script() string {
	steps := []string{
		"set -e",
		"export DEBIAN_FRONTEND=noninteractive",
		"sudo -E apt-get update -y",
		fmt.Sprintf("sudo -E apt-get install -y %s", strings.Join(prerequisites, " ")),
		"sudo install -m 0755 -d /etc/apt/keyrings",
		"curl -fsSL https://download.docker.com/linux/ubuntu/gpg | sudo gpg --dearmor --yes -o /etc/apt/keyrings/docker.gpg",
		"sudo chmod a+r /etc/apt/keyrings/docker.gpg",
		`echo "deb [arch=$(dpkg --print-architecture) signed-by=/etc/apt/keyrings/docker.gpg] https://download.docker.com/linux/ubuntu $(lsb_release -cs) stable" | sudo tee /etc/apt/sources.list.d/docker.list > /dev/null`,
		"sudo -E apt-get update -y",
		fmt.Sprintf("sudo -E apt-get install -y %s", strings.Join(runtimePackages, " ")),
		"sudo systemctl enable --now docker",
		"sudo systemctl enable --now nginx",
		fmt.Sprintf("sudo usermod -aG docker %s", p.remoteUser),
		fmt.Sprintf("mkdir -p %s", p.appDir),
	}
	return strings.Join(steps, "\n")
}

// Verify confirms the installed tooling answers. Failures here are real
// failures; the deploy cannot proceed without the runtime.
func (p *Preparer) Verify(ctx context.Context, stream io.Writer) error {
	checks := []string{
		"docker --version",
		"docker compose version",
		"nginx -v",
	}
	for _, cmd := range checks {
		if _, err := p.runner.Run(ctx, cmd, stream); err != nil {
			return fmt.Errorf("verify installation: %w", err)
		}
	}
	return nil
}
