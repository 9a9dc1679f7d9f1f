package deploy

import (
	"context"
	"fmt"
	"io"
	"strings"

	"dockship/internal/logger"
	"dockship/internal/remote"
)

var dlog = logger.PackageLogger("deploy")

const (
	// Fixed names for the single-Dockerfile fallback path.
	ImageName     = "dockship-app"
	ContainerName = "dockship-app"
)

// Compose manifest names checked in order on the remote side.
var composeManifests = []string{
	"docker-compose.yml",
	"docker-compose.yaml",
	"compose.yml",
	"compose.yaml",
}

// Deployer brings the transferred application up on the remote host.
type Deployer struct {
	runner  remote.Runner
	appDir  string
	appPort int
}

func New(runner remote.Runner, appDir string, appPort int) *Deployer {
	return &Deployer{runner: runner, appDir: appDir, appPort: appPort}
}

// Deploy detects a Compose manifest or a Dockerfile in the app directory and
// brings the application up, tearing down whatever a previous run left
// behind. All teardown tolerates absence, so re-runs cannot fail on
// leftovers.
func (d *Deployer) Deploy(ctx context.Context, stream io.Writer) error {
	manifest, err := d.detectManifest(ctx)
	if err != nil {
		return err
	}

	if manifest != "" {
		dlog.Info("Compose manifest %s found, deploying with docker compose", manifest)
		return d.deployCompose(ctx, stream)
	}

	dlog.Info("No Compose manifest, building from Dockerfile")
	return d.deployDockerfile(ctx, stream)
}

func (d *Deployer) detectManifest(ctx context.Context) (string, error) {
	script := fmt.Sprintf(
		"for f in %s; do if [ -f %s/$f ]; then echo $f; break; fi; done",
		strings.Join(composeManifests, " "), d.appDir)

	out, err := d.runner.Run(ctx, script, nil)
	if err != nil {
		return "", fmt.Errorf("detect compose manifest: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func (d *Deployer) deployCompose(ctx context.Context, stream io.Writer) error {
	down := fmt.Sprintf("cd %s && docker compose down --remove-orphans || true", d.appDir)
	if _, err := d.runner.Run(ctx, down, stream); err != nil {
		return fmt.Errorf("compose teardown: %w", err)
	}

	up := fmt.Sprintf("cd %s && docker compose up -d --build", d.appDir)
	if _, err := d.runner.Run(ctx, up, stream); err != nil {
		return fmt.Errorf("compose up: %w", err)
	}

	dlog.Success("Compose stack is up")
	return nil
}

func (d *Deployer) deployDockerfile(ctx context.Context, stream io.Writer) error {
	build := fmt.Sprintf("cd %s && docker build -t %s .", d.appDir, ImageName)
	if _, err := d.runner.Run(ctx, build, stream); err != nil {
		return fmt.Errorf("docker build: %w", err)
	}

	// Old container of the same name must go before the port can be rebound.
	rm := fmt.Sprintf("docker rm -f %s || true", ContainerName)
	if _, err := d.runner.Run(ctx, rm, stream); err != nil {
		return fmt.Errorf("remove previous container: %w", err)
	}

	// Published on loopback only; Nginx is the public entry point.
	run := fmt.Sprintf(
		"docker run -d --name %s --restart unless-stopped -p 127.0.0.1:%d:%d %s",
		ContainerName, d.appPort, d.appPort, ImageName)
	if _, err := d.runner.Run(ctx, run, stream); err != nil {
		return fmt.Errorf("docker run: %w", err)
	}

	dlog.Success("Container %s is running on 127.0.0.1:%d", ContainerName, d.appPort)
	return nil
}

// Cleanup tears down everything a deploy created: Compose stack with images
// and volumes, the fixed-name container and image, and the application
// directory. Every step tolerates absence.
func (d *Deployer) Cleanup(ctx context.Context, stream io.Writer) error {
	steps := []string{
		fmt.Sprintf("cd %s 2>/dev/null && docker compose down --rmi all --volumes --remove-orphans || true", d.appDir),
		fmt.Sprintf("docker rm -f %s || true", ContainerName),
		fmt.Sprintf("docker rmi -f %s || true", ImageName),
		fmt.Sprintf("sudo rm -rf %s", d.appDir),
	}

	for _, cmd := range steps {
		if _, err := d.runner.Run(ctx, cmd, stream); err != nil {
			return fmt.Errorf("cleanup: %w", err)
		}
	}

	dlog.Success("Application removed from remote host")
	return nil
}
