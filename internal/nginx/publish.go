package nginx

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"dockship/internal/logger"
	"dockship/internal/remote"
)

var nlog = logger.PackageLogger("nginx")

const (
	availablePath = "/etc/nginx/sites-available/" + SiteName
	enabledPath   = "/etc/nginx/sites-enabled/" + SiteName
)

// Configurator manages the reverse proxy site on the remote host.
type Configurator struct {
	runner remote.Runner
}

func NewConfigurator(runner remote.Runner) *Configurator {
	return &Configurator{runner: runner}
}

// Publish renders the server block for appPort, installs it, enables it, and
// reloads Nginx only after the configuration passes `nginx -t`. The rendered
// bytes travel over stdin so config content never meets a remote shell.
func (c *Configurator) Publish(ctx context.Context, appPort int, stream io.Writer) error {
	conf, err := RenderSite(SiteData{AppPort: appPort})
	if err != nil {
		return err
	}

	nlog.Info("Installing reverse proxy site (upstream 127.0.0.1:%d)...", appPort)

	tee := fmt.Sprintf("sudo tee %s > /dev/null", availablePath)
	if err := c.runner.Push(ctx, bytes.NewReader(conf), tee); err != nil {
		return fmt.Errorf("write site config: %w", err)
	}

	// -sfn replaces any previous symlink of the same name.
	link := fmt.Sprintf("sudo ln -sfn %s %s", availablePath, enabledPath)
	if _, err := c.runner.Run(ctx, link, stream); err != nil {
		return fmt.Errorf("enable site: %w", err)
	}

	if _, err := c.runner.Run(ctx, "sudo nginx -t", stream); err != nil {
		return fmt.Errorf("nginx config test: %w", err)
	}

	if _, err := c.runner.Run(ctx, "sudo systemctl reload nginx", stream); err != nil {
		return fmt.Errorf("reload nginx: %w", err)
	}

	nlog.Success("Reverse proxy configured")
	return nil
}

// Remove deletes the site files and reloads Nginx with whatever config
// remains. Missing files are tolerated.
func (c *Configurator) Remove(ctx context.Context, stream io.Writer) error {
	steps := []string{
		fmt.Sprintf("sudo rm -f %s %s", enabledPath, availablePath),
		"sudo nginx -t && sudo systemctl reload nginx || true",
	}
	for _, cmd := range steps {
		if _, err := c.runner.Run(ctx, cmd, stream); err != nil {
			return fmt.Errorf("remove site: %w", err)
		}
	}
	return nil
}
