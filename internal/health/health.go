package health

import (
	"context"
	"fmt"
	"io"
	"time"

	"dockship/internal/logger"
	"dockship/internal/remote"
)

var hlog = logger.PackageLogger("health")

// Checker runs the post-deploy diagnostics. Every check is read-only and a
// failing check is reported without failing the run.
type Checker struct {
	runner  remote.Runner
	appPort int
}

func New(runner remote.Runner, appPort int) *Checker {
	return &Checker{runner: runner, appPort: appPort}
}

type check struct {
	label string
	cmd   string
	retry bool
}

// Run executes all checks and returns how many failed.
func (c *Checker) Run(ctx context.Context, stream io.Writer) int {
	checks := []check{
		{label: "Docker service", cmd: "systemctl is-active docker"},
		{label: "Containers", cmd: "docker ps"},
		// The app may still be starting when we get here.
		{label: "HTTP probe", cmd: fmt.Sprintf("curl -sI --max-time 5 http://127.0.0.1:%d", c.appPort), retry: true},
		{label: "Nginx service", cmd: "systemctl is-active nginx"},
	}

	failed := 0
	for _, ck := range checks {
		var err error
		if ck.retry {
			err = retryOperation(ctx, 3, 2*time.Second, func() error {
				_, e := c.runner.Run(ctx, ck.cmd, stream)
				return e
			})
		} else {
			_, err = c.runner.Run(ctx, ck.cmd, stream)
		}

		if err != nil {
			hlog.Warn("%s check failed: %v", ck.label, err)
			failed++
			continue
		}
		hlog.Success("%s check passed", ck.label)
	}
	return failed
}

func retryOperation(ctx context.Context, maxAttempts int, delay time.Duration, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			if lastErr != nil {
				return fmt.Errorf("canceled after %d attempts: %w", attempt-1, lastErr)
			}
			return ctx.Err()
		default:
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}

		if attempt < maxAttempts {
			hlog.Debug("Attempt %d/%d failed, retrying in %v: %v", attempt, maxAttempts, delay, lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("canceled while retrying: %w", lastErr)
			}
		}
	}

	return fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}
