package remote

import (
	"context"
	"io"

	"dockship/internal/logger"
)

var drylog = logger.PackageLogger("dry-run")

// DryRunner logs every remote command instead of executing it. The wrapped
// runner is only used for Close so the connection is still torn down.
type DryRunner struct {
	wrapped Runner
}

func NewDryRunner(wrapped Runner) *DryRunner {
	return &DryRunner{wrapped: wrapped}
}

func (d *DryRunner) Run(_ context.Context, cmd string, _ io.Writer) (string, error) {
	drylog.Info("would run: %s", cmd)
	return "", nil
}

func (d *DryRunner) Push(_ context.Context, r io.Reader, cmd string) error {
	// Drain so producers writing into a pipe are not left blocked.
	if r != nil {
		io.Copy(io.Discard, r)
	}
	drylog.Info("would run (with stdin): %s", cmd)
	return nil
}

func (d *DryRunner) Close() error {
	if d.wrapped != nil {
		return d.wrapped.Close()
	}
	return nil
}
