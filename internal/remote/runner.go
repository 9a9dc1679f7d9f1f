package remote

import (
	"context"
	"io"
)

// Runner is the single seam between the pipeline and the remote host. Every
// remote side effect goes through it, so the whole deploy flow can run
// against a fake in tests.
type Runner interface {
	// Run executes cmd on the remote host. Combined output is returned and,
	// when stream is non-nil, duplicated to it as it arrives.
	Run(ctx context.Context, cmd string, stream io.Writer) (string, error)

	// Push executes cmd on the remote host with r as its stdin. Used to move
	// byte streams (tar archives, rendered config files) without shell
	// interpolation.
	Push(ctx context.Context, r io.Reader, cmd string) error

	Close() error
}
