package execx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
)

type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run executes a local command, streaming stdout to stream when non-nil.
func Run(ctx context.Context, stream io.Writer, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var outb, errb bytes.Buffer
	if stream != nil {
		cmd.Stdout = io.MultiWriter(&outb, stream)
	} else {
		cmd.Stdout = &outb
	}
	cmd.Stderr = &errb

	err := cmd.Run()

	res := Result{
		Stdout: outb.String(),
		Stderr: errb.String(),
	}

	if ctx.Err() == context.DeadlineExceeded || ctx.Err() == context.Canceled {
		res.ExitCode = -1
		return res, fmt.Errorf("command interrupted: %s %v: %w", name, args, ctx.Err())
	}

	if err == nil {
		return res, nil
	}

	if ee, ok := err.(*exec.ExitError); ok {
		res.ExitCode = ee.ExitCode()
		return res, fmt.Errorf("command failed (exit %d): %s %v: %s", res.ExitCode, name, args, res.Stderr)
	}

	return res, fmt.Errorf("command error: %s %v: %w", name, args, err)
}

// Available reports whether name resolves on PATH.
func Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
