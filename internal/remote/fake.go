package remote

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// FakeRunner records every command instead of touching a host. Responses and
// failures can be scripted per command substring.
type FakeRunner struct {
	mu sync.Mutex

	Commands []string
	Pushed   []string

	// Outputs maps a command substring to the output Run should return.
	Outputs map[string]string
	// Failures maps a command substring to the error Run/Push should return.
	Failures map[string]error

	closed bool
}

func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		Outputs:  make(map[string]string),
		Failures: make(map[string]error),
	}
}

func (f *FakeRunner) Run(_ context.Context, cmd string, stream io.Writer) (string, error) {
	f.mu.Lock()
	f.Commands = append(f.Commands, cmd)
	f.mu.Unlock()

	for substr, err := range f.Failures {
		if strings.Contains(cmd, substr) {
			return "", err
		}
	}
	for substr, out := range f.Outputs {
		if strings.Contains(cmd, substr) {
			if stream != nil {
				fmt.Fprint(stream, out)
			}
			return out, nil
		}
	}
	return "", nil
}

func (f *FakeRunner) Push(_ context.Context, r io.Reader, cmd string) error {
	var sb strings.Builder
	if r != nil {
		io.Copy(&sb, r)
	}

	f.mu.Lock()
	f.Commands = append(f.Commands, cmd)
	f.Pushed = append(f.Pushed, sb.String())
	f.mu.Unlock()

	for substr, err := range f.Failures {
		if strings.Contains(cmd, substr) {
			return err
		}
	}
	return nil
}

func (f *FakeRunner) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Ran reports whether any recorded command contains substr.
func (f *FakeRunner) Ran(substr string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cmd := range f.Commands {
		if strings.Contains(cmd, substr) {
			return true
		}
	}
	return false
}
