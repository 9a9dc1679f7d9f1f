package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"dockship/internal/logger"

	"golang.org/x/crypto/ssh"
)

var rlog = logger.PackageLogger("remote")

const dialTimeout = 30 * time.Second

// Client runs commands on one remote host over a single SSH connection.
// Sessions are opened per command; the connection itself is reused for the
// whole run.
type Client struct {
	conn *ssh.Client
	addr string
}

// Options identify the remote endpoint. KeyPath must already be expanded.
type Options struct {
	Host    string
	User    string
	KeyPath string
}

// Dial opens the SSH connection. Host-key checking is disabled, matching the
// batch-mode behavior of the rest of the pipeline.
func Dial(opts Options) (*Client, error) {
	key, err := os.ReadFile(opts.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("read SSH key %s: %w", opts.KeyPath, err)
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("parse SSH key %s: %w", opts.KeyPath, err)
	}

	config := &ssh.ClientConfig{
		User:            opts.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         dialTimeout,
	}

	addr := net.JoinHostPort(opts.Host, "22")
	conn, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, fmt.Errorf("dial %s@%s: %w", opts.User, addr, err)
	}

	rlog.Debug("Connected to %s@%s", opts.User, addr)
	return &Client{conn: conn, addr: addr}, nil
}

// Run executes cmd in a fresh session and returns its combined output.
func (c *Client) Run(ctx context.Context, cmd string, stream io.Writer) (string, error) {
	session, err := c.conn.NewSession()
	if err != nil {
		return "", fmt.Errorf("open session on %s: %w", c.addr, err)
	}
	defer session.Close()

	var buf bytes.Buffer
	var out io.Writer = &buf
	if stream != nil {
		out = io.MultiWriter(&buf, stream)
	}
	session.Stdout = out
	session.Stderr = out

	if err := c.wait(ctx, session, func() error { return session.Run(cmd) }); err != nil {
		return buf.String(), fmt.Errorf("remote command %q: %w", cmd, err)
	}
	return buf.String(), nil
}

// Push executes cmd with r connected to its stdin.
func (c *Client) Push(ctx context.Context, r io.Reader, cmd string) error {
	session, err := c.conn.NewSession()
	if err != nil {
		return fmt.Errorf("open session on %s: %w", c.addr, err)
	}
	defer session.Close()

	session.Stdin = r
	if err := c.wait(ctx, session, func() error { return session.Run(cmd) }); err != nil {
		return fmt.Errorf("remote command %q: %w", cmd, err)
	}
	return nil
}

// wait runs fn and tears the session down early if ctx expires. The ssh
// package has no context support of its own.
func (c *Client) wait(ctx context.Context, session *ssh.Session, fn func() error) error {
	done := make(chan error, 1)
	go func() { done <- fn() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		session.Close()
		<-done
		return ctx.Err()
	}
}

// Ping confirms the host is reachable and accepts commands.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.Run(ctx, "true", nil); err != nil {
		return err
	}
	return nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
