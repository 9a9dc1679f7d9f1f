package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Prompter collects the deployment configuration interactively. Reader and
// writer are injectable so prompt flows are testable without a TTY.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer

	// readSecret reads a line without echoing it. Left nil, it uses the
	// terminal when stdin is one and falls back to a plain read otherwise.
	readSecret func() (string, error)
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Collect walks the user through every deployment field, offering values from
// cfg as defaults where they are set.
func (p *Prompter) Collect(cfg *DeployConfig) error {
	fmt.Fprintln(p.out, "Deployment configuration (press Enter to accept defaults)")
	fmt.Fprintln(p.out, "---------------------------------------------------------")

	var err error
	if cfg.RepoURL, err = p.read("Repository URL", cfg.RepoURL); err != nil {
		return err
	}
	if cfg.AccessToken, err = p.secret("Access token"); err != nil {
		return err
	}
	if cfg.Branch, err = p.read("Branch", cfg.Branch); err != nil {
		return err
	}
	if cfg.RemoteUser, err = p.read("Remote username", cfg.RemoteUser); err != nil {
		return err
	}
	if cfg.RemoteHost, err = p.read("Remote host", cfg.RemoteHost); err != nil {
		return err
	}
	if cfg.SSHKeyPath, err = p.read("SSH key path", cfg.SSHKeyPath); err != nil {
		return err
	}

	portStr, err := p.read("Application port", strconv.Itoa(cfg.AppPort))
	if err != nil {
		return err
	}
	port, convErr := strconv.Atoi(strings.TrimSpace(portStr))
	if convErr != nil {
		return fmt.Errorf("application port %q is not a number", portStr)
	}
	cfg.AppPort = port

	return nil
}

// read prompts for one line, returning def when the user just presses Enter.
func (p *Prompter) read(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}

	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

func (p *Prompter) secret(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)

	read := p.readSecret
	if read == nil {
		read = p.defaultSecretReader
	}

	value, err := read()
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(value), nil
}

func (p *Prompter) defaultSecretReader() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(p.out)
		return string(b), err
	}
	// Piped input: read a plain line from the injected reader.
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return line, nil
}
