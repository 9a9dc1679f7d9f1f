package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// ValidationError collects every problem found in one pass so the user sees
// the full list instead of fixing fields one at a time.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// Validate checks required fields and resolves the SSH key path against the
// user's home directory. On success the config's SSHKeyPath holds the
// expanded path used by every later stage.
func (c *DeployConfig) Validate() error {
	var problems []string

	if strings.TrimSpace(c.RepoURL) == "" {
		problems = append(problems, "repository URL is required")
	}
	if strings.TrimSpace(c.AccessToken) == "" {
		problems = append(problems, "access token is required")
	}
	if strings.TrimSpace(c.RemoteHost) == "" {
		problems = append(problems, "remote host is required")
	}
	if c.AppPort < 1 || c.AppPort > 65535 {
		problems = append(problems, fmt.Sprintf("application port %d is out of range", c.AppPort))
	}

	if strings.TrimSpace(c.SSHKeyPath) == "" {
		problems = append(problems, "SSH key path is required")
	} else {
		expanded, err := homedir.Expand(c.SSHKeyPath)
		if err != nil {
			problems = append(problems, fmt.Sprintf("cannot expand SSH key path %s: %v", c.SSHKeyPath, err))
		} else if _, err := os.Stat(expanded); err != nil {
			problems = append(problems, fmt.Sprintf("SSH key file %s does not exist", expanded))
		} else {
			c.SSHKeyPath = expanded
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
