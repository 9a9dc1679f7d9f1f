package config

import (
	"fmt"
	"os"

	"dockship/internal/logger"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBranch  = "main"
	DefaultUser    = "ubuntu"
	DefaultAppPort = 80

	// DefaultFile is the optional config file whose values pre-seed the
	// interactive prompt defaults.
	DefaultFile = "dockship.yml"
)

var clog = logger.PackageLogger("config")

// DeployConfig holds everything one deployment run needs. It is built by the
// interactive prompts, frozen after Validate, and never outlives the process.
type DeployConfig struct {
	RepoURL string `yaml:"repo_url"`
	// AccessToken is used for authenticated clones on the remote side and is
	// never written back to disk.
	AccessToken string `yaml:"-"`
	Branch      string `yaml:"branch"`
	RemoteUser  string `yaml:"remote_user"`
	RemoteHost  string `yaml:"remote_host"`
	SSHKeyPath  string `yaml:"ssh_key_path"`
	AppPort     int    `yaml:"app_port"`
}

// New returns a config carrying the documented defaults.
func New() *DeployConfig {
	return &DeployConfig{
		Branch:     DefaultBranch,
		RemoteUser: DefaultUser,
		AppPort:    DefaultAppPort,
	}
}

// Load reads a saved config to use as prompt defaults. A missing file is not
// an error; the caller just starts from New().
func Load(path string) (*DeployConfig, error) {
	cfg := New()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	clog.Info("Loaded saved defaults from %s", path)
	return cfg, nil
}

// Save writes the config back so the next run can offer it as defaults. The
// access token is deliberately excluded.
func (c *DeployConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Summary prints the collected settings before the pipeline starts.
func (c *DeployConfig) Summary() {
	clog.Info("Deployment settings:")
	clog.Info("  Repository:  %s (branch %s)", c.RepoURL, c.Branch)
	clog.Info("  Target:      %s@%s", c.RemoteUser, c.RemoteHost)
	clog.Info("  SSH key:     %s", c.SSHKeyPath)
	clog.Info("  App port:    %d", c.AppPort)
}
