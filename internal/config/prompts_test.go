package config

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, input string, cfg *DeployConfig) *DeployConfig {
	t.Helper()

	var out bytes.Buffer
	p := NewPrompter(strings.NewReader(input), &out)
	p.readSecret = func() (string, error) { return "secret-token", nil }

	require.NoError(t, p.Collect(cfg))
	return cfg
}

func TestCollectAppliesDefaultsOnEmptyInput(t *testing.T) {
	// repo URL, then empty lines accepting branch/user defaults, host, key,
	// empty port accepting the default.
	input := "https://github.com/acme/app.git\n\n\n203.0.113.10\n~/.ssh/key\n\n"

	cfg := collect(t, input, New())

	assert.Equal(t, "https://github.com/acme/app.git", cfg.RepoURL)
	assert.Equal(t, "secret-token", cfg.AccessToken)
	assert.Equal(t, DefaultBranch, cfg.Branch)
	assert.Equal(t, DefaultUser, cfg.RemoteUser)
	assert.Equal(t, "203.0.113.10", cfg.RemoteHost)
	assert.Equal(t, "~/.ssh/key", cfg.SSHKeyPath)
	assert.Equal(t, DefaultAppPort, cfg.AppPort)
}

func TestCollectOverridesDefaults(t *testing.T) {
	input := strings.Join([]string{
		"git@github.com:acme/app.git",
		"develop",
		"deploy",
		"app.example.com",
		"/etc/keys/deploy",
		"8080",
	}, "\n") + "\n"

	cfg := collect(t, input, New())

	assert.Equal(t, "develop", cfg.Branch)
	assert.Equal(t, "deploy", cfg.RemoteUser)
	assert.Equal(t, 8080, cfg.AppPort)
}

func TestCollectRejectsNonNumericPort(t *testing.T) {
	input := "https://github.com/acme/app.git\n\n\nhost\nkey\neighty\n"

	var out bytes.Buffer
	p := NewPrompter(strings.NewReader(input), &out)
	p.readSecret = func() (string, error) { return "tok", nil }

	err := p.Collect(New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a number")
}

func TestCollectTrimsWhitespace(t *testing.T) {
	input := "  https://github.com/acme/app.git  \n\n\nhost\nkey\n\n"

	cfg := collect(t, input, New())
	assert.Equal(t, "https://github.com/acme/app.git", cfg.RepoURL)
}
