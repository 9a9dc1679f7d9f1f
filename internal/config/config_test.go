package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultBranch, cfg.Branch)
	assert.Equal(t, DefaultUser, cfg.RemoteUser)
	assert.Equal(t, DefaultAppPort, cfg.AppPort)
}

func TestSaveRoundTripExcludesToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dockship.yml")

	cfg := New()
	cfg.RepoURL = "https://github.com/acme/app.git"
	cfg.AccessToken = "super-secret"
	cfg.RemoteHost = "203.0.113.10"
	cfg.SSHKeyPath = "~/.ssh/key"
	cfg.AppPort = 8080
	require.NoError(t, cfg.Save(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "super-secret")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.RepoURL, loaded.RepoURL)
	assert.Equal(t, cfg.RemoteHost, loaded.RemoteHost)
	assert.Equal(t, 8080, loaded.AppPort)
	assert.Empty(t, loaded.AccessToken)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dockship.yml")
	require.NoError(t, os.WriteFile(path, []byte("repo_url: [unclosed"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}
