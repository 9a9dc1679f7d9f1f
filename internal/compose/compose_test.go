package compose

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalManifest = `services:
  web:
    image: nginx:alpine
    ports:
      - "8080:80"
  worker:
    image: alpine:3
    command: ["sleep", "infinity"]
`

func TestDetectFindsManifestVariants(t *testing.T) {
	for _, name := range []string{"docker-compose.yml", "compose.yaml"} {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(minimalManifest), 0644))

		path, ok := Detect(dir)
		assert.True(t, ok, name)
		assert.Equal(t, filepath.Join(dir, name), path)
	}
}

func TestDetectReturnsFalseWithoutManifest(t *testing.T) {
	_, ok := Detect(t.TempDir())
	assert.False(t, ok)
}

func TestValidateParsesServices(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docker-compose.yml")
	require.NoError(t, os.WriteFile(path, []byte(minimalManifest), 0644))

	project, err := Validate(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, project.Services, 2)
}

func TestValidateRejectsMalformedManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docker-compose.yml")
	require.NoError(t, os.WriteFile(path, []byte("services:\n  web:\n    image: [broken\n"), 0644))

	_, err := Validate(context.Background(), path)
	assert.Error(t, err)
}
