package compose

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"dockship/internal/logger"

	"github.com/compose-spec/compose-go/v2/loader"
	composetypes "github.com/compose-spec/compose-go/v2/types"
)

var mlog = logger.PackageLogger("compose")

// Manifest names checked in order, matching the remote-side detection.
var manifestNames = []string{
	"docker-compose.yml",
	"docker-compose.yaml",
	"compose.yml",
	"compose.yaml",
}

// Detect returns the path of the first Compose manifest found in dir.
func Detect(dir string) (string, bool) {
	for _, name := range manifestNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Validate parses the manifest with the compose-go loader so malformed
// manifests fail before any remote state is touched.
func Validate(ctx context.Context, path string) (*composetypes.Project, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	details := composetypes.ConfigDetails{
		WorkingDir: filepath.Dir(path),
		ConfigFiles: []composetypes.ConfigFile{
			{Filename: path, Content: content},
		},
		Environment: composetypes.NewMapping(os.Environ()),
	}

	project, err := loader.LoadWithContext(ctx, details, func(o *loader.Options) {
		o.SetProjectName("dockship", true)
	})
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	mlog.Info("Compose manifest %s is valid (%d services)", filepath.Base(path), len(project.Services))
	return project, nil
}
