package transfer

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"dockship/internal/execx"
	"dockship/internal/logger"
	"dockship/internal/remote"
)

var tlog = logger.PackageLogger("transfer")

// Transfer mirrors the local project tree into the remote application
// directory. rsync is preferred for its delta sync and remote-side deletes;
// without it the tree is streamed as a gzip tarball over the existing SSH
// connection.
type Transfer struct {
	runner  remote.Runner
	user    string
	host    string
	keyPath string
	appDir  string

	// dryRun logs the composed rsync invocation instead of spawning it.
	// rsync runs locally and so never passes through the Runner seam; the
	// flag keeps dry-run dry on this path too.
	dryRun bool
}

func New(runner remote.Runner, user, host, keyPath, appDir string, dryRun bool) *Transfer {
	return &Transfer{
		runner:  runner,
		user:    user,
		host:    host,
		keyPath: keyPath,
		appDir:  appDir,
		dryRun:  dryRun,
	}
}

// Sync copies localDir to the remote application directory. Both paths leave
// the directory holding exactly the transferred tree.
func (t *Transfer) Sync(ctx context.Context, localDir string, stream io.Writer) error {
	if execx.Available("rsync") {
		tlog.Info("Syncing project tree with rsync...")
		return t.rsync(ctx, localDir, stream)
	}
	tlog.Info("rsync not found locally, streaming tar archive instead...")
	return t.tarball(ctx, localDir)
}

func (t *Transfer) rsync(ctx context.Context, localDir string, stream io.Writer) error {
	sshCmd := fmt.Sprintf("ssh -i %s -o BatchMode=yes -o StrictHostKeyChecking=no", t.keyPath)
	dest := fmt.Sprintf("%s@%s:%s/", t.user, t.host, t.appDir)

	args := []string{
		"-az", "--delete",
		"--exclude", ".git",
		"-e", sshCmd,
		localDir + string(os.PathSeparator), dest,
	}

	if t.dryRun {
		tlog.Info("would run: rsync %s", strings.Join(args, " "))
		return nil
	}

	if _, err := execx.Run(ctx, stream, "rsync", args...); err != nil {
		return fmt.Errorf("rsync to %s: %w", dest, err)
	}
	return nil
}

// tarball streams a gzip tar of localDir into a remote extract. The target
// directory is cleared first so files deleted locally do not linger remotely.
func (t *Transfer) tarball(ctx context.Context, localDir string) error {
	pr, pw := io.Pipe()

	go func() {
		pw.CloseWithError(writeTar(pw, localDir))
	}()

	cmd := fmt.Sprintf("rm -rf %s && mkdir -p %s && tar -xzf - -C %s", t.appDir, t.appDir, t.appDir)
	if err := t.runner.Push(ctx, pr, cmd); err != nil {
		pr.CloseWithError(err)
		return fmt.Errorf("stream archive to %s: %w", t.appDir, err)
	}
	return nil
}

// writeTar writes a gzip tarball of dir to w, excluding version-control
// metadata.
func writeTar(w io.Writer, dir string) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		// Sockets, devices and the like have no place in a project tree.
		if !info.Mode().IsRegular() && !info.IsDir() && info.Mode()&os.ModeSymlink == 0 {
			return nil
		}

		link := ""
		if info.Mode()&os.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return err
			}
		}

		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if info.IsDir() {
			hdr.Name += "/"
		}

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return fmt.Errorf("archive %s: %w", dir, err)
	}

	if err := tw.Close(); err != nil {
		return err
	}
	return gz.Close()
}
