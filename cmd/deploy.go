package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dockship/internal/compose"
	"dockship/internal/config"
	"dockship/internal/deploy"
	"dockship/internal/exitcode"
	"dockship/internal/git"
	"dockship/internal/health"
	"dockship/internal/logger"
	"dockship/internal/nginx"
	"dockship/internal/prepare"
	"dockship/internal/remote"
	"dockship/internal/transfer"
)

const logDir = "logs"

// appDir returns the remote application directory for the configured user.
func appDir(cfg *config.DeployConfig) string {
	return filepath.Join("/home", cfg.RemoteUser, "app")
}

// setup collects and validates the configuration, then opens the SSH
// connection. Shared by the deploy and cleanup paths.
func setup(ctx context.Context) (*config.DeployConfig, remote.Runner, error) {
	if path, err := logger.TeeToFile(logDir); err != nil {
		return nil, nil, err
	} else {
		infoColor.Printf("Logging to %s\n", path)
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}

	prompter := config.NewPrompter(os.Stdin, os.Stdout)
	if err := prompter.Collect(cfg); err != nil {
		return nil, nil, exitcode.ValidationError(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, exitcode.ValidationError(err)
	}
	if err := cfg.Save(configFile); err != nil {
		logger.PackageLogger("config").Warn("Could not save defaults: %v", err)
	}
	cfg.Summary()

	infoColor.Printf("Checking SSH connectivity to %s@%s...\n", cfg.RemoteUser, cfg.RemoteHost)
	client, err := remote.Dial(remote.Options{
		Host:    cfg.RemoteHost,
		User:    cfg.RemoteUser,
		KeyPath: cfg.SSHKeyPath,
	})
	if err != nil {
		return nil, nil, exitcode.ConnectivityError(
			fmt.Errorf("%w (check the key path, username and host)", err))
	}

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		client.Close()
		return nil, nil, exitcode.ConnectivityError(
			fmt.Errorf("%w (check the key path, username and host)", err))
	}
	successColor.Println("SSH connection established")

	var runner remote.Runner = client
	if dryRun {
		infoColor.Println("DRY RUN: remote commands will be logged, not executed")
		runner = remote.NewDryRunner(client)
	}
	return cfg, runner, nil
}

func runDeploy(ctx context.Context) error {
	cfg, runner, err := setup(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	if hash, err := git.CommitHash(); err == nil {
		infoColor.Printf("Deploying local tree at commit %s\n", hash)
	}

	stream := logger.Output()
	dir := appDir(cfg)

	// Pre-flight: a malformed Compose manifest should fail before any remote
	// state is touched.
	if manifest, ok := compose.Detect("."); ok {
		if _, err := compose.Validate(ctx, manifest); err != nil {
			return err
		}
	}

	infoColor.Println("\n=== PHASE 1: Remote preparation ===")
	prep := prepare.New(runner, cfg.RemoteUser, dir)
	if err := prep.Prepare(ctx, stream); err != nil {
		return err
	}
	if err := prep.Verify(ctx, stream); err != nil {
		return err
	}

	infoColor.Println("\n=== PHASE 2: File transfer ===")
	tr := transfer.New(runner, cfg.RemoteUser, cfg.RemoteHost, cfg.SSHKeyPath, dir, dryRun)
	if err := tr.Sync(ctx, ".", stream); err != nil {
		return err
	}

	infoColor.Println("\n=== PHASE 3: Application deployment ===")
	dep := deploy.New(runner, dir, cfg.AppPort)
	if err := dep.Deploy(ctx, stream); err != nil {
		return err
	}

	infoColor.Println("\n=== PHASE 4: Reverse proxy ===")
	if err := nginx.NewConfigurator(runner).Publish(ctx, cfg.AppPort, stream); err != nil {
		return err
	}

	infoColor.Println("\n=== PHASE 5: Health checks ===")
	if failed := health.New(runner, cfg.AppPort).Run(ctx, stream); failed > 0 {
		// Diagnostics only; the deployment itself succeeded.
		errorColor.Printf("%d health check(s) failed, see %s\n", failed, logger.LogFile())
	}

	successColor.Println("\nDeployment completed successfully")
	return nil
}

func runCleanup(ctx context.Context) error {
	cfg, runner, err := setup(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	stream := logger.Output()
	dir := appDir(cfg)

	infoColor.Println("\n=== CLEANUP: Removing deployed application ===")
	if err := deploy.New(runner, dir, cfg.AppPort).Cleanup(ctx, stream); err != nil {
		return err
	}
	if err := nginx.NewConfigurator(runner).Remove(ctx, stream); err != nil {
		return err
	}

	successColor.Println("\nCleanup completed successfully")
	return nil
}
