package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"dockship/internal/exitcode"
	"dockship/internal/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Color definitions
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)

	// Command flags
	cleanupMode bool
	dryRun      bool
	configFile  string
)

var rootCmd = &cobra.Command{
	Use:   "dockship",
	Short: "Push a Dockerized application to a remote server",
	Long: `dockship automates deploying a Dockerized application to a single VPS:

it collects connection settings interactively, prepares the host (Docker,
Buildx, Compose plugin, Nginx), transfers the project tree, brings the
application up, configures an Nginx reverse proxy, and runs health checks.
--cleanup reverses the deployment.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sig := make(chan os.Signal, 2)
		signal.Notify(sig, os.Interrupt)
		defer signal.Stop(sig)
		go func() {
			<-sig
			cancel()
			// A blocked interactive prompt does not watch the context; a
			// second interrupt exits immediately instead of waiting for
			// Enter.
			<-sig
			errorColor.Fprintln(os.Stderr, "\nInterrupted")
			os.Exit(exitcode.Interrupted)
		}()

		var err error
		if cleanupMode {
			err = runCleanup(ctx)
		} else {
			err = runDeploy(ctx)
		}

		// An interrupt surfaces as context cancellation somewhere in the
		// pipeline; map it to its own exit code.
		if err != nil && ctx.Err() != nil && errors.Is(err, context.Canceled) {
			return exitcode.InterruptError(fmt.Errorf("interrupted by user"))
		}
		return err
	},
}

func init() {
	rootCmd.Flags().BoolVar(&cleanupMode, "cleanup", false, "Remove the deployed application instead of deploying")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log remote commands without executing them")
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "dockship.yml", "Path to saved defaults file")
}

// Execute runs the root command and maps error categories to exit codes.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		if path := logger.LogFile(); path != "" {
			fmt.Fprintf(os.Stderr, "Full output captured in %s\n", path)
		}
		os.Exit(exitcode.FromError(err))
	}
}
