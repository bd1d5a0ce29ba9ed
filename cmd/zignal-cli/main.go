// Package main is the entry point for the zignal-cli application.
// It registers the maintenance sub-commands (invalidations, sessions, monitor)
// and executes the command-line interface.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/zignal-platform/zignal-api/cmd/zignal-cli/internal/commands"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "zignal-cli",
		Short: "Maintenance CLI for the zignal API",
		Long: `zignal-cli runs the background jobs of the zignal API on demand.
It can execute due scheduled invalidations, end expired sessions, purge old
invalidation history and scan log files for suspicious activity.

The configuration file is read from CONFIG_PATH (default ../../configs/rest-app.yaml)
and can be overridden with ZIGNAL_* environment variables.`,
		SilenceUsage: true,
	}

	// Initialize all command groups BEFORE executing
	if err := initializeCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize commands: %w", err)
	}

	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// initializeCommands registers all command groups with the root command.
func initializeCommands(rootCmd *cobra.Command) error {
	if err := commands.InitInvalidationCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize invalidation commands: %w", err)
	}

	if err := commands.InitSessionCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize session commands: %w", err)
	}

	if err := commands.InitMonitorCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize monitor commands: %w", err)
	}

	return nil
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stderr)
}
