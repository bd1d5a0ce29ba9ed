package commands

import (
	"fmt"

	"github.com/zignal-platform/zignal-api/internal/app"
	"github.com/zignal-platform/zignal-api/internal/domain/auth"
	"github.com/zignal-platform/zignal-api/internal/domain/sessions"
	"github.com/zignal-platform/zignal-api/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// systemAdmin is the principal maintenance commands act as
var systemAdmin = &auth.Principal{
	UserID:      sessions.TriggeredBySystem,
	Permissions: []string{auth.PermissionAdmin},
}

// InvalidationCommandHandler runs scheduled invalidation maintenance via CLI.
type InvalidationCommandHandler struct {
	logger logger.Logger
}

// NewInvalidationCommandHandler initializes and returns an InvalidationCommandHandler
func NewInvalidationCommandHandler() (*InvalidationCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	return &InvalidationCommandHandler{logger: loggerInstance}, nil
}

// SweepCmd executes every due scheduled invalidation and ends expired sessions once
func (commandHandler *InvalidationCommandHandler) SweepCmd(cmd *cobra.Command, _ []string) {
	rt, err := openRuntime(commandHandler.logger)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	defer rt.close(commandHandler.logger)

	sweeper := app.NewSweeper(rt.triggers, rt.manager, 0, commandHandler.logger)
	result, err := sweeper.RunOnce(cmd.Context())
	if err != nil {
		commandHandler.logger.Error(err)
	}
	if result != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "executed=%d expired=%d\n", result.Executed, result.Expired)
	}
}

// PurgeCmd deletes invalidation history older than the given number of days
func (commandHandler *InvalidationCommandHandler) PurgeCmd(cmd *cobra.Command, _ []string) {
	days, err := cmd.Flags().GetInt("older-than-days")
	if err != nil {
		commandHandler.logger.Error("invalid older-than-days flag ", err)
		return
	}
	userID, err := cmd.Flags().GetString("user-id")
	if err != nil {
		commandHandler.logger.Error("invalid user-id flag ", err)
		return
	}

	rt, err := openRuntime(commandHandler.logger)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	defer rt.close(commandHandler.logger)

	result, err := rt.invalidations.PurgeHistory(cmd.Context(), systemAdmin, userID, days)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted=%d cutoff=%s\n", result.DeletedCount, result.CutoffDate.UTC().Format("2006-01-02T15:04:05Z"))
}

// InitInvalidationCommands registers the invalidations command group
func InitInvalidationCommands(rootCmd *cobra.Command) error {
	handler, err := NewInvalidationCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create invalidation command handler %w", err)
	}

	var invalidationsCmd = &cobra.Command{
		Use:   "invalidations",
		Short: "Scheduled invalidation maintenance",
	}

	var sweepCmd = &cobra.Command{
		Use:   "sweep",
		Short: "Execute due scheduled invalidations and end expired sessions",
		Run:   handler.SweepCmd,
	}
	invalidationsCmd.AddCommand(sweepCmd)

	var purgeCmd = &cobra.Command{
		Use:   "purge",
		Short: "Delete invalidation history older than a number of days",
		Run:   handler.PurgeCmd,
	}
	purgeCmd.Flags().IntP("older-than-days", "", sessions.DefaultPurgeDays, "Delete history strictly older than this many days")
	purgeCmd.Flags().StringP("user-id", "", "", "Restrict the purge to one user")
	invalidationsCmd.AddCommand(purgeCmd)

	rootCmd.AddCommand(invalidationsCmd)
	return nil
}
