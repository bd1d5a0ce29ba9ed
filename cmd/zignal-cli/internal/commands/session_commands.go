package commands

import (
	"fmt"

	"github.com/zignal-platform/zignal-api/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// SessionCommandHandler runs session maintenance via CLI.
type SessionCommandHandler struct {
	logger logger.Logger
}

// NewSessionCommandHandler initializes and returns a SessionCommandHandler
func NewSessionCommandHandler() (*SessionCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	return &SessionCommandHandler{logger: loggerInstance}, nil
}

// CleanupCmd ends every active session past its expiry
func (commandHandler *SessionCommandHandler) CleanupCmd(cmd *cobra.Command, _ []string) {
	rt, err := openRuntime(commandHandler.logger)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	defer rt.close(commandHandler.logger)

	ended, err := rt.manager.CleanupExpiredSessions(cmd.Context())
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "expired=%d\n", ended)
}

// InitSessionCommands registers the sessions command group
func InitSessionCommands(rootCmd *cobra.Command) error {
	handler, err := NewSessionCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create session command handler %w", err)
	}

	var sessionsCmd = &cobra.Command{
		Use:   "sessions",
		Short: "Session maintenance",
	}

	var cleanupCmd = &cobra.Command{
		Use:   "cleanup",
		Short: "End active sessions past their expiry",
		Run:   handler.CleanupCmd,
	}
	sessionsCmd.AddCommand(cleanupCmd)

	rootCmd.AddCommand(sessionsCmd)
	return nil
}
