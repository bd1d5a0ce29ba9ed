package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/zignal-platform/zignal-api/internal/app"
	"github.com/zignal-platform/zignal-api/internal/domain/security"
	"github.com/zignal-platform/zignal-api/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// MonitorCommandHandler scans log files for suspicious activity via CLI.
type MonitorCommandHandler struct {
	logger logger.Logger
}

// NewMonitorCommandHandler initializes and returns a MonitorCommandHandler
func NewMonitorCommandHandler() (*MonitorCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	return &MonitorCommandHandler{logger: loggerInstance}, nil
}

// ScanCmd scans the given log files and records findings as security events
func (commandHandler *MonitorCommandHandler) ScanCmd(cmd *cobra.Command, _ []string) {
	paths, err := cmd.Flags().GetStringSlice("path")
	if err != nil {
		commandHandler.logger.Error("invalid path flag ", err)
		return
	}
	if len(paths) == 0 {
		commandHandler.logger.Error("at least one --path is required")
		return
	}

	rt, err := openRuntime(commandHandler.logger)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	defer rt.close(commandHandler.logger)

	monitor, err := app.NewLogMonitor(rt.recorder, commandHandler.logger)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	report, err := monitor.Scan(cmd.Context(), paths)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	printReport(cmd.OutOrStdout(), report)
}

func printReport(w io.Writer, report *security.ScanReport) {
	fmt.Fprintf(w, "files=%d findings=%d events=%d\n", report.FilesScanned, len(report.Findings), report.EventsRecorded)
	for _, f := range report.Findings {
		fmt.Fprintf(w, "%s:%d %s %s\n", f.File, f.Line, f.Class, f.Excerpt)
	}

	ips := make([]string, 0, len(report.FailedAttempts))
	for ip := range report.FailedAttempts {
		ips = append(ips, ip)
	}
	sort.Strings(ips)
	for _, ip := range ips {
		fmt.Fprintf(w, "failed_attempts %s %d\n", ip, report.FailedAttempts[ip])
	}
	for _, ip := range report.BruteForceIPs {
		fmt.Fprintf(w, "brute_force %s\n", ip)
	}
}

// InitMonitorCommands registers the monitor command group
func InitMonitorCommands(rootCmd *cobra.Command) error {
	handler, err := NewMonitorCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create monitor command handler %w", err)
	}

	var monitorCmd = &cobra.Command{
		Use:   "monitor",
		Short: "Security log monitoring",
	}

	var scanCmd = &cobra.Command{
		Use:   "scan",
		Short: "Scan log files for suspicious activity",
		Run:   handler.ScanCmd,
	}
	scanCmd.Flags().StringSliceP("path", "", nil, "Log file to scan (repeatable)")
	monitorCmd.AddCommand(scanCmd)

	rootCmd.AddCommand(monitorCmd)
	return nil
}
