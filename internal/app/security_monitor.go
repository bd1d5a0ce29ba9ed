package app

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/zignal-platform/zignal-api/internal/domain/security"
	"github.com/zignal-platform/zignal-api/internal/pkg/logger"
)

// BruteForceThreshold is the number of failed logins from one IP above which
// a brute force event is recorded.
const BruteForceThreshold = 5

const maxExcerptLength = 200

type classPatterns struct {
	class    security.PatternClass
	patterns []*regexp.Regexp
}

// Checked in order; the first matching class wins so each line yields one finding.
var monitorPatterns = []classPatterns{
	{security.ClassInjection, compileAll(`select.*from`, `union.*select`, `script.*alert`, `javascript:`, `<script`)},
	{security.ClassPathTraversal, compileAll(`\.\./\.\.`, `/etc/passwd`, `/proc/`)},
	{security.ClassScannerProbe, compileAll(`admin.*\.php`, `wp-admin`, `phpmyadmin`, `shell`, `sqlmap`, `nikto`, `nmap`, `masscan`, `gobuster`, `dirb`, `python-requests`, `curl/7`)},
	{security.ClassFailedLogin, compileAll(`failed.?login`, `unauthorized`, `forbidden`, `access.?denied`, `authentication.?failed`)},
}

var ipPattern = regexp.MustCompile(`\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`)

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile(`(?i)` + expr)
	}
	return out
}

// logMonitor implements the security.Monitor interface over plain log files
type logMonitor struct {
	recorder security.Recorder
	logger   logger.Logger
}

// NewLogMonitor creates a new logMonitor instance
func NewLogMonitor(recorder security.Recorder, logger logger.Logger) (security.Monitor, error) {
	return &logMonitor{recorder: recorder, logger: logger}, nil
}

// Scan reads every log file under paths, records a policy violation per
// suspicious line and a brute force event per IP above BruteForceThreshold.
func (m *logMonitor) Scan(ctx context.Context, paths []string) (*security.ScanReport, error) {
	report := &security.ScanReport{FailedAttempts: map[string]int{}}

	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				m.logger.Warn("Skipping ", path, ": ", err)
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if d.IsDir() || !isLogFile(d.Name()) {
				return nil
			}
			return m.scanFile(ctx, path, report)
		})
		if err != nil {
			return report, err
		}
	}

	for ip, count := range report.FailedAttempts {
		if count > BruteForceThreshold {
			report.BruteForceIPs = append(report.BruteForceIPs, ip)
		}
	}
	sort.Strings(report.BruteForceIPs)

	for _, f := range report.Findings {
		err := m.recorder.Record(ctx, security.EventPolicyViolation, f.Class.Severity(),
			fmt.Sprintf("Suspicious %s pattern in %s:%d", f.Class, filepath.Base(f.File), f.Line),
			security.WithRequest(security.AccessContext{IPAddress: f.IPAddress}),
			security.WithThreatScore(f.Class.ThreatScore()),
			security.WithMetadata(map[string]interface{}{"file": f.File, "line": f.Line, "pattern": f.Pattern, "excerpt": f.Excerpt}))
		if err != nil {
			return report, err
		}
		report.EventsRecorded++
	}

	for _, ip := range report.BruteForceIPs {
		attempts := report.FailedAttempts[ip]
		err := m.recorder.Record(ctx, security.EventBruteForceDetected, security.SeverityHigh,
			fmt.Sprintf("Brute force detected from %s: %d failed attempts", ip, attempts),
			security.WithRequest(security.AccessContext{IPAddress: ip}),
			security.WithThreatScore(90),
			security.WithMetadata(map[string]interface{}{"attempts": attempts}))
		if err != nil {
			return report, err
		}
		report.EventsRecorded++
	}

	m.logger.Info("Scanned ", report.FilesScanned, " log files, ", len(report.Findings), " findings, ", len(report.BruteForceIPs), " brute force sources")
	return report, nil
}

func (m *logMonitor) scanFile(ctx context.Context, path string, report *security.ScanReport) error {
	file, err := os.Open(path)
	if err != nil {
		m.logger.Warn("Cannot open log file ", path, ": ", err)
		return nil
	}
	defer file.Close()

	report.FilesScanned++
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%1000 == 0 && ctx.Err() != nil {
			return ctx.Err()
		}

		finding, ok := classifyLine(scanner.Text())
		if !ok {
			continue
		}
		finding.File = path
		finding.Line = lineNo
		report.Findings = append(report.Findings, finding)

		if finding.Class == security.ClassFailedLogin && finding.IPAddress != "" {
			report.FailedAttempts[finding.IPAddress]++
		}
	}
	if err := scanner.Err(); err != nil {
		m.logger.Warn("Stopped reading ", path, ": ", err)
	}
	return nil
}

func classifyLine(line string) (security.Finding, bool) {
	for _, cp := range monitorPatterns {
		for _, re := range cp.patterns {
			if !re.MatchString(line) {
				continue
			}
			excerpt := truncateRunes(strings.TrimSpace(line), maxExcerptLength)
			return security.Finding{
				Class:     cp.class,
				Pattern:   strings.TrimPrefix(re.String(), "(?i)"),
				IPAddress: extractIP(line),
				Excerpt:   excerpt,
			}, true
		}
	}
	return security.Finding{}, false
}

func extractIP(line string) string {
	for _, candidate := range ipPattern.FindAllString(line, -1) {
		if net.ParseIP(candidate) != nil {
			return candidate
		}
	}
	return ""
}

func isLogFile(name string) bool {
	return strings.HasSuffix(name, ".log") ||
		strings.Contains(name, "access") ||
		strings.Contains(name, "error") ||
		strings.Contains(name, "auth")
}
