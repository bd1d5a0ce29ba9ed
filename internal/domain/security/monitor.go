package security

// PatternClass groups suspicious log patterns
type PatternClass string

// Pattern classes, each mapped to a severity and threat score
const (
	ClassFailedLogin   PatternClass = "failed_login"
	ClassInjection     PatternClass = "injection"
	ClassPathTraversal PatternClass = "path_traversal"
	ClassScannerProbe  PatternClass = "scanner_probe"
)

// Severity returns the severity recorded for findings of class c
func (c PatternClass) Severity() Severity {
	switch c {
	case ClassInjection, ClassPathTraversal:
		return SeverityHigh
	case ClassScannerProbe:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// ThreatScore returns the threat score recorded for findings of class c
func (c PatternClass) ThreatScore() int {
	switch c {
	case ClassInjection:
		return 80
	case ClassPathTraversal:
		return 75
	case ClassScannerProbe:
		return 50
	default:
		return 20
	}
}

// Finding is one suspicious log line
type Finding struct {
	File      string
	Line      int
	Class     PatternClass
	Pattern   string
	IPAddress string
	Excerpt   string
}

// ScanReport summarises one monitor run
type ScanReport struct {
	FilesScanned   int
	Findings       []Finding
	FailedAttempts map[string]int
	BruteForceIPs  []string
	EventsRecorded int
}
