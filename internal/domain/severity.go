package domain

import "fmt"

// Severity ranks a violation. SeverityUnknown marks results the rules could
// not decide statically; it never counts toward the failure threshold.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityUnknown Severity = "unknown"
)

var severityRanks = map[Severity]int{
	SeverityError:   3,
	SeverityWarning: 2,
	SeverityInfo:    1,
	SeverityUnknown: 0,
}

// IsValid reports whether s is a known severity.
func (s Severity) IsValid() bool {
	_, ok := severityRanks[s]
	return ok
}

// Rank returns the numeric order of s; higher is more severe.
func (s Severity) Rank() int { return severityRanks[s] }

func (s Severity) String() string { return string(s) }

// AtOrAbove reports whether s meets threshold. Unknown never does.
func (s Severity) AtOrAbove(threshold Severity) bool {
	if s == SeverityUnknown || !s.IsValid() {
		return false
	}
	return s.Rank() >= threshold.Rank()
}

// ParseSeverity parses any known severity, including "unknown".
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(s)
	if !sev.IsValid() {
		return "", fmt.Errorf("invalid severity %q (valid: error, warning, info, unknown)", s)
	}
	return sev, nil
}

// ParseThreshold parses a severity usable as a failure threshold.
func ParseThreshold(s string) (Severity, error) {
	switch sev := Severity(s); sev {
	case SeverityError, SeverityWarning, SeverityInfo:
		return sev, nil
	default:
		return "", fmt.Errorf("invalid threshold %q (valid: error, warning, info)", s)
	}
}

// AllSeverities lists severities from most to least severe.
func AllSeverities() []Severity {
	return []Severity{SeverityError, SeverityWarning, SeverityInfo, SeverityUnknown}
}
