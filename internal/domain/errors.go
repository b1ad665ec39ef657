package domain

import "fmt"

// IOError reports an unreadable project root. It aborts the scan.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// EncodingError reports a file whose content is not decodable text. It is
// recorded as a file-level warning and the scan continues.
type EncodingError struct {
	Path   string
	Offset int
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%s is not valid UTF-8 text (first invalid byte at offset %d)", e.Path, e.Offset)
}

// ConfigurationError reports invalid flags or configuration. It is raised
// before the scan starts.
type ConfigurationError struct {
	Source string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("invalid configuration: %v", e.Err)
	}
	return fmt.Sprintf("invalid configuration in %s: %v", e.Source, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Violation converts the encoding failure into its file-level finding.
func (e *EncodingError) Violation() Violation {
	return Violation{
		File:     e.Path,
		Line:     0,
		Rule:     RuleEncoding,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("file is not valid UTF-8 text (first invalid byte at offset %d)", e.Offset),
	}
}
