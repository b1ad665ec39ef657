// Package report encodes lint reports for terminals and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rsjslint/rsjslint/internal/adapters/outbound/tui"
	"github.com/rsjslint/rsjslint/internal/domain"
	"github.com/rsjslint/rsjslint/internal/domain/rules"
)

// Writer encodes reports in one of the supported formats.
type Writer struct {
	// Rules describes the rules for formats that embed rule metadata.
	Rules []rules.Rule
	// Version is the tool version stamped into SARIF output.
	Version string
}

// New creates a writer.
func New(ruleList []rules.Rule, version string) *Writer {
	return &Writer{Rules: ruleList, Version: version}
}

// Write encodes report to w in format.
func (wr *Writer) Write(w io.Writer, format string, report *domain.Report) error {
	switch format {
	case domain.FormatText, "":
		_, err := io.WriteString(w, tui.RenderReport(report))
		return err
	case domain.FormatJSON:
		return WriteJSON(w, report)
	case domain.FormatSARIF:
		return WriteSARIF(w, report, wr.Rules, wr.Version)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// WriteJSON writes the violations as an indented JSON array. An empty report
// is written as [].
func WriteJSON(w io.Writer, report *domain.Report) error {
	violations := report.Violations
	if violations == nil {
		violations = []domain.Violation{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(violations)
}
