package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rsjslint/rsjslint/internal/domain"
	"github.com/rsjslint/rsjslint/internal/domain/rules"
)

// ── warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
	unknown = lipgloss.Color("#A78BFA") // violet
)

var (
	dimStyle        = lipgloss.NewStyle().Foreground(dim)
	faintStyle      = lipgloss.NewStyle().Foreground(faint)
	passStyle       = lipgloss.NewStyle().Foreground(success).Bold(true)
	failStyle       = lipgloss.NewStyle().Foreground(danger).Bold(true)
	errorTagStyle   = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle    = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle    = lipgloss.NewStyle().Foreground(info)
	unknownTagStyle = lipgloss.NewStyle().Foreground(unknown)
	fileStyle       = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(fg)
	ruleStyle       = lipgloss.NewStyle().Foreground(dim)
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(accent)
	separatorLine   = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderReport formats a report for the terminal, grouped by file in report
// order.
func RenderReport(report *domain.Report) string {
	var b strings.Builder

	files, grouped := report.ByFile()
	for _, file := range files {
		b.WriteString(fileStyle.Render(file))
		b.WriteString("\n")
		vs := grouped[file]
		width := 0
		for _, v := range vs {
			width = max(width, len(location(v)))
		}
		for _, v := range vs {
			fmt.Fprintf(&b, "  %s  %s  %s  %s\n",
				dimStyle.Render(padRight(location(v), width)),
				severityTag(v.Severity),
				v.Message,
				ruleStyle.Render(v.Rule),
			)
		}
		b.WriteString("\n")
	}

	b.WriteString(summary(report))
	b.WriteString("\n")
	return b.String()
}

func location(v domain.Violation) string {
	if v.Line == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", v.Line)
}

func summary(report *domain.Report) string {
	counts := report.Counts()
	total := len(report.Violations)
	scanned := fmt.Sprintf("%d %s scanned", report.Files, plural(report.Files, "file", "files"))

	if total == 0 {
		return passStyle.Render("✓ no violations") + "  " + dimStyle.Render(scanned)
	}

	breakdown := fmt.Sprintf("%d error, %d warning, %d info, %d unknown",
		counts[domain.SeverityError], counts[domain.SeverityWarning],
		counts[domain.SeverityInfo], counts[domain.SeverityUnknown])
	head := fmt.Sprintf("%d %s (%s)", total, plural(total, "violation", "violations"), breakdown)

	if report.Failed() {
		failing := len(report.Failing())
		return failStyle.Render("✖ "+head) + "\n" +
			dimStyle.Render(fmt.Sprintf("%d at or above threshold %q; %s", failing, report.Threshold, scanned))
	}
	return passStyle.Render("✓ "+head) + "\n" +
		dimStyle.Render(fmt.Sprintf("none at or above threshold %q; %s", report.Threshold, scanned))
}

func severityTag(severity domain.Severity) string {
	switch severity {
	case domain.SeverityError:
		return errorTagStyle.Render("error  ")
	case domain.SeverityWarning:
		return warnTagStyle.Render("warning")
	case domain.SeverityInfo:
		return infoTagStyle.Render("info   ")
	default:
		return unknownTagStyle.Render("unknown")
	}
}

// RenderRules lists registered rules with their default severities.
func RenderRules(list []rules.Rule) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("rsjslint rules"))
	b.WriteString("\n")
	b.WriteString(separatorLine)
	b.WriteString("\n")

	width := 0
	for _, r := range list {
		width = max(width, len(ruleLabel(r)))
	}
	for _, r := range list {
		fmt.Fprintf(&b, "  %s  %s  %s %s\n",
			padRight(ruleLabel(r), width),
			severityTag(r.Severity),
			r.Description,
			faintStyle.Render(fmt.Sprintf("v%d", r.Version)),
		)
	}
	for _, r := range list {
		if r.Custom {
			b.WriteString("\n")
			b.WriteString(dimStyle.Render("  * declared in custom_rules"))
			b.WriteString("\n")
			break
		}
	}
	return b.String()
}

// ruleLabel is the rule id, marked with * when declared in custom_rules.
func ruleLabel(r rules.Rule) string {
	if r.Custom {
		return r.ID + "*"
	}
	return r.ID
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
