package domain

import "sort"

// Rule ids for findings produced by the scanner rather than a rule.
const (
	RuleEncoding  = "encoding"
	RuleReadError = "read-error"
)

// Violation is a single deviation from a convention. Field names are part of
// the JSON output contract.
type Violation struct {
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// RuleResult maps a rule id to the violations it produced in one scan.
type RuleResult map[string][]Violation

// Flatten returns every violation in deterministic order.
func (r RuleResult) Flatten() []Violation {
	out := make([]Violation, 0)
	for _, vs := range r {
		out = append(out, vs...)
	}
	SortViolations(out)
	return out
}

// SortViolations orders by file, line, rule, then message and severity so
// equal inputs always render identically.
func SortViolations(vs []Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		a, b := vs[i], vs[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		if a.Message != b.Message {
			return a.Message < b.Message
		}
		return a.Severity.Rank() > b.Severity.Rank()
	})
}

// Report is the sorted outcome of one scan.
type Report struct {
	Root       string      `json:"root"`
	Commit     string      `json:"commit,omitempty"`
	Files      int         `json:"files"`
	Threshold  Severity    `json:"threshold"`
	Violations []Violation `json:"violations"`
}

// NewReport flattens results into a sorted report.
func NewReport(root string, files int, threshold Severity, results RuleResult) *Report {
	return &Report{
		Root:       root,
		Files:      files,
		Threshold:  threshold,
		Violations: results.Flatten(),
	}
}

// Counts returns the number of violations per severity.
func (r *Report) Counts() map[Severity]int {
	counts := make(map[Severity]int, 4)
	for _, v := range r.Violations {
		counts[v.Severity]++
	}
	return counts
}

// Failing returns the violations at or above the threshold.
func (r *Report) Failing() []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity.AtOrAbove(r.Threshold) {
			out = append(out, v)
		}
	}
	return out
}

// Failed reports whether any violation reaches the threshold.
func (r *Report) Failed() bool {
	return len(r.Failing()) > 0
}

// ByFile groups violations by file, preserving the report order.
func (r *Report) ByFile() ([]string, map[string][]Violation) {
	var files []string
	grouped := make(map[string][]Violation)
	for _, v := range r.Violations {
		if _, ok := grouped[v.File]; !ok {
			files = append(files, v.File)
		}
		grouped[v.File] = append(grouped[v.File], v)
	}
	return files, grouped
}

// FilterFiles keeps only violations in the given files.
func (r *Report) FilterFiles(only []string) {
	keep := make(map[string]bool, len(only))
	for _, f := range only {
		keep[f] = true
	}
	filtered := make([]Violation, 0, len(r.Violations))
	for _, v := range r.Violations {
		if keep[v.File] {
			filtered = append(filtered, v)
		}
	}
	r.Violations = filtered
}
