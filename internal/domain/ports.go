package domain

import "context"

// ProjectScanner walks a project directory and reads its source files.
type ProjectScanner interface {
	Scan(ctx context.Context, root string, opts ScanOptions) (*ScanResult, error)
}

// ScanOptions selects which files a scan reads.
type ScanOptions struct {
	Include []string
	Exclude []string
	Jobs    int
}

// ScanResult holds the files read by a scan and the file-level findings
// (encoding and read failures) that did not abort it.
type ScanResult struct {
	Root        string       `json:"root"`
	Files       []SourceFile `json:"files"`
	Diagnostics []Violation  `json:"diagnostics,omitempty"`
}

// MarkupExtractor derives selectors and inline code from a markup file.
type MarkupExtractor interface {
	ExtractMarkup(file SourceFile) (MarkupFile, error)
}

// ScriptExtractor derives queries, bindings and requires from a script.
type ScriptExtractor interface {
	ExtractScript(file SourceFile) (ScriptFile, error)
}

// StylesheetExtractor derives the classes used in a stylesheet's selectors.
type StylesheetExtractor interface {
	ExtractStylesheet(file SourceFile) (StylesheetFile, error)
}

// ConfigLoader loads project configuration.
type ConfigLoader interface {
	Load(projectPath string) (ProjectConfig, error)
}

// ChangeDetector reads version-control state of a working tree.
type ChangeDetector interface {
	IsGitRepo(projectPath string) bool
	// ChangedFiles lists modified and untracked files relative to projectPath.
	ChangedFiles(projectPath string) ([]string, error)
	CommitHash(projectPath string) (string, error)
}
