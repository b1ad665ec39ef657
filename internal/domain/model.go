package domain

import (
	"path"
	"strings"
)

// FileKind classifies a scanned source file.
type FileKind string

const (
	KindMarkup     FileKind = "markup"
	KindScript     FileKind = "script"
	KindStylesheet FileKind = "stylesheet"
	KindManifest   FileKind = "manifest"
)

// SourceFile is a file read once per scan. Path is slash-separated and
// relative to the project root.
type SourceFile struct {
	Path    string   `json:"path"`
	Kind    FileKind `json:"kind"`
	Content string   `json:"-"`
}

// SelectorKind is the DOM reference mechanism a selector uses.
type SelectorKind string

const (
	SelectorData    SelectorKind = "data-attribute"
	SelectorClass   SelectorKind = "class"
	SelectorID      SelectorKind = "id"
	SelectorRole    SelectorKind = "role-attribute"
	SelectorElement SelectorKind = "element"
)

// Selector is a single reference to DOM elements found in markup, script or
// stylesheet source.
type Selector struct {
	Kind SelectorKind `json:"kind"`
	// Name is the class, id, role token, element name or full data attribute
	// name (e.g. "data-js-menu").
	Name string `json:"name"`
	// Value holds the attribute value for data selectors such as
	// [data-js="menu"].
	Value   string   `json:"value,omitempty"`
	File    string   `json:"file"`
	Line    int      `json:"line"`
	Source  FileKind `json:"source"`
	Dynamic bool     `json:"dynamic,omitempty"`
}

// Key identifies the selector independent of where it was found.
func (s Selector) Key() string {
	if s.Value != "" {
		return string(s.Kind) + ":" + s.Name + "=" + s.Value
	}
	return string(s.Kind) + ":" + s.Name
}

// InlineCode is an inline <script> block or on*= handler attribute in markup.
type InlineCode struct {
	Line      int    `json:"line"`
	Attribute string `json:"attribute,omitempty"` // empty for <script> blocks
}

// MarkupFile holds the facts extracted from one markup file.
type MarkupFile struct {
	Path      string       `json:"path"`
	Selectors []Selector   `json:"selectors"`
	Inline    []InlineCode `json:"inline,omitempty"`
}

// Declares reports whether the markup declares an element matching sel.
func (m MarkupFile) Declares(sel Selector) bool {
	if sel.Kind == SelectorElement {
		return true
	}
	for _, d := range m.Selectors {
		if d.Dynamic || d.Kind != sel.Kind || d.Name != sel.Name {
			continue
		}
		if sel.Value == "" || d.Value == sel.Value || containsField(d.Value, sel.Value) {
			return true
		}
	}
	return false
}

func containsField(list, token string) bool {
	for _, f := range strings.Fields(list) {
		if f == token {
			return true
		}
	}
	return false
}

// Query is a DOM query call found in a script.
type Query struct {
	Line int    `json:"line"`
	Call string `json:"call"`
	// Raw is the selector literal; empty when Dynamic.
	Raw     string `json:"raw,omitempty"`
	Dynamic bool   `json:"dynamic,omitempty"`
	// Nested queries (.find, .closest, el.querySelector) search below an
	// element already located and never start a top-level selector family.
	Nested bool `json:"nested,omitempty"`
	// TopLevel holds the simple selectors of each group's first compound.
	TopLevel []Selector `json:"top_level,omitempty"`
	// All holds every simple selector in the literal.
	All []Selector `json:"all,omitempty"`
}

// BindingTarget describes what an event listener was attached to.
type BindingTarget string

const (
	TargetSelector BindingTarget = "selector"
	TargetDocument BindingTarget = "document"
	TargetWindow   BindingTarget = "window"
)

// Binding is an event listener registration found in a script.
type Binding struct {
	Line   int           `json:"line"`
	Method string        `json:"method"`
	Event  string        `json:"event,omitempty"`
	Target BindingTarget `json:"target"`
	// Query is the index into ScriptFile.Queries of the bound selector, or -1.
	Query int `json:"query"`
	// Delegated is set when a selector is passed to a document/window level
	// listener, e.g. $(document).on('click', '[data-js-menu]', fn).
	Delegated bool `json:"delegated,omitempty"`
	// Delegate is the delegated selector query index, or -1.
	Delegate int `json:"delegate"`
}

// Global reports whether the binding is attached to document or window.
func (b Binding) Global() bool {
	return b.Target == TargetDocument || b.Target == TargetWindow
}

// RequireKind is the mechanism a manifest uses to pull in a module.
type RequireKind string

const (
	RequireSprockets RequireKind = "sprockets"
	RequireCommonJS  RequireKind = "commonjs"
	RequireImport    RequireKind = "import"
)

// Require is a dependency directive in a script.
type Require struct {
	Line      int         `json:"line"`
	Kind      RequireKind `json:"kind"`
	Directive string      `json:"directive,omitempty"` // sprockets directive name
	Path      string      `json:"path"`
}

// ScriptFile holds the facts extracted from one script file.
type ScriptFile struct {
	Path     string    `json:"path"`
	Queries  []Query   `json:"queries,omitempty"`
	Bindings []Binding `json:"bindings,omitempty"`
	// Guards are emptiness checks on located elements (el.length === 0, !el).
	Guards   []Guard   `json:"guards,omitempty"`
	Requires []Require `json:"requires,omitempty"`
	// ReadyLine is the line of the first document-ready initializer, 0 if none.
	ReadyLine    int  `json:"ready_line,omitempty"`
	IncludeGuard bool `json:"include_guard,omitempty"`
	Manifest     bool `json:"manifest,omitempty"`
}

// GuardedBefore reports whether the element located by the given query is
// checked for emptiness at or before line.
func (s ScriptFile) GuardedBefore(line, query int) bool {
	for _, g := range s.Guards {
		if g.Query == query && g.Line <= line {
			return true
		}
	}
	return false
}

// Guard is an emptiness check on the result of a query.
type Guard struct {
	Line int `json:"line"`
	// Query is the index into ScriptFile.Queries of the checked query.
	Query int `json:"query"`
}

// StylesheetFile holds the class tokens used in a stylesheet's selector lists.
type StylesheetFile struct {
	Path    string     `json:"path"`
	Classes []Selector `json:"classes,omitempty"`
}

// BehaviorFile is a script located in a behaviors directory.
type BehaviorFile struct {
	Path  string     `json:"path"`
	Bound []Selector `json:"bound"`
	// Unresolved holds the lines of bindings whose selector is dynamic.
	Unresolved []int `json:"unresolved,omitempty"`
}

// Name is the file name without directory or extensions.
func (b BehaviorFile) Name() string {
	base := path.Base(b.Path)
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}

// Settings carries the configuration rules need to stay pure functions of
// the project model.
type Settings struct {
	BehaviorsDirs   []string `json:"behaviors_dirs"`
	HelpersDirs     []string `json:"helpers_dirs"`
	GlobalSelectors []string `json:"global_selectors,omitempty"`
	VendorLibraries []string `json:"vendor_libraries,omitempty"`
}

// Project is the immutable intermediate model derived from one scan.
type Project struct {
	Root        string           `json:"root"`
	Files       []SourceFile     `json:"files"`
	Markup      []MarkupFile     `json:"markup"`
	Scripts     []ScriptFile     `json:"scripts"`
	Stylesheets []StylesheetFile `json:"stylesheets"`
	Behaviors   []BehaviorFile   `json:"behaviors"`
	Settings    Settings         `json:"settings"`
}

// Selectors returns every selector declared or referenced in the project,
// in file order.
func (p *Project) Selectors() []Selector {
	var out []Selector
	for _, m := range p.Markup {
		out = append(out, m.Selectors...)
	}
	for _, s := range p.Scripts {
		for _, q := range s.Queries {
			if q.Dynamic {
				out = append(out, Selector{File: s.Path, Line: q.Line, Source: KindScript, Dynamic: true})
				continue
			}
			out = append(out, q.All...)
		}
	}
	for _, css := range p.Stylesheets {
		out = append(out, css.Classes...)
	}
	return out
}

// File returns the source file at path.
func (p *Project) File(rel string) (SourceFile, bool) {
	for _, f := range p.Files {
		if f.Path == rel {
			return f, true
		}
	}
	return SourceFile{}, false
}

// IsBehaviorPath reports whether rel lies inside one of the behaviors dirs.
func (s Settings) IsBehaviorPath(rel string) bool {
	return inDirs(rel, s.BehaviorsDirs)
}

// IsHelperPath reports whether rel lies inside one of the helpers dirs.
func (s Settings) IsHelperPath(rel string) bool {
	return inDirs(rel, s.HelpersDirs)
}

func inDirs(rel string, dirs []string) bool {
	segments := strings.Split(strings.TrimPrefix(rel, "./"), "/")
	for _, seg := range segments[:len(segments)-1] {
		for _, d := range dirs {
			if seg == d {
				return true
			}
		}
	}
	return false
}

// Script returns the extracted facts for the script at rel.
func (p *Project) Script(rel string) (ScriptFile, bool) {
	for _, s := range p.Scripts {
		if s.Path == rel {
			return s, true
		}
	}
	return ScriptFile{}, false
}
