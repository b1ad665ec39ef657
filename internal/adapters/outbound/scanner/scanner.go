package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rsjslint/rsjslint/internal/domain"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var skipDirs = map[string]bool{
	".git":             true,
	".hg":              true,
	".svn":             true,
	"node_modules":     true,
	"bower_components": true,
}

var kinds = map[string]domain.FileKind{
	".js":         domain.KindScript,
	".mjs":        domain.KindScript,
	".cjs":        domain.KindScript,
	".jsx":        domain.KindScript,
	".css":        domain.KindStylesheet,
	".scss":       domain.KindStylesheet,
	".less":       domain.KindStylesheet,
	".html":       domain.KindMarkup,
	".htm":        domain.KindMarkup,
	".erb":        domain.KindMarkup,
	".ejs":        domain.KindMarkup,
	".hbs":        domain.KindMarkup,
	".handlebars": domain.KindMarkup,
	".mustache":   domain.KindMarkup,
	".php":        domain.KindMarkup,
	".twig":       domain.KindMarkup,
	".njk":        domain.KindMarkup,
	".liquid":     domain.KindMarkup,
}

// SkipDir reports whether a directory is never descended into.
func SkipDir(name string) bool { return skipDirs[name] }

// KindOf classifies a file by extension. Template extensions stacked on an
// html file (index.html.erb) count as markup.
func KindOf(name string) (domain.FileKind, bool) {
	k, ok := kinds[strings.ToLower(path.Ext(name))]
	return k, ok
}

// FileScanner implements domain.ProjectScanner by walking the filesystem.
type FileScanner struct{}

func New() *FileScanner {
	return &FileScanner{}
}

// Scan walks root and reads every file matching the include globs and none
// of the exclude globs. An unreadable root is a *domain.IOError; failures on
// individual files become diagnostics and the scan continues.
func (s *FileScanner) Scan(ctx context.Context, root string, opts domain.ScanOptions) (*domain.ScanResult, error) {
	absPath, err := filepath.Abs(root)
	if err != nil {
		return nil, &domain.IOError{Path: root, Err: err}
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, &domain.IOError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &domain.IOError{Path: root, Err: errors.New("not a directory")}
	}

	result := &domain.ScanResult{Root: absPath}

	var paths []string
	err = filepath.WalkDir(absPath, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if p == absPath {
				return &domain.IOError{Path: root, Err: err}
			}
			result.Diagnostics = append(result.Diagnostics, readError(absPath, p, err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if p != absPath && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		rel := relPath(absPath, p)
		if !matchAny(opts.Include, rel) || matchAny(opts.Exclude, rel) {
			return nil
		}
		if _, ok := KindOf(d.Name()); !ok {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	files, diags, err := readAll(ctx, absPath, paths, opts.Jobs)
	if err != nil {
		return nil, err
	}

	for _, f := range files {
		if f.Path != "" {
			result.Files = append(result.Files, f)
		}
	}
	for _, d := range diags {
		if d != nil {
			result.Diagnostics = append(result.Diagnostics, *d)
		}
	}
	domain.SortViolations(result.Diagnostics)
	return result, nil
}

// readAll reads paths concurrently. Each worker fills only its own slot.
func readAll(ctx context.Context, root string, paths []string, jobs int) ([]domain.SourceFile, []*domain.Violation, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	files := make([]domain.SourceFile, len(paths))
	diags := make([]*domain.Violation, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, rel := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			file, diag := readFile(root, rel)
			files[i] = file
			diags[i] = diag
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return files, diags, nil
}

func readFile(root, rel string) (domain.SourceFile, *domain.Violation) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		v := readError(root, filepath.Join(root, filepath.FromSlash(rel)), err)
		return domain.SourceFile{}, &v
	}
	content, err := Decode(rel, data)
	if err != nil {
		var encErr *domain.EncodingError
		if errors.As(err, &encErr) {
			v := encErr.Violation()
			return domain.SourceFile{}, &v
		}
		v := readError(root, filepath.Join(root, filepath.FromSlash(rel)), err)
		return domain.SourceFile{}, &v
	}
	kind, _ := KindOf(rel)
	return domain.SourceFile{Path: rel, Kind: kind, Content: content}, nil
}

// Decode converts raw file bytes to text. A byte order mark selects UTF-8 or
// UTF-16 decoding; content without one must be valid UTF-8.
func Decode(rel string, data []byte) (string, error) {
	out, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", rel, err)
	}
	if !utf8.Valid(out) {
		return "", &domain.EncodingError{Path: rel, Offset: invalidOffset(out)}
	}
	if bytes.IndexByte(out, 0) >= 0 {
		return "", &domain.EncodingError{Path: rel, Offset: bytes.IndexByte(out, 0)}
	}
	return string(out), nil
}

func invalidOffset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}

func readError(root, p string, err error) domain.Violation {
	return domain.Violation{
		File:     relPath(root, p),
		Rule:     domain.RuleReadError,
		Severity: domain.SeverityWarning,
		Message:  fmt.Sprintf("file could not be read: %v", unwrapPath(err)),
	}
}

// unwrapPath drops the absolute path *fs.PathError prefixes so messages stay
// independent of where the project is checked out.
func unwrapPath(err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}

func relPath(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
