package application

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/rsjslint/rsjslint/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Extractors bundles the per-kind fact extractors.
type Extractors struct {
	Markup     domain.MarkupExtractor
	Script     domain.ScriptExtractor
	Stylesheet domain.StylesheetExtractor
}

// extracted is one file's slot in a parallel extraction.
type extracted struct {
	markup *domain.MarkupFile
	script *domain.ScriptFile
	style  *domain.StylesheetFile
	diag   *domain.Violation
}

// BuildProject derives the project model from scanned files. Files are
// processed in path order so the model does not depend on scan order.
// Files an extractor rejects are returned as read-error findings.
func BuildProject(ctx context.Context, scan *domain.ScanResult, settings domain.Settings, ex Extractors, jobs int) (*domain.Project, []domain.Violation, error) {
	files := append([]domain.SourceFile(nil), scan.Files...)
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	slots := make([]extracted, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i] = extract(f, ex)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	p := &domain.Project{Root: scan.Root, Settings: settings}
	var diags []domain.Violation
	for i, slot := range slots {
		switch {
		case slot.diag != nil:
			diags = append(diags, *slot.diag)
			continue
		case slot.markup != nil:
			p.Markup = append(p.Markup, *slot.markup)
		case slot.style != nil:
			p.Stylesheets = append(p.Stylesheets, *slot.style)
		case slot.script != nil:
			script := *slot.script
			if !script.Manifest && pullsInBehaviors(settings, script.Requires) {
				script.Manifest = true
			}
			if script.Manifest {
				files[i].Kind = domain.KindManifest
			} else if settings.IsBehaviorPath(script.Path) {
				p.Behaviors = append(p.Behaviors, behaviorOf(script))
			}
			p.Scripts = append(p.Scripts, script)
		}
		p.Files = append(p.Files, files[i])
	}
	return p, diags, nil
}

func extract(f domain.SourceFile, ex Extractors) extracted {
	var (
		out extracted
		err error
	)
	switch f.Kind {
	case domain.KindMarkup:
		var m domain.MarkupFile
		if m, err = ex.Markup.ExtractMarkup(f); err == nil {
			out.markup = &m
		}
	case domain.KindStylesheet:
		var s domain.StylesheetFile
		if s, err = ex.Stylesheet.ExtractStylesheet(f); err == nil {
			out.style = &s
		}
	case domain.KindScript, domain.KindManifest:
		var s domain.ScriptFile
		if s, err = ex.Script.ExtractScript(f); err == nil {
			out.script = &s
		}
	default:
		err = fmt.Errorf("unsupported file kind %q", f.Kind)
	}
	if err != nil {
		out.diag = &domain.Violation{
			File:     f.Path,
			Rule:     domain.RuleReadError,
			Severity: domain.SeverityWarning,
			Message:  fmt.Sprintf("could not extract facts: %v", err),
		}
	}
	return out
}

// pullsInBehaviors reports whether any require points into a behaviors dir.
func pullsInBehaviors(settings domain.Settings, requires []domain.Require) bool {
	for _, r := range requires {
		for _, seg := range strings.Split(strings.Trim(r.Path, "./"), "/") {
			for _, d := range settings.BehaviorsDirs {
				if seg == d {
					return true
				}
			}
		}
	}
	return false
}

// behaviorOf collects the top-level selectors a behavior file binds events
// to. Bindings on document or window contribute only their delegated
// selector.
func behaviorOf(script domain.ScriptFile) domain.BehaviorFile {
	b := domain.BehaviorFile{Path: script.Path}
	unresolved := make(map[int]bool)

	add := func(idx, line int) {
		if idx < 0 || idx >= len(script.Queries) {
			return
		}
		q := script.Queries[idx]
		if q.Dynamic {
			unresolved[line] = true
			return
		}
		b.Bound = append(b.Bound, q.TopLevel...)
	}

	for _, bind := range script.Bindings {
		if bind.Query >= 0 && bind.Query < len(script.Queries) && !script.Queries[bind.Query].Nested {
			add(bind.Query, bind.Line)
		}
		add(bind.Delegate, bind.Line)
	}

	for line := range unresolved {
		b.Unresolved = append(b.Unresolved, line)
	}
	sort.Ints(b.Unresolved)
	return b
}
