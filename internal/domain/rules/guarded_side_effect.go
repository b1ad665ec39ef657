package rules

import (
	"fmt"
	"strings"

	"github.com/rsjslint/rsjslint/internal/domain"
)

// lifecycleEvents fire once per page and are not side effects of a
// component being present.
var lifecycleEvents = map[string]bool{
	"ready":            true,
	"DOMContentLoaded": true,
	"load":             true,
	"turbolinks:load":  true,
	"turbo:load":       true,
	"page:load":        true,
	"page:change":      true,
}

// GuardedSideEffect flags document or window level listeners registered
// while the file's component may be absent from the page.
func GuardedSideEffect() Rule {
	return Rule{
		ID:          "guarded-side-effect",
		Version:     1,
		Severity:    domain.SeverityWarning,
		Description: "Global listeners must be delegated or registered only when the component is present",
		Check:       checkGuardedSideEffect,
	}
}

func checkGuardedSideEffect(p *domain.Project) []domain.Violation {
	var out []domain.Violation
	for _, script := range p.Scripts {
		if script.Manifest {
			continue
		}
		for _, b := range script.Bindings {
			if !b.Global() || b.Delegated || isLifecycle(b.Event) {
				continue
			}
			if v, ok := unguardedListener(p, script, b); ok {
				out = append(out, v)
			}
		}
	}
	return out
}

func isLifecycle(event string) bool {
	for _, e := range strings.Fields(event) {
		if !lifecycleEvents[e] {
			return false
		}
	}
	return event != ""
}

// unguardedListener decides whether the component the script is scoped to
// is guaranteed to be on every page that loads it. Queries checked for
// emptiness before the listener is registered count as present.
func unguardedListener(p *domain.Project, script domain.ScriptFile, b domain.Binding) (domain.Violation, bool) {
	delegates := make(map[int]bool)
	for _, other := range script.Bindings {
		if other.Delegate >= 0 {
			delegates[other.Delegate] = true
		}
	}

	var missing []string
	dynamic := false
	for i, q := range script.Queries {
		if q.Nested || delegates[i] || script.GuardedBefore(b.Line, i) {
			continue
		}
		if q.Dynamic {
			dynamic = true
			continue
		}
		if !guaranteed(p, q) {
			missing = append(missing, q.Raw)
		}
	}

	target := string(b.Target)
	switch {
	case len(missing) > 0:
		return domain.Violation{
			File: script.Path,
			Line: b.Line,
			Message: fmt.Sprintf("%s listener for %q is registered even when %s is absent; delegate the event or check the element exists first",
				target, eventName(b), missing[0]),
		}, true
	case dynamic:
		return domain.Violation{
			File:     script.Path,
			Line:     b.Line,
			Severity: domain.SeverityUnknown,
			Message:  fmt.Sprintf("%s listener for %q depends on a selector built at runtime; cannot tell whether it is guarded", target, eventName(b)),
		}, true
	}
	return domain.Violation{}, false
}

func eventName(b domain.Binding) string {
	if b.Event != "" {
		return b.Event
	}
	return b.Method
}

// guaranteed reports whether every element q selects is present on all
// pages: html and body, configured global selectors, or selectors declared
// by every markup file.
func guaranteed(p *domain.Project, q domain.Query) bool {
	for _, g := range p.Settings.GlobalSelectors {
		if strings.TrimSpace(g) == strings.TrimSpace(q.Raw) {
			return true
		}
	}
	if len(q.TopLevel) == 0 {
		return false
	}
	for _, s := range q.TopLevel {
		if s.Kind == domain.SelectorElement && (s.Name == "html" || s.Name == "body") {
			continue
		}
		if len(p.Markup) == 0 {
			return false
		}
		for _, m := range p.Markup {
			if !m.Declares(s) {
				return false
			}
		}
	}
	return true
}
