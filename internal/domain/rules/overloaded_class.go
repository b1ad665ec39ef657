package rules

import (
	"fmt"

	"github.com/rsjslint/rsjslint/internal/domain"
)

// NoOverloadedClass flags classes that serve both as styling hooks and as
// script hooks. A class is a styling hook when a stylesheet selector or a
// markup class attribute uses it.
func NoOverloadedClass() Rule {
	return Rule{
		ID:          "no-overloaded-class",
		Version:     1,
		Severity:    domain.SeverityError,
		Description: "Scripts must not query styling classes; use js- prefixed classes or data-js attributes",
		Check:       checkNoOverloadedClass,
	}
}

func checkNoOverloadedClass(p *domain.Project) []domain.Violation {
	styled := make(map[string]string)
	for _, css := range p.Stylesheets {
		for _, c := range css.Classes {
			if _, ok := styled[c.Name]; !ok {
				styled[c.Name] = "stylesheet " + css.Path
			}
		}
	}
	for _, m := range p.Markup {
		for _, s := range m.Selectors {
			if s.Kind != domain.SelectorClass || s.Dynamic {
				continue
			}
			if _, ok := styled[s.Name]; !ok {
				styled[s.Name] = "markup " + m.Path
			}
		}
	}

	var out []domain.Violation
	for _, script := range p.Scripts {
		seen := make(map[string]bool)
		for _, q := range script.Queries {
			if q.Dynamic {
				if q.Call == "getElementById" {
					continue
				}
				out = append(out, domain.Violation{
					File:     script.Path,
					Line:     q.Line,
					Severity: domain.SeverityUnknown,
					Message:  fmt.Sprintf("%s selector is built at runtime; cannot check it for styling classes", q.Call),
				})
				continue
			}
			for _, s := range q.All {
				if s.Kind != domain.SelectorClass || domain.HasJSPrefix(s) {
					continue
				}
				where, ok := styled[s.Name]
				if !ok {
					continue
				}
				key := fmt.Sprintf("%d:%s", q.Line, s.Name)
				if seen[key] {
					continue
				}
				seen[key] = true
				out = append(out, domain.Violation{
					File: script.Path,
					Line: q.Line,
					Message: fmt.Sprintf("class %q is a styling hook (%s) and is queried from script; use .js-%s or [data-js-%s]",
						s.Name, where, s.Name, s.Name),
				})
			}
		}
	}
	return out
}
