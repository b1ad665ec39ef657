package rules

import (
	"fmt"
	"strings"

	"github.com/fatih/camelcase"
	"github.com/rsjslint/rsjslint/internal/domain"
)

// BehaviorFileNaming flags behavior files whose name differs from the
// component they bind.
func BehaviorFileNaming() Rule {
	return Rule{
		ID:          "behavior-file-naming",
		Version:     1,
		Severity:    domain.SeverityInfo,
		Description: "A behavior file is named after the component it binds",
		Check:       checkBehaviorFileNaming,
	}
}

func checkBehaviorFileNaming(p *domain.Project) []domain.Violation {
	var out []domain.Violation
	for _, b := range p.Behaviors {
		var families []string
		for _, s := range b.Bound {
			families = append(families, domain.Family(s))
		}
		primary := domain.PrimaryFamilies(families)
		if len(primary) != 1 {
			continue
		}
		family := normalizeName(primary[0])
		if name := normalizeName(b.Name()); name != family {
			out = append(out, domain.Violation{
				File:    b.Path,
				Line:    b.Bound[0].Line,
				Message: fmt.Sprintf("file binds %q; rename it to %s.js", primary[0], family),
			})
		}
	}
	return out
}

// normalizeName converts snake_case, kebab-case and camelCase identifiers to
// lower kebab-case.
func normalizeName(s string) string {
	var words []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' }) {
		for _, w := range camelcase.Split(part) {
			words = append(words, strings.ToLower(w))
		}
	}
	return strings.Join(words, "-")
}
