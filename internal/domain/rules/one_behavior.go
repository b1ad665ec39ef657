package rules

import (
	"fmt"
	"strings"

	"github.com/rsjslint/rsjslint/internal/domain"
)

// OneBehaviorPerFile flags behavior files binding events to more than one
// top-level selector family.
func OneBehaviorPerFile() Rule {
	return Rule{
		ID:          "one-behavior-per-file",
		Version:     1,
		Severity:    domain.SeverityError,
		Description: "A behavior file binds events to exactly one component (selector family)",
		Check:       checkOneBehaviorPerFile,
	}
}

func checkOneBehaviorPerFile(p *domain.Project) []domain.Violation {
	var out []domain.Violation
	for _, b := range p.Behaviors {
		var families []string
		for _, s := range b.Bound {
			families = append(families, domain.Family(s))
		}
		primary := domain.PrimaryFamilies(families)

		if len(primary) > 1 {
			first := rootFamily(families[0], primary)
			line := b.Bound[0].Line
			for i, s := range b.Bound {
				if rootFamily(families[i], primary) != first {
					line = s.Line
					break
				}
			}
			out = append(out, domain.Violation{
				File: b.Path,
				Line: line,
				Message: fmt.Sprintf("binds %d selector families (%s); split into one behavior file per component",
					len(primary), strings.Join(primary, ", ")),
			})
			continue
		}

		for _, line := range b.Unresolved {
			out = append(out, domain.Violation{
				File:     b.Path,
				Line:     line,
				Severity: domain.SeverityUnknown,
				Message:  "bound selector is built at runtime; cannot confirm the file binds a single component",
			})
		}
	}
	return out
}

// rootFamily returns the primary family f belongs to.
func rootFamily(f string, primary []string) string {
	for _, p := range primary {
		if f == p || strings.HasPrefix(f, p+"-") || strings.HasPrefix(f, p+"__") {
			return p
		}
	}
	return f
}
