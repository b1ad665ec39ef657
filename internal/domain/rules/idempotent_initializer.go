package rules

import (
	"github.com/rsjslint/rsjslint/internal/domain"
)

// IdempotentInitializer flags behavior files that bind elements on document
// ready without marking them as initialized, so re-running the initializer
// after a partial page load binds twice.
func IdempotentInitializer() Rule {
	return Rule{
		ID:          "idempotent-initializer",
		Version:     1,
		Severity:    domain.SeverityInfo,
		Description: "Behavior initializers are safe to run more than once",
		Check:       checkIdempotentInitializer,
	}
}

func checkIdempotentInitializer(p *domain.Project) []domain.Violation {
	var out []domain.Violation
	for _, script := range p.Scripts {
		if script.ReadyLine == 0 || script.IncludeGuard || !p.Settings.IsBehaviorPath(script.Path) {
			continue
		}
		for _, b := range script.Bindings {
			if b.Target != domain.TargetSelector {
				continue
			}
			out = append(out, domain.Violation{
				File:    script.Path,
				Line:    script.ReadyLine,
				Message: "initializer binds elements without an include guard; mark initialized elements so a second run skips them",
			})
			break
		}
	}
	return out
}
