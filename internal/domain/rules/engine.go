package rules

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rsjslint/rsjslint/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Engine evaluates the enabled rules of a registry against a project.
type Engine struct {
	registry *Registry
	settings map[string]domain.RuleConfig
	jobs     int
}

// NewEngine creates an engine. settings may disable rules or override their
// severity; unknown rule ids are rejected.
func NewEngine(registry *Registry, settings map[string]domain.RuleConfig, jobs int) (*Engine, error) {
	for id := range settings {
		if _, ok := registry.Get(id); !ok {
			return nil, fmt.Errorf("unknown rule %q in rules", id)
		}
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return &Engine{registry: registry, settings: settings, jobs: jobs}, nil
}

// Enabled returns the rules the engine will run, ordered by id.
func (e *Engine) Enabled() []Rule {
	var out []Rule
	for _, r := range e.registry.All() {
		if e.settings[r.ID].Disabled {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Evaluate runs every enabled rule concurrently. Each rule writes only its
// own slot, so the project model is shared read-only.
func (e *Engine) Evaluate(ctx context.Context, p *domain.Project) (domain.RuleResult, error) {
	enabled := e.Enabled()
	results := make([][]domain.Violation, len(enabled))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.jobs)
	for i, rule := range enabled {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = e.finalize(rule, rule.Check(p))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(domain.RuleResult, len(enabled))
	for i, rule := range enabled {
		out[rule.ID] = results[i]
	}
	return out, nil
}

// finalize stamps rule id and severity onto a rule's violations.
func (e *Engine) finalize(rule Rule, vs []domain.Violation) []domain.Violation {
	sev := rule.Severity
	if override := e.settings[rule.ID].Severity; override != "" {
		sev = override
	}
	out := make([]domain.Violation, 0, len(vs))
	for _, v := range vs {
		v.Rule = rule.ID
		if v.Severity != domain.SeverityUnknown {
			v.Severity = sev
		}
		out = append(out, v)
	}
	domain.SortViolations(out)
	return out
}
