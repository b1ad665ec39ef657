// Package rules holds the convention rules. Each rule is an independent pure
// function of the project model, registered under its identifier.
package rules

import (
	"fmt"
	"sort"

	"github.com/rsjslint/rsjslint/internal/domain"
)

// Func evaluates a rule. Violations may leave Severity empty to take the
// rule's effective severity; SeverityUnknown is kept as is.
type Func func(p *domain.Project) []domain.Violation

// Rule is a registry entry.
type Rule struct {
	ID          string          `json:"id"`
	Version     int             `json:"version"`
	Severity    domain.Severity `json:"severity"`
	Description string          `json:"description"`
	Custom      bool            `json:"custom,omitempty"`
	Check       Func            `json:"-"`
}

// Registry is a set of rules keyed by identifier.
type Registry struct {
	rules map[string]Rule
}

// NewRegistry creates a registry holding rules.
func NewRegistry(rules ...Rule) (*Registry, error) {
	r := &Registry{rules: make(map[string]Rule, len(rules))}
	for _, rule := range rules {
		if err := r.Register(rule); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Default returns a registry of the built-in rules.
func Default() *Registry {
	r, err := NewRegistry(Builtin()...)
	if err != nil {
		panic(err)
	}
	return r
}

// Register adds a rule. Identifiers must be unique.
func (r *Registry) Register(rule Rule) error {
	if rule.ID == "" {
		return fmt.Errorf("rule id must not be empty")
	}
	if rule.Check == nil {
		return fmt.Errorf("rule %q has no check function", rule.ID)
	}
	if !rule.Severity.IsValid() || rule.Severity == domain.SeverityUnknown {
		return fmt.Errorf("rule %q has invalid severity %q", rule.ID, rule.Severity)
	}
	if rule.ID == domain.RuleEncoding || rule.ID == domain.RuleReadError {
		return fmt.Errorf("rule id %q is reserved", rule.ID)
	}
	if _, ok := r.rules[rule.ID]; ok {
		return fmt.Errorf("rule %q is already registered", rule.ID)
	}
	r.rules[rule.ID] = rule
	return nil
}

// Get returns the rule registered under id.
func (r *Registry) Get(id string) (Rule, bool) {
	rule, ok := r.rules[id]
	return rule, ok
}

// All returns every rule ordered by id.
func (r *Registry) All() []Rule {
	out := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, rule)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Builtin returns the built-in rules.
func Builtin() []Rule {
	return []Rule{
		NoInlineScript(),
		OneBehaviorPerFile(),
		NoOverloadedClass(),
		GuardedSideEffect(),
		VendorSeparation(),
		BehaviorFileNaming(),
		IdempotentInitializer(),
	}
}
