// Package celrule compiles custom rules declared as CEL expressions in the
// project configuration.
package celrule

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/rsjslint/rsjslint/internal/domain"
	"github.com/rsjslint/rsjslint/internal/domain/rules"
)

// Compiler implements application.RuleCompiler. Each custom rule is
// evaluated once per selector in the project with the variables
//
//	selector: {kind, name, value, line, dynamic, source}
//	file:     {path, kind, behavior}
//
// and reports a violation wherever the expression yields true.
type Compiler struct {
	env *cel.Env
}

// New creates a Compiler with the custom rule environment.
func New() (*Compiler, error) {
	env, err := cel.NewEnv(
		cel.Variable("selector", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("file", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("creating CEL environment: %w", err)
	}
	return &Compiler{env: env}, nil
}

// Compile type-checks the expression and returns it as a registry rule.
func (c *Compiler) Compile(cr domain.CustomRule) (rules.Rule, error) {
	ast, iss := c.env.Compile(cr.Expr)
	if iss != nil && iss.Err() != nil {
		return rules.Rule{}, fmt.Errorf("custom rule %q: %w", cr.ID, iss.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return rules.Rule{}, fmt.Errorf("custom rule %q: expression must yield bool, got %s", cr.ID, out)
	}
	prg, err := c.env.Program(ast)
	if err != nil {
		return rules.Rule{}, fmt.Errorf("custom rule %q: %w", cr.ID, err)
	}

	severity := cr.Severity
	if severity == "" {
		severity = domain.SeverityWarning
	}
	message := cr.Message
	if message == "" {
		message = fmt.Sprintf("matches custom rule %s", cr.ID)
	}

	return rules.Rule{
		ID:          cr.ID,
		Version:     1,
		Severity:    severity,
		Description: message,
		Custom:      true,
		Check: func(p *domain.Project) []domain.Violation {
			return evaluate(prg, cr.ID, message, p)
		},
	}, nil
}

func evaluate(prg cel.Program, id, message string, p *domain.Project) []domain.Violation {
	var out []domain.Violation
	seen := make(map[string]bool)
	emit := func(v domain.Violation) {
		key := fmt.Sprintf("%s:%d:%s", v.File, v.Line, v.Message)
		if !seen[key] {
			seen[key] = true
			out = append(out, v)
		}
	}

	for _, s := range p.Selectors() {
		val, _, err := prg.Eval(map[string]any{
			"selector": map[string]any{
				"kind":    string(s.Kind),
				"name":    s.Name,
				"value":   s.Value,
				"line":    int64(s.Line),
				"dynamic": s.Dynamic,
				"source":  string(s.Source),
			},
			"file": map[string]any{
				"path":     s.File,
				"kind":     string(s.Source),
				"behavior": p.Settings.IsBehaviorPath(s.File),
			},
		})
		if err != nil {
			emit(domain.Violation{
				File:     s.File,
				Line:     s.Line,
				Severity: domain.SeverityUnknown,
				Message:  fmt.Sprintf("custom rule %s could not be evaluated: %v", id, err),
			})
			continue
		}
		matched, ok := val.Value().(bool)
		if !ok {
			emit(domain.Violation{
				File:     s.File,
				Line:     s.Line,
				Severity: domain.SeverityUnknown,
				Message:  fmt.Sprintf("custom rule %s yielded %v instead of a bool", id, val.Value()),
			})
			continue
		}
		if matched {
			emit(domain.Violation{File: s.File, Line: s.Line, Message: message})
		}
	}
	return out
}
