package rules

import (
	"fmt"

	"github.com/rsjslint/rsjslint/internal/domain"
)

// NoInlineScript flags <script> blocks and on*= attributes in markup.
func NoInlineScript() Rule {
	return Rule{
		ID:          "no-inline-script",
		Version:     1,
		Severity:    domain.SeverityError,
		Description: "Markup must not contain inline <script> blocks or on*= event handler attributes",
		Check:       checkNoInlineScript,
	}
}

func checkNoInlineScript(p *domain.Project) []domain.Violation {
	var out []domain.Violation
	for _, m := range p.Markup {
		for _, in := range m.Inline {
			msg := "inline <script> block; move the code into a behavior file"
			if in.Attribute != "" {
				msg = fmt.Sprintf("inline %s= event handler; bind the event from a behavior file", in.Attribute)
			}
			out = append(out, domain.Violation{File: m.Path, Line: in.Line, Message: msg})
		}
	}
	return out
}
