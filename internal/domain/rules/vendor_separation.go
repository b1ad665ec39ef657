package rules

import (
	"fmt"
	"path"
	"strings"

	"github.com/rsjslint/rsjslint/internal/domain"
)

// VendorSeparation flags manifests that bundle third-party libraries with
// application behaviors.
func VendorSeparation() Rule {
	return Rule{
		ID:          "vendor-separation",
		Version:     1,
		Severity:    domain.SeverityWarning,
		Description: "Third-party libraries are bundled separately from application behaviors",
		Check:       checkVendorSeparation,
	}
}

func checkVendorSeparation(p *domain.Project) []domain.Violation {
	var out []domain.Violation
	for _, script := range p.Scripts {
		if !script.Manifest {
			continue
		}
		behaviors := false
		for _, r := range script.Requires {
			if requiresBehavior(p.Settings, r) {
				behaviors = true
				break
			}
		}
		if !behaviors {
			continue
		}
		for _, r := range script.Requires {
			if !requiresVendor(p.Settings, r) {
				continue
			}
			out = append(out, domain.Violation{
				File: script.Path,
				Line: r.Line,
				Message: fmt.Sprintf("third-party library %q is bundled with application behaviors; move it to a separate vendor bundle",
					r.Path),
			})
		}
	}
	return out
}

func requiresBehavior(s domain.Settings, r domain.Require) bool {
	for _, seg := range strings.Split(strings.Trim(r.Path, "./"), "/") {
		for _, d := range s.BehaviorsDirs {
			if seg == d {
				return true
			}
		}
	}
	return false
}

func requiresVendor(s domain.Settings, r domain.Require) bool {
	if r.Path == "" || r.Directive == "require_self" {
		return false
	}
	name := strings.TrimSuffix(path.Base(r.Path), path.Ext(r.Path))
	for _, lib := range s.VendorLibraries {
		if r.Path == lib || name == lib || strings.HasPrefix(r.Path, lib+"/") {
			return true
		}
	}
	if r.Path == "." || strings.HasPrefix(r.Path, "./") || strings.HasPrefix(r.Path, "../") || strings.HasPrefix(r.Path, "/") {
		return false
	}
	if requiresBehavior(s, r) || inHelpers(s, r.Path) {
		return false
	}
	if strings.HasPrefix(r.Path, "vendor/") {
		return true
	}
	switch r.Kind {
	case domain.RequireSprockets:
		if r.Directive == "require_tree" || r.Directive == "require_directory" {
			return false
		}
		return !strings.Contains(r.Path, "/")
	default:
		// Bare module specifiers resolve to installed packages.
		return true
	}
}

func inHelpers(s domain.Settings, p string) bool {
	for _, seg := range strings.Split(p, "/") {
		for _, d := range s.HelpersDirs {
			if seg == d {
				return true
			}
		}
	}
	return false
}
