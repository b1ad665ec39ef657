package domain

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Output formats.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatSARIF = "sarif"
)

// ValidFormats enumerates the supported report encodings.
var ValidFormats = []string{FormatText, FormatJSON, FormatSARIF}

// Default file patterns, relative to the project root.
var (
	DefaultMarkupPatterns = []string{
		"**/*.{html,htm,erb,ejs,hbs,handlebars,mustache,php,twig,njk,liquid}",
	}
	DefaultStylesheetPatterns = []string{"**/*.{css,scss,less}"}
	DefaultManifestPatterns   = []string{"**/application.js"}
	DefaultExcludePatterns    = []string{
		"**/node_modules/**", "**/vendor/**", "**/bower_components/**",
		"**/dist/**", "**/public/assets/**", "**/*.min.js",
	}
)

// ProjectConfig holds configuration loaded from .rsjslint.yaml.
type ProjectConfig struct {
	Include         []string              `yaml:"include"          json:"include,omitempty"`
	Exclude         []string              `yaml:"exclude"          json:"exclude,omitempty"`
	BehaviorsDirs   []string              `yaml:"behaviors_dirs"   json:"behaviors_dirs,omitempty"`
	HelpersDirs     []string              `yaml:"helpers_dirs"     json:"helpers_dirs,omitempty"`
	Threshold       Severity              `yaml:"threshold"        json:"threshold,omitempty"`
	Format          string                `yaml:"format"           json:"format,omitempty"`
	Jobs            int                   `yaml:"jobs"             json:"jobs,omitempty"`
	GlobalSelectors []string              `yaml:"global_selectors" json:"global_selectors,omitempty"`
	VendorLibraries []string              `yaml:"vendor_libraries" json:"vendor_libraries,omitempty"`
	Rules           map[string]RuleConfig `yaml:"rules"            json:"rules,omitempty"`
	CustomRules     []CustomRule          `yaml:"custom_rules"     json:"custom_rules,omitempty"`
}

// RuleConfig overrides a built-in rule.
type RuleConfig struct {
	Severity Severity `yaml:"severity" json:"severity,omitempty"`
	Disabled bool     `yaml:"disabled" json:"disabled,omitempty"`
}

// CustomRule is a rule declared as a CEL expression evaluated per selector.
type CustomRule struct {
	ID       string   `yaml:"id"       json:"id"`
	Severity Severity `yaml:"severity" json:"severity"`
	Message  string   `yaml:"message"  json:"message"`
	Expr     string   `yaml:"expr"     json:"expr"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{
		BehaviorsDirs: []string{"behaviors"},
		HelpersDirs:   []string{"helpers"},
		Threshold:     SeverityError,
		Format:        FormatText,
	}
}

// EffectiveInclude returns the include globs, defaulting to scripts in the
// behaviors and helpers dirs plus markup, stylesheets and manifests.
func (c ProjectConfig) EffectiveInclude() []string {
	if len(c.Include) > 0 {
		return c.Include
	}
	var out []string
	for _, d := range append(append([]string{}, c.BehaviorsDirs...), c.HelpersDirs...) {
		out = append(out, "**/"+d+"/**/*.{js,mjs,cjs,jsx}")
	}
	out = append(out, DefaultMarkupPatterns...)
	out = append(out, DefaultStylesheetPatterns...)
	out = append(out, DefaultManifestPatterns...)
	return out
}

// EffectiveExclude returns the exclude globs, always including the defaults.
func (c ProjectConfig) EffectiveExclude() []string {
	return append(append([]string{}, DefaultExcludePatterns...), c.Exclude...)
}

// Settings extracts the values rules consult.
func (c ProjectConfig) Settings() Settings {
	return Settings{
		BehaviorsDirs:   c.BehaviorsDirs,
		HelpersDirs:     c.HelpersDirs,
		GlobalSelectors: c.GlobalSelectors,
		VendorLibraries: c.VendorLibraries,
	}
}

// RuleSetting returns the override for a rule, if any.
func (c ProjectConfig) RuleSetting(id string) RuleConfig {
	return c.Rules[id]
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c ProjectConfig) Validate() error {
	if c.Threshold != "" {
		if _, err := ParseThreshold(string(c.Threshold)); err != nil {
			return err
		}
	}

	if c.Format != "" && !contains(ValidFormats, c.Format) {
		return fmt.Errorf("unknown format %q (valid: %s)", c.Format, strings.Join(ValidFormats, ", "))
	}

	if c.Jobs < 0 {
		return fmt.Errorf("jobs must be >= 0 (got %d)", c.Jobs)
	}

	for _, p := range c.Include {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid include pattern %q", p)
		}
	}
	for _, p := range c.Exclude {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid exclude pattern %q", p)
		}
	}

	for _, d := range append(append([]string{}, c.BehaviorsDirs...), c.HelpersDirs...) {
		if d == "" || strings.ContainsAny(d, `/\`) {
			return fmt.Errorf("directory names must be single path segments (got %q)", d)
		}
	}

	for id, rc := range c.Rules {
		if rc.Severity == "" {
			continue
		}
		if rc.Severity == SeverityUnknown || !rc.Severity.IsValid() {
			return fmt.Errorf("rules[%q].severity %q is invalid (valid: error, warning, info)", id, rc.Severity)
		}
	}

	seen := make(map[string]bool, len(c.CustomRules))
	for i, cr := range c.CustomRules {
		if cr.ID == "" {
			return fmt.Errorf("custom_rules[%d].id must not be empty", i)
		}
		if seen[cr.ID] {
			return fmt.Errorf("custom_rules[%d].id %q is declared twice", i, cr.ID)
		}
		seen[cr.ID] = true
		if cr.Expr == "" {
			return fmt.Errorf("custom_rules[%d].expr must not be empty", i)
		}
		if cr.Severity != "" && (cr.Severity == SeverityUnknown || !cr.Severity.IsValid()) {
			return fmt.Errorf("custom_rules[%d].severity %q is invalid (valid: error, warning, info)", i, cr.Severity)
		}
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
