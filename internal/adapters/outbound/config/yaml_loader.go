package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rsjslint/rsjslint/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file looked up in the project root.
const FileName = ".rsjslint.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .rsjslint.yaml and
// applying RSJSLINT_* environment overrides.
type YAMLLoader struct {
	// Path, when set, names an explicit config file that must exist.
	Path string
}

// New creates a YAMLLoader reading the project's .rsjslint.yaml.
func New() *YAMLLoader { return &YAMLLoader{} }

// NewWithPath creates a YAMLLoader reading an explicit config file.
func NewWithPath(path string) *YAMLLoader { return &YAMLLoader{Path: path} }

// Load reads the config for projectPath. A missing default file yields
// DefaultConfig with env overrides applied. Every failure is a
// *domain.ConfigurationError.
func (l *YAMLLoader) Load(projectPath string) (domain.ProjectConfig, error) {
	path := l.Path
	if path == "" {
		path = filepath.Join(projectPath, FileName)
	}
	source := filepath.Base(path)

	cfg := domain.DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var file domain.ProjectConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return domain.ProjectConfig{}, &domain.ConfigurationError{Source: source, Err: fmt.Errorf("parsing: %w", err)}
		}
		// Validate before merging; catches typos in the user's raw input.
		if err := file.Validate(); err != nil {
			return domain.ProjectConfig{}, &domain.ConfigurationError{Source: source, Err: err}
		}
		cfg = mergeConfig(cfg, file)
	case errors.Is(err, os.ErrNotExist) && l.Path == "":
	default:
		return domain.ProjectConfig{}, &domain.ConfigurationError{Source: source, Err: err}
	}

	env, err := OverridesFromEnv(os.Getenv)
	if err != nil {
		return domain.ProjectConfig{}, &domain.ConfigurationError{Source: "environment", Err: err}
	}
	cfg, err = Apply(cfg, env)
	if err != nil {
		return domain.ProjectConfig{}, &domain.ConfigurationError{Source: "environment", Err: err}
	}
	return cfg, nil
}

// mergeConfig overlays explicit file values on top of defaults.
// Explicit (non-zero) values always win.
func mergeConfig(base, override domain.ProjectConfig) domain.ProjectConfig {
	result := base

	if len(override.Include) > 0 {
		result.Include = override.Include
	}
	if len(override.Exclude) > 0 {
		result.Exclude = override.Exclude
	}
	if len(override.BehaviorsDirs) > 0 {
		result.BehaviorsDirs = override.BehaviorsDirs
	}
	if len(override.HelpersDirs) > 0 {
		result.HelpersDirs = override.HelpersDirs
	}
	if override.Threshold != "" {
		result.Threshold = override.Threshold
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs > 0 {
		result.Jobs = override.Jobs
	}

	result.GlobalSelectors = override.GlobalSelectors
	result.VendorLibraries = override.VendorLibraries
	result.Rules = override.Rules
	result.CustomRules = override.CustomRules

	return result
}
