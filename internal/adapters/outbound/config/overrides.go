package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rsjslint/rsjslint/internal/domain"
)

const (
	envThreshold = "RSJSLINT_THRESHOLD"
	envFormat    = "RSJSLINT_FORMAT"
	envJobs      = "RSJSLINT_JOBS"
)

// Overrides captures values coming from env vars or CLI flags. Zero values
// leave the underlying config untouched.
type Overrides struct {
	Include   []string
	Exclude   []string
	Threshold string
	Format    string
	Jobs      int
	JobsSet   bool
	Disable   []string
}

// OverridesFromEnv reads RSJSLINT_* variables through getenv.
func OverridesFromEnv(getenv func(string) string) (Overrides, error) {
	ov := Overrides{
		Threshold: strings.TrimSpace(getenv(envThreshold)),
		Format:    strings.TrimSpace(getenv(envFormat)),
	}
	if v := strings.TrimSpace(getenv(envJobs)); v != "" {
		jobs, err := strconv.Atoi(v)
		if err != nil {
			return Overrides{}, fmt.Errorf("%s must be an integer (got %q)", envJobs, v)
		}
		ov.Jobs = jobs
		ov.JobsSet = true
	}
	return ov, nil
}

// Apply layers ov over cfg and validates the result.
func Apply(cfg domain.ProjectConfig, ov Overrides) (domain.ProjectConfig, error) {
	if len(ov.Include) > 0 {
		cfg.Include = ov.Include
	}
	if len(ov.Exclude) > 0 {
		cfg.Exclude = append(append([]string{}, cfg.Exclude...), ov.Exclude...)
	}
	if ov.Threshold != "" {
		sev, err := domain.ParseThreshold(ov.Threshold)
		if err != nil {
			return domain.ProjectConfig{}, err
		}
		cfg.Threshold = sev
	}
	if ov.Format != "" {
		cfg.Format = ov.Format
	}
	if ov.JobsSet {
		cfg.Jobs = ov.Jobs
	}
	if len(ov.Disable) > 0 {
		rules := make(map[string]domain.RuleConfig, len(cfg.Rules)+len(ov.Disable))
		for id, rc := range cfg.Rules {
			rules[id] = rc
		}
		for _, id := range ov.Disable {
			rc := rules[id]
			rc.Disabled = true
			rules[id] = rc
		}
		cfg.Rules = rules
	}
	if err := cfg.Validate(); err != nil {
		return domain.ProjectConfig{}, err
	}
	return cfg, nil
}
