package config_test

import (
	"testing"

	appconfig "github.com/rsjslint/rsjslint/internal/adapters/outbound/config"
	"github.com/rsjslint/rsjslint/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_FlagsWin(t *testing.T) {
	base := domain.DefaultConfig()
	base.Exclude = []string{"legacy/**"}
	base.Rules = map[string]domain.RuleConfig{"vendor-separation": {Severity: domain.SeverityError}}

	cfg, err := appconfig.Apply(base, appconfig.Overrides{
		Include:   []string{"src/**/*.js"},
		Exclude:   []string{"tmp/**"},
		Threshold: "warning",
		Format:    "sarif",
		Jobs:      1,
		JobsSet:   true,
		Disable:   []string{"vendor-separation"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/**/*.js"}, cfg.Include)
	assert.Equal(t, []string{"legacy/**", "tmp/**"}, cfg.Exclude)
	assert.Equal(t, domain.SeverityWarning, cfg.Threshold)
	assert.Equal(t, domain.FormatSARIF, cfg.Format)
	assert.Equal(t, 1, cfg.Jobs)
	assert.True(t, cfg.Rules["vendor-separation"].Disabled)
	assert.Equal(t, domain.SeverityError, cfg.Rules["vendor-separation"].Severity)
	assert.False(t, base.Rules["vendor-separation"].Disabled, "base config is not mutated")
}

func TestApply_ZeroOverridesKeepConfig(t *testing.T) {
	base := domain.DefaultConfig()
	cfg, err := appconfig.Apply(base, appconfig.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, base, cfg)
}

func TestApply_Invalid(t *testing.T) {
	_, err := appconfig.Apply(domain.DefaultConfig(), appconfig.Overrides{Threshold: "unknown"})
	assert.ErrorContains(t, err, "invalid threshold")

	_, err = appconfig.Apply(domain.DefaultConfig(), appconfig.Overrides{Format: "xml"})
	assert.ErrorContains(t, err, "unknown format")
}

func TestOverridesFromEnv(t *testing.T) {
	env := map[string]string{"RSJSLINT_FORMAT": " json ", "RSJSLINT_JOBS": "4"}
	ov, err := appconfig.OverridesFromEnv(func(k string) string { return env[k] })
	require.NoError(t, err)
	assert.Equal(t, "json", ov.Format)
	assert.Equal(t, 4, ov.Jobs)
	assert.True(t, ov.JobsSet)
	assert.Empty(t, ov.Threshold)
}
