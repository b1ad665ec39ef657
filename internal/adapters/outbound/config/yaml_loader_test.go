package config_test

import (
	"os"
	"path/filepath"
	"testing"

	appconfig "github.com/rsjslint/rsjslint/internal/adapters/outbound/config"
	"github.com/rsjslint/rsjslint/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, appconfig.FileName), []byte(content), 0644))
}

func TestYAMLLoader_MissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestYAMLLoader_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
behaviors_dirs: [components]
threshold: warning
global_selectors: ["#app"]
vendor_libraries: [jquery]
rules:
  behavior-file-naming:
    disabled: true
  vendor-separation:
    severity: error
custom_rules:
  - id: no-id-selectors
    severity: warning
    message: script queries by id
    expr: 'selector.kind == "id"'
`)

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"components"}, cfg.BehaviorsDirs)
	assert.Equal(t, []string{"helpers"}, cfg.HelpersDirs, "unset keys keep defaults")
	assert.Equal(t, domain.SeverityWarning, cfg.Threshold)
	assert.Equal(t, domain.FormatText, cfg.Format)
	assert.Equal(t, []string{"#app"}, cfg.GlobalSelectors)
	assert.True(t, cfg.Rules["behavior-file-naming"].Disabled)
	assert.Equal(t, domain.SeverityError, cfg.Rules["vendor-separation"].Severity)
	require.Len(t, cfg.CustomRules, 1)
	assert.Equal(t, "no-id-selectors", cfg.CustomRules[0].ID)
}

func TestYAMLLoader_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{{{invalid yaml`)

	_, err := appconfig.New().Load(dir)
	require.Error(t, err)
	var cfgErr *domain.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), ".rsjslint.yaml")
	assert.Contains(t, err.Error(), "parsing")
}

func TestYAMLLoader_InvalidValue(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "threshold: fatal\n")

	_, err := appconfig.New().Load(dir)
	var cfgErr *domain.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "invalid threshold")
}

func TestYAMLLoader_ExplicitPathMustExist(t *testing.T) {
	_, err := appconfig.NewWithPath(filepath.Join(t.TempDir(), "missing.yaml")).Load(".")
	var cfgErr *domain.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestYAMLLoader_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lint.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: json\n"), 0644))

	cfg, err := appconfig.NewWithPath(path).Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, domain.FormatJSON, cfg.Format)
}

func TestYAMLLoader_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "threshold: warning\nformat: json\n")
	t.Setenv("RSJSLINT_THRESHOLD", "info")
	t.Setenv("RSJSLINT_JOBS", "3")

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.SeverityInfo, cfg.Threshold)
	assert.Equal(t, domain.FormatJSON, cfg.Format)
	assert.Equal(t, 3, cfg.Jobs)
}

func TestYAMLLoader_BadEnv(t *testing.T) {
	t.Setenv("RSJSLINT_JOBS", "many")

	_, err := appconfig.New().Load(t.TempDir())
	var cfgErr *domain.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "RSJSLINT_JOBS")
}
