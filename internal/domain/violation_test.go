package domain_test

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/rsjslint/rsjslint/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleResult_Flatten_Sorted(t *testing.T) {
	results := domain.RuleResult{
		"b-rule": {
			{File: "b.js", Line: 1, Rule: "b-rule", Severity: domain.SeverityError},
			{File: "a.js", Line: 9, Rule: "b-rule", Severity: domain.SeverityWarning},
		},
		"a-rule": {
			{File: "a.js", Line: 9, Rule: "a-rule", Severity: domain.SeverityInfo},
			{File: "a.js", Line: 2, Rule: "a-rule", Severity: domain.SeverityError},
		},
	}

	got := results.Flatten()
	require.Len(t, got, 4)
	assert.Equal(t, domain.Violation{File: "a.js", Line: 2, Rule: "a-rule", Severity: domain.SeverityError}, got[0])
	assert.Equal(t, "a-rule", got[1].Rule)
	assert.Equal(t, "b-rule", got[2].Rule)
	assert.Equal(t, "b.js", got[3].File)
}

func TestRuleResult_Flatten_EmptyIsNotNil(t *testing.T) {
	got := domain.RuleResult{}.Flatten()
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReport_Failing(t *testing.T) {
	r := domain.NewReport(".", 3, domain.SeverityWarning, domain.RuleResult{
		"x": {
			{File: "a.js", Line: 1, Rule: "x", Severity: domain.SeverityError},
			{File: "a.js", Line: 2, Rule: "x", Severity: domain.SeverityInfo},
			{File: "b.js", Line: 1, Rule: "x", Severity: domain.SeverityUnknown},
			{File: "c.js", Line: 1, Rule: "x", Severity: domain.SeverityWarning},
		},
	})

	assert.Len(t, r.Failing(), 2)
	assert.True(t, r.Failed())
	counts := r.Counts()
	assert.Equal(t, 1, counts[domain.SeverityUnknown])
	assert.Equal(t, 1, counts[domain.SeverityError])

	r.Threshold = domain.SeverityError
	assert.Len(t, r.Failing(), 1)
}

func TestReport_UnknownNeverFails(t *testing.T) {
	r := domain.NewReport(".", 1, domain.SeverityInfo, domain.RuleResult{
		"x": {{File: "a.js", Line: 1, Rule: "x", Severity: domain.SeverityUnknown}},
	})
	assert.False(t, r.Failed())
}

func TestReport_ByFileAndFilter(t *testing.T) {
	r := domain.NewReport(".", 2, domain.SeverityError, domain.RuleResult{
		"x": {
			{File: "b.js", Line: 1, Rule: "x", Severity: domain.SeverityError},
			{File: "a.js", Line: 3, Rule: "x", Severity: domain.SeverityError},
			{File: "a.js", Line: 1, Rule: "x", Severity: domain.SeverityError},
		},
	})

	files, grouped := r.ByFile()
	assert.Equal(t, []string{"a.js", "b.js"}, files)
	assert.Len(t, grouped["a.js"], 2)

	r.FilterFiles([]string{"b.js"})
	require.Len(t, r.Violations, 1)
	assert.Equal(t, "b.js", r.Violations[0].File)
}

func TestErrors(t *testing.T) {
	ioErr := &domain.IOError{Path: "/missing", Err: fs.ErrNotExist}
	assert.ErrorIs(t, ioErr, fs.ErrNotExist)
	assert.Contains(t, ioErr.Error(), "/missing")

	cfgErr := &domain.ConfigurationError{Source: ".rsjslint.yaml", Err: errors.New("bad threshold")}
	var target *domain.ConfigurationError
	assert.ErrorAs(t, error(cfgErr), &target)
	assert.Contains(t, cfgErr.Error(), ".rsjslint.yaml")

	v := (&domain.EncodingError{Path: "bad.js", Offset: 12}).Violation()
	assert.Equal(t, domain.RuleEncoding, v.Rule)
	assert.Equal(t, domain.SeverityWarning, v.Severity)
	assert.Equal(t, "bad.js", v.File)
	assert.Contains(t, v.Message, "offset 12")
}
