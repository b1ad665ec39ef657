package report_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rsjslint/rsjslint/internal/adapters/outbound/report"
	"github.com/rsjslint/rsjslint/internal/domain"
	"github.com/rsjslint/rsjslint/internal/domain/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *domain.Report {
	return &domain.Report{
		Files:     3,
		Threshold: domain.SeverityError,
		Violations: []domain.Violation{
			{File: "app/assets/javascripts/behaviors/dynamic.js", Line: 2, Rule: "no-overloaded-class", Severity: domain.SeverityUnknown, Message: "selector is built at runtime"},
			{File: "app/assets/javascripts/behaviors/latin1.js", Line: 0, Rule: domain.RuleEncoding, Severity: domain.SeverityWarning, Message: "not UTF-8"},
			{File: "app/views/index.html", Line: 5, Rule: "no-inline-script", Severity: domain.SeverityError, Message: "inline onclick= event handler"},
		},
	}
}

func TestWriteJSON_PlainArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf, sampleReport()))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "app/views/index.html", got[2]["file"])
	assert.Equal(t, float64(5), got[2]["line"])
	assert.Equal(t, "no-inline-script", got[2]["rule"])
	assert.Equal(t, "error", got[2]["severity"])
	assert.Equal(t, "inline onclick= event handler", got[2]["message"])
	assert.Len(t, got[0], 5)
}

func TestWriteJSON_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf, &domain.Report{}))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteJSON_Stable(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, report.WriteJSON(&a, sampleReport()))
	require.NoError(t, report.WriteJSON(&b, sampleReport()))
	assert.Equal(t, a.String(), b.String())
}

func TestWriteSARIF_Document(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteSARIF(&buf, sampleReport(), rules.Default().All(), "1.2.3"))

	var doc struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name    string `json:"name"`
					Version string `json:"version"`
					Rules   []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				RuleIndex *int   `json:"ruleIndex"`
				Level     string `json:"level"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI string `json:"uri"`
						} `json:"artifactLocation"`
						Region *struct {
							StartLine int `json:"startLine"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "2.1.0", doc.Version)
	require.Len(t, doc.Runs, 1)
	run := doc.Runs[0]
	assert.Equal(t, "rsjslint", run.Tool.Driver.Name)
	assert.Equal(t, "1.2.3", run.Tool.Driver.Version)
	assert.Len(t, run.Tool.Driver.Rules, len(rules.Builtin())+2)

	require.Len(t, run.Results, 3)
	assert.Equal(t, "none", run.Results[0].Level)
	assert.Equal(t, "warning", run.Results[1].Level)
	assert.Nil(t, run.Results[1].Locations[0].PhysicalLocation.Region)
	assert.Equal(t, "error", run.Results[2].Level)
	assert.Equal(t, 5, run.Results[2].Locations[0].PhysicalLocation.Region.StartLine)
	assert.Equal(t, "app/views/index.html", run.Results[2].Locations[0].PhysicalLocation.ArtifactLocation.URI)

	for _, r := range run.Results {
		require.NotNil(t, r.RuleIndex)
		assert.Equal(t, r.RuleID, run.Tool.Driver.Rules[*r.RuleIndex].ID)
	}
}

func TestWriteSARIF_EmptyResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteSARIF(&buf, &domain.Report{}, nil, ""))
	assert.Contains(t, buf.String(), `"results": []`)
}

func TestWriter_Formats(t *testing.T) {
	w := report.New(rules.Builtin(), "dev")

	var text bytes.Buffer
	require.NoError(t, w.Write(&text, domain.FormatText, sampleReport()))
	assert.Contains(t, text.String(), "app/views/index.html")

	var js bytes.Buffer
	require.NoError(t, w.Write(&js, domain.FormatJSON, sampleReport()))
	assert.True(t, json.Valid(js.Bytes()))

	var sarif bytes.Buffer
	require.NoError(t, w.Write(&sarif, domain.FormatSARIF, sampleReport()))
	assert.Contains(t, sarif.String(), `"version": "2.1.0"`)

	assert.Error(t, w.Write(&bytes.Buffer{}, "xml", sampleReport()))
}
