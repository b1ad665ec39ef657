package report

import (
	"encoding/json"
	"io"

	"github.com/rsjslint/rsjslint/internal/domain"
	"github.com/rsjslint/rsjslint/internal/domain/rules"
)

const (
	sarifSchema  = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	sarifVersion = "2.1.0"
	toolName     = "rsjslint"
	toolURI      = "https://github.com/rsjslint/rsjslint"
)

type sarifDocument struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID                   string       `json:"id"`
	ShortDescription     sarifMessage `json:"shortDescription"`
	DefaultConfiguration sarifConfig  `json:"defaultConfiguration"`
}

type sarifConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex *int            `json:"ruleIndex,omitempty"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           *sarifRegion  `json:"region,omitempty"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

// scannerRules describe the file-level findings the scanner emits.
var scannerRules = []rules.Rule{
	{ID: domain.RuleEncoding, Severity: domain.SeverityWarning, Description: "Source files must be valid UTF-8 text"},
	{ID: domain.RuleReadError, Severity: domain.SeverityWarning, Description: "Source files must be readable"},
}

// level maps a severity to a SARIF result level.
func level(s domain.Severity) string {
	switch s {
	case domain.SeverityError:
		return "error"
	case domain.SeverityWarning:
		return "warning"
	case domain.SeverityInfo:
		return "note"
	default:
		return "none"
	}
}

// WriteSARIF writes report as a single-run SARIF 2.1.0 log.
func WriteSARIF(w io.Writer, report *domain.Report, ruleList []rules.Rule, version string) error {
	driver := sarifDriver{
		Name:           toolName,
		Version:        version,
		InformationURI: toolURI,
		Rules:          []sarifRule{},
	}
	index := make(map[string]int)
	for _, r := range append(append([]rules.Rule{}, ruleList...), scannerRules...) {
		if _, ok := index[r.ID]; ok {
			continue
		}
		index[r.ID] = len(driver.Rules)
		driver.Rules = append(driver.Rules, sarifRule{
			ID:                   r.ID,
			ShortDescription:     sarifMessage{Text: r.Description},
			DefaultConfiguration: sarifConfig{Level: level(r.Severity)},
		})
	}

	results := make([]sarifResult, 0, len(report.Violations))
	for _, v := range report.Violations {
		loc := sarifLocation{PhysicalLocation: sarifPhysical{ArtifactLocation: sarifArtifact{URI: v.File}}}
		if v.Line > 0 {
			loc.PhysicalLocation.Region = &sarifRegion{StartLine: v.Line}
		}
		r := sarifResult{
			RuleID:    v.Rule,
			Level:     level(v.Severity),
			Message:   sarifMessage{Text: v.Message},
			Locations: []sarifLocation{loc},
		}
		if i, ok := index[v.Rule]; ok {
			r.RuleIndex = &i
		}
		results = append(results, r)
	}

	doc := sarifDocument{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs:    []sarifRun{{Tool: sarifTool{Driver: driver}, Results: results}},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
