package report

import (
	"encoding/json"
	"io"

	"github.com/google/uuid"

	"github.com/JNZader/gocommitlint/internal/rules"
)

// SARIFReporter generates SARIF 2.1.0 reports.
type SARIFReporter struct {
	// newGUID is replaced in tests.
	newGUID func() string
}

func (r *SARIFReporter) Format() string { return "sarif" }

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool              `json:"tool"`
	AutomationDetails sarifAutomationDetails `json:"automationDetails"`
	Results           []sarifResult          `json:"results"`
}

type sarifAutomationDetails struct {
	GUID string `json:"guid"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

func (r *SARIFReporter) Generate(batch *Batch) (string, error) {
	return generate(r, batch)
}

func (r *SARIFReporter) Write(batch *Batch, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r.buildReport(batch))
}

func (r *SARIFReporter) buildReport(batch *Batch) *sarifReport {
	guid := uuid.NewString
	if r.newGUID != nil {
		guid = r.newGUID
	}

	driver := sarifDriver{
		Name:           "gocommitlint",
		Version:        batch.ToolVersion,
		InformationURI: batch.HelpURL,
	}
	for _, e := range batch.Rules {
		if !e.Enabled() {
			continue
		}
		driver.Rules = append(driver.Rules, sarifRule{
			ID:               e.Name,
			ShortDescription: sarifMessage{Text: e.Definition().Description},
		})
	}

	run := sarifRun{
		Tool:              sarifTool{Driver: driver},
		AutomationDetails: sarifAutomationDetails{GUID: guid()},
		Results:           []sarifResult{},
	}

	for _, e := range batch.Entries {
		for _, res := range e.Report.Problems() {
			out := sarifResult{
				RuleID:  res.Name,
				Level:   sarifLevel(res.Level),
				Message: sarifMessage{Text: res.Message},
			}
			if e.Source != "" {
				out.Locations = []sarifLocation{{
					PhysicalLocation: sarifPhysicalLocation{
						ArtifactLocation: sarifArtifactLocation{URI: e.Source},
						Region:           &sarifRegion{StartLine: 1},
					},
				}}
			}
			run.Results = append(run.Results, out)
		}
	}

	return &sarifReport{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{run},
	}
}

func sarifLevel(s rules.Severity) string {
	switch s {
	case rules.SeverityError:
		return "error"
	case rules.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}
