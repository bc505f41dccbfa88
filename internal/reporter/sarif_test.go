package reporter

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/ppiankov/sbomdiff/internal/models"
	"github.com/ppiankov/sbomdiff/pkg/config"
)

func TestWriteSARIFProducesExpectedShape(t *testing.T) {
	cfg := outputConfig(t, config.ProfileSBOM)
	report := sbomFixture(t, cfg)

	if err := WriteSARIF(report, cfg); err != nil {
		t.Fatalf("WriteSARIF failed: %v", err)
	}

	payload, err := os.ReadFile(SidecarPath(cfg.OutputPath, "sarif"))
	if err != nil {
		t.Fatalf("failed to read sarif output: %v", err)
	}

	var decoded sarifLog
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("failed to decode sarif output: %v", err)
	}

	if decoded.Version != "2.1.0" {
		t.Fatalf("expected sarif version 2.1.0, got %#v", decoded.Version)
	}
	if decoded.Schema != sarifSchemaURI {
		t.Fatalf("expected schema %q, got %q", sarifSchemaURI, decoded.Schema)
	}
	if len(decoded.Runs) != 1 {
		t.Fatalf("expected exactly one run, got %d", len(decoded.Runs))
	}

	run := decoded.Runs[0]
	if run.AutomationDetails == nil || run.AutomationDetails.ID != "sbomdiff/compare/"+report.Metadata.RunID {
		t.Fatalf("expected automationDetails.id sbomdiff/compare/<run>, got %#v", run.AutomationDetails)
	}
	if run.AutomationDetails.GUID != report.Metadata.RunID {
		t.Fatalf("expected automationDetails.guid %q, got %q", report.Metadata.RunID, run.AutomationDetails.GUID)
	}
	if run.Tool.Driver.SemanticVersion != "0.3.0" {
		t.Fatalf("expected semantic version 0.3.0, got %q", run.Tool.Driver.SemanticVersion)
	}
	if len(run.Tool.Driver.Rules) != 2 {
		t.Fatalf("expected 2 SARIF rules, got %d", len(run.Tool.Driver.Rules))
	}

	// app-b mismatches with an anomaly, app-c mismatches without one
	if len(run.Results) != 3 {
		t.Fatalf("expected 3 SARIF results, got %d", len(run.Results))
	}

	counts := map[string]int{}
	for _, result := range run.Results {
		counts[result.RuleID]++

		if len(result.Locations) == 0 {
			t.Fatalf("result %q is missing locations", result.RuleID)
		}
		location := result.Locations[0]
		if location.PhysicalLocation.ArtifactLocation.URI != "actual.csv" {
			t.Fatalf("result %q expected location URI actual.csv, got %q", result.RuleID, location.PhysicalLocation.ArtifactLocation.URI)
		}
		if location.PhysicalLocation.Region == nil || location.PhysicalLocation.Region.StartLine < 2 {
			t.Fatalf("result %q expected a data line region, got %#v", result.RuleID, location.PhysicalLocation.Region)
		}
		if result.PartialFingerprints["sbomdiff/findingHash"] == "" {
			t.Fatalf("result %q is missing partial fingerprint", result.RuleID)
		}
	}
	if counts[ruleMismatch] != 2 || counts[ruleAnomaly] != 1 {
		t.Fatalf("unexpected result counts: %v", counts)
	}

	anomaly := findResultByRule(run.Results, ruleAnomaly)
	if anomaly.Level != "error" {
		t.Fatalf("expected anomaly level error, got %q", anomaly.Level)
	}
	if anomaly.Locations[0].PhysicalLocation.Region.StartLine != 3 {
		t.Fatalf("expected anomaly on line 3, got %d", anomaly.Locations[0].PhysicalLocation.Region.StartLine)
	}
	if !strings.Contains(anomaly.Message.Text, models.AnomalyMissingFramework) {
		t.Fatalf("unexpected anomaly message %q", anomaly.Message.Text)
	}

	mismatch := findResultByRule(run.Results, ruleMismatch)
	if !strings.Contains(mismatch.Message.Text, `Detected Java Version: "11" != "17"`) {
		t.Fatalf("unexpected mismatch message %q", mismatch.Message.Text)
	}
}

func TestBuildSARIFResultsUnmatchedKey(t *testing.T) {
	cfg := outputConfig(t, config.ProfilePod)
	report := podFixture(t, cfg)

	results := buildSARIFResults(report)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Message.Text != "b has no expected inventory row." {
		t.Fatalf("unexpected message %q", results[0].Message.Text)
	}
	if results[0].Properties["key_matched"] != false {
		t.Fatalf("expected key_matched=false, got %v", results[0].Properties["key_matched"])
	}
}

func TestWriteSARIFNilReport(t *testing.T) {
	cfg := outputConfig(t, config.ProfileSBOM)

	err := WriteSARIF(nil, cfg)
	if err == nil || !strings.Contains(err.Error(), "report is nil") {
		t.Fatalf("expected nil report error, got %v", err)
	}
}

func TestWriteSARIFNilConfig(t *testing.T) {
	err := WriteSARIF(&models.Report{}, nil)
	if err == nil || !strings.Contains(err.Error(), "config is nil") {
		t.Fatalf("expected nil config error, got %v", err)
	}
}

func TestNormalizeSemanticVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		expects string
	}{
		{name: "v-prefix semver", input: "v1.2.3", expects: "1.2.3"},
		{name: "prerelease semver", input: "1.2.3-beta.1", expects: "1.2.3-beta.1"},
		{name: "build metadata semver", input: "1.2.3+build.4", expects: "1.2.3+build.4"},
		{name: "invalid version", input: "main-abcdef", expects: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeSemanticVersion(tt.input); got != tt.expects {
				t.Fatalf("normalizeSemanticVersion(%q): got %q want %q", tt.input, got, tt.expects)
			}
		})
	}
}

func findResultByRule(results []sarifResult, rule string) *sarifResult {
	for i := range results {
		if results[i].RuleID == rule {
			return &results[i]
		}
	}
	return nil
}
