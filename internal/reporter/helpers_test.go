package reporter

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/sbomdiff/internal/analyzer"
	"github.com/ppiankov/sbomdiff/internal/models"
	"github.com/ppiankov/sbomdiff/pkg/config"
)

// sbomFixture builds a report with one MATCH row, one anomaly row and one
// plain MISMATCH row.
func sbomFixture(t *testing.T, cfg *config.Config) *models.Report {
	t.Helper()

	header := []string{"Image", "Detected Base Image", "Detected Tomcat Version", "Detected Spring Boot Version", "Detected Java Version"}
	actual := models.NewTable("actual.csv", header, [][]string{
		{"app-a", "ubi8/openjdk", "9.0.1", "", "17"},
		{"app-b", "ubi8/openjdk", "", "", "11"},
		{"app-c", "alpine", "", "3.1.0", "21"},
	})
	expected := models.NewTable("expected.csv", header, [][]string{
		{"app-a", "ubi8/openjdk", "9.0.1", "", "17"},
		{"app-b", "ubi8/openjdk", "", "", "17"},
		{"app-c", "ubi9/openjdk", "", "3.1.0", "21"},
	})

	a := analyzer.New(cfg)
	if err := a.Analyze(actual, expected); err != nil {
		t.Fatalf("unexpected analyze error: %v", err)
	}
	return buildFixtureReport(cfg, a)
}

func podFixture(t *testing.T, cfg *config.Config) *models.Report {
	t.Helper()

	actual := models.NewTable("user.csv", []string{"pod", "version"}, [][]string{
		{"a", "1.2"},
		{"b", "1.0"},
	})
	expected := models.NewTable("expected.csv", []string{"pod", "version"}, [][]string{
		{"a", "1.2"},
	})

	a := analyzer.New(cfg)
	if err := a.Analyze(actual, expected); err != nil {
		t.Fatalf("unexpected analyze error: %v", err)
	}
	return buildFixtureReport(cfg, a)
}

func buildFixtureReport(cfg *config.Config, a *analyzer.Analyzer) *models.Report {
	rows := a.Rows()
	matched, mismatched := models.CountVerdicts(rows)
	fields := make([]models.FieldSpec, 0, len(cfg.Fields))
	for _, field := range cfg.Fields {
		fields = append(fields, models.FieldSpec{Name: field.Name, Expected: field.Expected, Role: field.Role})
	}

	return &models.Report{
		Tool:      "sbomdiff",
		Version:   "v0.3.0",
		Timestamp: "2026-03-01T00:00:00Z",
		Metadata: models.Metadata{
			RunID:          "5f0c6d1e-8a43-4b8e-9d7a-2f61c3e0a9b4",
			GeneratedAt:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			Mode:           "compare",
			ActualSource:   "actual.csv",
			ExpectedSource: "expected.csv",
			Profile:        cfg.Profile,
			KeyColumn:      cfg.KeyColumn,
			VerdictColumn:  cfg.VerdictColumn,
			VerdictStyle:   cfg.VerdictStyle,
			HighlightMode:  cfg.HighlightMode,
			Classified:     cfg.Classified(),
			TotalRows:      len(rows),
			MatchedRows:    matched,
			MismatchedRows: mismatched,
			UnmatchedKeys:  a.UnmatchedKeys(),
			AnomalyRows:    models.CountAnomalies(rows),
		},
		Columns: a.Columns(),
		Fields:  fields,
		Rows:    rows,
		Summary: a.Summary(),
	}
}

func outputConfig(t *testing.T, profile string) *config.Config {
	t.Helper()
	cfg, err := config.ProfileConfig(profile)
	if err != nil {
		t.Fatalf("unexpected profile error: %v", err)
	}
	cfg.OutputPath = filepath.Join(t.TempDir(), "result.xlsx")
	return cfg
}

func assertContains(t *testing.T, value, expected string) {
	t.Helper()
	if !strings.Contains(value, expected) {
		t.Fatalf("expected output to contain %q\noutput:\n%s", expected, value)
	}
}

func assertNotContains(t *testing.T, value, unexpected string) {
	t.Helper()
	if strings.Contains(value, unexpected) {
		t.Fatalf("expected output to not contain %q\noutput:\n%s", unexpected, value)
	}
}
