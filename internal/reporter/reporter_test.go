package reporter

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/ppiankov/sbomdiff/internal/models"
	"github.com/ppiankov/sbomdiff/pkg/config"
)

func TestReporterGenerateFormats(t *testing.T) {
	cases := []struct {
		name      string
		formats   []string
		wantJSON  bool
		wantSARIF bool
		wantText  bool
	}{
		{name: "xlsx_only", formats: []string{config.FormatXLSX}},
		{name: "json", formats: []string{config.FormatXLSX, config.FormatJSON}, wantJSON: true},
		{name: "sarif", formats: []string{config.FormatXLSX, config.FormatSARIF}, wantSARIF: true},
		{name: "text", formats: []string{config.FormatXLSX, config.FormatText}, wantText: true},
		{name: "all", formats: []string{config.FormatXLSX, config.FormatJSON, config.FormatSARIF, config.FormatText}, wantJSON: true, wantSARIF: true, wantText: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := outputConfig(t, config.ProfileSBOM)
			cfg.Formats = tc.formats
			report := sbomFixture(t, cfg)

			var out bytes.Buffer
			if err := NewWithWriter(cfg, &out).Generate(report); err != nil {
				t.Fatalf("Generate failed: %v", err)
			}

			if _, err := os.Stat(cfg.OutputPath); err != nil {
				t.Fatalf("expected workbook output: %v", err)
			}
			assertExists(t, SidecarPath(cfg.OutputPath, "json"), tc.wantJSON)
			assertExists(t, SidecarPath(cfg.OutputPath, "sarif"), tc.wantSARIF)
			if got := out.Len() > 0; got != tc.wantText {
				t.Fatalf("text output written = %v, want %v", got, tc.wantText)
			}
		})
	}
}

func TestReporterGenerateStopsBeforeSidecars(t *testing.T) {
	cfg := outputConfig(t, config.ProfilePod)
	cfg.Formats = []string{config.FormatXLSX, config.FormatJSON, config.FormatText}
	report := podFixture(t, cfg)
	report.Columns = []string{"pod"}

	var out bytes.Buffer
	err := NewWithWriter(cfg, &out).Generate(report)
	if !errors.Is(err, models.ErrMissingColumn) {
		t.Fatalf("expected missing column error, got %v", err)
	}
	assertExists(t, cfg.OutputPath, false)
	assertExists(t, SidecarPath(cfg.OutputPath, "json"), false)
	if out.Len() != 0 {
		t.Fatalf("expected no text output, got %q", out.String())
	}
}

func TestReporterGenerateUnsupportedFormat(t *testing.T) {
	cfg := outputConfig(t, config.ProfileSBOM)
	cfg.Formats = []string{config.FormatXLSX, "xml"}

	err := New(cfg).Generate(sbomFixture(t, cfg))
	if err == nil || !strings.Contains(err.Error(), "unsupported report format") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func assertExists(t *testing.T, path string, want bool) {
	t.Helper()
	_, err := os.Stat(path)
	if want && err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
	if !want && !os.IsNotExist(err) {
		t.Fatalf("expected %s to be absent, got err=%v", path, err)
	}
}
