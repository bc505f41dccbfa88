package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/sbomdiff/internal/analyzer"
	"github.com/ppiankov/sbomdiff/internal/loader"
	"github.com/ppiankov/sbomdiff/internal/models"
	"github.com/ppiankov/sbomdiff/internal/reporter"
	"github.com/ppiankov/sbomdiff/pkg/config"
	"github.com/spf13/cobra"
)

const compareUsage = "sbomdiff compare <user_data_file> <expected_versions_file> <output_file>"

var workbookExtensions = []string{".xlsx", ".xlsm"}

// NewCompareCmd creates the compare command
func NewCompareCmd() *cobra.Command {
	opts := &commandOptions{}
	var cfg *config.Config

	cmd := &cobra.Command{
		Use:   "compare <user_data_file> <expected_versions_file> <output_file>",
		Short: "Compare an inventory against expected versions",
		Long: `Compare detected versions in the user data file against the expected
versions file, joined on the key column. Every row is marked MATCH or
MISMATCH, classified, and written to a highlighted workbook with a summary
sheet. Inputs may be .csv, .txt, .tsv, .xlsx or .xlsm files.`,
		Args: exactArgs(3, compareUsage),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = resolveConfig(cmd, opts)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cfg, args[0], args[1], args[2], cmd.OutOrStdout())
		},
	}

	bindCommonFlags(cmd, opts)
	return cmd
}

// exactArgs rejects any other argument count with the usage line
func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return &models.UsageError{
				Message: fmt.Sprintf("expected %d arguments, got %d", n, len(args)),
				Usage:   usage,
			}
		}
		return nil
	}
}

// runCompare executes the comparison workflow
func runCompare(cfg *config.Config, actualPath, expectedPath, outputPath string, out io.Writer) error {
	startTime := time.Now()

	cfg.OutputPath = outputPath
	if err := checkWorkbookPath(outputPath); err != nil {
		return err
	}

	// 1. Load inputs
	fmt.Fprintln(out, "📂 Loading inputs...")
	actual, err := loader.Load(actualPath, loader.Options{Sheet: cfg.Sheet})
	if err != nil {
		return fmt.Errorf("failed to load user data: %w", err)
	}
	expected, err := loader.Load(expectedPath, loader.Options{Sheet: cfg.ExpectedSheet})
	if err != nil {
		return fmt.Errorf("failed to load expected versions: %w", err)
	}
	fmt.Fprintf(out, "✓ Loaded %d rows and %d expected rows\n", actual.Len(), expected.Len())

	// 2. Compare and classify
	fmt.Fprintln(out, "🔍 Comparing versions...")
	an := analyzer.New(cfg)
	if err := an.Analyze(actual, expected); err != nil {
		return fmt.Errorf("failed to analyze data: %w", err)
	}

	report := buildReport(cfg, an, "compare", actualPath, expectedPath, startTime)
	fmt.Fprintf(out, "✓ %d MATCH, %d MISMATCH", report.Metadata.MatchedRows, report.Metadata.MismatchedRows)
	if report.Metadata.UnmatchedKeys > 0 {
		fmt.Fprintf(out, " (%d keys missing from expected data)", report.Metadata.UnmatchedKeys)
	}
	fmt.Fprintln(out)

	// 3. Write output
	if err := writeReport(cfg, report, out); err != nil {
		return err
	}

	return finish(cfg, report, startTime, out)
}

func writeReport(cfg *config.Config, report *models.Report, out io.Writer) error {
	if cfg.DryRun {
		fmt.Fprintln(out, "🏃 Dry run mode - skipping output")
		return nil
	}

	fmt.Fprintln(out, "📝 Writing report...")
	if err := reporter.NewWithWriter(cfg, out).Generate(report); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	fmt.Fprintf(out, "✓ Report written to: %s\n", cfg.OutputPath)
	for _, format := range []string{config.FormatJSON, config.FormatSARIF} {
		if cfg.WantsFormat(format) {
			fmt.Fprintf(out, "✓ %s written to: %s\n", strings.ToUpper(format), reporter.SidecarPath(cfg.OutputPath, format))
		}
	}
	return nil
}

func finish(cfg *config.Config, report *models.Report, startTime time.Time, out io.Writer) error {
	fmt.Fprintf(out, "\n✅ Done in %s\n", time.Since(startTime).Round(time.Millisecond))

	if cfg.FailOnMismatch && report.Metadata.MismatchedRows > 0 {
		return &models.MismatchError{Count: report.Metadata.MismatchedRows}
	}
	return nil
}

func checkWorkbookPath(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range workbookExtensions {
		if ext == supported {
			return nil
		}
	}
	return &models.UnsupportedFormatError{Path: path, Extension: ext, Supported: workbookExtensions}
}

// buildReport constructs the final report
func buildReport(
	cfg *config.Config,
	an *analyzer.Analyzer,
	mode string,
	actualSource string,
	expectedSource string,
	startTime time.Time,
) *models.Report {
	rows := an.Rows()
	matched, mismatched := models.CountVerdicts(rows)

	fields := make([]models.FieldSpec, 0, len(cfg.Fields))
	for _, field := range cfg.Fields {
		fields = append(fields, models.FieldSpec{Name: field.Name, Expected: field.Expected, Role: field.Role})
	}

	now := time.Now()
	return &models.Report{
		Tool:      "sbomdiff",
		Version:   version,
		Timestamp: now.UTC().Format(time.RFC3339),
		Metadata: models.Metadata{
			RunID:            uuid.NewString(),
			GeneratedAt:      now,
			Mode:             mode,
			ActualSource:     actualSource,
			ExpectedSource:   expectedSource,
			Profile:          cfg.Profile,
			KeyColumn:        cfg.KeyColumn,
			VerdictColumn:    cfg.VerdictColumn,
			VerdictStyle:     cfg.VerdictStyle,
			HighlightMode:    cfg.HighlightMode,
			Classified:       cfg.Classified(),
			TotalRows:        len(rows),
			MatchedRows:      matched,
			MismatchedRows:   mismatched,
			UnmatchedKeys:    an.UnmatchedKeys(),
			ExcludedRows:     an.ExcludedRows(),
			AnomalyRows:      models.CountAnomalies(rows),
			AnalysisDuration: time.Since(startTime).Round(time.Millisecond).String(),
		},
		Columns: an.Columns(),
		Fields:  fields,
		Rows:    rows,
		Summary: an.Summary(),
	}
}
