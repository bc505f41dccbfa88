package main

import (
	"fmt"
	"io"
	"time"

	"github.com/ppiankov/sbomdiff/internal/analyzer"
	"github.com/ppiankov/sbomdiff/internal/loader"
	"github.com/ppiankov/sbomdiff/pkg/config"
	"github.com/spf13/cobra"
)

const summarizeUsage = "sbomdiff summarize <comparison_file> <output_file>"

// NewSummarizeCmd creates the summarize command
func NewSummarizeCmd() *cobra.Command {
	opts := &commandOptions{}
	var cfg *config.Config

	cmd := &cobra.Command{
		Use:   "summarize <comparison_file> <output_file>",
		Short: "Classify an existing comparison and rebuild its summary",
		Long: `Read a comparison table that already carries a verdict column, derive
category flags and anomaly reasons from the tracked field values, and write
the comparison and summary sheets to a new workbook. Stored verdicts are
kept as they are.`,
		Args: exactArgs(2, summarizeUsage),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = resolveConfig(cmd, opts)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummarize(cfg, args[0], args[1], cmd.OutOrStdout())
		},
	}

	bindCommonFlags(cmd, opts)
	return cmd
}

// runSummarize executes the summary workflow
func runSummarize(cfg *config.Config, comparisonPath, outputPath string, out io.Writer) error {
	startTime := time.Now()

	cfg.OutputPath = outputPath
	if err := checkWorkbookPath(outputPath); err != nil {
		return err
	}

	fmt.Fprintln(out, "📂 Loading comparison...")
	table, err := loader.Load(comparisonPath, loader.Options{Sheet: cfg.Sheet})
	if err != nil {
		return fmt.Errorf("failed to load comparison: %w", err)
	}
	fmt.Fprintf(out, "✓ Loaded %d rows\n", table.Len())

	fmt.Fprintln(out, "🎯 Classifying rows...")
	an := analyzer.New(cfg)
	if err := an.AnalyzeComparison(table); err != nil {
		return fmt.Errorf("failed to analyze comparison: %w", err)
	}

	report := buildReport(cfg, an, "summarize", comparisonPath, "", startTime)
	fmt.Fprintf(out, "✓ %d rows, %d anomalies\n", report.Metadata.TotalRows, report.Metadata.AnomalyRows)

	if err := writeReport(cfg, report, out); err != nil {
		return err
	}

	return finish(cfg, report, startTime, out)
}
