package analyzer

import (
	"fmt"
	"log/slog"

	"github.com/ppiankov/sbomdiff/internal/models"
	"github.com/ppiankov/sbomdiff/internal/summary"
	"github.com/ppiankov/sbomdiff/pkg/config"
)

// Analyzer turns loaded tables into enriched rows and a summary
type Analyzer struct {
	config    *config.Config
	columns   []string
	rows      []models.EnrichedRow
	summary   []models.SummaryMetric
	unmatched int
	excluded  int
}

// New creates a new analyzer instance
func New(cfg *config.Config) *Analyzer {
	return &Analyzer{
		config:  cfg,
		columns: make([]string, 0),
		rows:    make([]models.EnrichedRow, 0),
		summary: make([]models.SummaryMetric, 0),
	}
}

// Analyze compares the actual inventory against the expected one
func (a *Analyzer) Analyze(actual, expected *models.Table) error {
	if a.config.KeyColumn == "" {
		return fmt.Errorf("key column is required")
	}

	// 1. Drop excluded keys
	filtered, err := a.excludeKeys(actual)
	if err != nil {
		return err
	}

	// 2. Join and compute verdicts
	annotated, err := Compare(filtered, expected, a.config.KeyColumn, a.config.Fields)
	if err != nil {
		return fmt.Errorf("failed to compare inputs: %w", err)
	}
	for _, row := range annotated {
		if !row.Matched {
			a.unmatched++
		}
	}

	return a.finish(filtered, annotated)
}

// AnalyzeComparison re-derives flags and summary from a previously
// written comparison table, keeping its stored verdicts.
func (a *Analyzer) AnalyzeComparison(table *models.Table) error {
	filtered, err := a.excludeKeys(table)
	if err != nil {
		return err
	}

	annotated, err := FromComparison(filtered, a.config)
	if err != nil {
		return fmt.Errorf("failed to read comparison: %w", err)
	}

	return a.finish(filtered, annotated)
}

// finish projects base columns, classifies rows and aggregates the summary
func (a *Analyzer) finish(source *models.Table, annotated []models.AnnotatedRow) error {
	baseIdx := BaseColumnIndexes(source.Columns, a.config)
	a.columns = make([]string, 0, len(baseIdx))
	for _, idx := range baseIdx {
		a.columns = append(a.columns, source.Columns[idx])
	}
	for i := range annotated {
		annotated[i].Values = project(annotated[i].Values, baseIdx)
	}

	classified := a.config.Classified()
	a.rows = Classify(annotated, classified, a.config.UBIMarker)
	a.summary = summary.New(classified, a.config.PercentPrecision).Summarize(a.rows)

	matched, mismatched := models.CountVerdicts(a.rows)
	slog.Debug("analysis complete",
		slog.Int("rows", len(a.rows)),
		slog.Int("matched", matched),
		slog.Int("mismatched", mismatched),
		slog.Int("unmatched_keys", a.unmatched),
		slog.Int("excluded", a.excluded),
	)
	return nil
}

// excludeKeys returns a copy of table without rows whose key is excluded
func (a *Analyzer) excludeKeys(table *models.Table) (*models.Table, error) {
	if len(a.config.ExcludeKeys) == 0 || !table.Has(a.config.KeyColumn) {
		return table, nil
	}

	keyIdx, err := table.Index(a.config.KeyColumn)
	if err != nil {
		return nil, err
	}

	kept := make([][]string, 0, table.Len())
	for i, row := range table.Rows {
		if a.config.IsKeyExcluded(table.Value(i, keyIdx)) {
			a.excluded++
			continue
		}
		kept = append(kept, row)
	}
	if a.excluded > 0 {
		slog.Debug("excluded rows by key", slog.Int("count", a.excluded))
	}

	return models.NewTable(table.Source, table.Columns, kept), nil
}

// Columns returns the base columns carried into the report
func (a *Analyzer) Columns() []string {
	return a.columns
}

// Rows returns the enriched rows in input order
func (a *Analyzer) Rows() []models.EnrichedRow {
	return a.rows
}

// Summary returns the summary metrics in declared order
func (a *Analyzer) Summary() []models.SummaryMetric {
	return a.summary
}

// UnmatchedKeys returns how many actual rows had no expected row
func (a *Analyzer) UnmatchedKeys() int {
	return a.unmatched
}

// ExcludedRows returns how many rows exclude_keys removed
func (a *Analyzer) ExcludedRows() int {
	return a.excluded
}

// BaseColumnIndexes returns positions of input columns that are not
// regenerated by the report: expected columns, the verdict column, flag
// columns and the anomaly column.
func BaseColumnIndexes(columns []string, cfg *config.Config) []int {
	derived := map[string]bool{
		cfg.VerdictColumn:    true,
		models.AnomalyColumn: true,
	}
	for _, field := range cfg.Fields {
		derived[field.Expected] = true
	}
	for _, flag := range models.FlagColumns {
		derived[flag.Name] = true
	}

	idx := make([]int, 0, len(columns))
	for i, column := range columns {
		if derived[column] {
			continue
		}
		idx = append(idx, i)
	}
	return idx
}

func project(values []string, idx []int) []string {
	out := make([]string, len(idx))
	for i, src := range idx {
		if src < len(values) {
			out[i] = values[src]
		}
	}
	return out
}
