package reporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ppiankov/sbomdiff/internal/loader"
	"github.com/ppiankov/sbomdiff/internal/models"
	"github.com/ppiankov/sbomdiff/pkg/config"
	"github.com/xuri/excelize/v2"
)

const (
	summaryMetricHeader = "Metric"
	summaryValueHeader  = "Value"
)

// comparisonLayout maps report content to comparison sheet columns
type comparisonLayout struct {
	header   []string
	index    map[string]int
	fields   []config.Field
	expected int
	verdict  int
	anomaly  int
}

func newComparisonLayout(report *models.Report, cfg *config.Config) *comparisonLayout {
	header := append([]string{}, report.Columns...)
	expected := len(header)
	for _, field := range cfg.Fields {
		header = append(header, field.Expected)
	}
	verdict := len(header)
	header = append(header, cfg.VerdictColumn)

	anomaly := -1
	if report.Metadata.Classified {
		for _, flag := range models.FlagColumns {
			header = append(header, flag.Name)
		}
		anomaly = len(header)
		header = append(header, models.AnomalyColumn)
	}

	index := make(map[string]int, len(header))
	for i, column := range header {
		if _, exists := index[column]; !exists {
			index[column] = i
		}
	}

	return &comparisonLayout{
		header:   header,
		index:    index,
		fields:   cfg.Fields,
		expected: expected,
		verdict:  verdict,
		anomaly:  anomaly,
	}
}

// requiredColumns lists the columns the highlight mode reads
func (l *comparisonLayout) requiredColumns(cfg *config.Config, classified bool) []string {
	var required []string
	if cfg.HighlightsCells() {
		required = append(required, cfg.VerdictColumn)
		for _, field := range l.fields {
			required = append(required, field.Name, field.Expected)
		}
	}
	if cfg.HighlightsRows() && classified {
		required = append(required, models.AnomalyColumn)
	}
	return required
}

func (l *comparisonLayout) check(required []string, source string) error {
	for _, column := range required {
		if _, ok := l.index[column]; !ok {
			return &models.MissingColumnError{Column: column, Source: source}
		}
	}
	return nil
}

func (l *comparisonLayout) row(er models.EnrichedRow, style string) []interface{} {
	cells := make([]interface{}, len(l.header))
	for i := 0; i < l.expected; i++ {
		cells[i] = ""
		if i < len(er.Values) {
			cells[i] = er.Values[i]
		}
	}

	expected := make(map[string]string, len(er.Fields))
	for _, field := range er.Fields {
		expected[field.Name] = field.Expected
	}
	for i, field := range l.fields {
		cells[l.expected+i] = expected[field.Name]
	}

	if style == config.VerdictStyleFlag {
		cells[l.verdict] = er.Verdict == models.VerdictMismatch
	} else {
		cells[l.verdict] = string(er.Verdict)
	}

	if l.anomaly >= 0 {
		for i, flag := range models.FlagColumns {
			cells[l.verdict+1+i] = flag.Get(er.Flags)
		}
		cells[l.anomaly] = er.AnomalyReason
	}
	return cells
}

// WriteXLSX writes the comparison and summary sheets to cfg.OutputPath.
// The header is checked against the highlight mode before anything is saved.
func WriteXLSX(report *models.Report, cfg *config.Config) error {
	if report == nil {
		return fmt.Errorf("report is nil")
	}
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	layout := newComparisonLayout(report, cfg)
	if err := layout.check(layout.requiredColumns(cfg, report.Metadata.Classified), cfg.OutputPath); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Debug("failed to close workbook", slog.String("error", err.Error()))
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), cfg.ComparisonSheet); err != nil {
		return fmt.Errorf("failed to name sheet %q: %w", cfg.ComparisonSheet, err)
	}
	if _, err := f.NewSheet(cfg.SummarySheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", cfg.SummarySheet, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	fillStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{cfg.HighlightColor}},
	})
	if err != nil {
		return fmt.Errorf("failed to create highlight style: %w", err)
	}

	if err := writeComparisonSheet(f, layout, report, cfg, headerStyle, fillStyle); err != nil {
		return err
	}
	if err := writeSummarySheet(f, report.Summary, cfg.SummarySheet, headerStyle); err != nil {
		return err
	}

	if dir := filepath.Dir(cfg.OutputPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := f.SaveAs(cfg.OutputPath); err != nil {
		return fmt.Errorf("failed to save %s: %w", cfg.OutputPath, err)
	}

	slog.Debug("workbook written", slog.String("path", cfg.OutputPath), slog.Int("rows", len(report.Rows)))
	return nil
}

func writeComparisonSheet(f *excelize.File, layout *comparisonLayout, report *models.Report, cfg *config.Config, headerStyle, fillStyle int) error {
	sheet := cfg.ComparisonSheet
	header := make([]interface{}, len(layout.header))
	for i, column := range layout.header {
		header[i] = column
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := styleRange(f, sheet, 1, 1, 1, len(header), headerStyle); err != nil {
		return err
	}

	lastCol := len(layout.header)
	for i, er := range report.Rows {
		excelRow := i + 2
		cells := layout.row(er, cfg.VerdictStyle)
		start, err := excelize.CoordinatesToCellName(1, excelRow)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, start, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", excelRow, err)
		}

		if cfg.HighlightsRows() && er.AnomalyReason != "" {
			if err := styleRange(f, sheet, excelRow, 1, excelRow, lastCol, fillStyle); err != nil {
				return err
			}
		}
		if !cfg.HighlightsCells() || er.Verdict != models.VerdictMismatch {
			continue
		}
		for _, field := range er.Mismatched() {
			for _, column := range []string{field.Name, field.ExpectedColumn} {
				col := layout.index[column] + 1
				if err := styleRange(f, sheet, excelRow, col, excelRow, col, fillStyle); err != nil {
					return err
				}
			}
		}
		col := layout.verdict + 1
		if err := styleRange(f, sheet, excelRow, col, excelRow, col, fillStyle); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, metrics []models.SummaryMetric, sheet string, headerStyle int) error {
	header := []interface{}{summaryMetricHeader, summaryValueHeader}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}
	if err := styleRange(f, sheet, 1, 1, 1, 2, headerStyle); err != nil {
		return err
	}

	for i, metric := range metrics {
		var value interface{} = metric.Count
		if metric.Kind == models.MetricPercent {
			value = metric.Percent
		}
		row := []interface{}{metric.Label, value}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i+2, err)
		}
	}
	return nil
}

func styleRange(f *excelize.File, sheet string, fromRow, fromCol, toRow, toCol, style int) error {
	topLeft, err := excelize.CoordinatesToCellName(fromCol, fromRow)
	if err != nil {
		return err
	}
	bottomRight, err := excelize.CoordinatesToCellName(toCol, toRow)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, topLeft, bottomRight, style); err != nil {
		return fmt.Errorf("failed to style %s:%s: %w", topLeft, bottomRight, err)
	}
	return nil
}

// ReadComparison loads a comparison sheet written by WriteXLSX.
// An empty sheet name reads the first sheet.
func ReadComparison(path, sheet string) (*models.Table, error) {
	return loader.Load(path, loader.Options{Sheet: sheet})
}

// ReadSummary returns the label/value pairs of a summary sheet
func ReadSummary(path, sheet string) ([][2]string, error) {
	table, err := loader.Load(path, loader.Options{Sheet: sheet})
	if err != nil {
		return nil, err
	}
	if err := table.Require(summaryMetricHeader, summaryValueHeader); err != nil {
		return nil, err
	}
	metricIdx, _ := table.Index(summaryMetricHeader)
	valueIdx, _ := table.Index(summaryValueHeader)

	pairs := make([][2]string, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		pairs = append(pairs, [2]string{table.Cell(i, metricIdx), table.Cell(i, valueIdx)})
	}
	return pairs, nil
}
