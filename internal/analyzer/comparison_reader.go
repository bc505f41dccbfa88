package analyzer

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/ppiankov/sbomdiff/internal/models"
	"github.com/ppiankov/sbomdiff/pkg/config"
)

// FromComparison rebuilds annotated rows from a previously written
// comparison table. The stored verdict is authoritative; field results are
// recomputed only where both the actual and expected columns exist.
func FromComparison(table *models.Table, cfg *config.Config) ([]models.AnnotatedRow, error) {
	verdictIdx, err := table.Index(cfg.VerdictColumn)
	if err != nil {
		return nil, err
	}

	keyIdx := -1
	if table.Has(cfg.KeyColumn) {
		keyIdx, _ = table.Index(cfg.KeyColumn)
	}

	classified := cfg.Classified()
	pairs := make([]fieldColumns, 0, len(cfg.Fields))
	for _, field := range cfg.Fields {
		col := fieldColumns{field: field, actual: -1, expected: -1}
		if field.Role != "" && classified {
			// Role columns drive the flags and cannot be guessed.
			idx, err := table.Index(field.Name)
			if err != nil {
				return nil, err
			}
			col.actual = idx
		} else if table.Has(field.Name) {
			col.actual, _ = table.Index(field.Name)
		}
		if table.Has(field.Expected) {
			col.expected, _ = table.Index(field.Expected)
		}
		pairs = append(pairs, col)
	}

	unrecognized, firstUnrecognized := 0, -1
	rows := make([]models.AnnotatedRow, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		verdict, ok := ParseVerdict(table.Cell(i, verdictIdx), cfg.VerdictStyle)
		if !ok {
			unrecognized++
			if firstUnrecognized < 0 {
				firstUnrecognized = i
			}
		}
		row := models.AnnotatedRow{
			Position: i,
			Values:   padded(table.Rows[i], len(table.Columns)),
			Roles:    make(map[string]string),
			Verdict:  verdict,
			Matched:  true,
		}
		if keyIdx >= 0 {
			row.Key = table.Value(i, keyIdx)
		}

		for _, col := range pairs {
			if col.actual < 0 {
				continue
			}
			actualValue := table.Value(i, col.actual)
			if col.field.Role != "" {
				row.Roles[col.field.Role] = actualValue
			}
			if col.expected < 0 {
				continue
			}
			expectedValue := table.Value(i, col.expected)
			row.Fields = append(row.Fields, models.FieldResult{
				Name:           col.field.Name,
				ExpectedColumn: col.field.Expected,
				Actual:         actualValue,
				Expected:       expectedValue,
				Match:          actualValue == expectedValue,
			})
		}

		rows = append(rows, row)
	}

	if unrecognized > 0 {
		slog.Warn("unrecognized verdict cells treated as MISMATCH",
			slog.String("column", cfg.VerdictColumn),
			slog.String("source", table.Source),
			slog.Int("count", unrecognized),
			slog.Int("first_row", firstUnrecognized+2),
			slog.String("first_value", table.Cell(firstUnrecognized, verdictIdx)),
		)
	}

	return rows, nil
}

// ParseVerdict reads a stored verdict cell. With the status style only
// "MATCH" is a match; with the flag style the cell holds the mismatch
// boolean. Cells that are neither spelling count as a mismatch and
// recognized is false.
func ParseVerdict(cell, style string) (verdict models.Verdict, recognized bool) {
	value := models.NormalizeValue(cell)
	if style == config.VerdictStyleFlag {
		mismatch, err := strconv.ParseBool(strings.ToLower(value))
		if err != nil {
			return models.VerdictMismatch, false
		}
		if mismatch {
			return models.VerdictMismatch, true
		}
		return models.VerdictMatch, true
	}
	switch {
	case strings.EqualFold(value, string(models.VerdictMatch)):
		return models.VerdictMatch, true
	case strings.EqualFold(value, string(models.VerdictMismatch)):
		return models.VerdictMismatch, true
	default:
		return models.VerdictMismatch, false
	}
}
