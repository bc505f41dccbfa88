package analyzer

import (
	"log/slog"

	"github.com/ppiankov/sbomdiff/internal/models"
	"github.com/ppiankov/sbomdiff/pkg/config"
)

type fieldColumns struct {
	field    config.Field
	actual   int
	expected int
}

// Compare left-joins actual onto expected by key and computes per-field and
// per-row verdicts. Output keeps the order of actual. A key missing from
// expected compares against empty values and always yields MISMATCH.
func Compare(actual, expected *models.Table, key string, fields []config.Field) ([]models.AnnotatedRow, error) {
	actualKey, err := actual.Index(key)
	if err != nil {
		return nil, err
	}
	expectedKey, err := expected.Index(key)
	if err != nil {
		return nil, err
	}

	columns := make([]fieldColumns, 0, len(fields))
	for _, field := range fields {
		a, err := actual.Index(field.Name)
		if err != nil {
			return nil, err
		}
		e, err := expected.Index(field.Name)
		if err != nil {
			return nil, err
		}
		columns = append(columns, fieldColumns{field: field, actual: a, expected: e})
	}

	lookup := buildLookup(expected, expectedKey)

	rows := make([]models.AnnotatedRow, 0, actual.Len())
	for i := 0; i < actual.Len(); i++ {
		rowKey := actual.Value(i, actualKey)
		expectedRow, found := lookup[rowKey]
		if rowKey == "" {
			found = false
		}

		row := models.AnnotatedRow{
			Position: i,
			Key:      rowKey,
			Values:   padded(actual.Rows[i], len(actual.Columns)),
			Fields:   make([]models.FieldResult, 0, len(columns)),
			Roles:    make(map[string]string),
			Verdict:  models.VerdictMatch,
			Matched:  found,
		}

		for _, col := range columns {
			actualValue := actual.Value(i, col.actual)
			expectedValue := ""
			if found {
				expectedValue = expected.Value(expectedRow, col.expected)
			}

			match := actualValue == expectedValue
			if !match {
				row.Verdict = models.VerdictMismatch
			}
			row.Fields = append(row.Fields, models.FieldResult{
				Name:           col.field.Name,
				ExpectedColumn: col.field.Expected,
				Actual:         actualValue,
				Expected:       expectedValue,
				Match:          match,
			})
			if col.field.Role != "" {
				row.Roles[col.field.Role] = actualValue
			}
		}
		// no reference row is a mismatch even when every value is blank
		if !found {
			row.Verdict = models.VerdictMismatch
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// buildLookup maps normalized keys to expected row positions.
// The first row wins for duplicate keys.
func buildLookup(expected *models.Table, keyIdx int) map[string]int {
	lookup := make(map[string]int, expected.Len())
	for i := 0; i < expected.Len(); i++ {
		key := expected.Value(i, keyIdx)
		if key == "" {
			continue
		}
		if first, dup := lookup[key]; dup {
			slog.Warn("duplicate key in expected data, keeping first row",
				slog.String("key", key),
				slog.String("source", expected.Source),
				slog.Int("first_row", first+2),
				slog.Int("duplicate_row", i+2),
			)
			continue
		}
		lookup[key] = i
	}
	return lookup
}

func padded(cells []string, width int) []string {
	out := make([]string, width)
	copy(out, cells)
	return out
}
