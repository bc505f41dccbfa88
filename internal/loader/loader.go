package loader

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/sbomdiff/internal/models"
)

// Loader reads one tabular file format
type Loader interface {
	Load(path string) (*models.Table, error)
}

// Options control how inputs are read
type Options struct {
	// Sheet selects a worksheet for spreadsheet inputs; empty means the first sheet.
	Sheet string
}

// New returns the loader registered for path's extension.
func New(path string, opts Options) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv", ".txt":
		return &delimitedLoader{comma: ','}, nil
	case ".tsv":
		return &delimitedLoader{comma: '\t'}, nil
	case ".xlsx", ".xlsm":
		return &spreadsheetLoader{sheet: opts.Sheet}, nil
	default:
		return nil, &models.UnsupportedFormatError{
			Path:      path,
			Extension: ext,
			Supported: SupportedExtensions(),
		}
	}
}

// Load reads path into a table using the loader for its extension.
func Load(path string, opts Options) (*models.Table, error) {
	l, err := New(path, opts)
	if err != nil {
		return nil, err
	}

	table, err := l.Load(path)
	if err != nil {
		return nil, err
	}

	slog.Debug("loaded input",
		slog.String("path", path),
		slog.Int("columns", len(table.Columns)),
		slog.Int("rows", table.Len()),
	)
	return table, nil
}

// SupportedExtensions lists recognized input extensions.
func SupportedExtensions() []string {
	exts := []string{".csv", ".tsv", ".txt", ".xlsx", ".xlsm"}
	sort.Strings(exts)
	return exts
}

// buildTable turns raw records (header first) into a table.
func buildTable(source string, records [][]string) (*models.Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: no header row found", source)
	}

	header := normalizeHeader(records[0])
	rows := make([][]string, 0, len(records)-1)
	for _, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		rows = append(rows, record)
	}

	return models.NewTable(source, header, rows), nil
}

// normalizeHeader trims names, labels blank ones "Unnamed: N" and
// suffixes repeats with ".1", ".2", ...
func normalizeHeader(raw []string) []string {
	header := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	taken := make(map[string]bool, len(raw))

	for i, cell := range raw {
		name := cell
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		taken[name] = true
		header[i] = name
	}

	for i, name := range header {
		count := seen[name]
		seen[name] = count + 1
		if count == 0 {
			continue
		}
		candidate := fmt.Sprintf("%s.%d", name, count)
		for taken[candidate] {
			count++
			candidate = fmt.Sprintf("%s.%d", name, count)
		}
		seen[name] = count + 1
		taken[candidate] = true
		header[i] = candidate
	}

	return header
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
