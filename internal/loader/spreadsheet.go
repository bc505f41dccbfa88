package loader

import (
	"fmt"

	"github.com/ppiankov/sbomdiff/internal/models"
	"github.com/xuri/excelize/v2"
)

type spreadsheetLoader struct {
	sheet string
}

func (l *spreadsheetLoader) Load(path string) (*models.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	sheet := l.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%s: sheet %q not found (available: %v)", path, sheet, f.GetSheetList())
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q of %q: %w", sheet, path, err)
	}

	return buildTable(path, records)
}
