package loader

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/ppiankov/sbomdiff/internal/models"
)

type delimitedLoader struct {
	comma rune
}

func (l *delimitedLoader) Load(path string) (*models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = l.comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}

	return buildTable(path, records)
}
