package reporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/sbomdiff/internal/models"
	"github.com/ppiankov/sbomdiff/pkg/config"
)

// Reporter interface for generating reports
type Reporter interface {
	Generate(report *models.Report) error
}

// reporter implements the Reporter interface
type reporter struct {
	config *config.Config
	out    io.Writer
}

// New creates a new reporter instance writing terminal output to stdout
func New(cfg *config.Config) Reporter {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter creates a reporter writing terminal output to out
func NewWithWriter(cfg *config.Config, out io.Writer) Reporter {
	return &reporter{
		config: cfg,
		out:    out,
	}
}

// Generate writes the workbook first, then every other configured format.
// Sidecar files are only written once the workbook has been saved.
func (r *reporter) Generate(report *models.Report) error {
	if err := WriteXLSX(report, r.config); err != nil {
		return err
	}

	for _, format := range r.config.Formats {
		var err error
		switch format {
		case config.FormatXLSX:
			continue
		case config.FormatJSON:
			err = WriteJSON(report, r.config)
		case config.FormatSARIF:
			err = WriteSARIF(report, r.config)
		case config.FormatText:
			err = writeText(report, r.out)
		default:
			err = fmt.Errorf("unsupported report format %q", format)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// SidecarPath derives the path of a secondary output next to the workbook
func SidecarPath(outputPath, extension string) string {
	base := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))
	return base + "." + strings.TrimPrefix(extension, ".")
}
