package reporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/ppiankov/sbomdiff/internal/models"
	"github.com/ppiankov/sbomdiff/pkg/config"
)

// WriteJSON writes the full report next to the workbook
func WriteJSON(report *models.Report, cfg *config.Config) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report to JSON: %w", err)
	}

	outputPath := SidecarPath(cfg.OutputPath, config.FormatJSON)
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	slog.Debug("report written", slog.String("path", outputPath))
	return nil
}
