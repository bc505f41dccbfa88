package reporter

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/ppiankov/sbomdiff/internal/models"
)

var (
	textTitleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	textLabelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	textMatchStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	textMismatchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

func writeText(report *models.Report, out io.Writer) error {
	if report == nil {
		return fmt.Errorf("report is nil")
	}
	if out == nil {
		return fmt.Errorf("writer is nil")
	}

	rendered := renderTextReport(report, supportsANSI(out))
	if _, err := io.WriteString(out, rendered); err != nil {
		return fmt.Errorf("failed to write text report to output: %w", err)
	}
	return nil
}

type textPainter struct {
	ansi bool
}

func (p textPainter) paint(style lipgloss.Style, value string) string {
	if !p.ansi {
		return value
	}
	return style.Render(value)
}

func renderTextReport(report *models.Report, useANSI bool) string {
	var b strings.Builder
	p := textPainter{ansi: useANSI}
	meta := report.Metadata

	generatedAt := strings.TrimSpace(report.Timestamp)
	if generatedAt == "" {
		if !meta.GeneratedAt.IsZero() {
			generatedAt = meta.GeneratedAt.UTC().Format(time.RFC3339)
		} else {
			generatedAt = "unknown"
		}
	}

	writeTextSectionHeader(&b, "SBOM Comparison Report", p)
	writeTextField(&b, p, "Generated", generatedAt)
	writeTextField(&b, p, "Actual", valueOr(meta.ActualSource, "unknown"))
	if meta.ExpectedSource != "" {
		writeTextField(&b, p, "Expected", meta.ExpectedSource)
	}
	writeTextField(&b, p, "Profile", valueOr(meta.Profile, "custom"))
	if meta.KeyColumn != "" {
		writeTextField(&b, p, "Key column", meta.KeyColumn)
	}
	writeTextField(&b, p, "Rows", fmt.Sprintf("%d (%s, %s)", meta.TotalRows,
		p.paint(textMatchStyle, fmt.Sprintf("%d MATCH", meta.MatchedRows)),
		p.paint(textMismatchStyle, fmt.Sprintf("%d MISMATCH", meta.MismatchedRows)),
	))
	if meta.UnmatchedKeys > 0 {
		writeTextField(&b, p, "Unmatched keys", fmt.Sprintf("%d", meta.UnmatchedKeys))
	}
	if meta.ExcludedRows > 0 {
		writeTextField(&b, p, "Excluded rows", fmt.Sprintf("%d", meta.ExcludedRows))
	}
	b.WriteString("\n")

	writeTextSectionHeader(&b, "Summary", p)
	width := 0
	for _, metric := range report.Summary {
		if len(metric.Label) > width {
			width = len(metric.Label)
		}
	}
	for _, metric := range report.Summary {
		fmt.Fprintf(&b, "%-*s  %s\n", width, metric.Label, metric.Value())
	}
	b.WriteString("\n")

	writeTextSectionHeader(&b, "Mismatches", p)
	mismatches := 0
	for _, row := range report.Rows {
		if row.Verdict != models.VerdictMismatch {
			continue
		}
		mismatches++

		line := rowKey(row)
		if row.AnomalyReason != "" {
			line += " " + p.paint(textMismatchStyle, "["+row.AnomalyReason+"]")
		}
		fmt.Fprintf(&b, "- %s\n", line)
		if !row.Matched && meta.Mode != "summarize" {
			b.WriteString("    no expected row\n")
		}
		for _, field := range row.Mismatched() {
			fmt.Fprintf(&b, "    %s: %s -> %s\n", field.Name, textValue(field.Actual), textValue(field.Expected))
		}
	}
	if mismatches == 0 {
		b.WriteString("No mismatches detected.\n")
	}

	return b.String()
}

func writeTextSectionHeader(b *strings.Builder, title string, p textPainter) {
	fmt.Fprintf(b, "%s\n", p.paint(textTitleStyle, title))
	fmt.Fprintf(b, "%s\n", strings.Repeat("-", len(title)))
}

func writeTextField(b *strings.Builder, p textPainter, label, value string) {
	fmt.Fprintf(b, "%s %s\n", p.paint(textLabelStyle, label+":"), value)
}

func textValue(value string) string {
	if value == "" {
		return "(empty)"
	}
	return value
}

func valueOr(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func supportsANSI(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
