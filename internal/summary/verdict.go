package summary

import "github.com/ppiankov/sbomdiff/internal/models"

// Summary labels for unclassified comparisons
const (
	LabelTotalRows    = "Total Rows"
	LabelMatchRows    = "MATCH Rows"
	LabelMismatchRows = "MISMATCH Rows"
	LabelMatchPercent = "MATCH %"
)

// VerdictAggregator tallies rows by verdict only. A negative Precision
// prints whole percentages.
type VerdictAggregator struct {
	Precision int
}

// Summarize implements Aggregator
func (v *VerdictAggregator) Summarize(rows []models.EnrichedRow) []models.SummaryMetric {
	matched, mismatched := models.CountVerdicts(rows)
	total := len(rows)
	return []models.SummaryMetric{
		count(LabelTotalRows, total),
		count(LabelMatchRows, matched),
		count(LabelMismatchRows, mismatched),
		percent(LabelMatchPercent, matched, total, v.Precision),
	}
}
