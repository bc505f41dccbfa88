package summary

import (
	"strconv"

	"github.com/ppiankov/sbomdiff/internal/models"
)

// Aggregator reduces enriched rows to an ordered list of summary metrics
type Aggregator interface {
	Summarize(rows []models.EnrichedRow) []models.SummaryMetric
}

// New returns the category aggregator for classified rows and the plain
// verdict aggregator otherwise. A negative precision keeps each
// aggregator's own defaults.
func New(classified bool, precision int) Aggregator {
	if classified {
		return &CategoryAggregator{Precision: precision}
	}
	return &VerdictAggregator{Precision: precision}
}

// Summarize is a shorthand for New(classified, precision).Summarize(rows)
func Summarize(rows []models.EnrichedRow, classified bool, precision int) []models.SummaryMetric {
	return New(classified, precision).Summarize(rows)
}

// Percent formats num/den*100 with the given number of decimals.
// A zero denominator yields "0%".
func Percent(num, den, precision int) string {
	if den == 0 {
		return "0%"
	}
	if precision < 0 {
		precision = 0
	}
	value := float64(num) / float64(den) * 100
	return strconv.FormatFloat(value, 'f', precision, 64) + "%"
}

func count(label string, n int) models.SummaryMetric {
	return models.SummaryMetric{Label: label, Kind: models.MetricCount, Count: n}
}

func percent(label string, num, den, precision int) models.SummaryMetric {
	return models.SummaryMetric{
		Label:   label,
		Kind:    models.MetricPercent,
		Percent: Percent(num, den, precision),
	}
}
