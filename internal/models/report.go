package models

import "time"

// Report is the complete output structure
type Report struct {
	Tool      string          `json:"tool"`
	Version   string          `json:"version"`
	Timestamp string          `json:"timestamp"`
	Metadata  Metadata        `json:"metadata"`
	Columns   []string        `json:"columns"` // base columns carried from the input
	Fields    []FieldSpec     `json:"fields"`
	Rows      []EnrichedRow   `json:"rows"`
	Summary   []SummaryMetric `json:"summary"`
}

// FieldSpec describes a tracked field as written to the report
type FieldSpec struct {
	Name     string `json:"name"`
	Expected string `json:"expected"`
	Role     string `json:"role,omitempty"`
}

// Metadata contains report generation info
type Metadata struct {
	RunID            string    `json:"run_id,omitempty"`
	GeneratedAt      time.Time `json:"generated_at"`
	Mode             string    `json:"mode"` // "compare" or "summarize"
	ActualSource     string    `json:"actual_source"`
	ExpectedSource   string    `json:"expected_source,omitempty"`
	Profile          string    `json:"profile"`
	KeyColumn        string    `json:"key_column,omitempty"`
	VerdictColumn    string    `json:"verdict_column"`
	VerdictStyle     string    `json:"verdict_style"`
	HighlightMode    string    `json:"highlight_mode"`
	Classified       bool      `json:"classified"`
	TotalRows        int       `json:"total_rows"`
	MatchedRows      int       `json:"matched_rows"`
	MismatchedRows   int       `json:"mismatched_rows"`
	UnmatchedKeys    int       `json:"unmatched_keys"`
	ExcludedRows     int       `json:"excluded_rows"`
	AnomalyRows      int       `json:"anomaly_rows"`
	AnalysisDuration string    `json:"analysis_duration"`
}

// CountVerdicts returns the MATCH and MISMATCH row counts
func CountVerdicts(rows []EnrichedRow) (matched int, mismatched int) {
	for _, row := range rows {
		if row.Verdict == VerdictMatch {
			matched++
		} else {
			mismatched++
		}
	}
	return matched, mismatched
}

// CountAnomalies returns the number of rows carrying an anomaly reason
func CountAnomalies(rows []EnrichedRow) int {
	count := 0
	for _, row := range rows {
		if row.AnomalyReason != "" {
			count++
		}
	}
	return count
}
