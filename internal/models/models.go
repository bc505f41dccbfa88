package models

import (
	"fmt"
	"strings"
)

// Verdict is the row-level comparison outcome
type Verdict string

const (
	VerdictMatch    Verdict = "MATCH"
	VerdictMismatch Verdict = "MISMATCH"
)

// Classification roles a tracked field can carry
const (
	RoleBaseImage  = "base_image"
	RoleJava       = "java"
	RoleTomcat     = "tomcat"
	RoleSpringBoot = "spring_boot"
)

// AnomalyMissingFramework is the anomaly reason for mismatched rows
// that show neither Tomcat nor Spring Boot.
const AnomalyMissingFramework = "MISMATCH and missing Spring Boot/Tomcat"

// Table is a loaded tabular dataset with a header row
type Table struct {
	Source  string     `json:"source"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`

	index map[string]int
}

// NewTable builds a table and its column index. The first occurrence of a
// column name wins when the header repeats a name.
func NewTable(source string, columns []string, rows [][]string) *Table {
	t := &Table{
		Source:  source,
		Columns: columns,
		Rows:    rows,
		index:   make(map[string]int, len(columns)),
	}
	for i, column := range columns {
		if _, exists := t.index[column]; !exists {
			t.index[column] = i
		}
	}
	return t
}

// Has reports whether the column exists
func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Index returns the position of column or a MissingColumnError
func (t *Table) Index(column string) (int, error) {
	idx, ok := t.index[column]
	if !ok {
		return -1, &MissingColumnError{Column: column, Source: t.Source}
	}
	return idx, nil
}

// Require fails on the first absent column
func (t *Table) Require(columns ...string) error {
	for _, column := range columns {
		if _, err := t.Index(column); err != nil {
			return err
		}
	}
	return nil
}

// Cell returns the raw cell, "" when the row is shorter than the header
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	cells := t.Rows[row]
	if col < 0 || col >= len(cells) {
		return ""
	}
	return cells[col]
}

// Value returns the normalized cell value
func (t *Table) Value(row, col int) string {
	return NormalizeValue(t.Cell(row, col))
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// missingMarkers are the spellings spreadsheet tooling treats as "no value".
var missingMarkers = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {},
	"nan": {}, "null": {},
}

// NormalizeValue trims the value and maps missing markers to "".
func NormalizeValue(raw string) string {
	value := strings.TrimSpace(raw)
	if _, missing := missingMarkers[value]; missing {
		return ""
	}
	return value
}

// FieldResult is the comparison of one tracked field
type FieldResult struct {
	Name           string `json:"name"`
	ExpectedColumn string `json:"expected_column"`
	Actual         string `json:"actual"`
	Expected       string `json:"expected"`
	Match          bool   `json:"match"`
}

// AnnotatedRow is an actual row joined with its expected values
type AnnotatedRow struct {
	Position int               `json:"position"` // 0-based data row in the actual table
	Key      string            `json:"key"`
	Values   []string          `json:"values"` // base column cells, aligned with Report.Columns
	Fields   []FieldResult     `json:"fields"`
	Roles    map[string]string `json:"-"` // classification role -> actual value
	Verdict  Verdict           `json:"verdict"`
	Matched  bool              `json:"key_matched"` // key found in the expected dataset
}

// Mismatched lists the fields whose values differ
func (r AnnotatedRow) Mismatched() []FieldResult {
	var out []FieldResult
	for _, field := range r.Fields {
		if !field.Match {
			out = append(out, field)
		}
	}
	return out
}

// Flags are the category flags derived from a row
type Flags struct {
	IsUBI                  bool `json:"is_ubi"`
	IsJava                 bool `json:"is_java"`
	HasTomcat              bool `json:"has_tomcat"`
	HasSpringBoot          bool `json:"has_spring_boot"`
	JavaWithFramework      bool `json:"java_with_tomcat_spring"`
	JavaWithoutFramework   bool `json:"java_without_tomcat_spring"`
	NonJava                bool `json:"non_java"`
	JavaWithFrameworkOK    bool `json:"java_with_tomcat_spring_ok"`
	JavaWithoutFrameworkOK bool `json:"java_without_tomcat_spring_ok"`
	NonJavaOK              bool `json:"non_java_ok"`
}

// FlagColumn pairs a flag column header with its accessor
type FlagColumn struct {
	Name string
	Get  func(Flags) bool
}

// FlagColumns is the declared order of flag columns in the comparison sheet
var FlagColumns = []FlagColumn{
	{Name: "Is_UBI", Get: func(f Flags) bool { return f.IsUBI }},
	{Name: "Is_Java", Get: func(f Flags) bool { return f.IsJava }},
	{Name: "Has_Tomcat", Get: func(f Flags) bool { return f.HasTomcat }},
	{Name: "Has_SpringBoot", Get: func(f Flags) bool { return f.HasSpringBoot }},
	{Name: "Java_With_Tomcat_Spring", Get: func(f Flags) bool { return f.JavaWithFramework }},
	{Name: "Java_Without_Tomcat_Spring", Get: func(f Flags) bool { return f.JavaWithoutFramework }},
	{Name: "Non_Java", Get: func(f Flags) bool { return f.NonJava }},
	{Name: "Java_With_Tomcat_Spring_OK", Get: func(f Flags) bool { return f.JavaWithFrameworkOK }},
	{Name: "Java_Without_Tomcat_Spring_OK", Get: func(f Flags) bool { return f.JavaWithoutFrameworkOK }},
	{Name: "Non_Java_OK", Get: func(f Flags) bool { return f.NonJavaOK }},
}

// AnomalyColumn is the header of the anomaly reason column
const AnomalyColumn = "Anomaly Reason"

// EnrichedRow is an annotated row with its derived flags
type EnrichedRow struct {
	AnnotatedRow
	Classified    bool   `json:"classified"`
	Flags         Flags  `json:"flags"`
	AnomalyReason string `json:"anomaly_reason,omitempty"`
}

// MetricKind distinguishes counts from formatted percentages
type MetricKind string

const (
	MetricCount   MetricKind = "count"
	MetricPercent MetricKind = "percent"
)

// SummaryMetric is one line of the summary table
type SummaryMetric struct {
	Label   string     `json:"label"`
	Kind    MetricKind `json:"kind"`
	Count   int        `json:"count"`
	Percent string     `json:"percent,omitempty"`
}

// Value renders the metric value as text
func (m SummaryMetric) Value() string {
	if m.Kind == MetricPercent {
		return m.Percent
	}
	return fmt.Sprintf("%d", m.Count)
}
