package analyzer

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/ppiankov/sbomdiff/internal/models"
	"github.com/ppiankov/sbomdiff/pkg/config"
)

func TestCompareVerdictIffAllFieldsEqual(t *testing.T) {
	fields := []config.Field{config.NewField("a", ""), config.NewField("b", "")}
	cases := []struct {
		name     string
		actual   []string
		expected []string
		want     models.Verdict
	}{
		{name: "all_equal", actual: []string{"k", "1", "2"}, expected: []string{"k", "1", "2"}, want: models.VerdictMatch},
		{name: "whitespace_trimmed", actual: []string{"k", " 1 ", "2\t"}, expected: []string{"k", "1", "2"}, want: models.VerdictMatch},
		{name: "nan_equals_empty", actual: []string{"k", "NaN", ""}, expected: []string{"k", "", "None"}, want: models.VerdictMatch},
		{name: "short_row_reads_empty", actual: []string{"k", "1"}, expected: []string{"k", "1", ""}, want: models.VerdictMatch},
		{name: "one_differs", actual: []string{"k", "1", "2"}, expected: []string{"k", "1", "3"}, want: models.VerdictMismatch},
		{name: "case_sensitive", actual: []string{"k", "v1", "x"}, expected: []string{"k", "V1", "x"}, want: models.VerdictMismatch},
		{name: "missing_expected_key", actual: []string{"k", "1", "2"}, expected: []string{"other", "1", "2"}, want: models.VerdictMismatch},
		{name: "empty_actual_unmatched_key", actual: []string{"k", "", ""}, expected: []string{"other", "1", "2"}, want: models.VerdictMismatch},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			header := []string{"key", "a", "b"}
			actual := models.NewTable("actual", header, [][]string{tc.actual})
			expected := models.NewTable("expected", header, [][]string{tc.expected})

			rows, err := Compare(actual, expected, "key", fields)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rows[0].Verdict != tc.want {
				t.Fatalf("verdict = %s, want %s", rows[0].Verdict, tc.want)
			}

			allEqual := true
			for _, field := range rows[0].Fields {
				if field.Match != (field.Actual == field.Expected) {
					t.Fatalf("field %q match flag inconsistent: %+v", field.Name, field)
				}
				allEqual = allEqual && field.Match
			}
			if (allEqual && rows[0].Matched) != (rows[0].Verdict == models.VerdictMatch) {
				t.Fatalf("verdict %s disagrees with field results %+v", rows[0].Verdict, rows[0].Fields)
			}
		})
	}
}

func TestComparePreservesOrderAndDuplicates(t *testing.T) {
	header := []string{"key", "v"}
	actual := models.NewTable("actual", header, [][]string{{"c", "1"}, {"a", "1"}, {"c", "2"}, {"b", "1"}})
	expected := models.NewTable("expected", header, [][]string{{"a", "1"}, {"b", "1"}, {"c", "1"}})

	rows, err := Compare(actual, expected, "key", []config.Field{config.NewField("v", "")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantKeys := []string{"c", "a", "c", "b"}
	for i, key := range wantKeys {
		if rows[i].Key != key || rows[i].Position != i {
			t.Fatalf("row %d = %s@%d, want %s@%d", i, rows[i].Key, rows[i].Position, key, i)
		}
	}
	if rows[2].Verdict != models.VerdictMismatch {
		t.Fatalf("second c row should mismatch")
	}
}

func TestCompareDuplicateExpectedKeyFirstWins(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	header := []string{"key", "v"}
	actual := models.NewTable("actual", header, [][]string{{"a", "1"}})
	expected := models.NewTable("expected", header, [][]string{{"a", "1"}, {" a ", "2"}})

	rows, err := Compare(actual, expected, "key", []config.Field{config.NewField("v", "")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].Verdict != models.VerdictMatch || rows[0].Fields[0].Expected != "1" {
		t.Fatalf("expected first duplicate to win, got %+v", rows[0])
	}
	if !strings.Contains(buf.String(), "duplicate key") {
		t.Fatalf("expected duplicate key warning, got %q", buf.String())
	}
}

func TestCompareKeepsRawValuesAndRoles(t *testing.T) {
	header := []string{"key", "java", "note"}
	actual := models.NewTable("actual", header, [][]string{{"k", " 17 ", "x"}})
	expected := models.NewTable("expected", []string{"key", "java"}, [][]string{{"k", "17"}})

	rows, err := Compare(actual, expected, "key", []config.Field{config.NewField("java", config.RoleJava)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].Values[1] != " 17 " || rows[0].Values[2] != "x" {
		t.Fatalf("expected raw values, got %q", rows[0].Values)
	}
	if rows[0].Roles[models.RoleJava] != "17" {
		t.Fatalf("expected java role value 17, got %q", rows[0].Roles[models.RoleJava])
	}
}

func TestCompareUnmatchedKeyWithBlankValuesMismatches(t *testing.T) {
	cfg, err := config.ProfileConfig(config.ProfilePod)
	if err != nil {
		t.Fatalf("unexpected profile error: %v", err)
	}
	header := []string{"pod", "version"}
	actual := models.NewTable("actual", header, [][]string{{"ghost", ""}, {"", ""}, {"other", "1.2"}})
	expected := models.NewTable("expected", header, [][]string{{"other", "1.2"}, {"", ""}})

	rows, err := Compare(actual, expected, cfg.KeyColumn, cfg.Fields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		key     string
		matched bool
		verdict models.Verdict
	}{
		{key: "ghost", matched: false, verdict: models.VerdictMismatch},
		{key: "", matched: false, verdict: models.VerdictMismatch},
		{key: "other", matched: true, verdict: models.VerdictMatch},
	}
	for i, tc := range cases {
		if rows[i].Key != tc.key || rows[i].Matched != tc.matched || rows[i].Verdict != tc.verdict {
			t.Fatalf("row %d = key %q matched=%v verdict=%s, want key %q matched=%v verdict=%s",
				i, rows[i].Key, rows[i].Matched, rows[i].Verdict, tc.key, tc.matched, tc.verdict)
		}
	}
	if !rows[0].Fields[0].Match {
		t.Fatalf("blank field pair should still compare equal: %+v", rows[0].Fields[0])
	}
}

func TestCompareMissingColumns(t *testing.T) {
	cases := []struct {
		name     string
		actual   []string
		expected []string
		column   string
	}{
		{name: "key_missing_in_actual", actual: []string{"v"}, expected: []string{"key", "v"}, column: "key"},
		{name: "key_missing_in_expected", actual: []string{"key", "v"}, expected: []string{"v"}, column: "key"},
		{name: "field_missing_in_expected", actual: []string{"key", "v"}, expected: []string{"key"}, column: "v"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			actual := models.NewTable("actual", tc.actual, nil)
			expected := models.NewTable("expected", tc.expected, nil)
			_, err := Compare(actual, expected, "key", []config.Field{config.NewField("v", "")})
			mc, ok := err.(*models.MissingColumnError)
			if !ok {
				t.Fatalf("expected MissingColumnError, got %T %v", err, err)
			}
			if mc.Column != tc.column {
				t.Fatalf("missing column = %q, want %q", mc.Column, tc.column)
			}
		})
	}
}

func TestFromComparisonWarnsOnUnrecognizedVerdicts(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	cfg := config.DefaultConfig()
	header := []string{"Image", "Detected Base Image", "Detected Tomcat Version",
		"Detected Spring Boot Version", "Detected Java Version", "STATUS"}
	table := models.NewTable("comparison.xlsx", header, [][]string{
		{"app-a", "ubi8", "10.1", "", "17", "MATCH"},
		{"app-b", "ubi8", "", "", "11", "N/A"},
		{"app-c", "ubi8", "", "", "11", "MISMATCH"},
		{"app-d", "alpine", "", "", "", ""},
	})

	rows, err := FromComparison(table, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []models.Verdict{models.VerdictMatch, models.VerdictMismatch, models.VerdictMismatch, models.VerdictMismatch}
	for i, v := range want {
		if rows[i].Verdict != v {
			t.Fatalf("row %d verdict = %s, want %s", i, rows[i].Verdict, v)
		}
	}

	logged := buf.String()
	for _, want := range []string{"unrecognized verdict cells", "count=2", "first_row=3", "first_value=N/A"} {
		if !strings.Contains(logged, want) {
			t.Fatalf("expected log to contain %q, got %q", want, logged)
		}
	}
}

func TestFromComparisonKnownVerdictsDoNotWarn(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	cfg, err := config.ProfileConfig(config.ProfilePod)
	if err != nil {
		t.Fatalf("unexpected profile error: %v", err)
	}
	table := models.NewTable("pods.xlsx", []string{"pod", "version", "version_expected", "mismatch"}, [][]string{
		{"a", "1.2", "1.2", "FALSE"},
		{"b", "1.0", "", "TRUE"},
	})

	if _, err := FromComparison(table, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "unrecognized verdict") {
		t.Fatalf("unexpected warning: %q", buf.String())
	}
}
