package config

import (
	"fmt"
	"regexp"
	"strings"
)

// Profiles
const (
	ProfileSBOM = "sbom"
	ProfilePod  = "pod"
)

// Verdict styles
const (
	VerdictStyleStatus = "status" // MATCH / MISMATCH text
	VerdictStyleFlag   = "flag"   // boolean "mismatch" column
)

// Highlight modes
const (
	HighlightCells = "cells"
	HighlightRows  = "rows"
	HighlightAll   = "all"
)

// Output formats
const (
	FormatXLSX  = "xlsx"
	FormatJSON  = "json"
	FormatSARIF = "sarif"
	FormatText  = "text"
)

// PrecisionPerMetric leaves percentage decimals to each summary metric
const PrecisionPerMetric = -1

// Classification roles, mirrored from internal/models
const (
	RoleBaseImage  = "base_image"
	RoleJava       = "java"
	RoleTomcat     = "tomcat"
	RoleSpringBoot = "spring_boot"
)

var (
	validRoles   = []string{RoleBaseImage, RoleJava, RoleTomcat, RoleSpringBoot}
	validFormats = []string{FormatXLSX, FormatJSON, FormatSARIF, FormatText}
	colorPattern = regexp.MustCompile(`^#?[0-9A-Fa-f]{6}$`)
)

// Field is a tracked attribute compared between actual and expected rows
type Field struct {
	Name     string // column read from both inputs
	Expected string // output column carrying the expected value
	Role     string // optional classification role
}

// Config holds all runtime configuration
type Config struct {
	// Input settings
	Profile       string
	KeyColumn     string
	Fields        []Field
	Sheet         string // user data, or the comparison for summarize
	ExpectedSheet string
	ExcludeKeys   []string

	// Comparison settings
	VerdictColumn string
	VerdictStyle  string
	UBIMarker     string

	// Output settings
	OutputPath       string
	Formats          []string
	ComparisonSheet  string
	SummarySheet     string
	HighlightMode    string
	HighlightColor   string
	PercentPrecision int

	// Operational flags
	Verbose        bool
	DryRun         bool
	FailOnMismatch bool
}

// DefaultConfig returns the sbom profile
func DefaultConfig() *Config {
	return &Config{
		Profile:   ProfileSBOM,
		KeyColumn: "Image",
		Fields: []Field{
			NewField("Detected Base Image", RoleBaseImage),
			NewField("Detected Tomcat Version", RoleTomcat),
			NewField("Detected Spring Boot Version", RoleSpringBoot),
			NewField("Detected Java Version", RoleJava),
		},
		ExcludeKeys:      []string{},
		VerdictColumn:    "STATUS",
		VerdictStyle:     VerdictStyleStatus,
		UBIMarker:        "ubi",
		OutputPath:       "SBOM_Version_Comparison_Result.xlsx",
		Formats:          []string{FormatXLSX},
		ComparisonSheet:  "SBOM Comparison",
		SummarySheet:     "Summary",
		HighlightMode:    HighlightAll,
		HighlightColor:   "FF0000",
		PercentPrecision: PrecisionPerMetric,
		Verbose:          false,
		DryRun:           false,
		FailOnMismatch:   false,
	}
}

// ProfileConfig returns the preset for a named profile.
// An empty name selects the sbom profile.
func ProfileConfig(name string) (*Config, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ProfileSBOM:
		return DefaultConfig(), nil
	case ProfilePod:
		cfg := DefaultConfig()
		cfg.Profile = ProfilePod
		cfg.KeyColumn = "pod"
		cfg.Fields = []Field{NewField("version", "")}
		cfg.VerdictColumn = "mismatch"
		cfg.VerdictStyle = VerdictStyleFlag
		cfg.OutputPath = "pod_version_comparison.xlsx"
		cfg.ComparisonSheet = "Pod Comparison"
		cfg.HighlightMode = HighlightCells
		return cfg, nil
	default:
		return nil, fmt.Errorf("invalid profile %q: must be one of %s, %s", name, ProfileSBOM, ProfilePod)
	}
}

// NewField builds a field whose expected column is derived from its name
func NewField(name, role string) Field {
	return Field{Name: name, Expected: ExpectedColumnFor(name), Role: role}
}

// ExpectedColumnFor derives the expected-value column header.
// "Detected Java Version" becomes "Expected Java Version", anything else
// gets an "_expected" suffix.
func ExpectedColumnFor(name string) string {
	if idx := strings.LastIndex(name, "Detected "); idx >= 0 {
		return "Expected " + name[idx+len("Detected "):]
	}
	return name + "_expected"
}

// ParseField parses Name[=Expected][:role]
func ParseField(spec string) (Field, error) {
	value := strings.TrimSpace(spec)
	if value == "" {
		return Field{}, fmt.Errorf("invalid field %q: name is required", spec)
	}

	role := ""
	if idx := strings.LastIndex(value, ":"); idx >= 0 {
		candidate := strings.TrimSpace(value[idx+1:])
		if !isValidRole(candidate) {
			return Field{}, fmt.Errorf("invalid field %q: role must be one of %s", spec, strings.Join(validRoles, ", "))
		}
		role = candidate
		value = strings.TrimSpace(value[:idx])
	}

	name, expected, hasExpected := strings.Cut(value, "=")
	name = strings.TrimSpace(name)
	expected = strings.TrimSpace(expected)
	if name == "" {
		return Field{}, fmt.Errorf("invalid field %q: name is required", spec)
	}
	if !hasExpected || expected == "" {
		expected = ExpectedColumnFor(name)
	}

	return Field{Name: name, Expected: expected, Role: role}, nil
}

// Classified reports whether any tracked field carries a role
func (c *Config) Classified() bool {
	for _, field := range c.Fields {
		if field.Role != "" {
			return true
		}
	}
	return false
}

// HighlightsCells reports whether field-level mismatches are filled
func (c *Config) HighlightsCells() bool {
	return c.HighlightMode == HighlightCells || c.HighlightMode == HighlightAll
}

// HighlightsRows reports whether anomaly rows are filled
func (c *Config) HighlightsRows() bool {
	return c.HighlightMode == HighlightRows || c.HighlightMode == HighlightAll
}

// WantsFormat reports whether format is enabled
func (c *Config) WantsFormat(format string) bool {
	for _, f := range c.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}
	if len(c.Fields) == 0 {
		return fmt.Errorf("at least one tracked field is required")
	}

	seenColumns := map[string]string{}
	seenRoles := map[string]string{}
	for _, field := range c.Fields {
		if strings.TrimSpace(field.Name) == "" {
			return fmt.Errorf("tracked field name is required")
		}
		if strings.TrimSpace(field.Expected) == "" {
			return fmt.Errorf("tracked field %q: expected column is required", field.Name)
		}
		for _, column := range []string{field.Name, field.Expected} {
			if owner, dup := seenColumns[column]; dup {
				return fmt.Errorf("tracked field %q: column %q already used by %q", field.Name, column, owner)
			}
			seenColumns[column] = field.Name
		}
		if field.Role == "" {
			continue
		}
		if !isValidRole(field.Role) {
			return fmt.Errorf("tracked field %q: invalid role %q", field.Name, field.Role)
		}
		if owner, dup := seenRoles[field.Role]; dup {
			return fmt.Errorf("role %q must be assigned once, already used by %q", field.Role, owner)
		}
		seenRoles[field.Role] = field.Name
	}

	if strings.TrimSpace(c.VerdictColumn) == "" {
		return fmt.Errorf("verdict column is required")
	}
	if _, dup := seenColumns[c.VerdictColumn]; dup {
		return fmt.Errorf("verdict column %q collides with a tracked field column", c.VerdictColumn)
	}

	switch c.VerdictStyle {
	case VerdictStyleStatus, VerdictStyleFlag:
	default:
		return fmt.Errorf("invalid verdict style %q: must be %s or %s", c.VerdictStyle, VerdictStyleStatus, VerdictStyleFlag)
	}

	switch c.HighlightMode {
	case HighlightCells, HighlightRows, HighlightAll:
	default:
		return fmt.Errorf("invalid --highlight value %q: must be %s, %s or %s", c.HighlightMode, HighlightCells, HighlightRows, HighlightAll)
	}

	if !colorPattern.MatchString(c.HighlightColor) {
		return fmt.Errorf("invalid highlight color %q: must be a 6 digit hex RGB value", c.HighlightColor)
	}
	if c.PercentPrecision < PrecisionPerMetric || c.PercentPrecision > 6 {
		return fmt.Errorf("invalid percent precision %d: must be between 0 and 6, or -1 for per-metric defaults", c.PercentPrecision)
	}

	for _, format := range c.Formats {
		if !contains(validFormats, format) {
			return fmt.Errorf("invalid --format value %q: must be one of %s", format, strings.Join(validFormats, ", "))
		}
	}

	if strings.TrimSpace(c.ComparisonSheet) == "" || strings.TrimSpace(c.SummarySheet) == "" {
		return fmt.Errorf("sheet names are required")
	}
	if c.ComparisonSheet == c.SummarySheet {
		return fmt.Errorf("comparison and summary sheet names must differ")
	}

	return nil
}

func isValidRole(role string) bool {
	return contains(validRoles, role)
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
