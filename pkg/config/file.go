package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFileYAML is the canonical config filename.
	DefaultConfigFileYAML = ".sbomdiff.yaml"
	// DefaultConfigFileYML is a compatible alternate config filename.
	DefaultConfigFileYML = ".sbomdiff.yml"
)

// FileField is a tracked field entry in the config file
type FileField struct {
	Name     string `yaml:"name"`
	Expected string `yaml:"expected"`
	Role     string `yaml:"role"`
}

// FileConfig represents values loaded from a .sbomdiff.yaml file.
type FileConfig struct {
	Profile          string      `yaml:"profile"`
	KeyColumn        string      `yaml:"key_column"`
	Key              string      `yaml:"key"`
	Fields           []FileField `yaml:"fields"`
	Sheet            string      `yaml:"sheet"`
	ExpectedSheet    string      `yaml:"expected_sheet"`
	ExcludeKeys      []string    `yaml:"exclude_keys"`
	VerdictColumn    string      `yaml:"verdict_column"`
	VerdictStyle     string      `yaml:"verdict_style"`
	UBIMarker        string      `yaml:"ubi_marker"`
	Format           string      `yaml:"format"`
	Formats          []string    `yaml:"formats"`
	ComparisonSheet  string      `yaml:"comparison_sheet"`
	SummarySheet     string      `yaml:"summary_sheet"`
	Highlight        string      `yaml:"highlight"`
	HighlightColor   string      `yaml:"highlight_color"`
	PercentPrecision *int        `yaml:"percent_precision"`
	FailOnMismatch   *bool       `yaml:"fail_on_mismatch"`
}

// KeyValue returns the key column from key_column or its short alias.
func (fc *FileConfig) KeyValue() string {
	if fc == nil {
		return ""
	}
	if key := strings.TrimSpace(fc.KeyColumn); key != "" {
		return key
	}
	return strings.TrimSpace(fc.Key)
}

// FormatValues merges the single format field into the formats list.
func (fc *FileConfig) FormatValues() []string {
	if fc == nil {
		return nil
	}
	values := append([]string{}, fc.Formats...)
	if format := strings.TrimSpace(fc.Format); format != "" {
		values = append(values, format)
	}
	return values
}

// Normalize trims and removes empty items from list fields.
func (fc *FileConfig) Normalize() {
	if fc == nil {
		return
	}
	fc.Profile = strings.TrimSpace(fc.Profile)
	fc.KeyColumn = strings.TrimSpace(fc.KeyColumn)
	fc.Key = strings.TrimSpace(fc.Key)
	fc.Sheet = strings.TrimSpace(fc.Sheet)
	fc.ExpectedSheet = strings.TrimSpace(fc.ExpectedSheet)
	fc.ExcludeKeys = normalizeList(fc.ExcludeKeys)
	fc.Formats = normalizeList(fc.Formats)
	fc.Format = strings.TrimSpace(fc.Format)
	fc.VerdictColumn = strings.TrimSpace(fc.VerdictColumn)
	fc.VerdictStyle = strings.TrimSpace(fc.VerdictStyle)
	fc.Highlight = strings.TrimSpace(fc.Highlight)
	fc.HighlightColor = strings.TrimSpace(fc.HighlightColor)

	fields := make([]FileField, 0, len(fc.Fields))
	for _, field := range fc.Fields {
		field.Name = strings.TrimSpace(field.Name)
		field.Expected = strings.TrimSpace(field.Expected)
		field.Role = strings.TrimSpace(field.Role)
		if field.Name == "" {
			continue
		}
		fields = append(fields, field)
	}
	fc.Fields = fields
}

// Apply overlays file values on cfg. Unset file values keep cfg's values.
func (c *Config) Apply(fc *FileConfig) {
	if c == nil || fc == nil {
		return
	}

	if key := fc.KeyValue(); key != "" {
		c.KeyColumn = key
	}
	if len(fc.Fields) > 0 {
		fields := make([]Field, 0, len(fc.Fields))
		for _, ff := range fc.Fields {
			expected := ff.Expected
			if expected == "" {
				expected = ExpectedColumnFor(ff.Name)
			}
			fields = append(fields, Field{Name: ff.Name, Expected: expected, Role: ff.Role})
		}
		c.Fields = fields
	}
	if fc.Sheet != "" {
		c.Sheet = fc.Sheet
	}
	if fc.ExpectedSheet != "" {
		c.ExpectedSheet = fc.ExpectedSheet
	}
	if len(fc.ExcludeKeys) > 0 {
		c.ExcludeKeys = append([]string{}, fc.ExcludeKeys...)
	}
	if fc.VerdictColumn != "" {
		c.VerdictColumn = fc.VerdictColumn
	}
	if fc.VerdictStyle != "" {
		c.VerdictStyle = fc.VerdictStyle
	}
	if marker := strings.TrimSpace(fc.UBIMarker); marker != "" {
		c.UBIMarker = marker
	}
	if formats := fc.FormatValues(); len(formats) > 0 {
		c.Formats = formats
	}
	if sheet := strings.TrimSpace(fc.ComparisonSheet); sheet != "" {
		c.ComparisonSheet = sheet
	}
	if sheet := strings.TrimSpace(fc.SummarySheet); sheet != "" {
		c.SummarySheet = sheet
	}
	if fc.Highlight != "" {
		c.HighlightMode = fc.Highlight
	}
	if fc.HighlightColor != "" {
		c.HighlightColor = fc.HighlightColor
	}
	if fc.PercentPrecision != nil {
		c.PercentPrecision = *fc.PercentPrecision
	}
	if fc.FailOnMismatch != nil {
		c.FailOnMismatch = *fc.FailOnMismatch
	}
}

// AutoLoadFile discovers and loads the first available config file.
func AutoLoadFile() (*FileConfig, string, error) {
	candidates := []string{
		DefaultConfigFileYAML,
		DefaultConfigFileYML,
	}

	if homeDir, err := os.UserHomeDir(); err == nil && strings.TrimSpace(homeDir) != "" {
		candidates = append(candidates,
			filepath.Join(homeDir, DefaultConfigFileYAML),
			filepath.Join(homeDir, DefaultConfigFileYML),
		)
	}

	return LoadFirstExistingFile(candidates)
}

// LoadFirstExistingFile loads the first config file that exists in paths.
func LoadFirstExistingFile(paths []string) (*FileConfig, string, error) {
	for _, path := range paths {
		candidate := strings.TrimSpace(path)
		if candidate == "" {
			continue
		}

		info, err := os.Stat(candidate)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, "", fmt.Errorf("failed to access config file %q: %w", candidate, err)
		}
		if info.IsDir() {
			return nil, "", fmt.Errorf("config path %q is a directory, expected a file", candidate)
		}

		cfg, err := LoadFile(candidate)
		if err != nil {
			return nil, "", err
		}
		return cfg, candidate, nil
	}

	return nil, "", nil
}

// LoadFile loads config values from a specific YAML file path.
func LoadFile(path string) (*FileConfig, error) {
	filename := strings.TrimSpace(path)
	if filename == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", filename, err)
	}

	cfg := &FileConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", filename, err)
	}

	cfg.Normalize()
	return cfg, nil
}

func normalizeList(values []string) []string {
	if len(values) == 0 {
		return []string{}
	}

	normalized := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		normalized = append(normalized, trimmed)
	}
	return normalized
}
