package config

import (
	"path"
	"strings"
)

// Normalize trims list values and lowercases formats.
func (c *Config) Normalize() {
	if c == nil {
		return
	}
	c.ExcludeKeys = normalizePatterns(c.ExcludeKeys)

	formats := make([]string, 0, len(c.Formats))
	seen := map[string]bool{}
	for _, format := range c.Formats {
		f := strings.ToLower(strings.TrimSpace(format))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		formats = append(formats, f)
	}
	if !seen[FormatXLSX] {
		formats = append([]string{FormatXLSX}, formats...)
	}
	c.Formats = formats

	c.HighlightMode = strings.ToLower(strings.TrimSpace(c.HighlightMode))
	c.VerdictStyle = strings.ToLower(strings.TrimSpace(c.VerdictStyle))
	c.HighlightColor = strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(c.HighlightColor), "#"))
}

// IsKeyExcluded reports whether a row key matches an exclude pattern.
func (c *Config) IsKeyExcluded(key string) bool {
	if c == nil || len(c.ExcludeKeys) == 0 {
		return false
	}

	value := normalizePattern(key)
	if value == "" {
		return false
	}

	for _, pattern := range c.ExcludeKeys {
		if patternMatches(pattern, value) {
			return true
		}
	}
	return false
}

func normalizePatterns(values []string) []string {
	if len(values) == 0 {
		return []string{}
	}

	normalized := make([]string, 0, len(values))
	for _, pattern := range values {
		p := normalizePattern(pattern)
		if p == "" {
			continue
		}
		normalized = append(normalized, p)
	}
	return normalized
}

func normalizePattern(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func patternMatches(pattern, value string) bool {
	normalizedPattern := normalizePattern(pattern)
	normalizedValue := normalizePattern(value)
	if normalizedPattern == "" || normalizedValue == "" {
		return false
	}

	// Invalid glob patterns are treated as exact matches.
	matched, err := path.Match(normalizedPattern, normalizedValue)
	if err == nil {
		return matched
	}
	return normalizedPattern == normalizedValue
}
