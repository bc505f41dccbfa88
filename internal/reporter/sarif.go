package reporter

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ppiankov/sbomdiff/internal/models"
	"github.com/ppiankov/sbomdiff/pkg/config"
)

const (
	ruleMismatch = "sbomdiff/MISMATCH"
	ruleAnomaly  = "sbomdiff/ANOMALY"

	ruleIndexMismatch = 0
	ruleIndexAnomaly  = 1

	sarifFallbackLocationURI = "inventory.csv"
	sarifSchemaURI           = "https://docs.oasis-open.org/sarif/sarif/v2.1.0/cs01/schemas/sarif-schema-2.1.0.json"
)

var semanticVersionPattern = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-[0-9A-Za-z.-]+)?(?:\+[0-9A-Za-z.-]+)?$`)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool               `json:"tool"`
	Results           []sarifResult           `json:"results"`
	AutomationDetails *sarifAutomationDetails `json:"automationDetails,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifAutomationDetails struct {
	ID   string `json:"id"`
	GUID string `json:"guid,omitempty"`
}

type sarifDriver struct {
	Name            string       `json:"name"`
	Version         string       `json:"version,omitempty"`
	InformationURI  string       `json:"informationUri,omitempty"`
	ShortDesc       sarifMessage `json:"shortDescription"`
	FullDesc        sarifMessage `json:"fullDescription"`
	Rules           []sarifRule  `json:"rules"`
	SemanticVersion string       `json:"semanticVersion,omitempty"`
}

type sarifRule struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	ShortDesc     sarifMessage `json:"shortDescription"`
	FullDesc      sarifMessage `json:"fullDescription"`
	DefaultConfig sarifConfig  `json:"defaultConfiguration"`
}

type sarifConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID              string            `json:"ruleId"`
	RuleIndex           *int              `json:"ruleIndex,omitempty"`
	Level               string            `json:"level,omitempty"`
	Message             sarifMessage      `json:"message"`
	Locations           []sarifLocation   `json:"locations,omitempty"`
	PartialFingerprints map[string]string `json:"partialFingerprints,omitempty"`
	Properties          map[string]any    `json:"properties,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation  `json:"physicalLocation,omitempty"`
	LogicalLocations []sarifLogicalLocation `json:"logicalLocations,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine,omitempty"`
}

type sarifLogicalLocation struct {
	Name               string `json:"name,omitempty"`
	FullyQualifiedName string `json:"fullyQualifiedName,omitempty"`
	Kind               string `json:"kind,omitempty"`
}

// WriteSARIF writes SARIF 2.1.0 output next to the workbook.
func WriteSARIF(report *models.Report, cfg *config.Config) error {
	if report == nil {
		return fmt.Errorf("report is nil")
	}
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	mode := report.Metadata.Mode
	if mode == "" {
		mode = "compare"
	}

	output := sarifLog{
		Version: "2.1.0",
		Schema:  sarifSchemaURI,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:            "sbomdiff",
						Version:         report.Version,
						SemanticVersion: normalizeSemanticVersion(report.Version),
						InformationURI:  "https://github.com/ppiankov/sbomdiff",
						ShortDesc: sarifMessage{
							Text: "SBOM version comparison",
						},
						FullDesc: sarifMessage{
							Text: "Compares detected component versions against expected versions and flags mismatched inventory rows.",
						},
						Rules: []sarifRule{
							{
								ID:        ruleMismatch,
								Name:      "MISMATCH",
								ShortDesc: sarifMessage{Text: "Detected versions differ from expected"},
								FullDesc:  sarifMessage{Text: "At least one tracked field of the row differs from the expected inventory."},
								DefaultConfig: sarifConfig{
									Level: "warning",
								},
							},
							{
								ID:        ruleAnomaly,
								Name:      "ANOMALY",
								ShortDesc: sarifMessage{Text: "Mismatch without a runtime framework"},
								FullDesc:  sarifMessage{Text: "The row mismatched and shows neither Tomcat nor Spring Boot."},
								DefaultConfig: sarifConfig{
									Level: "error",
								},
							},
						},
					},
				},
				Results: buildSARIFResults(report),
				AutomationDetails: &sarifAutomationDetails{
					ID:   "sbomdiff/" + mode + "/" + report.Metadata.RunID,
					GUID: report.Metadata.RunID,
				},
			},
		},
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal SARIF: %w", err)
	}

	outputPath := SidecarPath(cfg.OutputPath, config.FormatSARIF)
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	return nil
}

func buildSARIFResults(report *models.Report) []sarifResult {
	results := make([]sarifResult, 0)
	if report == nil {
		return results
	}

	source := artifactURI(report.Metadata.ActualSource)
	for _, row := range report.Rows {
		if row.Verdict != models.VerdictMismatch {
			continue
		}

		key := rowKey(row)
		differing := make([]string, 0, len(row.Fields))
		for _, field := range row.Mismatched() {
			differing = append(differing, fmt.Sprintf("%s: %q != %q", field.Name, field.Actual, field.Expected))
		}

		message := fmt.Sprintf("%s does not match the expected inventory.", key)
		if len(differing) > 0 {
			message = fmt.Sprintf("%s does not match the expected inventory (%s).", key, strings.Join(differing, "; "))
		}
		if !row.Matched && report.Metadata.Mode != "summarize" {
			message = fmt.Sprintf("%s has no expected inventory row.", key)
		}

		results = append(results, sarifResult{
			RuleID:    ruleMismatch,
			RuleIndex: ruleIndexPtr(ruleIndexMismatch),
			Level:     "warning",
			Message:   sarifMessage{Text: message},
			Locations: rowLocation(source, row),
			PartialFingerprints: map[string]string{
				"sbomdiff/findingHash": hashFinding("mismatch", key, strings.Join(differing, "\x1e")),
			},
			Properties: map[string]any{
				"key":         key,
				"fields":      mismatchedNames(row),
				"key_matched": row.Matched,
			},
		})

		if row.AnomalyReason == "" {
			continue
		}
		results = append(results, sarifResult{
			RuleID:    ruleAnomaly,
			RuleIndex: ruleIndexPtr(ruleIndexAnomaly),
			Level:     "error",
			Message:   sarifMessage{Text: fmt.Sprintf("%s: %s.", key, row.AnomalyReason)},
			Locations: rowLocation(source, row),
			PartialFingerprints: map[string]string{
				"sbomdiff/findingHash": hashFinding("anomaly", key, row.AnomalyReason),
			},
			Properties: map[string]any{
				"key":            key,
				"anomaly_reason": row.AnomalyReason,
			},
		})
	}

	return results
}

func rowKey(row models.EnrichedRow) string {
	if key := strings.TrimSpace(row.Key); key != "" {
		return key
	}
	return fmt.Sprintf("row %d", row.Position+2)
}

func mismatchedNames(row models.EnrichedRow) []string {
	names := make([]string, 0, len(row.Fields))
	for _, field := range row.Mismatched() {
		names = append(names, field.Name)
	}
	return names
}

func artifactURI(source string) string {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return sarifFallbackLocationURI
	}
	return filepath.ToSlash(trimmed)
}

// rowLocation points at the data line in the input; line 1 is the header.
func rowLocation(source string, row models.EnrichedRow) []sarifLocation {
	key := rowKey(row)
	return []sarifLocation{
		{
			PhysicalLocation: sarifPhysicalLocation{
				ArtifactLocation: sarifArtifactLocation{URI: source},
				Region: &sarifRegion{
					StartLine: row.Position + 2,
				},
			},
			LogicalLocations: []sarifLogicalLocation{
				{
					Name:               key,
					FullyQualifiedName: source + "#" + key,
					Kind:               "artifact",
				},
			},
		},
	}
}

func normalizeSemanticVersion(version string) string {
	normalized := strings.TrimSpace(strings.TrimPrefix(version, "v"))
	if semanticVersionPattern.MatchString(normalized) {
		return normalized
	}
	return ""
}

func hashFinding(parts ...string) string {
	canonical := strings.Join(parts, "\x1f")
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

func ruleIndexPtr(index int) *int {
	value := index
	return &value
}
