package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ppiankov/sbomdiff/pkg/config"
	"github.com/spf13/cobra"
)

// commandOptions holds raw flag values shared by compare and summarize
type commandOptions struct {
	configPath       string
	profile          string
	key              string
	fields           []string
	verdictColumn    string
	highlight        string
	highlightColor   string
	formats          []string
	sheet            string
	expectedSheet    string
	percentPrecision int
	excludeKeys      []string
	failOnMismatch   bool
	dryRun           bool
}

func bindCommonFlags(cmd *cobra.Command, opts *commandOptions) {
	defaults := config.DefaultConfig()

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to config file (default: .sbomdiff.yaml in cwd, then home)")
	cmd.Flags().StringVar(&opts.profile, "profile", config.ProfileSBOM, "Comparison preset (sbom, pod)")
	cmd.Flags().StringVar(&opts.key, "key", "", "Key column joining both inputs (default: profile preset)")
	cmd.Flags().StringArrayVar(&opts.fields, "field", nil, "Tracked field as Name[=ExpectedColumn][:role], repeatable (roles: base_image, java, tomcat, spring_boot)")
	cmd.Flags().StringVar(&opts.verdictColumn, "verdict-column", "", "Verdict column name (default: profile preset)")
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "Highlight mode: cells, rows or all (default: profile preset)")
	cmd.Flags().StringVar(&opts.highlightColor, "highlight-color", defaults.HighlightColor, "Highlight fill color as RGB hex")
	cmd.Flags().StringSliceVar(&opts.formats, "format", nil, "Additional output formats (json, sarif, text); xlsx is always written")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "Sheet of the user data or comparison workbook (default: first sheet)")
	cmd.Flags().StringVar(&opts.expectedSheet, "expected-sheet", "", "Sheet of the expected versions workbook (default: first sheet)")
	cmd.Flags().IntVar(&opts.percentPrecision, "percent-precision", defaults.PercentPrecision, "Decimals in all summary percentages (-1 keeps the per-metric defaults)")
	cmd.Flags().StringSliceVar(&opts.excludeKeys, "exclude-key", nil, "Key glob patterns to drop before comparison (repeatable)")
	cmd.Flags().BoolVar(&opts.failOnMismatch, "fail-on-mismatch", false, "Exit with code 6 when any row mismatches")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Dry run mode (don't write output)")
}

// resolveConfig layers profile defaults, the config file and changed flags
func resolveConfig(cmd *cobra.Command, opts *commandOptions) (*config.Config, error) {
	fileCfg, sourcePath, err := loadConfigFile(opts.configPath)
	if err != nil {
		return nil, err
	}

	profile := ""
	if fileCfg != nil {
		profile = fileCfg.Profile
	}
	if cmd.Flags().Changed("profile") {
		profile = opts.profile
	}

	cfg, err := config.ProfileConfig(profile)
	if err != nil {
		return nil, fmt.Errorf("invalid --profile value: %w", err)
	}
	if fileCfg != nil {
		cfg.Apply(fileCfg)
		slog.Debug("loaded config file", slog.String("path", sourcePath))
	}

	if err := applyFlagOverrides(cmd, opts, cfg); err != nil {
		return nil, err
	}

	cfg.Verbose = verbose
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(path string) (*config.FileConfig, string, error) {
	if strings.TrimSpace(path) != "" {
		fileCfg, err := config.LoadFile(path)
		if err != nil {
			return nil, "", err
		}
		return fileCfg, path, nil
	}
	return config.AutoLoadFile()
}

func applyFlagOverrides(cmd *cobra.Command, opts *commandOptions, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("key") {
		cfg.KeyColumn = strings.TrimSpace(opts.key)
	}
	if flags.Changed("field") {
		fields := make([]config.Field, 0, len(opts.fields))
		for _, spec := range opts.fields {
			field, err := config.ParseField(spec)
			if err != nil {
				return err
			}
			fields = append(fields, field)
		}
		cfg.Fields = fields
	}
	if flags.Changed("verdict-column") {
		cfg.VerdictColumn = strings.TrimSpace(opts.verdictColumn)
	}
	if flags.Changed("highlight") {
		cfg.HighlightMode = opts.highlight
	}
	if flags.Changed("highlight-color") {
		cfg.HighlightColor = opts.highlightColor
	}
	if flags.Changed("format") {
		cfg.Formats = append([]string{config.FormatXLSX}, opts.formats...)
	}
	if flags.Changed("sheet") {
		cfg.Sheet = strings.TrimSpace(opts.sheet)
	}
	if flags.Changed("expected-sheet") {
		cfg.ExpectedSheet = strings.TrimSpace(opts.expectedSheet)
	}
	if flags.Changed("percent-precision") {
		cfg.PercentPrecision = opts.percentPrecision
	}
	if flags.Changed("exclude-key") {
		cfg.ExcludeKeys = append([]string{}, opts.excludeKeys...)
	}
	if flags.Changed("fail-on-mismatch") {
		cfg.FailOnMismatch = opts.failOnMismatch
	}
	cfg.DryRun = opts.dryRun

	return nil
}
