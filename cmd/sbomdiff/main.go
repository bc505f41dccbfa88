package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/ppiankov/sbomdiff/internal/logging"
	"github.com/ppiankov/sbomdiff/internal/models"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

// Exit codes for structured error reporting.
const (
	ExitSuccess    = 0
	ExitInternal   = 1
	ExitUsage      = 1
	ExitInvalidArg = 2
	ExitNotFound   = 3
	ExitFindings   = 6
)

func main() {
	logging.Init(false)

	root := newRootCmd()
	if err := root.Execute(); err != nil {
		exitCode := classifyError(err)

		var me *models.MismatchError
		var ue *models.UsageError
		switch {
		case errors.As(err, &me):
			slog.Info("mismatches detected", slog.Int("count", me.Count))
		case errors.As(err, &ue):
			fmt.Fprintln(os.Stderr, ue.Error())
		default:
			slog.Error("command failed", slog.String("error", err.Error()))
		}
		os.Exit(exitCode)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sbomdiff",
		Short: "SBOM version comparison",
		Long: `sbomdiff compares detected component versions from an SBOM inventory
against a reference inventory, marks each row MATCH or MISMATCH, classifies
images by base image and runtime framework, and writes a highlighted
spreadsheet with a summary sheet.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(verbose)
		},
	}

	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose logging")
	root.SilenceUsage = true
	root.SilenceErrors = true

	root.AddCommand(NewCompareCmd())
	root.AddCommand(NewSummarizeCmd())
	root.AddCommand(NewVersionCmd())

	return root
}

func classifyError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var me *models.MismatchError
	if errors.As(err, &me) {
		return ExitFindings
	}

	if errors.Is(err, models.ErrUsage) {
		return ExitUsage
	}

	if errors.Is(err, models.ErrUnsupportedFormat) || errors.Is(err, models.ErrMissingColumn) {
		return ExitInvalidArg
	}

	if errors.Is(err, fs.ErrNotExist) {
		return ExitNotFound
	}

	msg := strings.ToLower(err.Error())

	if strings.Contains(msg, "not a directory") ||
		strings.Contains(msg, "does not exist") ||
		strings.Contains(msg, "no such file") {
		return ExitNotFound
	}

	if strings.Contains(msg, "unknown flag") ||
		strings.Contains(msg, "unknown command") ||
		strings.Contains(msg, "accepts ") {
		return ExitUsage
	}

	if strings.Contains(msg, "required") ||
		strings.Contains(msg, "invalid") ||
		strings.Contains(msg, "must be") {
		return ExitInvalidArg
	}

	return ExitInternal
}
