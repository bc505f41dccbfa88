package logging

import (
	"io"
	"log/slog"
	"os"
)

// Init installs the default slog logger on stderr.
func Init(verbose bool) {
	InitWriter(os.Stderr, verbose)
}

// InitWriter installs a text logger writing to w. Only warnings and errors
// pass unless verbose is set, which lowers the level to debug.
func InitWriter(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
