package models

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks against the typed errors below.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrMissingColumn     = errors.New("missing column")
	ErrUsage             = errors.New("usage error")
)

// UnsupportedFormatError is returned for unrecognized input extensions
type UnsupportedFormatError struct {
	Path      string
	Extension string
	Supported []string
}

func (e *UnsupportedFormatError) Error() string {
	ext := e.Extension
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Sprintf("unsupported file type %s for %q (supported: %v)", ext, e.Path, e.Supported)
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// MissingColumnError is returned when a required column is absent
type MissingColumnError struct {
	Column string
	Source string
}

func (e *MissingColumnError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("required column %q not found", e.Column)
	}
	return fmt.Sprintf("required column %q not found in %s", e.Column, e.Source)
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// UsageError reports a malformed command line
type UsageError struct {
	Message string
	Usage   string
}

func (e *UsageError) Error() string {
	if e.Usage == "" {
		return e.Message
	}
	return fmt.Sprintf("%s\nUsage: %s", e.Message, e.Usage)
}

func (e *UsageError) Is(target error) bool {
	return target == ErrUsage
}

// MismatchError indicates the comparison completed but rows did not match.
type MismatchError struct {
	Count int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%d rows mismatched", e.Count)
}
