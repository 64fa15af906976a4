package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrTargetNotFound is returned when the scan root does not exist
var ErrTargetNotFound = errors.New("target path does not exist")

// ResolutionMode defines what happens to duplicates once they are found
type ResolutionMode string

const (
	// ModeReport materialises the analysis for a structured report, never deletes
	ModeReport ResolutionMode = "report"
	// ModeDryRun shows the analysis to a human, never deletes
	ModeDryRun ResolutionMode = "dry-run"
	// ModeBatch asks one yes/no question for the whole scan
	ModeBatch ResolutionMode = "batch"
	// ModeInteractive asks which file to keep for each group
	ModeInteractive ResolutionMode = "interactive"
)

// Deletes reports whether the mode may remove files
func (m ResolutionMode) Deletes() bool {
	return m == ModeBatch || m == ModeInteractive
}

// ParseResolutionMode parses a mode name
func ParseResolutionMode(s string) (ResolutionMode, error) {
	switch ResolutionMode(s) {
	case ModeReport, ModeDryRun, ModeBatch, ModeInteractive:
		return ResolutionMode(s), nil
	default:
		return "", fmt.Errorf("unknown resolution mode: %s", s)
	}
}

// ReportFormat defines the structured report encoding
type ReportFormat string

const (
	ReportJSON ReportFormat = "json"
	ReportYAML ReportFormat = "yaml"
	ReportText ReportFormat = "text"
)

// ScanOperation represents a scan configuration
type ScanOperation struct {
	ID              string
	Root            string
	Mode            ResolutionMode
	Algorithm       DigestAlgorithm
	ExcludePatterns []string
	MaxWorkers      int
	BufferSize      int
	BandwidthLimit  int64 // bytes per second, 0 = unlimited
	SizePrefilter   bool
	PrefixPrefilter bool
	ReportPath      string
	ReportFormat    ReportFormat
	Interactive     bool // -i was requested, recorded in reports even when nothing is deleted
	CreatedAt       time.Time
}

// Validate checks if the operation configuration is valid
func (op *ScanOperation) Validate() error {
	if op.Root == "" {
		return &ValidationError{Field: "Root", Message: "target path is required"}
	}
	if _, err := ParseResolutionMode(string(op.Mode)); err != nil {
		return &ValidationError{Field: "Mode", Message: err.Error()}
	}
	if _, err := ParseDigestAlgorithm(string(op.Algorithm)); err != nil {
		return &ValidationError{Field: "Algorithm", Message: err.Error()}
	}
	if op.MaxWorkers < 1 {
		return &ValidationError{Field: "MaxWorkers", Message: "max workers must be at least 1"}
	}
	if op.BufferSize < 1024 {
		return &ValidationError{Field: "BufferSize", Message: "buffer size must be at least 1024 bytes"}
	}
	if op.BandwidthLimit < 0 {
		return &ValidationError{Field: "BandwidthLimit", Message: "bandwidth limit cannot be negative"}
	}
	switch op.ReportFormat {
	case "", ReportJSON, ReportYAML, ReportText:
	default:
		return &ValidationError{Field: "ReportFormat", Message: "must be json, yaml or text"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
