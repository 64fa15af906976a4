package models

import (
	"time"
)

// ScanReport represents the results of a scan and its resolution
type ScanReport struct {
	// Operation details
	OperationID string
	Root        string
	Mode        ResolutionMode
	Algorithm   DigestAlgorithm
	Interactive bool

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// FilesScanned counts regular files returned by traversal
	FilesScanned int
	// FilesHashed counts files whose full digest was computed
	FilesHashed int

	// HashErrors lists files excluded from grouping because they could not be read
	HashErrors []ScanError

	Analysis   *DuplicateAnalysis
	Resolution *Resolution

	// Overall status
	Status ScanStatus
}

// ScanError represents a file-scoped, non-fatal error
type ScanError struct {
	Path      string    `json:"path" yaml:"path"`
	Error     string    `json:"error" yaml:"error"`
	Timestamp time.Time `json:"-" yaml:"-"`
}

// ScanStatus represents the overall result
type ScanStatus string

const (
	// StatusSuccess indicates the run completed without deletion failures
	StatusSuccess ScanStatus = "success"
	// StatusDeclined indicates the operator declined batch deletion
	StatusDeclined ScanStatus = "declined"
	// StatusPartial indicates some deletions failed
	StatusPartial ScanStatus = "partial"
	// StatusFailed indicates the run could not complete
	StatusFailed ScanStatus = "failed"
)

// ExitCode returns the process exit code for the status
// Only a failed run exits non-zero; declining or per-file failures do not
func (s ScanStatus) ExitCode() int {
	if s == StatusFailed {
		return 1
	}
	return 0
}
