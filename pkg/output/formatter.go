package output

import (
	"io"

	"github.com/sdejongh/ddupe/pkg/models"
)

// ProgressUpdate represents a progress notification during a scan
type ProgressUpdate struct {
	Type        string // "list_complete", "hash_start", "hash_progress", "hash_complete", "hash_error", "hash_skipped", "hash_done"
	FilePath    string
	BytesRead   int64
	TotalBytes  int64
	CurrentFile int
	TotalFiles  int
	Error       error
}

// NoticeLevel classifies a free-form message
type NoticeLevel int

const (
	// NoticeInfo is a plain status line
	NoticeInfo NoticeLevel = iota
	// NoticeAction announces a step that changes the filesystem
	NoticeAction
	// NoticeWarn is a non-fatal problem
	NoticeWarn
)

// Formatter defines the interface for output formatting
// Implementations include human-readable, progress bar and JSON formatters
type Formatter interface {
	// Start initializes the formatter for a new scan
	// A nil writer keeps the formatter's configured destination
	Start(writer io.Writer, op *models.ScanOperation) error

	// Progress reports traversal and hashing progress
	Progress(update ProgressUpdate) error

	// Analysis displays the duplicate groups and the savings summary
	Analysis(analysis *models.DuplicateAnalysis) error

	// Group lists the candidates of one group before an interactive choice
	Group(index int, group models.DuplicateGroup) error

	// Decision reports the operator's choice for one group
	Decision(group models.DuplicateGroup, decision models.GroupDecision) error

	// Outcome reports what happened to a single file
	Outcome(result models.DeletionResult) error

	// Notice displays a free-form message
	Notice(level NoticeLevel, msg string) error

	// Complete finalizes output and displays the summary
	Complete(report *models.ScanReport) error

	// Error reports an error
	Error(err error) error

	// Name returns the formatter name
	Name() string
}
