package models

// Outcome classifies what happened to a single candidate file
type Outcome string

const (
	// OutcomeDeleted indicates the file was removed
	OutcomeDeleted Outcome = "deleted"
	// OutcomeSkipped indicates the file was already gone or could not be observed
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed indicates removal was attempted and failed
	OutcomeFailed Outcome = "failed"
	// OutcomeKept indicates the file was chosen to survive
	OutcomeKept Outcome = "kept"
)

// DeletionResult is the outcome for one path
type DeletionResult struct {
	Path    string  `json:"path" yaml:"path"`
	Outcome Outcome `json:"outcome" yaml:"outcome"`
	Size    int64   `json:"size,omitempty" yaml:"size,omitempty"`
	Error   string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// DeletionSummary aggregates deletion results
// Counts reflect real outcomes only
type DeletionSummary struct {
	DeletedCount int
	DeletedBytes int64
	SkippedCount int
	FailedCount  int
	Results      []DeletionResult
}

// Record folds a result into the summary
func (s *DeletionSummary) Record(r DeletionResult) {
	s.Results = append(s.Results, r)
	switch r.Outcome {
	case OutcomeDeleted:
		s.DeletedCount++
		s.DeletedBytes += r.Size
	case OutcomeSkipped:
		s.SkippedCount++
	case OutcomeFailed:
		s.FailedCount++
	}
}

// GroupDecision records how one interactive group was resolved
type GroupDecision struct {
	// Group is the 1-based group number
	Group int
	// KeepIndex is the 1-based candidate kept, 0 when KeptAll
	KeepIndex int
	// KeptAll is true when the operator chose to keep every copy
	KeptAll bool
}

// Resolution is the result of running one resolution workflow
type Resolution struct {
	Mode ResolutionMode

	// Confirmed is set when a batch confirmation was accepted
	Confirmed bool

	// Decisions holds per-group choices in interactive mode
	Decisions []GroupDecision

	Summary DeletionSummary
}
