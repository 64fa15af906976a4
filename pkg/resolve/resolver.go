// Package resolve turns a duplicate analysis into deletion decisions and
// carries them out one file at a time.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sdejongh/ddupe/pkg/logging"
	"github.com/sdejongh/ddupe/pkg/models"
	"github.com/sdejongh/ddupe/pkg/output"
	"github.com/sdejongh/ddupe/pkg/terminal"
)

const (
	confirmPrompt   = "Delete the [DUPE] files and keep the [KEEP] ones? [y/N]:"
	selectionHint   = "Enter a number to keep that file or 'a' to keep all copies."
	selectionPrompt = "Which file should be kept? Enter 1-%d (default 1):"
)

// groupState is the interactive state of one duplicate group
type groupState int

const (
	statePresenting groupState = iota
	stateAwaitingChoice
	stateResolved
	stateKeptAll
)

// Resolver drives one resolution workflow over an analysis
type Resolver struct {
	deleter   *Deleter
	prompter  terminal.Prompter
	formatter output.Formatter
	logger    logging.Logger
}

// NewResolver creates a resolver
// The prompter is only used in batch and interactive modes
func NewResolver(deleter *Deleter, prompter terminal.Prompter, formatter output.Formatter, logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Resolver{
		deleter:   deleter,
		prompter:  prompter,
		formatter: formatter,
		logger:    logger,
	}
}

// Resolve runs the workflow for mode over analysis
// Report and dry-run modes never touch the filesystem
func (r *Resolver) Resolve(ctx context.Context, analysis *models.DuplicateAnalysis, mode models.ResolutionMode) (*models.Resolution, error) {
	resolution := &models.Resolution{Mode: mode}

	if !mode.Deletes() || !analysis.HasDuplicates() {
		return resolution, nil
	}
	if r.prompter == nil {
		return nil, fmt.Errorf("%s mode requires a prompter", mode)
	}

	switch mode {
	case models.ModeBatch:
		return resolution, r.resolveBatch(ctx, analysis, resolution)
	case models.ModeInteractive:
		return resolution, r.resolveInteractive(ctx, analysis, resolution)
	default:
		return nil, fmt.Errorf("unknown resolution mode: %s", mode)
	}
}

// resolveBatch asks once and deletes every removable file on Accept
func (r *Resolver) resolveBatch(ctx context.Context, analysis *models.DuplicateAnalysis, resolution *models.Resolution) error {
	answer, err := r.prompter.Ask(confirmPrompt)
	if err != nil {
		// end of input reads as an empty answer
		if !errors.Is(err, io.EOF) {
			r.formatter.Notice(output.NoticeWarn, fmt.Sprintf("Failed to read input: %v", err))
		}
		answer = ""
	}

	if ParseConfirm(answer) == Decline {
		r.logger.Info(ctx, "operator declined deletion", logging.Fields{"removable": analysis.TotalDupes()})
		return nil
	}

	resolution.Confirmed = true
	r.logger.Info(ctx, "operator confirmed deletion", logging.Fields{"removable": analysis.TotalDupes()})
	r.formatter.Notice(output.NoticeAction, "Deleting duplicate files...")

	for _, group := range analysis.Groups {
		resolution.Summary.Record(models.DeletionResult{Path: group.Keep, Outcome: models.OutcomeKept})
	}
	for _, path := range analysis.RemovableFiles {
		r.delete(ctx, path, &resolution.Summary)
	}
	return nil
}

// resolveInteractive walks every group through the selection state machine
func (r *Resolver) resolveInteractive(ctx context.Context, analysis *models.DuplicateAnalysis, resolution *models.Resolution) error {
	r.formatter.Notice(output.NoticeAction, "Interactive mode: decide for each duplicate individually.")

	for i, group := range analysis.Groups {
		if err := ctx.Err(); err != nil {
			return err
		}

		decision, err := r.chooseKeep(i+1, group)
		if err != nil {
			return err
		}
		resolution.Decisions = append(resolution.Decisions, decision)
		if err := r.formatter.Decision(group, decision); err != nil {
			return err
		}

		r.logger.Info(ctx, "group resolved", logging.Fields{
			"group":      decision.Group,
			"digest":     string(group.Digest),
			"keep_index": decision.KeepIndex,
			"kept_all":   decision.KeptAll,
		})

		candidates := group.Candidates()
		for n, path := range candidates {
			if decision.KeptAll || n+1 == decision.KeepIndex {
				resolution.Summary.Record(models.DeletionResult{Path: path, Outcome: models.OutcomeKept})
				continue
			}
			r.delete(ctx, path, &resolution.Summary)
		}
	}
	return nil
}

// chooseKeep runs Presenting -> AwaitingChoice -> Resolved(n) | KeptAll
func (r *Resolver) chooseKeep(index int, group models.DuplicateGroup) (models.GroupDecision, error) {
	decision := models.GroupDecision{Group: index}
	count := group.Size()
	state := statePresenting

	for {
		switch state {
		case statePresenting:
			if err := r.formatter.Group(index, group); err != nil {
				return decision, err
			}
			state = stateAwaitingChoice

		case stateAwaitingChoice:
			line, err := r.prompter.Ask(selectionHint + "\n" + fmt.Sprintf(selectionPrompt, count))
			if errors.Is(err, io.EOF) {
				line, err = "", nil
			}
			if err != nil {
				r.formatter.Notice(output.NoticeWarn, "Failed to read input, defaulting to 1.")
				decision.KeepIndex = 1
				state = stateResolved
				continue
			}

			selection := ParseSelection(line, count)
			switch selection.Kind {
			case SelectionKeep:
				decision.KeepIndex = selection.Index
				state = stateResolved
			case SelectionKeepAll:
				decision.KeptAll = true
				state = stateKeptAll
			default:
				r.formatter.Notice(output.NoticeWarn, fmt.Sprintf("Please enter a number between 1 and %d.", count))
			}

		case stateResolved, stateKeptAll:
			return decision, nil
		}
	}
}

func (r *Resolver) delete(ctx context.Context, path string, summary *models.DeletionSummary) {
	result := r.deleter.Delete(ctx, path)
	summary.Record(result)
	r.formatter.Outcome(result)
}
