package output

import (
	"fmt"
	"io"
	"os"

	"github.com/sdejongh/ddupe/pkg/models"
)

// Banner is printed before every scan
const Banner = "ddupe — Duplicate File Cleaner"

// HumanFormatter formats output in human-readable format
// Regular output goes to the writer, warnings and per-file failures to errWriter
type HumanFormatter struct {
	writer    io.Writer
	errWriter io.Writer
	color     bool
	style     palette

	op         *models.ScanOperation
	totalFiles int
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter(writer, errWriter io.Writer, color bool) *HumanFormatter {
	if writer == nil {
		writer = os.Stdout
	}
	if errWriter == nil {
		errWriter = writer
	}
	return &HumanFormatter{
		writer:    writer,
		errWriter: errWriter,
		color:     color,
		style:     newPalette(writer, color),
	}
}

// Start prints the banner and the scan root
func (f *HumanFormatter) Start(writer io.Writer, op *models.ScanOperation) error {
	if writer != nil {
		f.writer = writer
		f.style = newPalette(writer, f.color)
	}
	f.op = op

	fmt.Fprintln(f.writer, f.style.render(f.style.title, Banner))
	fmt.Fprintln(f.writer, "------------------------------------------------------------")
	fmt.Fprintf(f.writer, "%s %s\n", f.style.render(f.style.keep, "Scanning:"), op.Root)
	return nil
}

// Progress reports traversal results and unreadable files
func (f *HumanFormatter) Progress(update ProgressUpdate) error {
	switch update.Type {
	case "list_complete":
		f.totalFiles = update.TotalFiles
		if update.TotalFiles == 0 {
			if !f.reportOnly() {
				fmt.Fprintln(f.writer, f.style.render(f.style.warn, "No files found."))
			}
			return nil
		}
		fmt.Fprintf(f.writer, "Found %d file(s). Hashing...\n", update.TotalFiles)

	case "hash_error":
		fmt.Fprintf(f.errWriter, "%s %s: %v\n",
			f.style.render(f.style.warn, "[UNREADABLE]"), update.FilePath, update.Error)
	}
	return nil
}

// Analysis lists every group with KEEP/DUPE markers and the savings summary
func (f *HumanFormatter) Analysis(analysis *models.DuplicateAnalysis) error {
	if f.reportOnly() || f.totalFiles == 0 {
		return nil
	}

	fmt.Fprintf(f.writer, "\n%s\n", f.style.render(f.style.header, "Duplicate files found:"))

	if !analysis.HasDuplicates() {
		fmt.Fprintln(f.writer, f.style.render(f.style.keep, "No duplicates found"))
		return nil
	}

	for i, group := range analysis.Groups {
		f.groupHeader(i + 1)
		fmt.Fprintf(f.writer, "%s %s\n", f.style.render(f.style.keep, "[KEEP]"), f.style.render(f.style.path, group.Keep))
		for _, dupe := range group.Dupes {
			fmt.Fprintf(f.writer, "%s %s\n", f.style.render(f.style.dupe, "[DUPE]"), f.style.render(f.style.path, dupe))
		}
	}

	fmt.Fprintf(f.writer, "\n%s %s duplicate file(s) can be removed, freeing approximately %s.\n",
		f.style.render(f.style.label, "Summary:"),
		f.style.render(f.style.count, fmt.Sprint(analysis.TotalDupes())),
		f.style.render(f.style.size, FormatBytes(analysis.TotalSavingBytes)))

	if n := len(analysis.UnsizedFiles); n > 0 {
		fmt.Fprintf(f.errWriter, "%s\n", f.style.render(f.style.warn,
			fmt.Sprintf("Size unknown for %d file(s); the estimate above excludes them.", n)))
	}
	return nil
}

// Group lists the numbered candidates of one group
func (f *HumanFormatter) Group(index int, group models.DuplicateGroup) error {
	f.groupHeader(index)
	for i, path := range group.Candidates() {
		hint := ""
		if i == 0 {
			hint = " (default)"
		}
		fmt.Fprintf(f.writer, "  [%s] %s%s\n",
			f.style.render(f.style.count, fmt.Sprint(i+1)), f.style.render(f.style.path, path), hint)
	}
	fmt.Fprintf(f.writer, "  [%s] %s\n",
		f.style.render(f.style.count, "A"), f.style.render(f.style.path, "Keep all copies (skip deletion)"))
	return nil
}

// Decision reports which file survives a group
func (f *HumanFormatter) Decision(group models.DuplicateGroup, decision models.GroupDecision) error {
	if decision.KeptAll {
		fmt.Fprintln(f.writer, f.style.render(f.style.keep, "[KEEPING ALL] Chose to keep every file in this group."))
		return nil
	}

	candidates := group.Candidates()
	if decision.KeepIndex < 1 || decision.KeepIndex > len(candidates) {
		return fmt.Errorf("keep index %d out of range for group of %d", decision.KeepIndex, len(candidates))
	}
	fmt.Fprintf(f.writer, "%s %s\n",
		f.style.render(f.style.keep, "[KEEPING]"), f.style.render(f.style.path, candidates[decision.KeepIndex-1]))
	return nil
}

// Outcome reports one deletion attempt
func (f *HumanFormatter) Outcome(result models.DeletionResult) error {
	switch result.Outcome {
	case models.OutcomeDeleted:
		fmt.Fprintf(f.writer, "%s %s\n", f.style.render(f.style.dupe, "[DELETED]"), result.Path)
	case models.OutcomeFailed:
		fmt.Fprintf(f.errWriter, "%s %s: %s\n",
			f.style.render(f.style.dupe, "[FAILED]"), result.Path, f.style.render(f.style.failure, result.Error))
	case models.OutcomeSkipped:
		fmt.Fprintf(f.errWriter, "%s %s\n",
			f.style.render(f.style.warn, "[SKIPPED]"), f.style.render(f.style.warn, result.Path))
	}
	return nil
}

// Notice displays a free-form message
func (f *HumanFormatter) Notice(level NoticeLevel, msg string) error {
	switch level {
	case NoticeWarn:
		fmt.Fprintln(f.errWriter, f.style.render(f.style.warn, msg))
	case NoticeAction:
		fmt.Fprintln(f.writer, f.style.render(f.style.dupe, msg))
	default:
		fmt.Fprintln(f.writer, msg)
	}
	return nil
}

// Complete displays the outcome of the resolution step
func (f *HumanFormatter) Complete(report *models.ScanReport) error {
	if n := len(report.HashErrors); n > 0 {
		fmt.Fprintf(f.errWriter, "%s\n", f.style.render(f.style.warn,
			fmt.Sprintf("Warning: %d file(s) could not be read and were excluded from grouping.", n)))
	}

	if report.Mode == models.ModeReport || report.Analysis == nil || !report.Analysis.HasDuplicates() {
		return nil
	}

	switch {
	case report.Mode == models.ModeDryRun:
		fmt.Fprintf(f.writer, "\n%s %s\n",
			f.style.render(f.style.warn, "Dry run:"),
			f.style.render(f.style.warn, "no files were deleted. Use without --dry-run to delete duplicates."))

	case report.Status == models.StatusDeclined:
		fmt.Fprintln(f.writer, f.style.render(f.style.warn, "Aborted. No files were deleted."))

	case report.Resolution != nil:
		summary := report.Resolution.Summary
		fmt.Fprintf(f.writer, "\n%s Deleted %s file(s), freeing approximately %s.\n",
			f.style.render(f.style.keep, "Done:"),
			f.style.render(f.style.count, fmt.Sprint(summary.DeletedCount)),
			f.style.render(f.style.size, FormatBytes(summary.DeletedBytes)))
	}
	return nil
}

// Error reports an error
func (f *HumanFormatter) Error(err error) error {
	fmt.Fprintf(f.errWriter, "%s %v\n", f.style.render(f.style.dupe, "Error:"), err)
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

func (f *HumanFormatter) groupHeader(index int) {
	fmt.Fprintf(f.writer, "\n%s %s %s\n",
		f.style.render(f.style.header, "---"),
		f.style.render(f.style.header, "Duplicate Group"),
		f.style.render(f.style.header, fmt.Sprint(index)))
}

func (f *HumanFormatter) reportOnly() bool {
	return f.op != nil && f.op.Mode == models.ModeReport
}
