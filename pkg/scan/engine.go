package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/sdejongh/ddupe/pkg/analyze"
	"github.com/sdejongh/ddupe/pkg/hasher"
	"github.com/sdejongh/ddupe/pkg/logging"
	"github.com/sdejongh/ddupe/pkg/models"
	"github.com/sdejongh/ddupe/pkg/output"
	"github.com/sdejongh/ddupe/pkg/resolve"
	"github.com/sdejongh/ddupe/pkg/storage"
	"github.com/sdejongh/ddupe/pkg/terminal"
)

// Engine orchestrates a scan: traversal, hashing, analysis and resolution
type Engine struct {
	backend   storage.Backend
	hasher    hasher.Hasher
	formatter output.Formatter
	logger    logging.Logger
	prompter  terminal.Prompter
	operation *models.ScanOperation
}

// NewEngine creates a new scan engine
func NewEngine(
	backend storage.Backend,
	h hasher.Hasher,
	formatter output.Formatter,
	logger logging.Logger,
	prompter terminal.Prompter,
	operation *models.ScanOperation,
) *Engine {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Engine{
		backend:   backend,
		hasher:    h,
		formatter: formatter,
		logger:    logger.WithFields(logging.Fields{"operation_id": operation.ID}),
		prompter:  prompter,
		operation: operation,
	}
}

// Run executes the scan and returns its report
// The report is returned even on error, with Status set to failed
func (e *Engine) Run(ctx context.Context) (*models.ScanReport, error) {
	op := e.operation
	report := &models.ScanReport{
		OperationID: op.ID,
		Root:        e.backend.Root(),
		Mode:        op.Mode,
		Algorithm:   e.hasher.Algorithm(),
		Interactive: op.Interactive,
		StartTime:   time.Now(),
		Status:      models.StatusSuccess,
	}

	if err := e.formatter.Start(nil, op); err != nil {
		return e.fail(ctx, report, fmt.Errorf("failed to start output: %w", err))
	}

	e.logger.Info(ctx, "scan started", logging.Fields{
		"root":      report.Root,
		"mode":      string(op.Mode),
		"algorithm": string(report.Algorithm),
		"workers":   op.MaxWorkers,
	})

	files, err := e.backend.List(ctx)
	if err != nil {
		return e.fail(ctx, report, err)
	}
	report.FilesScanned = len(files)
	e.formatter.Progress(output.ProgressUpdate{Type: "list_complete", TotalFiles: len(files)})

	builder := NewBuilder(e.hasher, BuilderConfig{
		Workers:         op.MaxWorkers,
		SizePrefilter:   op.SizePrefilter,
		PrefixPrefilter: op.PrefixPrefilter,
	})
	builder.SetProgressCallback(func(update output.ProgressUpdate) {
		update.TotalFiles = len(files)
		e.formatter.Progress(update)
	})

	built, err := builder.Build(ctx, files)
	if err != nil {
		return e.fail(ctx, report, fmt.Errorf("failed to hash files: %w", err))
	}
	e.formatter.Progress(output.ProgressUpdate{Type: "hash_done", TotalFiles: len(files)})

	report.FilesHashed = built.Hashed
	report.HashErrors = built.Errors
	for _, hashErr := range built.Errors {
		e.logger.Warn(ctx, "file excluded from grouping", logging.Fields{
			"path":  hashErr.Path,
			"error": hashErr.Error,
		})
	}
	e.logger.Debug(ctx, "hashing finished", logging.Fields{
		"hashed":  built.Hashed,
		"skipped": built.Skipped,
		"grouped": built.Buckets.Files(),
		"digests": built.Buckets.Len(),
	})

	analysis := analyze.Analyze(built.Buckets.Map(), e.statSize(ctx))
	report.Analysis = analysis
	for _, path := range analysis.UnsizedFiles {
		e.logger.Warn(ctx, "size of duplicate unknown", logging.Fields{"path": path})
	}
	e.formatter.Analysis(analysis)

	resolver := resolve.NewResolver(resolve.NewDeleter(e.backend, e.logger), e.prompter, e.formatter, e.logger)
	resolution, err := resolver.Resolve(ctx, analysis, op.Mode)
	if err != nil {
		return e.fail(ctx, report, fmt.Errorf("failed to resolve duplicates: %w", err))
	}
	report.Resolution = resolution

	switch {
	case op.Mode == models.ModeBatch && analysis.HasDuplicates() && !resolution.Confirmed:
		report.Status = models.StatusDeclined
	case resolution.Summary.FailedCount > 0:
		report.Status = models.StatusPartial
	}

	e.finish(report)
	e.formatter.Complete(report)

	e.logger.Info(ctx, "scan finished", logging.Fields{
		"status":        string(report.Status),
		"groups":        len(analysis.Groups),
		"removable":     analysis.TotalDupes(),
		"savings_bytes": analysis.TotalSavingBytes,
		"deleted":       resolution.Summary.DeletedCount,
		"freed_bytes":   resolution.Summary.DeletedBytes,
		"duration":      report.Duration.String(),
	})

	return report, nil
}

// statSize looks up sizes through the backend
func (e *Engine) statSize(ctx context.Context) analyze.StatFunc {
	return func(path string) (int64, error) {
		info, err := e.backend.Stat(ctx, path)
		if err != nil {
			return 0, err
		}
		return info.Size, nil
	}
}

func (e *Engine) fail(ctx context.Context, report *models.ScanReport, err error) (*models.ScanReport, error) {
	report.Status = models.StatusFailed
	e.finish(report)
	// Stop any progress display; the caller reports the error itself
	e.formatter.Progress(output.ProgressUpdate{Type: "hash_done"})
	e.logger.Error(ctx, "scan failed", err, nil)
	return report, err
}

func (e *Engine) finish(report *models.ScanReport) {
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
}
