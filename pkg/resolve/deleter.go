package resolve

import (
	"context"

	"github.com/sdejongh/ddupe/pkg/logging"
	"github.com/sdejongh/ddupe/pkg/models"
	"github.com/sdejongh/ddupe/pkg/storage"
)

// Deleter removes single files and classifies the outcome
type Deleter struct {
	backend storage.Backend
	logger  logging.Logger
}

// NewDeleter creates a deleter over backend
func NewDeleter(backend storage.Backend, logger logging.Logger) *Deleter {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Deleter{backend: backend, logger: logger}
}

// Delete removes path and never returns an error
// A file that cannot be stat'ed is Skipped, a failed removal is Failed
func (d *Deleter) Delete(ctx context.Context, path string) models.DeletionResult {
	info, err := d.backend.Stat(ctx, path)
	if err != nil {
		d.logger.Warn(ctx, "skipping file that can no longer be observed", logging.Fields{
			"path":  path,
			"error": err.Error(),
		})
		return models.DeletionResult{Path: path, Outcome: models.OutcomeSkipped, Error: err.Error()}
	}

	if err := d.backend.Remove(ctx, path); err != nil {
		d.logger.Error(ctx, "failed to delete file", err, logging.Fields{"path": path})
		return models.DeletionResult{Path: path, Outcome: models.OutcomeFailed, Error: err.Error()}
	}

	d.logger.Info(ctx, "deleted file", logging.Fields{"path": path, "size": info.Size})
	return models.DeletionResult{Path: path, Outcome: models.OutcomeDeleted, Size: info.Size}
}
