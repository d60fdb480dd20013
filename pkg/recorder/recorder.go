// Package recorder persists finished run records. Recording is best-effort:
// a store outage is logged and never fails the run that produced the record.
package recorder

import (
	"context"
	"log/slog"

	"github.com/nodeweave/weave/pkg/models"
	"github.com/nodeweave/weave/pkg/persistence"
)

// Recorder writes terminal run records to a history store.
type Recorder struct {
	logger *slog.Logger
	store  persistence.HistoryStore
}

// NewRecorder creates a recorder over the given store. A nil store disables
// recording entirely.
func NewRecorder(logger *slog.Logger, store persistence.HistoryStore) *Recorder {
	return &Recorder{logger: logger, store: store}
}

// Record persists one terminal run record.
func (r *Recorder) Record(ctx context.Context, run *models.RunRecord) {
	if r == nil || r.store == nil {
		return
	}

	if err := r.store.SaveRun(ctx, run); err != nil {
		r.logger.Error("Failed to record run",
			slog.String("run_id", run.ID),
			slog.String("workflow_id", run.WorkflowID),
			slog.String("error", err.Error()))
	}
}

// Runs lists the most recent records for a workflow, newest first.
func (r *Recorder) Runs(ctx context.Context, workflowID string, limit int) ([]*models.RunRecord, error) {
	if r == nil || r.store == nil {
		return nil, nil
	}

	return r.store.Runs(ctx, workflowID, limit)
}

// RunByID fetches one record.
func (r *Recorder) RunByID(ctx context.Context, id string) (*models.RunRecord, error) {
	if r == nil || r.store == nil {
		return nil, persistence.NewRunError("RunByID", id, persistence.ErrRunNotFound)
	}

	return r.store.RunByID(ctx, id)
}
