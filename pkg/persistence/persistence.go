// Package persistence provides the storage abstraction for run history.
package persistence

import (
	"context"

	"github.com/nodeweave/weave/pkg/models"
)

// HistoryCap bounds how many run records a store keeps per workflow; older
// records are evicted first.
const HistoryCap = 100

// HistoryStore persists finished run records and serves the history views.
type HistoryStore interface {
	// SaveRun stores a finished run record, evicting the oldest records of
	// the same workflow beyond HistoryCap.
	SaveRun(ctx context.Context, run *models.RunRecord) error

	// Runs returns the most recent records for a workflow, newest first,
	// at most limit entries (or HistoryCap when limit is not positive).
	Runs(ctx context.Context, workflowID string, limit int) ([]*models.RunRecord, error)

	// RunByID fetches one record; ErrRunNotFound when absent.
	RunByID(ctx context.Context, id string) (*models.RunRecord, error)

	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
