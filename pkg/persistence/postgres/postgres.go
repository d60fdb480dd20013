// Package postgres provides a PostgreSQL-backed run-history store. Records
// are kept as JSONB documents with the columns needed for history listing
// and eviction lifted out alongside.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"github.com/nodeweave/weave/pkg/models"
	"github.com/nodeweave/weave/pkg/persistence"
)

const schema = `
	CREATE TABLE IF NOT EXISTS run_records (
		id VARCHAR(255) PRIMARY KEY,
		workflow_id VARCHAR(255) NOT NULL,
		status VARCHAR(50) NOT NULL,
		started_at TIMESTAMP WITH TIME ZONE NOT NULL,
		record JSONB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_run_records_workflow_started
		ON run_records(workflow_id, started_at DESC);
`

// HistoryStore implements persistence.HistoryStore on PostgreSQL.
type HistoryStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewHistoryStore connects to the database named by databaseURL, verifies the
// connection, and ensures the run_records table exists.
func NewHistoryStore(ctx context.Context, logger *slog.Logger, databaseURL string) (*HistoryStore, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	if err := database.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := database.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create run_records table: %w", err)
	}

	return NewHistoryStoreWithDB(database, logger), nil
}

// NewHistoryStoreWithDB wraps an existing connection, for tests.
func NewHistoryStoreWithDB(db *sql.DB, logger *slog.Logger) *HistoryStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &HistoryStore{db: db, logger: logger}
}

func (s *HistoryStore) SaveRun(ctx context.Context, run *models.RunRecord) error {
	data, err := json.Marshal(run)
	if err != nil {
		return persistence.NewRunError("SaveRun", run.ID, err)
	}

	query := `
		INSERT INTO run_records (id, workflow_id, status, started_at, record)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			record = EXCLUDED.record
	`

	_, err = s.db.ExecContext(ctx, query, run.ID, run.WorkflowID, string(run.Status), run.StartedAt, data)
	if err != nil {
		return persistence.NewRunError("SaveRun", run.ID, err)
	}

	return s.evict(ctx, run.WorkflowID)
}

func (s *HistoryStore) Runs(ctx context.Context, workflowID string, limit int) ([]*models.RunRecord, error) {
	if limit <= 0 || limit > persistence.HistoryCap {
		limit = persistence.HistoryCap
	}

	query := `
		SELECT record
		FROM run_records
		WHERE workflow_id = $1
		ORDER BY started_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, workflowID, limit)
	if err != nil {
		return nil, persistence.NewWorkflowRunError("Runs", workflowID, err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	records := make([]*models.RunRecord, 0, limit)

	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, persistence.NewWorkflowRunError("Runs", workflowID, err)
		}

		var record models.RunRecord
		if err := json.Unmarshal(data, &record); err != nil {
			// A corrupt row must not take the whole history view down.
			s.logger.WarnContext(ctx, "Skipping corrupt run record", "error", err)

			continue
		}

		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, persistence.NewWorkflowRunError("Runs", workflowID, err)
	}

	return records, nil
}

func (s *HistoryStore) RunByID(ctx context.Context, id string) (*models.RunRecord, error) {
	query := `
		SELECT record
		FROM run_records
		WHERE id = $1
	`

	var data []byte

	err := s.db.QueryRowContext(ctx, query, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.NewRunError("RunByID", id, persistence.ErrRunNotFound)
	}

	if err != nil {
		return nil, persistence.NewRunError("RunByID", id, err)
	}

	var record models.RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, persistence.NewRunError("RunByID", id, err)
	}

	return &record, nil
}

func (s *HistoryStore) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

func (s *HistoryStore) Close(_ context.Context) error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	return nil
}

// evict drops the oldest records of a workflow beyond the history cap.
func (s *HistoryStore) evict(ctx context.Context, workflowID string) error {
	query := `
		DELETE FROM run_records
		WHERE workflow_id = $1
		  AND id NOT IN (
			SELECT id
			FROM run_records
			WHERE workflow_id = $1
			ORDER BY started_at DESC
			LIMIT $2
		  )
	`

	if _, err := s.db.ExecContext(ctx, query, workflowID, persistence.HistoryCap); err != nil {
		return persistence.NewWorkflowRunError("SaveRun", workflowID, err)
	}

	return nil
}
