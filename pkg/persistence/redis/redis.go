// Package redis provides a Redis-backed run-history store. Per-workflow
// history lives in a bounded list (LPUSH + LTRIM), individual records in
// plain keys, both under a common prefix.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nodeweave/weave/pkg/models"
	"github.com/nodeweave/weave/pkg/persistence"
)

const (
	keyPrefix = "weave:runs"

	// recordTTL bounds how long an individual record outlives its listing.
	recordTTL = 30 * 24 * time.Hour
)

// HistoryStore implements persistence.HistoryStore on Redis.
type HistoryStore struct {
	client *redis.Client
}

// NewHistoryStore creates the store from a Redis URL, for example
// redis://localhost:6379/0.
func NewHistoryStore(url string) (*HistoryStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	return &HistoryStore{client: redis.NewClient(opts)}, nil
}

// NewHistoryStoreWithClient wraps an existing client, for tests.
func NewHistoryStoreWithClient(client *redis.Client) *HistoryStore {
	return &HistoryStore{client: client}
}

func (s *HistoryStore) SaveRun(ctx context.Context, run *models.RunRecord) error {
	data, err := json.Marshal(run)
	if err != nil {
		return persistence.NewRunError("SaveRun", run.ID, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, recordKey(run.ID), data, recordTTL)
	pipe.LPush(ctx, historyKey(run.WorkflowID), run.ID)
	pipe.LTrim(ctx, historyKey(run.WorkflowID), 0, int64(persistence.HistoryCap)-1)

	if _, err := pipe.Exec(ctx); err != nil {
		return persistence.NewRunError("SaveRun", run.ID, err)
	}

	return nil
}

func (s *HistoryStore) Runs(ctx context.Context, workflowID string, limit int) ([]*models.RunRecord, error) {
	if limit <= 0 || limit > persistence.HistoryCap {
		limit = persistence.HistoryCap
	}

	ids, err := s.client.LRange(ctx, historyKey(workflowID), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, persistence.NewWorkflowRunError("Runs", workflowID, err)
	}

	records := make([]*models.RunRecord, 0, len(ids))

	for _, id := range ids {
		record, err := s.fetch(ctx, id)
		if err != nil {
			if persistence.IsRunNotFound(err) {
				// Listed but expired; skip.
				continue
			}

			return nil, persistence.NewWorkflowRunError("Runs", workflowID, err)
		}

		records = append(records, record)
	}

	return records, nil
}

func (s *HistoryStore) RunByID(ctx context.Context, id string) (*models.RunRecord, error) {
	record, err := s.fetch(ctx, id)
	if err != nil {
		return nil, persistence.NewRunError("RunByID", id, err)
	}

	return record, nil
}

func (s *HistoryStore) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *HistoryStore) Close(_ context.Context) error {
	return s.client.Close()
}

func (s *HistoryStore) fetch(ctx context.Context, id string) (*models.RunRecord, error) {
	data, err := s.client.Get(ctx, recordKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, persistence.ErrRunNotFound
		}

		return nil, err
	}

	var record models.RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("corrupt run record %s: %w", id, err)
	}

	return &record, nil
}

func recordKey(id string) string {
	return keyPrefix + ":record:" + id
}

func historyKey(workflowID string) string {
	return keyPrefix + ":history:" + workflowID
}
