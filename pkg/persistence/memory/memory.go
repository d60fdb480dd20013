// Package memory provides an in-process run-history store, used as the
// default when no external store is configured and as the test double.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/nodeweave/weave/pkg/models"
	"github.com/nodeweave/weave/pkg/persistence"
)

// HistoryStore implements persistence.HistoryStore with plain maps.
type HistoryStore struct {
	mu     sync.RWMutex
	byID   map[string]*models.RunRecord
	closed bool
}

// NewHistoryStore creates an empty in-memory store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{byID: make(map[string]*models.RunRecord)}
}

func (s *HistoryStore) SaveRun(_ context.Context, run *models.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return persistence.NewRunError("SaveRun", run.ID, persistence.ErrStoreClosed)
	}

	s.byID[run.ID] = run

	records := s.workflowRunsLocked(run.WorkflowID)
	for _, old := range records[min(len(records), persistence.HistoryCap):] {
		delete(s.byID, old.ID)
	}

	return nil
}

func (s *HistoryStore) Runs(_ context.Context, workflowID string, limit int) ([]*models.RunRecord, error) {
	if limit <= 0 || limit > persistence.HistoryCap {
		limit = persistence.HistoryCap
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, persistence.NewWorkflowRunError("Runs", workflowID, persistence.ErrStoreClosed)
	}

	records := s.workflowRunsLocked(workflowID)
	if len(records) > limit {
		records = records[:limit]
	}

	return records, nil
}

func (s *HistoryStore) RunByID(_ context.Context, id string) (*models.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, persistence.NewRunError("RunByID", id, persistence.ErrStoreClosed)
	}

	record, ok := s.byID[id]
	if !ok {
		return nil, persistence.NewRunError("RunByID", id, persistence.ErrRunNotFound)
	}

	return record, nil
}

func (s *HistoryStore) HealthCheck(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return persistence.ErrStoreClosed
	}

	return nil
}

func (s *HistoryStore) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	return nil
}

// workflowRunsLocked lists a workflow's records newest first. Caller holds
// the lock.
func (s *HistoryStore) workflowRunsLocked(workflowID string) []*models.RunRecord {
	var records []*models.RunRecord

	for _, record := range s.byID {
		if record.WorkflowID == workflowID {
			records = append(records, record)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].StartedAt.After(records[j].StartedAt)
	})

	return records
}
