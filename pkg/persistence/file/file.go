// Package file provides a file-based run-history store. Each run record is
// one JSON document under <root>/runs/, with a per-workflow index used for
// history listing and eviction.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/nodeweave/weave/pkg/models"
	"github.com/nodeweave/weave/pkg/persistence"
)

// runIDPattern restricts record names so a run ID can never escape the
// store's directory.
var runIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// HistoryStore implements persistence.HistoryStore on the local filesystem.
type HistoryStore struct {
	mu   sync.Mutex
	root string
}

// NewHistoryStore creates the store rooted at the given directory, which is
// created if missing. A file:// prefix is accepted and stripped.
func NewHistoryStore(root string) (*HistoryStore, error) {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	if err := os.MkdirAll(filepath.Join(cleanRoot, "runs"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	return &HistoryStore{root: cleanRoot}, nil
}

func (s *HistoryStore) SaveRun(_ context.Context, run *models.RunRecord) error {
	if !runIDPattern.MatchString(run.ID) {
		return persistence.NewRunError("SaveRun", run.ID, persistence.ErrInvalidRunID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return persistence.NewRunError("SaveRun", run.ID, err)
	}

	if err := os.WriteFile(s.runPath(run.ID), data, 0o644); err != nil {
		return persistence.NewRunError("SaveRun", run.ID, err)
	}

	return s.evict(run.WorkflowID)
}

func (s *HistoryStore) Runs(_ context.Context, workflowID string, limit int) ([]*models.RunRecord, error) {
	if limit <= 0 || limit > persistence.HistoryCap {
		limit = persistence.HistoryCap
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.workflowRuns(workflowID)
	if err != nil {
		return nil, persistence.NewWorkflowRunError("Runs", workflowID, err)
	}

	if len(records) > limit {
		records = records[:limit]
	}

	return records, nil
}

func (s *HistoryStore) RunByID(_ context.Context, id string) (*models.RunRecord, error) {
	if !runIDPattern.MatchString(id) {
		return nil, persistence.NewRunError("RunByID", id, persistence.ErrInvalidRunID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.readRun(s.runPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, persistence.NewRunError("RunByID", id, persistence.ErrRunNotFound)
		}

		return nil, persistence.NewRunError("RunByID", id, err)
	}

	return record, nil
}

func (s *HistoryStore) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(filepath.Join(s.root, "runs")); err != nil {
		return err
	}

	return nil
}

func (s *HistoryStore) Close(_ context.Context) error {
	return nil
}

func (s *HistoryStore) runPath(id string) string {
	return filepath.Join(s.root, "runs", id+".json")
}

// workflowRuns loads every record for a workflow, newest first.
func (s *HistoryStore) workflowRuns(workflowID string) ([]*models.RunRecord, error) {
	paths, err := filepath.Glob(filepath.Join(s.root, "runs", "*.json"))
	if err != nil {
		return nil, err
	}

	records := make([]*models.RunRecord, 0, len(paths))

	for _, path := range paths {
		record, err := s.readRun(path)
		if err != nil {
			// A torn write must not take the whole history view down.
			continue
		}

		if record.WorkflowID == workflowID {
			records = append(records, record)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].StartedAt.After(records[j].StartedAt)
	})

	return records, nil
}

// evict drops the oldest records of a workflow beyond the history cap.
func (s *HistoryStore) evict(workflowID string) error {
	records, err := s.workflowRuns(workflowID)
	if err != nil {
		return persistence.NewWorkflowRunError("SaveRun", workflowID, err)
	}

	for _, record := range records[min(len(records), persistence.HistoryCap):] {
		if err := os.Remove(s.runPath(record.ID)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return persistence.NewRunError("SaveRun", record.ID, err)
		}
	}

	return nil
}

func (s *HistoryStore) readRun(path string) (*models.RunRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var record models.RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("corrupt run record %s: %w", filepath.Base(path), err)
	}

	return &record, nil
}
