package file

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeweave/weave/pkg/models"
	"github.com/nodeweave/weave/pkg/persistence"
)

func newStore(t *testing.T) *HistoryStore {
	t.Helper()

	store, err := NewHistoryStore(t.TempDir())
	require.NoError(t, err)

	return store
}

func record(id, workflowID string, startedAt time.Time) *models.RunRecord {
	return &models.RunRecord{
		ID:         id,
		WorkflowID: workflowID,
		Status:     models.RunStatusSuccess,
		Mode:       models.RunModeManual,
		StartedAt:  startedAt,
	}
}

func TestHistoryStore_SaveAndFetch(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	saved := record("run-1", "wf-1", time.Now().UTC().Truncate(time.Second))
	require.NoError(t, store.SaveRun(ctx, saved))

	got, err := store.RunByID(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, saved.WorkflowID, got.WorkflowID)
	assert.Equal(t, saved.Status, got.Status)
}

func TestHistoryStore_RunNotFound(t *testing.T) {
	store := newStore(t)

	_, err := store.RunByID(context.Background(), "run-missing")
	require.Error(t, err)
	assert.True(t, persistence.IsRunNotFound(err))
}

func TestHistoryStore_RejectsPathEscapingIDs(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	err := store.SaveRun(ctx, record("../evil", "wf-1", time.Now()))
	require.Error(t, err)
	assert.ErrorIs(t, err, persistence.ErrInvalidRunID)

	_, err = store.RunByID(ctx, "a/b")
	require.Error(t, err)
	assert.ErrorIs(t, err, persistence.ErrInvalidRunID)
}

func TestHistoryStore_RunsNewestFirst(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	base := time.Now().UTC()

	for i := range 3 {
		run := record(fmt.Sprintf("run-%d", i), "wf-1", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, store.SaveRun(ctx, run))
	}

	require.NoError(t, store.SaveRun(ctx, record("run-other", "wf-2", base)))

	runs, err := store.Runs(ctx, "wf-1", 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, "run-0", runs[2].ID)
}

func TestHistoryStore_RunsLimit(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	base := time.Now().UTC()

	for i := range 5 {
		require.NoError(t, store.SaveRun(ctx, record(fmt.Sprintf("run-%d", i), "wf-1", base.Add(time.Duration(i)*time.Second))))
	}

	runs, err := store.Runs(ctx, "wf-1", 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-4", runs[0].ID)
}

func TestHistoryStore_EvictsBeyondCap(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	base := time.Now().UTC()

	for i := range persistence.HistoryCap + 3 {
		require.NoError(t, store.SaveRun(ctx, record(fmt.Sprintf("run-%03d", i), "wf-1", base.Add(time.Duration(i)*time.Second))))
	}

	runs, err := store.Runs(ctx, "wf-1", persistence.HistoryCap)
	require.NoError(t, err)
	assert.Len(t, runs, persistence.HistoryCap)

	// The oldest records are gone.
	_, err = store.RunByID(ctx, "run-000")
	assert.True(t, persistence.IsRunNotFound(err))
}

func TestHistoryStore_HealthCheck(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.HealthCheck(context.Background()))
	require.NoError(t, store.Close(context.Background()))
}
