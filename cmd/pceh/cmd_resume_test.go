package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubenschmidt/pceh/internal/types"
)

func insertBatch(t *testing.T, h *harness, sessionID string, status types.BatchStatus, updatedAt int64) {
	t.Helper()
	require.NoError(t, h.store.InsertBatch(types.BatchState{
		SessionID:      sessionID,
		CreatedAt:      updatedAt,
		UpdatedAt:      updatedAt,
		Status:         status,
		SelectedModels: []string{"m1"},
	}))
}

func TestFindResumableBatch_NoneFoundErrors(t *testing.T) {
	h := testHarness(t)
	_, err := findResumableBatch(h, "")
	assert.Error(t, err)
}

func TestFindResumableBatch_DefaultsToMostRecent(t *testing.T) {
	h := testHarness(t)
	insertBatch(t, h, "older", types.BatchPaused, 1)
	insertBatch(t, h, "newer", types.BatchPaused, 2)

	batch, err := findResumableBatch(h, "")
	require.NoError(t, err)
	assert.Equal(t, "newer", batch.SessionID)
}

func TestFindResumableBatch_BySessionID(t *testing.T) {
	h := testHarness(t)
	insertBatch(t, h, "older", types.BatchPaused, 1)
	insertBatch(t, h, "newer", types.BatchPaused, 2)

	batch, err := findResumableBatch(h, "older")
	require.NoError(t, err)
	assert.Equal(t, "older", batch.SessionID)
}

func TestFindResumableBatch_UnknownSessionErrors(t *testing.T) {
	h := testHarness(t)
	insertBatch(t, h, "only-one", types.BatchPaused, 1)

	_, err := findResumableBatch(h, "missing")
	assert.Error(t, err)
}

func TestResolveProblems_EmptyIDsReturnsAllLoaded(t *testing.T) {
	h := testHarness(t)
	problems := resolveProblems(h, nil)
	assert.Empty(t, problems)
}
