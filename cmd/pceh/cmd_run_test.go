package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubenschmidt/pceh/internal/config"
	"github.com/hubenschmidt/pceh/internal/history"
	"github.com/hubenschmidt/pceh/internal/problemstore"
	"github.com/hubenschmidt/pceh/internal/types"
)

func testHarness(t *testing.T) *harness {
	t.Helper()
	ws := t.TempDir()
	store, err := history.Open(filepath.Join(ws, "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	problemsDir := filepath.Join(ws, "problems")
	require.NoError(t, os.MkdirAll(problemsDir, 0755))
	problems, err := problemstore.Load(problemsDir)
	require.NoError(t, err)

	return &harness{ws: ws, cfg: config.DefaultConfig(), store: store, problems: problems}
}

func TestBuildMatrixConfig_RequiresModelsWithoutPreset(t *testing.T) {
	runModels = nil
	runPresetID = ""
	defer func() { runModels = nil }()

	h := testHarness(t)
	_, err := buildMatrixConfig(h)
	assert.Error(t, err)
}

func TestBuildMatrixConfig_FromFlags(t *testing.T) {
	runModels = []string{"qwen2.5-coder:7b"}
	runLanguages = []string{"python", "go"}
	runTemperatures = []float64{0.0, 0.7}
	runMaxTokens = nil
	runPresetID = ""
	runAutoTests = true
	runSkipOnError = false
	runWarmupRuns = 2
	defer func() {
		runModels = nil
		runLanguages = nil
		runTemperatures = nil
	}()

	h := testHarness(t)
	cfg, err := buildMatrixConfig(h)
	require.NoError(t, err)
	assert.Equal(t, []string{"qwen2.5-coder:7b"}, cfg.Models)
	assert.Equal(t, []types.Language{types.Python, types.Go}, cfg.Languages)
	assert.Equal(t, []*int{nil}, cfg.MaxTokens)
}

func TestBuildMatrixConfig_FromPreset(t *testing.T) {
	h := testHarness(t)
	preset := types.Preset{
		ID:          "preset-1",
		Name:        "quick",
		ModelID:     "m1",
		Language:    types.Python,
		Temperature: 0.2,
		ProblemIDs:  []string{"two-sum"},
	}
	require.NoError(t, h.store.InsertPreset(preset))

	runPresetID = "preset-1"
	runAutoTests = true
	defer func() { runPresetID = "" }()

	cfg, err := buildMatrixConfig(h)
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, cfg.Models)
	assert.Equal(t, []types.Language{types.Python}, cfg.Languages)
	assert.Equal(t, []string{"two-sum"}, cfg.ProblemIDs)
	require.NotNil(t, cfg.ActivePresetID)
	assert.Equal(t, "preset-1", *cfg.ActivePresetID)
}

func TestBuildMatrixConfig_UnknownPresetErrors(t *testing.T) {
	h := testHarness(t)
	runPresetID = "does-not-exist"
	defer func() { runPresetID = "" }()

	_, err := buildMatrixConfig(h)
	assert.Error(t, err)
}
