package matrix

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubenschmidt/pceh/internal/executor"
	"github.com/hubenschmidt/pceh/internal/history"
	"github.com/hubenschmidt/pceh/internal/llm"
	"github.com/hubenschmidt/pceh/internal/types"
)

type fakeClient struct {
	chatErr error
	resp    types.StructuredCodeResponse
	onCall  func()
}

func (f *fakeClient) ChatStructured(ctx context.Context, model, prompt string, schema llm.Schema, temperature float64) (types.StructuredCodeResponse, error) {
	if f.onCall != nil {
		f.onCall()
	}
	if f.chatErr != nil {
		return types.StructuredCodeResponse{}, f.chatErr
	}
	return f.resp, nil
}
func (f *fakeClient) Warmup(ctx context.Context, model string) error { return nil }
func (f *fakeClient) Unload(ctx context.Context, model string) error { return nil }

type fakeExecutor struct {
	results []types.TestResult
}

func (f *fakeExecutor) RunTestsStructured(ctx context.Context, resp types.StructuredCodeResponse, lang types.Language, cases []types.TestCase, timeoutMs int) ([]types.TestResult, error) {
	return f.results, nil
}
func (f *fakeExecutor) RunTests(ctx context.Context, code string, lang types.Language, cases []types.TestCase, timeoutMs int) ([]types.TestResult, error) {
	return f.results, nil
}
func (f *fakeExecutor) Close() error { return nil }

func openTestStore(t *testing.T) *history.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := history.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testProblem() types.Problem {
	return types.Problem{
		ID:          "two-sum",
		Title:       "Two Sum",
		Difficulty:  types.Easy,
		TestCases:   []types.TestCase{{Input: "[[2,7,11,15], 9]", Expected: "[0,1]"}},
		TimeLimitMs: 1000,
	}
}

func TestGenerateCombos_CartesianProduct(t *testing.T) {
	cfg := Config{
		Models:       []string{"m1", "m2"},
		Languages:    []types.Language{types.Python, types.Go},
		Temperatures: []float64{0.0},
		MaxTokens:    []*int{nil},
	}
	combos := generateCombos(cfg)
	require.Len(t, combos, 4)
	assert.Equal(t, "m1", combos[0].Model)
	assert.Equal(t, types.Python, combos[0].Language)
	assert.Equal(t, "m1", combos[1].Model)
	assert.Equal(t, types.Go, combos[1].Language)
	assert.Equal(t, "m2", combos[2].Model)
}

func TestController_Run_HappyPathDeletesBatchWhenDrained(t *testing.T) {
	store := openTestStore(t)
	client := &fakeClient{resp: types.StructuredCodeResponse{FunctionName: "twoSum", Code: "def twoSum(n,t): return [0,1]"}}
	exec := &fakeExecutor{results: []types.TestResult{{Passed: true}}}

	cfg := Config{
		Models:       []string{"m1"},
		Languages:    []types.Language{types.Python},
		Temperatures: []float64{0.0},
		MaxTokens:    []*int{nil},
		AutoRunTests: true,
	}

	c := New(client, func() (executor.Executor, error) {
		return exec, nil
	}, store, []types.Problem{testProblem()}, cfg)

	err := c.Run(context.Background())
	require.NoError(t, err)

	incomplete, err := store.IncompleteBatches()
	require.NoError(t, err)
	assert.Empty(t, incomplete)

	entries, err := store.ListCodeHistory(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, types.StatusSuccess, entries[0].Status)
}

func TestController_Run_ErrorWithoutSkipAutoPauses(t *testing.T) {
	store := openTestStore(t)
	client := &fakeClient{chatErr: errors.New("model unavailable")}
	exec := &fakeExecutor{}

	cfg := Config{
		Models:       []string{"m1", "m2"},
		Languages:    []types.Language{types.Python},
		Temperatures: []float64{0.0},
		MaxTokens:    []*int{nil},
		SkipOnError:  false,
	}

	c := New(client, func() (executor.Executor, error) {
		return exec, nil
	}, store, []types.Problem{testProblem()}, cfg)

	err := c.Run(context.Background())
	require.NoError(t, err)

	incomplete, err := store.IncompleteBatches()
	require.NoError(t, err)
	require.Len(t, incomplete, 1)
	assert.Equal(t, types.BatchPaused, incomplete[0].Status)
	require.NotNil(t, incomplete[0].ErrorMessage)
}

func TestController_Run_ErrorWithSkipContinuesQueue(t *testing.T) {
	store := openTestStore(t)
	client := &fakeClient{chatErr: errors.New("model unavailable")}
	exec := &fakeExecutor{}

	cfg := Config{
		Models:       []string{"m1", "m2"},
		Languages:    []types.Language{types.Python},
		Temperatures: []float64{0.0},
		MaxTokens:    []*int{nil},
		SkipOnError:  true,
	}

	c := New(client, func() (executor.Executor, error) {
		return exec, nil
	}, store, []types.Problem{testProblem()}, cfg)

	err := c.Run(context.Background())
	require.NoError(t, err)

	// The first combo's failure is skipped (queue still has one combo
	// left); the second combo's failure has no more queue behind it, so
	// it is recorded as a terminal Error regardless of skip_on_error,
	// matching the original's "no more queue" short-circuit.
	entries, err := store.ListCodeHistory(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	statuses := []types.RunStatus{entries[0].Status, entries[1].Status}
	assert.ElementsMatch(t, []types.RunStatus{types.StatusError, types.StatusSkipped}, statuses)
}

func TestController_Pause(t *testing.T) {
	store := openTestStore(t)
	c := New(&fakeClient{}, nil, store, nil, Config{})
	c.Pause()
	assert.True(t, c.paused)
}

// TestController_Resume_ContinuesPendingCombosAndDeletesBatchWhenDrained
// covers spec §8's resume scenario: a Run paused mid-queue persists
// pending_combos.len()+queue_completed=queue_total, and Resume against
// that BatchState runs exactly the remaining combos and deletes the
// BatchState once the queue drains.
func TestController_Resume_ContinuesPendingCombosAndDeletesBatchWhenDrained(t *testing.T) {
	store := openTestStore(t)
	exec := &fakeExecutor{results: []types.TestResult{{Passed: true}}}

	var controller *Controller
	calls := 0
	client := &fakeClient{resp: types.StructuredCodeResponse{FunctionName: "twoSum", Code: "def twoSum(n,t): return [0,1]"}}
	client.onCall = func() {
		calls++
		if calls == 1 {
			controller.Pause()
		}
	}

	cfg := Config{
		Models:       []string{"m1", "m2", "m3"},
		Languages:    []types.Language{types.Python},
		Temperatures: []float64{0.0},
		MaxTokens:    []*int{nil},
		AutoRunTests: true,
	}

	controller = New(client, func() (executor.Executor, error) {
		return exec, nil
	}, store, []types.Problem{testProblem()}, cfg)

	require.NoError(t, controller.Run(context.Background()))

	incomplete, err := store.IncompleteBatches()
	require.NoError(t, err)
	require.Len(t, incomplete, 1)
	paused := incomplete[0]
	assert.Equal(t, 3, paused.QueueTotal)
	assert.Equal(t, 1, paused.QueueCompleted)
	assert.Len(t, paused.PendingCombos, 2)
	assert.Equal(t, paused.QueueCompleted+len(paused.PendingCombos), paused.QueueTotal)

	entries, err := store.ListCodeHistory(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	resumeClient := &fakeClient{resp: client.resp}
	resumed := New(resumeClient, func() (executor.Executor, error) {
		return exec, nil
	}, store, []types.Problem{testProblem()}, cfg)

	require.NoError(t, resumed.Resume(context.Background(), paused))

	stillIncomplete, err := store.IncompleteBatches()
	require.NoError(t, err)
	assert.Empty(t, stillIncomplete)

	entries, err = store.ListCodeHistory(10)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
