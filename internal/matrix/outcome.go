package matrix

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hubenschmidt/pceh/internal/runner"
	"github.com/hubenschmidt/pceh/internal/types"
)

// comboOutcome is the result of driving one combo through the runner,
// the Go-channel analog of the set of CodeGenAction values poll's
// match arms would have pushed for a single combo's event stream.
type comboOutcome struct {
	finalEvent runner.EventType
	metrics    []types.CodeBenchmarkMetrics
	summary    types.CodeBenchmarkSummary
	errMessage string
}

// runCombo drives combo through a fresh Runner and Executor, collecting
// metrics in the exact order ProblemComplete events arrive.
func (c *Controller) runCombo(ctx context.Context, combo types.BenchmarkCombo) comboOutcome {
	exec, err := c.newExec()
	if err != nil {
		return comboOutcome{finalEvent: runner.EventError, errMessage: err.Error()}
	}
	defer exec.Close()

	r := runner.New(c.client, exec)

	problemIDs := make([]string, 0, len(c.problems))
	for _, p := range c.problems {
		problemIDs = append(problemIDs, p.ID)
	}

	cfg := types.CodeBenchmarkConfig{
		ModelID:     combo.Model,
		Language:    combo.Language,
		ProblemIDs:  problemIDs,
		Temperature: combo.Temperature,
		MaxTokens:   combo.MaxTokens,
		WarmupRuns:  c.cfg.WarmupRuns,
		RunTests:    c.cfg.AutoRunTests,
	}

	comboCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan runner.Event, 100)
	go r.RunStreaming(comboCtx, cfg, c.problems, events)

	c.mu.Lock()
	observer := c.observer
	c.mu.Unlock()

	// stop cancels the runner and discards its remaining events until it
	// closes the channel, so it has finished before exec is closed and
	// before the next combo starts.
	stop := func() {
		cancel()
		for range events {
		}
	}

	// An Error event is treated as this combo's terminal outcome, the
	// same way poll's generic Error arm reacts to it regardless of
	// which problem produced it. The runner would go on to the next
	// problem after a per-problem failure; this loop stops it instead
	// of waiting for its eventual Done.
	var out comboOutcome
	for ev := range events {
		if observer != nil {
			observer(ev)
		}
		switch ev.Type {
		case runner.EventProblemComplete:
			out.metrics = append(out.metrics, ev.Metrics)
		case runner.EventDone:
			out.summary = ev.Summary
			out.finalEvent = runner.EventDone
		case runner.EventCancelled:
			out.finalEvent = runner.EventCancelled
			stop()
			return out
		case runner.EventError:
			out.finalEvent = runner.EventError
			out.errMessage = ev.Message
			stop()
			return out
		}
	}

	return out
}

// handleOutcome translates a combo's terminal event into the same
// three branches as polling.rs::poll's Done/Error/Cancelled arms:
// record duration, persist history, update or delete batch state, and
// decide whether to keep draining the queue.
func (c *Controller) handleOutcome(ctx context.Context, combo types.BenchmarkCombo, outcome comboOutcome) error {
	switch outcome.finalEvent {
	case runner.EventDone:
		return c.handleDone(combo, outcome)
	case runner.EventCancelled:
		c.mu.Lock()
		c.discard = true
		c.mu.Unlock()
		return nil
	case runner.EventError:
		return c.handleError(combo, outcome)
	default:
		return nil
	}
}

func (c *Controller) handleDone(combo types.BenchmarkCombo, outcome comboOutcome) error {
	c.mu.Lock()
	if !c.comboStart.IsZero() {
		c.comboDurations = append(c.comboDurations, time.Since(c.comboStart))
	}
	c.queueCompleted++
	queueEmpty := len(c.queue) == 0
	sessionID := c.sessionID
	presetID := c.cfg.ActivePresetID
	c.mu.Unlock()

	entry := types.CodeHistoryEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().Unix(),
		ModelID:   combo.Model,
		Language:  combo.Language,
		Config: types.CodeBenchmarkConfig{
			ModelID:     combo.Model,
			Language:    combo.Language,
			ProblemIDs:  metricsProblemIDs(outcome.metrics),
			Temperature: combo.Temperature,
			MaxTokens:   combo.MaxTokens,
			WarmupRuns:  0,
			RunTests:    c.cfg.AutoRunTests,
		},
		Summary:   outcome.summary,
		Metrics:   outcome.metrics,
		SessionID: &sessionID,
		Status:    types.StatusSuccess,
		PresetID:  presetID,
	}
	if err := c.store.InsertCodeHistory(entry); err != nil {
		return err
	}

	if queueEmpty {
		return c.store.DeleteBatch(sessionID)
	}

	c.mu.Lock()
	batch := c.toBatchStateLocked(batchUnchangedCreatedAt, time.Now().Unix())
	c.mu.Unlock()
	return c.store.UpdateBatch(batch)
}

func (c *Controller) handleError(combo types.BenchmarkCombo, outcome comboOutcome) error {
	c.mu.Lock()
	hasQueue := len(c.queue) > 0
	sessionID := c.sessionID
	presetID := c.cfg.ActivePresetID
	skip := c.cfg.SkipOnError
	c.mu.Unlock()

	status := types.StatusError
	if hasQueue && skip {
		status = types.StatusSkipped
	}

	failedEntry := types.CodeHistoryEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().Unix(),
		ModelID:   combo.Model,
		Language:  combo.Language,
		Config: types.CodeBenchmarkConfig{
			ModelID:     combo.Model,
			Language:    combo.Language,
			ProblemIDs:  c.cfg.ProblemIDs,
			Temperature: combo.Temperature,
			MaxTokens:   combo.MaxTokens,
			WarmupRuns:  0,
			RunTests:    c.cfg.AutoRunTests,
		},
		Summary:   types.CodeBenchmarkSummary{},
		Metrics:   nil,
		SessionID: &sessionID,
		Status:    status,
		PresetID:  presetID,
	}
	if err := c.store.InsertCodeHistory(failedEntry); err != nil {
		return err
	}

	if !hasQueue {
		c.mu.Lock()
		c.discard = true
		c.mu.Unlock()
		return nil
	}

	if skip {
		c.mu.Lock()
		c.queueCompleted++
		c.mu.Unlock()
		return nil
	}

	// Auto-pause: persist paused batch state with the failing combo
	// recorded, then stop draining the queue.
	c.mu.Lock()
	c.paused = true
	msg := outcome.errMessage
	batch := c.toBatchStateLocked(batchUnchangedCreatedAt, time.Now().Unix())
	batch.Status = types.BatchPaused
	batch.ErrorMessage = &msg
	failed := combo
	batch.FailedCombo = &failed
	c.mu.Unlock()

	return c.store.UpdateBatch(batch)
}

const batchUnchangedCreatedAt = 0

// toBatchStateLocked must be called with c.mu held. createdAt of 0
// means "leave unchanged" for UpdateBatch calls, which do not touch
// the column; Run sets it explicitly on the initial InsertBatch.
func (c *Controller) toBatchStateLocked(createdAt, updatedAt int64) types.BatchState {
	return types.BatchState{
		SessionID:            c.sessionID,
		CreatedAt:            createdAt,
		UpdatedAt:            updatedAt,
		Status:               types.BatchRunning,
		SelectedModels:       c.cfg.Models,
		SelectedLanguages:    c.cfg.Languages,
		SelectedTemperatures: c.cfg.Temperatures,
		SelectedMaxTokens:    c.cfg.MaxTokens,
		SelectedProblemIDs:   c.cfg.ProblemIDs,
		AutoRunTests:         c.cfg.AutoRunTests,
		SkipOnError:          c.cfg.SkipOnError,
		PendingCombos:        append([]types.BenchmarkCombo(nil), c.queue...),
		QueueTotal:           c.queueTotal,
		QueueCompleted:       c.queueCompleted,
	}
}

func metricsProblemIDs(metrics []types.CodeBenchmarkMetrics) []string {
	ids := make([]string, 0, len(metrics))
	for _, m := range metrics {
		ids = append(ids, m.ProblemID)
	}
	return ids
}

