// Package matrix drives a queue of (model, language, temperature,
// max_tokens) combinations through the runner, one at a time,
// persisting resumable progress and applying the skip-on-error /
// auto-pause policy between combos.
package matrix

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hubenschmidt/pceh/internal/executor"
	"github.com/hubenschmidt/pceh/internal/history"
	"github.com/hubenschmidt/pceh/internal/llm"
	"github.com/hubenschmidt/pceh/internal/logging"
	"github.com/hubenschmidt/pceh/internal/runner"
	"github.com/hubenschmidt/pceh/internal/types"
)

// Config is the user-facing selection a matrix run is built from:
// the axes of the Cartesian product plus run-wide settings.
type Config struct {
	Models         []string
	Languages      []types.Language
	Temperatures   []float64
	MaxTokens      []*int
	ProblemIDs     []string
	AutoRunTests   bool
	SkipOnError    bool
	WarmupRuns     int
	ActivePresetID *string
}

// Controller drives one matrix run: a session_id, a combo queue, and
// the accumulated ETA/progress bookkeeping polling.rs's poll keeps in
// the panel struct.
type Controller struct {
	mu sync.Mutex

	client   llm.LLMClient
	newExec  func() (executor.Executor, error)
	store    *history.Store
	problems []types.Problem

	cfg       Config
	sessionID string

	queue          []types.BenchmarkCombo
	queueTotal     int
	queueCompleted int
	comboDurations []time.Duration
	comboStart     time.Time
	currentCombo   *types.BenchmarkCombo
	lastModelID    string

	paused  bool
	discard bool

	observer     func(runner.Event)
	onComboStart func(combo types.BenchmarkCombo, index, total int)
}

// SetObserver registers fn to receive every runner.Event emitted by the
// combo currently in flight, the Go-channel analog of forwarding into
// the teacher's progressChan for a live-updating TUI.
func (c *Controller) SetObserver(fn func(runner.Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = fn
}

// SetComboStartHook registers fn to be called as each combo is
// dequeued, before preload/run begin, so an observer can render
// "combo N of T" framing around the per-problem event stream.
func (c *Controller) SetComboStartHook(fn func(combo types.BenchmarkCombo, index, total int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onComboStart = fn
}

// New builds a Controller. newExec constructs a fresh Executor for
// each combo run (each combo gets its own temp-dir lifetime).
func New(client llm.LLMClient, newExec func() (executor.Executor, error), store *history.Store, problems []types.Problem, cfg Config) *Controller {
	return &Controller{
		client:   client,
		newExec:  newExec,
		store:    store,
		problems: problems,
		cfg:      cfg,
	}
}

// generateCombos is the ordered Cartesian product of models x languages
// x temperatures x max_tokens, consumed front-to-back.
func generateCombos(cfg Config) []types.BenchmarkCombo {
	var combos []types.BenchmarkCombo
	for _, model := range cfg.Models {
		for _, lang := range cfg.Languages {
			for _, temp := range cfg.Temperatures {
				for _, maxTokens := range cfg.MaxTokens {
					combos = append(combos, types.BenchmarkCombo{
						Model:       model,
						Language:    lang,
						Temperature: temp,
						MaxTokens:   maxTokens,
					})
				}
			}
		}
	}
	return combos
}

// ETA returns the mean of completed combo durations times the number
// of combos remaining in the queue, for an observer to render.
func (c *Controller) ETA() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.comboDurations) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range c.comboDurations {
		sum += d
	}
	mean := sum / time.Duration(len(c.comboDurations))
	return mean * time.Duration(len(c.queue))
}

// Run starts a fresh matrix run: generates the combo queue, persists
// the initial BatchState, and drives it to completion or pause.
func (c *Controller) Run(ctx context.Context) error {
	c.mu.Lock()
	c.sessionID = uuid.NewString()
	c.queue = generateCombos(c.cfg)
	c.queueTotal = len(c.queue)
	c.queueCompleted = 0
	now := nowUnix()

	batch := c.toBatchStateLocked(now, now)
	c.mu.Unlock()

	if err := c.store.InsertBatch(batch); err != nil {
		return fmt.Errorf("failed to persist initial batch state: %w", err)
	}

	return c.drive(ctx)
}

// Resume continues a previously persisted batch from its pending_combos.
func (c *Controller) Resume(ctx context.Context, batch types.BatchState) error {
	c.mu.Lock()
	c.sessionID = batch.SessionID
	c.queue = append([]types.BenchmarkCombo(nil), batch.PendingCombos...)
	c.queueTotal = batch.QueueTotal
	c.queueCompleted = batch.QueueCompleted
	c.mu.Unlock()

	return c.drive(ctx)
}

// drive pops combos off the queue one at a time until the queue drains,
// the run is paused, discarded, or ctx is cancelled.
func (c *Controller) drive(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.mu.Lock()
		if c.paused || c.discard || len(c.queue) == 0 {
			empty := len(c.queue) == 0
			c.mu.Unlock()
			if empty {
				return c.store.DeleteBatch(c.sessionID)
			}
			return nil
		}
		combo := c.queue[0]
		c.queue = c.queue[1:]
		c.currentCombo = &combo
		index := c.queueCompleted + 1
		total := c.queueTotal
		hook := c.onComboStart
		c.mu.Unlock()

		if hook != nil {
			hook(combo, index, total)
		}

		if err := c.preload(ctx, combo.Model); err != nil {
			logging.MatrixWarn("model preload failed for %s: %v", combo.Model, err)
		}

		outcome := c.runCombo(ctx, combo)
		if err := c.handleOutcome(ctx, combo, outcome); err != nil {
			return err
		}
		if c.shouldStop() {
			return nil
		}
	}
}

// preload warms the model via an errgroup-bounded goroutine when it
// differs from the previously run model, so the first generation call
// of a new combo isn't also paying cold-load latency.
func (c *Controller) preload(ctx context.Context, modelID string) error {
	c.mu.Lock()
	same := modelID == c.lastModelID
	c.comboStart = time.Now()
	c.mu.Unlock()
	if same {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.client.Warmup(gctx, modelID)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	c.mu.Lock()
	c.lastModelID = modelID
	c.mu.Unlock()
	return nil
}

func (c *Controller) shouldStop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused || c.discard
}

// Pause requests the run stop dequeuing after the in-flight combo
// finishes, leaving the BatchState persisted for a later Resume.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	logging.Matrix("pausing matrix run: %s", c.sessionID)
	c.paused = true
}

// Discard marks the run for teardown, so no further combo is dequeued
// after the in-flight one, and deletes its BatchState immediately.
func (c *Controller) Discard(ctx context.Context, sessionID string) error {
	c.mu.Lock()
	c.discard = true
	c.mu.Unlock()
	return c.store.DeleteBatch(sessionID)
}

func nowUnix() int64 { return time.Now().Unix() }
