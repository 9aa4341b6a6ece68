package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/hubenschmidt/pceh/internal/executor"
	"github.com/hubenschmidt/pceh/internal/llm"
	"github.com/hubenschmidt/pceh/internal/logging"
	"github.com/hubenschmidt/pceh/internal/types"
)

// Runner drives code generation and test execution for a single
// benchmark configuration against a set of problems.
type Runner struct {
	client llm.LLMClient
	exec   executor.Executor
}

// New builds a Runner over client and exec. The Runner does not own
// exec's lifetime; callers are still responsible for exec.Close().
func New(client llm.LLMClient, exec executor.Executor) *Runner {
	return &Runner{client: client, exec: exec}
}

// RunStreaming ports run_streaming/run_problem: a warmup loop, then a
// per-problem loop, emitting events in the exact order the original
// does, onto events. events should be a buffered channel; RunStreaming
// closes it before returning.
func (r *Runner) RunStreaming(ctx context.Context, cfg types.CodeBenchmarkConfig, problems []types.Problem, events chan<- Event) {
	defer close(events)

	for i := 0; i < cfg.WarmupRuns; i++ {
		if ctx.Err() != nil {
			send(ctx, events, Event{Type: EventCancelled})
			return
		}
		send(ctx, events, Event{Type: EventWarmup, Current: i + 1, Total: cfg.WarmupRuns})

		if err := r.client.Warmup(ctx, cfg.ModelID); err != nil {
			send(ctx, events, Event{Type: EventError, Message: err.Error()})
			return
		}
	}

	allMetrics := make([]types.CodeBenchmarkMetrics, 0, len(problems))

	for idx, problem := range problems {
		if ctx.Err() != nil {
			send(ctx, events, Event{Type: EventCancelled})
			return
		}

		send(ctx, events, Event{Type: EventProblem, Current: idx + 1, Total: len(problems), Title: problem.Title})

		metrics, err := r.runProblem(ctx, cfg, problem, events)
		if err != nil {
			if err == Cancelled {
				send(ctx, events, Event{Type: EventCancelled})
				return
			}
			msg := err.Error()
			send(ctx, events, Event{Type: EventError, Message: fmt.Sprintf("Problem '%s' failed: %s", problem.Title, msg)})
			metrics = types.CodeBenchmarkMetrics{
				ProblemID:        problem.ID,
				Difficulty:       problem.Difficulty,
				TestsTotal:       len(problem.TestCases),
				CompilationError: &msg,
			}
		}

		send(ctx, events, Event{Type: EventProblemComplete, Metrics: metrics})
		allMetrics = append(allMetrics, metrics)
	}

	summary := calculateSummary(allMetrics)
	send(ctx, events, Event{Type: EventDone, Summary: summary})
}

func (r *Runner) runProblem(ctx context.Context, cfg types.CodeBenchmarkConfig, problem types.Problem, events chan<- Event) (types.CodeBenchmarkMetrics, error) {
	if ctx.Err() != nil {
		return types.CodeBenchmarkMetrics{}, Cancelled
	}

	send(ctx, events, Event{Type: EventGeneratingCode})
	start := time.Now()

	structured, err := r.getStructuredCode(ctx, cfg, problem)
	if err != nil {
		if ctx.Err() != nil {
			return types.CodeBenchmarkMetrics{}, Cancelled
		}
		return types.CodeBenchmarkMetrics{}, &LlmError{Context: "structured output failed", Err: err}
	}

	generationTimeMs := float64(time.Since(start).Milliseconds())

	send(ctx, events, Event{Type: EventToken, Content: structured.Code})

	var testsPassed, testsTotal int
	var executionTimeMs float64
	var compilationError, runtimeError *string

	if cfg.RunTests {
		results, err := r.runTestsStructured(ctx, structured, cfg.Language, problem, events)
		if err != nil {
			msg := err.Error()
			testsTotal = len(problem.TestCases)
			compilationError = &msg
		} else {
			testsTotal = len(results)
			for _, res := range results {
				if res.Passed {
					testsPassed++
				}
				executionTimeMs += res.ExecutionTimeMs
				if res.Error != nil {
					if compilationError == nil && types.IsCompilationError(*res.Error) {
						compilationError = res.Error
					} else if runtimeError == nil && !types.IsCompilationError(*res.Error) {
						runtimeError = res.Error
					}
				}
			}
		}
	}

	return types.CodeBenchmarkMetrics{
		ProblemID:        problem.ID,
		Difficulty:       problem.Difficulty,
		TTFTMs:           generationTimeMs,
		TokensPerSec:     0.0,
		TestsPassed:      testsPassed,
		TestsTotal:       testsTotal,
		ExecutionTimeMs:  executionTimeMs,
		GeneratedCode:    structured.Code,
		CompilationError: compilationError,
		RuntimeError:     runtimeError,
	}, nil
}

func (r *Runner) getStructuredCode(ctx context.Context, cfg types.CodeBenchmarkConfig, problem types.Problem) (types.StructuredCodeResponse, error) {
	prompt := buildStructuredPrompt(problem, cfg.Language)
	schema := llm.BuildCodeOutputSchema()

	timer := logging.StartTimer(logging.CategoryRunner, "generate-"+problem.ID)
	defer timer.Stop()

	return r.client.ChatStructured(ctx, cfg.ModelID, prompt, schema, cfg.Temperature)
}

func (r *Runner) runTestsStructured(ctx context.Context, structured types.StructuredCodeResponse, lang types.Language, problem types.Problem, events chan<- Event) ([]types.TestResult, error) {
	total := len(problem.TestCases)
	send(ctx, events, Event{Type: EventExecutingTests, Total: total})

	results, err := r.exec.RunTestsStructured(ctx, structured, lang, problem.TestCases, problem.TimeLimitMs)
	if err != nil {
		return nil, err
	}

	for idx, result := range results {
		send(ctx, events, Event{
			Type:      EventTestResult,
			TestNum:   idx + 1,
			TestTotal: total,
			Passed:    result.Passed,
			Expected:  result.ExpectedOutput,
			Actual:    result.ActualOutput,
			Error:     result.Error,
		})
	}

	return results, nil
}

// send delivers ev onto events whenever the channel has room, even if
// ctx is already done, so a cancelled run still reports its Cancelled
// event. When the channel is full it waits for room or for ctx to be
// done, mirroring the original's best-effort (ignored-error) tx.send
// calls while still respecting cancellation so a stalled consumer
// cannot wedge the run.
func send(ctx context.Context, events chan<- Event, ev Event) {
	select {
	case events <- ev:
		return
	default:
	}
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}

// RunTestsOnly runs tests against known-good code without generating
// it, bypassing the LLM entirely. Grounded on run_tests_only.
func RunTestsOnly(ctx context.Context, exec executor.Executor, code string, lang types.Language, problem types.Problem, events chan<- Event) (passed, total int, executionTimeMs float64, err error) {
	total = len(problem.TestCases)
	send(ctx, events, Event{Type: EventExecutingTests, Total: total})

	results, err := exec.RunTests(ctx, code, lang, problem.TestCases, problem.TimeLimitMs)
	if err != nil {
		return 0, total, 0, err
	}

	for idx, result := range results {
		send(ctx, events, Event{
			Type:      EventTestResult,
			TestNum:   idx + 1,
			TestTotal: total,
			Passed:    result.Passed,
			Expected:  result.ExpectedOutput,
			Actual:    result.ActualOutput,
			Error:     result.Error,
		})
		if result.Passed {
			passed++
		}
		executionTimeMs += result.ExecutionTimeMs
	}

	return passed, total, executionTimeMs, nil
}
