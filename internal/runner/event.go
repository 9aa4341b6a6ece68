// Package runner drives one benchmark configuration through code
// generation and test execution, emitting a stream of events for an
// observer to consume. It is a direct port of code_runner.rs's
// run_streaming/run_problem pair.
package runner

import (
	"errors"

	"github.com/hubenschmidt/pceh/internal/types"
)

// EventType tags an Event the way CodeBenchmarkEvent's serde tag does.
type EventType string

const (
	EventWarmup          EventType = "warmup"
	EventProblem         EventType = "problem"
	EventGeneratingCode  EventType = "generating_code"
	EventToken           EventType = "token"
	EventExecutingTests  EventType = "executing_tests"
	EventTestResult      EventType = "test_result"
	EventProblemComplete EventType = "problem_complete"
	EventDone            EventType = "done"
	EventCancelled       EventType = "cancelled"
	EventError           EventType = "error"
)

// Event is a tagged struct standing in for the Rust enum CodeBenchmarkEvent.
// Only the fields relevant to Type are populated.
type Event struct {
	Type EventType

	// Warmup
	Current int
	Total   int

	// Problem
	Title string

	// Token
	Content string

	// TestResult
	TestNum   int
	TestTotal int
	Passed    bool
	Expected  string
	Actual    string
	Error     *string

	// ProblemComplete
	Metrics types.CodeBenchmarkMetrics

	// Done
	Summary types.CodeBenchmarkSummary

	// Error
	Message string
}

// Cancelled is the sentinel error returned when ctx is cancelled
// mid-run, checked with errors.Is by callers.
var Cancelled = errors.New("benchmark run cancelled")

// LlmError wraps an LLM client failure with the context in which it
// occurred, matching LlamaBurnError::OllamaError's "Structured output
// failed: ..." wrapping.
type LlmError struct {
	Context string
	Err     error
}

func (e *LlmError) Error() string { return e.Context + ": " + e.Err.Error() }
func (e *LlmError) Unwrap() error { return e.Err }
