// Package executor compiles and runs generated driver programs against
// a problem's test cases, normalizing and comparing their output.
package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hubenschmidt/pceh/internal/executor/driver"
	"github.com/hubenschmidt/pceh/internal/logging"
	"github.com/hubenschmidt/pceh/internal/types"
)

// ErrorKind classifies why a TestResult's error is non-nil.
type ErrorKind int

const (
	CompilationFailed ErrorKind = iota
	RuntimeError
	Timeout
	IO
)

// Error is the structured error type returned by Executor operations
// that fail before a test result can be produced at all.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Executor runs generated driver programs for one or more languages
// against one or more test cases, through a dedicated per-instance
// temp directory it owns for the lifetime of the run.
type Executor interface {
	RunTestsStructured(ctx context.Context, resp types.StructuredCodeResponse, lang types.Language, cases []types.TestCase, timeoutMs int) ([]types.TestResult, error)
	RunTests(ctx context.Context, code string, lang types.Language, cases []types.TestCase, timeoutMs int) ([]types.TestResult, error)
	Close() error
}

type hostExecutor struct {
	workDir string
}

// New creates an Executor backed by a fresh temp directory. Callers
// must defer Close() to remove it.
func New() (Executor, error) {
	dir, err := os.MkdirTemp("", "pceh-exec-*")
	if err != nil {
		return nil, &Error{Kind: IO, Message: fmt.Sprintf("failed to create work dir: %v", err)}
	}
	return &hostExecutor{workDir: dir}, nil
}

func (e *hostExecutor) Close() error {
	return os.RemoveAll(e.workDir)
}

// RunTestsStructured runs resp's generated code against cases, one
// driver program per test case, grounded on run_*_structured.
func (e *hostExecutor) RunTestsStructured(ctx context.Context, resp types.StructuredCodeResponse, lang types.Language, cases []types.TestCase, timeoutMs int) ([]types.TestResult, error) {
	results := make([]types.TestResult, 0, len(cases))

	for i, tc := range cases {
		timer := logging.StartTimer(logging.CategoryExecutor, fmt.Sprintf("test-%d", i))
		result := e.runOne(ctx, resp, lang, tc, timeoutMs)
		timer.Stop()
		results = append(results, result)
	}

	return results, nil
}

// RunTests is the legacy non-structured path: it discovers the
// function name via regexp and wraps code/name into a
// StructuredCodeResponse before delegating to RunTestsStructured.
func (e *hostExecutor) RunTests(ctx context.Context, code string, lang types.Language, cases []types.TestCase, timeoutMs int) ([]types.TestResult, error) {
	resp := types.StructuredCodeResponse{
		FunctionName: extractFunctionName(code, lang),
		Code:         code,
	}
	return e.RunTestsStructured(ctx, resp, lang, cases, timeoutMs)
}

func (e *hostExecutor) runOne(ctx context.Context, resp types.StructuredCodeResponse, lang types.Language, tc types.TestCase, timeoutMs int) types.TestResult {
	start := time.Now()

	source, runCmd, runArgs, compileCmd, compileArgs, ext, err := e.materialize(resp, lang, tc.Input)
	if err != nil {
		msg := err.Error()
		return types.TestResult{Passed: false, Error: &msg}
	}

	sourcePath := filepath.Join(e.workDir, "driver"+ext)
	if err := os.WriteFile(sourcePath, []byte(source), 0o644); err != nil {
		msg := fmt.Sprintf("failed to write driver source: %v", err)
		return types.TestResult{Passed: false, Error: &msg}
	}

	if compileCmd != "" {
		res := runProcess(ctx, e.workDir, compileCmd, compileArgs, compileTimeout)
		if res.timedOut {
			msg := fmt.Sprintf("Timeout after %dms", compileTimeout.Milliseconds())
			return types.TestResult{Passed: false, Error: &msg}
		}
		if res.err != nil {
			msg := "Compilation failed: " + res.err.Error()
			return types.TestResult{Passed: false, Error: &msg}
		}
	}

	runTimeout := time.Duration(timeoutMs) * time.Millisecond
	res := runProcess(ctx, e.workDir, runCmd, runArgs, runTimeout)
	elapsed := float64(time.Since(start).Milliseconds())

	if res.timedOut {
		msg := fmt.Sprintf("Timeout after %dms", timeoutMs)
		return types.TestResult{Passed: false, ExecutionTimeMs: elapsed, Error: &msg}
	}
	if res.err != nil {
		msg := res.err.Error()
		return types.TestResult{Passed: false, ExecutionTimeMs: elapsed, Error: &msg}
	}

	actual := Normalize(res.stdout)
	expected := Normalize(tc.Expected)

	return types.TestResult{
		Passed:          actual == expected,
		ActualOutput:    actual,
		ExpectedOutput:  expected,
		ExecutionTimeMs: elapsed,
	}
}

// materialize returns the generated source plus the run (and, for
// compiled languages, compile) command lines for lang.
func (e *hostExecutor) materialize(resp types.StructuredCodeResponse, lang types.Language, input string) (source, runCmd string, runArgs []string, compileCmd string, compileArgs []string, ext string, err error) {
	switch lang {
	case types.Python:
		return driver.Python(resp, input), "python3", []string{"driver.py"}, "", nil, ".py", nil
	case types.JavaScript:
		return driver.JavaScript(resp, input), "node", []string{"driver.js"}, "", nil, ".js", nil
	case types.Go:
		return driver.Go(resp, input), "go", []string{"run", "driver.go"}, "", nil, ".go", nil
	case types.Rust:
		return driver.Rust(resp, input), "./driver", nil, "rustc", []string{"-O", "-o", "driver", "driver.rs"}, ".rs", nil
	default:
		return "", "", nil, "", nil, "", &Error{Kind: IO, Message: fmt.Sprintf("unsupported language: %s", lang)}
	}
}
