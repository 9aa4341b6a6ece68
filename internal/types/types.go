// Package types holds the shared domain model for the polyglot code
// evaluation harness: problems, test cases, structured LLM responses,
// test results, benchmark metrics, matrix combos, batch state, history
// entries, and presets. Types here are immutable data carriers; behavior
// lives in the packages that consume them.
package types

import "fmt"

// Language is one of the four target languages a solution can be
// generated and executed in.
type Language string

const (
	Python     Language = "python"
	JavaScript Language = "javascript"
	Rust       Language = "rust"
	Go         Language = "go"
)

// Label returns the human-readable name used in prompts.
func (l Language) Label() string {
	switch l {
	case Python:
		return "Python"
	case JavaScript:
		return "JavaScript"
	case Rust:
		return "Rust"
	case Go:
		return "Go"
	default:
		return string(l)
	}
}

// Valid reports whether l is one of the four supported languages.
func (l Language) Valid() bool {
	switch l {
	case Python, JavaScript, Rust, Go:
		return true
	default:
		return false
	}
}

// Difficulty classifies a problem's expected solving difficulty.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// TestCase is one input/expected-output pair for a problem.
// Input is always a JSON-encoded array of positional arguments.
type TestCase struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
}

// Problem is an immutable benchmark problem definition loaded once at
// startup by the ProblemStore.
type Problem struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Difficulty  Difficulty          `json:"difficulty"`
	Description string              `json:"description"`
	Signatures  map[Language]string `json:"signatures"`
	TestCases   []TestCase          `json:"test_cases"`
	TimeLimitMs int                 `json:"time_limit_ms"`
}

// Signature returns the signature for lang, or a fallback comment of the
// form "implement <id> solution" when the problem carries none.
func (p Problem) Signature(lang Language) string {
	if sig, ok := p.Signatures[lang]; ok && sig != "" {
		return sig
	}
	return fmt.Sprintf("// implement %s solution", p.ID)
}

// ProblemSet is a named, ordered collection of problems loaded from a
// single on-disk definition file.
type ProblemSet struct {
	Name     string    `json:"name"`
	Problems []Problem `json:"problems"`
}

// StructuredCodeResponse is the sole contract between the LLM and the
// Executor: no free-form markdown/code-fence parsing is ever performed.
type StructuredCodeResponse struct {
	FunctionName string   `json:"function_name"`
	Imports      []string `json:"imports"`
	Code         string   `json:"code"`
}

// TestResult is the outcome of running one test case against generated
// code. Error is tagged compilation/runtime purely by substring
// inspection of its text (see IsCompilationError).
type TestResult struct {
	Passed          bool    `json:"passed"`
	ActualOutput    string  `json:"actual_output"`
	ExpectedOutput  string  `json:"expected_output"`
	ExecutionTimeMs float64 `json:"execution_time_ms"`
	Error           *string `json:"error,omitempty"`
}

// IsCompilationError reports whether err's text carries the Executor's
// synthesized "Compilation failed" prefix.
func IsCompilationError(err string) bool {
	return len(err) >= len("Compilation") && err[:len("Compilation")] == "Compilation"
}

// CodeBenchmarkMetrics is the per-problem result of one combo's run.
type CodeBenchmarkMetrics struct {
	ProblemID         string     `json:"problem_id"`
	Difficulty        Difficulty `json:"difficulty"`
	TTFTMs            float64    `json:"ttft_ms"`
	TokensPerSec      float64    `json:"tokens_per_sec"`
	TestsPassed       int        `json:"tests_passed"`
	TestsTotal        int        `json:"tests_total"`
	ExecutionTimeMs   float64    `json:"execution_time_ms"`
	GeneratedCode     string     `json:"generated_code"`
	CompilationError  *string    `json:"compilation_error,omitempty"`
	RuntimeError      *string    `json:"runtime_error,omitempty"`
}

// CodeBenchmarkSummary aggregates metrics across all problems in a combo,
// including a per-difficulty pass-rate breakdown (a supplement pulled
// from the original's calculate_summary, not spelled out in spec.md's
// prose but named as part of the Runner's final Done event).
type CodeBenchmarkSummary struct {
	PassRate           float64 `json:"pass_rate"`
	ProblemsSolved     int     `json:"problems_solved"`
	ProblemsTotal      int     `json:"problems_total"`
	AvgTPS             float64 `json:"avg_tps"`
	AvgExecutionTimeMs float64 `json:"avg_execution_time_ms"`
	EasySolved         int     `json:"easy_solved"`
	EasyTotal          int     `json:"easy_total"`
	MediumSolved       int     `json:"medium_solved"`
	MediumTotal        int     `json:"medium_total"`
	HardSolved         int     `json:"hard_solved"`
	HardTotal          int     `json:"hard_total"`
}

// CodeBenchmarkConfig is the single-combo configuration the Runner
// executes against a set of problems.
type CodeBenchmarkConfig struct {
	ModelID     string   `json:"model_id"`
	Language    Language `json:"language"`
	ProblemIDs  []string `json:"problem_ids"`
	Temperature float64  `json:"temperature"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	WarmupRuns  int      `json:"warmup_runs"`
	RunTests    bool     `json:"run_tests"`
}

// BenchmarkCombo is one concrete point in the (model, language,
// temperature, max_tokens) matrix.
type BenchmarkCombo struct {
	Model       string   `json:"model"`
	Language    Language `json:"language"`
	Temperature float64  `json:"temperature"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
}

// BatchStatus is the lifecycle state of a matrix run's checkpoint.
type BatchStatus string

const (
	BatchRunning   BatchStatus = "running"
	BatchPaused    BatchStatus = "paused"
	BatchCompleted BatchStatus = "completed"
)

// BatchState is the crash-safe checkpoint of one matrix run.
type BatchState struct {
	SessionID            string           `json:"session_id"`
	CreatedAt            int64            `json:"created_at"`
	UpdatedAt            int64            `json:"updated_at"`
	Status               BatchStatus      `json:"status"`
	SelectedModels       []string         `json:"selected_models"`
	SelectedLanguages    []Language       `json:"selected_languages"`
	SelectedTemperatures []float64        `json:"selected_temperatures"`
	SelectedMaxTokens    []*int           `json:"selected_max_tokens"`
	SelectedProblemIDs   []string         `json:"selected_problem_ids"`
	AutoRunTests         bool             `json:"auto_run_tests"`
	SkipOnError          bool             `json:"skip_on_error"`
	PendingCombos        []BenchmarkCombo `json:"pending_combos"`
	QueueTotal           int              `json:"queue_total"`
	QueueCompleted       int              `json:"queue_completed"`
	FailedCombo          *BenchmarkCombo  `json:"failed_combo,omitempty"`
	ErrorMessage         *string          `json:"error_message,omitempty"`
}

// RunStatus is the terminal outcome recorded for one completed combo.
type RunStatus string

const (
	StatusSuccess RunStatus = "success"
	StatusError   RunStatus = "error"
	StatusSkipped RunStatus = "skipped"
)

// CodeHistoryEntry is the durable record of one completed, errored, or
// skipped combo.
type CodeHistoryEntry struct {
	ID           string               `json:"id"`
	Timestamp    int64                `json:"timestamp"`
	ModelID      string               `json:"model_id"`
	Language     Language             `json:"language"`
	Config       CodeBenchmarkConfig  `json:"config"`
	Summary      CodeBenchmarkSummary `json:"summary"`
	Metrics      []CodeBenchmarkMetrics `json:"metrics"`
	SessionID    *string              `json:"session_id,omitempty"`
	Status       RunStatus            `json:"status"`
	PresetID     *string              `json:"preset_id,omitempty"`
}

// Preset is a single-point selection (exactly one of each matrix axis)
// saved for reuse.
type Preset struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	CreatedAt   int64    `json:"created_at"`
	ModelID     string   `json:"model_id"`
	Language    Language `json:"language"`
	Temperature float64  `json:"temperature"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	ProblemIDs  []string `json:"problem_ids"`
}
