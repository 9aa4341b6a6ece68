// Package main implements the pceh CLI - a polyglot code evaluation
// harness for benchmarking LLM-generated solutions across Python,
// JavaScript, Go, and Rust.
//
// # File Index
//
//   - main.go        - Entry point, rootCmd, global flags, init()
//   - common.go      - shared workspace/config/problemstore/client wiring
//   - cmd_run.go     - run command, matrix.Config from flags, TUI observer
//   - cmd_resume.go  - resume command, reloads a paused BatchState
//   - cmd_pause.go   - pause command
//   - cmd_presets.go - presets list/save/delete subcommands
//   - cmd_history.go - history list/leaderboard subcommands
//   - cmd_models.go  - models warmup/unload subcommands
//   - cmd_test.go    - test command, re-run a solution's tests without an LLM call
//   - observer.go    - bubbletea progress model driven by runner.Event
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hubenschmidt/pceh/internal/logging"
)

var (
	verbose    bool
	workspace  string
	configPath string
	timeout    time.Duration

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pceh",
	Short: "pceh - polyglot code evaluation harness",
	Long: `pceh benchmarks LLM code generation across Python, JavaScript, Go,
and Rust: it prompts a model for a structured solution, compiles and
runs it against a problem's test cases, and records pass rate and
latency history.

Run "pceh run" to drive a matrix of (model, language, temperature,
max_tokens) combinations against the configured problem set.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		ws := workspace
		if ws == "" {
			ws, _ = os.Getwd()
		}
		if err := logging.Initialize(ws); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize file logging: %v\n", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "pceh.yaml", "Path to config file, relative to workspace")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 25*time.Minute, "Overall run timeout")

	registerRunFlags(runCmd)
	registerResumeFlags(resumeCmd)

	presetsCmd.AddCommand(
		presetsListCmd,
		presetsSaveCmd,
		presetsDeleteCmd,
	)
	historyCmd.AddCommand(
		historyListCmd,
		historyLeaderboardCmd,
	)
	modelsCmd.AddCommand(
		modelsWarmupCmd,
		modelsUnloadCmd,
	)

	rootCmd.AddCommand(
		runCmd,
		resumeCmd,
		pauseCmd,
		presetsCmd,
		historyCmd,
		modelsCmd,
		testCmd,
	)
}

// resolveWorkspace returns the absolute workspace directory, defaulting
// to the current directory, matching the teacher's --workspace handling.
func resolveWorkspace() (string, error) {
	ws := workspace
	if ws == "" {
		return os.Getwd()
	}
	return filepath.Abs(ws)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
