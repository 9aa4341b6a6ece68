package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hubenschmidt/pceh/internal/runner"
	"github.com/hubenschmidt/pceh/internal/types"
)

var (
	testCodeFile string
	testLanguage string
)

var testCmd = &cobra.Command{
	Use:   "test [problem-id]",
	Short: "Re-run a known-good solution's tests without a fresh LLM call",
	Args:  cobra.ExactArgs(1),
	RunE:  runTest,
}

func init() {
	testCmd.Flags().StringVar(&testCodeFile, "code-file", "", "Path to the solution source to test (required)")
	testCmd.Flags().StringVar(&testLanguage, "language", "python", "Language the solution is written in")
	testCmd.MarkFlagRequired("code-file")
}

func runTest(cmd *cobra.Command, args []string) error {
	h, err := loadHarness()
	if err != nil {
		return err
	}
	defer h.Close()

	lang := types.Language(testLanguage)
	if !lang.Valid() {
		return fmt.Errorf("invalid language: %s", testLanguage)
	}

	problem, ok := h.problems.Lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown problem: %s", args[0])
	}

	code, err := os.ReadFile(testCodeFile)
	if err != nil {
		return fmt.Errorf("read code file: %w", err)
	}

	exec, err := newExecutor()
	if err != nil {
		return err
	}
	defer exec.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	events := make(chan runner.Event, 100)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			if ev.Type == runner.EventTestResult {
				status := "FAIL"
				if ev.Passed {
					status = "PASS"
				}
				fmt.Printf("  [%s] test %d/%d\n", status, ev.TestNum, ev.TestTotal)
				if !ev.Passed {
					fmt.Printf("    expected: %s\n", ev.Expected)
					fmt.Printf("    actual:   %s\n", ev.Actual)
				}
			}
		}
	}()

	passed, total, elapsedMs, err := runner.RunTestsOnly(ctx, exec, string(code), lang, problem, events)
	close(events)
	<-done
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d/%d passed (%.0fms)\n", problem.Title, passed, total, elapsedMs)
	return nil
}
