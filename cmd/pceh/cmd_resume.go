package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hubenschmidt/pceh/internal/matrix"
	"github.com/hubenschmidt/pceh/internal/types"
)

var resumeSessionID string

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a paused matrix run",
	Long: `Resumes the most recently paused batch, or the one named by
--session, picking back up from its pending_combos.`,
	RunE: runResume,
}

func registerResumeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&resumeSessionID, "session", "", "Session id to resume; defaults to the most recent paused batch")
}

func runResume(cmd *cobra.Command, args []string) error {
	h, err := loadHarness()
	if err != nil {
		return err
	}
	defer h.Close()

	batch, err := findResumableBatch(h, resumeSessionID)
	if err != nil {
		return err
	}

	cfg := matrix.Config{
		Models:       batch.SelectedModels,
		Languages:    batch.SelectedLanguages,
		Temperatures: batch.SelectedTemperatures,
		MaxTokens:    batch.SelectedMaxTokens,
		ProblemIDs:   batch.SelectedProblemIDs,
		AutoRunTests: batch.AutoRunTests,
		SkipOnError:  batch.SkipOnError,
		WarmupRuns:   h.cfg.DefaultWarmupRuns,
	}

	problems := resolveProblems(h, batch.SelectedProblemIDs)
	if len(problems) == 0 {
		return fmt.Errorf("no problems loaded from %s", h.cfg.ProblemsDir)
	}

	control := matrix.New(h.client, newExecutor, h.store, problems, cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	return driveWithObserver(ctx, cancel, control, func(ctx context.Context) error {
		return control.Resume(ctx, *batch)
	})
}

func findResumableBatch(h *harness, sessionID string) (*types.BatchState, error) {
	batches, err := h.store.IncompleteBatches()
	if err != nil {
		return nil, fmt.Errorf("list incomplete batches: %w", err)
	}
	if len(batches) == 0 {
		return nil, fmt.Errorf("no paused or running batches found")
	}

	if sessionID == "" {
		return &batches[0], nil
	}
	for i := range batches {
		if batches[i].SessionID == sessionID {
			return &batches[i], nil
		}
	}
	return nil, fmt.Errorf("no incomplete batch with session id %s", sessionID)
}

func resolveProblems(h *harness, ids []string) []types.Problem {
	if len(ids) == 0 {
		var problems []types.Problem
		for _, set := range h.problems.ListProblemSets() {
			problems = append(problems, set.Problems...)
		}
		return problems
	}
	return h.problems.LookupMany(ids)
}
