package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hubenschmidt/pceh/internal/matrix"
	"github.com/hubenschmidt/pceh/internal/runner"
	"github.com/hubenschmidt/pceh/internal/types"
)

var (
	runModels       []string
	runLanguages    []string
	runTemperatures []float64
	runMaxTokens    []int
	runProblemIDs   []string
	runAutoTests    bool
	runSkipOnError  bool
	runWarmupRuns   int
	runPresetID     string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a matrix of (model, language, temperature, max_tokens) combinations",
	Long: `Drives every combination of --models x --languages x --temperatures
x --max-tokens against the configured problem set, one combo at a time,
rendering live progress and persisting resumable batch state.`,
	RunE: runRun,
}

func registerRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&runModels, "models", nil, "Model ids to benchmark (required)")
	cmd.Flags().StringSliceVar(&runLanguages, "languages", []string{"python"}, "Languages: python, javascript, go, rust")
	cmd.Flags().Float64SliceVar(&runTemperatures, "temperatures", []float64{0.0}, "Sampling temperatures")
	cmd.Flags().IntSliceVar(&runMaxTokens, "max-tokens", nil, "Max-token caps; omit for model default")
	cmd.Flags().StringSliceVar(&runProblemIDs, "problems", nil, "Problem ids to run; omit for all loaded problems")
	cmd.Flags().BoolVar(&runAutoTests, "auto-run-tests", true, "Execute test cases against generated code")
	cmd.Flags().BoolVar(&runSkipOnError, "skip-on-error", false, "Skip a failing combo instead of auto-pausing")
	cmd.Flags().IntVar(&runWarmupRuns, "warmup-runs", 2, "Warmup generations before timed runs")
	cmd.Flags().StringVar(&runPresetID, "preset", "", "Load axes from a saved preset instead of flags")
}

func runRun(cmd *cobra.Command, args []string) error {
	h, err := loadHarness()
	if err != nil {
		return err
	}
	defer h.Close()

	cfg, err := buildMatrixConfig(h)
	if err != nil {
		return err
	}

	problems := resolveProblems(h, cfg.ProblemIDs)
	if len(problems) == 0 {
		return fmt.Errorf("no problems loaded from %s", h.cfg.ProblemsDir)
	}

	control := matrix.New(h.client, newExecutor, h.store, problems, cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	return driveWithObserver(ctx, cancel, control, func(ctx context.Context) error {
		return control.Run(ctx)
	})
}

// buildMatrixConfig resolves a preset, if given, otherwise the run
// flags, into a matrix.Config.
func buildMatrixConfig(h *harness) (matrix.Config, error) {
	if runPresetID != "" {
		preset, err := h.store.GetPreset(runPresetID)
		if err != nil {
			return matrix.Config{}, fmt.Errorf("load preset: %w", err)
		}
		if preset == nil {
			return matrix.Config{}, fmt.Errorf("preset not found: %s", runPresetID)
		}
		presetID := preset.ID
		return matrix.Config{
			Models:         []string{preset.ModelID},
			Languages:      []types.Language{preset.Language},
			Temperatures:   []float64{preset.Temperature},
			MaxTokens:      []*int{preset.MaxTokens},
			ProblemIDs:     preset.ProblemIDs,
			AutoRunTests:   runAutoTests,
			SkipOnError:    runSkipOnError,
			WarmupRuns:     runWarmupRuns,
			ActivePresetID: &presetID,
		}, nil
	}

	if len(runModels) == 0 {
		return matrix.Config{}, fmt.Errorf("--models is required (or pass --preset)")
	}

	languages, err := parseLanguages(runLanguages)
	if err != nil {
		return matrix.Config{}, err
	}

	return matrix.Config{
		Models:       runModels,
		Languages:    languages,
		Temperatures: runTemperatures,
		MaxTokens:    intsToPtrSlice(runMaxTokens),
		ProblemIDs:   runProblemIDs,
		AutoRunTests: runAutoTests,
		SkipOnError:  runSkipOnError,
		WarmupRuns:   runWarmupRuns,
	}, nil
}

func parseLanguages(raw []string) ([]types.Language, error) {
	if len(raw) == 0 {
		return []types.Language{types.Python}, nil
	}
	out := make([]types.Language, 0, len(raw))
	for _, r := range raw {
		lang := types.Language(r)
		if !lang.Valid() {
			return nil, fmt.Errorf("invalid language: %s", r)
		}
		out = append(out, lang)
	}
	return out, nil
}

func intsToPtrSlice(in []int) []*int {
	if len(in) == 0 {
		return []*int{nil}
	}
	out := make([]*int, len(in))
	for i, v := range in {
		v := v
		out[i] = &v
	}
	return out
}

// driveWithObserver wires a matrix.Controller's event/combo-start hooks
// into a bubbletea program, runs driverFn in the background, and blocks
// until the program exits (on quit, or once driverFn completes).
func driveWithObserver(ctx context.Context, cancel func(), control *matrix.Controller, driverFn func(context.Context) error) error {
	events := make(chan tea.Msg, 256)
	model := newObserveModel(events, cancel, control)
	program := tea.NewProgram(model)

	control.SetObserver(func(ev runner.Event) {
		events <- eventMsg(ev)
	})
	control.SetComboStartHook(func(combo types.BenchmarkCombo, index, total int) {
		events <- comboStartMsg{combo: combo, index: index, total: total}
	})

	go func() {
		err := driverFn(ctx)
		events <- runDoneMsg{err: err}
	}()

	_, err := program.Run()
	return err
}
