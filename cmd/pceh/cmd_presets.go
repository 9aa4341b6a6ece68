package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hubenschmidt/pceh/internal/types"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Manage saved single-point benchmark selections",
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved presets",
	RunE:  runPresetsList,
}

var (
	presetSaveName        string
	presetSaveModel       string
	presetSaveLanguage    string
	presetSaveTemperature float64
	presetSaveMaxTokens   int
	presetSaveProblemIDs  []string
)

var presetsSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save a single-point selection as a reusable preset",
	RunE:  runPresetsSave,
}

var presetsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a saved preset",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetsDelete,
}

func init() {
	presetsSaveCmd.Flags().StringVar(&presetSaveName, "name", "", "Preset name (required)")
	presetsSaveCmd.Flags().StringVar(&presetSaveModel, "model", "", "Model id (required)")
	presetsSaveCmd.Flags().StringVar(&presetSaveLanguage, "language", "python", "Language")
	presetsSaveCmd.Flags().Float64Var(&presetSaveTemperature, "temperature", 0.0, "Sampling temperature")
	presetsSaveCmd.Flags().IntVar(&presetSaveMaxTokens, "max-tokens", 0, "Max tokens (0 = model default)")
	presetsSaveCmd.Flags().StringSliceVar(&presetSaveProblemIDs, "problems", nil, "Problem ids")
	presetsSaveCmd.MarkFlagRequired("name")
	presetsSaveCmd.MarkFlagRequired("model")
}

func runPresetsList(cmd *cobra.Command, args []string) error {
	h, err := loadHarness()
	if err != nil {
		return err
	}
	defer h.Close()

	presets, err := h.store.ListPresets()
	if err != nil {
		return err
	}
	if len(presets) == 0 {
		fmt.Println("No saved presets.")
		return nil
	}
	for _, p := range presets {
		fmt.Printf("%s  %-20s  %s/%s  T=%.2f  problems=%d\n", p.ID, p.Name, p.ModelID, p.Language, p.Temperature, len(p.ProblemIDs))
	}
	return nil
}

func runPresetsSave(cmd *cobra.Command, args []string) error {
	h, err := loadHarness()
	if err != nil {
		return err
	}
	defer h.Close()

	lang := types.Language(presetSaveLanguage)
	if !lang.Valid() {
		return fmt.Errorf("invalid language: %s", presetSaveLanguage)
	}

	var maxTokens *int
	if presetSaveMaxTokens > 0 {
		maxTokens = &presetSaveMaxTokens
	}

	preset := types.Preset{
		ID:          uuid.NewString(),
		Name:        presetSaveName,
		CreatedAt:   nowUnixSeconds(),
		ModelID:     presetSaveModel,
		Language:    lang,
		Temperature: presetSaveTemperature,
		MaxTokens:   maxTokens,
		ProblemIDs:  presetSaveProblemIDs,
	}
	if err := h.store.InsertPreset(preset); err != nil {
		return err
	}
	fmt.Printf("saved preset %s (%s)\n", preset.Name, preset.ID)
	return nil
}

func runPresetsDelete(cmd *cobra.Command, args []string) error {
	h, err := loadHarness()
	if err != nil {
		return err
	}
	defer h.Close()

	if err := h.store.DeletePreset(args[0]); err != nil {
		return err
	}
	fmt.Printf("deleted preset %s\n", args[0])
	return nil
}
