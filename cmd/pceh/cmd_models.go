package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Warm up or evict models on the configured LLM backend",
}

var modelsWarmupCmd = &cobra.Command{
	Use:   "warmup [model]",
	Short: "Warm up a model so the first benchmark generation isn't paying cold-load latency",
	Args:  cobra.ExactArgs(1),
	RunE:  runModelsWarmup,
}

var modelsUnloadCmd = &cobra.Command{
	Use:   "unload [model]",
	Short: "Explicitly evict a model from the backend",
	Args:  cobra.ExactArgs(1),
	RunE:  runModelsUnload,
}

func runModelsWarmup(cmd *cobra.Command, args []string) error {
	h, err := loadHarness()
	if err != nil {
		return err
	}
	defer h.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	if err := h.client.Warmup(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("warmed up %s\n", args[0])
	return nil
}

func runModelsUnload(cmd *cobra.Command, args []string) error {
	h, err := loadHarness()
	if err != nil {
		return err
	}
	defer h.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	if err := h.client.Unload(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("unloaded %s\n", args[0])
	return nil
}
