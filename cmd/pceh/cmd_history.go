package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hubenschmidt/pceh/internal/types"
)

var historyListLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded benchmark runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent code history entries",
	RunE:  runHistoryList,
}

var (
	leaderboardLanguage string
	leaderboardLimit    int
)

var historyLeaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the best pass rate per model for a language",
	RunE:  runHistoryLeaderboard,
}

func init() {
	historyListCmd.Flags().IntVar(&historyListLimit, "limit", 20, "Maximum entries to list")
	historyLeaderboardCmd.Flags().StringVar(&leaderboardLanguage, "language", "python", "Language")
	historyLeaderboardCmd.Flags().IntVar(&leaderboardLimit, "limit", 10, "Maximum entries to list")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	h, err := loadHarness()
	if err != nil {
		return err
	}
	defer h.Close()

	entries, err := h.store.ListCodeHistory(historyListLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No history recorded yet.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %-20s  %-10s  %-8s  pass=%.0f%%\n",
			e.ID, e.ModelID, e.Language, e.Status, e.Summary.PassRate*100)
	}
	return nil
}

func runHistoryLeaderboard(cmd *cobra.Command, args []string) error {
	h, err := loadHarness()
	if err != nil {
		return err
	}
	defer h.Close()

	lang := types.Language(leaderboardLanguage)
	if !lang.Valid() {
		return fmt.Errorf("invalid language: %s", leaderboardLanguage)
	}

	board, err := h.store.CodeLeaderboard(lang, leaderboardLimit)
	if err != nil {
		return err
	}
	if len(board) == 0 {
		fmt.Println("No history recorded for this language yet.")
		return nil
	}
	for i, entry := range board {
		fmt.Printf("%d. %-20s  best pass rate=%.1f%%\n", i+1, entry.ModelID, entry.BestPassRate*100)
	}
	return nil
}
