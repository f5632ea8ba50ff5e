package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/spikebeat/internal/platform/tui"
	"github.com/vovakirdan/spikebeat/internal/registry"
	"github.com/vovakirdan/spikebeat/internal/storage"
)

var (
	flagHistoryLimit  int
	flagHistoryBrowse bool
	flagHistoryClear  bool
)

var historyCmd = &cobra.Command{
	Use:   "history [mode]",
	Short: "Show the run history",
	Long: `Display per-level totals and the latest runs for a mode.

Examples:
  spikebeat history
  spikebeat history spikebeat_endless --limit 30
  spikebeat history --browse
  spikebeat history spikebeat --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of recent runs to show")
	historyCmd.Flags().BoolVar(&flagHistoryBrowse, "browse", false, "Open the interactive history browser")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete the history of the mode")
}

func runHistory(_ *cobra.Command, args []string) {
	mode := "spikebeat"
	if len(args) == 1 {
		mode = args[0]
	}

	if !registry.Exists(mode) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", mode)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run history: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagHistoryBrowse {
		cfg := terminalConfig()
		if _, err := tui.RunHistory(store, cfg.ScreenW, cfg.ScreenH); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	if flagHistoryClear {
		if err := store.ClearRuns(mode); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing history: %v\n", err)
			return
		}
		fmt.Printf("Cleared the %s history.\n", mode)
		return
	}

	stats, err := store.LevelStats(mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving history: %v\n", err)
		return
	}

	fmt.Printf("Run history - %s\n", mode)
	fmt.Println()

	if len(stats) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'spikebeat play' to record the first one!")
		return
	}

	// Print totals
	fmt.Printf("  %-20s  %-5s  %-6s  %-7s  %-5s  %s\n", "Level", "Runs", "Deaths", "Cleared", "Best", "Last played")
	fmt.Printf("  %-20s  %-5s  %-6s  %-7s  %-5s  %s\n", "-----", "----", "------", "-------", "----", "-----------")
	for _, st := range stats {
		fmt.Printf("  %-20s  %-5d  %-6d  %-7d  %3.0f%%   %s\n",
			st.Level, st.Runs, st.Deaths, st.Completions, st.BestProgress, st.LastPlayed.Format("2006-01-02 15:04"))
	}

	runs, err := store.RecentRuns(mode, flagHistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Println("Recent runs:")
	fmt.Printf("  %-16s  %-20s  %-9s  %-3s  %-8s  %s\n", "Date", "Level", "Result", "Try", "Progress", "Time")
	for _, r := range runs {
		fmt.Printf("  %-16s  %-20s  %-9s  %-3d  %7.0f%%  %.1fs\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Level, r.Outcome, r.Attempt, r.Progress, r.Duration)
	}
}
