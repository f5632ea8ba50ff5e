package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/spikebeat/internal/levels"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the levels",
	Long: `Shows the levels in play order. With --levels, the files in that
directory replace the built-in set.`,
	Run: runLevels,
}

func runLevels(_ *cobra.Command, _ []string) {
	lvls, err := levels.Load(flagLevels)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading levels: %v\n", err)
		os.Exit(1)
	}

	if len(lvls) == 0 {
		fmt.Println("No levels available.")
		return
	}

	fmt.Println("Levels:")
	fmt.Println()

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, l := range lvls {
		if len(l.Name) > maxNameLen {
			maxNameLen = len(l.Name)
		}
	}

	// Print header
	fmt.Printf("  %-3s  %-*s  %-4s  %-5s  %-6s  %-7s  %s\n", "#", maxNameLen, "Name", "Year", "BPM", "Spikes", "Goal", "Music")
	fmt.Printf("  %-3s  %-*s  %-4s  %-5s  %-6s  %-7s  %s\n", "-", maxNameLen, "----", "----", "---", "------", "----", "-----")

	for i, l := range lvls {
		goal := "endless"
		if l.Goal != nil {
			goal = fmt.Sprintf("%.0f", *l.Goal)
		}
		music := l.Music
		if music == "" {
			music = "(metronome)"
		}
		fmt.Printf("  %-3d  %-*s  %-4d  %-5.0f  %-6d  %-7s  %s\n", i, maxNameLen, l.Name, l.Year, l.BPM, len(l.Spikes), goal, music)
	}

	fmt.Println()
	fmt.Println("Run 'spikebeat play --level <#>' to jump straight into a level.")
}
