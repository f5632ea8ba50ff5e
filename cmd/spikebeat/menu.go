package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/spikebeat/internal/games/spikebeat"
	"github.com/vovakirdan/spikebeat/internal/platform/tui"
	"github.com/vovakirdan/spikebeat/internal/registry"
	"github.com/vovakirdan/spikebeat/internal/storage"
)

var flagMenuAudio bool

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a mode or browse the run history",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a mode.
Esc on the level select returns to this menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select mode
  Tab          - Run history
  Q            - Quit

Examples:
  spikebeat menu
  spikebeat menu --fps 30
  spikebeat menu --db ./runs.db`,
	Run: runMenu,
}

func init() {
	menuCmd.Flags().BoolVar(&flagMenuAudio, "audio", false, "Play music through the speaker")
}

func runMenu(_ *cobra.Command, _ []string) {
	logger, closeLog := openLogFile()
	defer closeLog()
	setLoggers(logger)
	spikebeat.SetAudio(flagMenuAudio)

	// Open run history
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open run history: %v\n", err)
		store = nil
	}

	cfg := terminalConfig()

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsHistory {
			goBack, hErr := tui.RunHistory(store, cfg.ScreenW, cfg.ScreenH)
			if hErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", hErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from history
		}

		gameID := menuResult.GameID
		if gameID == "" {
			break
		}

		game, err := registry.Create(gameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		// Fresh seed for each session unless pinned
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		if err := tui.Run(game, store, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}

		// Loop back to menu
	}

	// Cleanup
	if store != nil {
		store.Close()
	}
}
