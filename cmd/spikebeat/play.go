package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/spikebeat/internal/core"
	"github.com/vovakirdan/spikebeat/internal/games/spikebeat"
	"github.com/vovakirdan/spikebeat/internal/levels"
	"github.com/vovakirdan/spikebeat/internal/platform/tui"
	"github.com/vovakirdan/spikebeat/internal/registry"
	"github.com/vovakirdan/spikebeat/internal/storage"
)

var (
	flagLevel   int
	flagEndless bool
	flagAudio   bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play spikebeat",
	Long: `Start on the level select, or straight into a level with --level.

Controls:
  Left/Right  - Choose a level
  Enter       - Start the level
  Space/Up    - Jump
  R           - Retry after a crash
  Esc         - Back to the level select (leaves from the level select)
  Ctrl+S      - Save a screenshot
  Q/Ctrl+C    - Quit

Difficulty options:
  easy   - Slower run speed
  normal - Config run speed
  hard   - Faster run speed and exact spike hitboxes
  fixed  - Every level at the first level's speed

Examples:
  spikebeat play
  spikebeat play --level 3
  spikebeat play --endless --difficulty hard
  spikebeat play --audio --levels ./my-levels`,
	Run: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", -1, "Level index to start immediately (see 'spikebeat levels')")
	playCmd.Flags().BoolVar(&flagEndless, "endless", false, "Endless mode: scrolling camera, levels never finish on distance")
	playCmd.Flags().BoolVar(&flagAudio, "audio", false, "Play music through the speaker (metronome when a level has none)")
}

// terminalConfig builds the runtime config from the terminal size and global flags.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

func runPlay(_ *cobra.Command, _ []string) {
	logger, closeLog := openLogFile()
	defer closeLog()
	setLoggers(logger)

	if flagLevel >= 0 {
		lvls, err := levels.Load(flagLevels)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading levels: %v\n", err)
			os.Exit(1)
		}
		if flagLevel >= len(lvls) {
			fmt.Fprintf(os.Stderr, "Error: no level %d (have %d)\n", flagLevel, len(lvls))
			fmt.Fprintln(os.Stderr, "Run 'spikebeat levels' to see available levels.")
			os.Exit(1)
		}
	}
	spikebeat.SetStartLevel(flagLevel)
	spikebeat.SetAudio(flagAudio)

	gameID := "spikebeat"
	if flagEndless {
		gameID = "spikebeat_endless"
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	// Open run history
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open run history: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	runErr := tui.Run(game, store, terminalConfig())

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
