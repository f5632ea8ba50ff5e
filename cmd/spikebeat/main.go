// spikebeat is a rhythm runner for the terminal: a block runs to the beat
// and spikes spawn on every beat of the music.
//
// Usage:
//
//	spikebeat levels          - List the levels
//	spikebeat play            - Play, starting on the level select
//	spikebeat menu            - Pick a mode or browse the run history
//	spikebeat serve           - Start SSH server for remote play
//	spikebeat history [mode]  - Show the run history
//	spikebeat sim             - Run a level headless with scripted jumps
//
// Global flags:
//
//	--fps <rate>           - Set tick rate (default: 60)
//	--seed <value>         - Set RNG seed for reproducible runs
//	--db <path>            - Set database path (default: ~/.spikebeat/runs.db)
//	--config <path>        - Custom config YAML
//	--levels <dir>         - Directory of level files replacing the built-ins
//	--difficulty <preset>  - easy, normal, hard, fixed
//	--log <path>           - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/spikebeat/internal/games/spikebeat"
	"github.com/vovakirdan/spikebeat/internal/platform/tui"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagLevels     string
	flagDifficulty string
	flagLog        string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "spikebeat",
	Short: "Spikebeat - a rhythm runner in your terminal",
	Long: `Spikebeat is a terminal rhythm runner. Your block runs on its own;
spikes spawn on every beat of the level's music and you jump to clear them.

Available commands:
  levels   - Show the levels
  play     - Play directly
  menu     - Pick a mode or browse the run history
  serve    - Start SSH server for remote play
  history  - Show the run history
  sim      - Run a level headless with a scripted jump cadence

Examples:
  spikebeat levels
  spikebeat play --level 2
  spikebeat play --endless --audio
  spikebeat serve --ssh :2222
  spikebeat sim --level 0 --jump-every 24`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		applyGameSettings()
		return nil
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.spikebeat/runs.db", "Path to run history database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLevels, "levels", "", "Directory of level files (default: built-in levels)")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLog, "log", "", "Write logs to this file")

	// Add subcommands
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(simCmd)
}

// applyGameSettings hands the global flags to the runner before any mode is created.
func applyGameSettings() {
	spikebeat.SetConfigPath(flagConfig)
	spikebeat.SetLevelsDir(flagLevels)
	spikebeat.SetDifficultyPreset(flagDifficulty)
}

// openLogFile builds the logger for interactive commands. The terminal is
// owned by Bubble Tea, so logs go to --log or nowhere.
func openLogFile() (*log.Logger, func()) {
	if flagLog == "" {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(flagLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		return log.New(io.Discard), func() {}
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "spikebeat",
		Level:           log.DebugLevel,
	})
	//nolint:errcheck // Best-effort close on exit
	return logger, func() { f.Close() }
}

// stderrLogger is used by commands that keep the terminal for plain output.
func stderrLogger(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
}

// setLoggers points the runner and the terminal host at one logger.
func setLoggers(l *log.Logger) {
	spikebeat.SetLogger(l)
	tui.SetLogger(l)
}
