package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/spikebeat/internal/core"
	"github.com/vovakirdan/spikebeat/internal/games/spikebeat"
	"github.com/vovakirdan/spikebeat/internal/storage"
)

var (
	flagSimLevel    int
	flagSimEndless  bool
	flagJumpEvery   int
	flagSimSeconds  float64
	flagSimAttempts int
	flagRealtime    bool
	flagRecord      bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a level headless with a scripted jump cadence",
	Long: `Runs a level without a terminal UI. The player jumps every N ticks and
retries after each crash until the attempt or time limit is reached.
With the same --seed the output is identical between runs.

Examples:
  spikebeat sim
  spikebeat sim --level 2 --jump-every 20 --attempts 5
  spikebeat sim --endless --seconds 120 --seed 42
  spikebeat sim --realtime --record`,
	Run: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimLevel, "level", 0, "Level index")
	simCmd.Flags().BoolVar(&flagSimEndless, "endless", false, "Use the endless mode")
	simCmd.Flags().IntVar(&flagJumpEvery, "jump-every", 24, "Jump every N ticks (0 = never)")
	simCmd.Flags().Float64Var(&flagSimSeconds, "seconds", 60, "Simulated time limit in seconds")
	simCmd.Flags().IntVar(&flagSimAttempts, "attempts", 1, "Stop after this many finished attempts")
	simCmd.Flags().BoolVar(&flagRealtime, "realtime", false, "Pace ticks on the wall clock")
	simCmd.Flags().BoolVar(&flagRecord, "record", false, "Save finished attempts to the run history")
}

func runSim(_ *cobra.Command, _ []string) {
	logger := stderrLogger("spikebeat-sim")
	setLoggers(logger)
	spikebeat.SetStartLevel(flagSimLevel)
	spikebeat.SetAudio(false)

	game := spikebeat.New()
	if flagSimEndless {
		game = spikebeat.NewEndless()
	}

	seed := flagSeed
	if seed == 0 {
		seed = 1 // sim is reproducible by default
	}
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: flagFPS, Seed: seed}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	game.Reset(cfg)
	defer game.Close()

	var store *storage.Store
	if flagRecord {
		var err error
		store, err = storage.Open(flagDBPath)
		if err != nil {
			logger.Warn("could not open run history", "error", err)
		} else {
			defer store.Close()
		}
	}

	maxTicks := int(flagSimSeconds * float64(cfg.TickRate))
	ticks, finished := 0, 0

	step := func(float64) bool {
		in := core.NewInputFrame()
		switch game.State().Phase {
		case spikebeat.StateDead.String():
			in.Set(core.ActionRestart)
		case spikebeat.StateHome.String():
			in.Set(core.ActionConfirm)
		}
		if flagJumpEvery > 0 && ticks%flagJumpEvery == 0 {
			in.Set(core.ActionJump)
		}

		res := game.Step(in)
		for _, o := range res.Outcomes {
			fmt.Printf("%-8.2fs  %-20s  attempt %-3d  %-9s  %3.0f%%  %.2fs\n",
				float64(ticks)/float64(cfg.TickRate), o.Level, o.Attempt, o.Outcome, o.Progress, o.Duration)
			if store != nil {
				if _, err := store.SaveRun(game.ID(), o); err != nil {
					logger.Warn("could not save run", "error", err)
				}
			}
			finished++
		}

		ticks++
		return ticks < maxTicks && finished < flagSimAttempts
	}

	if flagRealtime {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := spikebeat.NewLoop().Run(ctx, cfg.TickRate, step); err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	} else {
		for step(cfg.TickSeconds()) {
		}
	}

	run := game.Driver().Run()
	fmt.Println()
	fmt.Printf("Ticks:     %d (%.2fs)\n", ticks, float64(ticks)/float64(cfg.TickRate))
	fmt.Printf("Level:     %s\n", run.Level().Name)
	fmt.Printf("Finished:  %d\n", finished)
	fmt.Printf("Progress:  %.0f%%\n", run.Progress())
	fmt.Printf("Beats:     %d\n", run.Beat().Count())
	fmt.Printf("Spawned:   %d spikes\n", run.Field().Spawned())
}
