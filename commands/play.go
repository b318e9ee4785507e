package commands

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/cargoreplay/cargoreplay/internal/application/replay"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Replay the plan interactively in the terminal",
	Long: `Runs the replay with a live terminal view: currently flying legs,
airport capacity changes and the simulation event log.

Transport controls:
  space      play / pause
  r          reset and replay from the start
  left/right seek by 5% of the plan duration
  + / -      double / halve the speed factor
  c          cancel the earliest currently flying leg
  q          quit`,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	initLogging()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	tl, airports, err := loadData(cfg)
	if err != nil {
		return err
	}

	engine, err := replay.NewEngine(cfg, tl, airports)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	return replay.NewOrchestrator(cfg, engine).Run(ctx)
}
