package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cargoreplay/cargoreplay/internal/application/replay"
	"github.com/cargoreplay/cargoreplay/internal/core/model"
	"github.com/cargoreplay/cargoreplay/internal/data/loader"
	"github.com/cargoreplay/cargoreplay/internal/presentation/formatter"
	"github.com/cargoreplay/cargoreplay/internal/util"
)

var (
	// Logging related
	debug bool

	// Plan sources
	timelinePath string
	timelineURL  string
	airportsPath string
	airportsURL  string
	configPath   string

	// Playback settings
	speed      float64
	tickMillis int

	// Cancellation authority
	authorityEndpoint string

	// Headless replay options
	outputFormat string
	cancelFlight string
	cancelAt     string

	rootCmd = &cobra.Command{
		Use:   "cargoreplay [flags]",
		Short: "Replay a pre-computed air-cargo logistics plan",
		Long: `cargoreplay replays an externally optimized logistics plan (flight
departures and arrivals carrying shipments between airports) as a
time-scaled simulation.

The root command runs the whole plan headless and prints a report; use
"cargoreplay play" for the interactive terminal view.

Examples:
  cargoreplay --timeline plan.json                       # Replay and print a summary
  cargoreplay --timeline plan.json --airports airports.json --output json
  cargoreplay --timeline plan.json --speed 7200          # 2 virtual hours per second
  cargoreplay --timeline plan.json --cancel-flight F12 --cancel-at 2h
  cargoreplay play --timeline plan.json                  # Interactive replay`,
		RunE: runReplay,
	}
)

const defaultLogFile = "~/.cargoreplay/logs/app.log"

func init() {
	// Plan sources
	rootCmd.PersistentFlags().StringVar(&timelinePath, "timeline", "",
		"Path to the timeline document (JSON)")
	rootCmd.PersistentFlags().StringVar(&timelineURL, "timeline-url", "",
		"URL of the timeline document")
	rootCmd.PersistentFlags().StringVar(&airportsPath, "airports", "",
		"Path to the airport directory (JSON)")
	rootCmd.PersistentFlags().StringVar(&airportsURL, "airports-url", "",
		"URL of the airport directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Optional yaml config file")

	// Playback settings
	rootCmd.PersistentFlags().Float64Var(&speed, "speed", 0,
		"Virtual seconds advanced per real second (default 3600)")
	rootCmd.PersistentFlags().IntVar(&tickMillis, "tick", 0,
		"Re-evaluation tick period in milliseconds (default 100)")
	rootCmd.PersistentFlags().StringVar(&authorityEndpoint, "authority", "",
		"Cancellation authority endpoint (empty = accept locally)")

	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")

	// Headless replay options
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json)")
	rootCmd.Flags().StringVar(&cancelFlight, "cancel-flight", "",
		"Cancel this flight's first scheduled instance during the replay")
	rootCmd.Flags().StringVar(&cancelAt, "cancel-at", "0s",
		"Virtual offset at which the cancellation fires (e.g. 2h, 90m)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runReplay(cmd *cobra.Command, args []string) error {
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

	cancellations, err := scheduledCancellations(tl)
	if err != nil {
		return err
	}

	if err := engine.RunHeadless(cmd.Context(), cancellations); err != nil && err != context.Canceled {
		return fmt.Errorf("replay failed: %w", err)
	}

	report := &formatter.Report{
		EventCount:     len(tl.Events),
		State:          engine.PlaybackState(),
		Snapshot:       engine.Snapshot(),
		CapacityEvents: engine.CapacityEvents(),
		LogEntries:     engine.EventLog().Entries(),
	}
	if len(airports) > 0 {
		report.Airports = engine.Airports()
	}

	switch strings.ToLower(outputFormat) {
	case "json":
		out, err := formatter.FormatJSON(report)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
	case "table", "":
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTable(report))
	default:
		return fmt.Errorf("invalid output format %q: must be table or json", outputFormat)
	}
	return nil
}

// buildConfig merges flags over the optional config file.
func buildConfig() (*replay.Config, error) {
	cfg := &replay.Config{
		TimelinePath:      timelinePath,
		TimelineURL:       timelineURL,
		AirportsPath:      airportsPath,
		AirportsURL:       airportsURL,
		Speed:             speed,
		AuthorityEndpoint: authorityEndpoint,
	}
	if tickMillis > 0 {
		cfg.TickInterval = time.Duration(tickMillis) * time.Millisecond
	}

	fc, err := loadConfigFile(configPath)
	if err != nil {
		return nil, err
	}
	fc.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadData(cfg *replay.Config) (*model.Timeline, map[string]model.Airport, error) {
	var (
		tl  *model.Timeline
		err error
	)
	if cfg.TimelinePath != "" {
		tl, err = loader.LoadTimeline(cfg.TimelinePath)
	} else {
		tl, err = loader.FetchTimeline(cfg.TimelineURL)
	}
	if err != nil {
		return nil, nil, err
	}

	var airports map[string]model.Airport
	switch {
	case cfg.AirportsPath != "":
		airports, err = loader.LoadAirports(cfg.AirportsPath)
	case cfg.AirportsURL != "":
		airports, err = loader.FetchAirports(cfg.AirportsURL)
	}
	if err != nil {
		return nil, nil, err
	}
	return tl, airports, nil
}

// scheduledCancellations resolves the --cancel-flight flag against the
// timeline: the flight's first departure identifies the instance.
func scheduledCancellations(tl *model.Timeline) ([]replay.ScheduledCancellation, error) {
	if cancelFlight == "" {
		return nil, nil
	}

	at, err := time.ParseDuration(cancelAt)
	if err != nil {
		return nil, fmt.Errorf("invalid --cancel-at %q: %w", cancelAt, err)
	}

	for _, ev := range tl.Events {
		if ev.Kind == model.KindDeparture && ev.FlightID == cancelFlight {
			return []replay.ScheduledCancellation{{
				Instance: model.InstanceID{FlightID: ev.FlightID, DepartureTime: ev.Timestamp},
				At:       at.Seconds(),
			}}, nil
		}
	}
	return nil, fmt.Errorf("flight %q has no departure in the timeline", cancelFlight)
}

func initLogging() {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}
	logFile := expandPath(defaultLogFile)
	util.InitLogger(logLevel, logFile, debug)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
