package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/cargoreplay/cargoreplay/internal/core/model"
	"github.com/cargoreplay/cargoreplay/internal/core/playback"
	"github.com/cargoreplay/cargoreplay/internal/data/loader"
	"github.com/cargoreplay/cargoreplay/internal/monitoring"
	"github.com/cargoreplay/cargoreplay/internal/presentation/display"
	"github.com/cargoreplay/cargoreplay/internal/presentation/interaction"
	"github.com/cargoreplay/cargoreplay/internal/util"
)

// uiRefreshInterval is how often the live view redraws; the simulation
// itself re-evaluates on the engine's tick interval.
const uiRefreshInterval = 200 * time.Millisecond

// Orchestrator coordinates the interactive replay: engine ticks, display
// refreshes, plan file reloads and keyboard transport controls.
type Orchestrator struct {
	cfg     *Config
	engine  *Engine
	display *display.TerminalDisplay

	keyboard *interaction.KeyboardReader
	watcher  *monitoring.FileWatcher
}

func NewOrchestrator(cfg *Config, engine *Engine) *Orchestrator {
	return &Orchestrator{
		cfg:     cfg,
		engine:  engine,
		display: display.NewTerminalDisplay(),
	}
}

// Run starts the interactive main loop and blocks until quit.
func (o *Orchestrator) Run(ctx context.Context) error {
	util.LogInfo("Starting interactive replay")

	keyboard, err := interaction.NewKeyboardReader()
	if err != nil {
		return fmt.Errorf("failed to initialize keyboard: %w", err)
	}
	o.keyboard = keyboard
	defer o.keyboard.Close()

	if o.cfg.TimelinePath != "" {
		watcher, err := monitoring.NewFileWatcher([]string{o.cfg.TimelinePath})
		if err != nil {
			return fmt.Errorf("failed to watch timeline file: %w", err)
		}
		o.watcher = watcher
		defer o.watcher.Close()
	}

	o.display.EnterAlternateScreen()
	defer o.display.ExitAlternateScreen()

	simTicker := time.NewTicker(o.cfg.TickInterval)
	defer simTicker.Stop()

	uiTicker := time.NewTicker(uiRefreshInterval)
	defer uiTicker.Stop()

	o.engine.Play()
	o.render()

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Shutting down interactive replay")
			return nil

		case <-simTicker.C:
			// Fixed-period advance; drift under heavy throttling is an
			// accepted limitation, not a fault.
			o.engine.Tick(o.cfg.TickInterval.Seconds())

		case <-uiTicker.C:
			o.render()

		case event := <-o.watcherEvents():
			o.handleFileChange(event)

		case keyEvent := <-o.keyboard.Events():
			if o.handleKeyboard(ctx, keyEvent) {
				return nil
			}
			o.render()
		}
	}
}

// watcherEvents tolerates running without a watcher (URL-sourced plans).
func (o *Orchestrator) watcherEvents() <-chan model.FileEvent {
	if o.watcher == nil {
		return nil
	}
	return o.watcher.Events()
}

func (o *Orchestrator) handleFileChange(event model.FileEvent) {
	util.LogDebugf("Plan file changed: %s (%s)", event.Path, event.Operation)

	tl, err := loader.LoadTimeline(event.Path)
	if err != nil {
		util.LogErrorf("Failed to reload timeline: %v", err)
		return
	}
	o.engine.Reload(tl)
}

// handleKeyboard applies one transport command; returns true to exit.
func (o *Orchestrator) handleKeyboard(ctx context.Context, event interaction.KeyEvent) bool {
	clock := o.engine.Clock()

	switch event.Type {
	case interaction.KeyLeft:
		o.engine.Seek(clock.Elapsed() - clock.Duration()*0.05)
	case interaction.KeyRight:
		o.engine.Seek(clock.Elapsed() + clock.Duration()*0.05)
	case interaction.KeyEscape:
		return true
	case interaction.KeyChar:
		switch event.Key {
		case 'q', 'Q', 3: // 'q', 'Q', or Ctrl+C
			return true
		case ' ':
			if clock.State() == playback.Playing {
				o.engine.Pause()
			} else {
				o.engine.Play()
			}
		case 'r', 'R':
			o.engine.Reset()
			o.engine.Play()
		case '+', '=':
			o.engine.SetSpeed(clock.Speed() * 2)
		case '-', '_':
			o.engine.SetSpeed(clock.Speed() / 2)
		case 'c', 'C':
			o.cancelFirstActive(ctx)
		}
	}
	return false
}

// cancelFirstActive voids the earliest currently flying leg, the one at the
// top of the live table.
func (o *Orchestrator) cancelFirstActive(ctx context.Context) {
	snap := o.engine.Snapshot()
	if snap == nil || len(snap.ActiveLegs) == 0 {
		return
	}
	leg := snap.ActiveLegs[0]
	instance := model.InstanceID{FlightID: leg.FlightID, DepartureTime: leg.DepartureTime}

	if _, err := o.engine.Cancel(ctx, instance); err != nil {
		util.LogErrorf("Cancellation of %s failed: %v", instance, err)
	}
}

func (o *Orchestrator) render() {
	clock := o.engine.Clock()

	markers := make(map[string]display.MarkerRow)
	for _, m := range o.engine.Markers() {
		markers[m.FlightID] = display.MarkerRow{
			FlightID: m.FlightID,
			X:        m.X,
			Y:        m.Y,
			Bearing:  m.Bearing,
		}
	}

	o.display.Render(&display.View{
		ClockState: clock.State().String(),
		Speed:      clock.Speed(),
		Duration:   clock.Duration(),
		State:      o.engine.PlaybackState(),
		Snapshot:   o.engine.Snapshot(),
		Markers:    markers,
		Events:     o.engine.EventLog().Entries(),
	})
}
