package replay

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	geo "github.com/paulmach/go.geo"

	"github.com/cargoreplay/cargoreplay/internal/core/constants"
	"github.com/cargoreplay/cargoreplay/internal/core/eventlog"
	"github.com/cargoreplay/cargoreplay/internal/core/geometry"
	"github.com/cargoreplay/cargoreplay/internal/core/model"
	"github.com/cargoreplay/cargoreplay/internal/core/playback"
	"github.com/cargoreplay/cargoreplay/internal/core/timeline"
	"github.com/cargoreplay/cargoreplay/internal/data/authority"
	"github.com/cargoreplay/cargoreplay/internal/util"
)

// Marker is the animated position of an active leg, in the airport
// directory's coordinate units.
type Marker struct {
	FlightID string  `json:"flightId"`
	X        float64 `json:"x"` // longitude
	Y        float64 `json:"y"` // latitude
	Bearing  float64 `json:"bearing"`
	Progress float64 `json:"progress"`
}

// Engine wires the playback clock, projector, reconciler, event log and
// capacity accounting into one replay session.
type Engine struct {
	cfg *Config

	mu           sync.RWMutex
	timeline     *model.Timeline
	airports     map[string]model.Airport
	baseAirports map[string]model.Airport
	legs         []timeline.FlightLeg
	lastSnapshot *playback.Snapshot
	capacityLog  []model.CapacityChangeEvent

	clock      *playback.Clock
	projector  *playback.Projector
	reconciler *playback.Reconciler
	log        *eventlog.Log
}

// NewEngine pairs the timeline into legs and assembles a stopped session.
func NewEngine(cfg *Config, tl *model.Timeline, airports map[string]model.Airport) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if airports == nil {
		airports = make(map[string]model.Airport)
	}

	legs := timeline.PairLegs(tl.Events)
	log := eventlog.NewLog(cfg.EventLogSize)
	projector := playback.NewProjector(legs, tl.StartTime, cfg.DefaultTransitDays)
	reconciler := playback.NewReconciler(legs, projector, authority.NewAuthority(cfg.AuthorityEndpoint), log)
	clock := playback.NewClock(tl.Duration(constants.DefaultDurationSeconds), cfg.Speed)

	e := &Engine{
		cfg:          cfg,
		timeline:     tl,
		airports:     airports,
		baseAirports: copyAirports(airports),
		legs:         legs,
		clock:      clock,
		projector:  projector,
		reconciler: reconciler,
		log:        log,
	}
	e.project()
	return e, nil
}

// Play resumes or starts playback.
func (e *Engine) Play() { e.clock.Play() }

// Pause halts the clock, keeping elapsed time.
func (e *Engine) Pause() { e.clock.Pause() }

// Reset rewinds to zero and clears the one-shot capacity bookkeeping so a
// replay re-emits every notification. Airport usage returns to its loaded
// baseline; re-emitted notifications re-apply against it.
func (e *Engine) Reset() {
	e.clock.Reset()
	e.projector.Reset()

	e.mu.Lock()
	e.capacityLog = nil
	e.airports = copyAirports(e.baseAirports)
	e.mu.Unlock()

	e.project()
}

// Seek jumps to a virtual offset and re-projects immediately, so the active
// set reflects the jump without replaying intermediate ticks.
func (e *Engine) Seek(seconds float64) {
	e.clock.Seek(seconds)
	e.project()
}

// SetSpeed adjusts the virtual-seconds-per-real-second factor.
func (e *Engine) SetSpeed(speed float64) { e.clock.SetSpeed(speed) }

// Clock exposes the playback clock for status queries.
func (e *Engine) Clock() *playback.Clock { return e.clock }

// Tick advances virtual time by realDt real seconds and re-evaluates the
// projection. Returns true once per run when the simulation completes.
func (e *Engine) Tick(realDt float64) (completed bool) {
	completed = e.clock.Advance(realDt)
	e.project()

	if completed {
		util.LogInfo("Simulation complete")
		e.log.Append(eventlog.Entry{
			ID:          uuid.NewString(),
			Category:    eventlog.CategorySystem,
			Message:     "Simulation complete",
			VirtualTime: e.clock.Elapsed(),
		})
	}
	return completed
}

// Cancel voids a flight instance at the current virtual time. The active
// set excludes the instance from the very next projection.
func (e *Engine) Cancel(ctx context.Context, instance model.InstanceID) (*authority.Decision, error) {
	decision, err := e.reconciler.Cancel(ctx, instance, e.clock.Elapsed())
	if err != nil {
		return decision, err
	}
	e.project()
	return decision, nil
}

// Reload swaps in a changed timeline. Legs are re-derived wholesale, never
// patched; playback bookkeeping restarts while cancellations survive.
func (e *Engine) Reload(tl *model.Timeline) {
	legs := timeline.PairLegs(tl.Events)

	e.mu.Lock()
	e.timeline = tl
	e.legs = legs
	e.capacityLog = nil
	e.mu.Unlock()

	e.projector.SetLegs(legs, tl.StartTime)
	e.reconciler.SetLegs(legs)
	e.project()

	util.LogInfof("Timeline reloaded: %d events, %d legs", len(tl.Events), len(legs))
}

// Snapshot returns the most recent projection.
func (e *Engine) Snapshot() *playback.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastSnapshot
}

// PlaybackState returns the transport status for presentation layers.
func (e *Engine) PlaybackState() playback.State {
	return e.clock.PlaybackState()
}

// EventLog exposes the bounded simulation log.
func (e *Engine) EventLog() *eventlog.Log { return e.log }

// CapacityEvents returns the notifications emitted so far this session, in
// emission order.
func (e *Engine) CapacityEvents() []model.CapacityChangeEvent {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]model.CapacityChangeEvent, len(e.capacityLog))
	copy(out, e.capacityLog)
	return out
}

// Airports returns the current capacity bookkeeping per airport.
func (e *Engine) Airports() map[string]model.Airport {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make(map[string]model.Airport, len(e.airports))
	for id, a := range e.airports {
		out[id] = a
	}
	return out
}

// Markers computes animated positions for the active legs whose airports
// have known coordinates.
func (e *Engine) Markers() []Marker {
	snap := e.Snapshot()
	if snap == nil {
		return nil
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	markers := make([]Marker, 0, len(snap.ActiveLegs))
	for _, leg := range snap.ActiveLegs {
		origin, ok1 := e.airports[leg.OriginID]
		dest, ok2 := e.airports[leg.DestinationID]
		if !ok1 || !ok2 {
			continue
		}
		p0 := geo.NewPoint(origin.Longitude, origin.Latitude)
		p2 := geo.NewPoint(dest.Longitude, dest.Latitude)
		p1 := geometry.ControlPoint(p0, p2, e.cfg.Curvature)

		pos := geometry.PointAt(leg.Progress, p0, p1, p2)
		markers = append(markers, Marker{
			FlightID: leg.FlightID,
			X:        pos.X(),
			Y:        pos.Y(),
			Bearing:  geometry.BearingAt(leg.Progress, p0, p1, p2),
			Progress: leg.Progress,
		})
	}
	return markers
}

// project re-evaluates the active set and applies any newly emitted
// capacity notifications to the airport bookkeeping and the event log.
func (e *Engine) project() {
	snap := e.projector.Project(e.clock.Elapsed())
	events := e.projector.DrainCapacityEvents()

	e.mu.Lock()
	e.lastSnapshot = snap
	for _, ev := range events {
		e.capacityLog = append(e.capacityLog, ev)
		e.applyCapacityLocked(ev)
	}
	start := int64(0)
	if e.timeline != nil {
		start = e.timeline.StartTime
	}
	e.mu.Unlock()

	for _, ev := range events {
		e.logCapacity(ev, start)
	}
}

// applyCapacityLocked adjusts an airport's used capacity. Departures free
// space at the origin; arrivals consume space at the destination. This is
// the engine's realization of the external capacity sink: fire-and-forget,
// no retries.
func (e *Engine) applyCapacityLocked(ev model.CapacityChangeEvent) {
	airport, ok := e.airports[ev.AirportID]
	if !ok {
		return
	}
	switch ev.Kind {
	case model.KindDeparture:
		airport.CurrentUsed -= ev.Quantity
		if airport.CurrentUsed < 0 {
			airport.CurrentUsed = 0
		}
	case model.KindArrival:
		airport.CurrentUsed += ev.Quantity
	}
	e.airports[ev.AirportID] = airport
}

func copyAirports(src map[string]model.Airport) map[string]model.Airport {
	out := make(map[string]model.Airport, len(src))
	for id, a := range src {
		out[id] = a
	}
	return out
}

func (e *Engine) logCapacity(ev model.CapacityChangeEvent, start int64) {
	category := eventlog.CategoryDeparture
	message := fmt.Sprintf("Flight %s departed %s with %d items", ev.FlightID, ev.AirportID, ev.Quantity)
	if ev.Kind == model.KindArrival {
		category = eventlog.CategoryArrival
		message = fmt.Sprintf("Flight %s arrived at %s with %d items", ev.FlightID, ev.AirportID, ev.Quantity)
	}
	e.log.Append(eventlog.Entry{
		ID:          fmt.Sprintf("capacity-%s-%s", ev.Kind, ev.FlightID),
		Category:    category,
		Message:     message,
		VirtualTime: float64(ev.Timestamp - start),
		AirportID:   ev.AirportID,
		FlightID:    ev.FlightID,
	})
}
