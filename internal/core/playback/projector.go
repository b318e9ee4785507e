package playback

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cargoreplay/cargoreplay/internal/core/constants"
	"github.com/cargoreplay/cargoreplay/internal/core/model"
	"github.com/cargoreplay/cargoreplay/internal/core/timeline"
	"github.com/cargoreplay/cargoreplay/internal/util"
)

// processedKey gates exactly-once capacity emission per flight and phase.
type processedKey struct {
	FlightID string
	Kind     model.EventKind
}

// legGroup collapses all timeline events describing the same physical
// flight into one visual leg.
type legGroup struct {
	key         model.LegKey
	flightCode  string
	itemIDs     map[string]bool
	orderIDs    map[string]bool
	quantity    int
	capacityMax int
	arrival     int64
	estimated   bool
}

// Projector derives the set of in-progress flights for a virtual instant.
// The whole active set is rebuilt from scratch on every call; timeline
// sizes are bounded (hundreds of legs), so correctness never depends on
// incremental update order. Capacity notifications are queued internally
// and drained by the caller after each tick, which keeps their ordering and
// idempotency independently testable.
type Projector struct {
	mu                 sync.Mutex
	legs               []timeline.FlightLeg
	start              int64
	defaultTransitDays int

	processed  map[processedKey]bool
	cancelled  map[model.InstanceID]bool
	reductions map[model.InstanceID]int
	pending    []model.CapacityChangeEvent
}

// NewProjector creates a projector over the paired legs of a timeline
// starting at the given unix time.
func NewProjector(legs []timeline.FlightLeg, start int64, defaultTransitDays int) *Projector {
	p := &Projector{
		defaultTransitDays: defaultTransitDays,
		processed:          make(map[processedKey]bool),
		cancelled:          make(map[model.InstanceID]bool),
		reductions:         make(map[model.InstanceID]int),
	}
	p.SetLegs(legs, start)
	return p
}

// SetLegs swaps in a wholesale re-derived leg list, e.g. after the plan
// file changed. Notification bookkeeping is cleared; cancellation state is
// business state and survives.
func (p *Projector) SetLegs(legs []timeline.FlightLeg, start int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.legs = legs
	p.start = start
	p.processed = make(map[processedKey]bool)
	p.pending = p.pending[:0]
}

// Project computes the snapshot for elapsed virtual seconds since timeline
// start. Safe to call repeatedly for the same instant: capacity events are
// only queued the first time a leg is seen in each phase.
func (p *Projector) Project(elapsed float64) *Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := float64(p.start) + elapsed
	snap := &Snapshot{}
	completedOrders := make(map[string]bool)

	for _, g := range p.groupLegs() {
		instance := g.key.Instance()
		if p.cancelled[instance] {
			continue
		}

		quantity := g.quantity - p.reductions[instance]
		if quantity <= 0 {
			// Fully consumed by an upstream cancellation; hidden rather
			// than shown with zero capacity.
			continue
		}

		departure := float64(g.key.DepartureTime)
		arrival := float64(g.arrival)

		switch {
		case arrival <= now:
			snap.CompletedCount++
			for order := range g.orderIDs {
				completedOrders[order] = true
			}
			p.queueCapacity(g, model.KindArrival, g.key.DestinationID, quantity, g.arrival)

		case departure <= now:
			if g.key.OriginID == "" || g.key.DestinationID == "" {
				snap.MalformedCount++
				util.LogWarn(fmt.Sprintf("Skipping malformed leg %s: missing origin or destination airport", instance))
				continue
			}
			p.queueCapacity(g, model.KindDeparture, g.key.OriginID, quantity, g.key.DepartureTime)

			progress := (now - departure) / (arrival - departure)
			if progress < 0 {
				progress = 0
			}
			if progress > 1 {
				progress = 1
			}
			snap.ActiveLegs = append(snap.ActiveLegs, ActiveLeg{
				FlightID:      g.key.FlightID,
				FlightCode:    g.flightCode,
				ItemIDs:       sortedKeys(g.itemIDs),
				OrderIDs:      sortedKeys(g.orderIDs),
				OriginID:      g.key.OriginID,
				DestinationID: g.key.DestinationID,
				Progress:      progress,
				CapacityMax:   g.capacityMax,
				Quantity:      quantity,
				DepartureTime: g.key.DepartureTime,
				ArrivalTime:   g.arrival,
			})

		default:
			snap.PendingCount++
		}
	}

	sort.Slice(snap.ActiveLegs, func(i, j int) bool {
		a, b := snap.ActiveLegs[i], snap.ActiveLegs[j]
		if a.DepartureTime != b.DepartureTime {
			return a.DepartureTime < b.DepartureTime
		}
		return a.FlightID < b.FlightID
	})
	snap.CompletedOrderIDs = sortedKeys(completedOrders)
	return snap
}

// DrainCapacityEvents returns and clears the queued one-shot capacity
// notifications, in emission order.
func (p *Projector) DrainCapacityEvents() []model.CapacityChangeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.pending) == 0 {
		return nil
	}
	out := make([]model.CapacityChangeEvent, len(p.pending))
	copy(out, p.pending)
	p.pending = p.pending[:0]
	return out
}

// Reset clears the one-shot notification bookkeeping so a replay re-emits
// capacity events. Cancellation records are kept: a cancelled flight stays
// cancelled across replays of the same plan.
func (p *Projector) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processed = make(map[processedKey]bool)
	p.pending = p.pending[:0]
}

// MarkCancelled excludes the flight instance from all future projections.
func (p *Projector) MarkCancelled(instance model.InstanceID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelled[instance] = true
}

// IsCancelled reports whether the instance was previously cancelled.
func (p *Projector) IsCancelled(instance model.InstanceID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancelled[instance]
}

// AddReduction subtracts quantity from the instance's displayed load. The
// reduction accumulates across cancellations; when it meets the declared
// quantity the leg disappears from projections.
func (p *Projector) AddReduction(instance model.InstanceID, quantity int) {
	if quantity <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reductions[instance] += quantity
}

// Reduction returns the accumulated reduction for an instance.
func (p *Projector) Reduction(instance model.InstanceID) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reductions[instance]
}

// queueCapacity appends a capacity notification unless one was already
// emitted for this flight and kind in the current playback session.
func (p *Projector) queueCapacity(g *legGroup, kind model.EventKind, airportID string, quantity int, at int64) {
	key := processedKey{FlightID: g.key.FlightID, Kind: kind}
	if p.processed[key] || airportID == "" {
		return
	}
	p.processed[key] = true
	p.pending = append(p.pending, model.CapacityChangeEvent{
		Kind:      kind,
		FlightID:  g.key.FlightID,
		AirportID: airportID,
		ItemIDs:   sortedKeys(g.itemIDs),
		Quantity:  quantity,
		Timestamp: at,
	})
}

// groupLegs merges legs sharing a physical flight occurrence. Item and
// order ids become unions, quantities sum (one item per event when
// undeclared), and the capacity maximum takes the largest declared value.
func (p *Projector) groupLegs() []*legGroup {
	groups := make(map[model.LegKey]*legGroup)
	order := make([]model.LegKey, 0, len(p.legs))

	for _, leg := range p.legs {
		key := leg.Key()
		g, ok := groups[key]
		if !ok {
			g = &legGroup{
				key:       key,
				itemIDs:   make(map[string]bool),
				orderIDs:  make(map[string]bool),
				arrival:   leg.EffectiveArrivalTime(p.defaultTransitDays),
				estimated: leg.EstimatedArrival(),
			}
			groups[key] = g
			order = append(order, key)
		}
		ev := leg.Departure
		if g.flightCode == "" {
			g.flightCode = ev.FlightCode
		}
		if ev.ItemID != "" {
			g.itemIDs[ev.ItemID] = true
		}
		if ev.OrderID != "" {
			g.orderIDs[ev.OrderID] = true
		}
		qty := ev.Quantity
		if qty <= 0 {
			qty = constants.DefaultLegQuantity
		}
		g.quantity += qty
		if ev.CapacityMax > g.capacityMax {
			g.capacityMax = ev.CapacityMax
		}
	}

	out := make([]*legGroup, 0, len(order))
	for _, key := range order {
		out = append(out, groups[key])
	}
	return out
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
