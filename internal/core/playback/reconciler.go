package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/cargoreplay/cargoreplay/internal/core/constants"
	"github.com/cargoreplay/cargoreplay/internal/core/eventlog"
	"github.com/cargoreplay/cargoreplay/internal/core/model"
	"github.com/cargoreplay/cargoreplay/internal/core/timeline"
	"github.com/cargoreplay/cargoreplay/internal/data/authority"
	"github.com/cargoreplay/cargoreplay/internal/util"
)

// Structured rejections for cancellation commands. These are reported back
// to the caller, never raised as a crash.
var (
	ErrNotFound         = errors.New("flight instance not found in timeline")
	ErrAlreadyCancelled = errors.New("flight instance already cancelled")
	ErrRejected         = errors.New("cancellation rejected by authority")
)

// Reconciler applies destructive edits to a running replay. It sits beside
// the Projector: cancelling a leg filters it out of every later projection
// and propagates quantity reductions to downstream legs that were relying
// on the cancelled shipment having arrived.
//
// Local state is only mutated after the external authority acknowledges the
// cancellation; a refused or failed remote call leaves the replay untouched.
type Reconciler struct {
	mu        sync.Mutex
	legs      []timeline.FlightLeg
	projector *Projector
	authority authority.Authority
	log       *eventlog.Log
}

func NewReconciler(legs []timeline.FlightLeg, projector *Projector, auth authority.Authority, log *eventlog.Log) *Reconciler {
	return &Reconciler{
		legs:      legs,
		projector: projector,
		authority: auth,
		log:       log,
	}
}

// SetLegs swaps in a re-derived leg list after a timeline reload.
func (r *Reconciler) SetLegs(legs []timeline.FlightLeg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.legs = legs
}

// Cancel voids a flight instance at the given virtual time. Downstream legs
// departing the cancelled destination with an intersecting order set
// accumulate a quantity reduction; a leg reduced to zero disappears
// entirely. Re-optimization is only ever a recommendation passed through
// from the authority, never performed here.
func (r *Reconciler) Cancel(ctx context.Context, instance model.InstanceID, atVirtualSeconds float64) (*authority.Decision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := r.findInstance(instance)
	if len(matched) == 0 {
		return nil, ErrNotFound
	}
	if r.projector.IsCancelled(instance) {
		return nil, ErrAlreadyCancelled
	}

	decision, err := r.authority.Cancel(ctx, instance, atVirtualSeconds)
	if err != nil {
		return nil, fmt.Errorf("cancellation of %s failed: %w", instance, err)
	}
	if !decision.Accepted {
		return decision, fmt.Errorf("%w: %s", ErrRejected, decision.Reason)
	}

	r.projector.MarkCancelled(instance)

	orders := make(map[string]bool)
	quantity := 0
	destination := ""
	for _, leg := range matched {
		ev := leg.Departure
		if ev.OrderID != "" {
			orders[ev.OrderID] = true
		}
		qty := ev.Quantity
		if qty <= 0 {
			qty = constants.DefaultLegQuantity
		}
		quantity += qty
		destination = ev.DestinationID
	}
	if decision.QuantityAffected > 0 {
		quantity = decision.QuantityAffected
	}

	reduced := r.propagateReductions(instance, destination, orders, quantity)
	util.LogInfo(fmt.Sprintf("Cancelled flight %s: %d items freed, %d downstream legs reduced", instance, quantity, reduced))

	message := fmt.Sprintf("Flight %s cancelled (%s -> %s), %d items affected",
		instance.FlightID, matched[0].Departure.OriginID, destination, quantity)
	if decision.ReoptimizationRecommended {
		message += "; re-optimization recommended"
	}
	r.log.Append(eventlog.Entry{
		ID:          uuid.NewString(),
		Category:    eventlog.CategoryCancellation,
		Message:     message,
		VirtualTime: atVirtualSeconds,
		AirportID:   matched[0].Departure.OriginID,
		FlightID:    instance.FlightID,
	})

	return decision, nil
}

// findInstance returns every leg belonging to the instance; one physical
// flight may appear once per shipment item riding it.
func (r *Reconciler) findInstance(instance model.InstanceID) []timeline.FlightLeg {
	var matched []timeline.FlightLeg
	for _, leg := range r.legs {
		if leg.Instance() == instance {
			matched = append(matched, leg)
		}
	}
	return matched
}

// propagateReductions charges the freed quantity against every future
// departure from the cancelled destination that carries one of the
// cancelled orders. Returns the number of distinct legs affected.
func (r *Reconciler) propagateReductions(cancelled model.InstanceID, destination string, orders map[string]bool, quantity int) int {
	if destination == "" || len(orders) == 0 || quantity <= 0 {
		return 0
	}

	affected := make(map[model.InstanceID]bool)
	for _, leg := range r.legs {
		ev := leg.Departure
		if ev.OriginID != destination || leg.DepartureTime <= cancelled.DepartureTime {
			continue
		}
		if ev.OrderID == "" || !orders[ev.OrderID] {
			continue
		}
		downstream := leg.Instance()
		if downstream == cancelled || affected[downstream] {
			continue
		}
		affected[downstream] = true
		r.projector.AddReduction(downstream, quantity)
	}
	return len(affected)
}
