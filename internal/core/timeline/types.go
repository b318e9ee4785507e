package timeline

import (
	"github.com/cargoreplay/cargoreplay/internal/core/model"
)

// FlightLeg pairs a departure event with its matching arrival, when one
// exists. Legs are built once per timeline load and never mutated; a changed
// timeline is re-derived wholesale.
type FlightLeg struct {
	Departure     model.TimelineEvent
	Arrival       *model.TimelineEvent
	DepartureTime int64
}

// Key returns the grouping key of the physical flight occurrence.
func (l FlightLeg) Key() model.LegKey {
	return model.KeyFor(l.Departure)
}

// Instance returns the cancellation key for this leg.
func (l FlightLeg) Instance() model.InstanceID {
	return l.Key().Instance()
}

// EffectiveArrivalTime resolves the arrival timestamp: the real arrival when
// known, otherwise departure plus the declared transit days, otherwise
// departure plus defaultTransitDays.
func (l FlightLeg) EffectiveArrivalTime(defaultTransitDays int) int64 {
	if l.Arrival != nil {
		return l.Arrival.Timestamp
	}
	days := l.Departure.TransitDays
	if days <= 0 {
		days = defaultTransitDays
	}
	return l.DepartureTime + int64(days)*24*3600
}

// EstimatedArrival reports whether the arrival time is an estimate rather
// than a paired ARRIVAL event.
func (l FlightLeg) EstimatedArrival() bool {
	return l.Arrival == nil
}
