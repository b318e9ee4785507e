// Package fixtures builds small timelines for tests.
package fixtures

import (
	"fmt"

	"github.com/cargoreplay/cargoreplay/internal/core/model"
)

// Start is 2025-01-02T00:00:00Z, the reference instant used across tests.
const Start int64 = 1735776000

// Leg returns a matched departure/arrival event pair for one flight.
func Leg(flightID, origin, dest string, dep, arr int64, qty int, orderID string) []model.TimelineEvent {
	return []model.TimelineEvent{
		{
			ID:            fmt.Sprintf("%s-dep", flightID),
			Kind:          model.KindDeparture,
			Timestamp:     dep,
			FlightID:      flightID,
			OriginID:      origin,
			DestinationID: dest,
			OrderID:       orderID,
			ItemID:        fmt.Sprintf("item-%s", flightID),
			Quantity:      qty,
		},
		{
			ID:            fmt.Sprintf("%s-arr", flightID),
			Kind:          model.KindArrival,
			Timestamp:     arr,
			FlightID:      flightID,
			OriginID:      origin,
			DestinationID: dest,
		},
	}
}

// DepartureOnly returns a departure with no matching arrival.
func DepartureOnly(flightID, origin, dest string, dep int64, transitDays, qty int) model.TimelineEvent {
	return model.TimelineEvent{
		ID:            fmt.Sprintf("%s-dep", flightID),
		Kind:          model.KindDeparture,
		Timestamp:     dep,
		FlightID:      flightID,
		OriginID:      origin,
		DestinationID: dest,
		TransitDays:   transitDays,
		Quantity:      qty,
	}
}

// Timeline assembles event groups into a plan starting at Start.
func Timeline(endOffsetSeconds int64, groups ...[]model.TimelineEvent) *model.Timeline {
	tl := &model.Timeline{
		StartTime: Start,
		EndTime:   Start + endOffsetSeconds,
	}
	for _, g := range groups {
		tl.Events = append(tl.Events, g...)
	}
	return tl
}
