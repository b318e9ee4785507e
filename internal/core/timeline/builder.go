package timeline

import (
	"fmt"
	"sort"

	"github.com/cargoreplay/cargoreplay/internal/core/model"
	"github.com/cargoreplay/cargoreplay/internal/util"
)

// PairLegs derives one FlightLeg per DEPARTURE event by matching it to the
// ARRIVAL event sharing its flight id. Arrivals are indexed last-write-wins:
// flight ids are expected unique per physical occurrence within one
// timeline, so duplicates are an accepted edge case, not an error.
// Departures with no arrival keep a nil Arrival; callers fall back to an
// estimated arrival via EffectiveArrivalTime.
func PairLegs(events []model.TimelineEvent) []FlightLeg {
	arrivals := make(map[string]model.TimelineEvent)
	for _, ev := range events {
		if ev.Kind == model.KindArrival && ev.FlightID != "" {
			arrivals[ev.FlightID] = ev
		}
	}

	legs := make([]FlightLeg, 0, len(events)/2)
	for _, ev := range events {
		if ev.Kind != model.KindDeparture {
			continue
		}
		leg := FlightLeg{
			Departure:     ev,
			DepartureTime: ev.Timestamp,
		}
		if arr, ok := arrivals[ev.FlightID]; ok {
			a := arr
			leg.Arrival = &a
		} else {
			util.LogDebug(fmt.Sprintf("No arrival event for flight %s, arrival will be estimated", ev.FlightID))
		}
		legs = append(legs, leg)
	}

	sort.SliceStable(legs, func(i, j int) bool {
		return legs[i].DepartureTime < legs[j].DepartureTime
	})
	return legs
}

// SortEvents orders events by timestamp, keeping the input order for ties.
func SortEvents(events []model.TimelineEvent) []model.TimelineEvent {
	sorted := make([]model.TimelineEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})
	return sorted
}

// Merge combines event fragments into one chronological list, dropping rows
// whose id was already seen. Used when a plan arrives in multiple documents.
func Merge(fragments ...[]model.TimelineEvent) []model.TimelineEvent {
	var total int
	for _, f := range fragments {
		total += len(f)
	}

	seen := make(map[string]bool, total)
	merged := make([]model.TimelineEvent, 0, total)
	for _, f := range fragments {
		for _, ev := range f {
			if ev.ID != "" && seen[ev.ID] {
				continue
			}
			seen[ev.ID] = true
			merged = append(merged, ev)
		}
	}
	return SortEvents(merged)
}
