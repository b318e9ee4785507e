package timeline

import (
	"testing"

	"github.com/cargoreplay/cargoreplay/internal/core/model"
	"github.com/cargoreplay/cargoreplay/internal/testing/fixtures"
)

func TestPairLegs(t *testing.T) {
	events := fixtures.Timeline(6*3600,
		fixtures.Leg("F1", "10", "20", fixtures.Start+3600, fixtures.Start+5*3600, 12, "5"),
	).Events

	legs := PairLegs(events)
	if len(legs) != 1 {
		t.Fatalf("Expected 1 leg, got %d", len(legs))
	}
	leg := legs[0]
	if leg.Departure.FlightID != "F1" {
		t.Errorf("Expected flight F1, got %s", leg.Departure.FlightID)
	}
	if leg.Arrival == nil {
		t.Fatal("Expected matched arrival")
	}
	if leg.EstimatedArrival() {
		t.Error("Matched arrival reported as estimated")
	}
	if got := leg.EffectiveArrivalTime(7); got != fixtures.Start+5*3600 {
		t.Errorf("Expected real arrival time, got %d", got)
	}
}

func TestPairLegsMissingArrival(t *testing.T) {
	dep := fixtures.DepartureOnly("F2", "10", "30", fixtures.Start, 3, 4)

	legs := PairLegs([]model.TimelineEvent{dep})
	if len(legs) != 1 {
		t.Fatalf("Expected 1 leg, got %d", len(legs))
	}
	leg := legs[0]
	if leg.Arrival != nil {
		t.Fatal("Expected nil arrival")
	}
	if !leg.EstimatedArrival() {
		t.Error("Unmatched departure not reported as estimated")
	}
	if got := leg.EffectiveArrivalTime(7); got != fixtures.Start+3*24*3600 {
		t.Errorf("Expected departure + 3 transit days, got %d", got)
	}

	// Without declared transit days the default applies.
	leg.Departure.TransitDays = 0
	if got := leg.EffectiveArrivalTime(7); got != fixtures.Start+7*24*3600 {
		t.Errorf("Expected departure + 7 default days, got %d", got)
	}
}

func TestPairLegsDuplicateArrivalLastWins(t *testing.T) {
	events := []model.TimelineEvent{
		{ID: "d1", Kind: model.KindDeparture, Timestamp: 100, FlightID: "F1", OriginID: "10", DestinationID: "20"},
		{ID: "a1", Kind: model.KindArrival, Timestamp: 200, FlightID: "F1"},
		{ID: "a2", Kind: model.KindArrival, Timestamp: 300, FlightID: "F1"},
	}

	legs := PairLegs(events)
	if len(legs) != 1 {
		t.Fatalf("Expected 1 leg, got %d", len(legs))
	}
	if legs[0].Arrival == nil || legs[0].Arrival.Timestamp != 300 {
		t.Errorf("Expected last arrival (ts 300) to win, got %+v", legs[0].Arrival)
	}
}

func TestPairLegsSortedByDeparture(t *testing.T) {
	events := []model.TimelineEvent{
		{ID: "d2", Kind: model.KindDeparture, Timestamp: 500, FlightID: "F2", OriginID: "10", DestinationID: "20"},
		{ID: "d1", Kind: model.KindDeparture, Timestamp: 100, FlightID: "F1", OriginID: "10", DestinationID: "20"},
	}

	legs := PairLegs(events)
	if len(legs) != 2 {
		t.Fatalf("Expected 2 legs, got %d", len(legs))
	}
	if legs[0].Departure.FlightID != "F1" || legs[1].Departure.FlightID != "F2" {
		t.Errorf("Legs not ordered by departure time: %s, %s",
			legs[0].Departure.FlightID, legs[1].Departure.FlightID)
	}
}

func TestPairLegsIgnoresNonDepartures(t *testing.T) {
	events := []model.TimelineEvent{
		{ID: "a1", Kind: model.KindArrival, Timestamp: 200, FlightID: "F1"},
	}
	if legs := PairLegs(events); len(legs) != 0 {
		t.Errorf("Expected no legs from arrivals alone, got %d", len(legs))
	}
}

func TestMerge(t *testing.T) {
	a := []model.TimelineEvent{
		{ID: "e1", Timestamp: 300},
		{ID: "e2", Timestamp: 100},
	}
	b := []model.TimelineEvent{
		{ID: "e2", Timestamp: 100}, // duplicate, dropped
		{ID: "e3", Timestamp: 200},
	}

	merged := Merge(a, b)
	if len(merged) != 3 {
		t.Fatalf("Expected 3 events after dedup, got %d", len(merged))
	}
	want := []string{"e2", "e3", "e1"}
	for i, id := range want {
		if merged[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, merged[i].ID)
		}
	}
}

func TestLegKeys(t *testing.T) {
	dep := model.TimelineEvent{
		Kind: model.KindDeparture, Timestamp: 100,
		FlightID: "F1", OriginID: "10", DestinationID: "20",
	}
	leg := FlightLeg{Departure: dep, DepartureTime: 100}

	key := leg.Key()
	if key.FlightID != "F1" || key.DepartureTime != 100 || key.OriginID != "10" || key.DestinationID != "20" {
		t.Errorf("Unexpected leg key: %+v", key)
	}

	inst := leg.Instance()
	if inst.FlightID != "F1" || inst.DepartureTime != 100 {
		t.Errorf("Unexpected instance id: %+v", inst)
	}
	if inst.String() != "F1@100" {
		t.Errorf("Unexpected instance string: %s", inst.String())
	}
}
