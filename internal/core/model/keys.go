package model

import "fmt"

// LegKey identifies one physical flight occurrence. Multiple timeline rows
// (one per shipment item) can share a key; they collapse into a single
// visual leg. Equality is field-wise, not string concatenation, so ids
// containing separator characters cannot collide.
type LegKey struct {
	FlightID      string
	DepartureTime int64
	OriginID      string
	DestinationID string
}

// InstanceID is the stable identifier of a scheduled flight occurrence,
// used as the cancellation key.
type InstanceID struct {
	FlightID      string
	DepartureTime int64
}

func (id InstanceID) String() string {
	return fmt.Sprintf("%s@%d", id.FlightID, id.DepartureTime)
}

// Instance returns the cancellation key for a leg key.
func (k LegKey) Instance() InstanceID {
	return InstanceID{FlightID: k.FlightID, DepartureTime: k.DepartureTime}
}

// KeyFor derives the grouping key of a departure event.
func KeyFor(ev TimelineEvent) LegKey {
	return LegKey{
		FlightID:      ev.FlightID,
		DepartureTime: ev.Timestamp,
		OriginID:      ev.OriginID,
		DestinationID: ev.DestinationID,
	}
}
