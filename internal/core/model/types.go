package model

// EventKind classifies a timeline event.
type EventKind string

const (
	KindDeparture EventKind = "DEPARTURE"
	KindArrival   EventKind = "ARRIVAL"
)

// TimelineEvent is one immutable row of the externally computed plan.
// Timestamps are absolute unix seconds, never virtual-clock-relative.
type TimelineEvent struct {
	ID            string    `json:"id"`
	Kind          EventKind `json:"kind"`
	Timestamp     int64     `json:"timestamp"`
	FlightID      string    `json:"flightId,omitempty"`
	FlightCode    string    `json:"flightCode,omitempty"`
	ItemID        string    `json:"itemId,omitempty"`
	OrderID       string    `json:"orderId,omitempty"`
	OriginID      string    `json:"originId,omitempty"`
	DestinationID string    `json:"destinationId,omitempty"`
	TransitDays   int       `json:"transitDays,omitempty"`
	CapacityMax   int       `json:"capacityMax,omitempty"`
	Quantity      int       `json:"quantity,omitempty"`
}

// Timeline is the full externally supplied plan. StartTime/EndTime bound the
// virtual clock; both are optional and fall back to the event range.
type Timeline struct {
	Events          []TimelineEvent `json:"events"`
	StartTime       int64           `json:"startTime"`
	EndTime         int64           `json:"endTime,omitempty"`
	DurationMinutes int             `json:"durationMinutes,omitempty"`
}

// Duration returns the virtual span of the timeline in seconds, resolved in
// order: declared end time, declared duration, min/max event timestamps,
// then a caller-supplied default.
func (t *Timeline) Duration(fallbackSeconds float64) float64 {
	if t.EndTime > t.StartTime {
		return float64(t.EndTime - t.StartTime)
	}
	if t.DurationMinutes > 0 {
		return float64(t.DurationMinutes) * 60
	}
	var min, max int64
	for _, ev := range t.Events {
		if min == 0 || ev.Timestamp < min {
			min = ev.Timestamp
		}
		if ev.Timestamp > max {
			max = ev.Timestamp
		}
	}
	if max > min && min > 0 {
		return float64(max - min)
	}
	return fallbackSeconds
}

// Airport is one row of the external airport directory.
type Airport struct {
	ID          string  `json:"id"`
	IATACode    string  `json:"iataCode"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	MaxCapacity int     `json:"maxCapacity"`
	CurrentUsed int     `json:"currentUsed"`
}

// CapacityChangeEvent is a one-shot notification that cargo left or entered
// an airport's storage. At most one is emitted per (flight, kind) pair for
// the lifetime of a playback session.
type CapacityChangeEvent struct {
	Kind      EventKind `json:"kind"`
	FlightID  string    `json:"flightId"`
	AirportID string    `json:"airportId"`
	ItemIDs   []string  `json:"itemIds,omitempty"`
	Quantity  int       `json:"quantity"`
	Timestamp int64     `json:"timestamp"`
}

// FileEvent describes a change to a watched plan file.
type FileEvent struct {
	Path      string
	Operation string
}
