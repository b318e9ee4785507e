package playback

// ActiveLeg is the transient projection of a flight leg at a given virtual
// time. It is recomputed on every tick and never persisted. Item and order
// ids are the union across all timeline events sharing the same physical
// leg.
type ActiveLeg struct {
	FlightID      string   `json:"flightId"`
	FlightCode    string   `json:"flightCode,omitempty"`
	ItemIDs       []string `json:"itemIds,omitempty"`
	OrderIDs      []string `json:"orderIds,omitempty"`
	OriginID      string   `json:"originId"`
	DestinationID string   `json:"destinationId"`
	Progress      float64  `json:"progress"`
	CapacityMax   int      `json:"capacityMax"`
	Quantity      int      `json:"quantity"`
	DepartureTime int64    `json:"departureTime"`
	ArrivalTime   int64    `json:"arrivalTime"`
}

// Snapshot is the full projector output for one virtual instant.
type Snapshot struct {
	ActiveLegs        []ActiveLeg `json:"activeLegs"`
	CompletedCount    int         `json:"completedCount"`
	PendingCount      int         `json:"pendingCount"`
	MalformedCount    int         `json:"malformedCount"`
	CompletedOrderIDs []string    `json:"completedOrderIds,omitempty"`
}

// State is the playback status surfaced to presentation layers.
type State struct {
	IsPlaying       bool    `json:"isPlaying"`
	ElapsedSeconds  float64 `json:"elapsedSeconds"`
	ProgressPercent float64 `json:"progressPercent"`
}
