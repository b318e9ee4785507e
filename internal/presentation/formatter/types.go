package formatter

import (
	"github.com/cargoreplay/cargoreplay/internal/core/eventlog"
	"github.com/cargoreplay/cargoreplay/internal/core/model"
	"github.com/cargoreplay/cargoreplay/internal/core/playback"
)

// Report summarizes a finished headless replay.
type Report struct {
	EventCount     int                         `json:"eventCount"`
	State          playback.State              `json:"state"`
	Snapshot       *playback.Snapshot          `json:"snapshot"`
	CapacityEvents []model.CapacityChangeEvent `json:"capacityEvents"`
	LogEntries     []eventlog.Entry            `json:"logEntries"`
	Airports       map[string]model.Airport    `json:"airports,omitempty"`
}
