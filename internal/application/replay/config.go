package replay

import (
	"fmt"
	"time"

	"github.com/cargoreplay/cargoreplay/internal/core/constants"
)

// Config contains everything needed to replay a plan.
type Config struct {
	// Plan sources; a path takes precedence over a URL.
	TimelinePath string
	TimelineURL  string
	AirportsPath string
	AirportsURL  string

	// Playback settings.
	Speed        float64       // virtual seconds per real second
	TickInterval time.Duration // fixed re-evaluation period, speed-independent
	EventLogSize int

	// Business defaults, preserved from the original planning rules.
	DefaultTransitDays int

	// Path curvature for marker animation.
	Curvature float64

	// Cancellation authority endpoint; empty selects the local authority.
	AuthorityEndpoint string
}

// Validate fills defaults and rejects contradictory settings.
func (c *Config) Validate() error {
	if c.TimelinePath == "" && c.TimelineURL == "" {
		return fmt.Errorf("either a timeline file or a timeline URL is required")
	}
	if c.Speed == 0 {
		c.Speed = constants.DefaultSpeedFactor
	}
	if c.Speed < 0 {
		return fmt.Errorf("speed must be positive, got %v", c.Speed)
	}
	if c.TickInterval == 0 {
		c.TickInterval = constants.DefaultTickInterval
	}
	if c.TickInterval < time.Millisecond {
		return fmt.Errorf("tick interval %v is too small", c.TickInterval)
	}
	if c.EventLogSize == 0 {
		c.EventLogSize = constants.DefaultEventLogSize
	}
	if c.DefaultTransitDays == 0 {
		c.DefaultTransitDays = constants.DefaultTransitDays
	}
	if c.Curvature == 0 {
		c.Curvature = 0.2
	}
	return nil
}
