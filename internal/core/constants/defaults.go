package constants

import "time"

const (
	// Transit estimation when a departure has no matching arrival and no
	// declared duration. Preserved from the original planning rules.
	DefaultTransitDays = 7

	// Airport capacity defaults used when the directory omits them.
	DefaultUsedCapacity = 100
	DefaultMaxCapacity  = 360

	// Quantity assumed for a leg event that declares none.
	DefaultLegQuantity = 1

	// Playback tick period; independent of the speed factor.
	DefaultTickInterval = 100 * time.Millisecond

	// Virtual seconds advanced per real second when unset.
	DefaultSpeedFactor = 3600.0

	// Clock duration fallback when the timeline declares no bounds and has
	// no events to infer them from.
	DefaultDurationSeconds = float64(24 * 3600)

	// Event log retention.
	DefaultEventLogSize = 50
)
