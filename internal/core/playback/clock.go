package playback

import (
	"sync"

	"github.com/cargoreplay/cargoreplay/internal/core/constants"
)

// ClockState is the playback clock's state machine position.
type ClockState int

const (
	Stopped ClockState = iota
	Playing
	Paused
)

func (s ClockState) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Clock owns virtual elapsed time. It is purely logical: the caller drives
// it from a fixed-period ticker by calling Advance with the real seconds
// that passed, and the clock scales them by the speed factor. The clock has
// no notion of flight cancellation; it only plays, pauses and seeks.
type Clock struct {
	mu       sync.RWMutex
	state    ClockState
	elapsed  float64 // virtual seconds since timeline start
	speed    float64 // virtual seconds per real second
	duration float64 // total virtual seconds
}

// NewClock creates a stopped clock covering duration virtual seconds.
func NewClock(duration, speed float64) *Clock {
	if duration <= 0 {
		duration = constants.DefaultDurationSeconds
	}
	if speed <= 0 {
		speed = constants.DefaultSpeedFactor
	}
	return &Clock{state: Stopped, speed: speed, duration: duration}
}

// Play starts or resumes playback. A clock stopped at the end of its run
// rewinds to zero first, so replaying a finished simulation works without
// an explicit reset.
func (c *Clock) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Stopped && c.elapsed >= c.duration {
		c.elapsed = 0
	}
	c.state = Playing
}

// Pause halts the clock, retaining elapsed time.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Playing {
		c.state = Paused
	}
}

// Reset stops the clock and rewinds to zero. One-shot notification
// bookkeeping lives in the Projector; callers reset both together.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = Stopped
	c.elapsed = 0
}

// Seek jumps to the given virtual offset, clamped to [0, duration]. The
// play/pause state is preserved; the caller re-projects immediately so the
// active set reflects the jump without replaying intermediate ticks.
func (c *Clock) Seek(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seconds < 0 {
		seconds = 0
	}
	if seconds > c.duration {
		seconds = c.duration
	}
	c.elapsed = seconds
}

// SetSpeed updates the speed factor. Non-positive values are ignored.
func (c *Clock) SetSpeed(speed float64) {
	if speed <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.speed = speed
}

// Advance moves the clock forward by realDt real seconds while playing.
// Returns true exactly once per run, when elapsed reaches the duration and
// the clock auto-stops.
func (c *Clock) Advance(realDt float64) (completed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Playing || realDt <= 0 {
		return false
	}
	c.elapsed += realDt * c.speed
	if c.elapsed >= c.duration {
		c.elapsed = c.duration
		c.state = Stopped
		return true
	}
	return false
}

func (c *Clock) State() ClockState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Clock) Elapsed() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.elapsed
}

func (c *Clock) Duration() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.duration
}

func (c *Clock) Speed() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.speed
}

// PlaybackState returns the status surfaced to presentation layers.
func (c *Clock) PlaybackState() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	percent := 0.0
	if c.duration > 0 {
		percent = c.elapsed / c.duration * 100
	}
	return State{
		IsPlaying:       c.state == Playing,
		ElapsedSeconds:  c.elapsed,
		ProgressPercent: percent,
	}
}
