package replay

import (
	"context"
	"fmt"

	"github.com/cargoreplay/cargoreplay/internal/core/model"
	"github.com/cargoreplay/cargoreplay/internal/util"
)

// ScheduledCancellation voids a flight instance once virtual time reaches
// the given offset. Used by the headless runner to script mid-replay edits.
type ScheduledCancellation struct {
	Instance model.InstanceID
	At       float64 // virtual seconds since timeline start
}

// RunHeadless plays the whole plan tick by tick without sleeping between
// ticks, firing scheduled cancellations as their virtual time passes.
func (e *Engine) RunHeadless(ctx context.Context, cancellations []ScheduledCancellation) error {
	pending := append([]ScheduledCancellation(nil), cancellations...)

	tick := e.cfg.TickInterval.Seconds()
	e.Play()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		completed := e.Tick(tick)
		elapsed := e.clock.Elapsed()

		remaining := pending[:0]
		for _, sc := range pending {
			if sc.At > elapsed {
				remaining = append(remaining, sc)
				continue
			}
			if _, err := e.Cancel(ctx, sc.Instance); err != nil {
				util.LogWarn(fmt.Sprintf("Scheduled cancellation of %s failed: %v", sc.Instance, err))
			}
		}
		pending = remaining

		if completed {
			return nil
		}
	}
}
