package authority

import (
	"context"

	"github.com/cargoreplay/cargoreplay/internal/core/model"
)

// LocalAuthority accepts every cancellation. Used for offline replays and
// demos where no planning backend is reachable.
type LocalAuthority struct{}

func NewLocalAuthority() *LocalAuthority {
	return &LocalAuthority{}
}

func (a *LocalAuthority) Cancel(ctx context.Context, instance model.InstanceID, atVirtualSeconds float64) (*Decision, error) {
	return &Decision{Accepted: true}, nil
}
