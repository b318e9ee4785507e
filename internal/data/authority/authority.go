// Package authority talks to the external system that must acknowledge a
// flight cancellation before any local replay state is mutated.
package authority

import (
	"context"

	"github.com/cargoreplay/cargoreplay/internal/core/model"
)

// Decision is the authority's verdict on a cancellation request.
type Decision struct {
	Accepted                  bool   `json:"accepted"`
	QuantityAffected          int    `json:"quantityAffected"`
	OriginCode                string `json:"originCode,omitempty"`
	DestinationCode           string `json:"destinationCode,omitempty"`
	ReoptimizationRecommended bool   `json:"reoptimizationRecommended"`
	Reason                    string `json:"reason,omitempty"`
}

// Authority decides whether a flight instance may be cancelled. There is no
// internal retry policy; resubmission is the caller's responsibility.
type Authority interface {
	Cancel(ctx context.Context, instance model.InstanceID, atVirtualSeconds float64) (*Decision, error)
}

// NewAuthority selects an implementation: a remote endpoint when a URL is
// configured, otherwise the always-accepting local authority.
func NewAuthority(endpoint string) Authority {
	if endpoint != "" {
		return NewHTTPAuthority(endpoint)
	}
	return NewLocalAuthority()
}
