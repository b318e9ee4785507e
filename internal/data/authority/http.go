package authority

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cargoreplay/cargoreplay/internal/core/model"
)

// cancelRequest is the wire form of a cancellation request.
type cancelRequest struct {
	FlightID         string  `json:"flightId"`
	DepartureTime    int64   `json:"departureTime"`
	AtVirtualSeconds float64 `json:"atVirtualSeconds"`
}

// HTTPAuthority posts cancellation requests to a remote planning endpoint.
type HTTPAuthority struct {
	endpoint   string
	httpClient *http.Client
}

func NewHTTPAuthority(endpoint string) *HTTPAuthority {
	return &HTTPAuthority{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (a *HTTPAuthority) Cancel(ctx context.Context, instance model.InstanceID, atVirtualSeconds float64) (*Decision, error) {
	payload, err := sonic.Marshal(cancelRequest{
		FlightID:         instance.FlightID,
		DepartureTime:    instance.DepartureTime,
		AtVirtualSeconds: atVirtualSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode cancellation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build cancellation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cancellation authority unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cancellation authority returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read authority response: %w", err)
	}

	var decision Decision
	if err := sonic.Unmarshal(body, &decision); err != nil {
		return nil, fmt.Errorf("failed to parse authority response: %w", err)
	}
	return &decision, nil
}
