package authority

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargoreplay/cargoreplay/internal/core/model"
)

var testInstance = model.InstanceID{FlightID: "F1", DepartureTime: 1735779600}

func TestLocalAuthorityAccepts(t *testing.T) {
	decision, err := NewLocalAuthority().Cancel(context.Background(), testInstance, 7200)
	require.NoError(t, err)
	assert.True(t, decision.Accepted)
}

func TestNewAuthoritySelection(t *testing.T) {
	assert.IsType(t, &LocalAuthority{}, NewAuthority(""))
	assert.IsType(t, &HTTPAuthority{}, NewAuthority("http://planner.local/cancel"))
}

func TestHTTPAuthorityCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req cancelRequest
		require.NoError(t, sonic.Unmarshal(body, &req))
		assert.Equal(t, "F1", req.FlightID)
		assert.Equal(t, testInstance.DepartureTime, req.DepartureTime)
		assert.Equal(t, 7200.0, req.AtVirtualSeconds)

		w.Write([]byte(`{"accepted": true, "quantityAffected": 40, "reoptimizationRecommended": true}`))
	}))
	defer srv.Close()

	decision, err := NewHTTPAuthority(srv.URL).Cancel(context.Background(), testInstance, 7200)
	require.NoError(t, err)
	assert.True(t, decision.Accepted)
	assert.Equal(t, 40, decision.QuantityAffected)
	assert.True(t, decision.ReoptimizationRecommended)
}

func TestHTTPAuthorityRefusal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"accepted": false, "reason": "flight already airborne"}`))
	}))
	defer srv.Close()

	decision, err := NewHTTPAuthority(srv.URL).Cancel(context.Background(), testInstance, 0)
	require.NoError(t, err)
	assert.False(t, decision.Accepted)
	assert.Equal(t, "flight already airborne", decision.Reason)
}

func TestHTTPAuthorityBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewHTTPAuthority(srv.URL).Cancel(context.Background(), testInstance, 0)
	assert.ErrorContains(t, err, "status 500")
}

func TestHTTPAuthorityUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewHTTPAuthority(srv.URL).Cancel(context.Background(), testInstance, 0)
	assert.ErrorContains(t, err, "unreachable")
}
