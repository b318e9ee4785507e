package loader

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargoreplay/cargoreplay/internal/core/model"
)

const timelineJSON = `{
  "startTime": "2025-01-02T00:00:00Z",
  "endTime": "2025-01-02T06:00:00Z",
  "events": [
    {
      "id": "e1",
      "kind": "DEPARTURE",
      "timestamp": "2025-01-02T01:00:00Z",
      "flightId": "F1",
      "flightCode": "CR101",
      "itemId": "item-1",
      "orderId": "5",
      "originId": "10",
      "destinationId": "20",
      "quantity": 12
    },
    {
      "id": "e2",
      "kind": "ARRIVAL",
      "timestamp": "2025-01-02T05:00:00Z",
      "flightId": "F1"
    },
    {
      "id": "e3",
      "kind": "DEPARTURE",
      "timestamp": "not-a-timestamp",
      "flightId": "F2"
    }
  ]
}`

const airportsJSON = `[
  {"id": "10", "iataCode": "HKG", "latitude": 22.3, "longitude": 113.9, "maxCapacity": 500, "currentUsed": 120},
  {"id": "20", "iataCode": "ANC", "latitude": 61.2, "longitude": -149.9},
  {"id": "30", "iataCode": "LEJ", "latitude": 51.4, "longitude": 12.2, "currentUsed": -1}
]`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTimeline(t *testing.T) {
	tl, err := LoadTimeline(writeFile(t, "plan.json", timelineJSON))
	require.NoError(t, err)

	assert.Equal(t, int64(1735776000), tl.StartTime)
	assert.Equal(t, int64(1735776000+6*3600), tl.EndTime)
	assert.Equal(t, 6*3600.0, tl.Duration(0))

	// The unparseable row is skipped, not fatal.
	require.Len(t, tl.Events, 2)

	dep := tl.Events[0]
	assert.Equal(t, model.KindDeparture, dep.Kind)
	assert.Equal(t, "F1", dep.FlightID)
	assert.Equal(t, "CR101", dep.FlightCode)
	assert.Equal(t, tl.StartTime+3600, dep.Timestamp)
	assert.Equal(t, 12, dep.Quantity)

	arr := tl.Events[1]
	assert.Equal(t, model.KindArrival, arr.Kind)
	assert.Equal(t, tl.StartTime+5*3600, arr.Timestamp)
}

func TestLoadTimelineStartFallsBackToEarliestEvent(t *testing.T) {
	doc := `{
  "events": [
    {"id": "e1", "kind": "DEPARTURE", "timestamp": "2025-01-02T03:00:00Z", "flightId": "F1"},
    {"id": "e2", "kind": "DEPARTURE", "timestamp": "2025-01-02T01:00:00Z", "flightId": "F2"}
  ]
}`
	tl, err := LoadTimeline(writeFile(t, "plan.json", doc))
	require.NoError(t, err)
	assert.Equal(t, int64(1735776000+3600), tl.StartTime)
}

func TestLoadTimelineErrors(t *testing.T) {
	_, err := LoadTimeline(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadTimeline(writeFile(t, "bad.json", "{not json"))
	assert.Error(t, err)
}

func TestLoadAirports(t *testing.T) {
	airports, err := LoadAirports(writeFile(t, "airports.json", airportsJSON))
	require.NoError(t, err)
	require.Len(t, airports, 3)

	hkg := airports["10"]
	assert.Equal(t, "HKG", hkg.IATACode)
	assert.Equal(t, 500, hkg.MaxCapacity)
	assert.Equal(t, 120, hkg.CurrentUsed)

	// Missing capacity figures fall back to the planning defaults.
	anc := airports["20"]
	assert.Equal(t, 360, anc.MaxCapacity)
	assert.Equal(t, 0, anc.CurrentUsed)

	lej := airports["30"]
	assert.Equal(t, 100, lej.CurrentUsed)
}

func TestFetchTimeline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(timelineJSON))
	}))
	defer srv.Close()

	tl, err := FetchTimeline(srv.URL)
	require.NoError(t, err)
	assert.Len(t, tl.Events, 2)
}

func TestFetchRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := FetchAirports(srv.URL)
	assert.ErrorContains(t, err, "status 404")
}
