// Package loader decodes the externally produced plan documents: the
// timeline of departure/arrival events and the airport directory.
package loader

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/bytedance/sonic"

	"github.com/cargoreplay/cargoreplay/internal/core/constants"
	"github.com/cargoreplay/cargoreplay/internal/core/model"
	"github.com/cargoreplay/cargoreplay/internal/util"
)

// timelineDocument is the wire form of a plan. Timestamps travel as
// RFC3339 strings and become unix seconds in memory.
type timelineDocument struct {
	Events          []eventRow `json:"events"`
	StartTime       string     `json:"startTime"`
	EndTime         string     `json:"endTime,omitempty"`
	DurationMinutes int        `json:"durationMinutes,omitempty"`
}

type eventRow struct {
	ID            string `json:"id"`
	Kind          string `json:"kind"`
	Timestamp     string `json:"timestamp"`
	FlightID      string `json:"flightId"`
	FlightCode    string `json:"flightCode"`
	ItemID        string `json:"itemId"`
	OrderID       string `json:"orderId"`
	OriginID      string `json:"originId"`
	DestinationID string `json:"destinationId"`
	TransitDays   int    `json:"transitDays"`
	CapacityMax   int    `json:"capacityMax"`
	Quantity      int    `json:"quantity"`
}

type airportRow struct {
	ID          string  `json:"id"`
	IATACode    string  `json:"iataCode"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	MaxCapacity int     `json:"maxCapacity"`
	CurrentUsed int     `json:"currentUsed"`
}

// LoadTimeline reads and decodes a plan file.
func LoadTimeline(path string) (*model.Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timeline file: %w", err)
	}
	return decodeTimeline(data)
}

// FetchTimeline pulls a plan document over HTTP.
func FetchTimeline(url string) (*model.Timeline, error) {
	data, err := fetch(url)
	if err != nil {
		return nil, err
	}
	return decodeTimeline(data)
}

func decodeTimeline(data []byte) (*model.Timeline, error) {
	var doc timelineDocument
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse timeline document: %w", err)
	}

	tl := &model.Timeline{
		DurationMinutes: doc.DurationMinutes,
	}
	if ts, err := time.Parse(time.RFC3339, doc.StartTime); err == nil {
		tl.StartTime = ts.Unix()
	}
	if doc.EndTime != "" {
		if ts, err := time.Parse(time.RFC3339, doc.EndTime); err == nil {
			tl.EndTime = ts.Unix()
		}
	}

	skipped := 0
	tl.Events = make([]model.TimelineEvent, 0, len(doc.Events))
	for _, row := range doc.Events {
		ts, err := time.Parse(time.RFC3339, row.Timestamp)
		if err != nil {
			skipped++
			continue
		}
		tl.Events = append(tl.Events, model.TimelineEvent{
			ID:            row.ID,
			Kind:          model.EventKind(row.Kind),
			Timestamp:     ts.Unix(),
			FlightID:      row.FlightID,
			FlightCode:    row.FlightCode,
			ItemID:        row.ItemID,
			OrderID:       row.OrderID,
			OriginID:      row.OriginID,
			DestinationID: row.DestinationID,
			TransitDays:   row.TransitDays,
			CapacityMax:   row.CapacityMax,
			Quantity:      row.Quantity,
		})
	}
	if skipped > 0 {
		util.LogWarnf("Skipped %d timeline rows with unparseable timestamps", skipped)
	}

	// An undeclared start falls back to the earliest event.
	if tl.StartTime == 0 {
		for _, ev := range tl.Events {
			if tl.StartTime == 0 || ev.Timestamp < tl.StartTime {
				tl.StartTime = ev.Timestamp
			}
		}
	}

	util.LogInfof("Loaded timeline with %d events", len(tl.Events))
	return tl, nil
}

// LoadAirports reads the airport directory, applying capacity defaults for
// rows that omit them.
func LoadAirports(path string) (map[string]model.Airport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read airport directory: %w", err)
	}
	return decodeAirports(data)
}

// FetchAirports pulls the airport directory over HTTP.
func FetchAirports(url string) (map[string]model.Airport, error) {
	data, err := fetch(url)
	if err != nil {
		return nil, err
	}
	return decodeAirports(data)
}

func decodeAirports(data []byte) (map[string]model.Airport, error) {
	var rows []airportRow
	if err := sonic.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse airport directory: %w", err)
	}

	airports := make(map[string]model.Airport, len(rows))
	for _, row := range rows {
		airport := model.Airport{
			ID:          row.ID,
			IATACode:    row.IATACode,
			Latitude:    row.Latitude,
			Longitude:   row.Longitude,
			MaxCapacity: row.MaxCapacity,
			CurrentUsed: row.CurrentUsed,
		}
		if airport.MaxCapacity <= 0 {
			airport.MaxCapacity = constants.DefaultMaxCapacity
		}
		if airport.CurrentUsed < 0 {
			airport.CurrentUsed = constants.DefaultUsedCapacity
		}
		airports[airport.ID] = airport
	}
	return airports, nil
}

func fetch(url string) ([]byte, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s returned status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
