package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/cargoreplay/cargoreplay/internal/util"
)

// FormatTable renders the report as aligned text sections.
func FormatTable(r *Report) string {
	var b strings.Builder

	b.WriteString("Replay summary\n")
	b.WriteString(fmt.Sprintf("  Timeline events:  %d\n", r.EventCount))
	if r.Snapshot != nil {
		b.WriteString(fmt.Sprintf("  Legs completed:   %d\n", r.Snapshot.CompletedCount))
		b.WriteString(fmt.Sprintf("  Legs pending:     %d\n", r.Snapshot.PendingCount))
		b.WriteString(fmt.Sprintf("  Legs malformed:   %d\n", r.Snapshot.MalformedCount))
		b.WriteString(fmt.Sprintf("  Orders completed: %d\n", len(r.Snapshot.CompletedOrderIDs)))
	}
	b.WriteString(fmt.Sprintf("  Virtual time:     %s (%s)\n",
		util.FormatVirtualTime(r.State.ElapsedSeconds), util.FormatPercent(r.State.ProgressPercent)))

	if len(r.CapacityEvents) > 0 {
		b.WriteString("\nCapacity events\n")
		b.WriteString(row("KIND", "FLIGHT", "AIRPORT", "QTY", "AT"))
		for _, ev := range r.CapacityEvents {
			b.WriteString(row(string(ev.Kind), ev.FlightID, ev.AirportID,
				fmt.Sprintf("%d", ev.Quantity), util.FormatTimestamp(ev.Timestamp)))
		}
	}

	if len(r.Airports) > 0 {
		ids := make([]string, 0, len(r.Airports))
		for id := range r.Airports {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		b.WriteString("\nAirport capacity\n")
		b.WriteString(row("AIRPORT", "IATA", "USED", "MAX", ""))
		for _, id := range ids {
			a := r.Airports[id]
			b.WriteString(row(a.ID, a.IATACode,
				fmt.Sprintf("%d", a.CurrentUsed), fmt.Sprintf("%d", a.MaxCapacity), ""))
		}
	}

	if len(r.LogEntries) > 0 {
		b.WriteString("\nEvent log (newest first)\n")
		for _, e := range r.LogEntries {
			b.WriteString(fmt.Sprintf("  %s [%s] %s\n",
				util.FormatVirtualTime(e.VirtualTime), e.Category, e.Message))
		}
	}

	return b.String()
}

func row(cols ...string) string {
	widths := []int{12, 10, 10, 7, 18}
	var b strings.Builder
	b.WriteString("  ")
	for i, col := range cols {
		w := 10
		if i < len(widths) {
			w = widths[i]
		}
		b.WriteString(runewidth.FillRight(runewidth.Truncate(col, w-1, "…"), w))
	}
	b.WriteString("\n")
	return b.String()
}
