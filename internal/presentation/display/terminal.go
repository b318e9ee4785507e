// Package display renders the live replay view on an alternate terminal
// screen.
package display

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/cargoreplay/cargoreplay/internal/core/eventlog"
	"github.com/cargoreplay/cargoreplay/internal/core/playback"
	"github.com/cargoreplay/cargoreplay/internal/util"
)

// MarkerRow is the animated position of one active leg.
type MarkerRow struct {
	FlightID string
	X, Y     float64
	Bearing  float64
}

// View is everything the display needs for one frame. The orchestrator
// assembles it; the display holds no engine reference.
type View struct {
	ClockState string
	Speed      float64
	Duration   float64
	State      playback.State
	Snapshot   *playback.Snapshot
	Markers    map[string]MarkerRow
	Events     []eventlog.Entry
}

type TerminalDisplay struct {
	inAlternateScreen bool
}

func NewTerminalDisplay() *TerminalDisplay {
	return &TerminalDisplay{}
}

// EnterAlternateScreen switches to the alternate screen buffer.
func (td *TerminalDisplay) EnterAlternateScreen() {
	if !td.inAlternateScreen {
		fmt.Print(util.EnterAltScreen)
		fmt.Print(util.ClearScreen)
		fmt.Print(util.MoveCursorHome)
		fmt.Print(util.HideCursor)
		td.inAlternateScreen = true
	}
}

// ExitAlternateScreen returns to the normal screen buffer.
func (td *TerminalDisplay) ExitAlternateScreen() {
	if td.inAlternateScreen {
		fmt.Print(util.ClearScreen)
		fmt.Print(util.MoveCursorHome)
		fmt.Print(util.ShowCursor)
		fmt.Print(util.ExitAltScreen)
		td.inAlternateScreen = false
	}
}

// Render draws one frame.
func (td *TerminalDisplay) Render(v *View) {
	width := terminalWidth()
	var b strings.Builder

	b.WriteString(util.MoveCursorHome)

	writeLine(&b, width, fmt.Sprintf("%scargoreplay%s  %s  %s / %s  (%s, %s)",
		util.Bold, util.Reset,
		strings.ToUpper(v.ClockState),
		util.FormatVirtualTime(v.State.ElapsedSeconds),
		util.FormatVirtualTime(v.Duration),
		util.FormatPercent(v.State.ProgressPercent),
		util.FormatSpeed(v.Speed)))
	writeLine(&b, width, progressBar(v.State.ProgressPercent, width-2))

	if snap := v.Snapshot; snap != nil {
		writeLine(&b, width, fmt.Sprintf("In flight: %d   Pending: %d   Completed: %d   Malformed: %d",
			len(snap.ActiveLegs), snap.PendingCount, snap.CompletedCount, snap.MalformedCount))
		writeLine(&b, width, "")
		writeLine(&b, width, util.Bold+pad("FLIGHT", 10)+pad("ROUTE", 14)+pad("PROGRESS", 10)+pad("QTY", 6)+pad("POSITION", 22)+util.Reset)

		for _, leg := range snap.ActiveLegs {
			position := ""
			if m, ok := v.Markers[leg.FlightID]; ok {
				position = fmt.Sprintf("%.3f,%.3f @%.0f°", m.X, m.Y, m.Bearing)
			}
			writeLine(&b, width,
				pad(displayFlight(leg.FlightID, leg.FlightCode), 10)+
					pad(leg.OriginID+" > "+leg.DestinationID, 14)+
					pad(util.FormatPercent(leg.Progress*100), 10)+
					pad(fmt.Sprintf("%d", leg.Quantity), 6)+
					pad(position, 22))
		}
	}

	writeLine(&b, width, "")
	writeLine(&b, width, util.Bold+"Recent events"+util.Reset)
	events := v.Events
	if len(events) > 8 {
		events = events[:8]
	}
	for _, e := range events {
		writeLine(&b, width, fmt.Sprintf("%s %s[%s]%s %s",
			util.FormatVirtualTime(e.VirtualTime), util.Dim, e.Category, util.Reset, e.Message))
	}

	writeLine(&b, width, "")
	writeLine(&b, width, util.Dim+"space play/pause   r reset   ←/→ seek   +/- speed   c cancel first leg   q quit"+util.Reset)

	fmt.Print(b.String())
}

func displayFlight(id, code string) string {
	if code != "" {
		return code
	}
	return id
}

func progressBar(percent float64, width int) string {
	if width < 10 {
		width = 10
	}
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

func writeLine(b *strings.Builder, width int, line string) {
	b.WriteString(util.ClearLine)
	b.WriteString(runewidth.Truncate(line, width, "…"))
	b.WriteString("\r\n")
}

func pad(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width-1, "…"), width)
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
		return w
	}
	return 100
}
