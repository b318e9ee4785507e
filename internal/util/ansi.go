package util

// ANSI control sequences used by the live display.
const (
	ClearScreen    = "\033[2J"
	ClearLine      = "\033[2K"
	MoveCursorHome = "\033[H"
	HideCursor     = "\033[?25l"
	ShowCursor     = "\033[?25h"
	EnterAltScreen = "\033[?1049h"
	ExitAltScreen  = "\033[?1049l"

	Bold  = "\033[1m"
	Dim   = "\033[2m"
	Reset = "\033[0m"
)
