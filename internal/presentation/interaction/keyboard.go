// Package interaction reads transport-control keys while the terminal is
// in raw mode.
package interaction

import (
	"os"

	"golang.org/x/term"
)

// KeyType represents the type of key pressed
type KeyType int

const (
	KeyChar KeyType = iota
	KeyEscape
	KeyLeft
	KeyRight
)

// KeyEvent represents a keyboard event
type KeyEvent struct {
	Key  rune
	Type KeyType
}

// KeyboardReader handles keyboard input in raw mode
type KeyboardReader struct {
	oldState *term.State
	input    chan KeyEvent
	stop     chan struct{}
}

// NewKeyboardReader switches stdin to raw mode and starts reading.
func NewKeyboardReader() (*KeyboardReader, error) {
	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return nil, err
	}

	kr := &KeyboardReader{
		oldState: oldState,
		input:    make(chan KeyEvent, 10),
		stop:     make(chan struct{}),
	}
	go kr.readInput()
	return kr, nil
}

func (kr *KeyboardReader) readInput() {
	buf := make([]byte, 3)

	for {
		select {
		case <-kr.stop:
			return
		default:
			n, err := os.Stdin.Read(buf)
			if err != nil || n == 0 {
				continue
			}

			event := parseInput(buf[:n])
			if event == nil {
				continue
			}
			select {
			case kr.input <- *event:
			case <-kr.stop:
				return
			}
		}
	}
}

func parseInput(buf []byte) *KeyEvent {
	if len(buf) == 0 {
		return nil
	}

	if buf[0] == 3 { // Ctrl+C
		return &KeyEvent{Key: 3, Type: KeyChar}
	}

	if buf[0] == 27 { // ESC
		if len(buf) == 1 {
			return &KeyEvent{Key: 27, Type: KeyEscape}
		}
		if len(buf) >= 3 && buf[1] == '[' {
			switch buf[2] {
			case 'D':
				return &KeyEvent{Type: KeyLeft}
			case 'C':
				return &KeyEvent{Type: KeyRight}
			}
		}
		return nil
	}

	return &KeyEvent{Key: rune(buf[0]), Type: KeyChar}
}

// Events returns the keyboard event channel
func (kr *KeyboardReader) Events() <-chan KeyEvent {
	return kr.input
}

// Close stops the reader and restores the terminal.
func (kr *KeyboardReader) Close() error {
	close(kr.stop)
	return term.Restore(int(os.Stdin.Fd()), kr.oldState)
}
