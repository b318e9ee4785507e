package interaction

import (
	"testing"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want *KeyEvent
	}{
		{"plain char", []byte{'q'}, &KeyEvent{Key: 'q', Type: KeyChar}},
		{"space", []byte{' '}, &KeyEvent{Key: ' ', Type: KeyChar}},
		{"ctrl-c", []byte{3}, &KeyEvent{Key: 3, Type: KeyChar}},
		{"bare escape", []byte{27}, &KeyEvent{Key: 27, Type: KeyEscape}},
		{"left arrow", []byte{27, '[', 'D'}, &KeyEvent{Type: KeyLeft}},
		{"right arrow", []byte{27, '[', 'C'}, &KeyEvent{Type: KeyRight}},
		{"unknown escape sequence", []byte{27, '[', 'Z'}, nil},
		{"empty", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseInput(tt.buf)
			if tt.want == nil {
				if got != nil {
					t.Errorf("Expected nil, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("Expected event, got nil")
			}
			if got.Key != tt.want.Key || got.Type != tt.want.Type {
				t.Errorf("parseInput(%v) = %+v, want %+v", tt.buf, got, tt.want)
			}
		})
	}
}
