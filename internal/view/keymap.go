package view

import (
	"fmt"
	"time"

	"karolbroda.com/lyricpane/internal/config"
)

const chordKey = "g"

// Chord is the two-key micro state. The zero value is idle; otherwise Key
// was pressed and a second press before Deadline completes the chord.
type Chord struct {
	Key      string
	Deadline time.Time
}

func (c Chord) Idle() bool { return c.Key == "" }

// Binding maps a single key press to its event. Keys use bubbletea's naming.
func Binding(key string, now time.Time) (Event, bool) {
	switch key {
	case "j", "down":
		return ScrollDown{}, true
	case "k", "up":
		return ScrollUp{}, true
	case "G", "end":
		return JumpBottom{}, true
	case "home":
		return JumpTop{}, true
	case "e":
		return EditRequested{}, true
	case "r":
		return RefreshRequested{}, true
	case "d":
		return DeleteAndRefetch{}, true
	case "n":
		return TransportCommand{Kind: TransportNext}, true
	case "p":
		return TransportCommand{Kind: TransportPrevious}, true
	case "t":
		return TransportCommand{Kind: TransportPlayPause}, true
	case "i":
		return ToggleAlbumArt{}, true
	case "h", "?":
		return ShowHelp{Now: now}, true
	case "q", "ctrl+c":
		return Quit{}, true
	}
	return nil, false
}

// Key feeds one key press through the chord state and applies the resulting
// event, if any. A key that breaks a pending chord is still dispatched on
// its own.
func Key(s State, key string, now time.Time) (State, []Effect) {
	if !s.Chord.Idle() {
		armed := s.Chord
		s.Chord = Chord{}
		if key == armed.Key && now.Before(armed.Deadline) {
			return Apply(s, JumpTop{})
		}
	}

	if key == chordKey {
		s.Chord = Chord{Key: key, Deadline: now.Add(config.ChordTimeout)}
		return s, nil
	}

	ev, ok := Binding(key, now)
	if !ok {
		return s, nil
	}
	return Apply(s, ev)
}

// Move translates a remote control direction into an event.
func Move(direction string) (Event, error) {
	switch direction {
	case "up":
		return ScrollUp{}, nil
	case "down":
		return ScrollDown{}, nil
	case "top":
		return JumpTop{}, nil
	case "bottom":
		return JumpBottom{}, nil
	}
	return nil, fmt.Errorf("unknown direction %q", direction)
}

// Help lists the key bindings for the help overlay.
func Help() [][2]string {
	return [][2]string{
		{"j / ↓", "scroll down"},
		{"k / ↑", "scroll up"},
		{"gg", "jump to top"},
		{"G", "jump to bottom"},
		{"e", "edit lyrics"},
		{"r", "refresh"},
		{"d", "delete and refetch lyrics"},
		{"n / p", "next / previous track"},
		{"t", "play / pause"},
		{"i", "toggle album art"},
		{"h", "show this help"},
		{"q", "quit"},
	}
}
