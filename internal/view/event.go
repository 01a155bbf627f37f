package view

import (
	"time"

	"karolbroda.com/lyricpane/internal/cache"
	"karolbroda.com/lyricpane/internal/track"
)

// Event is anything that can change the viewer. The set is closed.
type Event interface{ isEvent() }

type (
	TrackChanged struct{ Track track.Info }

	// LyricsLoaded reports the outcome of a LoadTrack, Refetch or Reload
	// effect. Err is only set when the cache itself failed.
	LyricsLoaded struct {
		Track track.Info
		Entry cache.Entry
		Err   error
	}

	// ArtFetched carries the stored album art of Track once it is on disk.
	ArtFetched struct {
		Track track.Info
		Path  string
	}

	TerminalResized struct{ Rows, Cols int }

	ScrollDown       struct{}
	ScrollUp         struct{}
	JumpTop          struct{}
	JumpBottom       struct{}
	ToggleAlbumArt   struct{}
	RefreshRequested struct{}
	DeleteAndRefetch struct{}
	EditRequested    struct{}

	EditorClosed struct{ Err error }

	TransportCommand struct{ Kind TransportKind }

	ShowHelp struct{ Now time.Time }

	Tick struct{ Now time.Time }

	Quit struct{}

	StatusMessage struct{ Text string }
)

func (TrackChanged) isEvent()     {}
func (LyricsLoaded) isEvent()     {}
func (ArtFetched) isEvent()       {}
func (TerminalResized) isEvent()  {}
func (ScrollDown) isEvent()       {}
func (ScrollUp) isEvent()         {}
func (JumpTop) isEvent()          {}
func (JumpBottom) isEvent()       {}
func (ToggleAlbumArt) isEvent()   {}
func (RefreshRequested) isEvent() {}
func (DeleteAndRefetch) isEvent() {}
func (EditRequested) isEvent()    {}
func (EditorClosed) isEvent()     {}
func (TransportCommand) isEvent() {}
func (ShowHelp) isEvent()         {}
func (Tick) isEvent()             {}
func (Quit) isEvent()             {}
func (StatusMessage) isEvent()    {}

type TransportKind int

const (
	TransportNext TransportKind = iota
	TransportPrevious
	TransportPlayPause
)

func (k TransportKind) String() string {
	switch k {
	case TransportNext:
		return "next"
	case TransportPrevious:
		return "previous"
	case TransportPlayPause:
		return "play-pause"
	}
	return "unknown"
}

// Effect is work the driver must perform after a transition.
type Effect interface{ isEffect() }

type (
	// LoadTrack resolves the track through the cache.
	LoadTrack struct{ Track track.Info }

	// Refetch drops the cached lyrics and resolves again.
	Refetch struct{ Track track.Info }

	// OpenEditor hands the terminal to the user's editor on Path.
	OpenEditor struct{ Path string }

	// Reload re-reads Entry from disk after an edit.
	Reload struct {
		Track track.Info
		Entry cache.Entry
	}

	Transport struct{ Kind TransportKind }

	ClearScreen struct{}

	// Exit stops the program. A non-nil Err is reported to the user.
	Exit struct{ Err error }
)

func (LoadTrack) isEffect()   {}
func (Refetch) isEffect()     {}
func (OpenEditor) isEffect()  {}
func (Reload) isEffect()      {}
func (Transport) isEffect()   {}
func (ClearScreen) isEffect() {}
func (Exit) isEffect()        {}
