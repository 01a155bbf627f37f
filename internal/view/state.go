// Package view holds the lyrics viewer's state and the pure transition
// function that drives it. Nothing here touches the terminal, the network or
// the disk; side effects are returned to the caller as Effect values.
package view

import (
	"time"

	"karolbroda.com/lyricpane/internal/cache"
	"karolbroda.com/lyricpane/internal/track"
	"karolbroda.com/lyricpane/internal/wrap"
)

// HeaderRows is the number of terminal rows above the lyrics viewport:
// artist, album, song and the status line.
const HeaderRows = 4

const (
	statusLoading           = "loading lyrics"
	statusNoLyrics          = "no lyrics"
	statusEditorUnset       = "editor not configured, set $EDITOR"
	statusNothingPlaying    = "nothing playing"
	statusLyricsPending     = "lyrics still loading"
	statusRefetching        = "refetching lyrics"
	statusEditorFailedLabel = "editor failed: "
)

// State is everything the frame is drawn from. The zero value is a valid,
// empty viewer.
type State struct {
	Offset       int
	VisibleCount int
	Rows         int
	Cols         int
	AlbumHidden  bool

	// Dirty is set by every transition that changes something on screen.
	// The driver clears it after drawing.
	Dirty bool

	Track  *track.Info
	Entry  cache.Entry
	Lines  []string
	Status string

	HelpUntil time.Time
	Chord     Chord

	EditorConfigured bool

	wrappedText  string
	wrappedWidth int
}

// New returns the state for a freshly opened terminal of the given size.
func New(rows int, cols int, albumHidden bool, editorConfigured bool) State {
	s := State{
		Rows:             rows,
		Cols:             cols,
		AlbumHidden:      albumHidden,
		EditorConfigured: editorConfigured,
		Status:           statusNothingPlaying,
		Dirty:            true,
	}
	s.VisibleCount = visibleCount(rows)
	return s
}

func (s State) TotalLines() int { return len(s.Lines) }

// MaxOffset is the largest offset that still fills the viewport.
func (s State) MaxOffset() int {
	return max(0, s.TotalLines()-s.VisibleCount)
}

// Page is the slice of display lines currently in view.
func (s State) Page() []string {
	return wrap.Page(s.Lines, s.Offset, s.VisibleCount)
}

func (s State) HelpVisible(now time.Time) bool {
	return !s.HelpUntil.IsZero() && now.Before(s.HelpUntil)
}

// ArtShown reports whether the right half of the body belongs to album art.
func (s State) ArtShown() bool {
	return !s.AlbumHidden && s.Entry.ArtPath != ""
}

// LyricsWidth is the column budget for the lyrics text. Without art on
// screen the lyrics take the full width.
func (s State) LyricsWidth() int {
	return wrap.Width(s.Cols, !s.ArtShown())
}

func (s *State) clamp() {
	s.Offset = min(max(s.Offset, 0), s.MaxOffset())
}

// rewrap recomputes Lines when the text or the width changed since the last
// wrap.
func (s *State) rewrap() {
	width := s.LyricsWidth()
	if s.Lines != nil && s.wrappedText == s.Entry.Lyrics && s.wrappedWidth == width {
		return
	}
	s.Lines = wrap.Wrap(s.Entry.Lyrics, width)
	s.wrappedText = s.Entry.Lyrics
	s.wrappedWidth = width
}

func visibleCount(rows int) int {
	return max(0, rows-HeaderRows)
}
