package view

import (
	"time"

	"karolbroda.com/lyricpane/internal/cache"
	"karolbroda.com/lyricpane/internal/config"
)

// Apply is the transition function. It never performs I/O: anything that
// needs doing outside the state is returned as effects, in order. After
// every call 0 <= Offset <= MaxOffset holds.
func Apply(s State, ev Event) (State, []Effect) {
	var effects []Effect

	switch e := ev.(type) {
	case TrackChanged:
		if !e.Track.IsValid() || s.Track.SameTrack(&e.Track) {
			return s, nil
		}
		t := e.Track
		s.Track = &t
		s.Entry = cache.Entry{}
		s.Lines = nil
		s.wrappedText, s.wrappedWidth = "", 0
		s.Offset = 0
		s.Status = statusLoading
		s.Dirty = true
		effects = append(effects, LoadTrack{Track: t}, ClearScreen{})

	case LyricsLoaded:
		if !s.Track.SameTrack(&e.Track) {
			// a result for a track we already moved away from
			return s, nil
		}
		if e.Err != nil {
			if cache.IsFilesystemError(e.Err) {
				return s, []Effect{Exit{Err: e.Err}}
			}
			s.Status = e.Err.Error()
			s.Dirty = true
			break
		}
		artPath := s.Entry.ArtPath
		s.Entry = e.Entry
		if s.Entry.ArtPath == "" {
			s.Entry.ArtPath = artPath
		}
		switch {
		case e.Entry.Err != nil:
			s.Status = e.Entry.Err.Error()
		case e.Entry.Lyrics == "":
			s.Status = statusNoLyrics
		default:
			s.Status = ""
		}
		s.rewrap()
		s.Dirty = true

	case ArtFetched:
		if e.Path == "" || e.Path == s.Entry.ArtPath || !s.Track.SameTrack(&e.Track) {
			return s, nil
		}
		s.Entry.ArtPath = e.Path
		s.rewrap()
		s.Dirty = true
		if !s.AlbumHidden {
			effects = append(effects, ClearScreen{})
		}

	case TerminalResized:
		if e.Rows == s.Rows && e.Cols == s.Cols {
			return s, nil
		}
		// keep the reading position roughly in place as the window grows
		if s.Rows > 0 && e.Rows > s.Rows {
			s.Offset += e.Rows - s.Rows
		}
		s.Rows, s.Cols = e.Rows, e.Cols
		s.VisibleCount = visibleCount(e.Rows)
		s.rewrap()
		s.Dirty = true
		effects = append(effects, ClearScreen{})

	case ScrollDown:
		// below MaxOffset the viewport is full and stays full after the step
		if s.Offset < s.MaxOffset() {
			s.Offset++
			s.Dirty = true
		}

	case ScrollUp:
		if s.Offset > 0 {
			s.Offset--
			s.Dirty = true
		}

	case JumpTop:
		if s.Offset != 0 {
			s.Offset = 0
			s.Dirty = true
		}

	case JumpBottom:
		if s.Offset != s.MaxOffset() {
			s.Offset = s.MaxOffset()
			s.Dirty = true
		}

	case ToggleAlbumArt:
		s.AlbumHidden = !s.AlbumHidden
		s.rewrap()
		s.Dirty = true
		effects = append(effects, ClearScreen{})

	case RefreshRequested:
		if s.Track != nil {
			effects = append(effects, LoadTrack{Track: *s.Track})
		}
		s.Dirty = true
		effects = append(effects, ClearScreen{})

	case DeleteAndRefetch:
		if s.Track == nil {
			s.Status = statusNothingPlaying
			s.Dirty = true
			break
		}
		s.Entry = cache.Entry{LyricsPath: s.Entry.LyricsPath, ArtPath: s.Entry.ArtPath}
		s.Lines = nil
		s.Offset = 0
		s.Status = statusRefetching
		s.Dirty = true
		effects = append(effects, Refetch{Track: *s.Track})

	case EditRequested:
		switch {
		case s.Track == nil:
			s.Status = statusNothingPlaying
		case !s.EditorConfigured:
			s.Status = statusEditorUnset
		case s.Entry.LyricsPath == "":
			s.Status = statusLyricsPending
		default:
			effects = append(effects, OpenEditor{Path: s.Entry.LyricsPath})
		}
		s.Dirty = true

	case EditorClosed:
		if e.Err != nil {
			s.Status = statusEditorFailedLabel + e.Err.Error()
		}
		if s.Track != nil && s.Entry.LyricsPath != "" {
			effects = append(effects, Reload{Track: *s.Track, Entry: s.Entry})
		}
		s.Dirty = true
		effects = append(effects, ClearScreen{})

	case TransportCommand:
		effects = append(effects, Transport{Kind: e.Kind})

	case ShowHelp:
		s.HelpUntil = e.Now.Add(config.HelpDuration)
		s.Dirty = true

	case Tick:
		if !s.HelpUntil.IsZero() && !e.Now.Before(s.HelpUntil) {
			s.HelpUntil = time.Time{}
			s.Dirty = true
		}
		if !s.Chord.Idle() && !e.Now.Before(s.Chord.Deadline) {
			s.Chord = Chord{}
		}

	case Quit:
		effects = append(effects, Exit{})

	case StatusMessage:
		if s.Status != e.Text {
			s.Status = e.Text
			s.Dirty = true
		}
	}

	s.clamp()
	return s, effects
}
