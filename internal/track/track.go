package track

import "strings"

// Info is one poll of the now-playing source. Only Artist and Title take part
// in change detection; the rest is informational.
type Info struct {
	Title        string
	Artist       string
	Album        string
	DurationSecs int64
	ArtURL       string
	TrackID      string
}

func (t *Info) IsValid() bool {
	if t == nil {
		return false
	}
	return t.Title != "" && t.Artist != ""
}

// SameTrack compares on (artist, title). Album and track id changes alone do
// not count as a new track.
func (t *Info) SameTrack(other *Info) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.Artist == other.Artist && t.Title == other.Title
}

func (t *Info) String() string {
	if t == nil {
		return "<none>"
	}
	return strings.TrimSpace(t.Artist + " - " + t.Title)
}
