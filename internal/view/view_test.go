package view

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karolbroda.com/lyricpane/internal/cache"
	"karolbroda.com/lyricpane/internal/config"
	"karolbroda.com/lyricpane/internal/track"
)

var song = track.Info{Artist: "Daft Punk", Title: "Digital Love", Album: "Discovery"}

func numberedLyrics(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	return strings.Join(lines, "\n")
}

// loaded returns a state with song playing and total one-column lyric lines.
func loaded(t *testing.T, rows int, total int) State {
	t.Helper()
	s := New(rows, 80, true, true)
	s, effects := Apply(s, TrackChanged{Track: song})
	require.Equal(t, []Effect{LoadTrack{Track: song}, ClearScreen{}}, effects)

	s, _ = Apply(s, LyricsLoaded{Track: song, Entry: cache.Entry{
		LyricsPath: "/cache/Daft Punk/Discovery/Digital Love",
		Lyrics:     numberedLyrics(total),
	}})
	require.Equal(t, total, s.TotalLines())
	return s
}

func assertOffsetInRange(t *testing.T, s State) {
	t.Helper()
	assert.GreaterOrEqual(t, s.Offset, 0)
	assert.LessOrEqual(t, s.Offset, max(0, s.TotalLines()-s.VisibleCount))
}

func TestResizeShrinkKeepsOffset(t *testing.T) {
	s := loaded(t, 40, 100)
	require.Equal(t, 0, s.Offset)

	s, effects := Apply(s, TerminalResized{Rows: 20, Cols: 80})
	assert.Equal(t, 0, s.Offset)
	assert.Equal(t, 20-HeaderRows, s.VisibleCount)
	assert.Contains(t, effects, Effect(ClearScreen{}))
	assert.True(t, s.Dirty)
}

func TestResizeGrowShiftsOffset(t *testing.T) {
	s := loaded(t, 20, 100)
	s.Offset = 30

	s, _ = Apply(s, TerminalResized{Rows: 40, Cols: 80})
	assert.Equal(t, 50, s.Offset)
	assertOffsetInRange(t, s)

	s = loaded(t, 20, 60)
	s.Offset = 30
	s, _ = Apply(s, TerminalResized{Rows: 40, Cols: 80})
	assert.Equal(t, 60-(40-HeaderRows), s.Offset)
}

func TestResizeSameSizeIsNoop(t *testing.T) {
	s := loaded(t, 20, 100)
	s.Dirty = false

	next, effects := Apply(s, TerminalResized{Rows: 20, Cols: 80})
	assert.Empty(t, effects)
	assert.False(t, next.Dirty)
}

func TestScrollDownOnlyWhenViewportFull(t *testing.T) {
	short := loaded(t, 20, 10)
	short.Dirty = false
	short, _ = Apply(short, ScrollDown{})
	assert.Equal(t, 0, short.Offset)
	assert.False(t, short.Dirty)

	long := loaded(t, 20, 100)
	long, _ = Apply(long, ScrollDown{})
	assert.Equal(t, 1, long.Offset)

	long, _ = Apply(long, JumpBottom{})
	assert.Equal(t, 100-long.VisibleCount, long.Offset)
	long.Dirty = false
	long, _ = Apply(long, ScrollDown{})
	assert.Equal(t, 100-long.VisibleCount, long.Offset)
	assert.False(t, long.Dirty)
}

func TestScrollUpAndJumps(t *testing.T) {
	s := loaded(t, 20, 100)

	s, _ = Apply(s, ScrollUp{})
	assert.Equal(t, 0, s.Offset)

	s, _ = Apply(s, JumpBottom{})
	s, _ = Apply(s, ScrollUp{})
	assert.Equal(t, s.MaxOffset()-1, s.Offset)

	s, _ = Apply(s, JumpTop{})
	assert.Equal(t, 0, s.Offset)
}

func TestOffsetInvariantUnderRandomEvents(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for run := 0; run < 200; run++ {
		s := loaded(t, 1+rng.Intn(60), rng.Intn(150))

		for step := 0; step < 200; step++ {
			var ev Event
			switch rng.Intn(7) {
			case 0:
				ev = ScrollDown{}
			case 1:
				ev = ScrollUp{}
			case 2:
				ev = JumpTop{}
			case 3:
				ev = JumpBottom{}
			case 4:
				ev = TerminalResized{Rows: rng.Intn(80), Cols: rng.Intn(200)}
			case 5:
				ev = ToggleAlbumArt{}
			case 6:
				ev = LyricsLoaded{Track: song, Entry: cache.Entry{
					LyricsPath: "x",
					Lyrics:     numberedLyrics(rng.Intn(150)),
				}}
			}
			s, _ = Apply(s, ev)
			assertOffsetInRange(t, s)
		}
	}
}

func TestTrackChangedIgnoresSameTrack(t *testing.T) {
	s := loaded(t, 20, 100)
	s.Offset = 10

	same := song
	same.Album = "Discovery (Deluxe)"
	next, effects := Apply(s, TrackChanged{Track: same})
	assert.Empty(t, effects)
	assert.Equal(t, 10, next.Offset)

	other := track.Info{Artist: "Air", Title: "La femme d'argent"}
	next, effects = Apply(s, TrackChanged{Track: other})
	assert.Equal(t, 0, next.Offset)
	assert.Empty(t, next.Lines)
	assert.Equal(t, []Effect{LoadTrack{Track: other}, ClearScreen{}}, effects)
}

func TestStaleLyricsAreDropped(t *testing.T) {
	s := loaded(t, 20, 5)
	other := track.Info{Artist: "Air", Title: "Sexy Boy"}

	next, effects := Apply(s, LyricsLoaded{Track: other, Entry: cache.Entry{Lyrics: "wrong song"}})
	assert.Empty(t, effects)
	assert.Equal(t, 5, next.TotalLines())
}

func TestLyricsLoadedStatus(t *testing.T) {
	s := loaded(t, 20, 5)
	assert.Empty(t, s.Status)

	failed := cache.Entry{Err: fmt.Errorf("%w: %w", cache.ErrFetchFailed, errors.New("lyrics not found"))}
	s, _ = Apply(s, LyricsLoaded{Track: song, Entry: failed})
	assert.Contains(t, s.Status, "lyrics fetch failed")
	assert.Empty(t, s.Lines)

	s, effects := Apply(s, LyricsLoaded{Track: song, Err: &cache.FilesystemError{Op: "mkdir", Path: "/x", Err: errors.New("read-only")}})
	require.Len(t, effects, 1)
	exit, ok := effects[0].(Exit)
	require.True(t, ok)
	assert.Error(t, exit.Err)
}

func TestDeleteAndRefetch(t *testing.T) {
	s := loaded(t, 20, 100)
	s.Offset = 40

	s, effects := Apply(s, DeleteAndRefetch{})
	assert.Equal(t, []Effect{Refetch{Track: song}}, effects)
	assert.Equal(t, 0, s.Offset)
	assert.Empty(t, s.Lines)
	assert.NotEmpty(t, s.Entry.LyricsPath)

	empty := New(20, 80, true, true)
	_, effects = Apply(empty, DeleteAndRefetch{})
	assert.Empty(t, effects)
}

func TestEditFlow(t *testing.T) {
	s := loaded(t, 20, 5)

	_, effects := Apply(s, EditRequested{})
	assert.Equal(t, []Effect{OpenEditor{Path: s.Entry.LyricsPath}}, effects)

	s.EditorConfigured = false
	next, effects := Apply(s, EditRequested{})
	assert.Empty(t, effects)
	assert.Equal(t, statusEditorUnset, next.Status)

	next, effects = Apply(s, EditorClosed{Err: errors.New("exit status 1")})
	assert.Contains(t, next.Status, "exit status 1")
	assert.Equal(t, []Effect{Reload{Track: song, Entry: s.Entry}, ClearScreen{}}, effects)
}

func TestRefreshAlwaysRepaints(t *testing.T) {
	s := loaded(t, 20, 5)
	s.Dirty = false

	s, effects := Apply(s, RefreshRequested{})
	assert.True(t, s.Dirty)
	assert.Equal(t, []Effect{LoadTrack{Track: song}, ClearScreen{}}, effects)
}

func TestToggleAlbumArtRewraps(t *testing.T) {
	s := New(20, 40, true, true)
	s, _ = Apply(s, TrackChanged{Track: song})
	s, _ = Apply(s, LyricsLoaded{Track: song, Entry: cache.Entry{
		Lyrics:  strings.Repeat("word ", 20),
		ArtPath: "/cache/Daft Punk/album_arts/Discovery.png",
	}})
	wide := s.TotalLines()

	s, effects := Apply(s, ToggleAlbumArt{})
	assert.False(t, s.AlbumHidden)
	assert.True(t, s.ArtShown())
	assert.Greater(t, s.TotalLines(), wide)
	assert.Contains(t, effects, Effect(ClearScreen{}))
}

func TestLyricsUseFullWidthWithoutArt(t *testing.T) {
	s := New(20, 40, false, true)
	s, _ = Apply(s, TrackChanged{Track: song})
	s, _ = Apply(s, LyricsLoaded{Track: song, Entry: cache.Entry{Lyrics: strings.Repeat("word ", 20)}})

	assert.False(t, s.ArtShown())
	assert.Equal(t, 40, s.LyricsWidth())
	full := s.TotalLines()

	s.Dirty = false
	s, effects := Apply(s, ArtFetched{Track: song, Path: "/cache/Daft Punk/album_arts/Discovery.png"})
	assert.True(t, s.ArtShown())
	assert.Equal(t, 40/2-2, s.LyricsWidth())
	assert.Greater(t, s.TotalLines(), full)
	assert.True(t, s.Dirty)
	assert.Equal(t, []Effect{ClearScreen{}}, effects)
}

func TestArtFetchedForOtherTrackIsDropped(t *testing.T) {
	s := loaded(t, 20, 5)
	other := track.Info{Artist: "Daft Punk", Title: "One More Time"}

	next, effects := Apply(s, ArtFetched{Track: other, Path: "/elsewhere.png"})
	assert.Empty(t, next.Entry.ArtPath)
	assert.Nil(t, effects)

	next, _ = Apply(s, ArtFetched{Track: song, Path: "/art.png"})
	next, _ = Apply(next, LyricsLoaded{Track: song, Entry: cache.Entry{Lyrics: "reloaded"}})
	assert.Equal(t, "/art.png", next.Entry.ArtPath)
}

func TestHelpExpiresOnTick(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := New(20, 80, true, true)

	s, _ = Apply(s, ShowHelp{Now: now})
	assert.True(t, s.HelpVisible(now))

	s.Dirty = false
	s, _ = Apply(s, Tick{Now: now.Add(time.Second)})
	assert.True(t, s.HelpVisible(now.Add(time.Second)))
	assert.False(t, s.Dirty)

	s, _ = Apply(s, Tick{Now: now.Add(config.HelpDuration)})
	assert.False(t, s.HelpVisible(now.Add(config.HelpDuration)))
	assert.True(t, s.Dirty)
}

func TestTransportAndQuit(t *testing.T) {
	s := New(20, 80, true, true)

	next, effects := Apply(s, TransportCommand{Kind: TransportNext})
	assert.Equal(t, []Effect{Transport{Kind: TransportNext}}, effects)
	assert.Equal(t, s, next)

	_, effects = Apply(s, Quit{})
	assert.Equal(t, []Effect{Exit{}}, effects)
}
