package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karolbroda.com/lyricpane/internal/config"
)

func TestChordJumpsToTop(t *testing.T) {
	now := time.Now()
	s := loaded(t, 20, 100)
	s.Offset = 50

	s, effects := Key(s, "g", now)
	assert.Empty(t, effects)
	assert.False(t, s.Chord.Idle())
	assert.Equal(t, 50, s.Offset)

	s, _ = Key(s, "g", now.Add(100*time.Millisecond))
	assert.Equal(t, 0, s.Offset)
	assert.True(t, s.Chord.Idle())
}

func TestChordTimesOut(t *testing.T) {
	now := time.Now()
	s := loaded(t, 20, 100)
	s.Offset = 50

	s, _ = Key(s, "g", now)
	s, _ = Key(s, "g", now.Add(config.ChordTimeout))
	assert.Equal(t, 50, s.Offset)
	assert.False(t, s.Chord.Idle(), "late second press arms a new chord")

	s, _ = Apply(s, Tick{Now: now.Add(3 * config.ChordTimeout)})
	assert.True(t, s.Chord.Idle())
}

func TestChordBrokenByOtherKey(t *testing.T) {
	now := time.Now()
	s := loaded(t, 20, 100)
	s.Offset = 50

	s, _ = Key(s, "g", now)
	s, _ = Key(s, "k", now)
	assert.Equal(t, 49, s.Offset)
	assert.True(t, s.Chord.Idle())
}

func TestKeyBindings(t *testing.T) {
	now := time.Now()
	s := loaded(t, 20, 100)

	s, _ = Key(s, "G", now)
	assert.Equal(t, s.MaxOffset(), s.Offset)

	s, _ = Key(s, "x", now)
	assert.Equal(t, s.MaxOffset(), s.Offset)

	_, effects := Key(s, "q", now)
	assert.Equal(t, []Effect{Exit{}}, effects)

	_, effects = Key(s, "t", now)
	assert.Equal(t, []Effect{Transport{Kind: TransportPlayPause}}, effects)

	s, _ = Key(s, "h", now)
	assert.True(t, s.HelpVisible(now))
}

func TestMove(t *testing.T) {
	for direction, want := range map[string]Event{
		"up":     ScrollUp{},
		"down":   ScrollDown{},
		"top":    JumpTop{},
		"bottom": JumpBottom{},
	} {
		got, err := Move(direction)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := Move("sideways")
	assert.Error(t, err)
}
