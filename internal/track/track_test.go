package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSameTrack(t *testing.T) {
	a := &Info{Artist: "Low", Title: "Words", Album: "I Could Live in Hope"}

	assert.True(t, a.SameTrack(&Info{Artist: "Low", Title: "Words", Album: "Live"}))
	assert.True(t, a.SameTrack(&Info{Artist: "Low", Title: "Words", TrackID: "other"}))
	assert.False(t, a.SameTrack(&Info{Artist: "Low", Title: "Lullaby"}))
	assert.False(t, a.SameTrack(nil))

	var none *Info
	assert.True(t, none.SameTrack(nil))
}

func TestIsValid(t *testing.T) {
	assert.True(t, (&Info{Artist: "a", Title: "b"}).IsValid())
	assert.False(t, (&Info{Artist: "a"}).IsValid())
	assert.False(t, (*Info)(nil).IsValid())
}
