package terminal

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectCapabilities(t *testing.T) {
	t.Setenv("TERM_PROGRAM", "")
	t.Setenv("LYRICPANE_KITTY_GRAPHICS", "yes")
	caps := DetectCapabilities()
	assert.True(t, caps.SupportsKittyGraphics)
	assert.Equal(t, "kitty", caps.TermProgram)

	t.Setenv("TERM_PROGRAM", "WezTerm")
	t.Setenv("LYRICPANE_KITTY_GRAPHICS", "off")
	caps = DetectCapabilities()
	assert.False(t, caps.SupportsKittyGraphics)
	assert.Equal(t, "WezTerm", caps.TermProgram)
}

func TestReset(t *testing.T) {
	var buf bytes.Buffer
	Reset(&buf)

	out := buf.String()
	assert.Contains(t, out, "\033[?25h")
	assert.Contains(t, out, "\033[?1049l")
	assert.True(t, strings.HasPrefix(out, "\x1b_Ga=d"))
}

func TestGuardReleaseResetsOnce(t *testing.T) {
	var buf bytes.Buffer
	g := NewGuard(&buf, nil)

	g.Release()
	first := buf.Len()
	assert.Positive(t, first)

	g.Release()
	assert.Equal(t, first, buf.Len())
}

func TestEncodeImageForKitty(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for x := 0; x < 64; x++ {
		img.Set(x, x, color.White)
	}

	out := EncodeImageForKitty(img, 10, 5)
	assert.True(t, strings.HasPrefix(out, "\x1b_Ga=T"))
	assert.Contains(t, out, "c=10,r=5")
	assert.True(t, strings.HasSuffix(out, "\x1b\\"))

	assert.Empty(t, EncodeImageForKitty(nil, 10, 5))
	assert.Empty(t, EncodeImageForKitty(img, 0, 5))
	assert.Empty(t, EncodeImageForKitty(image.NewRGBA(image.Rect(0, 0, 0, 0)), 10, 5))
}

func TestSizeOnNonTerminal(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	assert.False(t, IsTerminal(r.Fd()))
	_, _, err = Size(r.Fd())
	assert.Error(t, err)
}
