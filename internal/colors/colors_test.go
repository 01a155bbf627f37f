package colors

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateGradientEndpoints(t *testing.T) {
	gradient := GenerateGradient("#000000", "#ffffff", 5)
	require.Len(t, gradient, 5)
	assert.Equal(t, "#000000", gradient[0])
	assert.Equal(t, "#ffffff", gradient[4])
	assert.Less(t, Lightness(gradient[1]), Lightness(gradient[3]))
}

func TestLightness(t *testing.T) {
	assert.InDelta(t, 0.0, Lightness("#000000"), 0.001)
	assert.InDelta(t, 1.0, Lightness("#ffffff"), 0.001)

	gray := Lightness("#808080")
	assert.Greater(t, gray, 0.3)
	assert.Less(t, gray, 0.7)

	assert.Equal(t, 0.0, Lightness("not a color"))
}

func TestGenerateGradientInvalidInput(t *testing.T) {
	assert.Nil(t, GenerateGradient("#000000", "#ffffff", 0))

	flat := GenerateGradient("nope", "#ff0000", 3)
	for _, c := range flat {
		assert.Equal(t, "#ff0000", c)
	}
}

func TestBoostBrightensDarkColors(t *testing.T) {
	dark := colorful.Color{R: 0.1, G: 0.05, B: 0.05}
	boosted, err := colorful.Hex(Boost(dark))
	require.NoError(t, err)

	_, _, before := dark.Hsv()
	_, _, after := boosted.Hsv()
	assert.Greater(t, after, before)
}

func TestRenderGradientTextKeepsText(t *testing.T) {
	out := RenderGradientText("hello", GenerateGradient("#ff0000", "#0000ff", 4), true)
	assert.Equal(t, "hello", ansi.Strip(out))

	assert.Equal(t, "x", ansi.Strip(RenderGradientText("x", nil, false)))
}
