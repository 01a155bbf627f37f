package colors

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// GenerateGradient blends from startHex to endHex in Lab space. Invalid hex
// input falls back to a flat gradient of the valid end, or white.
func GenerateGradient(startHex string, endHex string, steps int) []string {
	if steps <= 0 {
		return nil
	}

	start, errStart := colorful.Hex(startHex)
	end, errEnd := colorful.Hex(endHex)
	switch {
	case errStart != nil && errEnd != nil:
		start, end = colorful.Color{R: 1, G: 1, B: 1}, colorful.Color{R: 1, G: 1, B: 1}
	case errStart != nil:
		start = end
	case errEnd != nil:
		end = start
	}

	gradient := make([]string, steps)
	for i := range gradient {
		t := 0.0
		if steps > 1 {
			t = float64(i) / float64(steps-1)
		}
		gradient[i] = start.BlendLab(end, t).Clamped().Hex()
	}
	return gradient
}

// Lightness returns the L component in [0,1], or 0 for invalid input.
func Lightness(hex string) float64 {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0
	}
	_, _, l := c.Hcl()
	return l
}

// Boost brightens dark colors and tames very bright ones so they stay
// readable on a dark terminal background.
func Boost(c colorful.Color) string {
	h, s, v := c.Hsv()
	if v < 0.4 {
		v = 0.4 + (v * 0.5)
	}
	if v > 0.85 {
		s *= 0.7
	}
	return colorful.Hsv(h, s, v).Clamped().Hex()
}

// RenderGradientText colors each rune of text along gradient.
func RenderGradientText(text string, gradient []string, bold bool) string {
	if len(gradient) == 0 {
		return lipgloss.NewStyle().Bold(bold).Render(text)
	}

	runes := []rune(text)
	var b strings.Builder
	for i, r := range runes {
		idx := 0
		if len(runes) > 1 {
			idx = i * (len(gradient) - 1) / (len(runes) - 1)
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradient[idx])).Bold(bold)
		b.WriteString(style.Render(string(r)))
	}
	return b.String()
}
