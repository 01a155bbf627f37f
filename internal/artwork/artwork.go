package artwork

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/EdlinOrg/prominentcolor"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"

	"karolbroda.com/lyricpane/internal/colors"
)

const (
	fetchTimeout = 5 * time.Second
	maxArtBytes  = 10 << 20
)

var ErrNotImage = errors.New("artwork is not a png or jpeg image")

type Palette struct {
	Primary   string
	Secondary string
	Dim       string
	Gradient  []string
}

// Downloader fetches album art bytes from http(s) or file:// references.
type Downloader struct {
	client *http.Client
}

func NewDownloader() *Downloader {
	return &Downloader{client: &http.Client{Timeout: fetchTimeout}}
}

// Download returns the image bytes and the file extension matching their
// content (".png" or ".jpg").
func (d *Downloader) Download(ctx context.Context, artURL string) ([]byte, string, error) {
	if artURL == "" {
		return nil, "", errors.New("empty artwork url")
	}

	var data []byte
	var err error
	if strings.HasPrefix(artURL, "file://") {
		data, err = os.ReadFile(strings.TrimPrefix(artURL, "file://"))
		if err != nil {
			return nil, "", fmt.Errorf("failed to open artwork file: %w", err)
		}
	} else {
		data, err = d.get(ctx, artURL)
		if err != nil {
			return nil, "", err
		}
	}

	ext, err := Extension(data)
	if err != nil {
		return nil, "", err
	}
	return data, ext, nil
}

func (d *Downloader) get(ctx context.Context, artURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch artwork: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("artwork fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArtBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read artwork: %w", err)
	}
	return data, nil
}

// Extension sniffs data and returns the file extension to store it under.
func Extension(data []byte) (string, error) {
	switch http.DetectContentType(data) {
	case "image/png":
		return ".png", nil
	case "image/jpeg":
		return ".jpg", nil
	}
	return "", ErrNotImage
}

func Load(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode artwork %s: %w", path, err)
	}
	return img, nil
}

func ExtractPalette(img image.Image) *Palette {
	if img == nil {
		return DefaultPalette()
	}

	extracted, err := prominentcolor.KmeansWithAll(5, img, prominentcolor.ArgumentDefault, prominentcolor.DefaultSize, nil)
	if err != nil || len(extracted) < 2 {
		return DefaultPalette()
	}

	type scored struct {
		color colorful.Color
		score float64
	}

	// favour saturated mid-bright colors for the title
	var best, second scored
	best.score, second.score = -1, -1
	for _, item := range extracted {
		c := colorful.Color{
			R: float64(item.Color.R) / 255.0,
			G: float64(item.Color.G) / 255.0,
			B: float64(item.Color.B) / 255.0,
		}
		_, s, v := c.Hsv()
		score := s * (1.0 - abs(v-0.6))
		switch {
		case score > best.score:
			second = best
			best = scored{c, score}
		case score > second.score:
			second = scored{c, score}
		}
	}

	primary := colors.Boost(best.color)
	secondary := colors.Boost(second.color)

	return &Palette{
		Primary:   primary,
		Secondary: secondary,
		Dim:       "#6272A4",
		Gradient:  colors.GenerateGradient(primary, secondary, 20),
	}
}

func DefaultPalette() *Palette {
	return &Palette{
		Primary:   "#8BA4E8",
		Secondary: "#E8A4C8",
		Dim:       "#6272A4",
		Gradient:  colors.GenerateGradient("#8BA4E8", "#E8A4C8", 20),
	}
}

// RenderHalfBlockArt draws img into targetWidth x targetHeight cells, two
// pixels per cell using the upper half block.
func RenderHalfBlockArt(img image.Image, targetWidth int, targetHeight int) []string {
	if img == nil || targetWidth < 4 || targetHeight < 2 {
		return nil
	}

	resized := resize.Resize(uint(targetWidth), uint(targetHeight*2), img, resize.Lanczos3)
	bounds := resized.Bounds()

	lines := make([]string, targetHeight)
	for y := 0; y < targetHeight; y++ {
		var line strings.Builder
		topY := bounds.Min.Y + y*2
		bottomY := topY + 1
		if bottomY >= bounds.Max.Y {
			bottomY = topY
		}

		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			top := hexAt(resized, x, topY)
			bottom := hexAt(resized, x, bottomY)
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom))
			line.WriteString(style.Render("▀"))
		}
		lines[y] = line.String()
	}

	return lines
}

func hexAt(img image.Image, x int, y int) string {
	c, ok := colorful.MakeColor(img.At(x, y))
	if !ok {
		return "#000000"
	}
	return c.Hex()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
