package artwork

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if x < 8 {
				img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
			} else {
				img.Set(x, y, color.RGBA{R: 30, G: 60, B: 190, A: 255})
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDownloadHTTP(t *testing.T) {
	data := testPNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	d := &Downloader{client: srv.Client()}
	got, ext, err := d.Download(context.Background(), srv.URL+"/cover")
	require.NoError(t, err)
	assert.Equal(t, ".png", ext)
	assert.Equal(t, data, got)
}

func TestDownloadMissingResource(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	d := &Downloader{client: srv.Client()}
	_, _, err := d.Download(context.Background(), srv.URL+"/gone")
	assert.Error(t, err)
}

func TestDownloadFileURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cover.png")
	require.NoError(t, os.WriteFile(path, testPNG(t), 0o644))

	_, ext, err := NewDownloader().Download(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, ".png", ext)
}

func TestDownloadRejectsNonImages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cover.txt")
	require.NoError(t, os.WriteFile(path, []byte("<html>nope</html>"), 0o644))

	_, _, err := NewDownloader().Download(context.Background(), "file://"+path)
	assert.ErrorIs(t, err, ErrNotImage)

	_, _, err = NewDownloader().Download(context.Background(), "")
	assert.Error(t, err)
}

func TestLoadAndRenderHalfBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cover.png")
	require.NoError(t, os.WriteFile(path, testPNG(t), 0o644))

	img, err := Load(path)
	require.NoError(t, err)

	lines := RenderHalfBlockArt(img, 10, 5)
	require.Len(t, lines, 5)
	for _, line := range lines {
		assert.Equal(t, 10, ansi.StringWidth(line))
	}

	assert.Nil(t, RenderHalfBlockArt(img, 2, 5))
	assert.Nil(t, RenderHalfBlockArt(nil, 10, 5))
}

func TestExtractPalette(t *testing.T) {
	assert.Equal(t, DefaultPalette(), ExtractPalette(nil))

	img, _, err := image.Decode(bytes.NewReader(testPNG(t)))
	require.NoError(t, err)

	palette := ExtractPalette(img)
	require.NotNil(t, palette)
	assert.Len(t, palette.Gradient, 20)
	assert.NotEmpty(t, palette.Primary)
}
