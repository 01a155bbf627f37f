package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"MPRIS_SERVICE", "LRCLIB_GET_URL", "LYRICPANE_CACHE_DIR", "EDITOR", "VISUAL",
		"LYRICPANE_POLL_MS", "HIDE_ALBUM_ART", "LYRICPANE_REMOTE", "LYRICPANE_DEBUG",
		"LYRICPANE_LOG_FILE", "XDG_CACHE_HOME",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")

	cfg := Load()

	assert.Equal(t, DefaultMprisService, cfg.MprisService)
	assert.Equal(t, DefaultLrclibGetURL, cfg.LrclibURL)
	assert.Equal(t, filepath.Join("/tmp/xdg", "spotify-lyrics"), cfg.CacheDir)
	assert.Equal(t, PollInterval, cfg.PollInterval)
	assert.Empty(t, cfg.Editor)
	assert.False(t, cfg.HideAlbumArt)
	assert.True(t, cfg.RemoteControl)
	assert.False(t, cfg.Debug)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MPRIS_SERVICE", "org.mpris.MediaPlayer2.mpv")
	t.Setenv("LYRICPANE_CACHE_DIR", "/srv/lyrics")
	t.Setenv("LYRICPANE_POLL_MS", "250")
	t.Setenv("HIDE_ALBUM_ART", "yes")
	t.Setenv("LYRICPANE_REMOTE", "off")
	t.Setenv("LYRICPANE_DEBUG", "1")

	cfg := Load()

	assert.Equal(t, "org.mpris.MediaPlayer2.mpv", cfg.MprisService)
	assert.Equal(t, "/srv/lyrics", cfg.CacheDir)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.True(t, cfg.HideAlbumArt)
	assert.False(t, cfg.RemoteControl)
	assert.True(t, cfg.Debug)
}

func TestEditorFallsBackToVisual(t *testing.T) {
	clearEnv(t)
	t.Setenv("VISUAL", "nvim")
	assert.Equal(t, "nvim", Load().Editor)

	t.Setenv("EDITOR", "vi -n")
	assert.Equal(t, "vi -n", Load().Editor)
}

func TestInvalidPollIntervalKeepsDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("LYRICPANE_POLL_MS", "soon")
	assert.Equal(t, PollInterval, Load().PollInterval)

	t.Setenv("LYRICPANE_POLL_MS", "-5")
	assert.Equal(t, PollInterval, Load().PollInterval)
}
