package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	DefaultMprisService = "org.mpris.MediaPlayer2.spotify"
	DefaultLrclibGetURL = "https://lrclib.net/api/get"
	HTTPTimeoutSeconds  = 10
	PollInterval        = 100 * time.Millisecond
	ChordTimeout        = 500 * time.Millisecond
	HelpDuration        = 5 * time.Second
	PlayerCallTimeout   = 300 * time.Millisecond

	cacheDirName = "spotify-lyrics"
)

type Config struct {
	MprisService  string
	LrclibURL     string
	CacheDir      string
	Editor        string
	PollInterval  time.Duration
	HideAlbumArt  bool
	RemoteControl bool
	Debug         bool
	LogFile       string
}

func Load() *Config {
	pollInterval := PollInterval
	if ms, err := strconv.Atoi(os.Getenv("LYRICPANE_POLL_MS")); err == nil && ms > 0 {
		pollInterval = time.Duration(ms) * time.Millisecond
	}

	return &Config{
		MprisService:  getEnvOrDefault("MPRIS_SERVICE", DefaultMprisService),
		LrclibURL:     getEnvOrDefault("LRCLIB_GET_URL", DefaultLrclibGetURL),
		CacheDir:      getEnvOrDefault("LYRICPANE_CACHE_DIR", defaultCacheDir()),
		Editor:        editorFromEnv(),
		PollInterval:  pollInterval,
		HideAlbumArt:  isTruthy(os.Getenv("HIDE_ALBUM_ART")),
		RemoteControl: !isFalsy(os.Getenv("LYRICPANE_REMOTE")),
		Debug:         isTruthy(os.Getenv("LYRICPANE_DEBUG")),
		LogFile:       getEnvOrDefault("LYRICPANE_LOG_FILE", filepath.Join(os.TempDir(), "lyricpane.log")),
	}
}

// editorFromEnv prefers $EDITOR and falls back to $VISUAL. An empty result
// means editing is not configured.
func editorFromEnv() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	return os.Getenv("VISUAL")
}

func defaultCacheDir() string {
	// xdg cache home takes priority
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return filepath.Join(xdgCache, cacheDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), cacheDirName)
	}
	return filepath.Join(home, ".cache", cacheDirName)
}

func getEnvOrDefault(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func isTruthy(value string) bool {
	switch value {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func isFalsy(value string) bool {
	switch value {
	case "0", "false", "no", "off":
		return true
	}
	return false
}
