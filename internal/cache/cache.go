package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"karolbroda.com/lyricpane/internal/track"
)

const (
	artDirName   = "album_arts"
	unknownField = "_"
	tmpSuffix    = ".tmp"
)

var artExtensions = []string{".png", ".jpg"}

// Fetcher looks lyrics up on the network.
type Fetcher interface {
	Fetch(ctx context.Context, artist string, title string) (string, error)
}

// ArtFetcher downloads album art and reports the extension to store it with.
type ArtFetcher interface {
	Download(ctx context.Context, artURL string) ([]byte, string, error)
}

// Entry is where a track lives in the cache and what was found there.
type Entry struct {
	LyricsPath string
	ArtPath    string
	Lyrics     string
	// Cached is true when Lyrics came from disk rather than the network.
	Cached bool
	// Err holds a lyrics fetch failure. It wraps ErrFetchFailed.
	Err error
}

// Manager maps tracks to the on-disk tree
//
//	<root>/<artist>/<album>/<song>
//	<root>/<artist>/album_arts/<album>.<ext>
//
// and fills in whatever is missing from its fetchers. Distinct names that
// sanitize to the same string share a slot.
type Manager struct {
	root    string
	fetcher Fetcher
	art     ArtFetcher

	mu sync.Mutex
}

func NewManager(root string, fetcher Fetcher, art ArtFetcher) *Manager {
	return &Manager{root: root, fetcher: fetcher, art: art}
}

func (m *Manager) Root() string { return m.root }

// Sanitize strips path separators so metadata cannot escape its directory.
func Sanitize(field string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return -1
		}
		return r
	}, field)
	cleaned = strings.TrimSpace(cleaned)

	switch cleaned {
	case "", ".", "..":
		return unknownField
	}
	return cleaned
}

// Locate derives the lyrics path for t and finds any stored art. It touches
// nothing on disk.
func (m *Manager) Locate(t track.Info) Entry {
	artistDir := filepath.Join(m.root, Sanitize(t.Artist))
	album := Sanitize(t.Album)

	entry := Entry{
		LyricsPath: filepath.Join(artistDir, album, Sanitize(t.Title)),
	}
	for _, ext := range artExtensions {
		candidate := filepath.Join(artistDir, artDirName, album+ext)
		if fileExists(candidate) {
			entry.ArtPath = candidate
			break
		}
	}
	return entry
}

// Resolve returns the cache entry for t, fetching lyrics that are not on
// disk yet. Lyrics on disk are returned verbatim and never refetched. A failed
// fetch is reported in Entry.Err and leaves no file behind. ArtPath is set
// only when art is already stored; FetchArt downloads it. The returned error
// is a *FilesystemError when the cache tree itself cannot be prepared.
func (m *Manager) Resolve(ctx context.Context, t track.Info) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := m.Locate(t)
	if err := m.ensureDirs(entry.LyricsPath); err != nil {
		return entry, err
	}

	text, cached, err := m.loadLyrics(ctx, t, entry.LyricsPath)
	entry.Lyrics, entry.Cached = text, cached
	if err != nil {
		if isFilesystemError(err) {
			return entry, err
		}
		entry.Err = fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return entry, nil
}

// FetchArt returns the stored album art path of t, downloading the art first
// when it is missing. Any failure yields "". It does not take the cache lock.
func (m *Manager) FetchArt(ctx context.Context, t track.Info) string {
	entry := m.Locate(t)
	if entry.ArtPath != "" {
		return entry.ArtPath
	}
	return m.fetchArt(ctx, t, entry.LyricsPath)
}

// Warm resolves lyrics and art together and waits for both.
func (m *Manager) Warm(ctx context.Context, t track.Info) (Entry, error) {
	var entry Entry
	var artPath string

	var g errgroup.Group
	g.Go(func() error {
		var err error
		entry, err = m.Resolve(ctx, t)
		return err
	})
	g.Go(func() error {
		artPath = m.FetchArt(ctx, t)
		return nil
	})

	if err := g.Wait(); err != nil {
		return entry, err
	}
	if artPath != "" {
		entry.ArtPath = artPath
	}
	return entry, nil
}

// Invalidate removes the cached lyrics of entry so the next Resolve fetches
// them again. Directories and art are left alone.
func (m *Manager) Invalidate(entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := os.Remove(entry.LyricsPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &FilesystemError{Op: "remove", Path: entry.LyricsPath, Err: err}
	}
	return nil
}

// Refetch is Invalidate followed by Resolve.
func (m *Manager) Refetch(ctx context.Context, t track.Info) (Entry, error) {
	if err := m.Invalidate(m.Locate(t)); err != nil {
		return Entry{}, err
	}
	return m.Resolve(ctx, t)
}

// Reload re-reads the lyrics file of entry, typically after it was edited by
// hand. A missing file yields empty lyrics.
func (m *Manager) Reload(entry Entry) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(entry.LyricsPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		entry.Lyrics = ""
	case err != nil:
		return entry, &FilesystemError{Op: "read", Path: entry.LyricsPath, Err: err}
	default:
		entry.Lyrics = string(data)
	}
	entry.Cached = true
	entry.Err = nil
	return entry, nil
}

func (m *Manager) ensureDirs(lyricsPath string) error {
	albumDir := filepath.Dir(lyricsPath)
	artDir := filepath.Join(filepath.Dir(albumDir), artDirName)

	for _, dir := range []string{albumDir, artDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &FilesystemError{Op: "mkdir", Path: dir, Err: err}
		}
	}
	return nil
}

func (m *Manager) loadLyrics(ctx context.Context, t track.Info, path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return string(data), true, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", false, &FilesystemError{Op: "read", Path: path, Err: err}
	}

	if m.fetcher == nil {
		return "", false, errors.New("no lyrics source configured")
	}

	text, err := m.fetcher.Fetch(ctx, t.Artist, t.Title)
	if err != nil {
		slog.Info("lyrics fetch failed", "track", t.String(), "err", err)
		return "", false, err
	}

	if err := writeAtomic(path, []byte(text)); err != nil {
		// still show what we got, it just will not survive a restart
		slog.Warn("failed to persist lyrics", "path", path, "err", err)
	}
	return text, false, nil
}

func (m *Manager) fetchArt(ctx context.Context, t track.Info, lyricsPath string) string {
	if m.art == nil || t.ArtURL == "" {
		return ""
	}

	data, ext, err := m.art.Download(ctx, t.ArtURL)
	if err != nil {
		slog.Debug("album art unavailable", "url", t.ArtURL, "err", err)
		return ""
	}

	albumDir := filepath.Dir(lyricsPath)
	artDir := filepath.Join(filepath.Dir(albumDir), artDirName)
	if err := os.MkdirAll(artDir, 0o755); err != nil {
		slog.Debug("failed to create album art dir", "path", artDir, "err", err)
		return ""
	}

	path := filepath.Join(artDir, filepath.Base(albumDir)+ext)
	if err := writeAtomic(path, data); err != nil {
		slog.Debug("failed to store album art", "path", path, "err", err)
		return ""
	}
	return path
}

// writeAtomic writes to a uniquely named temp file next to path and renames
// it into place, so a concurrent reader never sees a partial file.
func writeAtomic(path string, data []byte) error {
	tmpPath := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+tmpSuffix)

	file, err := os.Create(tmpPath)
	if err != nil {
		return err
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	if err := file.Sync(); err != nil {
		file.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, path)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
