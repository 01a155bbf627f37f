package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Record describes one cached lyrics file.
type Record struct {
	Artist  string
	Album   string
	Title   string
	Size    int64
	ModTime time.Time
}

// List walks the tree and returns every stored lyrics file. A missing root
// is an empty cache.
func (m *Manager) List() ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var records []Record

	artists, err := readDirs(m.root)
	if err != nil {
		return nil, err
	}
	for _, artist := range artists {
		albums, err := readDirs(filepath.Join(m.root, artist))
		if err != nil {
			return nil, err
		}
		for _, album := range albums {
			if album == artDirName {
				continue
			}
			dir := filepath.Join(m.root, artist, album)
			songs, err := os.ReadDir(dir)
			if err != nil {
				return nil, &FilesystemError{Op: "list", Path: dir, Err: err}
			}
			for _, song := range songs {
				if song.IsDir() || isTempFile(song.Name()) {
					continue
				}
				info, err := song.Info()
				if err != nil {
					continue
				}
				records = append(records, Record{
					Artist:  artist,
					Album:   album,
					Title:   song.Name(),
					Size:    info.Size(),
					ModTime: info.ModTime(),
				})
			}
		}
	}

	return records, nil
}

// Stats returns the number of lyrics files and the total size of the tree,
// album art included.
func (m *Manager) Stats() (int, int64, error) {
	records, err := m.List()
	if err != nil {
		return 0, 0, err
	}

	var size int64
	err = filepath.WalkDir(m.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			size += info.Size()
		}
		return nil
	})
	if err != nil {
		return 0, 0, &FilesystemError{Op: "stat", Path: m.root, Err: err}
	}

	return len(records), size, nil
}

// Delete removes the lyrics stored under the given names. It reports
// whether anything was removed.
func (m *Manager) Delete(artist string, album string, title string) (bool, error) {
	path := filepath.Join(m.root, Sanitize(artist), Sanitize(album), Sanitize(title))
	if !fileExists(path) {
		return false, nil
	}
	if err := m.Invalidate(Entry{LyricsPath: path}); err != nil {
		return false, err
	}
	return true, nil
}

// Clear removes everything below the root, leaving the root itself.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := os.ReadDir(m.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &FilesystemError{Op: "clear", Path: m.root, Err: err}
	}

	for _, entry := range entries {
		path := filepath.Join(m.root, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return &FilesystemError{Op: "clear", Path: path, Err: err}
		}
	}
	return nil
}

func readDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &FilesystemError{Op: "list", Path: dir, Err: err}
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func isTempFile(name string) bool {
	return strings.HasPrefix(name, ".") && strings.HasSuffix(name, tmpSuffix)
}
