package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"karolbroda.com/lyricpane/internal/cache"
	"karolbroda.com/lyricpane/internal/track"
)

func TestPrintOnce(t *testing.T) {
	var buf bytes.Buffer
	trk := track.Info{Artist: "Daft Punk", Album: "Discovery", Title: "Digital Love"}
	printOnce(&buf, trk, cache.Entry{Lyrics: "why don't you play the game\n\nsecond stanza"}, 10)

	assert.Equal(t, "Artist: Daft Punk\nAlbum: Discovery\nSong: Digital Love\n\n"+
		"why don't\nyou play\nthe game\n\nsecond\nstanza\n", buf.String())
}

func TestPrintOnceFetchFailed(t *testing.T) {
	var buf bytes.Buffer
	printOnce(&buf, track.Info{Artist: "a", Title: "b"}, cache.Entry{Err: errors.New("lyrics fetch failed: lyrics not found")}, 50)
	assert.Contains(t, buf.String(), "lyrics fetch failed")
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "2.0 MB", formatBytes(2<<20))
}

func TestSortRecords(t *testing.T) {
	now := time.Now()
	records := []cache.Record{
		{Artist: "b", Title: "z", ModTime: now.Add(-time.Hour)},
		{Artist: "A", Title: "y", ModTime: now},
	}

	sortRecords(records, "artist")
	assert.Equal(t, "A", records[0].Artist)

	sortRecords(records, "title")
	assert.Equal(t, "y", records[0].Title)

	sortRecords(records, "date")
	assert.Equal(t, now, records[0].ModTime)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "5:01", formatDuration(301))
	assert.Equal(t, "0:00", formatDuration(-1))
}
