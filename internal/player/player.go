package player

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"slices"
	"strings"

	"github.com/godbus/dbus/v5"

	"karolbroda.com/lyricpane/internal/track"
)

const (
	mprisPath        = "/org/mpris/MediaPlayer2"
	mprisPrefix      = "org.mpris.MediaPlayer2."
	mprisPlayerIface = "org.mpris.MediaPlayer2.Player"

	spotifyArtBase = "https://i.scdn.co/image/"
)

// ErrUnavailable means the player is not on the bus or returned nothing
// usable.
var ErrUnavailable = errors.New("player unavailable")

// Service polls one MPRIS player for its metadata and sends it transport
// commands. It holds no state of its own; every call asks the bus.
type Service struct {
	bus     *dbus.Conn
	service string
}

func NewService(bus *dbus.Conn, mprisService string) (*Service, error) {
	if bus == nil {
		return nil, errors.New("nil dbus connection")
	}
	if mprisService == "" {
		return nil, errors.New("empty mpris service name")
	}

	return &Service{bus: bus, service: mprisService}, nil
}

func (s *Service) Name() string { return s.service }

// Metadata returns what the player is playing now. Any failure, including a
// player that is running but has no track, is reported as ErrUnavailable.
func (s *Service) Metadata(ctx context.Context) (track.Info, error) {
	var variant dbus.Variant
	err := s.object().CallWithContext(ctx, "org.freedesktop.DBus.Properties.Get", 0, mprisPlayerIface, "Metadata").Store(&variant)
	if err != nil {
		return track.Info{}, fmt.Errorf("%w: failed to get metadata: %w", ErrUnavailable, err)
	}

	metadata, ok := variant.Value().(map[string]dbus.Variant)
	if !ok {
		return track.Info{}, fmt.Errorf("%w: unexpected metadata type %T", ErrUnavailable, variant.Value())
	}

	info := FromMetadata(metadata)
	if !info.IsValid() {
		return track.Info{}, fmt.Errorf("%w: missing title or artist in metadata (title=%q, artist=%q)", ErrUnavailable, info.Title, info.Artist)
	}

	return info, nil
}

// PlaybackStatus returns "Playing", "Paused" or "Stopped".
func (s *Service) PlaybackStatus(ctx context.Context) (string, error) {
	var variant dbus.Variant
	err := s.object().CallWithContext(ctx, "org.freedesktop.DBus.Properties.Get", 0, mprisPlayerIface, "PlaybackStatus").Store(&variant)
	if err != nil {
		return "", fmt.Errorf("%w: failed to get playback status: %w", ErrUnavailable, err)
	}

	status, ok := variant.Value().(string)
	if !ok {
		return "", fmt.Errorf("%w: unexpected playback status type %T", ErrUnavailable, variant.Value())
	}
	return status, nil
}

func (s *Service) Next(ctx context.Context) error {
	return s.call(ctx, "Next")
}

func (s *Service) Previous(ctx context.Context) error {
	return s.call(ctx, "Previous")
}

func (s *Service) PlayPause(ctx context.Context) error {
	return s.call(ctx, "PlayPause")
}

func (s *Service) call(ctx context.Context, method string) error {
	call := s.object().CallWithContext(ctx, mprisPlayerIface+"."+method, 0)
	if call.Err != nil {
		return fmt.Errorf("failed to call %s on %s: %w", method, s.service, call.Err)
	}
	return nil
}

func (s *Service) object() dbus.BusObject {
	return s.bus.Object(s.service, mprisPath)
}

// List returns the bus names of every MPRIS player on the bus, sorted.
func List(ctx context.Context, bus *dbus.Conn) ([]string, error) {
	var names []string
	err := bus.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.ListNames", 0).Store(&names)
	if err != nil {
		return nil, fmt.Errorf("failed to list bus names: %w", err)
	}

	var players []string
	for _, name := range names {
		if strings.HasPrefix(name, mprisPrefix) {
			players = append(players, name)
		}
	}
	slices.Sort(players)
	return players, nil
}

// ServiceName expands a short player name such as "spotify" to its MPRIS
// bus name. Full names are returned unchanged.
func ServiceName(name string) string {
	if name == "" || strings.HasPrefix(name, mprisPrefix) {
		return name
	}
	return mprisPrefix + name
}

// FromMetadata reads the xesam/mpris fields the viewer cares about.
func FromMetadata(metadata map[string]dbus.Variant) track.Info {
	return track.Info{
		Title:        extractString(metadata, "xesam:title"),
		Artist:       extractArtist(metadata, "xesam:artist"),
		Album:        extractString(metadata, "xesam:album"),
		ArtURL:       NormalizeArtURL(extractString(metadata, "mpris:artUrl")),
		TrackID:      extractString(metadata, "mpris:trackid"),
		DurationSecs: extractDurationSeconds(metadata, "mpris:length"),
	}
}

// NormalizeArtURL rewrites Spotify's open.spotify.com art links, which serve
// an html page, to the image CDN. Other URLs pass through.
func NormalizeArtURL(artURL string) string {
	u, err := url.Parse(artURL)
	if err != nil || u.Host != "open.spotify.com" {
		return artURL
	}

	id := path.Base(u.Path)
	if id == "" || id == "." || id == "/" {
		return artURL
	}
	return spotifyArtBase + id
}

func extractString(metadata map[string]dbus.Variant, key string) string {
	variant, exists := metadata[key]
	if !exists {
		return ""
	}

	switch typed := variant.Value().(type) {
	case string:
		return typed
	case dbus.ObjectPath:
		return string(typed)
	}
	return ""
}

func extractArtist(metadata map[string]dbus.Variant, key string) string {
	variant, exists := metadata[key]
	if !exists {
		return ""
	}

	switch typed := variant.Value().(type) {
	case []string:
		if len(typed) > 0 {
			return typed[0]
		}
	case string:
		return typed
	}
	return ""
}

func extractDurationSeconds(metadata map[string]dbus.Variant, key string) int64 {
	variant, exists := metadata[key]
	if !exists {
		return 0
	}

	switch typed := variant.Value().(type) {
	case int64:
		if typed > 0 {
			return typed / 1_000_000
		}
	case uint64:
		return int64(typed / 1_000_000)
	}
	return 0
}
