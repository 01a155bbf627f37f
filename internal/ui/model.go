package ui

import (
	"context"
	"image"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"karolbroda.com/lyricpane/internal/artwork"
	"karolbroda.com/lyricpane/internal/cache"
	"karolbroda.com/lyricpane/internal/config"
	"karolbroda.com/lyricpane/internal/terminal"
	"karolbroda.com/lyricpane/internal/track"
	"karolbroda.com/lyricpane/internal/view"
)

// Player is the now-playing source.
type Player interface {
	Metadata(ctx context.Context) (track.Info, error)
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	PlayPause(ctx context.Context) error
}

// Store resolves tracks to cached lyrics and art.
type Store interface {
	Resolve(ctx context.Context, t track.Info) (cache.Entry, error)
	Refetch(ctx context.Context, t track.Info) (cache.Entry, error)
	Reload(entry cache.Entry) (cache.Entry, error)
	FetchArt(ctx context.Context, t track.Info) string
}

// SizeFunc reports the terminal size in rows and columns.
type SizeFunc func() (int, int, error)

type TickMsg time.Time

// EventMsg carries a view event into the program from outside the key
// handler: async results and the remote control surface.
type EventMsg struct {
	Event view.Event
}

type pollMsg struct {
	now   time.Time
	track track.Info
	err   error
	rows  int
	cols  int
	sized bool
}

type artLoadedMsg struct {
	path    string
	image   image.Image
	palette *artwork.Palette
	err     error
}

type Model struct {
	player       Player
	store        Store
	editor       string
	termCaps     *terminal.Capabilities
	size         SizeFunc
	pollInterval time.Duration
	callTimeout  time.Duration
	fetchTimeout time.Duration

	state view.State
	frame string

	artPath string
	art     image.Image
	palette *artwork.Palette

	sourceDown bool
	err        error
	quitting   bool
}

type ModelConfig struct {
	Player       Player
	Store        Store
	Editor       string
	HideAlbumArt bool
	TermCaps     *terminal.Capabilities
	Size         SizeFunc
	PollInterval time.Duration
}

func NewModel(cfg ModelConfig) Model {
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = config.PollInterval
	}

	termCaps := cfg.TermCaps
	if termCaps == nil {
		termCaps = &terminal.Capabilities{}
	}

	return Model{
		player:       cfg.Player,
		store:        cfg.Store,
		editor:       cfg.Editor,
		termCaps:     termCaps,
		size:         cfg.Size,
		pollInterval: pollInterval,
		callTimeout:  config.PlayerCallTimeout,
		fetchTimeout: 2 * config.HTTPTimeoutSeconds * time.Second,
		state:        view.New(0, 0, cfg.HideAlbumArt, cfg.Editor != ""),
		palette:      artwork.DefaultPalette(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.pollCmd()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.pollInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// pollCmd asks the player and the terminal for their current state off the
// update goroutine. Only one poll is in flight at a time; the next tick is
// scheduled when its result arrives.
func (m Model) pollCmd() tea.Cmd {
	player, size, timeout := m.player, m.size, m.callTimeout

	return func() tea.Msg {
		msg := pollMsg{now: time.Now()}

		if player != nil {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			msg.track, msg.err = player.Metadata(ctx)
			cancel()
		}

		if size != nil {
			if rows, cols, err := size(); err == nil {
				msg.rows, msg.cols, msg.sized = rows, cols, true
			}
		}

		return msg
	}
}

func (m Model) State() view.State { return m.state }
func (m Model) Err() error        { return m.err }
func (m Model) IsQuitting() bool  { return m.quitting }
