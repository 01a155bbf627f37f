package ui

import (
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"karolbroda.com/lyricpane/internal/artwork"
	"karolbroda.com/lyricpane/internal/view"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m, cmds = m.dispatch(view.TerminalResized{Rows: msg.Height, Cols: msg.Width})

	case tea.KeyMsg:
		var effects []view.Effect
		m.state, effects = view.Key(m.state, msg.String(), time.Now())
		cmds = m.runEffects(effects)

	case TickMsg:
		return m, m.pollCmd()

	case pollMsg:
		m, cmds = m.handlePoll(msg)
		cmds = append(cmds, m.tickCmd())

	case EventMsg:
		if msg.Event != nil {
			m, cmds = m.dispatch(msg.Event)
		}

	case artLoadedMsg:
		m.handleArtLoaded(msg)
	}

	if cmd := m.syncArt(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	m.refreshFrame()

	return m, tea.Batch(cmds...)
}

func (m Model) dispatch(ev view.Event) (Model, []tea.Cmd) {
	var effects []view.Effect
	m.state, effects = view.Apply(m.state, ev)
	return m, m.runEffects(effects)
}

func (m Model) handlePoll(msg pollMsg) (Model, []tea.Cmd) {
	var cmds []tea.Cmd

	if msg.err != nil {
		// the player went away or is between tracks; keep showing what we have
		if !m.sourceDown {
			slog.Info("now-playing source unavailable", "err", msg.err)
			m.sourceDown = true
		}
	} else {
		if m.sourceDown {
			slog.Info("now-playing source back")
			m.sourceDown = false
		}
		var more []tea.Cmd
		m, more = m.dispatch(view.TrackChanged{Track: msg.track})
		cmds = append(cmds, more...)
	}

	if msg.sized {
		var more []tea.Cmd
		m, more = m.dispatch(view.TerminalResized{Rows: msg.rows, Cols: msg.cols})
		cmds = append(cmds, more...)
	}

	var more []tea.Cmd
	m, more = m.dispatch(view.Tick{Now: msg.now})
	cmds = append(cmds, more...)

	return m, cmds
}

// syncArt starts loading the album art of the current entry when it differs
// from what is on screen.
func (m *Model) syncArt() tea.Cmd {
	path := m.state.Entry.ArtPath
	if path == m.artPath {
		return nil
	}

	m.artPath = path
	m.art = nil
	m.palette = artwork.DefaultPalette()
	m.state.Dirty = true

	if path == "" {
		return nil
	}
	return loadArtCmd(path)
}

func (m *Model) handleArtLoaded(msg artLoadedMsg) {
	if msg.path != m.artPath {
		return
	}
	if msg.err != nil {
		slog.Debug("failed to load album art", "path", msg.path, "err", msg.err)
		return
	}
	m.art = msg.image
	m.palette = msg.palette
	m.state.Dirty = true
}

func (m *Model) refreshFrame() {
	if !m.state.Dirty {
		return
	}
	m.frame = m.render(time.Now())
	m.state.Dirty = false
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.frame
}

func loadArtCmd(path string) tea.Cmd {
	return func() tea.Msg {
		img, err := artwork.Load(path)
		if err != nil {
			return artLoadedMsg{path: path, err: err}
		}
		if img == nil {
			return artLoadedMsg{path: path, err: errors.New("empty image")}
		}
		return artLoadedMsg{path: path, image: img, palette: artwork.ExtractPalette(img)}
	}
}
