package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"karolbroda.com/lyricpane/internal/cache"
	"karolbroda.com/lyricpane/internal/track"
	"karolbroda.com/lyricpane/internal/view"
)

// runEffects turns the effects of a transition into commands. Anything that
// can block runs inside the returned commands, never here.
func (m *Model) runEffects(effects []view.Effect) []tea.Cmd {
	var cmds []tea.Cmd
	for _, eff := range effects {
		if cmd := m.runEffect(eff); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

func (m *Model) runEffect(eff view.Effect) tea.Cmd {
	switch e := eff.(type) {
	case view.LoadTrack:
		return tea.Batch(m.resolveCmd(e.Track, false), m.artCmd(e.Track))

	case view.Refetch:
		return tea.Batch(m.resolveCmd(e.Track, true), m.artCmd(e.Track))

	case view.Reload:
		store := m.store
		if store == nil {
			return nil
		}
		return func() tea.Msg {
			entry, err := store.Reload(e.Entry)
			return EventMsg{Event: view.LyricsLoaded{Track: e.Track, Entry: entry, Err: err}}
		}

	case view.OpenEditor:
		cmd, err := editorCommand(m.editor, e.Path)
		if err != nil {
			return eventCmd(view.StatusMessage{Text: err.Error()})
		}
		return tea.ExecProcess(cmd, func(err error) tea.Msg {
			return EventMsg{Event: view.EditorClosed{Err: err}}
		})

	case view.Transport:
		return m.transportCmd(e.Kind)

	case view.ClearScreen:
		return tea.ClearScreen

	case view.Exit:
		m.err = e.Err
		m.quitting = true
		return tea.Quit
	}

	return nil
}

func (m *Model) resolveCmd(t track.Info, refetch bool) tea.Cmd {
	store, timeout := m.store, m.fetchTimeout
	if store == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var entry cache.Entry
		var err error
		if refetch {
			entry, err = store.Refetch(ctx, t)
		} else {
			entry, err = store.Resolve(ctx, t)
		}
		return EventMsg{Event: view.LyricsLoaded{Track: t, Entry: entry, Err: err}}
	}
}

// artCmd fetches album art independently of the lyrics.
func (m *Model) artCmd(t track.Info) tea.Cmd {
	store, timeout := m.store, m.fetchTimeout
	if store == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return EventMsg{Event: view.ArtFetched{Track: t, Path: store.FetchArt(ctx, t)}}
	}
}

func (m *Model) transportCmd(kind view.TransportKind) tea.Cmd {
	player, timeout := m.player, m.callTimeout
	if player == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var err error
		switch kind {
		case view.TransportNext:
			err = player.Next(ctx)
		case view.TransportPrevious:
			err = player.Previous(ctx)
		case view.TransportPlayPause:
			err = player.PlayPause(ctx)
		}
		if err != nil {
			slog.Warn("transport command failed", "kind", kind.String(), "err", err)
			return EventMsg{Event: view.StatusMessage{Text: fmt.Sprintf("%s failed", kind)}}
		}
		return nil
	}
}

// editorCommand builds the editor invocation. The editor setting may carry
// its own arguments, e.g. "nvim -u NONE".
func editorCommand(editor string, path string) (*exec.Cmd, error) {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		return nil, errors.New("editor not configured, set $EDITOR")
	}
	args := append(fields[1:], path)
	return exec.Command(fields[0], args...), nil
}

func eventCmd(ev view.Event) tea.Cmd {
	return func() tea.Msg {
		return EventMsg{Event: ev}
	}
}
