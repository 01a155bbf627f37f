package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	"karolbroda.com/lyricpane/internal/artwork"
	"karolbroda.com/lyricpane/internal/cache"
	"karolbroda.com/lyricpane/internal/config"
	"karolbroda.com/lyricpane/internal/control"
	"karolbroda.com/lyricpane/internal/lyrics"
	"karolbroda.com/lyricpane/internal/player"
	"karolbroda.com/lyricpane/internal/terminal"
	"karolbroda.com/lyricpane/internal/ui"
	"karolbroda.com/lyricpane/internal/view"
)

const startupTimeout = 2 * time.Second

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "start the interactive lyrics viewer",
	Long:  `starts the terminal lyrics viewer for the track currently playing in the configured mpris player.`,
	RunE:  runViewer,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runViewer(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)

	closeLog, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	bus, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	defer bus.Close()

	playerService, err := connectPlayer(cmd.Context(), bus, cfg)
	if err != nil {
		return err
	}

	store, err := newStore(cfg)
	if err != nil {
		return err
	}

	model := ui.NewModel(ui.ModelConfig{
		Player:       playerService,
		Store:        store,
		Editor:       cfg.Editor,
		HideAlbumArt: cfg.HideAlbumArt,
		TermCaps:     terminal.DetectCapabilities(),
		PollInterval: cfg.PollInterval,
		Size: func() (int, int, error) {
			return terminal.Size(os.Stdout.Fd())
		},
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	guard := terminal.NewGuard(os.Stdout, func(sig os.Signal) {
		slog.Info("stopping on signal", "signal", sig.String())
		p.Quit()
	})
	defer guard.Release()

	if cfg.RemoteControl {
		remote, err := control.Export(bus, func(ev view.Event) {
			p.Send(ui.EventMsg{Event: ev})
		})
		if err != nil {
			slog.Warn("remote control disabled", "err", err)
		} else {
			defer remote.Close()
		}
	}

	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running bubble tea: %w", err)
	}

	if m, ok := final.(ui.Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}

// connectPlayer checks the player once before taking over the screen. A
// player that is not there at startup is an error; later misses are not.
func connectPlayer(ctx context.Context, bus *dbus.Conn, cfg *config.Config) (*player.Service, error) {
	playerService, err := player.NewService(bus, cfg.MprisService)
	if err != nil {
		return nil, fmt.Errorf("failed to create player service: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	if _, err := playerService.Metadata(ctx); err != nil {
		return nil, fmt.Errorf("can't access %s, is it running? (%w)", cfg.MprisService, err)
	}
	return playerService, nil
}

func newStore(cfg *config.Config) (*cache.Manager, error) {
	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		return nil, &cache.FilesystemError{Op: "mkdir", Path: cfg.CacheDir, Err: err}
	}
	return cache.NewManager(cfg.CacheDir, lyrics.NewClient(cfg.LrclibURL), artwork.NewDownloader()), nil
}
