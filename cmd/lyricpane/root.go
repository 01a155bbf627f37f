package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"karolbroda.com/lyricpane/internal/config"
	"karolbroda.com/lyricpane/internal/player"
)

var (
	// global flags
	mprisService string
	lrclibURL    string
	cacheDir     string
	editor       string
	hideAlbumArt bool
	noRemote     bool
	debug        bool
)

var rootCmd = &cobra.Command{
	Use:   "lyricpane",
	Short: "terminal lyrics viewer for the playing track",
	Long: `lyricpane shows the lyrics of whatever your mpris player is playing, next to
its album art, and follows along as the track changes.

lyrics are cached as plain text files you can edit from inside the viewer.
when run without a subcommand, it starts the interactive viewer.`,
	Version: "1.0.0",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runViewer(cmd, args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&mprisService, "mpris-service", "m", "", "mpris player to follow (e.g. spotify or org.mpris.MediaPlayer2.vlc)")
	rootCmd.PersistentFlags().StringVar(&lrclibURL, "lrclib-url", "", "custom lrclib get endpoint")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "lyrics cache directory")
	rootCmd.PersistentFlags().StringVar(&editor, "editor", "", "editor used to edit lyrics (defaults to $EDITOR)")
	rootCmd.PersistentFlags().BoolVarP(&hideAlbumArt, "hide-album-art", "A", false, "start with album art hidden")
	rootCmd.PersistentFlags().BoolVar(&noRemote, "no-remote", false, "do not expose the d-bus remote control")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write debug logs to the log file")
}

// loadConfig reads the environment and lets flags override it.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()

	if mprisService != "" {
		cfg.MprisService = player.ServiceName(mprisService)
	}
	if lrclibURL != "" {
		cfg.LrclibURL = lrclibURL
	}
	if cacheDir != "" {
		cfg.CacheDir = cacheDir
	}
	if editor != "" {
		cfg.Editor = editor
	}
	if cmd.Flags().Changed("hide-album-art") {
		cfg.HideAlbumArt = hideAlbumArt
	}
	if noRemote {
		cfg.RemoteControl = false
	}
	if debug {
		cfg.Debug = true
	}

	return cfg
}

// setupLogging points slog at the log file when debugging. Stdout belongs to
// the viewer, so without --debug logs are dropped.
func setupLogging(cfg *config.Config) (func(), error) {
	if !cfg.Debug {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() {}, nil
	}

	f, err := tea.LogToFile(cfg.LogFile, "lyricpane")
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	slog.Debug("logging started", "file", cfg.LogFile)

	return func() { _ = f.Close() }, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
