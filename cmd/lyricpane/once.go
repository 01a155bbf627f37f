package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	"karolbroda.com/lyricpane/internal/cache"
	"karolbroda.com/lyricpane/internal/track"
	"karolbroda.com/lyricpane/internal/wrap"
)

const defaultOnceWidth = 50

var onceWidth int

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "print the lyrics of the current track and exit",
	Long:  `prints the metadata and wrapped lyrics of the playing track to stdout, caching them like the viewer does.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		ctx, cancel := context.WithTimeout(cmd.Context(), startupTimeout)
		trk, err := playerService.Metadata(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to read current track: %w", err)
		}

		store, err := newStore(cfg)
		if err != nil {
			return err
		}

		entry, err := store.Warm(cmd.Context(), trk)
		if err != nil {
			return err
		}

		printOnce(os.Stdout, trk, entry, onceWidth)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(onceCmd)

	onceCmd.Flags().IntVarP(&onceWidth, "width", "w", defaultOnceWidth, "wrap width in columns")
}

func printOnce(w io.Writer, trk track.Info, entry cache.Entry, width int) {
	fmt.Fprintf(w, "Artist: %s\n", trk.Artist)
	fmt.Fprintf(w, "Album: %s\n", trk.Album)
	fmt.Fprintf(w, "Song: %s\n\n", trk.Title)

	if entry.Err != nil {
		fmt.Fprintln(w, entry.Err)
		return
	}

	for _, line := range wrap.Wrap(entry.Lyrics, width) {
		fmt.Fprintln(w, line)
	}
}
