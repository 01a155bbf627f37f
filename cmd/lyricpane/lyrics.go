package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"karolbroda.com/lyricpane/internal/lyrics"
	"karolbroda.com/lyricpane/internal/track"
)

var lyricsAlbum string

var lyricsCmd = &cobra.Command{
	Use:   "lyrics",
	Short: "lyrics search and pre-fetching",
	Long:  `look lyrics up on lrclib or pre-fetch them into the cache.`,
}

var lyricsSearchCmd = &cobra.Command{
	Use:   "search <artist> <title>",
	Short: "search for lyrics on lrclib",
	Long:  `search for lyrics on lrclib.net and display availability information.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		artist, title := args[0], args[1]
		cfg := loadConfig(cmd)

		fmt.Printf("searching for: %s - %s\n\n", artist, title)

		data, err := lyrics.NewClient(cfg.LrclibURL).Lookup(cmd.Context(), &lyrics.TrackParams{
			Title:  title,
			Artist: artist,
			Album:  lyricsAlbum,
		})
		if err != nil {
			if lyrics.IsNotFound(err) {
				return fmt.Errorf("no lyrics on lrclib for %s - %s", artist, title)
			}
			return fmt.Errorf("lyrics lookup failed: %w", err)
		}

		fmt.Printf("found lyrics:\n")
		fmt.Printf("  track:        %s\n", data.TrackName)
		fmt.Printf("  artist:       %s\n", data.ArtistName)
		if data.AlbumName != "" {
			fmt.Printf("  album:        %s\n", data.AlbumName)
		}
		if data.Duration > 0 {
			fmt.Printf("  duration:     %.0fs\n", data.Duration)
		}
		fmt.Printf("  instrumental: %v\n", data.Instrumental)
		fmt.Printf("  plain lines:  %s\n", lineCount(data.PlainLyrics))
		fmt.Printf("  synced lines: %s\n", lineCount(data.SyncedLyrics))

		fmt.Println("\nuse 'lyricpane lyrics fetch' to save to cache")

		return nil
	},
}

var lyricsFetchCmd = &cobra.Command{
	Use:   "fetch <artist> <title>",
	Short: "pre-fetch and cache lyrics",
	Long:  `fetch lyrics from lrclib.net into the cache tree, exactly where the viewer will look for them.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)

		store, err := newStore(cfg)
		if err != nil {
			return err
		}

		trk := track.Info{Artist: args[0], Title: args[1], Album: lyricsAlbum}
		entry, err := store.Warm(cmd.Context(), trk)
		if err != nil {
			return err
		}
		if entry.Err != nil {
			return entry.Err
		}

		if entry.Cached {
			fmt.Printf("'%s' is already cached\n", trk.String())
		} else {
			fmt.Printf("cached successfully: %s\n", trk.String())
		}
		fmt.Printf("path: %s\n", entry.LyricsPath)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(lyricsCmd)

	lyricsCmd.AddCommand(lyricsSearchCmd)
	lyricsCmd.AddCommand(lyricsFetchCmd)

	lyricsCmd.PersistentFlags().StringVar(&lyricsAlbum, "album", "", "album name, used for the lookup and the cache path")
}

func lineCount(text string) string {
	if text == "" {
		return "none"
	}
	return fmt.Sprint(len(strings.Split(text, "\n")))
}
