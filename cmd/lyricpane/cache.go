package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"karolbroda.com/lyricpane/internal/cache"
)

var (
	// flags for cache list
	cacheSortBy  string
	cacheConfirm bool
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "manage the lyrics cache",
	Long:  `manage cached lyrics, including viewing statistics, listing entries, and clearing the cache.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "show cache statistics",
	Long:  `display cache statistics including number of songs, total size, and cache location.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := cacheManager(cmd)

		count, sizeBytes, err := store.Stats()
		if err != nil {
			return fmt.Errorf("failed to get cache stats: %w", err)
		}

		fmt.Println("cache statistics:")
		fmt.Printf("  location: %s\n", store.Root())
		fmt.Printf("  songs:    %d\n", count)
		fmt.Printf("  size:     %s\n", formatBytes(sizeBytes))

		return nil
	},
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "list all cached songs",
	Long:  `list all songs in the cache with their album and cache date.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := cacheManager(cmd).List()
		if err != nil {
			return fmt.Errorf("failed to list cache: %w", err)
		}

		if len(records) == 0 {
			fmt.Println("cache is empty")
			return nil
		}

		sortRecords(records, cacheSortBy)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ARTIST\tALBUM\tTITLE\tSIZE\tCACHED")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Artist, r.Album, r.Title, formatBytes(r.Size), r.ModTime.Format("2006-01-02"))
		}
		w.Flush()

		fmt.Printf("\ntotal: %d songs\n", len(records))

		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "clear all cached lyrics and album art",
	Long:  `remove everything in the cache directory. use --confirm to skip the confirmation prompt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := cacheManager(cmd)

		if !cacheConfirm {
			fmt.Printf("are you sure you want to clear %s? (y/n): ", store.Root())
			var response string
			fmt.Scanln(&response)
			if strings.ToLower(response) != "y" && strings.ToLower(response) != "yes" {
				fmt.Println("cancelled")
				return nil
			}
		}

		if err := store.Clear(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}

		fmt.Println("cache cleared successfully")
		return nil
	},
}

var cacheDeleteCmd = &cobra.Command{
	Use:   "delete <artist> <album> <title>",
	Short: "remove specific song from cache",
	Long:  `remove the cached lyrics of one song so they are fetched again next time it plays.`,
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		artist, album, title := args[0], args[1], args[2]

		removed, err := cacheManager(cmd).Delete(artist, album, title)
		if err != nil {
			return fmt.Errorf("failed to delete from cache: %w", err)
		}
		if !removed {
			return fmt.Errorf("song not found in cache")
		}

		fmt.Printf("deleted '%s - %s' from cache\n", artist, title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheDeleteCmd)

	cacheListCmd.Flags().StringVar(&cacheSortBy, "sort", "date", "sort by: date, artist, title")

	cacheClearCmd.Flags().BoolVar(&cacheConfirm, "confirm", false, "skip confirmation prompt")
}

// cacheManager opens the cache without fetchers; these commands never hit
// the network.
func cacheManager(cmd *cobra.Command) *cache.Manager {
	return cache.NewManager(loadConfig(cmd).CacheDir, nil, nil)
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func sortRecords(records []cache.Record, sortBy string) {
	switch sortBy {
	case "artist":
		sort.SliceStable(records, func(i, j int) bool {
			return strings.ToLower(records[i].Artist) < strings.ToLower(records[j].Artist)
		})
	case "title":
		sort.SliceStable(records, func(i, j int) bool {
			return strings.ToLower(records[i].Title) < strings.ToLower(records[j].Title)
		})
	default:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].ModTime.After(records[j].ModTime)
		})
	}
}
