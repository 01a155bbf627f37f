package main

import (
	"context"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	"karolbroda.com/lyricpane/internal/control"
)

var moveCmd = &cobra.Command{
	Use:       "move <up|down|top|bottom>",
	Short:     "scroll a running viewer",
	Long:      `scrolls a running lyricpane over d-bus, handy for window manager key bindings.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"up", "down", "top", "bottom"},
	RunE: func(cmd *cobra.Command, args []string) error {
		bus, err := dbus.ConnectSessionBus()
		if err != nil {
			return fmt.Errorf("failed to connect to session bus: %w", err)
		}
		defer bus.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Second)
		defer cancel()

		return control.Send(ctx, bus, args[0])
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
}
