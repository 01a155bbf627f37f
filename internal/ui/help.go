package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"karolbroda.com/lyricpane/internal/artwork"
	"karolbroda.com/lyricpane/internal/view"
)

// renderHelp draws the key binding table centered in a width x height box.
func renderHelp(palette *artwork.Palette, width int, height int) []string {
	if height <= 0 {
		return nil
	}

	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Primary)).Bold(true).Padding(0, 1)
	actionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Secondary)).Padding(0, 1)
	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Dim)).Padding(0, 1)

	rows := make([][]string, 0, len(view.Help()))
	for _, binding := range view.Help() {
		rows = append(rows, []string{binding[0], binding[1]})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Dim))).
		Headers("key", "action").
		Rows(rows...).
		StyleFunc(func(row int, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return keyStyle
			default:
				return actionStyle
			}
		})

	placed := lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, t.Render())
	lines := strings.Split(placed, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	return lines
}
