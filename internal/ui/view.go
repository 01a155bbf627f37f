package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"karolbroda.com/lyricpane/internal/artwork"
	"karolbroda.com/lyricpane/internal/colors"
	"karolbroda.com/lyricpane/internal/terminal"
	"karolbroda.com/lyricpane/internal/view"
)

const (
	artMargin  = 2
	minArtCols = 8
	ellipsis   = "…"
)

// render draws the whole frame: the header rows, then the lyrics viewport
// with album art on the right half.
func (m Model) render(now time.Time) string {
	s := m.state
	if s.Rows <= 0 || s.Cols <= 0 {
		return ""
	}

	palette := m.palette
	if palette == nil {
		palette = artwork.DefaultPalette()
	}

	lines := m.renderHeader(palette)
	if s.HelpVisible(now) {
		lines = append(lines, renderHelp(palette, s.Cols, s.VisibleCount)...)
	} else {
		lines = append(lines, m.renderBody(palette)...)
	}

	if len(lines) > s.Rows {
		lines = lines[:s.Rows]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHeader(palette *artwork.Palette) []string {
	s := m.state

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Dim))
	artistStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Secondary))
	albumStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Secondary))
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Dim)).Italic(true)

	artist, album, title := "-", "-", "-"
	if s.Track != nil {
		artist = orDash(s.Track.Artist)
		album = orDash(s.Track.Album)
		title = orDash(s.Track.Title)
	}

	lines := []string{
		labelStyle.Render("Artist: ") + artistStyle.Render(artist),
		labelStyle.Render("Album:  ") + albumStyle.Render(album),
		labelStyle.Render("Song:   ") + colors.RenderGradientText(title, palette.Gradient, true),
		statusStyle.Render(s.Status),
	}

	for i, line := range lines {
		lines[i] = ansi.Truncate(line, s.Cols, ellipsis)
	}
	return lines[:view.HeaderRows]
}

func (m Model) renderBody(palette *artwork.Palette) []string {
	s := m.state
	if s.VisibleCount == 0 {
		return nil
	}

	leftWidth := s.Cols
	showArt := s.ArtShown() && m.art != nil
	if s.ArtShown() {
		leftWidth = s.Cols / 2
	}

	artCols := s.Cols - leftWidth - artMargin
	if artCols < minArtCols {
		showArt = false
	}

	var artLines []string
	var kittyImage string
	if showArt {
		artRows := min(s.VisibleCount, artCols/2)
		if m.termCaps.SupportsKittyGraphics {
			kittyImage = terminal.EncodeImageForKitty(m.art, artCols, artRows)
		}
		if kittyImage == "" {
			artLines = artwork.RenderHalfBlockArt(m.art, artCols, artRows)
		}
	}

	lyricStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(palette.Primary))
	page := s.Page()

	lines := make([]string, s.VisibleCount)
	for i := range lines {
		var line strings.Builder

		if i < len(page) {
			text := ansi.Truncate(page[i], leftWidth, ellipsis)
			line.WriteString(lyricStyle.Render(text))
			line.WriteString(strings.Repeat(" ", max(0, leftWidth-ansi.StringWidth(text))))
		} else if showArt {
			line.WriteString(strings.Repeat(" ", leftWidth))
		}

		if showArt {
			line.WriteString(strings.Repeat(" ", artMargin))
			switch {
			case i == 0 && kittyImage != "":
				line.WriteString(kittyImage)
			case i < len(artLines):
				line.WriteString(artLines[i])
			}
		}

		lines[i] = line.String()
	}

	if m.termCaps.SupportsKittyGraphics {
		lines[0] = terminal.DeleteKittyImages() + lines[0]
	}

	return lines
}

func orDash(text string) string {
	if text == "" {
		return "-"
	}
	return text
}
