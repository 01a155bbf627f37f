// Package wrap turns lyric text into display lines for a given column width
// and slices those lines into pages.
package wrap

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// artGutter is the gap kept between the lyrics column and the album art.
const artGutter = 2

// Wrap splits text into logical lines and greedily word-wraps each one to
// width display columns. A word is only broken when it alone is wider than
// width. Blank logical lines are kept so stanza breaks survive.
//
// A width below 1 is treated as 1.
func Wrap(text string, width int) []string {
	if text == "" {
		return nil
	}
	if width < 1 {
		width = 1
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")

	var lines []string
	for _, logical := range strings.Split(text, "\n") {
		lines = append(lines, wrapLine(logical, width)...)
	}
	return lines
}

// Width is the usable lyrics width for a terminal of cols columns. The album
// art takes the right half of the screen while it is shown.
func Width(cols int, albumHidden bool) int {
	width := cols
	if !albumHidden {
		width = cols/2 - artGutter
	}
	if width < 1 {
		return 1
	}
	return width
}

// Page returns the window of at most count lines starting at offset. Out of
// range requests yield an empty page rather than panicking.
func Page(lines []string, offset int, count int) []string {
	if offset < 0 {
		offset = 0
	}
	if count <= 0 || offset >= len(lines) {
		return nil
	}
	end := offset + count
	if end > len(lines) {
		end = len(lines)
	}
	return lines[offset:end]
}

func wrapLine(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var current strings.Builder
	currentWidth := 0

	for _, word := range words {
		wordWidth := runewidth.StringWidth(word)

		if current.Len() > 0 {
			if currentWidth+1+wordWidth <= width {
				current.WriteByte(' ')
				current.WriteString(word)
				currentWidth += 1 + wordWidth
				continue
			}
			lines = append(lines, current.String())
			current.Reset()
			currentWidth = 0
		}

		for wordWidth > width {
			head, tail := splitWord(word, width)
			lines = append(lines, head)
			word = tail
			wordWidth = runewidth.StringWidth(word)
		}

		current.WriteString(word)
		currentWidth = wordWidth
	}

	if current.Len() > 0 {
		lines = append(lines, current.String())
	}

	return lines
}

// splitWord cuts the widest prefix of word that fits in width columns. At
// least one rune is always taken so a rune wider than width still advances.
func splitWord(word string, width int) (string, string) {
	used := 0
	for i, r := range word {
		rw := runewidth.RuneWidth(r)
		if used+rw > width && i > 0 {
			return word[:i], word[i:]
		}
		used += rw
	}
	return word, ""
}
