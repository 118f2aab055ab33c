package style

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Wrap greedily wraps text at word boundaries so that no line exceeds
// width display cells. A word wider than the limit gets a line of its own
// rather than breaking. Width <= 0 disables wrapping.
func Wrap(text string, width int) []string {
	if width <= 0 {
		if text == "" {
			return nil
		}
		return []string{text}
	}

	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, word := range strings.Fields(text) {
		w := runewidth.StringWidth(word)
		switch {
		case lineWidth == 0:
			line.WriteString(word)
			lineWidth = w
		case lineWidth+1+w > width:
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(word)
			lineWidth = w
		default:
			line.WriteByte(' ')
			line.WriteString(word)
			lineWidth += 1 + w
		}
	}
	if lineWidth > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// HardWrap breaks text at exactly width display cells, for unspaced
// letter runs that have no word boundaries. Width <= 0 disables wrapping.
func HardWrap(text string, width int) []string {
	if width <= 0 {
		if text == "" {
			return nil
		}
		return []string{text}
	}

	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if lineWidth > 0 && lineWidth+w > width {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
		line.WriteRune(r)
		lineWidth += w
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
