package pdfdoc

import (
	"fmt"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
)

const (
	// columnsPerScale converts a render scale into page width in cells.
	columnsPerScale = 40
	minPageColumns  = 16
	// pageAspect is the height/width ratio of a portrait page measured in
	// terminal cells, which are roughly twice as tall as they are wide.
	pageAspect = 1.414 / 2
)

// Columns maps a render scale to the outer width of a page block, never wider
// than maxWidth when maxWidth is positive.
func Columns(scale float64, maxWidth int) int {
	cols := int(math.Round(scale * columnsPerScale))
	if maxWidth > 0 && cols > maxWidth {
		cols = maxWidth
	}
	if cols < minPageColumns {
		cols = minPageColumns
	}
	return cols
}

// MinPageHeight is the shortest block a page of the given width occupies.
func MinPageHeight(width int) int {
	return int(math.Round(float64(width) * pageAspect))
}

// RenderPage lays out one page as a framed block of exactly width cells per
// line. The block is at least MinPageHeight(width) lines tall.
func RenderPage(number int, text string, width int) []string {
	if width < minPageColumns {
		width = minPageColumns
	}
	inner := width - 4
	label := fmt.Sprintf(" p. %d ", number)
	topFill := width - 2 - runewidth.StringWidth(label) - 1
	if topFill < 0 {
		topFill = 0
	}
	lines := []string{"┌─" + label + strings.Repeat("─", topFill) + "┐"}

	body := bodyLines(text, inner)
	minBody := MinPageHeight(width) - 2
	for len(body) < minBody {
		body = append(body, "")
	}
	for _, line := range body {
		lines = append(lines, "│ "+runewidth.FillRight(line, inner)+" │")
	}
	lines = append(lines, "└"+strings.Repeat("─", width-2)+"┘")
	return lines
}

func bodyLines(text string, inner int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{"(no extractable text on this page)"}
	}
	wrapped := wordwrap.String(text, inner)
	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		// wordwrap keeps words longer than the limit intact.
		if runewidth.StringWidth(line) > inner {
			lines[i] = runewidth.Truncate(line, inner, "…")
		}
	}
	return lines
}

// StripFrame removes the border drawn by RenderPage from one line.
func StripFrame(line string) string {
	line = strings.TrimPrefix(line, "│ ")
	line = strings.TrimSuffix(line, " │")
	return strings.TrimRight(line, " ")
}
