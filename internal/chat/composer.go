package chat

import (
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

const (
	MinComposerRows = 1
	MaxComposerRows = 5
)

var pasteNewlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// NormalizePaste converts CRLF and CR to LF and drops leading and trailing
// newlines.
func NormalizePaste(text string) string {
	return strings.Trim(pasteNewlines.Replace(text), "\n")
}

func HasLineBreaks(text string) bool {
	return strings.ContainsAny(text, "\r\n")
}

// ComposerRows is the number of rows the input box should show for value
// when wrapped at width, clamped to [minRows, maxRows].
func ComposerRows(value string, width, minRows, maxRows int) int {
	if minRows < 1 {
		minRows = 1
	}
	if maxRows < minRows {
		maxRows = minRows
	}
	if width < 1 {
		width = 1
	}
	rows := 0
	for _, line := range strings.Split(value, "\n") {
		w := runewidth.StringWidth(line)
		if w == 0 {
			rows++
			continue
		}
		rows += (w + width - 1) / width
	}
	if rows < minRows {
		return minRows
	}
	if rows > maxRows {
		return maxRows
	}
	return rows
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// FormatTimestamp renders an ISO timestamp as hh:mm in loc (local time when
// nil). Timestamps without a zone are read as local. Unparsable input yields
// an empty string.
func FormatTimestamp(iso string, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	iso = strings.TrimSpace(iso)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, iso, loc); err == nil {
			return t.In(loc).Format("15:04")
		}
	}
	return ""
}
