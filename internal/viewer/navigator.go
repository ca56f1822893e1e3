package viewer

import (
	"strconv"
	"strings"
)

// NavAction is the outcome of committing the page field.
type NavAction int

const (
	// NavRevert puts the current page back into the page field.
	NavRevert NavAction = iota
	// NavScroll scrolls the target page into view.
	NavScroll
)

func (a NavAction) String() string {
	switch a {
	case NavScroll:
		return "scroll"
	default:
		return "revert"
	}
}

// Navigation tells the caller what to do with the page field and viewport.
type Navigation struct {
	Action NavAction
	Page   int
	Text   string
}

// GoToPage validates a typed page number. Out of range or unparsable input
// reverts silently to currentPage.
func GoToPage(inputText string, currentPage, pageCount int) Navigation {
	page, ok := parseLeadingInt(inputText)
	if !ok || page < 1 || page > pageCount {
		return Navigation{Action: NavRevert, Page: currentPage, Text: strconv.Itoa(currentPage)}
	}
	return Navigation{Action: NavScroll, Page: page, Text: strconv.Itoa(page)}
}

// parseLeadingInt accepts optional leading whitespace and sign followed by
// digits; anything after the digits is ignored.
func parseLeadingInt(text string) (int, bool) {
	text = strings.TrimLeft(text, " \t\n\r")
	end := 0
	if end < len(text) && (text[end] == '+' || text[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	value, err := strconv.Atoi(text[:end])
	if err != nil {
		return 0, false
	}
	return value, true
}
