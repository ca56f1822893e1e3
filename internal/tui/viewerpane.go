package tui

import (
	"strings"

	"github.com/csheth/docdesk/internal/viewer"
)

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

func (m *model) refreshViewportIfDirty() {
	if m.viewportDirty {
		m.refreshViewport()
	}
}

func (m *model) refreshViewport() {
	m.viewportDirty = false
	prevYOffset := m.viewport.YOffset
	if len(m.doc.lines) == 0 {
		m.viewport.SetContent("")
		m.cursorLine = 0
		return
	}
	if m.cursorLine >= len(m.doc.lines) {
		m.cursorLine = len(m.doc.lines) - 1
	}
	if m.cursorLine < 0 {
		m.cursorLine = 0
	}
	start, end, hasSelection := m.selectionRange()
	content := applyLineHighlights(m.doc.lines, m.cursorLine, start, end, hasSelection)
	m.viewport.SetContent(content)
	m.viewport.SetYOffset(prevYOffset)
}

func (m *model) ensureCursorVisible() {
	if len(m.doc.lines) == 0 {
		return
	}
	line := m.cursorLine
	if line < m.viewport.YOffset {
		m.viewport.SetYOffset(line)
		return
	}
	lowerBound := m.viewport.YOffset + m.viewport.Height - 1
	if line > lowerBound {
		target := line - m.viewport.Height + 1
		if target < 0 {
			target = 0
		}
		m.viewport.SetYOffset(target)
	}
}

func (m *model) moveCursor(delta int) {
	m.setCursorLine(m.cursorLine + delta)
	m.afterScroll()
}

func (m *model) setCursorLine(line int) {
	if len(m.doc.lines) == 0 {
		return
	}
	if line < 0 {
		line = 0
	}
	if line >= len(m.doc.lines) {
		line = len(m.doc.lines) - 1
	}
	if line == m.cursorLine {
		return
	}
	m.cursorLine = line
	m.markViewportDirty()
	m.refreshViewportIfDirty()
	m.ensureCursorVisible()
}

// scrollBy moves the viewport and drags the cursor along when it would
// leave the visible window.
func (m *model) scrollBy(delta int) {
	m.scrollTo(m.viewport.YOffset + delta)
}

func (m *model) scrollTo(offset int) {
	if len(m.doc.lines) == 0 {
		return
	}
	m.viewport.SetYOffset(offset)
	top := m.viewport.YOffset
	bottom := top + m.viewport.Height - 1
	switch {
	case m.cursorLine < top:
		m.cursorLine = top
		m.markViewportDirty()
	case m.cursorLine > bottom:
		m.cursorLine = bottom
		m.markViewportDirty()
	}
	m.refreshViewportIfDirty()
	m.afterScroll()
}

func (m *model) toggleHighlightMode() {
	if m.mode == modeHighlight {
		m.exitHighlight()
		return
	}
	if m.session.State() != viewer.StateLoaded || len(m.doc.lines) == 0 {
		return
	}
	m.mode = modeHighlight
	m.selectionAnchor = m.cursorLine
	m.selectionActive = true
	m.markViewportDirty()
	m.refreshViewportIfDirty()
}

func (m *model) exitHighlight() {
	m.mode = modeNormal
	m.selectionActive = false
	m.markViewportDirty()
	m.refreshViewportIfDirty()
}

func (m *model) selectionRange() (int, int, bool) {
	if !m.selectionActive || m.mode != modeHighlight || len(m.doc.lines) == 0 {
		return 0, 0, false
	}
	start, end := m.selectionAnchor, m.cursorLine
	if start > end {
		start, end = end, start
	}
	if start < 0 {
		start = 0
	}
	if end >= len(m.doc.lines) {
		end = len(m.doc.lines) - 1
	}
	return start, end, true
}

// selectedText joins the document text of the highlighted lines. Frame
// borders and the gaps between pages are skipped.
func (m *model) selectedText() string {
	start, end, ok := m.selectionRange()
	if !ok {
		return ""
	}
	var lines []string
	for i := start; i <= end; i++ {
		if text, ok := pageLineText(m.doc.lines[i]); ok {
			lines = append(lines, text)
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func applyLineHighlights(lines []string, cursor int, selectionStart, selectionEnd int, hasSelection bool) string {
	out := make([]string, len(lines))
	for idx, line := range lines {
		inSelection := hasSelection && idx >= selectionStart && idx <= selectionEnd
		switch {
		case idx == cursor:
			out[idx] = currentLineStyle.Render(line)
		case inSelection:
			out[idx] = selectionLineStyle.Render(line)
		default:
			out[idx] = line
		}
	}
	return strings.Join(out, "\n")
}
