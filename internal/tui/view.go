package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/docdesk/internal/picker"
	"github.com/csheth/docdesk/internal/recent"
	"github.com/csheth/docdesk/internal/translate"
	"github.com/csheth/docdesk/internal/viewer"
)

func (m *model) View() string {
	m.refreshViewportIfDirty()
	m.refreshTranscriptIfDirty()
	side := lipgloss.JoinVertical(lipgloss.Left, m.translatePane(), m.chatPane())
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.viewerPane(), side)
	return lipgloss.JoinVertical(lipgloss.Left, m.headerView(), body, m.statusBarView())
}

func (m *model) headerView() string {
	title := titleStyle.Render("docdesk")
	detail := helperStyle.Render(heroTagline)
	switch m.session.State() {
	case viewer.StateUploading:
		if pending, ok := m.session.Pending(); ok {
			detail = helperStyle.Render(fmt.Sprintf("%s Uploading %s…", m.spinner.View(), pending.Name))
		}
	case viewer.StateLoaded:
		if file, ok := m.session.File(); ok {
			detail = subtitleStyle.Render(file.Name)
		}
	}
	line := title + "  " + detail
	if t, ok := m.currentToast(); ok {
		line += "  " + toastStyle(t.kind).Render(t.text)
	}
	return clampWidth(line, m.layout.windowWidth)
}

func (m *model) viewerPane() string {
	var title string
	var body string
	switch {
	case m.overlay == overlayPicker:
		title = "Open document"
		body = m.pickerView()
	case m.helpVisible:
		title = "Keys"
		body = m.helpView()
	case m.session.State() == viewer.StateLoaded && m.docLoading:
		title = m.viewerTitle()
		body = helperStyle.Render(m.spinner.View() + " Extracting pages…")
	case m.session.State() == viewer.StateLoaded:
		title = m.viewerTitle()
		body = m.viewport.View()
	default:
		title = "Viewer"
		body = m.emptyViewerView()
	}
	return renderPane(title, body, m.layout.viewerWidth, m.layout.viewerHeight, m.focus == focusViewer)
}

func (m *model) viewerTitle() string {
	page := fmt.Sprintf("p. %s/%d", m.session.PageInput(), m.session.PageCount())
	if m.overlay == overlayPageInput {
		page = m.pageInput.View() + fmt.Sprintf(" /%d", m.session.PageCount())
	}
	parts := []string{page, fmt.Sprintf("%d%%", viewer.Percent(m.session.Scale()))}
	if visible := m.session.VisiblePages(); len(visible) > 0 {
		parts = append(parts, fmt.Sprintf("visible %s", formatPages(visible)))
	}
	if m.mode == modeHighlight {
		parts = append(parts, "HIGHLIGHT")
	}
	return strings.Join(parts, " · ")
}

func (m *model) emptyViewerView() string {
	wrap := m.layout.viewportWidth
	lines := []string{sectionHeaderStyle.Render("No document open")}
	switch {
	case m.session.AwaitingConfirmation():
		if pending, ok := m.session.Pending(); ok {
			lines = append(lines, wordwrap.String(fmt.Sprintf("%s was already uploaded with identical content.", pending.Name), wrap))
		}
	case m.session.State() == viewer.StateUploading:
		lines = append(lines, helperStyle.Render(m.spinner.View()+" Uploading…"))
	default:
		lines = append(lines, helperStyle.Render(wordwrap.String("Press o to pick a PDF from this folder, your recent documents, or paste a URL.", wrap)))
	}
	return strings.Join(lines, "\n\n")
}

func (m *model) pickerView() string {
	if m.picker == nil {
		return ""
	}
	rows := []string{m.pickerInput.View(), ""}
	matches := m.picker.Matches()
	if len(matches) == 0 {
		rows = append(rows, helperStyle.Render("No PDFs match. Enter opens a typed path or URL."))
		return strings.Join(rows, "\n")
	}
	limit := m.layout.viewportHeight - 3
	if limit < 1 {
		limit = 1
	}
	start := 0
	if m.picker.Cursor() >= limit {
		start = m.picker.Cursor() - limit + 1
	}
	for idx := start; idx < len(matches) && idx < start+limit; idx++ {
		item := matches[idx]
		label := highlightRunes(item.Label, item.Highlights)
		meta := helperStyle.Render("  " + item.Kind.String())
		if item.Kind == picker.KindRecent {
			if entry, ok := findRecent(m.recents, item.Ref); ok && entry.LastPage > 0 {
				meta = helperStyle.Render(fmt.Sprintf("  recent · last p. %d", entry.LastPage))
			}
		}
		if idx == m.picker.Cursor() {
			rows = append(rows, currentLineStyle.Render("▸ "+item.Label)+meta)
			continue
		}
		rows = append(rows, "  "+label+meta)
	}
	return strings.Join(rows, "\n")
}

func findRecent(entries []recent.Entry, ref string) (recent.Entry, bool) {
	for _, entry := range entries {
		if entry.Ref() == ref {
			return entry, true
		}
	}
	return recent.Entry{}, false
}

func highlightRunes(text string, positions []int) string {
	if len(positions) == 0 {
		return text
	}
	marked := make(map[int]bool, len(positions))
	for _, p := range positions {
		marked[p] = true
	}
	var b strings.Builder
	for i, r := range []rune(text) {
		if marked[i] {
			b.WriteString(matchStyle.Render(string(r)))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (m *model) translatePane() string {
	lang, _ := translate.Lookup(m.panel.Language())
	title := "Translation · " + lang.Label()
	wrap := m.layout.sideInnerWidth
	var lines []string
	switch {
	case m.panel.Original() == "":
		lines = append(lines, helperStyle.Render(wordwrap.String("Highlight lines with v, then press Enter to translate.", wrap)))
	default:
		original := strings.Join(strings.Fields(m.panel.Original()), " ")
		if page := m.panel.Page(); page > 0 {
			original = fmt.Sprintf("p. %d: %s", page, original)
		}
		lines = append(lines, helperStyle.Render(runewidth.Truncate(original, wrap, "…")))
		switch {
		case m.panel.Loading():
			lines = append(lines, m.spinner.View()+" Translating…")
		case m.panel.Translated() != "":
			lines = append(lines, wordwrap.String(m.panel.Translated(), wrap))
		}
	}
	inner := m.layout.translateHeight - paneBorder - paneTitleHeight
	body := clampLines(strings.Join(lines, "\n"), inner)
	return renderPane(title, body, m.layout.sideWidth, m.layout.translateHeight, m.focus == focusTranslate)
}

func (m *model) chatPane() string {
	title := "Chat"
	if doc := m.thread.Document(); doc != "" {
		title = "Chat · " + doc
	}
	features := helperStyle.Render(fmt.Sprintf("%s picture (alt+p)  %s web (alt+w)",
		checkbox(m.features.ChatWithPicture), checkbox(m.features.WebResearch)))
	parts := []string{m.transcript.View(), features}
	if m.overlay == overlayConfirmClear {
		parts[1] = errorStyle.Render("Clear this conversation? y / n")
	}
	parts = append(parts, m.composer.View())
	body := strings.Join(parts, "\n")
	return renderPane(title, body, m.layout.sideWidth, m.layout.chatHeight, m.focus == focusChat)
}

func (m *model) statusBarView() string {
	if m.overlay == overlayConfirmDuplicate {
		name := "This file"
		if pending, ok := m.session.Pending(); ok {
			name = pending.Name
		}
		return clampWidth(promptStyle.Render(fmt.Sprintf("%s already exists on the server. Open it anyway? y / n", name)), m.layout.windowWidth)
	}
	stats := []string{
		fmt.Sprintf("Focus %s", m.focus),
		fmt.Sprintf("Doc %s", m.session.State()),
	}
	if m.session.State() == viewer.StateLoaded {
		stats = append(stats, fmt.Sprintf("Page %d/%d", m.session.CurrentPage(), m.session.PageCount()))
	}
	stats = append(stats, "Lang "+m.panel.Language())
	mark := "✗"
	if m.healthy {
		mark = "✓"
	}
	stats = append(stats, fmt.Sprintf("API %s %s", mark, m.health))
	if running := m.tracker.badges(); len(running) > 0 {
		stats = append(stats, m.spinner.View()+" "+strings.Join(running, ", "))
	}
	stats = append(stats, "? keys")
	return clampWidth(statusBarStyle.Render(strings.Join(stats, "  •  ")), m.layout.windowWidth)
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) helpView() string {
	hints := []keyHint{
		{"Tab", "Next pane"},
		{"o", "Open PDF"},
		{"x", "Close PDF"},
		{"j/k", "Move cursor"},
		{"n/p", "Next/prev page"},
		{"g", "Go to page"},
		{"+/-", "Zoom"},
		{"v", "Highlight"},
		{"Enter", "Translate selection"},
		{"s", "Screenshot"},
		{"h/l", "Change language"},
		{"y", "Copy translation"},
		{"Ctrl+L", "Clear chat"},
		{"Alt+Enter", "Newline"},
		{"q", "Quit"},
	}
	rows := make([]string, 0, len(hints))
	for _, hint := range hints {
		key := keyStyle.Render(hint.Key)
		desc := keyDescStyle.Render(" " + hint.Description)
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
	}
	return clampLines(strings.Join(rows, "\n"), m.layout.viewportHeight)
}

// renderPane draws a bordered pane with a title line. width and height are
// the outer size, borders included.
func renderPane(title, body string, width, height int, focused bool) string {
	style := paneStyle
	if focused {
		style = focusedPaneStyle
	}
	innerWidth := width - paneBorder - panePadding
	innerHeight := height - paneBorder - paneTitleHeight
	if innerHeight < 1 {
		innerHeight = 1
	}
	heading := paneTitleStyle.Render(runewidth.Truncate(stripANSI(title), innerWidth, "…"))
	if strings.Contains(title, "\x1b[") {
		heading = title
	}
	content := lipgloss.JoinVertical(lipgloss.Left, heading, clampLines(body, innerHeight))
	return style.Width(width - paneBorder).Height(height - paneBorder).MaxHeight(height).Render(content)
}

func clampLines(text string, limit int) string {
	if limit < 1 {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) > limit {
		lines = lines[:limit]
	}
	return strings.Join(lines, "\n")
}

func clampWidth(line string, width int) string {
	if width <= 0 {
		return line
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}

func formatPages(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, ",")
}
