package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/docdesk/internal/backend"
	"github.com/csheth/docdesk/internal/chat"
)

var readClipboard = clipboard.ReadAll

func (m *model) handleChatKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Paste {
		m.insertPaste(string(key.Runes))
		return m, nil
	}
	switch key.String() {
	case "esc":
		m.setFocus(focusViewer)
		return m, nil
	case "enter":
		return m, m.sendMessage()
	case "ctrl+v":
		text, err := readClipboard()
		if err != nil {
			return m, m.pushToast(toastError, "Clipboard unavailable: "+err.Error())
		}
		m.insertPaste(text)
		return m, nil
	case "ctrl+l":
		if m.thread.RequestClear() {
			m.overlay = overlayConfirmClear
		}
		return m, nil
	case "alt+p":
		m.features = m.features.ToggleChatWithPicture()
		return m, nil
	case "alt+w":
		m.features = m.features.ToggleWebResearch()
		return m, nil
	case "pgup":
		m.transcript.HalfViewUp()
		return m, nil
	case "pgdown":
		m.transcript.HalfViewDown()
		return m, nil
	}
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(key)
	m.fitComposer()
	return m, cmd
}

func (m *model) insertPaste(text string) {
	text = chat.NormalizePaste(text)
	if text == "" {
		return
	}
	m.composer.InsertString(text)
	m.fitComposer()
}

// sendMessage posts the composer content. The composer keeps its text when
// the thread refuses the send.
func (m *model) sendMessage() tea.Cmd {
	send, ok := m.thread.Begin(m.composer.Value(), m.features, time.Now())
	if !ok {
		return nil
	}
	m.composer.Reset()
	m.fitComposer()
	m.transcriptDirty = true
	m.refreshTranscriptIfDirty()
	m.transcript.GotoBottom()
	return m.jobs.Start(jobKindChat, chatJob(m.config.Client, send))
}

func (m *model) refreshTranscriptIfDirty() {
	if !m.transcriptDirty {
		return
	}
	m.transcriptDirty = false
	atBottom := m.transcript.AtBottom()
	m.transcript.SetContent(m.buildTranscript())
	if atBottom {
		m.transcript.GotoBottom()
	}
}

func (m *model) buildTranscript() string {
	wrap := m.transcript.Width - 2
	if wrap < 10 {
		wrap = 10
	}
	messages := m.thread.Messages()
	if len(messages) == 0 {
		switch {
		case m.thread.Loading():
			return helperStyle.Render("Loading conversation…")
		case m.thread.Document() == "":
			return helperStyle.Render(wordwrap.String("Open a PDF with o, or ask a general question below.", wrap))
		default:
			return helperStyle.Render(wordwrap.String("No messages yet for "+m.thread.Document()+".", wrap))
		}
	}
	var b strings.Builder
	for idx, msg := range messages {
		label := "Assistant"
		style := assistantLabelStyle
		if msg.Role == backend.RoleUser {
			label = "You"
			style = userLabelStyle
		}
		if ts := chat.FormatTimestamp(msg.Timestamp, m.config.Location); ts != "" {
			label = fmt.Sprintf("%s · %s", label, ts)
		}
		b.WriteString(style.Render(label))
		b.WriteRune('\n')
		b.WriteString(indentMultiline(wordwrap.String(msg.Content, wrap), "  "))
		if idx < len(messages)-1 {
			b.WriteString("\n\n")
		}
	}
	if m.thread.Loading() {
		b.WriteString("\n\n")
		b.WriteString(helperStyle.Render(m.spinner.View() + " Assistant is thinking…"))
	}
	return b.String()
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}
