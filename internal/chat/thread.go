// Package chat holds the conversation state for the active document.
package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/csheth/docdesk/internal/backend"
)

type Message = backend.Message

// Features are the per-send switches forwarded with every chat request.
type Features struct {
	ChatWithPicture bool
	WebResearch     bool
}

func (f Features) ToggleChatWithPicture() Features {
	f.ChatWithPicture = !f.ChatWithPicture
	return f
}

func (f Features) ToggleWebResearch() Features {
	f.WebResearch = !f.WebResearch
	return f
}

// Ticket identifies one outstanding request. Results carrying a ticket from
// an older generation are dropped.
type Ticket struct {
	Document string
	gen      uint64
}

// Send is a user message that has been optimistically appended.
type Send struct {
	Ticket
	Request backend.ChatRequest
}

// Thread is the message list for one document plus its loading state.
type Thread struct {
	document     string
	messages     []Message
	loading      bool
	confirmClear bool
	gen          uint64
}

func NewThread() *Thread {
	return &Thread{}
}

func (t *Thread) Document() string      { return t.document }
func (t *Thread) Loading() bool         { return t.loading }
func (t *Thread) ConfirmingClear() bool { return t.confirmClear }

func (t *Thread) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// SetDocument switches the thread to name and clears the messages. When ok is
// true the caller should load the history for the returned ticket. An empty
// name (document closed) leaves the thread empty and idle.
func (t *Thread) SetDocument(name string) (Ticket, bool) {
	if name == t.document {
		return Ticket{}, false
	}
	t.gen++
	t.document = name
	t.messages = nil
	t.confirmClear = false
	t.loading = name != ""
	return t.ticket(), t.loading
}

func (t *Thread) ticket() Ticket {
	return Ticket{Document: t.document, gen: t.gen}
}

func (t *Thread) current(tk Ticket) bool {
	return tk.gen == t.gen && tk.Document == t.document
}

// ApplyHistory replaces the messages with a loaded history.
func (t *Thread) ApplyHistory(tk Ticket, messages []Message) bool {
	if !t.current(tk) {
		return false
	}
	t.messages = append([]Message(nil), messages...)
	t.loading = false
	return true
}

// Fail clears the loading flag for a failed request. Optimistic messages are
// kept.
func (t *Thread) Fail(tk Ticket) bool {
	if !t.current(tk) {
		return false
	}
	t.loading = false
	return true
}

// CanSend reports whether input may be sent now.
func (t *Thread) CanSend(input string) bool {
	return !t.loading && strings.TrimSpace(input) != ""
}

// Begin appends the user's message and marks the thread as waiting.
func (t *Thread) Begin(input string, features Features, now time.Time) (Send, bool) {
	if !t.CanSend(input) {
		return Send{}, false
	}
	content := strings.TrimSpace(input)
	t.messages = append(t.messages, Message{
		ID:        uuid.NewString(),
		Content:   content,
		Role:      backend.RoleUser,
		Timestamp: now.Format(time.RFC3339),
	})
	t.loading = true
	t.confirmClear = false
	return Send{
		Ticket: t.ticket(),
		Request: backend.ChatRequest{
			Message:               content,
			PDFFilename:           t.document,
			EnableChatWithPicture: features.ChatWithPicture,
			EnableWebResearch:     features.WebResearch,
		},
	}, true
}

// ApplyReply appends the assistant's reply.
func (t *Thread) ApplyReply(tk Ticket, reply Message) bool {
	if !t.current(tk) {
		return false
	}
	if reply.ID == "" {
		reply.ID = uuid.NewString()
	}
	t.messages = append(t.messages, reply)
	t.loading = false
	return true
}

func (t *Thread) CanClear() bool {
	return !t.loading && len(t.messages) > 0
}

// RequestClear asks for confirmation before clearing.
func (t *Thread) RequestClear() bool {
	if !t.CanClear() {
		return false
	}
	t.confirmClear = true
	return true
}

func (t *Thread) CancelClear() {
	t.confirmClear = false
}

// ConfirmClear starts the clear the user agreed to.
func (t *Thread) ConfirmClear() (Ticket, bool) {
	if !t.confirmClear || !t.CanClear() {
		t.confirmClear = false
		return Ticket{}, false
	}
	t.confirmClear = false
	t.loading = true
	return t.ticket(), true
}

// ApplyClear empties the thread after the service deleted the history.
func (t *Thread) ApplyClear(tk Ticket) bool {
	if !t.current(tk) {
		return false
	}
	t.messages = nil
	t.loading = false
	return true
}
