package tui

import (
	"time"

	"github.com/csheth/docdesk/internal/backend"
	"github.com/csheth/docdesk/internal/chat"
	"github.com/csheth/docdesk/internal/recent"
)

type focusArea int

const (
	focusViewer focusArea = iota
	focusTranslate
	focusChat
)

var focusOrder = []focusArea{focusViewer, focusTranslate, focusChat}

func (f focusArea) String() string {
	switch f {
	case focusTranslate:
		return "translate"
	case focusChat:
		return "chat"
	default:
		return "viewer"
	}
}

// overlay is a modal input that captures keys ahead of the focused pane.
type overlay int

const (
	overlayNone overlay = iota
	overlayPicker
	overlayPageInput
	overlayConfirmDuplicate
	overlayConfirmClear
)

type interactionMode int

const (
	modeNormal interactionMode = iota
	modeHighlight
)

type toastKind int

const (
	toastInfo toastKind = iota
	toastSuccess
	toastError
)

type toast struct {
	id      int
	kind    toastKind
	text    string
	expires time.Time
}

const toastLifetime = 3 * time.Second

const (
	uploadTimeout  = 2 * time.Minute
	chatTimeout    = 3 * time.Minute
	defaultTimeout = 30 * time.Second
)

const (
	minViewerWidth   = 30
	minSideWidth     = 24
	pageBlockSpacing = 1
)

const heroTagline = "Read, translate and discuss PDFs from the terminal."

const (
	composerPlaceholder   = "Ask about the document… (Enter to send, Alt+Enter for a newline)"
	pickerPlaceholder     = "Filter PDFs or paste a path / URL…"
	pageInputPlaceholder  = "page"
	composerMaxCharacters = 4000
)

type healthResultMsg struct {
	status backend.HealthStatus
	err    error
}

type fetchResultMsg struct {
	url  string
	path string
	name string
	err  error
}

type uploadResultMsg struct {
	name   string
	result backend.UploadResult
	err    error
}

type documentResultMsg struct {
	gen   int
	path  string
	pages []string
	err   error
}

type historyResultMsg struct {
	ticket   chat.Ticket
	messages []chat.Message
	err      error
}

type chatResultMsg struct {
	ticket chat.Ticket
	reply  chat.Message
	err    error
}

type clearResultMsg struct {
	ticket chat.Ticket
	err    error
}

type translateResultMsg struct {
	seq        uint64
	translated string
	err        error
}

type selectionReportMsg struct {
	err error
}

type screenshotResultMsg struct {
	result backend.ScreenshotResult
	err    error
}

type recentsResultMsg struct {
	entries []recent.Entry
	err     error
}

type toastExpiredMsg struct {
	id int
}
