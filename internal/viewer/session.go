package viewer

import (
	"errors"
	"fmt"
	"strconv"
)

// PDFMediaType is the only media type the session accepts.
const PDFMediaType = "application/pdf"

// ErrUploadFailed wraps every upload failure surfaced by the session.
var ErrUploadFailed = errors.New("upload failed")

// State is the lifecycle stage of a Session.
type State int

const (
	StateEmpty State = iota
	StateUploading
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateUploading:
		return "uploading"
	case StateLoaded:
		return "loaded"
	default:
		return "empty"
	}
}

// File is the handle of a document chosen by the user.
type File struct {
	Name      string
	Path      string
	Size      int64
	MediaType string
}

// DocumentEvent tells collaborators which document is active. Name is empty
// and Active false once the document is closed.
type DocumentEvent struct {
	Name   string
	Active bool
}

// SessionConfig wires the session to its collaborators.
type SessionConfig struct {
	BaseScale           float64
	VisibilityThreshold float64
	OnDocumentChange    func(DocumentEvent)
}

// Session owns the loaded file and every piece of derived viewer state.
type Session struct {
	config SessionConfig

	state           State
	file            *File
	pending         *File
	awaitingConfirm bool

	pageCount   int
	currentPage int
	scale       float64
	pageInput   string
	tracker     *Tracker
}

// NewSession returns an empty session.
func NewSession(config SessionConfig) *Session {
	if config.BaseScale <= 0 {
		config.BaseScale = DefaultBaseScale
	}
	if config.VisibilityThreshold <= 0 {
		config.VisibilityThreshold = DefaultVisibilityThreshold
	}
	s := &Session{config: config, tracker: NewTracker(config.VisibilityThreshold)}
	s.resetView()
	return s
}

func (s *Session) State() State               { return s.state }
func (s *Session) PageCount() int             { return s.pageCount }
func (s *Session) CurrentPage() int           { return s.currentPage }
func (s *Session) Scale() float64             { return s.scale }
func (s *Session) BaseScale() float64         { return s.config.BaseScale }
func (s *Session) PageInput() string          { return s.pageInput }
func (s *Session) VisiblePages() []int        { return s.tracker.Visible() }
func (s *Session) AwaitingConfirmation() bool { return s.awaitingConfirm }

// File returns the loaded document, if any.
func (s *Session) File() (File, bool) {
	if s.file == nil {
		return File{}, false
	}
	return *s.file, true
}

// Pending returns the file being uploaded or waiting for confirmation.
func (s *Session) Pending() (File, bool) {
	if s.pending == nil {
		return File{}, false
	}
	return *s.pending, true
}

// Select starts an upload for f. Files that are not PDFs are ignored, as are
// selections made while an upload or a duplicate confirmation is outstanding.
func (s *Session) Select(f File) bool {
	if f.MediaType != PDFMediaType {
		return false
	}
	if s.state != StateEmpty || s.awaitingConfirm {
		return false
	}
	s.pending = &f
	s.state = StateUploading
	return true
}

// UploadAccepted records the backend's answer. A duplicate defers the load to
// Confirm; anything else loads the pending file.
func (s *Session) UploadAccepted(duplicate bool) bool {
	if s.state != StateUploading || s.pending == nil {
		return false
	}
	if duplicate {
		s.state = StateEmpty
		s.awaitingConfirm = true
		return true
	}
	s.load()
	return true
}

// Confirm resolves a duplicate prompt. Accepting loads the already uploaded
// file; declining drops it and stays empty.
func (s *Session) Confirm(accept bool) bool {
	if !s.awaitingConfirm {
		return false
	}
	s.awaitingConfirm = false
	if !accept {
		s.pending = nil
		return false
	}
	s.load()
	return true
}

// UploadFailed returns the session to empty and hands back the error to show.
func (s *Session) UploadFailed(err error) error {
	name := ""
	if s.pending != nil {
		name = s.pending.Name
	}
	if s.state == StateUploading {
		s.state = StateEmpty
	}
	s.pending = nil
	if err == nil {
		return fmt.Errorf("%w: %s", ErrUploadFailed, name)
	}
	return fmt.Errorf("%w: %s: %w", ErrUploadFailed, name, err)
}

func (s *Session) load() {
	s.file = s.pending
	s.pending = nil
	s.state = StateLoaded
	s.pageCount = 0
	s.resetView()
	s.notify(DocumentEvent{Name: s.file.Name, Active: true})
}

// Close unloads the document, releases the visibility observer and tells
// collaborators that nothing is active.
func (s *Session) Close() bool {
	if s.state != StateLoaded {
		return false
	}
	s.file = nil
	s.state = StateEmpty
	s.pageCount = 0
	s.tracker.Close()
	s.resetView()
	s.notify(DocumentEvent{})
	return true
}

func (s *Session) resetView() {
	s.currentPage = 1
	s.pageInput = "1"
	s.scale = s.config.BaseScale
	s.tracker.Reset(1)
}

func (s *Session) notify(event DocumentEvent) {
	if s.config.OnDocumentChange != nil {
		s.config.OnDocumentChange(event)
	}
}

// SetPageCount stores the page count reported by the document loader.
func (s *Session) SetPageCount(n int) {
	if n < 0 {
		n = 0
	}
	s.pageCount = n
}

// Zoom applies one zoom step and returns the new scale.
func (s *Session) Zoom(increment bool) float64 {
	s.scale = NextScale(s.scale, s.config.BaseScale, increment)
	return s.scale
}

// SetPageInput mirrors keystrokes into the page field without validating.
func (s *Session) SetPageInput(text string) {
	s.pageInput = text
}

// CommitPageInput validates the page field the way a blur or Enter does.
func (s *Session) CommitPageInput() Navigation {
	nav := GoToPage(s.pageInput, s.currentPage, s.pageCount)
	s.pageInput = nav.Text
	return nav
}

// ObservePages registers the rendered pages with the visibility tracker.
func (s *Session) ObservePages(root Root, targets []Target) {
	if s.state != StateLoaded {
		return
	}
	s.tracker.Attach(root, targets)
}

// RefreshVisibility re-measures observed pages after a scroll or relayout.
func (s *Session) RefreshVisibility() {
	s.tracker.Refresh()
}

// SyncCurrentPage recomputes the displayed page after a scroll. The closest
// page is committed only when it is in the visible set.
func (s *Session) SyncCurrentPage(targets []Target, viewportTop int) bool {
	page := ResolveCurrentPage(targets, viewportTop)
	if !s.tracker.Contains(page) {
		return false
	}
	s.currentPage = page
	s.pageInput = strconv.Itoa(page)
	return true
}
