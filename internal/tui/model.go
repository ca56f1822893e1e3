package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/docdesk/internal/backend"
	"github.com/csheth/docdesk/internal/chat"
	"github.com/csheth/docdesk/internal/config"
	"github.com/csheth/docdesk/internal/logger"
	"github.com/csheth/docdesk/internal/pdfdoc"
	"github.com/csheth/docdesk/internal/picker"
	"github.com/csheth/docdesk/internal/recent"
	"github.com/csheth/docdesk/internal/translate"
	"github.com/csheth/docdesk/internal/viewer"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Client   Backend
	Cache    Fetcher
	Open     OpenFunc
	Settings config.Config
	// WorkDir is scanned for PDFs when the picker opens.
	WorkDir string
	// InitialRef is a path or URL opened right after startup.
	InitialRef string
	Location   *time.Location
}

// New returns a tea.Model ready to be mounted into a Program.
func New(cfg Config) tea.Model {
	settings := cfg.Settings
	if settings.APIBaseURL == "" {
		settings = config.Default()
	}
	cfg.Settings = settings.Normalize()
	if cfg.Client == nil {
		cfg.Client = backend.New(backend.Config{BaseURL: cfg.Settings.APIBaseURL})
	}
	if cfg.Open == nil {
		cfg.Open = openPDF
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = "."
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	composer := textarea.New()
	composer.Placeholder = composerPlaceholder
	composer.Prompt = "› "
	composer.CharLimit = composerMaxCharacters
	composer.ShowLineNumbers = false
	composer.SetHeight(chat.MinComposerRows)
	composer.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))

	pageInput := textinput.New()
	pageInput.Placeholder = pageInputPlaceholder
	pageInput.CharLimit = 6
	pageInput.Width = 6
	pageInput.Prompt = "page › "

	pickerInput := textinput.New()
	pickerInput.Placeholder = pickerPlaceholder
	pickerInput.CharLimit = 512
	pickerInput.Width = 60

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(60, 20)
	vp.MouseWheelEnabled = true
	transcript := viewport.New(40, 10)
	transcript.MouseWheelEnabled = true

	m := &model{
		config:          cfg,
		layout:          newPageLayout(),
		jobs:            newJobBus(),
		tracker:         newJobTracker(),
		focus:           focusViewer,
		mode:            modeNormal,
		viewport:        vp,
		transcript:      transcript,
		composer:        composer,
		pageInput:       pageInput,
		pickerInput:     pickerInput,
		spinner:         spin,
		thread:          chat.NewThread(),
		panel:           translate.NewPanel(cfg.Settings.TargetLanguage),
		features:        chat.Features{ChatWithPicture: cfg.Settings.ChatWithPicture, WebResearch: cfg.Settings.WebResearch},
		viewportDirty:   true,
		transcriptDirty: true,
		health:          "checking…",
	}
	m.root = &paneRoot{vp: &m.viewport}
	m.session = viewer.NewSession(viewer.SessionConfig{
		BaseScale:           cfg.Settings.BaseScale,
		VisibilityThreshold: cfg.Settings.VisibilityThreshold,
		OnDocumentChange:    m.handleDocumentChange,
	})
	if path := cfg.Settings.RecentsPath; path != "" {
		entries, err := recent.Load(path)
		if err != nil {
			logger.Named("tui").WithError(err).Warn("failed to load recents")
		}
		m.recents = entries
	}
	m.applyLayout()
	return m
}

type model struct {
	config  Config
	layout  pageLayout
	jobs    *jobBus
	tracker jobTracker

	focus   focusArea
	overlay overlay
	mode    interactionMode

	session       *viewer.Session
	root          *paneRoot
	pages         []string
	doc           documentView
	targets       []viewer.Target
	docGen        int
	docLoading    bool
	pendingSource string
	docSource     string

	viewport        viewport.Model
	viewportDirty   bool
	cursorLine      int
	selectionAnchor int
	selectionActive bool
	pageInput       textinput.Model

	thread          *chat.Thread
	features        chat.Features
	composer        textarea.Model
	transcript      viewport.Model
	transcriptDirty bool

	panel *translate.Panel

	picker      *picker.Picker
	pickerInput textinput.Model
	recents     []recent.Entry

	spinner     spinner.Model
	spinning    bool
	fetching    bool
	capturing   bool
	toasts      []toast
	toastSeq    int
	health      string
	healthy     bool
	helpVisible bool
	queued      []tea.Cmd
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.jobs.Start(jobKindHealth, healthJob(m.config.Client))}
	if ref := strings.TrimSpace(m.config.InitialRef); ref != "" {
		cmds = append(cmds, m.openRef(ref))
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.tracker.any() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height, m.layout.composerHeight)
		m.applyLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case jobSignalMsg:
		m.tracker.observe(msg.Snapshot)
		if !m.spinning {
			m.spinning = true
			return m, m.spinner.Tick
		}
		return m, nil
	case jobResultEnvelope:
		m.tracker.observe(msg.Snapshot)
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case toastExpiredMsg:
		m.expireToast(msg.id)
		return m, nil
	case healthResultMsg:
		if msg.err != nil {
			m.health = "offline"
			m.healthy = false
			return m, nil
		}
		m.health = msg.status.Status
		m.healthy = msg.status.Healthy()
		return m, nil
	case fetchResultMsg:
		return m.handleFetchResult(msg)
	case uploadResultMsg:
		return m.handleUploadResult(msg)
	case documentResultMsg:
		return m.handleDocumentResult(msg)
	case historyResultMsg:
		if msg.err != nil {
			if m.thread.Fail(msg.ticket) {
				m.transcriptDirty = true
				return m, m.pushToast(toastError, "Could not load chat history: "+msg.err.Error())
			}
			return m, nil
		}
		if m.thread.ApplyHistory(msg.ticket, msg.messages) {
			m.transcriptDirty = true
			m.refreshTranscriptIfDirty()
			m.transcript.GotoBottom()
		}
		return m, nil
	case chatResultMsg:
		if msg.err != nil {
			if m.thread.Fail(msg.ticket) {
				m.transcriptDirty = true
				return m, m.pushToast(toastError, "Message failed: "+msg.err.Error())
			}
			return m, nil
		}
		if m.thread.ApplyReply(msg.ticket, msg.reply) {
			m.transcriptDirty = true
			m.refreshTranscriptIfDirty()
			m.transcript.GotoBottom()
		}
		return m, nil
	case clearResultMsg:
		if msg.err != nil {
			if m.thread.Fail(msg.ticket) {
				return m, m.pushToast(toastError, "Could not clear history: "+msg.err.Error())
			}
			return m, nil
		}
		if m.thread.ApplyClear(msg.ticket) {
			m.transcriptDirty = true
			return m, m.pushToast(toastSuccess, "Chat history cleared.")
		}
		return m, nil
	case translateResultMsg:
		if msg.err != nil {
			if m.panel.Fail(msg.seq) {
				logger.Named("translate").WithError(msg.err).Warn("translation failed")
				return m, m.pushToast(toastError, "Translation failed: "+msg.err.Error())
			}
			return m, nil
		}
		m.panel.Apply(msg.seq, msg.translated)
		return m, nil
	case selectionReportMsg:
		if msg.err != nil {
			logger.Named("tui").WithError(msg.err).Warn("selection report failed")
		}
		return m, nil
	case screenshotResultMsg:
		m.capturing = false
		if msg.err != nil {
			return m, m.pushToast(toastError, "Screenshot failed: "+msg.err.Error())
		}
		text := "Screenshot uploaded."
		if msg.result.Filename != "" {
			text = fmt.Sprintf("Screenshot uploaded as %s.", msg.result.Filename)
		}
		return m, m.pushToast(toastSuccess, text)
	case recentsResultMsg:
		if msg.err != nil {
			logger.Named("tui").WithError(msg.err).Warn("failed to update recents")
			return m, nil
		}
		m.recents = msg.entries
		return m, nil
	}
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.overlay {
	case overlayConfirmDuplicate:
		return m.handleDuplicateKey(key)
	case overlayConfirmClear:
		return m.handleClearKey(key)
	case overlayPageInput:
		return m.handlePageInputKey(key)
	case overlayPicker:
		return m.handlePickerKey(key)
	}

	if key.Type == tea.KeyTab || key.Type == tea.KeyShiftTab {
		delta := 1
		if key.Type == tea.KeyShiftTab {
			delta = -1
		}
		m.cycleFocus(delta)
		return m, nil
	}

	switch m.focus {
	case focusChat:
		return m.handleChatKey(key)
	case focusTranslate:
		return m.handleTranslateKey(key)
	default:
		return m.handleViewerKey(key)
	}
}

// handleGlobalKey covers the shortcuts shared by the viewer and translation
// panes. It reports false when the key is not one of them.
func (m *model) handleGlobalKey(key tea.KeyMsg) (tea.Cmd, bool) {
	switch key.String() {
	case "q":
		return tea.Quit, true
	case "esc":
		if m.helpVisible {
			m.helpVisible = false
			return nil, true
		}
		if m.mode == modeHighlight {
			m.exitHighlight()
			return nil, true
		}
		return nil, true
	case "?":
		m.helpVisible = !m.helpVisible
		return nil, true
	case "o":
		m.openPicker()
		return nil, true
	case "x":
		return m.closeDocument(), true
	case "s":
		return m.captureScreenshot(), true
	case "+", "=":
		m.zoom(true)
		return nil, true
	case "-", "_":
		m.zoom(false)
		return nil, true
	case ":", "g":
		m.openPageInput()
		return nil, true
	case "alt+p":
		m.features = m.features.ToggleChatWithPicture()
		return nil, true
	case "alt+w":
		m.features = m.features.ToggleWebResearch()
		return nil, true
	}
	return nil, false
}

func (m *model) handleViewerKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == modeHighlight {
		switch key.String() {
		case "enter", "t":
			return m, m.translateSelection()
		case "v":
			m.exitHighlight()
			return m, nil
		}
	}
	switch key.String() {
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "pgdown", "ctrl+d", " ":
		m.scrollBy(m.viewport.Height / 2)
	case "pgup", "ctrl+u":
		m.scrollBy(-m.viewport.Height / 2)
	case "home":
		m.scrollTo(0)
	case "G", "end":
		m.scrollTo(len(m.doc.lines))
	case "n", "]":
		m.jumpPage(1)
	case "p", "[":
		m.jumpPage(-1)
	case "v":
		m.toggleHighlightMode()
	default:
		cmd, _ := m.handleGlobalKey(key)
		return m, cmd
	}
	return m, nil
}

func (m *model) handleTranslateKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "right", "l", "L":
		req, ok := m.panel.CycleLanguage(1)
		return m, m.startTranslation(req, ok)
	case "left", "h", "H":
		req, ok := m.panel.CycleLanguage(-1)
		return m, m.startTranslation(req, ok)
	case "1", "2", "3", "4", "5":
		idx := int(key.Runes[0] - '1')
		if idx < len(translate.Languages) {
			req, ok := m.panel.SetLanguage(translate.Languages[idx].Code)
			return m, m.startTranslation(req, ok)
		}
		return m, nil
	case "y":
		if err := m.panel.CopyTranslation(); err != nil {
			if errors.Is(err, translate.ErrNothingToCopy) {
				return m, nil
			}
			return m, m.pushToast(toastError, "Copy failed: "+err.Error())
		}
		return m, m.pushToast(toastSuccess, "Translation copied to clipboard.")
	}
	cmd, _ := m.handleGlobalKey(key)
	return m, cmd
}

func (m *model) handleDuplicateKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "y", "Y", "enter":
		m.overlay = overlayNone
		if !m.session.Confirm(true) {
			return m, nil
		}
		return m, m.afterLoad()
	case "n", "N", "esc":
		m.overlay = overlayNone
		m.session.Confirm(false)
		m.pendingSource = ""
		return m, m.pushToast(toastInfo, "Upload discarded.")
	}
	return m, nil
}

func (m *model) handleClearKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "y", "Y", "enter":
		m.overlay = overlayNone
		tk, ok := m.thread.ConfirmClear()
		if !ok {
			return m, nil
		}
		m.transcriptDirty = true
		return m, m.jobs.Start(jobKindClear, clearHistoryJob(m.config.Client, tk))
	case "n", "N", "esc":
		m.overlay = overlayNone
		m.thread.CancelClear()
	}
	return m, nil
}

func (m *model) handlePageInputKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEnter, tea.KeyEsc, tea.KeyTab:
		m.commitPageInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.pageInput, cmd = m.pageInput.Update(key)
	m.session.SetPageInput(m.pageInput.Value())
	return m, cmd
}

func (m *model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.overlay != overlayNone {
		return m, nil
	}
	if msg.X >= m.layout.viewerWidth {
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	m.afterScroll()
	return m, cmd
}

func (m *model) cycleFocus(delta int) {
	idx := 0
	for i, f := range focusOrder {
		if f == m.focus {
			idx = i
		}
	}
	n := len(focusOrder)
	m.setFocus(focusOrder[((idx+delta)%n+n)%n])
}

func (m *model) setFocus(f focusArea) {
	m.focus = f
	if f == focusChat {
		m.composer.Focus()
		return
	}
	m.composer.Blur()
}

func (m *model) applyLayout() {
	prevWidth := m.viewport.Width
	m.viewport.Width = m.layout.viewportWidth
	m.viewport.Height = m.layout.viewportHeight
	m.transcript.Width = m.layout.sideInnerWidth
	m.transcript.Height = m.layout.transcriptHeight
	m.composer.SetWidth(m.layout.sideInnerWidth)
	m.composer.SetHeight(m.layout.composerHeight)
	m.pickerInput.Width = m.layout.viewportWidth - 4
	m.transcriptDirty = true
	if prevWidth != m.viewport.Width && len(m.pages) > 0 {
		m.rebuildDocument(true)
		return
	}
	m.markViewportDirty()
}

// fitComposer grows or shrinks the composer with its content.
func (m *model) fitComposer() {
	rows := chat.ComposerRows(m.composer.Value(), m.composer.Width(), chat.MinComposerRows, chat.MaxComposerRows)
	if rows == m.layout.composerHeight {
		return
	}
	m.layout.Update(m.layout.windowWidth, m.layout.windowHeight, rows)
	m.applyLayout()
}

func (m *model) pushToast(kind toastKind, text string) tea.Cmd {
	m.toastSeq++
	m.toasts = append(m.toasts, toast{id: m.toastSeq, kind: kind, text: text, expires: time.Now().Add(toastLifetime)})
	if kind == toastError {
		logger.Named("tui").Warn(text)
	}
	return toastExpiry(m.toastSeq)
}

func (m *model) expireToast(id int) {
	for i, t := range m.toasts {
		if t.id == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

func (m *model) currentToast() (toast, bool) {
	if len(m.toasts) == 0 {
		return toast{}, false
	}
	return m.toasts[len(m.toasts)-1], true
}

// handleDocumentChange is the session's collaborator hook. It resets the
// chat thread and translation panel and queues the history load.
func (m *model) handleDocumentChange(event viewer.DocumentEvent) {
	name := ""
	if event.Active {
		name = event.Name
	}
	m.panel.Select("", 0)
	m.transcriptDirty = true
	tk, load := m.thread.SetDocument(name)
	if load {
		m.queued = append(m.queued, m.jobs.Start(jobKindHistory, historyJob(m.config.Client, tk)))
	}
}

func (m *model) drainQueued() tea.Cmd {
	if len(m.queued) == 0 {
		return nil
	}
	cmds := m.queued
	m.queued = nil
	return tea.Batch(cmds...)
}

// openRef starts loading a local path or remote URL.
func (m *model) openRef(ref string) tea.Cmd {
	if m.session.State() == viewer.StateUploading || m.session.AwaitingConfirmation() {
		return nil
	}
	if pdfdoc.IsRemote(ref) {
		if m.fetching {
			return nil
		}
		m.fetching = true
		return tea.Batch(
			m.pushToast(toastInfo, "Downloading "+pdfdoc.DisplayName(ref)+"…"),
			m.jobs.Start(jobKindFetch, fetchRemoteJob(m.config.Cache, ref)),
		)
	}
	return m.selectLocal(ref, filepath.Base(ref), "")
}

func (m *model) handleFetchResult(msg fetchResultMsg) (tea.Model, tea.Cmd) {
	m.fetching = false
	if msg.err != nil {
		return m, m.pushToast(toastError, "Download failed: "+msg.err.Error())
	}
	return m, m.selectLocal(msg.path, msg.name, msg.url)
}

// selectLocal runs the file through the session's selection rules and
// starts the upload. A PDF needs both the .pdf extension and PDF content;
// anything else is ignored without a message.
func (m *model) selectLocal(path, name, source string) tea.Cmd {
	log := logger.Named("tui")
	if !pdfdoc.HasPDFExtension(name) {
		log.WithField("path", path).Debug("ignoring selection without .pdf extension")
		return nil
	}
	mediaType, err := pdfdoc.DetectMediaType(path)
	if err != nil {
		return m.pushToast(toastError, err.Error())
	}
	if mediaType != pdfdoc.MediaTypePDF {
		log.WithField("path", path).WithField("type", mediaType).Debug("ignoring non-pdf selection")
		return nil
	}
	file := viewer.File{Name: name, Path: path, MediaType: mediaType}
	if info, err := os.Stat(path); err == nil {
		file.Size = info.Size()
	}
	var cmds []tea.Cmd
	if m.session.State() == viewer.StateLoaded {
		cmds = append(cmds, m.closeDocument())
	}
	if !m.session.Select(file) {
		return tea.Batch(cmds...)
	}
	m.pendingSource = source
	cmds = append(cmds, m.jobs.Start(jobKindUpload, uploadJob(m.config.Client, name, path)))
	return tea.Batch(cmds...)
}

func (m *model) handleUploadResult(msg uploadResultMsg) (tea.Model, tea.Cmd) {
	if m.session.State() != viewer.StateUploading {
		return m, nil
	}
	if msg.err != nil {
		err := m.session.UploadFailed(msg.err)
		m.pendingSource = ""
		return m, m.pushToast(toastError, err.Error())
	}
	duplicate := msg.result.Duplicate()
	m.session.UploadAccepted(duplicate)
	if duplicate {
		m.overlay = overlayConfirmDuplicate
		return m, nil
	}
	return m, m.afterLoad()
}

// afterLoad runs once the session reaches Loaded: the pages are extracted
// and the document is recorded in the recents list.
func (m *model) afterLoad() tea.Cmd {
	file, ok := m.session.File()
	if !ok {
		return m.drainQueued()
	}
	m.docGen++
	m.docLoading = true
	m.docSource = m.pendingSource
	m.pendingSource = ""
	m.pages = nil
	m.doc = documentView{}
	m.targets = nil
	m.cursorLine = 0
	m.mode = modeNormal
	m.selectionActive = false
	m.viewport.SetYOffset(0)
	m.markViewportDirty()

	cmds := []tea.Cmd{
		m.drainQueued(),
		m.jobs.Start(jobKindOpen, openDocumentJob(m.config.Open, m.docGen, file.Path)),
		m.pushToast(toastSuccess, "Loaded "+file.Name+"."),
	}
	if path := m.config.Settings.RecentsPath; path != "" {
		entry := recent.Entry{Path: file.Path, Name: file.Name, Source: m.docSource, OpenedAt: time.Now()}
		cmds = append(cmds, m.jobs.Start(jobKindRecents, touchRecentJob(path, entry)))
	}
	return tea.Batch(cmds...)
}

func (m *model) handleDocumentResult(msg documentResultMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.docGen || m.session.State() != viewer.StateLoaded {
		return m, nil
	}
	m.docLoading = false
	if msg.err != nil {
		cmd := m.closeDocument()
		return m, tea.Batch(cmd, m.pushToast(toastError, "Could not read document: "+msg.err.Error()))
	}
	m.pages = msg.pages
	m.session.SetPageCount(len(m.pages))
	m.rebuildDocument(false)
	return m, nil
}

// closeDocument unloads the document, records the reading position and
// resets every pane tied to it.
func (m *model) closeDocument() tea.Cmd {
	file, ok := m.session.File()
	if !ok {
		return nil
	}
	var cmds []tea.Cmd
	if path := m.config.Settings.RecentsPath; path != "" {
		cmds = append(cmds, m.jobs.Start(jobKindRecents, savePositionJob(path, file.Path, m.session.CurrentPage())))
	}
	m.session.Close()
	m.docGen++
	m.docLoading = false
	m.docSource = ""
	m.pages = nil
	m.doc = documentView{}
	m.targets = nil
	m.cursorLine = 0
	m.mode = modeNormal
	m.selectionActive = false
	m.viewport.SetYOffset(0)
	m.markViewportDirty()
	cmds = append(cmds, m.drainQueued())
	return tea.Batch(cmds...)
}

func (m *model) zoom(increment bool) {
	if m.session.State() != viewer.StateLoaded {
		return
	}
	before := m.session.Scale()
	if m.session.Zoom(increment) == before {
		return
	}
	m.rebuildDocument(true)
}

// rebuildDocument lays the pages out again at the current scale and width.
// With keepPage the current page stays at the top of the viewport.
func (m *model) rebuildDocument(keepPage bool) {
	page := m.session.CurrentPage()
	m.doc = renderDocument(m.pages, m.session.Scale(), m.viewport.Width)
	m.targets = m.doc.targets()
	if m.cursorLine >= len(m.doc.lines) {
		m.cursorLine = 0
	}
	m.selectionActive = false
	m.mode = modeNormal
	m.markViewportDirty()
	m.refreshViewportIfDirty()
	m.session.ObservePages(m.root, m.targets)
	if keepPage {
		m.scrollToPage(page)
		return
	}
	m.afterScroll()
}

// afterScroll re-measures page visibility and resolves the displayed page.
func (m *model) afterScroll() {
	if len(m.targets) == 0 {
		return
	}
	m.session.RefreshVisibility()
	m.session.SyncCurrentPage(m.targets, m.viewport.YOffset)
	if m.overlay != overlayPageInput {
		m.pageInput.SetValue(m.session.PageInput())
	}
}

func (m *model) scrollToPage(page int) {
	block, ok := m.doc.blockFor(page)
	if !ok {
		return
	}
	m.viewport.SetYOffset(block.top)
	m.setCursorLine(block.top + 1)
	m.afterScroll()
}

func (m *model) jumpPage(delta int) {
	if m.session.State() != viewer.StateLoaded || len(m.targets) == 0 {
		return
	}
	nav := viewer.GoToPage(fmt.Sprint(m.session.CurrentPage()+delta), m.session.CurrentPage(), m.session.PageCount())
	if nav.Action == viewer.NavScroll {
		m.scrollToPage(nav.Page)
	}
}

func (m *model) openPageInput() {
	if m.session.State() != viewer.StateLoaded {
		return
	}
	m.overlay = overlayPageInput
	m.pageInput.SetValue(m.session.PageInput())
	m.pageInput.CursorEnd()
	m.pageInput.Focus()
}

// commitPageInput is shared by Enter and leaving the field. It never starts
// a network request.
func (m *model) commitPageInput() {
	m.overlay = overlayNone
	m.pageInput.Blur()
	nav := m.session.CommitPageInput()
	m.pageInput.SetValue(nav.Text)
	if nav.Action == viewer.NavScroll {
		m.scrollToPage(nav.Page)
	}
}

func (m *model) openPicker() {
	local, err := picker.Scan(m.config.WorkDir)
	if err != nil {
		logger.Named("tui").WithError(err).WithField("dir", m.config.WorkDir).Warn("failed to scan for pdfs")
	}
	m.picker = picker.New(picker.Merge(m.recents, local))
	m.pickerInput.SetValue("")
	m.pickerInput.Focus()
	m.overlay = overlayPicker
}

func (m *model) handlePickerKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.closePicker()
		return m, nil
	case "up", "ctrl+p":
		m.picker.Move(-1)
		return m, nil
	case "down", "ctrl+n":
		m.picker.Move(1)
		return m, nil
	case "enter":
		ref := m.picker.Resolve()
		m.closePicker()
		if ref == "" {
			return m, nil
		}
		return m, m.openRef(ref)
	}
	var cmd tea.Cmd
	m.pickerInput, cmd = m.pickerInput.Update(key)
	m.picker.SetQuery(m.pickerInput.Value())
	return m, cmd
}

func (m *model) closePicker() {
	m.overlay = overlayNone
	m.pickerInput.Blur()
	m.picker = nil
}

func (m *model) captureScreenshot() tea.Cmd {
	if m.session.State() != viewer.StateLoaded || len(m.doc.lines) == 0 || m.capturing {
		return nil
	}
	m.capturing = true
	lines := m.visibleLines()
	return tea.Batch(
		m.pushToast(toastInfo, "Capturing viewer…"),
		m.jobs.Start(jobKindScreenshot, screenshotJob(m.config.Client, lines)),
	)
}

func (m *model) visibleLines() []string {
	start := m.viewport.YOffset
	end := start + m.viewport.Height
	if start > len(m.doc.lines) {
		start = len(m.doc.lines)
	}
	if end > len(m.doc.lines) {
		end = len(m.doc.lines)
	}
	return append([]string(nil), m.doc.lines[start:end]...)
}

// translateSelection hands the highlighted text to the translation panel
// and reports it to the service.
func (m *model) translateSelection() tea.Cmd {
	text := m.selectedText()
	start, _, _ := m.selectionRange()
	page := m.doc.pageAt(start)
	m.exitHighlight()
	if text == "" {
		return nil
	}
	req, ok := m.panel.Select(text, page)
	if !ok {
		return nil
	}
	return tea.Batch(
		m.startTranslation(req, true),
		m.jobs.Start(jobKindSelection, reportSelectionJob(m.config.Client, text, page)),
	)
}

func (m *model) startTranslation(req translate.Request, ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	return m.jobs.Start(jobKindTranslate, translateJob(m.config.Client, req))
}
