// Package translate holds the state of the selection translation panel.
package translate

import (
	"errors"
	"strings"

	"github.com/atotto/clipboard"
)

// ErrNothingToCopy is returned by CopyTranslation before a translation exists.
var ErrNothingToCopy = errors.New("no translation to copy")

var writeClipboard = clipboard.WriteAll

// Request is one translation to perform. Seq orders requests; only the
// result of the newest one is applied.
type Request struct {
	Seq      uint64
	Text     string
	Language string
}

// Panel holds the selected text, its translation and the target language.
type Panel struct {
	original   string
	translated string
	page       int
	language   string
	loading    bool
	seq        uint64
}

// NewPanel starts with lang, or DefaultLanguage when lang is unsupported.
func NewPanel(lang string) *Panel {
	p := &Panel{language: DefaultLanguage}
	if l, ok := Lookup(lang); ok {
		p.language = l.Code
	}
	return p
}

func (p *Panel) Original() string   { return p.original }
func (p *Panel) Translated() string { return p.translated }
func (p *Panel) Page() int          { return p.page }
func (p *Panel) Loading() bool      { return p.loading }
func (p *Panel) Language() string   { return p.language }

// Select replaces the original text, clears the translation and returns the
// request to run. Blank text clears the panel without a request.
func (p *Panel) Select(text string, page int) (Request, bool) {
	p.seq++
	p.original = strings.TrimSpace(text)
	p.translated = ""
	p.page = page
	if p.original == "" {
		p.loading = false
		return Request{}, false
	}
	return p.request(), true
}

// SetLanguage switches the target language and re-requests the current text.
func (p *Panel) SetLanguage(code string) (Request, bool) {
	lang, ok := Lookup(code)
	if !ok || lang.Code == p.language {
		return Request{}, false
	}
	p.language = lang.Code
	if p.original == "" {
		return Request{}, false
	}
	p.seq++
	p.translated = ""
	return p.request(), true
}

// CycleLanguage moves delta steps through Languages.
func (p *Panel) CycleLanguage(delta int) (Request, bool) {
	n := len(Languages)
	idx := indexOf(p.language)
	if idx < 0 {
		idx = 0
	}
	next := ((idx+delta)%n + n) % n
	return p.SetLanguage(Languages[next].Code)
}

func (p *Panel) request() Request {
	p.loading = true
	return Request{Seq: p.seq, Text: p.original, Language: p.language}
}

// Apply stores a translation. Results of superseded requests are ignored.
func (p *Panel) Apply(seq uint64, translated string) bool {
	if seq != p.seq {
		return false
	}
	p.translated = translated
	p.loading = false
	return true
}

// Fail clears the loading flag for a failed current request.
func (p *Panel) Fail(seq uint64) bool {
	if seq != p.seq {
		return false
	}
	p.loading = false
	return true
}

// CopyTranslation puts the translation on the system clipboard.
func (p *Panel) CopyTranslation() error {
	if strings.TrimSpace(p.translated) == "" {
		return ErrNothingToCopy
	}
	return writeClipboard(p.translated)
}
