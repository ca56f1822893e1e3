package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/csheth/docdesk/internal/pdfdoc"
	"github.com/csheth/docdesk/internal/viewer"
)

// pageLayout splits the window into the viewer pane on the left and the
// translation and chat panes stacked on the right.
type pageLayout struct {
	windowWidth      int
	windowHeight     int
	viewerWidth      int
	viewerHeight     int
	viewportWidth    int
	viewportHeight   int
	sideWidth        int
	sideInnerWidth   int
	translateHeight  int
	chatHeight       int
	transcriptHeight int
	composerHeight   int
}

const (
	headerHeight    = 1
	footerHeight    = 1
	paneBorder      = 2
	panePadding     = 2
	paneTitleHeight = 1
	featureLine     = 1
)

func newPageLayout() pageLayout {
	l := pageLayout{}
	l.Update(100, 30, 1)
	return l
}

// Update recomputes every pane size for a window of width x height. The
// composer takes composerRows lines out of the chat pane.
func (l *pageLayout) Update(width, height, composerRows int) {
	l.windowWidth = width
	l.windowHeight = height
	if composerRows < 1 {
		composerRows = 1
	}

	body := height - headerHeight - footerHeight
	if body < 12 {
		body = 12
	}

	l.viewerWidth = width * 60 / 100
	if l.viewerWidth < minViewerWidth {
		l.viewerWidth = minViewerWidth
	}
	l.sideWidth = width - l.viewerWidth
	if l.sideWidth < minSideWidth {
		l.sideWidth = minSideWidth
	}
	l.viewerHeight = body
	l.viewportWidth = l.viewerWidth - paneBorder - panePadding
	l.viewportHeight = body - paneBorder - paneTitleHeight
	if l.viewportHeight < 3 {
		l.viewportHeight = 3
	}
	l.sideInnerWidth = l.sideWidth - paneBorder - panePadding

	l.translateHeight = body * 20 / 100
	if l.translateHeight < 6 {
		l.translateHeight = 6
	}
	l.chatHeight = body - l.translateHeight
	l.composerHeight = composerRows
	l.transcriptHeight = l.chatHeight - paneBorder - paneTitleHeight - featureLine - l.composerHeight
	if l.transcriptHeight < 3 {
		l.transcriptHeight = 3
	}
}

// paneRoot exposes the viewer viewport as the intersection root. It reads the
// live viewport, so the same root stays valid across scrolls.
type paneRoot struct {
	vp *viewport.Model
}

func (r *paneRoot) Bounds() viewer.Bounds {
	return viewer.Bounds{Top: r.vp.YOffset, Height: r.vp.Height}
}

// pageBlock is the line span one rendered page occupies in the viewer.
type pageBlock struct {
	number int
	top    int
	height int
}

func (b pageBlock) PageNumber() int { return b.number }

func (b pageBlock) Bounds() viewer.Bounds {
	return viewer.Bounds{Top: b.top, Height: b.height}
}

type documentView struct {
	lines      []string
	blocks     []pageBlock
	lineToPage []int
}

// renderDocument stacks every page as a framed block, centred in width.
func renderDocument(pages []string, scale float64, width int) documentView {
	view := documentView{}
	if len(pages) == 0 {
		return view
	}
	cols := pdfdoc.Columns(scale, width)
	pad := 0
	if width > cols {
		pad = (width - cols) / 2
	}
	indent := strings.Repeat(" ", pad)
	for idx, text := range pages {
		number := idx + 1
		if idx > 0 {
			for i := 0; i < pageBlockSpacing; i++ {
				view.lines = append(view.lines, "")
				view.lineToPage = append(view.lineToPage, number-1)
			}
		}
		block := pdfdoc.RenderPage(number, text, cols)
		view.blocks = append(view.blocks, pageBlock{number: number, top: len(view.lines), height: len(block)})
		for _, line := range block {
			view.lines = append(view.lines, indent+line)
			view.lineToPage = append(view.lineToPage, number)
		}
	}
	return view
}

func (v documentView) targets() []viewer.Target {
	targets := make([]viewer.Target, len(v.blocks))
	for i, block := range v.blocks {
		targets[i] = block
	}
	return targets
}

func (v documentView) blockFor(page int) (pageBlock, bool) {
	if page < 1 || page > len(v.blocks) {
		return pageBlock{}, false
	}
	return v.blocks[page-1], true
}

func (v documentView) pageAt(line int) int {
	if line < 0 || line >= len(v.lineToPage) {
		return 0
	}
	return v.lineToPage[line]
}

// pageLineText returns the document text on a rendered line, or false for
// frame borders and spacing.
func pageLineText(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, " ")
	if trimmed == "" || strings.HasPrefix(trimmed, "┌") || strings.HasPrefix(trimmed, "└") {
		return "", false
	}
	return pdfdoc.StripFrame(trimmed), true
}
