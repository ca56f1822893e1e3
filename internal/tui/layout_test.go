package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/csheth/docdesk/internal/viewer"
)

func TestPageLayoutUpdate(t *testing.T) {
	cases := []struct {
		name             string
		width            int
		height           int
		composerRows     int
		viewerWidth      int
		viewportWidth    int
		viewportHeight   int
		sideWidth        int
		translateHeight  int
		chatHeight       int
		transcriptHeight int
	}{
		{name: "default", width: 100, height: 30, composerRows: 1, viewerWidth: 60, viewportWidth: 56, viewportHeight: 25, sideWidth: 40, translateHeight: 6, chatHeight: 22, transcriptHeight: 17},
		{name: "narrow with tall composer", width: 80, height: 24, composerRows: 3, viewerWidth: 48, viewportWidth: 44, viewportHeight: 19, sideWidth: 32, translateHeight: 6, chatHeight: 16, transcriptHeight: 9},
		{name: "wide", width: 200, height: 50, composerRows: 5, viewerWidth: 120, viewportWidth: 116, viewportHeight: 45, sideWidth: 80, translateHeight: 9, chatHeight: 39, transcriptHeight: 30},
		{name: "tiny clamps", width: 20, height: 5, composerRows: 0, viewerWidth: 30, viewportWidth: 26, viewportHeight: 9, sideWidth: 24, translateHeight: 6, chatHeight: 6, transcriptHeight: 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			layout := newPageLayout()
			layout.Update(tc.width, tc.height, tc.composerRows)
			got := []int{layout.viewerWidth, layout.viewportWidth, layout.viewportHeight, layout.sideWidth, layout.translateHeight, layout.chatHeight, layout.transcriptHeight}
			want := []int{tc.viewerWidth, tc.viewportWidth, tc.viewportHeight, tc.sideWidth, tc.translateHeight, tc.chatHeight, tc.transcriptHeight}
			names := []string{"viewerWidth", "viewportWidth", "viewportHeight", "sideWidth", "translateHeight", "chatHeight", "transcriptHeight"}
			for i := range got {
				if got[i] != want[i] {
					t.Fatalf("%s mismatch: got %d want %d", names[i], got[i], want[i])
				}
			}
		})
	}
}

func TestRenderDocumentTracksPageSpans(t *testing.T) {
	view := renderDocument([]string{"alpha", "beta"}, 1.0, 60)
	if len(view.blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(view.blocks))
	}
	first, second := view.blocks[0], view.blocks[1]
	if first.top != 0 || first.height != 28 {
		t.Fatalf("first block = %+v", first)
	}
	if second.top != first.height+pageBlockSpacing {
		t.Fatalf("second block should start after the spacer, got %+v", second)
	}
	if len(view.lines) != second.top+second.height {
		t.Fatalf("line count %d does not end with the last block", len(view.lines))
	}
	if !strings.HasPrefix(view.lines[0], strings.Repeat(" ", 10)+"┌") {
		t.Fatalf("page should be centred in the pane: %q", view.lines[0])
	}
	if view.pageAt(1) != 1 || view.pageAt(second.top+1) != 2 || view.pageAt(-1) != 0 {
		t.Fatal("pageAt should map lines to their page")
	}
	if block, ok := view.blockFor(2); !ok || block != second {
		t.Fatalf("blockFor(2) = %+v, %v", block, ok)
	}
	if _, ok := view.blockFor(3); ok {
		t.Fatal("blockFor should reject pages past the end")
	}
	targets := view.targets()
	if len(targets) != 2 || targets[1].PageNumber() != 2 || targets[1].Bounds() != (viewer.Bounds{Top: second.top, Height: second.height}) {
		t.Fatalf("targets = %+v", targets)
	}
}

func TestRenderDocumentEmpty(t *testing.T) {
	view := renderDocument(nil, 1.5, 80)
	if len(view.lines) != 0 || len(view.blocks) != 0 {
		t.Fatalf("expected an empty view, got %+v", view)
	}
}

func TestPageLineText(t *testing.T) {
	view := renderDocument([]string{"hello world"}, 1.0, 40)
	if _, ok := pageLineText(view.lines[0]); ok {
		t.Fatal("top border is not text")
	}
	if text, ok := pageLineText(view.lines[1]); !ok || text != "hello world" {
		t.Fatalf("body line = %q, %v", text, ok)
	}
	if _, ok := pageLineText(view.lines[len(view.lines)-1]); ok {
		t.Fatal("bottom border is not text")
	}
	if _, ok := pageLineText(""); ok {
		t.Fatal("spacer is not text")
	}
}

func TestPaneRootFollowsViewport(t *testing.T) {
	vp := viewport.New(40, 10)
	vp.SetContent(strings.Repeat("line\n", 50))
	root := &paneRoot{vp: &vp}
	vp.SetYOffset(7)
	if got := root.Bounds(); got != (viewer.Bounds{Top: 7, Height: 10}) {
		t.Fatalf("bounds = %+v", got)
	}
}
