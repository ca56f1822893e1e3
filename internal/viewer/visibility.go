package viewer

import "sort"

// DefaultVisibilityThreshold is the share of a page that must be on screen
// before it joins the visible set.
const DefaultVisibilityThreshold = 0.1

// Tracker maintains the ascending set of page numbers visible in the viewport.
type Tracker struct {
	threshold float64
	observer  *Observer
	visible   []int
}

// NewTracker returns a tracker whose visible set starts at page 1.
func NewTracker(threshold float64) *Tracker {
	if threshold <= 0 {
		threshold = DefaultVisibilityThreshold
	}
	return &Tracker{threshold: threshold, visible: []int{1}}
}

// Attach observes targets inside root. When root is a different container
// than the one currently observed, the old observer is torn down and a new one
// observes the same targets plus the new ones.
func (t *Tracker) Attach(root Root, targets []Target) {
	if t.observer != nil && t.observer.Root() != root {
		previous := t.observer.Targets()
		t.observer.Disconnect()
		t.observer = nil
		targets = append(previous, targets...)
	}
	if t.observer == nil {
		t.observer = NewObserver(root, t.threshold, t.handle)
	}
	for _, target := range targets {
		t.observer.Observe(target)
	}
}

// Refresh re-measures every observed page. Call it after scrolling or layout.
func (t *Tracker) Refresh() {
	if t.observer == nil {
		return
	}
	t.observer.Check()
}

func (t *Tracker) handle(entries []Entry) {
	for _, entry := range entries {
		switch {
		case entry.Intersecting && !t.Contains(entry.Page):
			t.visible = append(t.visible, entry.Page)
		case !entry.Intersecting:
			t.remove(entry.Page)
		}
	}
	sort.Ints(t.visible)
}

func (t *Tracker) remove(page int) {
	for i, p := range t.visible {
		if p == page {
			t.visible = append(t.visible[:i], t.visible[i+1:]...)
			return
		}
	}
}

// Visible returns a copy of the visible set.
func (t *Tracker) Visible() []int {
	return append([]int(nil), t.visible...)
}

// Contains reports whether page is currently visible.
func (t *Tracker) Contains(page int) bool {
	for _, p := range t.visible {
		if p == page {
			return true
		}
	}
	return false
}

// Reset replaces the visible set.
func (t *Tracker) Reset(pages ...int) {
	set := make([]int, 0, len(pages))
	for _, page := range pages {
		if !containsInt(set, page) {
			set = append(set, page)
		}
	}
	sort.Ints(set)
	t.visible = set
}

// Observing reports whether an observer is live.
func (t *Tracker) Observing() bool {
	return t.observer != nil
}

// Close disconnects the observer. No visibility change is applied afterwards.
func (t *Tracker) Close() {
	if t.observer != nil {
		t.observer.Disconnect()
		t.observer = nil
	}
}

func containsInt(values []int, needle int) bool {
	for _, v := range values {
		if v == needle {
			return true
		}
	}
	return false
}
