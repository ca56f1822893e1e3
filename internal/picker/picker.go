// Package picker lists openable documents and filters them as the user types.
package picker

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/csheth/docdesk/internal/pdfdoc"
	"github.com/csheth/docdesk/internal/recent"
)

type Kind int

const (
	KindLocal Kind = iota
	KindRecent
)

func (k Kind) String() string {
	if k == KindRecent {
		return "recent"
	}
	return "file"
}

// Item is one openable document. Ref is a local path or an http(s) URL.
type Item struct {
	Ref        string
	Label      string
	Kind       Kind
	Highlights []int
}

// Scan lists the PDFs directly inside dir, sorted by name.
func Scan(dir string) ([]Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !pdfdoc.HasPDFExtension(entry.Name()) {
			continue
		}
		items = append(items, Item{
			Ref:   filepath.Join(dir, entry.Name()),
			Label: entry.Name(),
			Kind:  KindLocal,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i].Label) < strings.ToLower(items[j].Label)
	})
	return items, nil
}

// Merge puts recents first and drops local files already listed as recent.
func Merge(recents []recent.Entry, local []Item) []Item {
	seen := make(map[string]bool, len(recents)+len(local))
	items := make([]Item, 0, len(recents)+len(local))
	for _, entry := range recents {
		ref := entry.Ref()
		key := normalizeRef(ref)
		if ref == "" || seen[key] {
			continue
		}
		seen[key] = true
		seen[normalizeRef(entry.Path)] = true
		label := entry.Name
		if label == "" {
			label = filepath.Base(entry.Path)
		}
		items = append(items, Item{Ref: ref, Label: label, Kind: KindRecent})
	}
	for _, item := range local {
		key := normalizeRef(item.Ref)
		if seen[key] {
			continue
		}
		seen[key] = true
		items = append(items, item)
	}
	return items
}

func normalizeRef(ref string) string {
	if ref == "" || pdfdoc.IsRemote(ref) {
		return ref
	}
	if abs, err := filepath.Abs(ref); err == nil {
		return abs
	}
	return filepath.Clean(ref)
}

// Picker is the filter state: the query, the matches and a cursor.
type Picker struct {
	items   []Item
	query   string
	matches []Item
	cursor  int
}

func New(items []Item) *Picker {
	p := &Picker{items: items}
	p.refilter()
	return p
}

func (p *Picker) Query() string   { return p.query }
func (p *Picker) Matches() []Item { return p.matches }
func (p *Picker) Cursor() int     { return p.cursor }
func (p *Picker) Len() int        { return len(p.items) }

func (p *Picker) SetItems(items []Item) {
	p.items = items
	p.refilter()
}

func (p *Picker) SetQuery(query string) {
	if query == p.query {
		return
	}
	p.query = query
	p.refilter()
}

// Move shifts the cursor, clamped to the match list.
func (p *Picker) Move(delta int) {
	if len(p.matches) == 0 {
		p.cursor = 0
		return
	}
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor >= len(p.matches) {
		p.cursor = len(p.matches) - 1
	}
}

func (p *Picker) Selected() (Item, bool) {
	if p.cursor < 0 || p.cursor >= len(p.matches) {
		return Item{}, false
	}
	return p.matches[p.cursor], true
}

// Resolve is the reference to open on Enter: a typed URL or an existing path
// wins over the highlighted match.
func (p *Picker) Resolve() string {
	typed := strings.TrimSpace(p.query)
	if pdfdoc.IsRemote(typed) {
		return typed
	}
	if typed != "" {
		if info, err := os.Stat(expandHome(typed)); err == nil && !info.IsDir() {
			return expandHome(typed)
		}
	}
	if item, ok := p.Selected(); ok {
		return item.Ref
	}
	return ""
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func (p *Picker) refilter() {
	p.cursor = 0
	trimmed := strings.TrimSpace(p.query)
	if trimmed == "" || pdfdoc.IsRemote(trimmed) {
		p.matches = append([]Item(nil), p.items...)
		return
	}

	// Each item is matched by label and by full reference.
	keys := make([]string, 0, len(p.items)*2)
	owners := make([]int, 0, len(p.items)*2)
	for idx, item := range p.items {
		keys = append(keys, strings.ToLower(item.Label))
		owners = append(owners, idx)
		keys = append(keys, strings.ToLower(item.Ref))
		owners = append(owners, idx)
	}
	results := fuzzy.Find(strings.ToLower(trimmed), keys)
	type scored struct {
		item  Item
		score int
	}
	byItem := map[int]int{}
	ranked := make([]scored, 0, len(results))
	for _, res := range results {
		idx := owners[res.Index]
		pos, ok := byItem[idx]
		if !ok {
			pos = len(ranked)
			byItem[idx] = pos
			ranked = append(ranked, scored{item: p.items[idx], score: res.Score})
		}
		if res.Score > ranked[pos].score {
			ranked[pos].score = res.Score
		}
		if res.Index%2 == 0 {
			ranked[pos].item.Highlights = res.MatchedIndexes
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	p.matches = make([]Item, 0, len(ranked))
	for _, r := range ranked {
		p.matches = append(p.matches, r.item)
	}
}
