// Package recent stores the recently opened documents with their last
// reading position.
package recent

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// DefaultLimit caps the stored list.
const DefaultLimit = 20

// Entry is one recently opened document. Source is the URL it was downloaded
// from, empty for local files.
type Entry struct {
	Path     string    `json:"path"`
	Name     string    `json:"name"`
	Source   string    `json:"source,omitempty"`
	LastPage int       `json:"lastPage,omitempty"`
	OpenedAt time.Time `json:"openedAt"`
}

// Ref is what the picker shows and reopens: the URL for downloaded
// documents, the path otherwise.
func (e Entry) Ref() string {
	if e.Source != "" {
		return e.Source
	}
	return e.Path
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".docdesk", "recent.json")
}

// Load returns the stored entries, newest first. A missing file is an empty
// list.
func Load(path string) ([]Entry, error) {
	entries, err := loadEntries(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	sortNewestFirst(entries)
	return entries, nil
}

// Touch records that entry was opened now. An existing entry for the same
// path keeps its reading position unless entry carries a new one. The list
// is trimmed to limit entries (DefaultLimit when limit <= 0).
func Touch(path string, entry Entry, limit int) ([]Entry, error) {
	if entry.Path == "" {
		return nil, errors.New("recent entry needs a path")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	entries, err := Load(path)
	if err != nil {
		return nil, err
	}
	if entry.OpenedAt.IsZero() {
		entry.OpenedAt = time.Now()
	}
	if entry.Name == "" {
		entry.Name = filepath.Base(entry.Path)
	}

	kept := make([]Entry, 0, len(entries)+1)
	for _, existing := range entries {
		if existing.Path != entry.Path {
			kept = append(kept, existing)
			continue
		}
		if entry.LastPage == 0 {
			entry.LastPage = existing.LastPage
		}
		if entry.Source == "" {
			entry.Source = existing.Source
		}
	}
	entries = append([]Entry{entry}, kept...)
	sortNewestFirst(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, writeEntries(path, entries)
}

// SetPosition stores the last page of an already recorded document. It is
// shown in the picker; reopening a document always starts on page 1.
func SetPosition(path, docPath string, page int) error {
	entries, err := Load(path)
	if err != nil {
		return err
	}
	for i := range entries {
		if entries[i].Path == docPath {
			entries[i].LastPage = page
			return writeEntries(path, entries)
		}
	}
	return nil
}

// Find returns the entry for docPath.
func Find(entries []Entry, docPath string) (Entry, bool) {
	for _, e := range entries {
		if e.Path == docPath {
			return e, true
		}
	}
	return Entry{}, false
}

func sortNewestFirst(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].OpenedAt.After(entries[j].OpenedAt)
	})
}

func writeEntries(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func loadEntries(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
