package recent

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	entries, err := Load(filepath.Join(t.TempDir(), "recent.json"))
	if err != nil || len(entries) != 0 {
		t.Fatalf("Load = %v, %v", entries, err)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "recent.json")
	if err := os.WriteFile(path, []byte("  \n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if entries, err := Load(path); err != nil || len(entries) != 0 {
		t.Fatalf("Load = %v, %v", entries, err)
	}
}

func TestTouchOrdersNewestFirst(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state", "recent.json")
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	if _, err := Touch(path, Entry{Path: "/docs/a.pdf", OpenedAt: base}, 0); err != nil {
		t.Fatalf("Touch a: %v", err)
	}
	if _, err := Touch(path, Entry{Path: "/docs/b.pdf", OpenedAt: base.Add(time.Minute)}, 0); err != nil {
		t.Fatalf("Touch b: %v", err)
	}
	entries, err := Touch(path, Entry{Path: "/docs/a.pdf", OpenedAt: base.Add(2 * time.Minute)}, 0)
	if err != nil {
		t.Fatalf("Touch a again: %v", err)
	}
	if len(entries) != 2 || entries[0].Path != "/docs/a.pdf" || entries[1].Path != "/docs/b.pdf" {
		t.Fatalf("unexpected order: %+v", entries)
	}
	if entries[0].Name != "a.pdf" {
		t.Fatalf("name not derived: %+v", entries[0])
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 2 || loaded[0].Path != "/docs/a.pdf" {
		t.Fatalf("persisted order wrong: %+v", loaded)
	}
}

func TestTouchKeepsPosition(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "recent.json")
	if _, err := Touch(path, Entry{Path: "/docs/a.pdf", Source: "https://x.test/a.pdf"}, 0); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	if err := SetPosition(path, "/docs/a.pdf", 7); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	entries, err := Touch(path, Entry{Path: "/docs/a.pdf"}, 0)
	if err != nil {
		t.Fatalf("Touch: %v", err)
	}
	entry, ok := Find(entries, "/docs/a.pdf")
	if !ok || entry.LastPage != 7 {
		t.Fatalf("position lost: %+v", entry)
	}
	if entry.Ref() != "https://x.test/a.pdf" {
		t.Fatalf("Ref = %q", entry.Ref())
	}
}

func TestTouchTrimsToLimit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "recent.json")
	base := time.Now()
	var entries []Entry
	for i, name := range []string{"a", "b", "c", "d"} {
		var err error
		entries, err = Touch(path, Entry{Path: "/docs/" + name + ".pdf", OpenedAt: base.Add(time.Duration(i) * time.Second)}, 3)
		if err != nil {
			t.Fatalf("Touch: %v", err)
		}
	}
	if len(entries) != 3 || entries[0].Path != "/docs/d.pdf" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if _, ok := Find(entries, "/docs/a.pdf"); ok {
		t.Fatal("oldest entry should be trimmed")
	}
}

func TestTouchRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Touch(filepath.Join(t.TempDir(), "recent.json"), Entry{}, 0); err == nil {
		t.Fatal("expected an error")
	}
}
