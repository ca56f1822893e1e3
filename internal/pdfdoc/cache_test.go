package pdfdoc

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestCacheReusesFreshFile(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Etag", `"v1"`)
		_, _ = w.Write([]byte("%PDF-1.4\nHello"))
	}))
	t.Cleanup(server.Close)

	cache, err := NewCache(t.TempDir(), server.Client())
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	ctx := context.Background()

	path, err := cache.Fetch(ctx, server.URL+"/papers/attention.pdf")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("cached file missing: %v", err)
	}
	path2, err := cache.Fetch(ctx, server.URL+"/papers/attention.pdf")
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if path != path2 {
		t.Fatalf("paths differ: %s vs %s", path, path2)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected a single download, got %d", hits.Load())
	}
}

func TestCacheConditionalRefresh(t *testing.T) {
	t.Parallel()

	var conditional atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v2"` {
			conditional.Store(true)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Etag", `"v2"`)
		_, _ = w.Write([]byte("%PDF-1.4\nUpdated"))
	}))
	t.Cleanup(server.Close)

	cache, err := NewCache(t.TempDir(), server.Client())
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	ctx := context.Background()
	path, err := cache.Fetch(ctx, server.URL+"/b.pdf")
	if err != nil {
		t.Fatalf("initial fetch: %v", err)
	}

	old := time.Now().Add(-(cacheTTL + time.Hour))
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if _, err := cache.Fetch(ctx, server.URL+"/b.pdf"); err != nil {
		t.Fatalf("conditional fetch: %v", err)
	}
	if !conditional.Load() {
		t.Fatal("stale cache should send If-None-Match")
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if time.Since(info.ModTime()) > time.Hour {
		t.Fatal("a 304 should refresh the cached copy's age")
	}
}

func TestCacheResumesPartialDownload(t *testing.T) {
	t.Parallel()

	var rangeHeader atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rangeHeader.Store(r.Header.Get("Range"))
		w.Header().Set("Etag", `"resume"`)
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write([]byte("world"))
	}))
	t.Cleanup(server.Close)

	cache, err := NewCache(t.TempDir(), server.Client())
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	pdfURL := server.URL + "/c.pdf"
	pdfPath, metaPath, partPath := cache.pathsFor(cacheKey(pdfURL))
	if err := os.WriteFile(partPath, []byte("hello "), 0o644); err != nil {
		t.Fatalf("write partial: %v", err)
	}
	if err := writeMeta(metaPath, cacheMeta{ETag: `"resume"`}); err != nil {
		t.Fatalf("write meta: %v", err)
	}

	path, err := cache.Fetch(context.Background(), pdfURL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if path != pdfPath {
		t.Fatalf("unexpected path: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read cached pdf: %v", err)
	}
	if string(data) != "hello world" {
		t.Fatalf("resume failed, got %q", string(data))
	}
	if got, _ := rangeHeader.Load().(string); got != fmt.Sprintf("bytes=%d-", len("hello ")) {
		t.Fatalf("expected range header, got %q", got)
	}
	if _, err := os.Stat(partPath); !os.IsNotExist(err) {
		t.Fatalf("partial file should be gone, err=%v", err)
	}
}

func TestCacheServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	cache, err := NewCache(t.TempDir(), server.Client())
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	if _, err := cache.Fetch(context.Background(), server.URL+"/missing.pdf"); err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
}

func TestCacheKeyAndDisplayName(t *testing.T) {
	t.Parallel()

	key := cacheKey("https://example.com/files/My%20Paper.pdf")
	if !strings.HasPrefix(key, "My_Paper-") || strings.ContainsAny(key, "/: ") {
		t.Fatalf("unexpected key %q", key)
	}
	if a, b := cacheKey("https://a.example/x.pdf"), cacheKey("https://b.example/x.pdf"); a == b {
		t.Fatal("keys for different hosts must differ")
	}
	if got := DisplayName("https://arxiv.org/pdf/2101.00001"); got != "2101.00001.pdf" {
		t.Fatalf("DisplayName = %q", got)
	}
	if got := DisplayName("https://example.com/"); got != "document.pdf" {
		t.Fatalf("DisplayName = %q", got)
	}
}
