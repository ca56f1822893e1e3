package pdfdoc

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const (
	cacheEnvVar        = "DOCDESK_CACHE_DIR"
	cacheSubdir        = "docdesk/pdfs"
	cacheTTL           = 24 * time.Hour
	partialSuffix      = ".part"
	metaSuffix         = ".meta"
	defaultHTTPTimeout = 90 * time.Second
)

// Cache keeps downloaded PDFs on disk and refreshes them with conditional and
// range requests.
type Cache struct {
	dir    string
	client *http.Client
}

type cacheMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"lastModified"`
	CachedAt     time.Time `json:"cachedAt"`
	Size         int64     `json:"size"`
}

// NewCache opens the cache at dir. An empty dir falls back to
// $DOCDESK_CACHE_DIR and then the user cache directory.
func NewCache(dir string, client *http.Client) (*Cache, error) {
	if dir == "" {
		dir = os.Getenv(cacheEnvVar)
	}
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = filepath.Join(os.TempDir(), "docdesk-cache")
		}
		dir = filepath.Join(base, cacheSubdir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Cache{dir: dir, client: client}, nil
}

// Fetch returns a local path for pdfURL, downloading it when the cached copy
// is missing or older than the TTL. A stale copy is served when the refresh
// fails.
func (c *Cache) Fetch(ctx context.Context, pdfURL string) (string, error) {
	key := cacheKey(pdfURL)
	pdfPath, metaPath, partialPath := c.pathsFor(key)

	if info, err := os.Stat(pdfPath); err == nil && time.Since(info.ModTime()) < cacheTTL && info.Size() > 0 {
		return pdfPath, nil
	}

	meta, _ := readMeta(metaPath)
	info, _ := os.Stat(pdfPath)
	p, err := c.download(ctx, pdfURL, pdfPath, metaPath, partialPath, meta, info)
	if err == nil {
		return p, nil
	}
	if info != nil && info.Size() > 0 {
		return pdfPath, nil
	}
	return "", err
}

func (c *Cache) download(ctx context.Context, pdfURL, pdfPath, metaPath, partialPath string, meta cacheMeta, current os.FileInfo) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return "", err
	}
	if current != nil && current.Size() > 0 {
		if meta.ETag != "" {
			req.Header.Set("If-None-Match", meta.ETag)
		}
		if meta.LastModified != "" {
			req.Header.Set("If-Modified-Since", meta.LastModified)
		}
	}

	var partialSize int64
	if info, err := os.Stat(partialPath); err == nil && info.Size() > 0 {
		partialSize = info.Size()
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", partialSize))
		switch {
		case meta.ETag != "":
			req.Header.Set("If-Range", meta.ETag)
		case meta.LastModified != "":
			req.Header.Set("If-Range", meta.LastModified)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		if current != nil && current.Size() > 0 {
			meta.CachedAt = time.Now().UTC()
			now := time.Now()
			_ = os.Chtimes(pdfPath, now, now)
			_ = writeMeta(metaPath, meta)
			return pdfPath, nil
		}
		return c.download(ctx, pdfURL, pdfPath, metaPath, partialPath, cacheMeta{}, nil)
	case http.StatusOK:
		return c.saveBody(resp, pdfPath, metaPath, partialPath, false)
	case http.StatusPartialContent:
		return c.saveBody(resp, pdfPath, metaPath, partialPath, partialSize > 0)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("pdf download failed: %s (%s)", resp.Status, string(body))
	}
}

func (c *Cache) saveBody(resp *http.Response, pdfPath, metaPath, partialPath string, appendExisting bool) (string, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if appendExisting {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	file, err := os.OpenFile(partialPath, flags, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(partialPath, pdfPath); err != nil {
		return "", err
	}

	meta := cacheMeta{
		URL:          resp.Request.URL.String(),
		ETag:         resp.Header.Get("Etag"),
		LastModified: resp.Header.Get("Last-Modified"),
		CachedAt:     time.Now().UTC(),
	}
	if info, err := os.Stat(pdfPath); err == nil {
		meta.Size = info.Size()
	}
	if err := writeMeta(metaPath, meta); err != nil {
		return "", err
	}
	return pdfPath, nil
}

// pathsFor returns the pdf, metadata and partial download paths for key.
func (c *Cache) pathsFor(key string) (string, string, string) {
	return filepath.Join(c.dir, key+".pdf"), filepath.Join(c.dir, key+metaSuffix), filepath.Join(c.dir, key+partialSuffix)
}

// cacheKey keeps the readable file name from the URL and suffixes a short
// hash so two hosts serving the same name do not collide.
func cacheKey(pdfURL string) string {
	sum := sha1.Sum([]byte(pdfURL))
	digest := hex.EncodeToString(sum[:])[:12]
	base := ""
	if parsed, err := url.Parse(pdfURL); err == nil {
		base = strings.TrimSuffix(path.Base(parsed.Path), path.Ext(parsed.Path))
	}
	base = sanitizeKey(base)
	if base == "" || base == "." || base == "-" {
		return digest
	}
	return base + "-" + digest
}

func sanitizeKey(value string) string {
	value = strings.TrimSpace(value)
	value = strings.ReplaceAll(value, "/", "-")
	value = strings.ReplaceAll(value, ":", "-")
	value = strings.ReplaceAll(value, "..", "-")
	value = strings.ReplaceAll(value, " ", "_")
	return value
}

// DisplayName is the file name a remote document is shown and uploaded as.
func DisplayName(pdfURL string) string {
	parsed, err := url.Parse(pdfURL)
	if err != nil {
		return "document.pdf"
	}
	name := path.Base(parsed.Path)
	if name == "" || name == "." || name == "/" {
		return "document.pdf"
	}
	if !HasPDFExtension(name) {
		name += ".pdf"
	}
	return name
}

func readMeta(path string) (cacheMeta, error) {
	var meta cacheMeta
	data, err := os.ReadFile(path)
	if err != nil {
		return meta, err
	}
	err = json.Unmarshal(data, &meta)
	return meta, err
}

func writeMeta(path string, meta cacheMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
