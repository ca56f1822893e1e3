package pdfdoc

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/csheth/docdesk/internal/logger"
)

var (
	collapseSpaces = regexp.MustCompile(`[ \t]+`)
	blankRuns      = regexp.MustCompile(`\n{3,}`)
	configOnce     sync.Once
)

// Source is what the viewer needs from an open document.
type Source interface {
	Name() string
	PageCount() int
	PageText(number int) (string, error)
	Close() error
}

// Document is an open PDF on disk.
type Document struct {
	path   string
	name   string
	file   *os.File
	reader *pdf.Reader
	pages  int
	texts  map[int]string
}

// Open validates path with pdfcpu and opens it for text extraction. A
// validation failure is logged but not fatal: many real-world PDFs fail strict
// validation and still extract fine.
func Open(path string) (*Document, error) {
	log := logger.Named("pdfdoc")
	mediaType, err := DetectMediaType(path)
	if err != nil {
		return nil, err
	}
	if mediaType != MediaTypePDF {
		return nil, fmt.Errorf("%s: %w (%s)", filepath.Base(path), ErrNotPDF, mediaType)
	}
	if err := Validate(path); err != nil {
		log.WithError(err).WithField("path", path).Warn("pdf failed relaxed validation")
	}

	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	pages := reader.NumPage()
	if pages <= 0 {
		if count, countErr := api.PageCountFile(path); countErr == nil {
			pages = count
		}
	}
	log.WithField("path", path).WithField("pages", pages).Info("document opened")
	return &Document{
		path:   path,
		name:   filepath.Base(path),
		file:   file,
		reader: reader,
		pages:  pages,
		texts:  map[int]string{},
	}, nil
}

// Validate runs pdfcpu's relaxed validation over path.
func Validate(path string) error {
	configOnce.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return api.ValidateFile(path, conf)
}

func (d *Document) Name() string   { return d.name }
func (d *Document) Path() string   { return d.path }
func (d *Document) PageCount() int { return d.pages }

// PageText extracts and caches the plain text of a 1-based page.
func (d *Document) PageText(number int) (string, error) {
	if number < 1 || number > d.pages {
		return "", fmt.Errorf("page %d out of range (1-%d)", number, d.pages)
	}
	if text, ok := d.texts[number]; ok {
		return text, nil
	}
	page := d.reader.Page(number)
	if page.V.IsNull() {
		d.texts[number] = ""
		return "", nil
	}
	raw, err := page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from page %d: %w", number, err)
	}
	text := normalizePageText(raw)
	d.texts[number] = text
	return text, nil
}

// Close releases the underlying file.
func (d *Document) Close() error {
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}

func normalizePageText(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	raw = collapseSpaces.ReplaceAllString(raw, " ")
	raw = blankRuns.ReplaceAllString(raw, "\n\n")
	return strings.TrimSpace(raw)
}
