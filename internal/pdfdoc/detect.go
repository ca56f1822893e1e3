package pdfdoc

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MediaTypePDF is the media type reported for PDF content.
const MediaTypePDF = "application/pdf"

// ErrNotPDF is returned when a file does not carry PDF content.
var ErrNotPDF = errors.New("not a PDF document")

const sniffLength = 512

// DetectMediaType sniffs the leading bytes of path.
func DetectMediaType(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	head := make([]byte, sniffLength)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	return sniffBytes(head[:n]), nil
}

func sniffBytes(head []byte) string {
	mediaType := http.DetectContentType(head)
	if idx := strings.IndexByte(mediaType, ';'); idx >= 0 {
		mediaType = strings.TrimSpace(mediaType[:idx])
	}
	return mediaType
}

// HasPDFExtension reports whether name ends in .pdf, ignoring case.
func HasPDFExtension(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// IsRemote reports whether ref points at an http(s) URL.
func IsRemote(ref string) bool {
	lower := strings.ToLower(strings.TrimSpace(ref))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
