package backend

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
)

const (
	StatusUploaded = "uploaded"
	StatusExists   = "exists"
)

// UploadResult is the service's answer to a document upload.
type UploadResult struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
	Status   string `json:"status"`
}

// Duplicate reports whether the service already held an identical file.
func (r UploadResult) Duplicate() bool { return r.Status == StatusExists }

// Upload posts the PDF at path as multipart field "file". name is the file
// name the service stores it under; empty means the base name of path.
func (c *Client) Upload(ctx context.Context, name, path string) (UploadResult, error) {
	if name == "" {
		name = filepath.Base(path)
	}
	file, err := os.Open(path)
	if err != nil {
		return UploadResult{}, err
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	header.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(header)
	if err != nil {
		return UploadResult{}, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return UploadResult{}, err
	}
	if err := writer.Close(); err != nil {
		return UploadResult{}, err
	}

	var result UploadResult
	if err := c.do(ctx, http.MethodPost, "/upload", writer.FormDataContentType(), &body, &result); err != nil {
		return UploadResult{}, err
	}
	if result.Filename == "" {
		result.Filename = name
	}
	c.log.WithField("file", result.Filename).WithField("status", result.Status).Info("document uploaded")
	return result, nil
}

// ScreenshotResult names the stored screenshot.
type ScreenshotResult struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
}

// UploadScreenshot sends a PNG as base64 JSON.
func (c *Client) UploadScreenshot(ctx context.Context, png []byte) (ScreenshotResult, error) {
	if len(png) == 0 {
		return ScreenshotResult{}, fmt.Errorf("screenshot is empty")
	}
	payload := map[string]string{"screenshot": base64.StdEncoding.EncodeToString(png)}
	var result ScreenshotResult
	if err := c.postJSON(ctx, "/upload-screenshot", payload, &result); err != nil {
		return ScreenshotResult{}, err
	}
	return result, nil
}

// HealthStatus is the body of GET /.
type HealthStatus struct {
	Status string `json:"status"`
}

func (h HealthStatus) Healthy() bool { return h.Status == "healthy" }

// Health checks the service root.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var status HealthStatus
	if err := c.do(ctx, http.MethodGet, "/", "", nil, &status); err != nil {
		return HealthStatus{}, err
	}
	return status, nil
}
