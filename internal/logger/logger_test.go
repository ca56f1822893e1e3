package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestPlainFormatter(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	cases := []struct {
		name    string
		data    logrus.Fields
		message string
		want    string
	}{
		{
			name: "component and fields",
			data: logrus.Fields{
				"component": "backend",
				"caller":    "x.go:1",
				"path":      "/chat",
				"status":    502,
			},
			message: "request failed",
			want:    "x.go:1 [2025-01-02T03:04:05Z] [INFO] [backend] request failed path=/chat status=502\n",
		},
		{
			name:    "bare",
			data:    logrus.Fields{},
			message: "hello",
			want:    "[2025-01-02T03:04:05Z] [INFO] hello\n",
		},
		{
			name:    "error field",
			data:    logrus.Fields{"error": errors.New("boom")},
			message: "upload",
			want:    "[2025-01-02T03:04:05Z] [INFO] upload error=boom\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entry := &logrus.Entry{
				Logger:  logrus.New(),
				Time:    ts,
				Level:   logrus.InfoLevel,
				Message: tc.message,
				Data:    tc.data,
			}
			out, err := (PlainFormatter{}).Format(entry)
			if err != nil {
				t.Fatalf("Format() error: %v", err)
			}
			if got := string(out); got != tc.want {
				t.Fatalf("unexpected format:\nwant: %q\ngot:  %q", tc.want, got)
			}
		})
	}
}

func TestSetupFileWritesNamedEntries(t *testing.T) {
	l := logrus.New()
	l.SetFormatter(PlainFormatter{})
	setRoot(l)
	t.Cleanup(func() { setRoot(nil) })

	path := filepath.Join(t.TempDir(), "nested", "docdesk.log")
	closer, resolved, err := SetupFile(path)
	if err != nil {
		t.Fatalf("SetupFile: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved path = %q", resolved)
	}
	Named("viewer").WithField("page", 3).Info("page changed")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "[viewer] page changed page=3") {
		t.Fatalf("unexpected log contents: %q", string(data))
	}
}

func TestSetLevel(t *testing.T) {
	l := logrus.New()
	setRoot(l)
	t.Cleanup(func() { setRoot(nil) })

	if err := SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	if l.GetLevel() != logrus.DebugLevel {
		t.Fatalf("level = %v", l.GetLevel())
	}
	if err := SetLevel("loud"); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
	if err := SetLevel(""); err != nil {
		t.Fatalf("empty level should be a no-op: %v", err)
	}
}

func TestShortenFilePath(t *testing.T) {
	cases := map[string]string{
		"/home/u/src/docdesk/internal/tui/model.go": "internal/tui/model.go",
		"/home/u/src/docdesk/cmd/docdesk/main.go":   "cmd/docdesk/main.go",
		"/usr/lib/go/src/runtime/proc.go":           "proc.go",
	}
	for in, want := range cases {
		if got := shortenFilePath(in); got != want {
			t.Fatalf("shortenFilePath(%q) = %q, want %q", in, got, want)
		}
	}
}
