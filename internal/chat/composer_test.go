package chat

import (
	"strings"
	"testing"
	"time"
)

func TestNormalizePaste(t *testing.T) {
	cases := map[string]string{
		"\r\n\r\nline one\r\nline two\rline three\n\n": "line one\nline two\nline three",
		"plain":      "plain",
		"\n\n\n":     "",
		"  keep  \n": "  keep  ",
		"a\n\n\nb":   "a\n\n\nb",
	}
	for in, want := range cases {
		if got := NormalizePaste(in); got != want {
			t.Fatalf("NormalizePaste(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHasLineBreaks(t *testing.T) {
	if HasLineBreaks("single line") {
		t.Fatal("no breaks expected")
	}
	for _, s := range []string{"a\nb", "a\rb", "a\r\nb"} {
		if !HasLineBreaks(s) {
			t.Fatalf("expected break in %q", s)
		}
	}
}

func TestComposerRows(t *testing.T) {
	cases := []struct {
		name  string
		value string
		width int
		want  int
	}{
		{"empty", "", 20, 1},
		{"short", "hello", 20, 1},
		{"wraps", strings.Repeat("x", 45), 20, 3},
		{"newlines", "a\nb\nc", 20, 3},
		{"clamped", strings.Repeat("line\n", 12), 20, MaxComposerRows},
		{"wide runes", "漢字漢字漢字", 4, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComposerRows(tc.value, tc.width, MinComposerRows, MaxComposerRows); got != tc.want {
				t.Fatalf("ComposerRows = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	taipei := time.FixedZone("UTC+8", 8*60*60)
	cases := []struct {
		in   string
		want string
	}{
		{"2024-05-01T10:20:00Z", "18:20"},
		{"2024-05-01T10:20:00.123+02:00", "16:20"},
		{"2024-05-01T09:05:33.123456", "09:05"},
		{"not a time", ""},
	}
	for _, tc := range cases {
		if got := FormatTimestamp(tc.in, taipei); got != tc.want {
			t.Fatalf("FormatTimestamp(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
