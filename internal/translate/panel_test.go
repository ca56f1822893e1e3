package translate

import (
	"errors"
	"testing"
)

func TestLookup(t *testing.T) {
	cases := map[string]string{
		"zh-TW": "zh-TW",
		"zh_tw": "zh-TW",
		"ZH-cn": "zh-CN",
		" en ":  "en",
		"ja":    "ja",
	}
	for in, want := range cases {
		lang, ok := Lookup(in)
		if !ok || lang.Code != want {
			t.Fatalf("Lookup(%q) = %q, %v; want %q", in, lang.Code, ok, want)
		}
	}
	for _, bad := range []string{"", "fr", "xx-!!", "zh"} {
		if _, ok := Lookup(bad); ok {
			t.Fatalf("Lookup(%q) should fail", bad)
		}
	}
}

func TestLanguageNames(t *testing.T) {
	for _, lang := range Languages {
		if lang.EnglishName() == "" || lang.Native == "" {
			t.Fatalf("missing names for %s", lang.Code)
		}
	}
	en, _ := Lookup("en")
	if en.EnglishName() != "English" {
		t.Fatalf("EnglishName = %q", en.EnglishName())
	}
	if en.Label() != "English (en)" {
		t.Fatalf("Label = %q", en.Label())
	}
}

func TestNewPanelDefaultsLanguage(t *testing.T) {
	if got := NewPanel("").Language(); got != DefaultLanguage {
		t.Fatalf("default language = %q", got)
	}
	if got := NewPanel("fr").Language(); got != DefaultLanguage {
		t.Fatalf("unsupported language should fall back, got %q", got)
	}
	if got := NewPanel("ko").Language(); got != "ko" {
		t.Fatalf("language = %q", got)
	}
}

func TestSelectRequestsTranslation(t *testing.T) {
	p := NewPanel("")

	req, ok := p.Select("  Attention is all you need  ", 3)
	if !ok {
		t.Fatal("expected a request")
	}
	if req.Text != "Attention is all you need" || req.Language != "zh-TW" {
		t.Fatalf("unexpected request %+v", req)
	}
	if !p.Loading() || p.Page() != 3 || p.Translated() != "" {
		t.Fatal("panel should be loading with cleared translation")
	}
	if !p.Apply(req.Seq, "注意力就是你所需要的") {
		t.Fatal("current result should apply")
	}
	if p.Loading() || p.Translated() != "注意力就是你所需要的" {
		t.Fatal("translation not stored")
	}

	if _, ok := p.Select("   ", 4); ok {
		t.Fatal("blank selection must not request")
	}
	if p.Original() != "" || p.Translated() != "" || p.Loading() {
		t.Fatal("blank selection should clear the panel")
	}
}

func TestStaleResultsAreIgnored(t *testing.T) {
	p := NewPanel("en")

	first, _ := p.Select("first", 1)
	second, _ := p.Select("second", 1)

	if p.Apply(first.Seq, "stale") {
		t.Fatal("first result must be ignored")
	}
	if p.Fail(first.Seq) {
		t.Fatal("first failure must be ignored")
	}
	if !p.Loading() {
		t.Fatal("second request is still outstanding")
	}
	if !p.Apply(second.Seq, "fresh") || p.Translated() != "fresh" {
		t.Fatal("second result should apply")
	}
}

func TestSetLanguageRetranslates(t *testing.T) {
	p := NewPanel("")
	if _, ok := p.SetLanguage("ja"); ok {
		t.Fatal("no request without original text")
	}
	if p.Language() != "ja" {
		t.Fatal("language should still change")
	}

	first, _ := p.Select("hello", 1)
	p.Apply(first.Seq, "こんにちは")

	req, ok := p.SetLanguage("ko")
	if !ok || req.Language != "ko" || req.Text != "hello" {
		t.Fatalf("unexpected request %+v ok=%v", req, ok)
	}
	if p.Translated() != "" || !p.Loading() {
		t.Fatal("translation should be cleared while re-requesting")
	}
	if _, ok := p.SetLanguage("ko"); ok {
		t.Fatal("same language must not re-request")
	}
	if _, ok := p.SetLanguage("fr"); ok {
		t.Fatal("unsupported language must be rejected")
	}
}

func TestCycleLanguageWraps(t *testing.T) {
	p := NewPanel("ko")
	p.CycleLanguage(1)
	if p.Language() != "zh-TW" {
		t.Fatalf("forward wrap = %q", p.Language())
	}
	p.CycleLanguage(-1)
	if p.Language() != "ko" {
		t.Fatalf("backward wrap = %q", p.Language())
	}
	p.CycleLanguage(-2)
	if p.Language() != "en" {
		t.Fatalf("cycle = %q", p.Language())
	}
}

func TestFailClearsLoading(t *testing.T) {
	p := NewPanel("")
	req, _ := p.Select("text", 2)
	if !p.Fail(req.Seq) || p.Loading() || p.Translated() != "" {
		t.Fatal("failure should clear loading only")
	}
	if p.Original() != "text" {
		t.Fatal("original text should stay")
	}
}

func TestCopyTranslation(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { writeClipboard = orig })

	p := NewPanel("")
	if err := p.CopyTranslation(); !errors.Is(err, ErrNothingToCopy) {
		t.Fatalf("expected ErrNothingToCopy, got %v", err)
	}
	req, _ := p.Select("hello", 1)
	p.Apply(req.Seq, "你好")
	if err := p.CopyTranslation(); err != nil {
		t.Fatalf("CopyTranslation: %v", err)
	}
	if copied != "你好" {
		t.Fatalf("copied %q", copied)
	}
}
