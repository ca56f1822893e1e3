package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(envAPIBaseURL, "")
	t.Setenv(envTargetLanguage, "")
	t.Setenv(envLogLevel, "")
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source != path {
		t.Fatalf("cfg.Source = %q, want %q", cfg.Source, path)
	}
	if cfg.APIBaseURL != DefaultAPIBaseURL || cfg.BaseScale != DefaultBaseScale || cfg.TargetLanguage != "zh-TW" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_FromTOML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_base_url = "https://assist.example.test/"
base_scale = 2.0
visibility_threshold = 0.25
target_language = "ja"
web_research = true
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "https://assist.example.test" {
		t.Fatalf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.BaseScale != 2.0 || cfg.VisibilityThreshold != 0.25 {
		t.Fatalf("scale/threshold = %v/%v", cfg.BaseScale, cfg.VisibilityThreshold)
	}
	if cfg.TargetLanguage != "ja" || !cfg.WebResearch || cfg.ChatWithPicture {
		t.Fatalf("unexpected values: %+v", cfg)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(envAPIBaseURL, "http://127.0.0.1:7000")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_base_url = "http://file.example"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "http://127.0.0.1:7000" {
		t.Fatalf("APIBaseURL = %q", cfg.APIBaseURL)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("base_scale = ["), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestNormalizeRejectsOutOfRange(t *testing.T) {
	cfg := Config{BaseScale: -1, VisibilityThreshold: 3}.Normalize()
	if cfg.BaseScale != DefaultBaseScale || cfg.VisibilityThreshold != DefaultVisibilityThreshold {
		t.Fatalf("unexpected normalization: %+v", cfg)
	}
	if cfg.APIBaseURL != DefaultAPIBaseURL || cfg.TargetLanguage != DefaultTargetLanguage {
		t.Fatalf("unexpected normalization: %+v", cfg)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	want := Default()
	want.TargetLanguage = "ko"
	want.ChatWithPicture = true
	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got.Source = ""
	if got != want {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", want, got)
	}
}

func TestApplyKVOverrides(t *testing.T) {
	cfg := ApplyKVOverrides(Default(), []string{
		"base_scale=2.5",
		"chat_with_picture=true",
		"target_language = en",
		"visibility_threshold=nope",
		"garbage",
		"unknown=1",
	})
	if cfg.BaseScale != 2.5 || !cfg.ChatWithPicture || cfg.TargetLanguage != "en" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.VisibilityThreshold != DefaultVisibilityThreshold {
		t.Fatalf("invalid value should be skipped: %v", cfg.VisibilityThreshold)
	}
}
