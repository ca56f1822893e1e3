package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultAPIBaseURL          = "http://localhost:9999"
	DefaultBaseScale           = 1.5
	DefaultVisibilityThreshold = 0.1
	DefaultTargetLanguage      = "zh-TW"

	envAPIBaseURL     = "DOCDESK_API_BASE_URL"
	envTargetLanguage = "DOCDESK_TARGET_LANGUAGE"
	envLogLevel       = "DOCDESK_LOG_LEVEL"
)

// Config is the persisted config file schema.
type Config struct {
	APIBaseURL          string  `toml:"api_base_url"`
	BaseScale           float64 `toml:"base_scale"`
	VisibilityThreshold float64 `toml:"visibility_threshold"`
	TargetLanguage      string  `toml:"target_language"`
	ChatWithPicture     bool    `toml:"chat_with_picture"`
	WebResearch         bool    `toml:"web_research"`
	LogPath             string  `toml:"log_path,omitempty"`
	LogLevel            string  `toml:"log_level,omitempty"`
	RecentsPath         string  `toml:"recents_path,omitempty"`
	Source              string  `toml:"-"`
}

func Default() Config {
	return Config{
		APIBaseURL:          DefaultAPIBaseURL,
		BaseScale:           DefaultBaseScale,
		VisibilityThreshold: DefaultVisibilityThreshold,
		TargetLanguage:      DefaultTargetLanguage,
		LogLevel:            "info",
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".docdesk", "config.toml")
}

// Load reads path (DefaultPath when empty). A missing file yields the
// defaults. Environment variables override file values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(cfg).Normalize(), nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, err
	}
	return applyEnv(cfg).Normalize(), nil
}

func applyEnv(cfg Config) Config {
	if env := strings.TrimSpace(os.Getenv(envAPIBaseURL)); env != "" {
		cfg.APIBaseURL = env
	}
	if env := strings.TrimSpace(os.Getenv(envTargetLanguage)); env != "" {
		cfg.TargetLanguage = env
	}
	if env := strings.TrimSpace(os.Getenv(envLogLevel)); env != "" {
		cfg.LogLevel = env
	}
	return cfg
}

// Normalize replaces out-of-range values with their defaults.
func (c Config) Normalize() Config {
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	if c.BaseScale <= 0 {
		c.BaseScale = DefaultBaseScale
	}
	if c.VisibilityThreshold < 0 || c.VisibilityThreshold > 1 {
		c.VisibilityThreshold = DefaultVisibilityThreshold
	}
	if strings.TrimSpace(c.TargetLanguage) == "" {
		c.TargetLanguage = DefaultTargetLanguage
	}
	return c
}
