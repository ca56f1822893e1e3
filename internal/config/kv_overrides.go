package config

import (
	"strconv"
	"strings"
)

// ApplyKVOverrides applies free-form -c key=value overrides. Unknown keys and
// unparsable values are skipped.
func ApplyKVOverrides(cfg Config, overrides []string) Config {
	for _, raw := range overrides {
		key, val, ok := strings.Cut(raw, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		switch key {
		case "api_base_url":
			cfg.APIBaseURL = val
		case "base_scale":
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				cfg.BaseScale = f
			}
		case "visibility_threshold":
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				cfg.VisibilityThreshold = f
			}
		case "target_language":
			cfg.TargetLanguage = val
		case "chat_with_picture":
			if b, err := strconv.ParseBool(val); err == nil {
				cfg.ChatWithPicture = b
			}
		case "web_research":
			if b, err := strconv.ParseBool(val); err == nil {
				cfg.WebResearch = b
			}
		case "log_path":
			cfg.LogPath = val
		case "log_level":
			cfg.LogLevel = val
		case "recents_path":
			cfg.RecentsPath = val
		}
	}
	return cfg.Normalize()
}
