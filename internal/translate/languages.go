package translate

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// DefaultLanguage is the target language used until the user picks another.
const DefaultLanguage = "zh-TW"

// Language is a supported translation target.
type Language struct {
	Code   string
	Tag    language.Tag
	Native string
}

// EnglishName is the language's name in English, e.g. "Japanese".
func (l Language) EnglishName() string {
	return display.English.Tags().Name(l.Tag)
}

// Label is shown in the language selector.
func (l Language) Label() string {
	return l.Native + " (" + l.Code + ")"
}

// Languages lists the supported targets in selector order.
var Languages = []Language{
	newLanguage("zh-TW", "繁體中文"),
	newLanguage("zh-CN", "简体中文"),
	newLanguage("en", "English"),
	newLanguage("ja", "日本語"),
	newLanguage("ko", "한국어"),
}

func newLanguage(code, native string) Language {
	return Language{Code: code, Tag: language.MustParse(code), Native: native}
}

// Lookup finds a supported language by BCP 47 code. Matching ignores case
// and accepts "_" separators, so "zh_tw" resolves to zh-TW.
func Lookup(code string) (Language, bool) {
	code = strings.ReplaceAll(strings.TrimSpace(code), "_", "-")
	tag, err := language.Parse(code)
	if err != nil {
		return Language{}, false
	}
	for _, lang := range Languages {
		if lang.Tag == tag {
			return lang, true
		}
	}
	return Language{}, false
}

func indexOf(code string) int {
	for i, lang := range Languages {
		if lang.Code == code {
			return i
		}
	}
	return -1
}
