package backend

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrTranslationRejected is returned when the service answers without
// status "success".
var ErrTranslationRejected = errors.New("translation was not successful")

// Translation is a successful translation result.
type Translation struct {
	OriginalText   string
	TranslatedText string
	TargetLanguage string
}

// Translate asks the service to translate text into lang.
func (c *Client) Translate(ctx context.Context, text, lang string) (Translation, error) {
	if err := checkText(text); err != nil {
		return Translation{}, err
	}
	payload := map[string]string{"text": text, "targetLanguage": lang}
	var resp struct {
		Status         string `json:"status"`
		OriginalText   string `json:"originalText"`
		TranslatedText string `json:"translatedText"`
		TargetLanguage string `json:"targetLanguage"`
		Message        string `json:"message"`
	}
	if err := c.postJSON(ctx, "/selected-text", payload, &resp); err != nil {
		return Translation{}, err
	}
	if resp.Status != "success" {
		if resp.Message != "" {
			return Translation{}, errors.Join(ErrTranslationRejected, errors.New(resp.Message))
		}
		return Translation{}, ErrTranslationRejected
	}
	out := Translation{
		OriginalText:   resp.OriginalText,
		TranslatedText: resp.TranslatedText,
		TargetLanguage: resp.TargetLanguage,
	}
	if out.OriginalText == "" {
		out.OriginalText = text
	}
	if out.TargetLanguage == "" {
		out.TargetLanguage = lang
	}
	return out, nil
}

// ReportSelection tells the service which text was selected on which page.
func (c *Client) ReportSelection(ctx context.Context, text string, page int) error {
	if err := checkText(text); err != nil {
		return err
	}
	payload := struct {
		Text       string `json:"text"`
		PageNumber int    `json:"pageNumber"`
	}{Text: text, PageNumber: page}
	return c.postJSON(ctx, "/selected-text", payload, nil)
}

func checkText(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("text is empty")
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return ErrTextTooLong
	}
	return nil
}
