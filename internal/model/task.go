package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// LanguageAuto asks intake to detect the input language
const LanguageAuto = "auto"

var (
	// ErrEmptyTask is returned when a task carries neither text nor a URL
	ErrEmptyTask = eris.New("either text or url must be provided")
	// ErrAmbiguousTask is returned when a task carries both text and a URL
	ErrAmbiguousTask = eris.New("provide text or url, not both")
)

// VerificationTask is the input of one run: free text or a URL, plus a language code
type VerificationTask struct {
	Text     string `json:"text,omitempty"`
	URL      string `json:"url,omitempty"`
	Language string `json:"language,omitempty"`
}

// HasText reports whether the task carries non-blank text
func (t VerificationTask) HasText() bool {
	return strings.TrimSpace(t.Text) != ""
}

// HasURL reports whether the task carries a URL
func (t VerificationTask) HasURL() bool {
	return strings.TrimSpace(t.URL) != ""
}

// Validate checks that exactly one of text or URL is present
func (t VerificationTask) Validate() error {
	switch {
	case !t.HasText() && !t.HasURL():
		return ErrEmptyTask
	case t.HasText() && t.HasURL():
		return ErrAmbiguousTask
	}
	return nil
}

// LanguageOrAuto returns the requested language, defaulting to auto-detection
func (t VerificationTask) LanguageOrAuto() string {
	lang := strings.TrimSpace(strings.ToLower(t.Language))
	if lang == "" {
		return LanguageAuto
	}
	return lang
}
