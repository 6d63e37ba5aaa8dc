// Package retrieval gathers evidence for claims from search providers.
package retrieval

import (
	"context"
	"strings"

	"github.com/ppiankov/factscope/internal/model"
)

// SearchRequest is one provider query
type SearchRequest struct {
	Query    string
	Language string // claim language; auto or empty lets the provider choose
	Limit    int
}

// SearchProvider finds evidence for a query
type SearchProvider interface {
	Name() string
	Search(ctx context.Context, req SearchRequest) ([]model.Evidence, error)
}

// NoneProvider is the provider used when no live search is configured
type NoneProvider struct{}

// Name returns the provider name
func (NoneProvider) Name() string { return "none" }

// Search always returns no evidence
func (NoneProvider) Search(context.Context, SearchRequest) ([]model.Evidence, error) {
	return nil, nil
}

// resolveLanguage maps a claim language onto a concrete two-letter code
func resolveLanguage(lang, fallback string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	switch lang {
	case "", model.LanguageAuto, "unknown":
		return fallback
	}
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return lang
}
