package retrieval

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ppiankov/factscope/internal/model"
)

// WikipediaOptions configures the Wikipedia search provider
type WikipediaOptions struct {
	// BaseURL replaces https://<lang>.wikipedia.org (tests, mirrors)
	BaseURL string
	// Language forces one edition; auto follows the claim language
	Language  string
	Results   int
	UserAgent string
	Timeout   time.Duration
}

// Wikipedia searches the Wikipedia REST API; it is the background knowledge
// provider consulted for every query
type Wikipedia struct {
	opts   WikipediaOptions
	client *resty.Client
}

type wikipediaSearchResponse struct {
	Pages []struct {
		ID          int    `json:"id"`
		Key         string `json:"key"`
		Title       string `json:"title"`
		Excerpt     string `json:"excerpt"`
		Description string `json:"description"`
	} `json:"pages"`
}

// NewWikipedia creates a Wikipedia provider
func NewWikipedia(opts WikipediaOptions) *Wikipedia {
	if opts.Results <= 0 {
		opts.Results = 5
	}
	if opts.Timeout == 0 {
		opts.Timeout = 20 * time.Second
	}
	client := resty.New().SetTimeout(opts.Timeout)
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	return &Wikipedia{opts: opts, client: client}
}

// Name returns the provider name
func (w *Wikipedia) Name() string { return "wikipedia" }

func (w *Wikipedia) language(claimLanguage string) string {
	if forced := resolveLanguage(w.opts.Language, ""); forced != "" {
		return forced
	}
	return resolveLanguage(claimLanguage, "en")
}

func (w *Wikipedia) baseURL(lang string) string {
	if w.opts.BaseURL != "" {
		return strings.TrimSuffix(w.opts.BaseURL, "/")
	}
	return fmt.Sprintf("https://%s.wikipedia.org", lang)
}

// Search queries the page search endpoint
func (w *Wikipedia) Search(ctx context.Context, req SearchRequest) ([]model.Evidence, error) {
	lang := w.language(req.Language)
	base := w.baseURL(lang)

	limit := w.opts.Results
	if req.Limit > 0 && req.Limit < limit {
		limit = req.Limit
	}

	var result wikipediaSearchResponse
	resp, err := w.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     req.Query,
			"limit": strconv.Itoa(limit),
		}).
		SetResult(&result).
		ExpectContentType("application/json").
		Get(base + "/w/rest.php/v1/search/page")
	if err != nil {
		return nil, fmt.Errorf("wikipedia search: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("wikipedia search (%d): %s", resp.StatusCode(), resp.String())
	}

	evidence := make([]model.Evidence, 0, len(result.Pages))
	for _, page := range result.Pages {
		snippet := htmlText(page.Excerpt)
		if page.Description != "" {
			snippet = strings.TrimSpace(page.Description + ". " + snippet)
		}
		evidence = append(evidence, model.Evidence{
			Source:   "wikipedia",
			Title:    page.Title,
			URL:      base + "/wiki/" + url.PathEscape(strings.ReplaceAll(page.Key, " ", "_")),
			Snippet:  snippet,
			Metadata: map[string]any{"language": lang, "page_id": page.ID},
		})
	}
	return evidence, nil
}
