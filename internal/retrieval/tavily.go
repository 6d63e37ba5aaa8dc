package retrieval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ppiankov/factscope/internal/model"
)

// TavilyEndpoint is the Tavily search API
const TavilyEndpoint = "https://api.tavily.com/search"

// Tavily searches the web through the Tavily API
type Tavily struct {
	endpoint string
	apiKey   string
	client   *resty.Client
}

type tavilyRequest struct {
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results,omitempty"`
}

type tavilyResponse struct {
	Results []struct {
		Title         string   `json:"title"`
		URL           string   `json:"url"`
		Content       string   `json:"content"`
		Score         *float64 `json:"score"`
		PublishedDate string   `json:"published_date"`
	} `json:"results"`
}

// NewTavily creates a Tavily provider; endpoint may be empty for the public API
func NewTavily(apiKey, endpoint string, timeout time.Duration) *Tavily {
	if endpoint == "" {
		endpoint = TavilyEndpoint
	}
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	return &Tavily{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   resty.New().SetTimeout(timeout).SetAuthToken(apiKey),
	}
}

// Name returns the provider name
func (t *Tavily) Name() string { return "tavily" }

// Search runs an advanced-depth search
func (t *Tavily) Search(ctx context.Context, req SearchRequest) ([]model.Evidence, error) {
	var result tavilyResponse
	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(tavilyRequest{Query: req.Query, SearchDepth: "advanced", MaxResults: req.Limit}).
		SetResult(&result).
		ExpectContentType("application/json").
		Post(t.endpoint)
	if err != nil {
		return nil, fmt.Errorf("tavily search: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("tavily search (%d): %s", resp.StatusCode(), resp.String())
	}

	evidence := make([]model.Evidence, 0, len(result.Results))
	for _, r := range result.Results {
		ev := model.Evidence{
			Source:  "tavily",
			Title:   r.Title,
			URL:     r.URL,
			Snippet: strings.TrimSpace(r.Content),
			Score:   r.Score,
		}
		if r.PublishedDate != "" {
			ev.Metadata = map[string]any{"published_date": r.PublishedDate}
			if ts, ok := parseDate(r.PublishedDate); ok {
				ev.PublishedAt = &ts
			}
		}
		evidence = append(evidence, ev)
	}
	return evidence, nil
}

// parseDate accepts the date layouts search APIs commonly return
func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, time.RFC1123, time.RFC1123Z, "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
