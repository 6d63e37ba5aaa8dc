package retrieval

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ppiankov/factscope/internal/model"
)

// BingEndpoint is the Bing Web Search v7 API
const BingEndpoint = "https://api.bing.microsoft.com/v7.0/search"

// Bing searches through the legacy Bing Web Search API
type Bing struct {
	endpoint string
	client   *resty.Client
}

type bingResponse struct {
	WebPages struct {
		Value []struct {
			Name            string `json:"name"`
			URL             string `json:"url"`
			Snippet         string `json:"snippet"`
			DateLastCrawled string `json:"dateLastCrawled"`
		} `json:"value"`
	} `json:"webPages"`
}

// NewBing creates a Bing provider; endpoint may be empty
func NewBing(apiKey, endpoint string, timeout time.Duration) *Bing {
	if endpoint == "" {
		endpoint = BingEndpoint
	}
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	return &Bing{
		endpoint: endpoint,
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("Ocp-Apim-Subscription-Key", apiKey),
	}
}

// Name returns the provider name
func (b *Bing) Name() string { return "bing" }

// Search runs a raw-text web search
func (b *Bing) Search(ctx context.Context, req SearchRequest) ([]model.Evidence, error) {
	params := map[string]string{
		"q":               req.Query,
		"textDecorations": "false",
		"textFormat":      "Raw",
		"mkt":             "en-US",
	}
	if req.Limit > 0 {
		params["count"] = strconv.Itoa(req.Limit)
	}

	var result bingResponse
	resp, err := b.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&result).
		ExpectContentType("application/json").
		Get(b.endpoint)
	if err != nil {
		return nil, fmt.Errorf("bing search: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("bing search (%d): %s", resp.StatusCode(), resp.String())
	}

	evidence := make([]model.Evidence, 0, len(result.WebPages.Value))
	for _, item := range result.WebPages.Value {
		ev := model.Evidence{
			Source:  "bing",
			Title:   item.Name,
			URL:     item.URL,
			Snippet: item.Snippet,
		}
		if ts, ok := parseDate(item.DateLastCrawled); ok {
			ev.PublishedAt = &ts
		}
		evidence = append(evidence, ev)
	}
	return evidence, nil
}
