package retrieval

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"

	"github.com/ppiankov/factscope/internal/model"
)

// DuckDuckGoEndpoint is the script-free DuckDuckGo results page
const DuckDuckGoEndpoint = "https://html.duckduckgo.com/html/"

// DuckDuckGo scrapes the HTML results page; it needs no API key
type DuckDuckGo struct {
	endpoint string
	client   *resty.Client
}

// NewDuckDuckGo creates a DuckDuckGo provider; endpoint may be empty
func NewDuckDuckGo(endpoint, userAgent string, timeout time.Duration) *DuckDuckGo {
	if endpoint == "" {
		endpoint = DuckDuckGoEndpoint
	}
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	client := resty.New().SetTimeout(timeout)
	if userAgent != "" {
		client.SetHeader("User-Agent", userAgent)
	}
	return &DuckDuckGo{endpoint: endpoint, client: client}
}

// Name returns the provider name
func (d *DuckDuckGo) Name() string { return "duckduckgo" }

// Search fetches and parses one results page
func (d *DuckDuckGo) Search(ctx context.Context, req SearchRequest) ([]model.Evidence, error) {
	resp, err := d.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{"q": req.Query}).
		Post(d.endpoint)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo search: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("duckduckgo search (%d)", resp.StatusCode())
	}

	evidence, err := parseDuckDuckGo(resp.String())
	if err != nil {
		return nil, err
	}
	if req.Limit > 0 && len(evidence) > req.Limit {
		evidence = evidence[:req.Limit]
	}
	return evidence, nil
}

// parseDuckDuckGo extracts results from the HTML page: every div.result
// holds an a.result__a link and a .result__snippet element
func parseDuckDuckGo(page string) ([]model.Evidence, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse duckduckgo page: %w", err)
	}

	var evidence []model.Evidence
	var current *model.Evidence

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, "result__a"):
				if current != nil && current.URL != "" {
					evidence = append(evidence, *current)
				}
				current = &model.Evidence{
					Source: "duckduckgo",
					Title:  nodeText(n),
					URL:    resolveDuckDuckGoLink(attr(n, "href")),
				}
				return
			case hasClass(n, "result__snippet"):
				if current != nil {
					current.Snippet = nodeText(n)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if current != nil && current.URL != "" {
		evidence = append(evidence, *current)
	}
	return evidence, nil
}

// resolveDuckDuckGoLink unwraps //duckduckgo.com/l/?uddg=<target> redirects
func resolveDuckDuckGoLink(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if strings.HasSuffix(u.Host, "duckduckgo.com") && strings.HasPrefix(u.Path, "/l/") {
		if target := u.Query().Get("uddg"); target != "" {
			return target
		}
	}
	return href
}
