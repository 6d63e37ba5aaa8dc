// Package intake turns a verification task into normalized text.
package intake

import (
	"context"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/factscope/internal/model"
	"github.com/ppiankov/factscope/internal/worker"
)

// Document is the normalized input of a run
type Document struct {
	Text      string `json:"text"`
	Language  string `json:"language"`
	SourceURL string `json:"source_url,omitempty"`
	Title     string `json:"title,omitempty"`
}

// PageFetcher fetches a page; *Fetcher is the production implementation
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*FetchResult, error)
}

// Loader loads task input: text is taken as is, URLs are fetched and cleaned
type Loader struct {
	fetcher PageFetcher
	robots  *RobotsChecker
	detect  func(string) string
	logger  *zap.Logger
}

// NewLoader creates a Loader from the HTTP configuration
func NewLoader(cfg model.HTTPConfig, limiter *worker.Limiter, logger *zap.Logger) *Loader {
	l := NewLoaderWithFetcher(NewFetcher(cfg, limiter), logger)
	if cfg.RespectRobots {
		l.robots = NewRobotsChecker(cfg.UserAgent, cfg.Timeout)
	}
	return l
}

// NewLoaderWithFetcher creates a Loader around any page fetcher, without
// robots.txt checks
func NewLoaderWithFetcher(fetcher PageFetcher, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		fetcher: fetcher,
		detect:  DetectLanguage,
		logger:  logger,
	}
}

// Load validates the task and produces its document. Only an invalid task
// is an error: a URL that cannot be fetched yields a document with empty
// text.
func (l *Loader) Load(ctx context.Context, task model.VerificationTask) (Document, error) {
	if err := task.Validate(); err != nil {
		return Document{}, eris.Wrap(err, "invalid verification task")
	}

	doc := Document{}
	if task.HasText() {
		doc.Text = strings.TrimSpace(task.Text)
	} else {
		doc.SourceURL = strings.TrimSpace(task.URL)
		doc.Title, doc.Text = l.loadURL(ctx, doc.SourceURL)
	}

	doc.Language = task.LanguageOrAuto()
	if doc.Language == model.LanguageAuto {
		doc.Language = l.detect(doc.Text)
	}
	return doc, nil
}

func (l *Loader) loadURL(ctx context.Context, rawURL string) (title, text string) {
	pageURL, err := url.Parse(rawURL)
	if err != nil || pageURL.Host == "" || (pageURL.Scheme != "http" && pageURL.Scheme != "https") {
		l.logger.Warn("input URL is not an http(s) URL", zap.String("url", rawURL))
		return "", ""
	}

	if l.robots != nil {
		allowed, err := l.robots.Allowed(ctx, rawURL)
		if err == nil && !allowed {
			l.logger.Warn("robots.txt disallows fetching input URL", zap.String("url", rawURL))
			return "", ""
		}
	}

	result, err := l.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		l.logger.Warn("failed to load input URL", zap.String("url", rawURL), zap.Error(err))
		return "", ""
	}

	if final, err := url.Parse(result.FinalURL); err == nil && final.Host != "" {
		pageURL = final
	}
	title, text = ExtractArticle(result.HTML, pageURL)
	if title == "" {
		title = result.Subject
	}
	return title, text
}
