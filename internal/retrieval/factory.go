package retrieval

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/factscope/internal/cache"
	"github.com/ppiankov/factscope/internal/model"
)

// NewLiveProvider creates the configured live search provider. Providers
// that need a key fall back to NoneProvider when it is missing.
func NewLiveProvider(cfg model.RetrievalConfig, userAgent string, logger *zap.Logger) SearchProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := time.Duration(cfg.CallTimeout) * time.Second

	switch name := strings.ToLower(strings.TrimSpace(cfg.SearchProvider)); name {
	case "tavily":
		if cfg.TavilyAPIKey == "" {
			logger.Debug("tavily selected without an API key, live search disabled")
			return NoneProvider{}
		}
		return NewTavily(cfg.TavilyAPIKey, "", timeout)
	case "bing":
		if cfg.BingAPIKey == "" {
			logger.Debug("bing selected without an API key, live search disabled")
			return NoneProvider{}
		}
		return NewBing(cfg.BingAPIKey, "", timeout)
	case "duckduckgo", "ddg":
		return NewDuckDuckGo("", userAgent, timeout)
	case "", "none":
		return NoneProvider{}
	default:
		logger.Warn("unknown search provider, live search disabled", zap.String("provider", name))
		return NoneProvider{}
	}
}

// NewKnowledgeProvider creates the Wikipedia provider, or nil when disabled
func NewKnowledgeProvider(cfg model.RetrievalConfig, userAgent string) SearchProvider {
	if !cfg.WikipediaEnabled {
		return nil
	}
	return NewWikipedia(WikipediaOptions{
		Language:  cfg.WikipediaLanguage,
		Results:   cfg.WikipediaResults,
		UserAgent: userAgent,
		Timeout:   time.Duration(cfg.CallTimeout) * time.Second,
	})
}

// NewFromConfig builds a retriever from configuration. A nil cache skips
// result caching.
func NewFromConfig(cfg *model.Config, c cache.Cache, logger *zap.Logger, opts ...Option) *Retriever {
	knowledge := NewKnowledgeProvider(cfg.Retrieval, cfg.HTTP.UserAgent)
	live := NewLiveProvider(cfg.Retrieval, cfg.HTTP.UserAgent, logger)

	if c != nil {
		if knowledge != nil {
			knowledge = NewCached(knowledge, c, cfg.Cache.TTL, logger)
		}
		if _, none := live.(NoneProvider); !none {
			live = NewCached(live, c, cfg.Cache.TTL, logger)
		}
	}

	base := []Option{
		WithMaxDocuments(cfg.Retrieval.MaxDocuments),
		WithCallTimeout(time.Duration(cfg.Retrieval.CallTimeout) * time.Second),
		WithWorkers(cfg.Concurrency.RetrievalWorkers),
		WithLogger(logger),
	}
	return New(knowledge, live, append(base, opts...)...)
}
