package model

import "time"

// Config holds the complete factscope configuration.
// Field tags serve both viper (mapstructure) and config show/init (yaml).
type Config struct {
	LLM          LLMConfig          `mapstructure:"llm" yaml:"llm"`
	Retrieval    RetrievalConfig    `mapstructure:"retrieval" yaml:"retrieval"`
	Stance       StanceConfig       `mapstructure:"stance" yaml:"stance"`
	HTTP         HTTPConfig         `mapstructure:"http" yaml:"http"`
	Cache        CacheConfig        `mapstructure:"cache" yaml:"cache"`
	Concurrency  ConcurrencyConfig  `mapstructure:"concurrency" yaml:"concurrency"`
	RateLimiting RateLimitingConfig `mapstructure:"rate_limiting" yaml:"rate_limiting"`
	Telemetry    TelemetryConfig    `mapstructure:"telemetry" yaml:"telemetry"`
	Logging      LoggingConfig      `mapstructure:"logging" yaml:"logging"`
	Server       ServerConfig       `mapstructure:"server" yaml:"server"`
	Output       OutputConfig       `mapstructure:"output" yaml:"output"`
}

// LLMConfig configures the language capability (claims, queries, report)
type LLMConfig struct {
	Provider    string  `mapstructure:"provider" yaml:"provider"` // deepseek, openai, anthropic, ollama, "" (disabled)
	Model       string  `mapstructure:"model" yaml:"model"`
	APIKey      string  `mapstructure:"api_key" yaml:"api_key,omitempty"`
	BaseURL     string  `mapstructure:"base_url" yaml:"base_url,omitempty"`
	Timeout     int     `mapstructure:"timeout" yaml:"timeout"` // seconds
	MaxTokens   int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature float32 `mapstructure:"temperature" yaml:"temperature"`
}

// RetrievalConfig configures evidence search
type RetrievalConfig struct {
	SearchProvider     string `mapstructure:"search_provider" yaml:"search_provider"` // duckduckgo, tavily, bing, none
	TavilyAPIKey       string `mapstructure:"tavily_api_key" yaml:"tavily_api_key,omitempty"`
	BingAPIKey         string `mapstructure:"bing_api_key" yaml:"bing_api_key,omitempty"`
	WikipediaEnabled   bool   `mapstructure:"wikipedia_enabled" yaml:"wikipedia_enabled"`
	WikipediaLanguage  string `mapstructure:"wikipedia_language" yaml:"wikipedia_language"` // auto follows the claim
	WikipediaResults   int    `mapstructure:"wikipedia_results" yaml:"wikipedia_results"`
	MaxDocuments       int    `mapstructure:"max_documents" yaml:"max_documents"`
	TopK               int    `mapstructure:"top_k" yaml:"top_k"`
	CallTimeout        int    `mapstructure:"call_timeout" yaml:"call_timeout"` // seconds, per provider call
	MaxQueriesPerClaim int    `mapstructure:"max_queries_per_claim" yaml:"max_queries_per_claim"`
}

// StanceConfig configures the optional natural-language-inference model
type StanceConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	Model    string `mapstructure:"model" yaml:"model"`
	APIKey   string `mapstructure:"api_key" yaml:"api_key,omitempty"`
	Timeout  int    `mapstructure:"timeout" yaml:"timeout"` // seconds
}

// HTTPConfig configures URL intake
type HTTPConfig struct {
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent     string        `mapstructure:"user_agent" yaml:"user_agent"`
	MaxBodyBytes  int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
	InsecureTLS   bool          `mapstructure:"insecure_tls" yaml:"insecure_tls"`
	RespectRobots bool          `mapstructure:"respect_robots" yaml:"respect_robots"`
	HTTPProxy     string        `mapstructure:"http_proxy" yaml:"http_proxy,omitempty"`
	HTTPSProxy    string        `mapstructure:"https_proxy" yaml:"https_proxy,omitempty"`
	NoProxy       string        `mapstructure:"no_proxy" yaml:"no_proxy,omitempty"`
}

// CacheConfig configures the search result cache
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	Backend   string        `mapstructure:"backend" yaml:"backend"` // memory, disk, layered, redis
	Dir       string        `mapstructure:"dir" yaml:"dir"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	RedisAddr string        `mapstructure:"redis_addr" yaml:"redis_addr,omitempty"`
	RedisDB   int           `mapstructure:"redis_db" yaml:"redis_db"`
}

// ConcurrencyConfig bounds fan-out inside a run and across batch runs
type ConcurrencyConfig struct {
	Workers          int `mapstructure:"workers" yaml:"workers"` // batch runs in parallel
	PlannerWorkers   int `mapstructure:"planner_workers" yaml:"planner_workers"`
	RetrievalWorkers int `mapstructure:"retrieval_workers" yaml:"retrieval_workers"`
	StanceWorkers    int `mapstructure:"stance_workers" yaml:"stance_workers"`
}

// RateLimitingConfig configures per-provider request pacing
type RateLimitingConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	BurstSize         int     `mapstructure:"burst_size" yaml:"burst_size"`
}

// TelemetryConfig configures run tracing
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	Endpoint    string `mapstructure:"endpoint" yaml:"endpoint"`
	Insecure    bool   `mapstructure:"insecure" yaml:"insecure"`
}

// LoggingConfig configures the zap logger
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // json, console
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr       string        `mapstructure:"addr" yaml:"addr"`
	RunTimeout time.Duration `mapstructure:"run_timeout" yaml:"run_timeout"`
}

// OutputConfig configures CLI rendering
type OutputConfig struct {
	Verbose      bool `mapstructure:"verbose" yaml:"verbose"`
	MaxEvidence  int  `mapstructure:"max_evidence" yaml:"max_evidence"`
	SnippetChars int  `mapstructure:"snippet_chars" yaml:"snippet_chars"`
}

// DefaultConfig returns the built-in defaults. Every capability is disabled
// until credentials are configured, so a bare run uses the fallbacks.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "",
			Model:       "",
			Timeout:     60,
			MaxTokens:   1500,
			Temperature: 0.2,
		},
		Retrieval: RetrievalConfig{
			SearchProvider:     "duckduckgo",
			WikipediaEnabled:   true,
			WikipediaLanguage:  LanguageAuto,
			WikipediaResults:   5,
			MaxDocuments:       10,
			TopK:               5,
			CallTimeout:        20,
			MaxQueriesPerClaim: 5,
		},
		Stance: StanceConfig{
			Enabled:  false,
			Endpoint: "https://api-inference.huggingface.co/models/MoritzLaurer/mDeBERTa-v3-base-mnli-xnli",
			Model:    "MoritzLaurer/mDeBERTa-v3-base-mnli-xnli",
			Timeout:  30,
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "FactScope/0.1 (+https://github.com/ppiankov/factscope)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Backend: "memory",
			Dir:     ".factscope-cache",
			TTL:     6 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers:          4,
			PlannerWorkers:   4,
			RetrievalWorkers: 8,
			StanceWorkers:    8,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 5,
			BurstSize:         5,
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			ServiceName: "factscope",
			Endpoint:    "localhost:4318",
			Insecure:    true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr:       ":8080",
			RunTimeout: 3 * time.Minute,
		},
		Output: OutputConfig{
			MaxEvidence:  3,
			SnippetChars: 240,
		},
	}
}
