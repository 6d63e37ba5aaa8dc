package llm

import (
	"context"

	"github.com/ppiankov/factscope/internal/model"
)

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Provider defines the interface for language capability backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Chat sends a conversation and returns the assistant's reply
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// Message is one turn of a conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest contains the input for a chat completion
type ChatRequest struct {
	Messages []Message

	// Model overrides the configured model (provider-specific)
	Model string

	// Temperature overrides the configured temperature when > 0
	Temperature float32

	// MaxTokens overrides the configured response limit when > 0
	MaxTokens int

	// JSON asks the provider to answer with a single JSON object
	JSON bool
}

// ChatResponse contains the provider's reply
type ChatResponse struct {
	ID         string
	Model      string
	Content    string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "deepseek", "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	Temperature float32
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:    modelConfig.Provider,
		Model:       modelConfig.Model,
		APIKey:      modelConfig.APIKey,
		BaseURL:     modelConfig.BaseURL,
		Timeout:     modelConfig.Timeout,
		MaxTokens:   modelConfig.MaxTokens,
		Temperature: modelConfig.Temperature,
	}
}

// resolve fills per-request values from the provider configuration
func (c Config) resolve(req ChatRequest, defaultModel string) (modelName string, maxTokens int, temperature float32) {
	modelName = req.Model
	if modelName == "" {
		modelName = c.Model
	}
	if modelName == "" {
		modelName = defaultModel
	}

	maxTokens = req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 1500
	}

	temperature = req.Temperature
	if temperature == 0 {
		temperature = c.Temperature
	}
	return modelName, maxTokens, temperature
}
