package llm

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/factscope/internal/capability"
)

// NewProvider creates a new LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "deepseek":
		return NewDeepSeekProvider(config)

	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		// No provider configured - LLM disabled
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: deepseek, openai, anthropic, ollama)", config.Provider)
	}
}

// NewCapability resolves the configured provider into a capability. A missing
// provider, a missing key or an unknown name all yield Unavailable.
func NewCapability(config Config, logger *zap.Logger) capability.Capability[Provider] {
	if logger == nil {
		logger = zap.NewNop()
	}

	p, err := NewProvider(config)
	if err != nil {
		logger.Debug("language capability unavailable", zap.String("provider", config.Provider), zap.Error(err))
		return capability.Unavailable[Provider](err.Error())
	}
	if p == nil {
		logger.Debug("language capability disabled")
		return capability.Unavailable[Provider]("no LLM provider configured")
	}

	logger.Debug("language capability enabled", zap.String("provider", p.Name()))
	return capability.Available(p)
}
