// Package claims decomposes input text into atomic, checkable claims.
package claims

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/factscope/internal/capability"
	"github.com/ppiankov/factscope/internal/llm"
	"github.com/ppiankov/factscope/internal/model"
)

const systemPrompt = "You extract factual claims."

const extractionPrompt = `You are an expert fact-checking assistant. Extract atomic, checkable claims from the provided article.
Respond with JSON containing a list named "claims" where each item has:
- id: optional stable identifier
- text: the verbatim claim text (concise)
- language: detected language code (ISO-639-1)
- entities: key entities mentioned
Provide ONLY valid JSON.`

type extractionResponse struct {
	Claims []struct {
		ID       string   `json:"id"`
		Text     string   `json:"text"`
		Language string   `json:"language"`
		Entities []string `json:"entities"`
	} `json:"claims"`
}

// Extractor turns text into claims, preferring the language capability and
// falling back to sentence splitting
type Extractor struct {
	llm    capability.Capability[llm.Provider]
	logger *zap.Logger
}

// NewExtractor creates a claim extractor
func NewExtractor(provider capability.Capability[llm.Provider], logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{llm: provider, logger: logger}
}

// Extract returns the claims found in text, in order of appearance. The
// second return value reports whether the sentence-split fallback was used.
func (e *Extractor) Extract(ctx context.Context, text, language string) ([]model.Claim, bool) {
	if strings.TrimSpace(text) == "" {
		return []model.Claim{}, false
	}

	provider, ok := e.llm.Get()
	if !ok {
		e.logger.Debug("claim extraction fallback", zap.String("reason", e.llm.Reason()))
		return FallbackSplit(text, language), true
	}

	claims, err := e.extractWithLLM(ctx, provider, text, language)
	if err != nil {
		e.logger.Warn("claim extraction failed, using sentence split",
			zap.String("provider", provider.Name()),
			zap.Error(err))
		return FallbackSplit(text, language), true
	}
	return claims, false
}

func (e *Extractor) extractWithLLM(ctx context.Context, provider llm.Provider, text, language string) ([]model.Claim, error) {
	var resp extractionResponse
	user := fmt.Sprintf("%s\n\nARTICLE:\n%s", extractionPrompt, text)
	if err := llm.ChatJSON(ctx, provider, systemPrompt, user, &resp); err != nil {
		return nil, eris.Wrap(err, "extract claims")
	}

	seen := make(map[string]bool)
	claims := make([]model.Claim, 0, len(resp.Claims))
	for _, entry := range resp.Claims {
		claimText := strings.TrimSpace(entry.Text)
		if claimText == "" {
			continue
		}

		id := strings.TrimSpace(entry.ID)
		if id == "" || seen[id] {
			id = uuid.NewString()
		}
		seen[id] = true

		lang := strings.TrimSpace(entry.Language)
		if lang == "" || lang == model.LanguageAuto {
			lang = language
		}

		claims = append(claims, model.NewClaim(id, claimText, lang, cleanEntities(entry.Entities)))
	}
	return claims, nil
}

func cleanEntities(entities []string) []string {
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}
