package stance

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/ppiankov/factscope/internal/capability"
	"github.com/ppiankov/factscope/internal/model"
)

// Model classifies the relation between a claim (premise) and an evidence
// snippet (hypothesis). It returns the model's raw top label and its probability.
type Model interface {
	Name() string
	Classify(ctx context.Context, claim, evidence string) (label string, probability float64, err error)
}

// NLIClient calls a Hugging Face inference compatible text-classification
// endpoint with a sentence pair
type NLIClient struct {
	endpoint string
	model    string
	client   *resty.Client
}

type nliRequest struct {
	Inputs nliInputs `json:"inputs"`
}

type nliInputs struct {
	Text     string `json:"text"`
	TextPair string `json:"text_pair"`
}

type nliScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// NewNLIClient creates a client for the configured endpoint
func NewNLIClient(cfg model.StanceConfig) (*NLIClient, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("stance endpoint is required")
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &NLIClient{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		model:    cfg.Model,
		client:   client,
	}, nil
}

// Name returns the model name
func (c *NLIClient) Name() string {
	if c.model != "" {
		return c.model
	}
	return "nli"
}

// Classify returns the highest scoring label for the pair
func (c *NLIClient) Classify(ctx context.Context, claim, evidence string) (string, float64, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(nliRequest{Inputs: nliInputs{Text: claim, TextPair: evidence}}).
		Post(c.endpoint)
	if err != nil {
		return "", 0, fmt.Errorf("stance request: %w", err)
	}
	if resp.IsError() {
		return "", 0, fmt.Errorf("stance API error (%d): %s", resp.StatusCode(), resp.String())
	}

	scores, err := decodeScores(resp.Body())
	if err != nil {
		return "", 0, err
	}

	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return best.Label, best.Score, nil
}

// decodeScores accepts both [[{label,score}]] and [{label,score}]
func decodeScores(body []byte) ([]nliScore, error) {
	var nested [][]nliScore
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return nested[0], nil
	}

	var flat []nliScore
	if err := json.Unmarshal(body, &flat); err == nil && len(flat) > 0 {
		return flat, nil
	}

	return nil, fmt.Errorf("unexpected stance response: %s", truncate(string(body), 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// NewCapability resolves the stance model from configuration
func NewCapability(cfg model.StanceConfig, logger *zap.Logger) capability.Capability[Model] {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled {
		logger.Debug("stance model disabled")
		return capability.Unavailable[Model]("stance model disabled")
	}

	client, err := NewNLIClient(cfg)
	if err != nil {
		logger.Debug("stance model unavailable", zap.Error(err))
		return capability.Unavailable[Model](err.Error())
	}
	return capability.Available[Model](client)
}
