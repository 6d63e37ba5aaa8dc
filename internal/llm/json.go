package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeJSON decodes the first JSON object found in content into v.
// Models sometimes wrap their answer in markdown fences or add prose around
// it, so everything outside the outermost braces is ignored.
func DecodeJSON(content string, v any) error {
	s := strings.TrimSpace(content)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return fmt.Errorf("no JSON object in response")
	}

	if err := json.Unmarshal([]byte(s[start:end+1]), v); err != nil {
		return fmt.Errorf("decode JSON response: %w", err)
	}
	return nil
}

// ChatJSON sends a system + user prompt in JSON mode and decodes the answer into v
func ChatJSON(ctx context.Context, p Provider, system, user string, v any) error {
	resp, err := p.Chat(ctx, ChatRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: system},
			{Role: RoleUser, Content: user},
		},
		JSON: true,
	})
	if err != nil {
		return err
	}
	return DecodeJSON(resp.Content, v)
}
