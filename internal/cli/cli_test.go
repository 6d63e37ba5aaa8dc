package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/factscope/internal/eval"
	"github.com/ppiankov/factscope/internal/model"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestLoadConfig_Defaults(t *testing.T) {
	v := viper.New()
	require.NoError(t, setDefaults(v, model.DefaultConfig()))

	cfg, err := loadConfig(v, env(nil))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConfig(), cfg)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  provider: openai
  model: gpt-4o-mini
retrieval:
  top_k: 3
cache:
  ttl: 1h
`), 0o644))

	t.Setenv("FACTSCOPE_RETRIEVAL_SEARCH_PROVIDER", "tavily")
	t.Setenv("FACTSCOPE_LLM_API_KEY", "")

	v := viper.New()
	require.NoError(t, configure(v, path))

	cfg, err := loadConfig(v, env(map[string]string{
		"OPENAI_API_KEY": "sk-test",
		"TAVILY_API_KEY": "tvly-test",
		"HF_API_TOKEN":   "hf-test",
	}))
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.Equal(t, "tavily", cfg.Retrieval.SearchProvider)
	assert.Equal(t, "tvly-test", cfg.Retrieval.TavilyAPIKey)
	assert.Equal(t, "hf-test", cfg.Stance.APIKey)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	// untouched sections keep their defaults
	assert.Equal(t, model.DefaultConfig().HTTP, cfg.HTTP)
}

func TestConfigure_MissingExplicitFile(t *testing.T) {
	v := viper.New()
	err := configure(v, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyEnvKeys(t *testing.T) {
	tests := []struct {
		provider string
		vars     map[string]string
		wantKey  string
		wantURL  string
	}{
		{"deepseek", map[string]string{"DEEPSEEK_API_KEY": "ds"}, "ds", ""},
		{"anthropic", map[string]string{"ANTHROPIC_API_KEY": "ant", "OPENAI_API_KEY": "oa"}, "ant", ""},
		{"ollama", map[string]string{"OLLAMA_BASE_URL": "http://gpu:11434"}, "", "http://gpu:11434"},
		{"", map[string]string{"OPENAI_API_KEY": "oa"}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg := model.DefaultConfig()
			cfg.LLM.Provider = tt.provider
			applyEnvKeys(cfg, env(tt.vars))
			assert.Equal(t, tt.wantKey, cfg.LLM.APIKey)
			assert.Equal(t, tt.wantURL, cfg.LLM.BaseURL)
		})
	}

	t.Run("configured key wins", func(t *testing.T) {
		cfg := model.DefaultConfig()
		cfg.LLM.Provider = "openai"
		cfg.LLM.APIKey = "from-file"
		applyEnvKeys(cfg, env(map[string]string{"OPENAI_API_KEY": "from-env"}))
		assert.Equal(t, "from-file", cfg.LLM.APIKey)
	})
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".factscope", "config.yaml")
	require.NoError(t, writeDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var cfg model.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, *model.DefaultConfig(), cfg)

	err = writeDefaultConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestRedact(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.LLM.APIKey = "sk-secret"
	cfg.Retrieval.BingAPIKey = "bing-secret"

	out := redact(cfg)
	assert.Equal(t, "********", out.LLM.APIKey)
	assert.Equal(t, "********", out.Retrieval.BingAPIKey)
	assert.Empty(t, out.Retrieval.TavilyAPIKey)
	assert.Equal(t, "sk-secret", cfg.LLM.APIKey, "original untouched")
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"https://en.wikipedia.org/wiki/Eiffel_Tower": "en-wikipedia-org-wiki-eiffel-tower",
		"The Eiffel Tower is in Paris.":              "the-eiffel-tower-is-in-paris",
		"  ???  ":                                    "task",
		"Café über alles":                            "café-über-alles",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeFilename(in), "input %q", in)
	}

	long := sanitizeFilename("a very long claim text that keeps going and going well past any sensible file name length")
	assert.LessOrEqual(t, len([]rune(long)), 60)
}

func TestShorten(t *testing.T) {
	assert.Equal(t, "abc", shorten(" abc ", 10))
	assert.Equal(t, "ab…", shorten("abcdef", 2))
	assert.Equal(t, "abcdef", shorten("abcdef", 0))
}

func sampleResult() *model.Result {
	conf := 0.9
	ev := model.Evidence{Source: "wikipedia", Title: "Eiffel Tower", URL: "https://en.wikipedia.org/wiki/Eiffel_Tower", Snippet: "The tower is in Paris."}
	claim := model.NewClaim("c1", "The Eiffel Tower is in Paris.", "en", nil)
	claim.Evidence = []model.Evidence{ev}
	claim.Stance = model.StanceSupports
	claim.Confidence = &conf

	return &model.Result{
		Claims:   []model.Claim{claim},
		Stances:  map[string][]model.StanceAssessment{"c1": {{Evidence: ev, Label: model.StanceSupports, Confidence: 0.9}}},
		Verdict:  model.Verdict{Label: model.StanceSupports, Confidence: 0.9},
		Metadata: model.RunMetadata{Fallbacks: []string{"claims"}, Stages: map[string]time.Duration{"claims": time.Millisecond, "intake": time.Millisecond}},
	}
}

func TestRenderResult(t *testing.T) {
	var buf bytes.Buffer
	renderResult(&buf, sampleResult(), model.OutputConfig{MaxEvidence: 3, SnippetChars: 100, Verbose: true})

	out := buf.String()
	assert.Contains(t, out, "SUPPORTS")
	assert.Contains(t, out, "The Eiffel Tower is in Paris.")
	assert.Contains(t, out, "Eiffel Tower [supports]")
	assert.Contains(t, out, "https://en.wikipedia.org/wiki/Eiffel_Tower")
	assert.Contains(t, out, "degraded:")
	assert.Contains(t, out, "The tower is in Paris.")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("intake")), bytes.Index(buf.Bytes(), []byte("claims  ")))
}

func TestRenderResult_NoClaims(t *testing.T) {
	var buf bytes.Buffer
	renderResult(&buf, &model.Result{Verdict: model.UnknownVerdict()}, model.OutputConfig{})
	assert.Contains(t, buf.String(), "No checkable claims found.")
	assert.Contains(t, buf.String(), "UNKNOWN")
}

func TestRenderEval(t *testing.T) {
	var buf bytes.Buffer
	renderEval(&buf, eval.Report{Records: make([]eval.Record, 4), Accuracy: 0.75, MacroF1: 0.5, FEVERScore: 0.25, Failures: 1})
	out := buf.String()
	assert.Contains(t, out, "0.750")
	assert.Contains(t, out, "0.500")
	assert.Contains(t, out, "0.250")
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "factscope "+Version+"\n", buf.String())
}
