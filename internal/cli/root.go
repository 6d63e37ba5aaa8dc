package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/factscope/internal/logging"
	"github.com/ppiankov/factscope/internal/metrics"
	"github.com/ppiankov/factscope/internal/model"
	"github.com/ppiankov/factscope/internal/pipeline"
	"github.com/ppiankov/factscope/internal/telemetry"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "v0.1.0-dev"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "factscope",
	Short: "FactScope - claim extraction and evidence-based verification",
	Long: `FactScope verifies free text or a web page against public evidence.

It splits the input into atomic claims, plans search queries, retrieves
evidence from Wikipedia and web search, assesses the stance of each
snippet and rolls everything up into a verdict with a readable report.

Every external service is optional. Without credentials each stage
degrades to a deterministic fallback and the run still completes.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command. SIGINT and SIGTERM cancel the running command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "factscope %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.factscope/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output and debug logging")
	flags.String("llm-provider", "", "LLM provider (deepseek, openai, anthropic, ollama)")
	flags.String("llm-model", "", "LLM model name")
	flags.String("search-provider", "", "web search provider (duckduckgo, tavily, bing, none)")
	flags.String("log-format", "", "log format (console, json)")

	_ = viper.BindPFlag("llm.provider", flags.Lookup("llm-provider"))
	_ = viper.BindPFlag("llm.model", flags.Lookup("llm-model"))
	_ = viper.BindPFlag("retrieval.search_provider", flags.Lookup("search-provider"))
	_ = viper.BindPFlag("logging.format", flags.Lookup("log-format"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if err := configure(viper.GetViper(), cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		return
	}
	if verbose && viper.ConfigFileUsed() != "" {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// configure registers defaults, the config file and FACTSCOPE_* variables
// on v. A missing default config file is not an error.
func configure(v *viper.Viper, file string) error {
	if err := setDefaults(v, model.DefaultConfig()); err != nil {
		return err
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".factscope"))
		}
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	// FACTSCOPE_LLM_PROVIDER overrides llm.provider
	v.SetEnvPrefix("FACTSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// loadConfig resolves the effective configuration: flags, then FACTSCOPE_*
// variables, then the config file, then defaults. Well-known provider
// variables fill credentials the configuration leaves empty.
func loadConfig(v *viper.Viper, getenv func(string) string) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyEnvKeys(cfg, getenv)
	if verbose {
		cfg.Output.Verbose = true
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// applyEnvKeys fills empty credentials from provider-specific variables
func applyEnvKeys(cfg *model.Config, getenv func(string) string) {
	fill := func(dst *string, name string) {
		if *dst == "" {
			*dst = getenv(name)
		}
	}

	switch strings.ToLower(cfg.LLM.Provider) {
	case "deepseek":
		fill(&cfg.LLM.APIKey, "DEEPSEEK_API_KEY")
	case "openai":
		fill(&cfg.LLM.APIKey, "OPENAI_API_KEY")
	case "anthropic", "claude":
		fill(&cfg.LLM.APIKey, "ANTHROPIC_API_KEY")
	case "ollama":
		fill(&cfg.LLM.BaseURL, "OLLAMA_BASE_URL")
	}

	fill(&cfg.Retrieval.TavilyAPIKey, "TAVILY_API_KEY")
	fill(&cfg.Retrieval.BingAPIKey, "BING_API_KEY")
	fill(&cfg.Stance.APIKey, "HF_API_TOKEN")
}

// app holds what every command needs to build and run a pipeline
type app struct {
	cfg      *model.Config
	logger   *zap.Logger
	tracer   telemetry.Tracer
	metrics  *metrics.Metrics
	shutdown func(context.Context) error
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig(viper.GetViper(), os.Getenv)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		tracer:   telemetry.Noop(),
		shutdown: func(context.Context) error { return nil },
	}

	if cfg.Telemetry.Enabled {
		tp, err := telemetry.InitProvider(ctx, cfg.Telemetry)
		if err != nil {
			logger.Warn("tracing disabled", zap.Error(err))
		} else {
			a.tracer = telemetry.NewOTel(tp)
			a.shutdown = tp.Shutdown
		}
	}
	return a, nil
}

func (a *app) pipeline() *pipeline.Pipeline {
	opts := []pipeline.Option{
		pipeline.WithLogger(a.logger),
		pipeline.WithTracer(a.tracer),
	}
	if a.metrics != nil {
		opts = append(opts, pipeline.WithMetrics(a.metrics))
	}
	return pipeline.New(a.cfg, opts...)
}

// close flushes pending spans and log entries
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.shutdown(ctx); err != nil {
		a.logger.Warn("tracer shutdown", zap.Error(err))
	}
	_ = a.logger.Sync()
}
