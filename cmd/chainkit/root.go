package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/germanamz/chainkit/pkg/chain"
	"github.com/germanamz/chainkit/pkg/config"
	"github.com/germanamz/chainkit/pkg/metrics"
	"github.com/germanamz/chainkit/pkg/modeladapter"
)

const defaultConfigPath = "chainkit.yaml"

// app holds flag values and the state built before a subcommand runs.
type app struct {
	configPath  string
	envPath     string
	provider    string
	model       string
	temperature float64
	maxTokens   int
	logLevel    string
	metricsAddr string

	cfg       config.Config
	log       *slog.Logger
	collector metrics.Collector
	server    *metricsServer
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "chainkit",
		Short: "Run prompt, model and parser chains against an LLM provider",
		Long: `Chainkit composes a prompt template, a model call and an optional output
parser into a single chain and runs it.

Supported providers:
  openai     - OpenAI Chat Completions API (requires OPENAI_API_KEY)
  anthropic  - Anthropic Messages API (requires ANTHROPIC_API_KEY)`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", defaultConfigPath, "path to configuration file")
	f.StringVar(&a.envPath, "env", ".env", "path to .env file (ignored if missing)")
	f.StringVarP(&a.provider, "provider", "p", "", "LLM provider (openai, anthropic)")
	f.StringVarP(&a.model, "model", "m", "", "model to use (provider-specific)")
	f.Float64Var(&a.temperature, "temperature", 0, "sampling temperature")
	f.IntVar(&a.maxTokens, "max-tokens", 0, "maximum tokens in the response")
	f.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	f.StringVar(&a.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	root.AddCommand(a.invokeCmd(), a.askCmd(), a.parseCmd(), a.postCmd(), a.chatCmd())

	return root
}

// setup loads configuration, applies flag overrides and builds the logger
// and metrics collector.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(a.envPath); err != nil {
		return err
	}

	path := a.configPath
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			path = ""
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.SetProvider(a.provider)
	}
	if flags.Changed("model") {
		cfg.Provider.Model = a.model
	}
	if flags.Changed("temperature") {
		t := a.temperature
		cfg.Provider.Temperature = &t
	}
	if flags.Changed("max-tokens") {
		cfg.Provider.MaxTokens = a.maxTokens
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Addr = a.metricsAddr
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := config.NewLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	a.collector = metrics.NoopCollector{}

	if cfg.Metrics.Addr != "" {
		pc := metrics.NewPrometheusCollector()
		srv, err := startMetricsServer(cfg.Metrics.Addr, pc.Registry(), log)
		if err != nil {
			return err
		}
		a.collector = pc
		a.server = srv
	}

	return nil
}

func (a *app) completer() (modeladapter.Completer, error) {
	return a.cfg.NewCompleter()
}

// middlewares returns the middlewares applied to every chain the CLI builds.
func (a *app) middlewares() []chain.Middleware {
	return []chain.Middleware{
		chain.Recovery(),
		chain.Logger(a.log),
		chain.Metrics(a.collector),
	}
}

func (a *app) close() {
	if a.server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil && a.log != nil {
		a.log.Warn("metrics server shutdown", "error", err)
	}
}
