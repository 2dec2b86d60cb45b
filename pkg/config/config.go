// Package config loads chainkit settings from a YAML file, environment
// variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/germanamz/chainkit/pkg/modeladapter"
	"github.com/germanamz/chainkit/pkg/providers"
)

// Defaults applied to fields left empty.
const (
	DefaultKind      = "openai"
	DefaultModel     = "gpt-3.5-turbo"
	DefaultMaxTokens = 150
)

// DefaultModels maps a provider kind to the model used when none is set.
var DefaultModels = map[string]string{
	"openai":    DefaultModel,
	"anthropic": "claude-3-haiku-20240307",
}

// DefaultAPIKeys maps a provider kind to the api_key used when none is set.
var DefaultAPIKeys = map[string]string{
	"openai":    "${OPENAI_API_KEY}",
	"anthropic": "${ANTHROPIC_API_KEY}",
}

// Config is the top-level configuration.
type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ProviderConfig selects and configures the model provider.
type ProviderConfig struct {
	Kind        string   `yaml:"kind"`
	BaseURL     string   `yaml:"base_url"`
	APIKey      string   `yaml:"api_key"` //nolint:gosec // configuration field, not a hardcoded secret
	Model       string   `yaml:"model"`
	Temperature *float64 `yaml:"temperature"`
	MaxTokens   int      `yaml:"max_tokens"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn or error (default info).
	Format string `yaml:"format"` // text or json (default text).
}

// MetricsConfig controls the Prometheus endpoint. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var c Config
	c.applyDefaults()
	return c
}

// Load reads the YAML file at path and applies defaults. ${VAR} and $VAR
// references are expanded from the environment before parsing. An empty path
// returns Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("config: load: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML data, expanding environment references first.
func Parse(data []byte) (Config, error) {
	expanded := os.ExpandEnv(string(data))

	var c Config
	if err := yaml.Unmarshal([]byte(expanded), &c); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}

	c.applyDefaults()

	return c, nil
}

func (c *Config) applyDefaults() {
	p := &c.Provider
	if p.Kind == "" {
		p.Kind = DefaultKind
	}
	if p.Model == "" {
		p.Model = DefaultModels[p.Kind]
	}
	if p.MaxTokens == 0 {
		p.MaxTokens = DefaultMaxTokens
	}
	if p.Temperature == nil {
		zero := 0.0
		p.Temperature = &zero
	}
	if p.APIKey == "" {
		p.APIKey = os.ExpandEnv(DefaultAPIKeys[p.Kind])
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// SetProvider switches to kind and resets the model and api key to that
// kind's defaults.
func (c *Config) SetProvider(kind string) {
	c.Provider.Kind = kind
	c.Provider.Model = ""
	c.Provider.APIKey = ""
	c.applyDefaults()
}

// LoadDotEnv loads environment variables from path. A missing file is
// ignored so .env files stay optional. Variables already set win.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: load env: %w", err)
	}
	return nil
}

// Validate checks fields that do not depend on the provider. Provider
// specific limits are checked when the adapter is built.
func (c Config) Validate() error {
	if !slices.Contains(providers.Kinds(), c.Provider.Kind) {
		return &modeladapter.ConfigurationError{
			Field:  "provider",
			Reason: fmt.Sprintf("unknown kind %q (want one of %s)", c.Provider.Kind, strings.Join(providers.Kinds(), ", ")),
		}
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return &modeladapter.ConfigurationError{Field: "log.format", Reason: fmt.Sprintf("unknown format %q", c.Log.Format)}
	}
	return nil
}

// ModelConfig converts the provider section into a modeladapter.Config.
func (c Config) ModelConfig() modeladapter.Config {
	p := c.Provider

	var temp float64
	if p.Temperature != nil {
		temp = *p.Temperature
	}

	return modeladapter.Config{
		BaseURL:     p.BaseURL,
		APIKey:      p.APIKey,
		Model:       p.Model,
		Temperature: temp,
		MaxTokens:   p.MaxTokens,
	}
}

// NewCompleter builds the configured provider adapter.
func (c Config) NewCompleter() (modeladapter.Completer, error) {
	return providers.New(c.Provider.Kind, c.ModelConfig())
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, &modeladapter.ConfigurationError{Field: "log.level", Reason: fmt.Sprintf("unknown level %q", s)}
	}
	return l, nil
}

// NewLogger builds a slog.Logger writing to w.
func NewLogger(lc LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}

	switch lc.Format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, &modeladapter.ConfigurationError{Field: "log.format", Reason: fmt.Sprintf("unknown format %q", lc.Format)}
	}
}
