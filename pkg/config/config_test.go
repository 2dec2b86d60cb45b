package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/chainkit/pkg/config"
	"github.com/germanamz/chainkit/pkg/modeladapter"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")

	c := config.Default()

	assert.Equal(t, "openai", c.Provider.Kind)
	assert.Equal(t, "gpt-3.5-turbo", c.Provider.Model)
	assert.Equal(t, 150, c.Provider.MaxTokens)
	require.NotNil(t, c.Provider.Temperature)
	assert.Zero(t, *c.Provider.Temperature)
	assert.Equal(t, "sk-env", c.Provider.APIKey)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "text", c.Log.Format)
	require.NoError(t, c.Validate())
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("MY_KEY", "sk-from-env")

	path := writeFile(t, "chainkit.yaml", `
provider:
  kind: anthropic
  api_key: ${MY_KEY}
  model: claude-3-haiku
  temperature: 0.7
  max_tokens: 64
log:
  level: debug
  format: json
metrics:
  addr: ":9090"
`)

	c, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", c.Provider.Kind)
	assert.Equal(t, "sk-from-env", c.Provider.APIKey)
	assert.InDelta(t, 0.7, *c.Provider.Temperature, 1e-9)
	assert.Equal(t, ":9090", c.Metrics.Addr)

	mc := c.ModelConfig()
	assert.Equal(t, modeladapter.Config{
		APIKey:      "sk-from-env",
		Model:       "claude-3-haiku",
		Temperature: 0.7,
		MaxTokens:   64,
	}, mc)
}

func TestLoad_AnthropicDefaultKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "ak")

	c, err := config.Parse([]byte("provider:\n  kind: anthropic\n"))
	require.NoError(t, err)
	assert.Equal(t, "ak", c.Provider.APIKey)
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = config.Parse([]byte("provider: [oops"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse")
}

func TestValidate(t *testing.T) {
	c := config.Default()
	c.Provider.Kind = "gemini"
	err := c.Validate()
	require.ErrorIs(t, err, modeladapter.ErrConfiguration)
	assert.Contains(t, err.Error(), `unknown kind "gemini"`)

	c = config.Default()
	c.Log.Level = "loud"
	require.ErrorIs(t, c.Validate(), modeladapter.ErrConfiguration)

	c = config.Default()
	c.Log.Format = "xml"
	require.ErrorIs(t, c.Validate(), modeladapter.ErrConfiguration)
}

func TestNewCompleter_MissingKeyFailsEarly(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	c := config.Default()
	_, err := c.NewCompleter()

	var cerr *modeladapter.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "api_key", cerr.Field)
}

func TestLoadDotEnv(t *testing.T) {
	require.NoError(t, config.LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
	require.NoError(t, config.LoadDotEnv(""))

	t.Setenv("CHAINKIT_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("CHAINKIT_TEST_VALUE"))

	path := writeFile(t, ".env", "CHAINKIT_TEST_VALUE=from-dotenv\n")
	require.NoError(t, config.LoadDotEnv(path))
	assert.Equal(t, "from-dotenv", os.Getenv("CHAINKIT_TEST_VALUE"))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	log, err := config.NewLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"k":"v"`)

	_, err = config.NewLogger(config.LogConfig{Level: "info", Format: "xml"}, &buf)
	require.ErrorIs(t, err, modeladapter.ErrConfiguration)
}

func TestSetProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk")
	t.Setenv("ANTHROPIC_API_KEY", "ak")

	c := config.Default()
	c.SetProvider("anthropic")

	assert.Equal(t, "anthropic", c.Provider.Kind)
	assert.Equal(t, "claude-3-haiku-20240307", c.Provider.Model)
	assert.Equal(t, "ak", c.Provider.APIKey)
	assert.Equal(t, 150, c.Provider.MaxTokens)
}
