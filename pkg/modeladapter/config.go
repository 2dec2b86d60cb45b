package modeladapter

import (
	"math"
	"net/http"
	"strconv"
	"strings"
)

// Config holds the settings needed to construct a provider client.
// The API key is an opaque secret; it is never read from the environment
// here, callers pass it in explicitly.
type Config struct {
	BaseURL     string            // API base URL (no trailing slash); providers supply a default.
	APIKey      string            //nolint:gosec // configuration field, not a hardcoded secret
	Model       string            // Model identifier (e.g. "gpt-3.5-turbo").
	Temperature float64           // Sampling temperature, 0 ≤ t ≤ provider maximum.
	MaxTokens   int               // Maximum tokens in the response; must be positive.
	Headers     map[string]string // Extra headers applied to every request.
	Client      *http.Client      // HTTP client; nil falls back to http.DefaultClient.
}

// Validate checks the settings eagerly. maxTemperature is the provider's
// upper bound for Temperature.
func (c Config) Validate(maxTemperature float64) error {
	if strings.TrimSpace(c.APIKey) == "" {
		return &ConfigurationError{Field: "api_key", Reason: "is required"}
	}
	if strings.TrimSpace(c.Model) == "" {
		return &ConfigurationError{Field: "model", Reason: "is required"}
	}
	if math.IsNaN(c.Temperature) || c.Temperature < 0 || c.Temperature > maxTemperature {
		return &ConfigurationError{
			Field:  "temperature",
			Reason: "must be between 0 and " + strconv.FormatFloat(maxTemperature, 'g', -1, 64),
		}
	}
	if c.MaxTokens <= 0 {
		return &ConfigurationError{Field: "max_tokens", Reason: "must be a positive integer"}
	}
	if c.BaseURL != "" && !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return &ConfigurationError{Field: "base_url", Reason: "must start with http:// or https://"}
	}

	return nil
}

// WithDefaultBaseURL returns a copy of c with BaseURL set to url when empty.
// Trailing slashes are removed.
func (c Config) WithDefaultBaseURL(url string) Config {
	if c.BaseURL == "" {
		c.BaseURL = url
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	return c
}
