package langbly

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variables read by FromEnv. New itself never touches the
// environment; this constructor is the explicit opt-in layer on top.
const (
	EnvAPIKey  = "LANGBLY_API_KEY"
	EnvBaseURL = "LANGBLY_BASE_URL"
)

// FromEnv builds a Client from LANGBLY_API_KEY and, when set,
// LANGBLY_BASE_URL. A .env file in the working directory is loaded first if
// present. Explicit options take precedence over environment values.
func FromEnv(opts ...Option) (*Client, error) {
	_ = godotenv.Load()

	apiKey := os.Getenv(EnvAPIKey)
	if apiKey == "" {
		return nil, &ConfigError{Field: "api key", Message: EnvAPIKey + " is not set"}
	}
	if baseURL := os.Getenv(EnvBaseURL); baseURL != "" {
		opts = append([]Option{WithBaseURL(baseURL)}, opts...)
	}
	return New(apiKey, opts...)
}
