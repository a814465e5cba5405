package langbly

import (
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/langbly/langbly-go/internal/resilience"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.langbly.com"

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "langbly-go/" + Version
)

// config is the immutable client configuration. It is populated by options,
// normalized and validated exactly once in New, and never mutated afterwards.
type config struct {
	apiKey      string
	baseURL     string
	timeout     time.Duration // per-attempt ceiling
	callTimeout time.Duration // optional ceiling across all attempts of one call
	proxyURL    string
	headers     map[string]string
	userAgent   string
	retry       resilience.RetryConfig
	breaker     *BreakerSettings
	httpClient  Doer
	logger      logrus.FieldLogger
}

// BreakerSettings tunes the optional circuit breaker. Zero values use
// built-in defaults; see WithCircuitBreaker.
type BreakerSettings struct {
	// MinRequests is the minimum number of requests in a tracking window
	// before the failure ratio can open the breaker.
	MinRequests uint32

	// ConsecutiveFailures opens the breaker regardless of ratio.
	ConsecutiveFailures uint32

	// FailureRatio opens the breaker once MinRequests have been seen.
	FailureRatio float64

	// Interval is the tracking window while the breaker is closed.
	Interval time.Duration

	// Cooldown is how long the breaker stays open before probing again.
	Cooldown time.Duration
}

// Option customizes a Client at construction time. Configuration is fixed
// for the lifetime of the Client; there are no per-call overrides.
type Option func(*config)

// WithBaseURL overrides the API endpoint, e.g. for a self-hosted deployment
// or a test server. A trailing slash is stripped.
func WithBaseURL(baseURL string) Option {
	return func(c *config) { c.baseURL = baseURL }
}

// WithTimeout sets the per-attempt timeout covering the full round trip of
// one HTTP exchange. Default 30s.
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) { c.timeout = timeout }
}

// WithCallTimeout bounds the total wall-clock time of one logical call
// across all retry attempts and backoff sleeps. Off by default; the
// per-attempt timeout alone bounds each exchange.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *config) { c.callTimeout = timeout }
}

// WithMaxRetries sets how many times a failed attempt is retried. Only
// transient failures (rate limit, server error, network) are ever retried.
// Default 2, meaning at most 3 attempts per call.
func WithMaxRetries(n int) Option {
	return func(c *config) { c.retry.MaxRetries = n }
}

// WithRetryBackoff tunes the exponential backoff between retries: base
// doubles per attempt, jitter is a random addition, max caps the result.
// A server-supplied Retry-After always takes precedence over the backoff.
func WithRetryBackoff(base, max, jitter time.Duration) Option {
	return func(c *config) {
		c.retry.BaseDelay = base
		c.retry.MaxDelay = max
		c.retry.JitterDelay = jitter
	}
}

// WithHTTPClient injects the HTTP client used for every exchange. It must be
// safe for concurrent use. When set, the caller owns its lifecycle and
// Client.Close will not touch it.
func WithHTTPClient(doer Doer) Option {
	return func(c *config) { c.httpClient = doer }
}

// WithProxyURL routes all requests through the given HTTP(S) proxy.
// Ignored when a custom HTTP client is injected.
func WithProxyURL(proxyURL string) Option {
	return func(c *config) { c.proxyURL = proxyURL }
}

// WithHeaders adds custom headers to every request, e.g. for tracing or a
// fronting gateway. Authorization and Content-Type cannot be overridden.
func WithHeaders(headers map[string]string) Option {
	return func(c *config) { c.headers = headers }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *config) { c.userAgent = ua }
}

// WithLogger routes the client's debug logging (attempts, retries, delays)
// to the given logger. Logging is off by default.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *config) { c.logger = logger }
}

// WithCircuitBreaker enables a client-side circuit breaker: once the service
// keeps failing, further attempts fail fast without hitting the network
// until a cooldown elapses. Deterministic client-side failures (bad input,
// bad credentials, decode mismatches) never trip it.
func WithCircuitBreaker(settings BreakerSettings) Option {
	return func(c *config) { c.breaker = &settings }
}

// ConfigError reports an invalid construction parameter.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "langbly: config: " + e.Field + ": " + e.Message
}

func defaultConfig(apiKey string) config {
	return config{
		apiKey:    apiKey,
		baseURL:   DefaultBaseURL,
		timeout:   defaultTimeout,
		userAgent: defaultUserAgent,
		retry:     resilience.DefaultRetryConfig(),
	}
}

// normalize trims what users commonly get wrong; validate rejects the rest.
func (c *config) normalize() {
	c.apiKey = strings.TrimSpace(c.apiKey)
	c.baseURL = strings.TrimRight(strings.TrimSpace(c.baseURL), "/")
	c.proxyURL = strings.TrimSpace(c.proxyURL)
}

func (c *config) validate() error {
	if c.apiKey == "" {
		return &ConfigError{Field: "api key", Message: "must not be empty"}
	}
	if c.baseURL == "" {
		return &ConfigError{Field: "base url", Message: "must not be empty"}
	}
	u, err := url.Parse(c.baseURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return &ConfigError{Field: "base url", Message: "must be an absolute URL"}
	}
	if c.timeout <= 0 {
		return &ConfigError{Field: "timeout", Message: "must be positive"}
	}
	if c.callTimeout < 0 {
		return &ConfigError{Field: "call timeout", Message: "must not be negative"}
	}
	if c.retry.MaxRetries < 0 {
		return &ConfigError{Field: "max retries", Message: "must not be negative"}
	}
	if c.proxyURL != "" {
		pu, perr := url.Parse(c.proxyURL)
		if perr != nil || !pu.IsAbs() || pu.Host == "" {
			return &ConfigError{Field: "proxy url", Message: "must be an absolute URL"}
		}
	}
	return nil
}
