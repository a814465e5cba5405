package langbly

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/langbly/langbly-go/internal/resilience"
)

// Client talks to the Langbly translation API. It is safe for concurrent
// use: calls are independent, share only the pooled transport, and one
// call's retry backoff never blocks another call.
type Client struct {
	cfg     config
	http    Doer
	breaker *resilience.Breaker
	log     logrus.FieldLogger

	// ownedTransport is set only when the client built its own transport;
	// Close releases it. Injected clients are owned by the caller.
	ownedTransport *http.Transport
	closeOnce      sync.Once

	// languagesFlight collapses concurrent identical listing calls into a
	// single request. The flight is detached from individual caller
	// contexts; results are not cached beyond the shared flight.
	languagesFlight singleflight.Group

	// sleep suspends between attempts; replaced in tests to observe delays.
	sleep func(ctx context.Context, delay time.Duration) error
}

// New builds a Client. The API key is required; everything else has
// documented defaults. Configuration is validated here once and is immutable
// for the Client's lifetime.
func New(apiKey string, opts ...Option) (*Client, error) {
	cfg := defaultConfig(apiKey)
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger := cfg.logger
	if logger == nil {
		nop := logrus.New()
		nop.SetOutput(io.Discard)
		logger = nop
	}

	c := &Client{
		cfg:   cfg,
		http:  cfg.httpClient,
		log:   logger,
		sleep: resilience.Wait,
	}
	if c.http == nil {
		transport, err := newTransport(cfg.proxyURL)
		if err != nil {
			return nil, &ConfigError{Field: "proxy url", Message: err.Error()}
		}
		c.ownedTransport = transport
		c.http = &http.Client{Transport: transport}
	}
	if cfg.breaker != nil {
		c.breaker = resilience.NewBreaker(resilience.BreakerConfig{
			MinRequests:         cfg.breaker.MinRequests,
			ConsecutiveFailures: cfg.breaker.ConsecutiveFailures,
			FailureRatio:        cfg.breaker.FailureRatio,
			Interval:            cfg.breaker.Interval,
			Cooldown:            cfg.breaker.Cooldown,
			IsFailure: func(err error) bool {
				apiErr, ok := AsError(err)
				return ok && apiErr.Retryable()
			},
		})
	}
	return c, nil
}

// Close releases the transport resources owned by the Client. It is safe to
// call more than once and does not interrupt in-flight calls, which keep
// honoring their own contexts.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		if c.ownedTransport != nil {
			c.ownedTransport.CloseIdleConnections()
		}
	})
}

// Translate translates a single text into the target language. The input
// shape is preserved: one string in, one Translation out.
func (c *Client) Translate(ctx context.Context, text, target string, opts *TranslateOptions) (*Translation, error) {
	results, err := c.translate(ctx, []string{text}, target, opts)
	if err != nil {
		return nil, err
	}
	return &results[0], nil
}

// TranslateBatch translates every text in order. The result slice has
// exactly one entry per input, and entry i translates input i.
func (c *Client) TranslateBatch(ctx context.Context, texts []string, target string, opts *TranslateOptions) ([]Translation, error) {
	return c.translate(ctx, texts, target, opts)
}

func (c *Client) translate(ctx context.Context, texts []string, target string, opts *TranslateOptions) ([]Translation, error) {
	req, err := buildTranslateRequest(texts, target, opts)
	if err != nil {
		return nil, err
	}
	payload, err := c.execute(ctx, "translate", req)
	if err != nil {
		return nil, err
	}
	results, err := decodeTranslations(payload, len(texts))
	if err != nil {
		return nil, err
	}
	if opts != nil && opts.Source != "" {
		for i := range results {
			if results[i].Source == "" {
				results[i].Source = opts.Source
			}
		}
	}
	return results, nil
}

// Detect identifies the language of text.
func (c *Client) Detect(ctx context.Context, text string) (*Detection, error) {
	req, err := buildDetectRequest(text)
	if err != nil {
		return nil, err
	}
	payload, err := c.execute(ctx, "detect", req)
	if err != nil {
		return nil, err
	}
	return decodeDetection(payload)
}

// Languages lists the supported languages. When target is a non-empty
// language code, each entry also carries its display name in that language.
// Concurrent identical calls share a single request; each caller gets its
// own copy of the result.
func (c *Client) Languages(ctx context.Context, target string) ([]Language, error) {
	req, err := buildLanguagesRequest(target)
	if err != nil {
		return nil, err
	}
	// The shared flight runs detached from any single caller's context so
	// that one caller cancelling cannot fail the others. The per-attempt
	// and call timeouts still bound it. A cancelled caller just leaves
	// the flight.
	flightCtx := context.WithoutCancel(ctx)
	ch := c.languagesFlight.DoChan("languages:"+target, func() (any, error) {
		payload, execErr := c.execute(flightCtx, "languages", req)
		if execErr != nil {
			return nil, execErr
		}
		return decodeLanguages(payload)
	})
	select {
	case <-ctx.Done():
		return nil, networkError("call aborted", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]Language)), nil
	}
}

// execute runs one logical call: a bounded loop of attempts with backoff
// between transient failures. The attempt counter lives here, scoped to this
// call only, and increments only when a retryable failure occurs.
func (c *Client) execute(ctx context.Context, op string, req *apiRequest) ([]byte, error) {
	if c.cfg.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.callTimeout)
		defer cancel()
	}

	requestID := uuid.NewString()
	log := c.log.WithFields(logrus.Fields{"op": op, "request_id": requestID})

	for attempt := 0; ; attempt++ {
		payload, err := c.roundTrip(ctx, req, requestID)
		if err == nil {
			return payload, nil
		}
		apiErr, ok := AsError(err)
		if !ok {
			apiErr = networkError("request failed", err)
		}
		if !apiErr.Retryable() || attempt >= c.cfg.retry.MaxRetries {
			return nil, apiErr
		}

		delay := resilience.Backoff(attempt, c.cfg.retry)
		if apiErr.Kind == KindRateLimit && apiErr.RetryAfter > 0 {
			// The server's hint is authoritative.
			delay = apiErr.RetryAfter
		}
		log.WithFields(logrus.Fields{
			"attempt": attempt + 1,
			"delay":   delay,
			"kind":    apiErr.Kind,
		}).Debugf("retrying after %v", apiErr)

		if waitErr := c.sleep(ctx, delay); waitErr != nil {
			return nil, networkError("call aborted while waiting to retry", waitErr)
		}
	}
}

// roundTrip performs exactly one attempt, through the circuit breaker when
// one is configured.
func (c *Client) roundTrip(ctx context.Context, req *apiRequest, requestID string) ([]byte, error) {
	if c.breaker == nil {
		return c.attempt(ctx, req, requestID)
	}
	result, err := c.breaker.Execute(func() (any, error) {
		return c.attempt(ctx, req, requestID)
	})
	if err != nil {
		if errors.Is(err, resilience.ErrBreakerOpen) {
			return nil, networkError("request not sent", err)
		}
		return nil, err
	}
	return result.([]byte), nil
}

// attempt is one HTTP exchange: build, send, read, classify. It never
// retries and never interprets a 2xx body.
func (c *Client) attempt(ctx context.Context, req *apiRequest, requestID string) ([]byte, error) {
	attemptCtx := ctx
	if c.cfg.timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, c.cfg.timeout)
		defer cancel()
	}

	endpoint := c.cfg.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}
	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(attemptCtx, req.method, endpoint, body)
	if err != nil {
		return nil, invalidRequestf("build request: %v", err)
	}
	for name, value := range c.cfg.headers {
		httpReq.Header.Set(name, value)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.apiKey)
	httpReq.Header.Set("User-Agent", c.cfg.userAgent)
	httpReq.Header.Set("X-Request-Id", requestID)
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, networkError("request failed", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError("read response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyStatus(resp.StatusCode, resp.Header, payload)
	}
	return payload, nil
}
