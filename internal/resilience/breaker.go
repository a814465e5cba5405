package resilience

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// ErrBreakerOpen is returned by Breaker.Execute while the breaker is open or
// while it is half-open and already probing. No request was sent.
var ErrBreakerOpen = errors.New("circuit breaker open")

// BreakerConfig tunes the optional client-side circuit breaker. Zero values
// fall back to the defaults below.
type BreakerConfig struct {
	Name string

	// MaxRequests is the number of probe requests allowed while half-open.
	MaxRequests uint32

	// Interval is the cyclic period over which failure counts are tracked
	// while the breaker is closed.
	Interval time.Duration

	// Cooldown is how long the breaker stays open before probing again.
	Cooldown time.Duration

	// MinRequests is the minimum number of requests in a tracking window
	// before the failure ratio can trip the breaker.
	MinRequests uint32

	// ConsecutiveFailures trips the breaker regardless of ratio.
	ConsecutiveFailures uint32

	// FailureRatio trips the breaker once MinRequests have been seen.
	FailureRatio float64

	// IsFailure classifies an attempt error as a breaker failure. Client
	// errors that would fail identically on any attempt must return false
	// here so they never trip the breaker. nil counts only non-nil errors.
	IsFailure func(err error) bool
}

func (cfg *BreakerConfig) applyDefaults() {
	if cfg.Name == "" {
		cfg.Name = "langbly"
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 3
	}
	if cfg.Interval == 0 {
		cfg.Interval = 10 * time.Second
	}
	if cfg.Cooldown == 0 {
		cfg.Cooldown = 30 * time.Second
	}
	if cfg.MinRequests == 0 {
		cfg.MinRequests = 10
	}
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = 5
	}
	if cfg.FailureRatio == 0 {
		cfg.FailureRatio = 0.5
	}
	if cfg.IsFailure == nil {
		cfg.IsFailure = func(err error) bool { return err != nil }
	}
}

// Breaker wraps gobreaker so the rest of the client never deals with its
// sentinel errors or state machine directly.
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// NewBreaker builds a circuit breaker from cfg, filling in defaults.
func NewBreaker(cfg BreakerConfig) *Breaker {
	cfg.applyDefaults()
	isFailure := cfg.IsFailure
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= cfg.ConsecutiveFailures {
				return true
			}
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool { return !isFailure(err) },
	}
	return &Breaker{cb: gobreaker.NewCircuitBreaker(settings)}
}

// Execute runs fn through the breaker. While the breaker refuses traffic it
// returns ErrBreakerOpen without invoking fn.
func (b *Breaker) Execute(fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrBreakerOpen
	}
	return result, err
}

// Open reports whether the breaker is currently refusing traffic.
func (b *Breaker) Open() bool {
	return b.cb.State() == gobreaker.StateOpen
}
