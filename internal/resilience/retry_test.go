package resilience

import (
	"context"
	"testing"
	"time"
)

func TestBackoff(t *testing.T) {
	tests := []struct {
		name    string
		attempt int
		cfg     RetryConfig
		wantMin time.Duration
		wantMax time.Duration
	}{
		{
			name:    "first attempt no jitter",
			attempt: 0,
			cfg:     RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: 10 * time.Second},
			wantMin: 100 * time.Millisecond,
			wantMax: 100 * time.Millisecond,
		},
		{
			name:    "second attempt doubles",
			attempt: 1,
			cfg:     RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: 10 * time.Second},
			wantMin: 200 * time.Millisecond,
			wantMax: 200 * time.Millisecond,
		},
		{
			name:    "third attempt doubles again",
			attempt: 2,
			cfg:     RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: 10 * time.Second},
			wantMin: 400 * time.Millisecond,
			wantMax: 400 * time.Millisecond,
		},
		{
			name:    "capped at max",
			attempt: 10,
			cfg:     RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second},
			wantMin: time.Second,
			wantMax: time.Second,
		},
		{
			name:    "with jitter",
			attempt: 0,
			cfg:     RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: 10 * time.Second, JitterDelay: 50 * time.Millisecond},
			wantMin: 100 * time.Millisecond,
			wantMax: 150 * time.Millisecond,
		},
		{
			name:    "jitter never exceeds max",
			attempt: 4,
			cfg:     RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: 1600 * time.Millisecond, JitterDelay: time.Second},
			wantMin: 1600 * time.Millisecond,
			wantMax: 1600 * time.Millisecond,
		},
		{
			name:    "huge attempt count does not overflow",
			attempt: 100,
			cfg:     RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second},
			wantMin: time.Second,
			wantMax: time.Second,
		},
		{
			name:    "negative attempt treated as first",
			attempt: -1,
			cfg:     RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second},
			wantMin: 100 * time.Millisecond,
			wantMax: 100 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Backoff(tt.attempt, tt.cfg)
			if got < tt.wantMin || got > tt.wantMax {
				t.Errorf("Backoff() = %v, want between %v and %v", got, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestWaitReturnsAfterDelay(t *testing.T) {
	start := time.Now()
	if err := Wait(context.Background(), 10*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Errorf("Wait returned after %v, expected at least 10ms", elapsed)
	}
}

func TestWaitStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Wait(ctx, 10*time.Second) }()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after cancellation")
	}
}

func TestWaitZeroDelayDoesNotBlock(t *testing.T) {
	if err := Wait(context.Background(), 0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
