package audio

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// breakerTimeout is how long the breaker stays open before a trial request
const breakerTimeout = 30 * time.Second

// BreakerProvider stops calling a failing TTS service after a run of
// consecutive failures. While open, requests fail fast with
// gobreaker.ErrOpenState.
type BreakerProvider struct {
	Provider
	cb *gobreaker.CircuitBreaker
}

// NewBreakerProvider wraps p with a circuit breaker. A maxFailures of zero
// returns p unchanged.
func NewBreakerProvider(p Provider, maxFailures uint32) Provider {
	if maxFailures == 0 {
		return p
	}

	settings := gobreaker.Settings{
		Name:    p.Name(),
		Timeout: breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("TTS circuit breaker state changed", "provider", name, "from", from.String(), "to", to.String())
		},
	}

	return &BreakerProvider{
		Provider: p,
		cb:       gobreaker.NewCircuitBreaker(settings),
	}
}

// Synthesize runs the wrapped provider through the breaker
func (b *BreakerProvider) Synthesize(ctx context.Context, text, languageCode, voice string) ([]byte, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.Provider.Synthesize(ctx, text, languageCode, voice)
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// State reports the breaker state
func (b *BreakerProvider) State() gobreaker.State {
	return b.cb.State()
}

// Unwrap returns the wrapped provider
func (b *BreakerProvider) Unwrap() Provider {
	return b.Provider
}
