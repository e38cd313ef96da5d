// Package resilience retries duration lookups that fail for transient reasons.
package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/watchstats/internal/config"
)

const (
	defaultAttempts = 3
	defaultBase     = 500 * time.Millisecond
	defaultCap      = 10 * time.Second
	defaultFactor   = 2.0
	defaultJitter   = 0.25
)

// Policy describes how a failed call is repeated. The wait before retry n
// (zero-based) is Base*Factor^n, capped at Cap and spread by up to Jitter of
// itself in either direction.
type Policy struct {
	// Attempts counts the first call; 1 disables retries.
	Attempts int
	Base     time.Duration
	Cap      time.Duration
	Factor   float64
	Jitter   float64

	// Retryable replaces IsTransient when set.
	Retryable func(error) bool
	// Before runs ahead of each wait.
	Before func(attempt int, wait time.Duration, err error)
}

// DefaultPolicy is three attempts starting at 500ms.
func DefaultPolicy() Policy {
	return Policy{
		Attempts: defaultAttempts,
		Base:     defaultBase,
		Cap:      defaultCap,
		Factor:   defaultFactor,
		Jitter:   defaultJitter,
	}
}

// PolicyFromConfig applies the enrich retry settings over DefaultPolicy.
// Non-positive values keep the default.
func PolicyFromConfig(c config.EnrichConfig) Policy {
	p := DefaultPolicy()
	if c.MaxAttempts > 0 {
		p.Attempts = c.MaxAttempts
	}
	if c.InitialBackoffMs > 0 {
		p.Base = time.Duration(c.InitialBackoffMs) * time.Millisecond
	}
	if c.MaxBackoffMs > 0 {
		p.Cap = time.Duration(c.MaxBackoffMs) * time.Millisecond
	}
	return p
}

func (p Policy) normalized() Policy {
	if p.Attempts <= 0 {
		p.Attempts = defaultAttempts
	}
	if p.Base <= 0 {
		p.Base = defaultBase
	}
	if p.Cap <= 0 {
		p.Cap = defaultCap
	}
	if p.Factor <= 0 {
		p.Factor = defaultFactor
	}
	p.Jitter = max(p.Jitter, 0)
	if p.Retryable == nil {
		p.Retryable = IsTransient
	}
	return p
}

// Wait returns the delay before retry number attempt (zero-based).
func (p Policy) Wait(attempt int) time.Duration {
	d := min(float64(p.Base)*math.Pow(p.Factor, float64(attempt)), float64(p.Cap))
	if p.Jitter > 0 {
		d += (rand.Float64()*2 - 1) * d * p.Jitter
	}
	return time.Duration(max(d, 0))
}

// Call runs fn until it succeeds, returns an error p does not retry, or the
// attempts run out. The last error is returned. Cancelling ctx ends the wait
// at once.
func Call[T any](ctx context.Context, p Policy, fn func(context.Context) (T, error)) (T, error) {
	p = p.normalized()

	var zero T
	for attempt := 0; ; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if ctx.Err() != nil || !p.Retryable(err) || attempt+1 >= p.Attempts {
			return zero, err
		}

		wait := p.Wait(attempt)
		if p.Before != nil {
			p.Before(attempt+1, wait, err)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, err
		case <-timer.C:
		}
	}
}

// LogRetries returns a Before hook that logs each retry of op.
func LogRetries(op string) func(int, time.Duration, error) {
	return func(attempt int, wait time.Duration, err error) {
		zap.L().Warn("resilience: retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}
}
