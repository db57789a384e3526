package executor

import (
	"context"
	stderrors "errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"trendscout/pkg/errors"
	"trendscout/pkg/logger"
)

// Operation is an upstream call guarded by the executor
type Operation func() error

// OperationWithResult is an upstream call that returns a result
type OperationWithResult[T any] func() (T, error)

// Config holds executor configuration
type Config struct {
	// MinDelay and MaxDelay bound the humanized pacing pause drawn
	// uniformly at random before every call after the first
	MinDelay time.Duration
	MaxDelay time.Duration

	// MaxRetries is the retry budget per guarded call. Rate-limit
	// backoff never consumes a slot.
	MaxRetries int

	// RateLimitWaits maps backoff severity to the base wait, multiplied
	// by the consecutive hit count on repeated throttling
	RateLimitWaits map[errors.Severity]time.Duration

	// TransientRetryUnit scales the wait after a transient network
	// failure: unit × (attempt index + 1)
	TransientRetryUnit time.Duration

	// OtherRetryDelay is the fixed wait after an unclassified failure
	OtherRetryDelay time.Duration

	Logger logger.Logger
}

// DefaultConfig returns an executor configuration with the standard
// pacing window and backoff tables
func DefaultConfig() *Config {
	return &Config{
		MinDelay:   15 * time.Second,
		MaxDelay:   45 * time.Second,
		MaxRetries: 3,
		RateLimitWaits: map[errors.Severity]time.Duration{
			errors.SeverityLow:    60 * time.Second,
			errors.SeverityMedium: 300 * time.Second,
			errors.SeverityHigh:   900 * time.Second,
		},
		TransientRetryUnit: 5 * time.Second,
		OtherRetryDelay:    2 * time.Second,
		Logger:             logger.GetLogger(),
	}
}

// Stats holds cumulative executor statistics
type Stats struct {
	TotalRequests int64
	RateLimitHits int64
}

// ExhaustedError is returned when the retry budget is spent without
// success. Callers treat it as a soft failure and skip the item.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// IsExhausted reports whether an error is an exhausted-retries outcome
func IsExhausted(err error) bool {
	var ee *ExhaustedError
	return stderrors.As(err, &ee)
}

// Executor wraps upstream calls with humanized pacing, retry, and
// rate-limit backoff. A single instance is shared across a run so the
// pacing and statistics cover the run's whole request lifetime.
type Executor struct {
	cfg    *Config
	logger logger.Logger

	requestCount  atomic.Int64
	rateLimitHits atomic.Int64

	// consecutiveHits escalates rate-limit waits and resets on the
	// next unconditional success
	consecutiveHits atomic.Int64
}

// New creates an executor. Nil config selects defaults.
func New(cfg *Config) *Executor {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}
	return &Executor{cfg: cfg, logger: cfg.Logger}
}

// Stats returns the cumulative request and rate-limit counters
func (e *Executor) Stats() Stats {
	return Stats{
		TotalRequests: e.requestCount.Load(),
		RateLimitHits: e.rateLimitHits.Load(),
	}
}

// Execute runs op with pacing, retry, and backoff.
//
// Rate-limit failures back off and retry without consuming a retry
// slot. Transient and unclassified failures consume a slot each.
// Authentication failures propagate immediately. When the budget is
// spent, an *ExhaustedError wrapping the last failure is returned.
func (e *Executor) Execute(ctx context.Context, op Operation) error {
	var lastErr error

	for attempt := 0; attempt < e.cfg.MaxRetries; {
		if err := e.pace(ctx); err != nil {
			return err
		}

		err := op()
		if err == nil {
			if e.consecutiveHits.Swap(0) > 0 {
				e.logger.Info("rate limit cleared, resuming normal operation")
			}
			return nil
		}
		lastErr = err

		switch errors.TypeOf(err) {
		case errors.TypeRateLimited:
			if err := e.backoffRateLimit(ctx, err); err != nil {
				return err
			}
			// does not consume a retry slot

		case errors.TypeAuthentication:
			e.logger.WithError(err).Error("authentication failure, not retrying")
			return err

		case errors.TypeTransientNetwork:
			e.logger.WarnWithFields("transient network failure", map[string]interface{}{
				"attempt":     attempt + 1,
				"max_retries": e.cfg.MaxRetries,
				"error":       err.Error(),
			})
			if attempt < e.cfg.MaxRetries-1 {
				delay := e.cfg.TransientRetryUnit * time.Duration(attempt+1)
				if werr := wait(ctx, delay); werr != nil {
					return werr
				}
			}
			attempt++

		default:
			e.logger.WarnWithFields("request failed", map[string]interface{}{
				"attempt":     attempt + 1,
				"max_retries": e.cfg.MaxRetries,
				"error":       err.Error(),
			})
			if attempt < e.cfg.MaxRetries-1 {
				if werr := wait(ctx, e.cfg.OtherRetryDelay); werr != nil {
					return werr
				}
			}
			attempt++
		}
	}

	e.logger.WithError(lastErr).Error("max retries exhausted")
	return &ExhaustedError{Attempts: e.cfg.MaxRetries, Err: lastErr}
}

// Result runs an operation that returns a value through the executor
func Result[T any](ctx context.Context, e *Executor, op OperationWithResult[T]) (T, error) {
	var result T
	err := e.Execute(ctx, func() error {
		var opErr error
		result, opErr = op()
		return opErr
	})
	return result, err
}

// pace sleeps for a random humanized delay before every call after the
// first in the executor's lifetime, then counts the request
func (e *Executor) pace(ctx context.Context) error {
	if e.requestCount.Load() > 0 {
		window := e.cfg.MaxDelay - e.cfg.MinDelay
		delay := e.cfg.MinDelay + time.Duration(rand.Int63n(int64(window)+1))
		e.logger.DebugWithFields("pacing before request", map[string]interface{}{
			"delay": delay,
		})
		if err := wait(ctx, delay); err != nil {
			return err
		}
	}
	e.requestCount.Add(1)
	return nil
}

// backoffRateLimit sleeps for the severity base wait scaled by the
// consecutive hit count
func (e *Executor) backoffRateLimit(ctx context.Context, cause error) error {
	e.rateLimitHits.Add(1)
	hits := e.consecutiveHits.Add(1)

	severity := errors.SeverityOf(cause)
	base, ok := e.cfg.RateLimitWaits[severity]
	if !ok {
		base = e.cfg.RateLimitWaits[errors.SeverityMedium]
	}
	delay := base * time.Duration(hits)

	e.logger.WarnWithFields("rate limit detected, backing off", map[string]interface{}{
		"severity":         string(severity),
		"consecutive_hits": hits,
		"wait":             delay,
	})

	return wait(ctx, delay)
}

// wait sleeps for the given duration or until the context is cancelled
func wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
