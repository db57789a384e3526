package executor

import (
	"context"
	"testing"
	"time"

	"trendscout/pkg/errors"
)

// testConfig shrinks every delay so the retry machinery can be
// exercised without real waiting
func testConfig() *Config {
	return &Config{
		MinDelay:   time.Millisecond,
		MaxDelay:   2 * time.Millisecond,
		MaxRetries: 3,
		RateLimitWaits: map[errors.Severity]time.Duration{
			errors.SeverityLow:    time.Millisecond,
			errors.SeverityMedium: 2 * time.Millisecond,
			errors.SeverityHigh:   3 * time.Millisecond,
		},
		TransientRetryUnit: time.Millisecond,
		OtherRetryDelay:    time.Millisecond,
	}
}

func TestExecuteSuccess(t *testing.T) {
	e := New(testConfig())

	calls := 0
	err := e.Execute(context.Background(), func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if stats := e.Stats(); stats.TotalRequests != 1 {
		t.Errorf("expected 1 request counted, got %d", stats.TotalRequests)
	}
}

func TestExecuteTransientRetriesThenSucceeds(t *testing.T) {
	e := New(testConfig())

	calls := 0
	err := e.Execute(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New(errors.TypeTransientNetwork, "connection reset")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestExecuteExhaustsRetries(t *testing.T) {
	e := New(testConfig())

	calls := 0
	err := e.Execute(context.Background(), func() error {
		calls++
		return errors.New(errors.TypeTransientNetwork, "connection reset")
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !IsExhausted(err) {
		t.Errorf("expected an exhausted error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected exactly MaxRetries calls, got %d", calls)
	}
}

func TestExecuteAuthenticationNotRetried(t *testing.T) {
	e := New(testConfig())

	calls := 0
	authErr := errors.New(errors.TypeAuthentication, "session expired")
	err := e.Execute(context.Background(), func() error {
		calls++
		return authErr
	})
	if err != authErr {
		t.Fatalf("expected the auth error to propagate unchanged, got %v", err)
	}
	if calls != 1 {
		t.Errorf("authentication failure must not be retried, got %d calls", calls)
	}
	if IsExhausted(err) {
		t.Error("auth failure must not be reported as exhausted")
	}
}

func TestExecuteRateLimitDoesNotConsumeRetrySlot(t *testing.T) {
	e := New(testConfig())

	// More rate-limit hits than the retry budget, then success: since
	// backoff never consumes a slot, the call still succeeds
	calls := 0
	err := e.Execute(context.Background(), func() error {
		calls++
		if calls <= 5 {
			return errors.New(errors.TypeRateLimited, "throttled")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 6 {
		t.Errorf("expected 6 calls, got %d", calls)
	}

	stats := e.Stats()
	if stats.RateLimitHits != 5 {
		t.Errorf("expected 5 rate limit hits recorded, got %d", stats.RateLimitHits)
	}
	if stats.TotalRequests != 6 {
		t.Errorf("expected 6 requests recorded, got %d", stats.TotalRequests)
	}
}

func TestExecuteStatsAccumulateAcrossCalls(t *testing.T) {
	e := New(testConfig())

	// Rate limit on the first guarded call, clean second call: the
	// cumulative hit counter must survive the intervening success
	calls := 0
	_ = e.Execute(context.Background(), func() error {
		calls++
		if calls == 1 {
			return errors.New(errors.TypeRateLimited, "throttled")
		}
		return nil
	})
	_ = e.Execute(context.Background(), func() error { return nil })

	stats := e.Stats()
	if stats.RateLimitHits != 1 {
		t.Errorf("expected cumulative hit count 1, got %d", stats.RateLimitHits)
	}
	if stats.TotalRequests != 3 {
		t.Errorf("expected 3 total requests, got %d", stats.TotalRequests)
	}
}

func TestExecuteOtherErrorConsumesSlot(t *testing.T) {
	e := New(testConfig())

	calls := 0
	err := e.Execute(context.Background(), func() error {
		calls++
		return errors.New(errors.TypeOther, "malformed response")
	})
	if !IsExhausted(err) {
		t.Fatalf("expected exhaustion, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestExecuteContextCancellation(t *testing.T) {
	cfg := testConfig()
	// A long pacing window so cancellation lands mid-wait
	cfg.MinDelay = time.Minute
	cfg.MaxDelay = 2 * time.Minute
	e := New(cfg)

	// First call paid no pacing; the second would wait a minute
	if err := e.Execute(context.Background(), func() error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- e.Execute(ctx, func() error { return nil })
	}()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("cancellation did not unblock the executor")
	}
}

func TestResult(t *testing.T) {
	e := New(testConfig())

	calls := 0
	value, err := Result(context.Background(), e, func() (string, error) {
		calls++
		if calls < 2 {
			return "", errors.New(errors.TypeTransientNetwork, "flaky")
		}
		return "payload", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "payload" {
		t.Errorf("expected payload, got %q", value)
	}
}
