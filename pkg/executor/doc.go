// Package executor wraps upstream calls with humanized pacing, retry,
// and rate-limit backoff.
//
// Features:
//   - A random pause between consecutive requests, drawn uniformly
//     from a configured window, to mimic a human browsing session
//   - Escalating backoff on repeated rate-limit signals, scaled by
//     the severity of the signal and the consecutive hit count
//   - A per-call retry budget that rate-limit backoff never consumes
//   - Immediate propagation of authentication failures
//   - Context support for cancellation during any wait
//   - Cumulative request and rate-limit statistics for run summaries
//
// Basic usage:
//
//	exec := executor.New(executor.DefaultConfig())
//
//	// Guard a call without a result
//	err := exec.Execute(ctx, func() error {
//	    return client.GetJSON(ctx, url, &resp)
//	})
//
//	// Guard a call with a result
//	profile, err := executor.Result(ctx, exec, func() (*models.Profile, error) {
//	    return source.fetchProfile(ctx, username)
//	})
//
// When the retry budget is spent the last failure is wrapped in an
// *ExhaustedError. Callers treat exhaustion as a soft failure: the
// current item is skipped and the scan moves on.
package executor
