// Package instagram provides the content source for hashtag scanning
// against Instagram's web API.
//
// This package includes:
//   - An authenticated HTTP client with session cookies and a hard
//     request-rate ceiling
//   - Type-safe models for hashtag and profile responses
//   - A lazy, paginated stream of hashtag media, most recent first
//   - Helper functions for constructing API endpoints
//
// Example usage:
//
//	client := instagram.NewClient(&cfg.Instagram, &cfg.Pacing, log)
//	source := instagram.NewSource(client, exec, log)
//
//	// Verify the session before scanning
//	if err := source.Authenticate(ctx); err != nil {
//	    // session expired or invalid
//	}
//
//	// Walk a hashtag stream
//	stream, err := source.OpenTagStream(ctx, "webdesign")
//	for {
//	    post, err := stream.Next(ctx)
//	    if err == io.EOF {
//	        break
//	    }
//	    // evaluate post
//	}
//
// All upstream calls are routed through the executor, so pacing,
// retry, and rate-limit backoff apply uniformly.
package instagram
