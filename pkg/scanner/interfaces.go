package scanner

import (
	"context"

	"trendscout/pkg/models"
)

// PostStream is an ordered, non-restartable stream of candidate posts,
// most recent first. Next returns io.EOF when the stream is exhausted.
type PostStream interface {
	Next(ctx context.Context) (*models.Post, error)
}

// ContentSource provides tag streams and lazy profile fetches
type ContentSource interface {
	OpenTagStream(ctx context.Context, tag string) (PostStream, error)
	FetchProfile(ctx context.Context, username string) (*models.Profile, error)
}

// Authenticator verifies the upstream session before any scanning
type Authenticator interface {
	Authenticate(ctx context.Context) error
}

// RecordWriter persists the ordered result snapshot of a run
type RecordWriter interface {
	Save(records []models.TrendRecord) error
}

// Reporter renders an optional human-readable report of a run
type Reporter interface {
	Write(records []models.TrendRecord) error
}
