package instagram

import (
	"context"

	"trendscout/pkg/errors"
	"trendscout/pkg/executor"
	"trendscout/pkg/logger"
	"trendscout/pkg/models"
)

// sessionProbeUsername is a profile that always exists; fetching it
// is enough to tell a live session from an expired one.
const sessionProbeUsername = "instagram"

// Source is the content-source collaborator: it opens tag streams and
// fetches creator profiles, routing every upstream call through the
// shared executor.
type Source struct {
	client *Client
	exec   *executor.Executor
	logger logger.Logger
}

// NewSource creates a content source around a client and executor
func NewSource(client *Client, exec *executor.Executor, log logger.Logger) *Source {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Source{client: client, exec: exec, logger: log}
}

// OpenTagStream opens the reverse-chronological media stream for a tag.
// The first page is fetched eagerly so open failures surface here.
func (s *Source) OpenTagStream(ctx context.Context, tag string) (*TagStream, error) {
	stream := &TagStream{source: s, tag: SanitizeTag(tag), hasMore: true}
	if err := stream.fetchPage(ctx); err != nil {
		return nil, err
	}
	return stream, nil
}

// FetchProfile fetches the creator profile for an account, guarded by
// the executor's pacing and retry policy.
func (s *Source) FetchProfile(ctx context.Context, username string) (*models.Profile, error) {
	return executor.Result(ctx, s.exec, func() (*models.Profile, error) {
		return s.fetchProfile(ctx, username)
	})
}

// Authenticate verifies the configured session by fetching a profile
// that is only served to logged-in sessions with full fields.
func (s *Source) Authenticate(ctx context.Context) error {
	s.logger.Info("verifying session")
	_, err := s.FetchProfile(ctx, sessionProbeUsername)
	if err != nil {
		return err
	}
	s.logger.Info("session verified, ready to scan")
	return nil
}

// fetchTagPage performs one raw hashtag page request
func (s *Source) fetchTagPage(ctx context.Context, tag, after string) (*TagResponse, error) {
	var resp TagResponse
	url := GetTagURL(s.client.GetBaseURL(), tag, after)
	if err := s.client.GetJSON(ctx, url, &resp); err != nil {
		return nil, err
	}
	if err := validateTagResponse(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// fetchProfile performs one raw profile request
func (s *Source) fetchProfile(ctx context.Context, username string) (*models.Profile, error) {
	var resp ProfileResponse
	url := GetProfileURL(s.client.GetBaseURL(), username)
	if err := s.client.GetJSON(ctx, url, &resp); err != nil {
		return nil, err
	}

	if resp.RequiresToLogin {
		return nil, errors.New(errors.TypeAuthentication, "profile requires login")
	}
	if resp.Data.User.Username == "" {
		return nil, errors.Newf(errors.TypeOther, "profile %s not found", username)
	}

	return &models.Profile{
		Username:  resp.Data.User.Username,
		Followers: resp.Data.User.EdgeFollowedBy.Count,
	}, nil
}
