package instagram

import (
	"context"
	"io"
	"time"

	"trendscout/pkg/errors"
	"trendscout/pkg/executor"
	"trendscout/pkg/models"
)

// TagStream is a lazy, ordered iterator over a hashtag's media,
// most recent first. It is finite or unbounded and not restartable.
type TagStream struct {
	source *Source
	tag    string

	buf       []models.Post
	pos       int
	endCursor string
	hasMore   bool
}

// Next returns the next candidate post, fetching further pages on
// demand. It returns io.EOF when the stream is exhausted.
func (s *TagStream) Next(ctx context.Context) (*models.Post, error) {
	for s.pos >= len(s.buf) {
		if !s.hasMore {
			return nil, io.EOF
		}
		if err := s.fetchPage(ctx); err != nil {
			return nil, err
		}
	}

	post := s.buf[s.pos]
	s.pos++
	return &post, nil
}

// fetchPage loads the next hashtag page through the guarded executor
func (s *TagStream) fetchPage(ctx context.Context) error {
	resp, err := executor.Result(ctx, s.source.exec, func() (*TagResponse, error) {
		return s.source.fetchTagPage(ctx, s.tag, s.endCursor)
	})
	if err != nil {
		return err
	}

	media := resp.Data.Hashtag.EdgeHashtagToMedia
	s.buf = s.buf[:0]
	s.pos = 0
	for _, edge := range media.Edges {
		s.buf = append(s.buf, nodeToPost(&edge.Node))
	}
	s.hasMore = media.PageInfo.HasNextPage
	s.endCursor = media.PageInfo.EndCursor

	// An empty page with no continuation ends the stream on the
	// next call; an empty page with a cursor keeps paginating
	return nil
}

// nodeToPost converts a wire node to the domain post record
func nodeToPost(node *Node) models.Post {
	var caption string
	if len(node.Caption.Edges) > 0 {
		caption = node.Caption.Edges[0].Node.Text
	}

	return models.Post{
		Shortcode:     node.Shortcode,
		Caption:       caption,
		TakenAt:       time.Unix(node.TakenAtTimestamp, 0),
		Likes:         node.EdgeLikedBy.Count,
		Comments:      node.EdgeMediaComment.Count,
		OwnerUsername: node.Owner.Username,
		Typename:      node.Typename,
		DisplayURL:    node.DisplayURL,
		VideoURL:      node.VideoURL,
	}
}

// validateTagResponse rejects pages that signal a lost session
func validateTagResponse(resp *TagResponse) error {
	if resp.RequiresToLogin {
		return errors.New(errors.TypeAuthentication, "tag page requires login")
	}
	return nil
}
