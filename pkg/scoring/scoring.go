package scoring

import (
	"math"
	"regexp"
)

// MediaType classifies the media kind of a post
type MediaType string

const (
	MediaImage    MediaType = "Image"
	MediaVideo    MediaType = "Video"
	MediaCarousel MediaType = "Carousel"
	MediaUnknown  MediaType = "Unknown"
)

var hashtagPattern = regexp.MustCompile(`#\w+`)

// ExtractTags returns every hashtag token in the caption, in order of
// appearance, duplicates and case preserved. An empty caption yields nil.
func ExtractTags(caption string) []string {
	if caption == "" {
		return nil
	}
	return hashtagPattern.FindAllString(caption, -1)
}

// ClassifyMedia maps the upstream type tag to a MediaType.
// Unrecognized tags map to Unknown, never an error.
func ClassifyMedia(typename string) MediaType {
	switch typename {
	case "GraphSidecar":
		return MediaCarousel
	case "GraphVideo":
		return MediaVideo
	case "GraphImage":
		return MediaImage
	default:
		return MediaUnknown
	}
}

// Score calculates a virality score on a 0-10 scale.
//
// It is a monotonically bounded heuristic, not a statistical model:
// up to 5 points from the engagement rate, up to 3 from absolute
// engagement, and up to 2 from a creator audience sweet spot.
func Score(engagementRate float64, followers, likes, comments int) float64 {
	base := math.Min(engagementRate*100/2, 5.0)

	var engagementBonus float64
	totalEngagement := likes + comments
	switch {
	case totalEngagement > 10000:
		engagementBonus = 3.0
	case totalEngagement > 5000:
		engagementBonus = 2.0
	case totalEngagement > 1000:
		engagementBonus = 1.0
	}

	var followerBonus float64
	switch {
	case followers >= 5000 && followers <= 50000:
		followerBonus = 2.0
	case (followers >= 1000 && followers <= 5000) || (followers >= 50000 && followers <= 100000):
		followerBonus = 1.0
	}

	return round2(math.Min(base+engagementBonus+followerBonus, 10.0))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
