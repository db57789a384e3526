package scoring

import (
	"math"

	"trendscout/pkg/instagram"
	"trendscout/pkg/models"
)

const previewLength = 50

// BuildRecord assembles the output record for an accepted post.
// Identical inputs always produce an identical record.
func BuildRecord(post *models.Post, profile *models.Profile, engagementRate float64) models.TrendRecord {
	mediaType := ClassifyMedia(post.Typename)

	// Prefer the video-specific URL for videos, fall back to the display URL
	mediaURL := post.DisplayURL
	if mediaType == MediaVideo && post.VideoURL != "" {
		mediaURL = post.VideoURL
	}

	return models.TrendRecord{
		TrendID: post.Shortcode,
		Analysis: models.Analysis{
			ViralityScore:  Score(engagementRate, profile.Followers, post.Likes, post.Comments),
			Type:           string(mediaType),
			EngagementRate: round2(engagementRate * 100),
			PostedDate:     post.TakenAt.Local().Format("2006-01-02"),
		},
		Content: models.Content{
			HookPreview: hookPreview(post.Caption),
			FullCaption: post.Caption,
			Tags:        ExtractTags(post.Caption),
		},
		Resource: mediaURL,
		PostURL:  instagram.GetPostURL(post.Shortcode),
		Creator: models.Creator{
			Username:  profile.Username,
			Followers: profile.Followers,
		},
		Metrics: models.Metrics{
			Likes:    post.Likes,
			Comments: post.Comments,
		},
	}
}

// hookPreview truncates the caption to its first 50 characters.
// Truncation counts characters, not bytes, so multi-byte captions survive.
func hookPreview(caption string) string {
	runes := []rune(caption)
	if len(runes) <= previewLength {
		return caption
	}
	return string(runes[:previewLength]) + "..."
}

// ValidateRecord is a structural check on an assembled record: identifier,
// scoring block, and resource URL must be present. An empty caption is
// allowed. Value ranges are not re-validated here.
func ValidateRecord(record *models.TrendRecord) bool {
	if record.TrendID == "" {
		return false
	}
	if record.Analysis.ViralityScore <= 0 || math.IsNaN(record.Analysis.ViralityScore) {
		return false
	}
	return record.Resource != ""
}
