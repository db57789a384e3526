package models

import "time"

// Post is a single candidate post from a tag stream.
// It is produced by the content source and read-only afterwards.
type Post struct {
	Shortcode     string
	Caption       string
	TakenAt       time.Time
	Likes         int
	Comments      int
	OwnerUsername string
	Typename      string
	DisplayURL    string
	VideoURL      string
}

// TotalEngagement returns likes plus comments
func (p *Post) TotalEngagement() int {
	return p.Likes + p.Comments
}

// Profile holds the creator data needed by the second filter stage.
// Fetched lazily, only for posts that survive the local pre-filter.
type Profile struct {
	Username  string
	Followers int
}

// TrendRecord is the accepted output unit for one viral post.
// Field names are stable; the JSON snapshot is consumed downstream.
type TrendRecord struct {
	TrendID  string   `json:"trend_id"`
	Analysis Analysis `json:"analysis"`
	Content  Content  `json:"content"`
	Resource string   `json:"resource"`
	PostURL  string   `json:"post_url"`
	Creator  Creator  `json:"creator"`
	Metrics  Metrics  `json:"metrics"`
}

// Analysis is the scoring block of a trend record
type Analysis struct {
	ViralityScore  float64 `json:"virality_score"`
	Type           string  `json:"type"`
	EngagementRate float64 `json:"engagement_rate"`
	PostedDate     string  `json:"posted_date"`
}

// Content is the content block of a trend record
type Content struct {
	HookPreview string   `json:"hook_preview"`
	FullCaption string   `json:"full_caption"`
	Tags        []string `json:"tags"`
}

// Creator is the creator block of a trend record
type Creator struct {
	Username  string `json:"username"`
	Followers int    `json:"followers"`
}

// Metrics is the raw engagement block of a trend record
type Metrics struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
}
