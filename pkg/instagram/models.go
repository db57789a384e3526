package instagram

// TagResponse is the top-level response for a hashtag media query
type TagResponse struct {
	RequiresToLogin bool    `json:"requires_to_login"`
	Data            TagData `json:"data"`
	Status          string  `json:"status"`
}

// TagData wraps the hashtag information in the response
type TagData struct {
	Hashtag Hashtag `json:"hashtag"`
}

// Hashtag represents a hashtag and its media connection
type Hashtag struct {
	Name               string             `json:"name"`
	EdgeHashtagToMedia EdgeHashtagToMedia `json:"edge_hashtag_to_media"`
}

// EdgeHashtagToMedia contains the hashtag's media page
type EdgeHashtagToMedia struct {
	Count    int      `json:"count"`
	PageInfo PageInfo `json:"page_info"`
	Edges    []Edge   `json:"edges"`
}

// PageInfo contains pagination information
type PageInfo struct {
	HasNextPage bool   `json:"has_next_page"`
	EndCursor   string `json:"end_cursor"`
}

// Edge wraps a single media node
type Edge struct {
	Node Node `json:"node"`
}

// Node represents a single media item in a hashtag page
type Node struct {
	ID               string       `json:"id"`
	Typename         string       `json:"__typename"`
	Shortcode        string       `json:"shortcode"`
	DisplayURL       string       `json:"display_url"`
	VideoURL         string       `json:"video_url"`
	IsVideo          bool         `json:"is_video"`
	TakenAtTimestamp int64        `json:"taken_at_timestamp"`
	EdgeLikedBy      Count        `json:"edge_liked_by"`
	EdgeMediaComment Count        `json:"edge_media_to_comment"`
	Caption          CaptionEdges `json:"edge_media_to_caption"`
	Owner            Owner        `json:"owner"`
}

// Count wraps a bare count field
type Count struct {
	Count int `json:"count"`
}

// CaptionEdges wraps the caption connection
type CaptionEdges struct {
	Edges []CaptionEdge `json:"edges"`
}

// CaptionEdge wraps a single caption node
type CaptionEdge struct {
	Node CaptionNode `json:"node"`
}

// CaptionNode holds the caption text
type CaptionNode struct {
	Text string `json:"text"`
}

// Owner identifies the posting account
type Owner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ProfileResponse is the top-level response for a profile query
type ProfileResponse struct {
	RequiresToLogin bool        `json:"requires_to_login"`
	Data            ProfileData `json:"data"`
	Status          string      `json:"status"`
}

// ProfileData wraps the user information in the response
type ProfileData struct {
	User ProfileUser `json:"user"`
}

// ProfileUser represents an Instagram user profile
type ProfileUser struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	EdgeFollowedBy Count  `json:"edge_followed_by"`
}
