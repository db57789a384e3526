package scoring

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"trendscout/pkg/models"
)

func samplePost() *models.Post {
	return &models.Post{
		Shortcode:     "Cxy123Abc",
		Caption:       "Minimalist landing page breakdown #webdesign #uiux",
		TakenAt:       time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		Likes:         600,
		Comments:      50,
		OwnerUsername: "studiopixel",
		Typename:      "GraphImage",
		DisplayURL:    "https://cdn.example.com/p/Cxy123Abc.jpg",
	}
}

func TestBuildRecord(t *testing.T) {
	post := samplePost()
	profile := &models.Profile{Username: "studiopixel", Followers: 8000}

	record := BuildRecord(post, profile, 650.0/8000.0)

	if record.TrendID != "Cxy123Abc" {
		t.Errorf("expected trend id Cxy123Abc, got %s", record.TrendID)
	}
	if record.Analysis.ViralityScore != 6.06 {
		t.Errorf("expected virality score 6.06, got %v", record.Analysis.ViralityScore)
	}
	if record.Analysis.Type != "Image" {
		t.Errorf("expected type Image, got %s", record.Analysis.Type)
	}
	if record.Analysis.EngagementRate != 8.13 {
		t.Errorf("expected engagement rate 8.13, got %v", record.Analysis.EngagementRate)
	}
	if record.PostURL != "https://www.instagram.com/p/Cxy123Abc/" {
		t.Errorf("unexpected post url: %s", record.PostURL)
	}
	if record.Resource != post.DisplayURL {
		t.Errorf("expected resource %s, got %s", post.DisplayURL, record.Resource)
	}
	if record.Creator.Username != "studiopixel" || record.Creator.Followers != 8000 {
		t.Errorf("unexpected creator block: %+v", record.Creator)
	}
	if record.Metrics.Likes != 600 || record.Metrics.Comments != 50 {
		t.Errorf("unexpected metrics block: %+v", record.Metrics)
	}
	if !reflect.DeepEqual(record.Content.Tags, []string{"#webdesign", "#uiux"}) {
		t.Errorf("unexpected tags: %v", record.Content.Tags)
	}
	if record.Content.FullCaption != post.Caption {
		t.Errorf("full caption not preserved")
	}
}

func TestBuildRecordDeterministic(t *testing.T) {
	post := samplePost()
	profile := &models.Profile{Username: "studiopixel", Followers: 8000}

	first := BuildRecord(post, profile, 0.08125)
	second := BuildRecord(post, profile, 0.08125)
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different records")
	}
}

func TestBuildRecordPrefersVideoURL(t *testing.T) {
	post := samplePost()
	post.Typename = "GraphVideo"
	post.VideoURL = "https://cdn.example.com/v/Cxy123Abc.mp4"
	profile := &models.Profile{Username: "studiopixel", Followers: 8000}

	record := BuildRecord(post, profile, 0.05)
	if record.Resource != post.VideoURL {
		t.Errorf("expected video url as resource, got %s", record.Resource)
	}

	// Without a video URL the display URL is the fallback even for videos
	post.VideoURL = ""
	record = BuildRecord(post, profile, 0.05)
	if record.Resource != post.DisplayURL {
		t.Errorf("expected display url fallback, got %s", record.Resource)
	}
}

func TestHookPreview(t *testing.T) {
	tests := []struct {
		name     string
		caption  string
		expected string
	}{
		{
			name:     "short caption unchanged",
			caption:  "short and sweet",
			expected: "short and sweet",
		},
		{
			name:     "exactly fifty characters unchanged",
			caption:  strings.Repeat("a", 50),
			expected: strings.Repeat("a", 50),
		},
		{
			name:     "long caption truncated with ellipsis",
			caption:  strings.Repeat("a", 51),
			expected: strings.Repeat("a", 50) + "...",
		},
		{
			name:     "empty caption",
			caption:  "",
			expected: "",
		},
		{
			name:     "multi-byte characters counted as characters",
			caption:  strings.Repeat("ä", 60),
			expected: strings.Repeat("ä", 50) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hookPreview(tt.caption); got != tt.expected {
				t.Errorf("hookPreview(%q) = %q, want %q", tt.caption, got, tt.expected)
			}
		})
	}
}

func TestValidateRecord(t *testing.T) {
	valid := BuildRecord(samplePost(), &models.Profile{Username: "studiopixel", Followers: 8000}, 0.08)
	if !ValidateRecord(&valid) {
		t.Fatal("expected a freshly built record to validate")
	}

	missingID := valid
	missingID.TrendID = ""
	if ValidateRecord(&missingID) {
		t.Error("record without trend id should not validate")
	}

	zeroScore := valid
	zeroScore.Analysis.ViralityScore = 0
	if ValidateRecord(&zeroScore) {
		t.Error("record with zero score should not validate")
	}

	missingResource := valid
	missingResource.Resource = ""
	if ValidateRecord(&missingResource) {
		t.Error("record without resource should not validate")
	}

	emptyCaption := valid
	emptyCaption.Content = models.Content{}
	if !ValidateRecord(&emptyCaption) {
		t.Error("record with empty caption should still validate")
	}
}
