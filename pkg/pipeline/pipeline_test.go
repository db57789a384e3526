package pipeline

import (
	"testing"
	"time"

	"trendscout/pkg/config"
	"trendscout/pkg/models"
)

func testScanConfig() *config.ScanConfig {
	return &config.ScanConfig{
		Tags:           []string{"webdesign"},
		ERThreshold:    0.03,
		MinFollowers:   1000,
		MaxFollowers:   500000,
		MaxPostAgeDays: 45,
	}
}

func TestEngagementFloor(t *testing.T) {
	p := New(testScanConfig())

	// 1000 followers at 3% requires 30 interactions
	if p.EngagementFloor() != 30.0 {
		t.Errorf("expected floor 30, got %v", p.EngagementFloor())
	}
}

func TestPreFilterAge(t *testing.T) {
	p := New(testScanConfig())
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		ageDays int
		reason  RejectReason
	}{
		{"fresh post passes", 1, ReasonNone},
		{"post at the age limit passes", 45, ReasonNone},
		{"post past the limit is rejected", 46, ReasonTooOld},
		{"much older post is rejected", 400, ReasonTooOld},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := &models.Post{
				TakenAt: now.AddDate(0, 0, -tt.ageDays),
				Likes:   1000,
			}
			dec := p.PreFilter(post, now)

			if dec.Reason != tt.reason {
				t.Errorf("expected reason %q, got %q", tt.reason, dec.Reason)
			}
			if dec.PostAgeDays != tt.ageDays {
				t.Errorf("expected age %d, got %d", tt.ageDays, dec.PostAgeDays)
			}
			if tt.reason == ReasonNone && !dec.Continue {
				t.Error("expected the post to continue")
			}
		})
	}
}

func TestPreFilterEngagementFloor(t *testing.T) {
	p := New(testScanConfig())
	now := time.Now()

	// One interaction below the floor: profile fetch must be skipped
	below := &models.Post{TakenAt: now.AddDate(0, 0, -1), Likes: 20, Comments: 9}
	dec := p.PreFilter(below, now)
	if dec.Continue {
		t.Error("post below the engagement floor should not continue")
	}
	if dec.Reason != ReasonBelowEngagementFloor {
		t.Errorf("expected floor rejection, got %q", dec.Reason)
	}
	if dec.TotalEngagement != 29 {
		t.Errorf("expected total engagement 29, got %d", dec.TotalEngagement)
	}

	// Exactly at the floor continues
	atFloor := &models.Post{TakenAt: now.AddDate(0, 0, -1), Likes: 20, Comments: 10}
	dec = p.PreFilter(atFloor, now)
	if !dec.Continue {
		t.Errorf("post at the engagement floor should continue, got %q", dec.Reason)
	}
}

func TestPreFilterAgeCheckedBeforeFloor(t *testing.T) {
	p := New(testScanConfig())
	now := time.Now()

	// An old post with zero engagement must report TooOld, because that
	// rejection terminates the stream
	post := &models.Post{TakenAt: now.AddDate(0, 0, -100)}
	dec := p.PreFilter(post, now)
	if dec.Reason != ReasonTooOld {
		t.Errorf("expected age rejection to win, got %q", dec.Reason)
	}
}

func TestPostFilterFollowerRange(t *testing.T) {
	p := New(testScanConfig())

	tests := []struct {
		name      string
		followers int
		reason    RejectReason
	}{
		{"below minimum", 999, ReasonFollowerRange},
		{"at minimum", 1000, ReasonBelowERThreshold}, // passes range, fails ER below
		{"at maximum", 500000, ReasonBelowERThreshold},
		{"above maximum", 500001, ReasonFollowerRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := p.PostFilter(&models.Profile{Username: "x", Followers: tt.followers}, 1)
			if dec.Reason != tt.reason {
				t.Errorf("expected %q, got %q", tt.reason, dec.Reason)
			}
		})
	}
}

func TestPostFilterZeroFollowers(t *testing.T) {
	cfg := testScanConfig()
	cfg.MinFollowers = 0
	p := New(cfg)

	dec := p.PostFilter(&models.Profile{Username: "ghost", Followers: 0}, 100)
	if dec.Viral {
		t.Error("zero-follower profile must never be viral")
	}
	if dec.Reason != ReasonZeroFollowers {
		t.Errorf("expected zero-follower rejection, got %q", dec.Reason)
	}
}

func TestPostFilterEngagementRate(t *testing.T) {
	p := New(testScanConfig())
	profile := &models.Profile{Username: "studiopixel", Followers: 10000}

	// 299/10000 = 2.99%, just under the threshold
	dec := p.PostFilter(profile, 299)
	if dec.Viral {
		t.Error("rate below threshold should not be viral")
	}
	if dec.Reason != ReasonBelowERThreshold {
		t.Errorf("expected ER rejection, got %q", dec.Reason)
	}

	// Exactly at the threshold is viral
	dec = p.PostFilter(profile, 300)
	if !dec.Viral {
		t.Error("rate at threshold should be viral")
	}
	if dec.EngagementRate != 0.03 {
		t.Errorf("expected rate 0.03, got %v", dec.EngagementRate)
	}
}
