package pipeline

import (
	"time"

	"trendscout/pkg/config"
	"trendscout/pkg/models"
)

// RejectReason identifies which filter a candidate post failed
type RejectReason string

const (
	ReasonNone                 RejectReason = ""
	ReasonTooOld               RejectReason = "too_old"
	ReasonBelowEngagementFloor RejectReason = "below_engagement_floor"
	ReasonFollowerRange        RejectReason = "follower_range_violation"
	ReasonZeroFollowers        RejectReason = "zero_followers"
	ReasonBelowERThreshold     RejectReason = "below_er_threshold"
)

// PreDecision is the outcome of the local, network-free first stage
type PreDecision struct {
	Continue        bool
	Reason          RejectReason
	PostAgeDays     int
	TotalEngagement int
}

// PostDecision is the outcome of the profile-dependent second stage
type PostDecision struct {
	Viral          bool
	Reason         RejectReason
	EngagementRate float64
}

// Pipeline holds the threshold configuration for the two filter stages.
// Both stages are pure decision logic; the orchestrator owns all I/O
// and statistics.
type Pipeline struct {
	erThreshold    float64
	minFollowers   int
	maxFollowers   int
	maxPostAgeDays int

	// engagementFloor is the minimum absolute engagement required to
	// clear the ER threshold at the minimum allowed follower count.
	// Anything below it cannot pass stage two for any follower count
	// inside the configured range, so the profile fetch is skipped.
	engagementFloor float64
}

// New creates a pipeline from the scan thresholds
func New(cfg *config.ScanConfig) *Pipeline {
	return &Pipeline{
		erThreshold:     cfg.ERThreshold,
		minFollowers:    cfg.MinFollowers,
		maxFollowers:    cfg.MaxFollowers,
		maxPostAgeDays:  cfg.MaxPostAgeDays,
		engagementFloor: float64(cfg.MinFollowers) * cfg.ERThreshold,
	}
}

// EngagementFloor returns the stage-one engagement floor
func (p *Pipeline) EngagementFloor() float64 {
	return p.engagementFloor
}

// PreFilter is stage one: age and engagement floor, no network.
//
// A TooOld rejection is stream-terminating: tag streams are
// reverse-chronological, so every later post in the same stream is
// older still and the caller must stop consuming it.
func (p *Pipeline) PreFilter(post *models.Post, now time.Time) PreDecision {
	age := int(now.Sub(post.TakenAt).Hours() / 24)
	if age > p.maxPostAgeDays {
		return PreDecision{Reason: ReasonTooOld, PostAgeDays: age}
	}

	totalEngagement := post.TotalEngagement()
	if float64(totalEngagement) < p.engagementFloor {
		return PreDecision{
			Reason:          ReasonBelowEngagementFloor,
			PostAgeDays:     age,
			TotalEngagement: totalEngagement,
		}
	}

	return PreDecision{
		Continue:        true,
		PostAgeDays:     age,
		TotalEngagement: totalEngagement,
	}
}

// PostFilter is stage two: follower range and engagement rate,
// using the lazily fetched creator profile.
func (p *Pipeline) PostFilter(profile *models.Profile, totalEngagement int) PostDecision {
	if profile.Followers < p.minFollowers || profile.Followers > p.maxFollowers {
		return PostDecision{Reason: ReasonFollowerRange}
	}

	// Guards the division; unreachable when minFollowers > 0 but the
	// range check above does not promise that
	if profile.Followers == 0 {
		return PostDecision{Reason: ReasonZeroFollowers}
	}

	rate := float64(totalEngagement) / float64(profile.Followers)
	if rate < p.erThreshold {
		return PostDecision{Reason: ReasonBelowERThreshold, EngagementRate: rate}
	}

	return PostDecision{Viral: true, EngagementRate: rate}
}
