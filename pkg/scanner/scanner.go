package scanner

import (
	"context"
	"io"
	"sort"
	"time"

	"trendscout/pkg/config"
	"trendscout/pkg/errors"
	"trendscout/pkg/executor"
	"trendscout/pkg/logger"
	"trendscout/pkg/models"
	"trendscout/pkg/pipeline"
	"trendscout/pkg/scoring"
)

// Scanner drives a full scan: it iterates the configured tags in
// order, applies the filter pipeline per post, accumulates accepted
// records and statistics, and finalizes the run.
//
// Tags and posts are processed strictly sequentially; the only
// blocking points are the executor's pacing pauses and the upstream
// fetches themselves.
type Scanner struct {
	cfg           *config.Config
	source        ContentSource
	authenticator Authenticator
	exec          *executor.Executor
	pipe          *pipeline.Pipeline
	writer        RecordWriter
	reporter      Reporter
	logger        logger.Logger

	records []models.TrendRecord
	stats   Stats
}

// New creates a scanner. The reporter is optional; everything else is
// required.
func New(cfg *config.Config, source ContentSource, auth Authenticator, exec *executor.Executor, writer RecordWriter, log logger.Logger) *Scanner {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Scanner{
		cfg:           cfg,
		source:        source,
		authenticator: auth,
		exec:          exec,
		pipe:          pipeline.New(&cfg.Scan),
		writer:        writer,
		logger:        log,
	}
}

// SetReporter attaches an optional run reporter
func (s *Scanner) SetReporter(r Reporter) {
	s.reporter = r
}

// Records returns the accumulated records in their current order
func (s *Scanner) Records() []models.TrendRecord {
	return s.records
}

// Stats returns a snapshot of the run statistics
func (s *Scanner) Stats() Stats {
	return s.stats
}

// Run executes the full scan. It always attempts to finalize whatever
// has been accumulated, including on interruption; only an
// authentication failure makes the run itself unsuccessful.
func (s *Scanner) Run(ctx context.Context) error {
	if s.authenticator != nil {
		if err := s.authenticator.Authenticate(ctx); err != nil {
			s.logger.WithError(err).Error("authentication failed, aborting run")
			return err
		}
	}

	s.logStart()

	var runErr error
	for _, tag := range s.cfg.Scan.Tags {
		if ctx.Err() != nil {
			runErr = ctx.Err()
			break
		}
		if err := s.scanTag(ctx, tag); err != nil {
			if errors.IsAuthentication(err) {
				s.logger.WithError(err).Error("session lost mid-run, abandoning remaining tags")
				runErr = err
				break
			}
			if ctx.Err() != nil {
				runErr = ctx.Err()
				break
			}
			// Tag-level failures never abort sibling tags
			s.logger.WithError(err).WithField("tag", tag).Warn("tag scan failed, moving on")
		}
	}

	s.Finalize()

	if runErr != nil && ctx.Err() != nil {
		s.logger.Warn("run interrupted, results saved up to this point")
	}
	return runErr
}

// scanTag consumes one tag stream through the two-stage pipeline.
// Errors returned from here are either fatal (authentication,
// cancellation) or tag-level; per-post failures are absorbed.
func (s *Scanner) scanTag(ctx context.Context, tag string) error {
	log := s.logger.WithField("tag", tag)
	log.Info("scanning tag")

	stream, err := s.source.OpenTagStream(ctx, tag)
	if err != nil {
		if errors.IsAuthentication(err) || ctx.Err() != nil {
			return err
		}
		return errors.Wrap(errors.TypeStreamUnavailable, err, "could not open tag stream")
	}

	evaluated := 0
	found := 0
	limit := 0
	if s.cfg.Scan.TestMode || s.cfg.Scan.PerTagLimit > 0 {
		limit = s.cfg.Scan.PerTagLimit
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if limit > 0 && evaluated >= limit {
			log.InfoWithFields("reached per-tag limit", map[string]interface{}{"limit": limit})
			break
		}

		post, err := stream.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.IsAuthentication(err) || ctx.Err() != nil {
				return err
			}
			// The stream is not restartable; give up on this tag only
			return errors.Wrap(errors.TypeStreamUnavailable, err, "tag stream failed mid-scan")
		}

		evaluated++
		s.stats.TotalScanned++

		result := s.evaluatePost(ctx, log, post)
		if result == errAgeLimit {
			log.InfoWithFields("reached age limit for tag, stopping early", map[string]interface{}{
				"max_age_days": s.cfg.Scan.MaxPostAgeDays,
			})
			break
		}
		if result == nil {
			found++
			continue
		}
		if result != errRejected {
			// Fatal: authentication failure or cancellation
			return result
		}
	}

	log.InfoWithFields("tag summary", map[string]interface{}{
		"viral_found": found,
		"evaluated":   evaluated,
	})
	return nil
}

// sentinel results from evaluatePost
var (
	errAgeLimit = errors.New(errors.TypeOther, "age limit reached")
	errRejected = errors.New(errors.TypeOther, "post rejected")
)

// evaluatePost runs one post through both stages. It returns nil when
// the post was accepted, errAgeLimit on the stream-terminating age
// reject, and errRejected (or the fatal error) otherwise.
func (s *Scanner) evaluatePost(ctx context.Context, log logger.Logger, post *models.Post) error {
	// Stage 1: local pre-filter, no network
	pre := s.pipe.PreFilter(post, time.Now())
	if pre.Reason == pipeline.ReasonTooOld {
		s.stats.AgeLimitBreaks++
		return errAgeLimit
	}
	s.stats.PassedAge++

	if pre.Reason == pipeline.ReasonBelowEngagementFloor {
		// Mathematically cannot clear the ER threshold at any allowed
		// follower count, so the profile fetch is skipped entirely
		s.stats.APICallsSaved++
		return errRejected
	}
	s.stats.PassedEngagementFloor++

	// Stage 2: profile-dependent filter behind the executor
	profile, err := s.source.FetchProfile(ctx, post.OwnerUsername)
	if err != nil {
		if errors.IsAuthentication(err) || ctx.Err() != nil {
			return err
		}
		log.WithError(err).WithFields(map[string]interface{}{
			"shortcode": post.Shortcode,
			"owner":     post.OwnerUsername,
		}).Warn("profile unavailable, skipping post")
		return errRejected
	}

	dec := s.pipe.PostFilter(profile, pre.TotalEngagement)
	if dec.Reason == pipeline.ReasonFollowerRange || dec.Reason == pipeline.ReasonZeroFollowers {
		return errRejected
	}
	s.stats.PassedFollower++

	if !dec.Viral {
		log.DebugWithFields("engagement rate below threshold", map[string]interface{}{
			"shortcode":       post.Shortcode,
			"engagement_rate": dec.EngagementRate,
		})
		return errRejected
	}
	s.stats.PassedER++

	record := scoring.BuildRecord(post, profile, dec.EngagementRate)
	if !scoring.ValidateRecord(&record) {
		log.WarnWithFields("dropping structurally invalid record", map[string]interface{}{
			"shortcode": post.Shortcode,
		})
		return errRejected
	}
	s.records = append(s.records, record)

	log.InfoWithFields("viral post found", map[string]interface{}{
		"username":        profile.Username,
		"engagement_rate": record.Analysis.EngagementRate,
		"virality_score":  record.Analysis.ViralityScore,
	})
	return nil
}

// Finalize sorts the accumulated records by virality score descending
// (stable, so equal scores keep insertion order), persists them, and
// reports the run statistics. Safe to call with partial results after
// an interruption.
func (s *Scanner) Finalize() {
	sort.SliceStable(s.records, func(i, j int) bool {
		return s.records[i].Analysis.ViralityScore > s.records[j].Analysis.ViralityScore
	})

	if len(s.records) == 0 {
		s.logger.Warn("no viral posts found matching criteria")
	} else if s.writer != nil {
		if err := s.writer.Save(s.records); err != nil {
			s.logger.WithError(err).Error("failed to save results")
		} else {
			s.logger.InfoWithFields("results saved", map[string]interface{}{
				"records": len(s.records),
			})
		}
	}

	if s.reporter != nil && len(s.records) > 0 {
		if err := s.reporter.Write(s.records); err != nil {
			s.logger.WithError(err).Warn("failed to write run report")
		}
	}

	s.logSummary()
}

// logStart announces the run parameters and the stage-one floor
func (s *Scanner) logStart() {
	s.logger.InfoWithFields("starting trend scan", map[string]interface{}{
		"tags":             s.cfg.Scan.Tags,
		"max_age_days":     s.cfg.Scan.MaxPostAgeDays,
		"min_followers":    s.cfg.Scan.MinFollowers,
		"max_followers":    s.cfg.Scan.MaxFollowers,
		"er_threshold":     s.cfg.Scan.ERThreshold,
		"engagement_floor": s.pipe.EngagementFloor(),
		"test_mode":        s.cfg.Scan.TestMode,
	})
}

// logSummary reports the filter funnel, optimization gains, and
// executor statistics
func (s *Scanner) logSummary() {
	execStats := s.exec.Stats()
	s.logger.InfoWithFields("scan summary", map[string]interface{}{
		"total_scanned":           s.stats.TotalScanned,
		"passed_age_filter":       s.stats.PassedAge,
		"passed_engagement_floor": s.stats.PassedEngagementFloor,
		"passed_follower_filter":  s.stats.PassedFollower,
		"passed_er_filter":        s.stats.PassedER,
		"total_viral":             s.stats.ViralCount(),
		"api_calls_saved":         s.stats.APICallsSaved,
		"age_limit_breaks":        s.stats.AgeLimitBreaks,
		"efficiency_percent":      s.stats.EfficiencyPercent(),
		"total_requests":          execStats.TotalRequests,
		"rate_limits_hit":         execStats.RateLimitHits,
	})
}
