package scanner

// Stats holds the per-run filter funnel and optimization counters.
// Mutated only by the scanner; the design is strictly sequential, so
// no locking is needed.
type Stats struct {
	TotalScanned          int
	PassedAge             int
	PassedEngagementFloor int
	PassedFollower        int
	PassedER              int
	APICallsSaved         int
	AgeLimitBreaks        int
}

// ViralCount returns the number of accepted posts; by construction it
// equals the ER-filter pass count.
func (s *Stats) ViralCount() int {
	return s.PassedER
}

// EfficiencyPercent returns the share of scanned posts whose profile
// fetch was skipped by the engagement floor
func (s *Stats) EfficiencyPercent() float64 {
	if s.TotalScanned == 0 {
		return 0
	}
	return float64(s.APICallsSaved) / float64(s.TotalScanned) * 100
}
