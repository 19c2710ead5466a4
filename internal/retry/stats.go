package retry

import "sync"

// Statistics is a consistent snapshot of engine-wide counters.
type Statistics struct {
	TotalPullRequests int64 `json:"total_pull_requests"`
	Successful        int64 `json:"successful"`
	TotalAttempts     int64 `json:"total_attempts"`
}

// SuccessRate returns successes over completed pull requests.
func (s Statistics) SuccessRate() float64 {
	if s.TotalPullRequests == 0 {
		return 0
	}
	return float64(s.Successful) / float64(s.TotalPullRequests)
}

// AverageAttempts returns total polls over completed pull requests.
func (s Statistics) AverageAttempts() float64 {
	if s.TotalPullRequests == 0 {
		return 0
	}
	return float64(s.TotalAttempts) / float64(s.TotalPullRequests)
}

// StatsTracker accumulates completion counters across concurrent
// attempt loops. Updated exactly once per completed Attempt call.
type StatsTracker struct {
	mu         sync.Mutex
	total      int64
	successful int64
	attempts   int64
}

// NewStatsTracker creates an empty tracker.
func NewStatsTracker() *StatsTracker {
	return &StatsTracker{}
}

// Record registers one completed pull request run.
func (t *StatsTracker) Record(success bool, attempts int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total++
	if success {
		t.successful++
	}
	t.attempts += int64(attempts)
}

// Snapshot returns a consistent copy of the counters.
func (t *StatsTracker) Snapshot() Statistics {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Statistics{
		TotalPullRequests: t.total,
		Successful:        t.successful,
		TotalAttempts:     t.attempts,
	}
}

// Reset zeroes all counters.
func (t *StatsTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total = 0
	t.successful = 0
	t.attempts = 0
}
