package health

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vietddude/mergewatch/internal/infra/storage"
	"github.com/vietddude/mergewatch/internal/metrics"
	"github.com/vietddude/mergewatch/internal/retry"
)

// StatisticsSource exposes engine counters to the monitor.
type StatisticsSource interface {
	GetStatistics() retry.Statistics
}

// Monitor aggregates health status from the engine and dead letter queue.
type Monitor struct {
	stats      StatisticsSource
	deadLetter storage.DeadLetterRepository // optional
	interval   time.Duration

	mu         sync.RWMutex
	lastReport Report
}

// NewMonitor creates a new health monitor.
func NewMonitor(stats StatisticsSource, deadLetter storage.DeadLetterRepository) *Monitor {
	return &Monitor{
		stats:      stats,
		deadLetter: deadLetter,
		interval:   30 * time.Second,
	}
}

// Start runs the periodic health check loop.
func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.CheckHealth(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CheckHealth(ctx)
		}
	}
}

// CheckHealth recomputes and caches the health report.
func (m *Monitor) CheckHealth(ctx context.Context) Report {
	stats := m.stats.GetStatistics()

	deadLetters := 0
	if m.deadLetter != nil {
		count, err := m.deadLetter.Count(ctx)
		if err != nil {
			slog.Warn("Failed to count dead letters", "error", err)
		} else {
			deadLetters = count
			metrics.DeadLetterDepth.Set(float64(count))
		}
	}

	report := Report{
		Status:            statusFor(stats, deadLetters),
		TotalPullRequests: stats.TotalPullRequests,
		Successful:        stats.Successful,
		SuccessRate:       stats.SuccessRate(),
		AverageAttempts:   stats.AverageAttempts(),
		DeadLetters:       deadLetters,
	}

	m.mu.Lock()
	m.lastReport = report
	m.mu.Unlock()

	return report
}

// LastReport returns the most recently computed report.
func (m *Monitor) LastReport() Report {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastReport
}

func statusFor(stats retry.Statistics, deadLetters int) SystemStatus {
	// Too little data to judge.
	if stats.TotalPullRequests < 3 {
		if deadLetters > 0 {
			return StatusDegraded
		}
		return StatusHealthy
	}

	rate := stats.SuccessRate()
	switch {
	case rate == 0:
		return StatusCritical
	case rate < 0.5 || deadLetters > 0:
		return StatusDegraded
	default:
		return StatusHealthy
	}
}
