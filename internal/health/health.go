// Package health provides system health monitoring and status reporting.
package health

// SystemStatus represents the overall health state of the system.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
)

// Report contains the full watchdog health report.
type Report struct {
	Status            SystemStatus `json:"status"`
	TotalPullRequests int64        `json:"total_pull_requests"`
	Successful        int64        `json:"successful"`
	SuccessRate       float64      `json:"success_rate"`
	AverageAttempts   float64      `json:"average_attempts"`
	DeadLetters       int          `json:"dead_letters"`
}
