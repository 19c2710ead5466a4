package domain

import "time"

// DeadLetter represents a pull request that failed for good and needs
// operator attention.
type DeadLetter struct {
	ID            string        `json:"id"`
	PullRequestID PullRequestID `json:"pull_request_id"`
	FinalState    MergeState    `json:"final_state"`
	Reason        FailureReason `json:"reason"`
	Attempts      int           `json:"attempts"`
	LastError     string        `json:"last_error,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}
