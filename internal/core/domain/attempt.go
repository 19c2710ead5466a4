package domain

import "time"

// AttemptOutcome tags what a single loop iteration decided.
type AttemptOutcome string

const (
	OutcomeRetrying        AttemptOutcome = "retrying"
	OutcomeSucceeded       AttemptOutcome = "succeeded"
	OutcomeFailedTerminal  AttemptOutcome = "failed_terminal"
	OutcomeFailedExhausted AttemptOutcome = "failed_exhausted"
	OutcomeFailedTimeout   AttemptOutcome = "failed_timeout"
	OutcomeCancelled       AttemptOutcome = "cancelled"
)

// FailureReason explains why an attempt run ended without a merge.
type FailureReason string

const (
	ReasonNone             FailureReason = ""
	ReasonTerminalState    FailureReason = "terminal_state"
	ReasonRetriesExhausted FailureReason = "retries_exhausted"
	ReasonTimeoutExceeded  FailureReason = "timeout_exceeded"
	ReasonCancelled        FailureReason = "cancelled"
)

// AttemptRecord is one iteration of the retry loop for a pull request.
// Immutable once appended to history.
type AttemptRecord struct {
	ID            string         `json:"id"`
	PullRequestID PullRequestID  `json:"pull_request_id"`
	AttemptNumber int            `json:"attempt_number"` // 1-based
	Timestamp     time.Time      `json:"timestamp"`
	ObservedState MergeState     `json:"observed_state"`
	Error         string         `json:"error,omitempty"`
	DelayApplied  time.Duration  `json:"delay_applied,omitempty"`
	Outcome       AttemptOutcome `json:"outcome"`
}

// AttemptResult is the final summary handed back to the caller.
type AttemptResult struct {
	PullRequestID PullRequestID   `json:"pull_request_id"`
	Success       bool            `json:"success"`
	Attempts      int             `json:"attempts"`
	FinalState    MergeState      `json:"final_state"`
	Reason        FailureReason   `json:"reason,omitempty"`
	History       []AttemptRecord `json:"history"`
}
