package domain

// MergeState is the canonical classification of a pull request's readiness.
type MergeState string

const (
	// StateClean means the PR is mergeable right now.
	StateClean MergeState = "clean"
	// StateUnstable means checks are pending or flaky; worth retrying.
	StateUnstable MergeState = "unstable"
	// StateUnknown means classification failed or the data was ambiguous.
	// Treated as transient.
	StateUnknown MergeState = "unknown"
	// StateDraft means the PR is not eligible yet (author action pending).
	StateDraft MergeState = "draft"
	// StateBlocked means the PR will not become mergeable (conflicts,
	// failed required checks). Terminal.
	StateBlocked MergeState = "blocked"
	// StateClosed means the PR was closed without merging. Terminal.
	StateClosed MergeState = "closed"
	// StateMerged means someone already merged it. Terminal success.
	StateMerged MergeState = "merged"
)

// Transient reports whether the state is worth polling again.
func (s MergeState) Transient() bool {
	switch s {
	case StateUnstable, StateUnknown, StateDraft:
		return true
	}
	return false
}

// Terminal reports whether the state ends the retry loop.
func (s MergeState) Terminal() bool {
	switch s {
	case StateBlocked, StateClosed, StateMerged:
		return true
	}
	return false
}
