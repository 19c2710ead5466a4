package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vietddude/mergewatch/internal/core/domain"
	"github.com/vietddude/mergewatch/internal/infra/storage"
	"github.com/vietddude/mergewatch/internal/metrics"
)

// PollingClient fetches pull request state and performs the merge.
// The production implementation wraps the GitHub REST API; tests
// supply their own.
type PollingClient interface {
	// Fetch returns the raw readiness snapshot. The result is
	// untrusted and may be partial.
	Fetch(ctx context.Context, id domain.PullRequestID) (*domain.RawPullRequest, error)

	// Act performs the merge once the PR is believed ready.
	Act(ctx context.Context, id domain.PullRequestID) (*domain.MergeReceipt, error)
}

// Engine runs the poll -> classify -> decide loop for pull requests.
// Safe for concurrent Attempt calls on distinct pull requests; history
// and statistics are the only shared state and are synchronized.
type Engine struct {
	client   PollingClient
	policies *PolicyRegistry
	history  storage.AttemptRepository
	stats    *StatsTracker
	dlq      storage.DeadLetterRepository // optional
	log      *slog.Logger
}

// NewEngine creates an engine with the given collaborators.
func NewEngine(
	client PollingClient,
	policies *PolicyRegistry,
	history storage.AttemptRepository,
	stats *StatsTracker,
) *Engine {
	if policies == nil {
		policies = DefaultPolicies()
	}
	if stats == nil {
		stats = NewStatsTracker()
	}
	return &Engine{
		client:   client,
		policies: policies,
		history:  history,
		stats:    stats,
		log:      slog.Default(),
	}
}

// AttachDeadLetter enables dead-lettering of terminally failed PRs.
func (e *Engine) AttachDeadLetter(dlq storage.DeadLetterRepository) {
	e.dlq = dlq
}

// Attempt polls prID until it merges, fails terminally, exhausts its
// retry budget, times out or is cancelled. Overrides replace registry
// policies for this call only. The returned error is non-nil only for
// an invalid config; every runtime failure is reported through the
// result's Reason field.
func (e *Engine) Attempt(
	ctx context.Context,
	prID domain.PullRequestID,
	overrides map[domain.MergeState]Config,
) (*domain.AttemptResult, error) {
	policies, err := e.policies.WithOverrides(overrides)
	if err != nil {
		return nil, err
	}

	run := &attemptRun{
		engine:   e,
		policies: policies,
		prID:     prID,
		started:  time.Now(),
	}
	return run.execute(ctx), nil
}

// GetHistory returns the ordered attempt log for one pull request.
func (e *Engine) GetHistory(ctx context.Context, prID domain.PullRequestID) ([]*domain.AttemptRecord, error) {
	return e.history.GetByPullRequest(ctx, prID)
}

// GetStatistics returns a consistent snapshot of engine counters.
func (e *Engine) GetStatistics() Statistics {
	return e.stats.Snapshot()
}

// ResetStatistics zeroes the engine counters.
func (e *Engine) ResetStatistics() {
	e.stats.Reset()
}

// attemptRun holds the per-PR loop state. Strictly sequential within
// one pull request.
type attemptRun struct {
	engine   *Engine
	policies *PolicyRegistry
	prID     domain.PullRequestID
	started  time.Time

	attempt   int // 0-based poll index
	records   []domain.AttemptRecord
	lastError string
}

func (r *attemptRun) execute(ctx context.Context) *domain.AttemptResult {
	e := r.engine

	for {
		// Honor cancellation before polling.
		select {
		case <-ctx.Done():
			return r.finish(ctx, r.record(domain.StateUnknown, ctx.Err().Error(), 0, domain.OutcomeCancelled))
		default:
		}

		raw, fetchErr := e.client.Fetch(ctx, r.prID)
		if fetchErr != nil {
			// Treat the snapshot as absent; the error rides on the record.
			raw = nil
			r.lastError = fetchErr.Error()
		}

		state := Classify(raw)
		metrics.PollsTotal.WithLabelValues(string(state)).Inc()
		cfg := r.policies.Lookup(state)

		errMsg := ""
		if fetchErr != nil {
			errMsg = fetchErr.Error()
		}

		switch state {
		case domain.StateMerged:
			// Someone already merged it; nothing left to do.
			return r.finish(ctx, r.record(state, errMsg, 0, domain.OutcomeSucceeded))

		case domain.StateClean:
			receipt, actErr := e.client.Act(ctx, r.prID)
			if actErr == nil {
				if receipt != nil {
					e.log.Info("Merged pull request", "pr", r.prID, "sha", receipt.SHA)
				}
				return r.finish(ctx, r.record(state, "", 0, domain.OutcomeSucceeded))
			}
			// A failed merge call is transient: re-poll under the
			// unknown-state policy rather than declaring failure.
			r.lastError = actErr.Error()
			errMsg = actErr.Error()
			cfg = r.policies.Lookup(domain.StateUnknown)

		case domain.StateBlocked, domain.StateClosed:
			// Never retried, regardless of remaining budget.
			return r.finish(ctx, r.record(state, errMsg, 0, domain.OutcomeFailedTerminal))
		}

		if r.attempt >= cfg.MaxRetries {
			return r.finish(ctx, r.record(state, errMsg, 0, domain.OutcomeFailedExhausted))
		}

		delay := ComputeDelay(r.attempt, cfg)
		if time.Since(r.started)+delay > cfg.Timeout {
			// The next sleep would blow the deadline; stop without sleeping.
			return r.finish(ctx, r.record(state, errMsg, 0, domain.OutcomeFailedTimeout))
		}

		r.record(state, errMsg, delay, domain.OutcomeRetrying)

		select {
		case <-ctx.Done():
			return r.finish(ctx, r.record(state, ctx.Err().Error(), 0, domain.OutcomeCancelled))
		case <-time.After(delay):
		}
		r.attempt++
	}
}

// record appends one attempt record to the run and to history.
func (r *attemptRun) record(
	state domain.MergeState,
	errMsg string,
	delay time.Duration,
	outcome domain.AttemptOutcome,
) domain.AttemptRecord {
	rec := domain.AttemptRecord{
		ID:            uuid.NewString(),
		PullRequestID: r.prID,
		AttemptNumber: r.attempt + 1,
		Timestamp:     time.Now(),
		ObservedState: state,
		Error:         errMsg,
		DelayApplied:  delay,
		Outcome:       outcome,
	}
	r.records = append(r.records, rec)

	if r.engine.history != nil {
		if err := r.engine.history.Append(context.Background(), &rec); err != nil {
			r.engine.log.Warn("Failed to append attempt history", "pr", r.prID, "error", err)
		}
	}
	return rec
}

// finish builds the result, updates statistics exactly once and
// dead-letters unrecoverable failures.
func (r *attemptRun) finish(ctx context.Context, last domain.AttemptRecord) *domain.AttemptResult {
	e := r.engine

	result := &domain.AttemptResult{
		PullRequestID: r.prID,
		Success:       last.Outcome == domain.OutcomeSucceeded,
		Attempts:      len(r.records),
		FinalState:    last.ObservedState,
		Reason:        reasonFor(last.Outcome),
		History:       r.records,
	}

	e.stats.Record(result.Success, result.Attempts)
	metrics.OutcomesTotal.WithLabelValues(string(last.Outcome)).Inc()
	metrics.AttemptDuration.Observe(time.Since(r.started).Seconds())
	if result.Success {
		metrics.MergesTotal.Inc()
	}

	if e.dlq != nil &&
		(last.Outcome == domain.OutcomeFailedTerminal || last.Outcome == domain.OutcomeFailedExhausted) {
		dl := &domain.DeadLetter{
			ID:            uuid.NewString(),
			PullRequestID: r.prID,
			FinalState:    last.ObservedState,
			Reason:        result.Reason,
			Attempts:      result.Attempts,
			LastError:     r.lastError,
			CreatedAt:     time.Now(),
		}
		if err := e.dlq.Add(context.WithoutCancel(ctx), dl); err != nil {
			e.log.Warn("Failed to dead-letter pull request", "pr", r.prID, "error", err)
		}
	}

	e.log.Info("Attempt finished",
		"pr", r.prID,
		"success", result.Success,
		"attempts", result.Attempts,
		"state", result.FinalState,
		"reason", result.Reason,
	)
	return result
}

func reasonFor(outcome domain.AttemptOutcome) domain.FailureReason {
	switch outcome {
	case domain.OutcomeFailedTerminal:
		return domain.ReasonTerminalState
	case domain.OutcomeFailedExhausted:
		return domain.ReasonRetriesExhausted
	case domain.OutcomeFailedTimeout:
		return domain.ReasonTimeoutExceeded
	case domain.OutcomeCancelled:
		return domain.ReasonCancelled
	}
	return domain.ReasonNone
}
