package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/vietddude/mergewatch/internal/control"
	"github.com/vietddude/mergewatch/internal/core/config"
	"github.com/vietddude/mergewatch/internal/core/domain"
	"github.com/vietddude/mergewatch/internal/retry"
)

// stuckClient never reports a mergeable PR, so loops run until
// cancelled or exhausted.
type stuckClient struct{}

func (c *stuckClient) Fetch(ctx context.Context, id domain.PullRequestID) (*domain.RawPullRequest, error) {
	open := "open"
	unstable := "unstable"
	return &domain.RawPullRequest{State: &open, MergeableState: &unstable}, nil
}

func (c *stuckClient) Act(ctx context.Context, id domain.PullRequestID) (*domain.MergeReceipt, error) {
	return &domain.MergeReceipt{}, nil
}

func TestGracefulShutdown(t *testing.T) {
	slow := retry.DefaultConfig
	slow.MaxRetries = 1000
	slow.BaseDelay = 200 * time.Millisecond
	slow.MaxDelay = 200 * time.Millisecond
	slow.Strategy = retry.StrategyFixed
	slow.Timeout = time.Hour

	cfg := control.Config{
		Port: 0,
		Targets: []config.TargetConfig{
			{Owner: "octo", Repo: "repo", Number: 1},
		},
		Policies: config.PoliciesConfig{Default: &slow},
		Client:   &stuckClient{},
	}

	watchdog, err := control.NewWatchdog(cfg)
	if err != nil {
		t.Fatalf("Failed to create watchdog: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	if err := watchdog.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Let the loop make some progress
	time.Sleep(300 * time.Millisecond)

	// Trigger shutdown; the sleeping loop must abandon its backoff
	cancel()

	done := make(chan struct{})
	go func() {
		watchdog.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Error("target loop did not stop within 2s of cancellation")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()

	if err := watchdog.Stop(stopCtx); err != nil {
		t.Errorf("Stop failed: %v", err)
	}

	// The cancelled loop must have recorded its outcome.
	recs, err := watchdog.Engine().GetHistory(context.Background(), "octo/repo#1")
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(recs) == 0 {
		t.Fatal("no history recorded")
	}
	last := recs[len(recs)-1]
	if last.Outcome != domain.OutcomeCancelled {
		t.Errorf("last outcome = %v, want cancelled", last.Outcome)
	}
}
