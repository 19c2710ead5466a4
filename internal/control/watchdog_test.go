package control

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vietddude/mergewatch/internal/core/config"
	"github.com/vietddude/mergewatch/internal/core/domain"
	"github.com/vietddude/mergewatch/internal/retry"
)

// cleanClient reports every PR as immediately mergeable.
type cleanClient struct {
	merges atomic.Int64
}

func (c *cleanClient) Fetch(ctx context.Context, id domain.PullRequestID) (*domain.RawPullRequest, error) {
	open := "open"
	clean := "clean"
	mergeable := true
	return &domain.RawPullRequest{State: &open, Mergeable: &mergeable, MergeableState: &clean}, nil
}

func (c *cleanClient) Act(ctx context.Context, id domain.PullRequestID) (*domain.MergeReceipt, error) {
	c.merges.Add(1)
	return &domain.MergeReceipt{SHA: "abc123", Merged: true}, nil
}

func TestWatchdog_Lifecycle(t *testing.T) {
	client := &cleanClient{}
	cfg := Config{
		Port: 0, // Random port
		Targets: []config.TargetConfig{
			{Owner: "octo", Repo: "repo", Number: 1},
			{Owner: "octo", Repo: "repo", Number: 2},
		},
		Client: client,
	}

	w, err := NewWatchdog(cfg)
	if err != nil {
		t.Fatalf("NewWatchdog failed: %v", err)
	}
	if w == nil {
		t.Fatal("Watchdog is nil")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Both targets are clean; their loops finish after one merge each.
	done := make(chan struct{})
	go func() {
		w.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("target loops did not finish")
	}

	if got := client.merges.Load(); got != 2 {
		t.Errorf("merges = %d, want 2", got)
	}

	stats := w.Engine().GetStatistics()
	if stats.TotalPullRequests != 2 || stats.Successful != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	if err := w.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}

func TestWatchdog_InvalidPolicyRejected(t *testing.T) {
	bad := retry.DefaultConfig
	bad.BaseDelay = 0

	cfg := Config{
		Port:     0,
		Policies: config.PoliciesConfig{Default: &bad},
		Client:   &cleanClient{},
	}

	if _, err := NewWatchdog(cfg); err == nil {
		t.Error("expected error for invalid default policy")
	}
}
