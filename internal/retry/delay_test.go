package retry

import (
	"testing"
	"time"
)

func baseConfig(strategy Strategy) Config {
	return Config{
		MaxRetries:    5,
		BaseDelay:     100 * time.Millisecond,
		MaxDelay:      1 * time.Second,
		BackoffFactor: 2.0,
		Strategy:      strategy,
		Timeout:       time.Minute,
	}
}

func TestComputeDelay_Fixed(t *testing.T) {
	cfg := baseConfig(StrategyFixed)
	for attempt := 0; attempt < 10; attempt++ {
		if got := ComputeDelay(attempt, cfg); got != cfg.BaseDelay {
			t.Errorf("attempt %d: got %v, want %v", attempt, got, cfg.BaseDelay)
		}
	}
}

func TestComputeDelay_Linear(t *testing.T) {
	cfg := baseConfig(StrategyLinear)
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 300 * time.Millisecond},
		{9, 1 * time.Second},  // capped
		{50, 1 * time.Second}, // stays capped
	}
	for _, tt := range tests {
		if got := ComputeDelay(tt.attempt, cfg); got != tt.want {
			t.Errorf("attempt %d: got %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestComputeDelay_Exponential(t *testing.T) {
	cfg := baseConfig(StrategyExponential)
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{3, 800 * time.Millisecond},
		{4, 1 * time.Second}, // capped
		{20, 1 * time.Second},
	}
	for _, tt := range tests {
		if got := ComputeDelay(tt.attempt, cfg); got != tt.want {
			t.Errorf("attempt %d: got %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestComputeDelay_MonotoneUntilCap(t *testing.T) {
	for _, strategy := range []Strategy{StrategyLinear, StrategyExponential} {
		cfg := baseConfig(strategy)
		prev := time.Duration(0)
		for attempt := 0; attempt < 30; attempt++ {
			got := ComputeDelay(attempt, cfg)
			if got < prev {
				t.Errorf("%s: delay decreased at attempt %d: %v < %v", strategy, attempt, got, prev)
			}
			if got <= 0 || got > cfg.MaxDelay {
				t.Errorf("%s: delay out of bounds at attempt %d: %v", strategy, attempt, got)
			}
			prev = got
		}
	}
}

func TestComputeDelay_JitterBounds(t *testing.T) {
	cfg := baseConfig(StrategyExponential)
	cfg.Jitter = true

	for attempt := 0; attempt < 10; attempt++ {
		unjittered := ComputeDelay(attempt, baseConfig(StrategyExponential))
		for i := 0; i < 100; i++ {
			got := ComputeDelay(attempt, cfg)
			if got <= 0 {
				t.Fatalf("jittered delay not positive: %v", got)
			}
			if got > unjittered {
				t.Errorf("jittered delay %v above computed %v", got, unjittered)
			}
			if got < unjittered/2 {
				t.Errorf("jittered delay %v below half of computed %v", got, unjittered)
			}
			if got > cfg.MaxDelay {
				t.Errorf("jittered delay %v above cap %v", got, cfg.MaxDelay)
			}
		}
	}
}

func TestComputeDelay_NegativeAttempt(t *testing.T) {
	cfg := baseConfig(StrategyExponential)
	if got := ComputeDelay(-1, cfg); got != cfg.BaseDelay {
		t.Errorf("got %v, want %v", got, cfg.BaseDelay)
	}
}
