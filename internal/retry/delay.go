package retry

import (
	"math"
	"math/rand"
	"time"
)

// ComputeDelay returns the wait duration before the next poll.
// attempt is 0-based. The result is always > 0 and never exceeds
// cfg.MaxDelay, jitter included.
func ComputeDelay(attempt int, cfg Config) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	var delay float64
	switch cfg.Strategy {
	case StrategyLinear:
		delay = float64(cfg.BaseDelay) * float64(attempt+1)
	case StrategyExponential:
		delay = float64(cfg.BaseDelay) * math.Pow(cfg.BackoffFactor, float64(attempt))
	default: // StrategyFixed
		delay = float64(cfg.BaseDelay)
	}

	if delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}

	if cfg.Jitter {
		// Uniform in [0.5, 1.0] of the computed value, so the cap
		// invariant still holds and the delay stays positive.
		delay *= 0.5 + rand.Float64()*0.5
	}

	if delay < 1 {
		delay = 1
	}
	return time.Duration(delay)
}
