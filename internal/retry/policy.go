package retry

import (
	"fmt"
	"time"

	"github.com/vietddude/mergewatch/internal/core/domain"
)

// Strategy selects how the delay grows between attempts.
type Strategy string

const (
	StrategyFixed       Strategy = "fixed"
	StrategyLinear      Strategy = "linear"
	StrategyExponential Strategy = "exponential"
)

// Config defines retry behavior for one merge state.
type Config struct {
	MaxRetries    int           `yaml:"max_retries"`
	BaseDelay     time.Duration `yaml:"base_delay"`
	MaxDelay      time.Duration `yaml:"max_delay"`
	BackoffFactor float64       `yaml:"backoff_factor"`
	Strategy      Strategy      `yaml:"strategy"`
	Jitter        bool          `yaml:"jitter"`
	Timeout       time.Duration `yaml:"timeout"`
}

// ConfigError reports an invalid Config. It is the only error Attempt
// returns synchronously.
type ConfigError struct {
	Detail string
}

func (e *ConfigError) Error() string {
	return "invalid retry config: " + e.Detail
}

// Validate checks the Config invariants. Called once at the entry of
// Attempt, never inside the loop.
func (c Config) Validate() error {
	if c.MaxRetries < 0 {
		return &ConfigError{Detail: fmt.Sprintf("max_retries must be >= 0, got %d", c.MaxRetries)}
	}
	if c.BaseDelay <= 0 {
		return &ConfigError{Detail: fmt.Sprintf("base_delay must be > 0, got %s", c.BaseDelay)}
	}
	if c.MaxDelay < c.BaseDelay {
		return &ConfigError{Detail: fmt.Sprintf("max_delay %s must be >= base_delay %s", c.MaxDelay, c.BaseDelay)}
	}
	if c.BackoffFactor < 1.0 {
		return &ConfigError{Detail: fmt.Sprintf("backoff_factor must be >= 1.0, got %g", c.BackoffFactor)}
	}
	switch c.Strategy {
	case StrategyFixed, StrategyLinear, StrategyExponential:
	default:
		return &ConfigError{Detail: fmt.Sprintf("unknown strategy %q", c.Strategy)}
	}
	if c.Timeout <= 0 {
		return &ConfigError{Detail: fmt.Sprintf("timeout must be > 0, got %s", c.Timeout)}
	}
	return nil
}

// DefaultConfig provides sensible defaults for states without an
// explicit policy.
var DefaultConfig = Config{
	MaxRetries:    5,
	BaseDelay:     2 * time.Second,
	MaxDelay:      60 * time.Second,
	BackoffFactor: 2.0,
	Strategy:      StrategyExponential,
	Jitter:        false,
	Timeout:       10 * time.Minute,
}

// PolicyRegistry maps merge states to retry configs. Immutable after
// construction; safe for concurrent reads.
type PolicyRegistry struct {
	policies map[domain.MergeState]Config
	fallback Config
}

// NewPolicyRegistry builds a registry with the given fallback config
// for states not present in policies.
func NewPolicyRegistry(fallback Config, policies map[domain.MergeState]Config) (*PolicyRegistry, error) {
	if err := fallback.Validate(); err != nil {
		return nil, err
	}
	m := make(map[domain.MergeState]Config, len(policies))
	for state, cfg := range policies {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("policy for state %q: %w", state, err)
		}
		m[state] = cfg
	}
	return &PolicyRegistry{policies: m, fallback: fallback}, nil
}

// DefaultPolicies returns the registry used when no configuration is
// supplied: unstable PRs poll quickly, drafts back off slowly.
func DefaultPolicies() *PolicyRegistry {
	reg, err := NewPolicyRegistry(DefaultConfig, map[domain.MergeState]Config{
		domain.StateUnstable: {
			MaxRetries:    10,
			BaseDelay:     5 * time.Second,
			MaxDelay:      60 * time.Second,
			BackoffFactor: 1.5,
			Strategy:      StrategyExponential,
			Jitter:        true,
			Timeout:       15 * time.Minute,
		},
		domain.StateDraft: {
			MaxRetries:    5,
			BaseDelay:     1 * time.Minute,
			MaxDelay:      10 * time.Minute,
			BackoffFactor: 2.0,
			Strategy:      StrategyExponential,
			Jitter:        true,
			Timeout:       1 * time.Hour,
		},
		domain.StateUnknown: {
			MaxRetries:    3,
			BaseDelay:     2 * time.Second,
			MaxDelay:      30 * time.Second,
			BackoffFactor: 2.0,
			Strategy:      StrategyExponential,
			Jitter:        false,
			Timeout:       5 * time.Minute,
		},
	})
	if err != nil {
		// Defaults are compile-time constants; a failure here is a bug.
		panic(err)
	}
	return reg
}

// Lookup returns the config for a state, falling back to the default.
func (r *PolicyRegistry) Lookup(state domain.MergeState) Config {
	if cfg, ok := r.policies[state]; ok {
		return cfg
	}
	return r.fallback
}

// WithOverrides returns a derived registry where the supplied entries
// replace the registry's own. The receiver is not mutated; a nil or
// empty override map returns the receiver unchanged.
func (r *PolicyRegistry) WithOverrides(overrides map[domain.MergeState]Config) (*PolicyRegistry, error) {
	if len(overrides) == 0 {
		return r, nil
	}
	merged := make(map[domain.MergeState]Config, len(r.policies)+len(overrides))
	for state, cfg := range r.policies {
		merged[state] = cfg
	}
	for state, cfg := range overrides {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("override for state %q: %w", state, err)
		}
		merged[state] = cfg
	}
	return &PolicyRegistry{policies: merged, fallback: r.fallback}, nil
}
