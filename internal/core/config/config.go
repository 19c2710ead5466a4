package config

import (
	"time"

	"github.com/vietddude/mergewatch/internal/core/domain"
	redisclient "github.com/vietddude/mergewatch/internal/infra/redis"
	"github.com/vietddude/mergewatch/internal/infra/storage/postgres"
	"github.com/vietddude/mergewatch/internal/retry"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig       `yaml:"server"`
	GitHub   GitHubConfig       `yaml:"github"`
	Targets  []TargetConfig     `yaml:"targets"`
	Policies PoliciesConfig     `yaml:"policies"`
	Redis    redisclient.Config `yaml:"redis"`
	Logging  LoggingConfig      `yaml:"logging"`
	Database postgres.Config    `yaml:"database"`
	History  HistoryConfig      `yaml:"history"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// GitHubConfig holds GitHub API settings.
type GitHubConfig struct {
	BaseURL        string        `yaml:"base_url"`
	Token          string        `yaml:"token"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// TargetConfig identifies one pull request to watch.
type TargetConfig struct {
	Owner  string `yaml:"owner"`
	Repo   string `yaml:"repo"`
	Number int    `yaml:"number"`
}

// ID returns the canonical pull request ID for this target.
func (t TargetConfig) ID() domain.PullRequestID {
	return domain.NewPullRequestID(t.Owner, t.Repo, t.Number)
}

// PoliciesConfig holds the per-state retry policies.
type PoliciesConfig struct {
	Default  *retry.Config           `yaml:"default"`
	PerState map[string]retry.Config `yaml:"per_state"`
}

// Registry builds a policy registry from the configured policies,
// falling back to the built-in defaults when nothing is set.
func (p PoliciesConfig) Registry() (*retry.PolicyRegistry, error) {
	if p.Default == nil && len(p.PerState) == 0 {
		return retry.DefaultPolicies(), nil
	}

	fallback := retry.DefaultConfig
	if p.Default != nil {
		fallback = *p.Default
	}

	perState := make(map[domain.MergeState]retry.Config, len(p.PerState))
	for state, cfg := range p.PerState {
		perState[domain.MergeState(state)] = cfg
	}

	return retry.NewPolicyRegistry(fallback, perState)
}

// HistoryConfig controls attempt history retention.
type HistoryConfig struct {
	Retention time.Duration `yaml:"retention"` // 0 = infinite
}
