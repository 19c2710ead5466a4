package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// PullRequestID identifies a pull request target as "owner/repo#number".
type PullRequestID string

// ParsePullRequestID splits an ID into its owner, repo and number parts.
func ParsePullRequestID(id PullRequestID) (owner, repo string, number int, err error) {
	s := string(id)
	hash := strings.LastIndex(s, "#")
	if hash < 0 {
		return "", "", 0, fmt.Errorf("invalid pull request id %q: missing #number", s)
	}

	number, err = strconv.Atoi(s[hash+1:])
	if err != nil || number <= 0 {
		return "", "", 0, fmt.Errorf("invalid pull request id %q: bad number", s)
	}

	parts := strings.SplitN(s[:hash], "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", 0, fmt.Errorf("invalid pull request id %q: expected owner/repo", s)
	}

	return parts[0], parts[1], number, nil
}

// NewPullRequestID builds an ID from its parts.
func NewPullRequestID(owner, repo string, number int) PullRequestID {
	return PullRequestID(fmt.Sprintf("%s/%s#%d", owner, repo, number))
}

// RawPullRequest is the loosely-typed readiness snapshot returned by a
// polling client. Every field is optional and untrusted; the classifier
// owns turning this into a MergeState.
type RawPullRequest struct {
	State          *string `json:"state"`
	Mergeable      *bool   `json:"mergeable"`
	MergeableState *string `json:"mergeable_state"`
	Draft          *bool   `json:"draft"`
	Merged         *bool   `json:"merged"`
}

// MergeReceipt is the result of a merge call.
type MergeReceipt struct {
	SHA     string `json:"sha"`
	Merged  bool   `json:"merged"`
	Message string `json:"message"`
}
