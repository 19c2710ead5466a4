package retry

import (
	"strings"

	"github.com/vietddude/mergewatch/internal/core/domain"
)

// Classify maps a raw pull request snapshot to a canonical MergeState.
// Total and panic-free: nil input, missing fields or unrecognized
// values all resolve to StateUnknown.
func Classify(raw *domain.RawPullRequest) domain.MergeState {
	if raw == nil {
		return domain.StateUnknown
	}

	// Priority table, most decisive signals first.
	if raw.Merged != nil && *raw.Merged {
		return domain.StateMerged
	}

	state := lowered(raw.State)
	if state == "closed" {
		return domain.StateClosed
	}

	ms := lowered(raw.MergeableState)
	if (raw.Draft != nil && *raw.Draft) || ms == "draft" {
		return domain.StateDraft
	}

	switch ms {
	case "dirty", "blocked":
		return domain.StateBlocked
	case "unstable", "behind":
		return domain.StateUnstable
	case "clean":
		if raw.Mergeable != nil && *raw.Mergeable {
			return domain.StateClean
		}
		// "clean" without mergeable confirmation is ambiguous.
		return domain.StateUnknown
	}

	return domain.StateUnknown
}

func lowered(s *string) string {
	if s == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*s))
}
