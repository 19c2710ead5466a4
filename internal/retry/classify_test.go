package retry

import (
	"testing"

	"github.com/vietddude/mergewatch/internal/core/domain"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		raw    *domain.RawPullRequest
		expect domain.MergeState
	}{
		{"nil input", nil, domain.StateUnknown},
		{"empty struct", &domain.RawPullRequest{}, domain.StateUnknown},
		{
			"merged wins over everything",
			&domain.RawPullRequest{
				Merged:         boolPtr(true),
				State:          strPtr("closed"),
				MergeableState: strPtr("dirty"),
			},
			domain.StateMerged,
		},
		{
			"closed without merge",
			&domain.RawPullRequest{State: strPtr("closed"), Merged: boolPtr(false)},
			domain.StateClosed,
		},
		{
			"draft flag",
			&domain.RawPullRequest{State: strPtr("open"), Draft: boolPtr(true)},
			domain.StateDraft,
		},
		{
			"draft mergeable state",
			&domain.RawPullRequest{State: strPtr("open"), MergeableState: strPtr("draft")},
			domain.StateDraft,
		},
		{
			"dirty is blocked",
			&domain.RawPullRequest{State: strPtr("open"), MergeableState: strPtr("dirty")},
			domain.StateBlocked,
		},
		{
			"blocked",
			&domain.RawPullRequest{State: strPtr("open"), MergeableState: strPtr("blocked")},
			domain.StateBlocked,
		},
		{
			"unstable",
			&domain.RawPullRequest{State: strPtr("open"), MergeableState: strPtr("unstable")},
			domain.StateUnstable,
		},
		{
			"behind is unstable",
			&domain.RawPullRequest{State: strPtr("open"), MergeableState: strPtr("behind")},
			domain.StateUnstable,
		},
		{
			"clean and mergeable",
			&domain.RawPullRequest{
				State:          strPtr("open"),
				Mergeable:      boolPtr(true),
				MergeableState: strPtr("clean"),
			},
			domain.StateClean,
		},
		{
			"clean without mergeable confirmation",
			&domain.RawPullRequest{State: strPtr("open"), MergeableState: strPtr("clean")},
			domain.StateUnknown,
		},
		{
			"clean but mergeable false",
			&domain.RawPullRequest{
				State:          strPtr("open"),
				Mergeable:      boolPtr(false),
				MergeableState: strPtr("clean"),
			},
			domain.StateUnknown,
		},
		{
			"case and whitespace tolerated",
			&domain.RawPullRequest{
				State:          strPtr(" OPEN "),
				Mergeable:      boolPtr(true),
				MergeableState: strPtr("Clean"),
			},
			domain.StateClean,
		},
		{
			"unrecognized mergeable state",
			&domain.RawPullRequest{State: strPtr("open"), MergeableState: strPtr("wobbly")},
			domain.StateUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.raw); got != tt.expect {
				t.Errorf("Classify() = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestMergeState_Predicates(t *testing.T) {
	transient := []domain.MergeState{domain.StateUnstable, domain.StateUnknown, domain.StateDraft}
	for _, s := range transient {
		if !s.Transient() {
			t.Errorf("%s should be transient", s)
		}
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}

	terminal := []domain.MergeState{domain.StateBlocked, domain.StateClosed, domain.StateMerged}
	for _, s := range terminal {
		if s.Transient() {
			t.Errorf("%s should not be transient", s)
		}
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}

	if domain.StateClean.Transient() || domain.StateClean.Terminal() {
		t.Error("clean is neither transient nor terminal")
	}
}
