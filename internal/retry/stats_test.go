package retry

import (
	"sync"
	"testing"
)

func TestStatsTracker_RecordAndSnapshot(t *testing.T) {
	tr := NewStatsTracker()

	tr.Record(true, 1)
	tr.Record(false, 4)
	tr.Record(true, 3)

	snap := tr.Snapshot()
	if snap.TotalPullRequests != 3 {
		t.Errorf("TotalPullRequests = %d, want 3", snap.TotalPullRequests)
	}
	if snap.Successful != 2 {
		t.Errorf("Successful = %d, want 2", snap.Successful)
	}
	if snap.TotalAttempts != 8 {
		t.Errorf("TotalAttempts = %d, want 8", snap.TotalAttempts)
	}
	if got := snap.SuccessRate(); got != 2.0/3.0 {
		t.Errorf("SuccessRate = %v, want %v", got, 2.0/3.0)
	}
	if got := snap.AverageAttempts(); got != 8.0/3.0 {
		t.Errorf("AverageAttempts = %v, want %v", got, 8.0/3.0)
	}
}

func TestStatsTracker_EmptySnapshot(t *testing.T) {
	snap := NewStatsTracker().Snapshot()
	if snap.SuccessRate() != 0 || snap.AverageAttempts() != 0 {
		t.Error("empty tracker should report zero rates")
	}
}

func TestStatsTracker_Reset(t *testing.T) {
	tr := NewStatsTracker()
	tr.Record(true, 2)
	tr.Reset()

	snap := tr.Snapshot()
	if snap.TotalPullRequests != 0 || snap.Successful != 0 || snap.TotalAttempts != 0 {
		t.Errorf("reset tracker not zeroed: %+v", snap)
	}
}

func TestStatsTracker_ConcurrentRecords(t *testing.T) {
	tr := NewStatsTracker()

	const workers = 16
	const perWorker = 100

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(success bool) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				tr.Record(success, 2)
			}
		}(w%2 == 0)
	}
	wg.Wait()

	snap := tr.Snapshot()
	if snap.TotalPullRequests != workers*perWorker {
		t.Errorf("TotalPullRequests = %d, want %d", snap.TotalPullRequests, workers*perWorker)
	}
	if snap.Successful != workers/2*perWorker {
		t.Errorf("Successful = %d, want %d", snap.Successful, workers/2*perWorker)
	}
	if snap.TotalAttempts != int64(workers*perWorker*2) {
		t.Errorf("TotalAttempts = %d, want %d", snap.TotalAttempts, workers*perWorker*2)
	}
}
