package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFanout_ProcessesAll(t *testing.T) {
	var processed atomic.Int64
	processor := func(ctx context.Context, job int) error {
		processed.Add(1)
		return nil
	}

	jobs := make([]int, 100)
	errs := Fanout(context.Background(), 4, jobs, processor)

	if processed.Load() != 100 {
		t.Errorf("expected 100 jobs processed, got %d", processed.Load())
	}
	if Failed(errs) != 0 {
		t.Errorf("expected no failures, got %d", Failed(errs))
	}
}

func TestFanout_IsolatesFailures(t *testing.T) {
	var processed atomic.Int64
	boom := errors.New("boom")
	processor := func(ctx context.Context, job int) error {
		processed.Add(1)
		if job == 2 {
			return boom
		}
		return nil
	}

	errs := Fanout(context.Background(), 2, []int{0, 1, 2, 3, 4}, processor)

	if processed.Load() != 5 {
		t.Errorf("expected all 5 jobs to run despite a failure, got %d", processed.Load())
	}
	if !errors.Is(errs[2], boom) {
		t.Errorf("expected errs[2] to be boom, got %v", errs[2])
	}
	if Failed(errs) != 1 {
		t.Errorf("expected 1 failure, got %d", Failed(errs))
	}
}

func TestFanout_RecoversPanics(t *testing.T) {
	processor := func(ctx context.Context, job string) error {
		if job == "bad" {
			panic("unexpected")
		}
		return nil
	}

	errs := Fanout(context.Background(), 3, []string{"ok", "bad", "ok"}, processor)

	if errs[1] == nil {
		t.Error("expected panic to be reported as an error")
	}
	if errs[0] != nil || errs[2] != nil {
		t.Error("expected siblings of a panicking job to succeed")
	}
}

func TestFanout_RespectsLimit(t *testing.T) {
	var inFlight, peak atomic.Int64
	processor := func(ctx context.Context, job int) error {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	}

	Fanout(context.Background(), 3, make([]int, 20), processor)

	if peak.Load() > 3 {
		t.Errorf("expected at most 3 concurrent jobs, saw %d", peak.Load())
	}
}

func TestFanout_Empty(t *testing.T) {
	errs := Fanout(context.Background(), 2, []int(nil), func(ctx context.Context, job int) error {
		t.Error("processor should not be called")
		return nil
	})
	if len(errs) != 0 {
		t.Errorf("expected no results, got %d", len(errs))
	}
}
