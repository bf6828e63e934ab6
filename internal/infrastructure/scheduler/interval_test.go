package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStartRunsImmediately(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(time.Hour)
	ran := make(chan struct{}, 1)
	if err := s.Start(context.Background(), func(time.Time) { ran <- struct{}{} }); err != nil {
		t.Fatalf("Start error: %v", err)
	}

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatalf("job did not run immediately")
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
}

func TestJobsNeverOverlap(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(5 * time.Millisecond)

	var (
		running  atomic.Int32
		overlaps atomic.Int32
		runs     atomic.Int32
		once     sync.Once
	)
	enough := make(chan struct{})

	job := func(time.Time) {
		if running.Add(1) > 1 {
			overlaps.Add(1)
		}
		time.Sleep(15 * time.Millisecond)
		running.Add(-1)
		if runs.Add(1) >= 4 {
			once.Do(func() { close(enough) })
		}
	}

	if err := s.Start(context.Background(), job); err != nil {
		t.Fatalf("Start error: %v", err)
	}

	select {
	case <-enough:
	case <-time.After(5 * time.Second):
		t.Fatalf("scheduler did not keep firing")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop error: %v", err)
	}

	if overlaps.Load() != 0 {
		t.Fatalf("detected %d overlapping runs", overlaps.Load())
	}
}

func TestStopWithoutStart(t *testing.T) {
	t.Parallel()

	if err := NewIntervalScheduler(0).Stop(context.Background()); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
}

func TestDefaultInterval(t *testing.T) {
	t.Parallel()

	if got := NewIntervalScheduler(-1).Interval(); got != DefaultInterval {
		t.Fatalf("expected %v, got %v", DefaultInterval, got)
	}
}
