// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestEveryJobRunsExactlyOnce(t *testing.T) {
	const jobs = 250
	pool := New(7)
	var counts [jobs]atomic.Int32
	for i := range jobs {
		pool.Schedule(func(context.Context) error {
			counts[i].Add(1)
			return nil
		})
	}

	if err := pool.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	for i := range counts {
		if got := counts[i].Load(); got != 1 {
			t.Errorf("job %d ran %d times, want 1", i, got)
		}
	}
	if pending := pool.Pending(); pending != 0 {
		t.Errorf("pending after Start = %d", pending)
	}
}

func TestDefaultSize(t *testing.T) {
	if size := New(0).Size(); size != DefaultSize {
		t.Errorf("New(0).Size() = %d, want %d", size, DefaultSize)
	}
	if size := New(-3).Size(); size != DefaultSize {
		t.Errorf("New(-3).Size() = %d, want %d", size, DefaultSize)
	}
}

func TestRunsConcurrently(t *testing.T) {
	const size = 4
	pool := New(size)
	var (
		mu      sync.Mutex
		running int
		peak    int
	)
	release := make(chan struct{})
	var started sync.WaitGroup
	started.Add(size)
	for range size {
		pool.Schedule(func(context.Context) error {
			mu.Lock()
			running++
			peak = max(peak, running)
			mu.Unlock()
			started.Done()
			<-release
			mu.Lock()
			running--
			mu.Unlock()
			return nil
		})
	}

	done := make(chan error, 1)
	go func() { done <- pool.Start(context.Background()) }()

	started.Wait()
	close(release)
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return")
	}
	if peak != size {
		t.Errorf("peak concurrency = %d, want %d", peak, size)
	}
}

func TestErrorDoesNotSkipJobs(t *testing.T) {
	pool := New(2)
	failure := errors.New("upload failed")
	var ran atomic.Int32
	for i := range 10 {
		pool.Schedule(func(context.Context) error {
			ran.Add(1)
			if i == 3 {
				return failure
			}
			return nil
		})
	}

	err := pool.Start(context.Background())
	if !errors.Is(err, failure) {
		t.Errorf("Start error = %v, want %v", err, failure)
	}
	if got := ran.Load(); got != 10 {
		t.Errorf("ran %d jobs, want 10", got)
	}
}

func TestEmptyPool(t *testing.T) {
	if err := New(3).Start(context.Background()); err != nil {
		t.Errorf("Start on empty queue = %v", err)
	}
}
