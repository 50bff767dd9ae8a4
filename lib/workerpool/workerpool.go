// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

// Package workerpool runs batches of independent jobs on a fixed number
// of goroutines. Jobs are scheduled up front and [Pool.Start] blocks
// until every one of them has run.
package workerpool

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultSize is the worker count used when none is configured.
const DefaultSize = 10

// Job is one unit of work. The context is cancelled when the batch's
// caller cancels; it is not cancelled by other jobs failing.
type Job func(ctx context.Context) error

// Pool is a fixed-size worker pool draining a shared FIFO queue.
type Pool struct {
	size int

	mu    sync.Mutex
	queue []Job
}

// New returns a pool with size workers, or [DefaultSize] when size is
// not positive.
func New(size int) *Pool {
	if size <= 0 {
		size = DefaultSize
	}
	return &Pool{size: size}
}

// Size returns the number of workers Start spawns.
func (p *Pool) Size() int { return p.size }

// Schedule enqueues job for the next Start. Safe to call concurrently,
// including from running jobs.
func (p *Pool) Schedule(job Job) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue = append(p.queue, job)
}

// Pending returns the number of queued jobs.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

func (p *Pool) next() (Job, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) == 0 {
		return nil, false
	}
	job := p.queue[0]
	p.queue[0] = nil
	p.queue = p.queue[1:]
	return job, true
}

// Start spawns the workers and blocks until the queue is drained and all
// workers have returned. Every job scheduled before or during Start runs
// exactly once, in no particular order. The first job error is returned
// once all workers have joined.
func (p *Pool) Start(ctx context.Context) error {
	var group errgroup.Group
	for range p.size {
		group.Go(func() error {
			var first error
			for {
				job, ok := p.next()
				if !ok {
					return first
				}
				if err := job(ctx); err != nil && first == nil {
					first = err
				}
			}
		})
	}
	return group.Wait()
}
