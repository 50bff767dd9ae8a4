// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package watch

import (
	"sort"

	"golang.org/x/sys/unix"
)

// Batch is one coalesced set of changes. Paths are absolute and sorted.
type Batch struct {
	Modified []string
	Added    []string
	Removed  []string
}

// Empty reports whether the batch has no changes.
func (b Batch) Empty() bool {
	return len(b.Modified) == 0 && len(b.Added) == 0 && len(b.Removed) == 0
}

// Handler receives batches. It runs on the notifier's goroutine; the
// next batch is not delivered until it returns.
type Handler func(Batch)

// Notifier delivers batches of path changes until stopped.
type Notifier interface {
	Start(handler Handler) error
	Stop()
}

type change int

const (
	changeModified change = iota + 1
	changeAdded
	changeRemoved
	// changeTransient is a file created and removed within one batch.
	changeTransient
)

// pending accumulates events until the batch is flushed.
type pending map[string]change

// record folds one event into the pending state of path.
func (p pending) record(path string, mask uint32) {
	previous, seen := p[path]
	switch {
	case mask&(unix.IN_CREATE|unix.IN_MOVED_TO) != 0:
		if seen && previous == changeRemoved {
			p[path] = changeModified
		} else if !seen || previous == changeTransient {
			p[path] = changeAdded
		}
	case mask&unix.IN_CLOSE_WRITE != 0:
		if !seen || previous == changeRemoved || previous == changeTransient {
			p[path] = changeModified
		}
	case mask&(unix.IN_DELETE|unix.IN_MOVED_FROM) != 0:
		if seen && previous == changeAdded {
			p[path] = changeTransient
		} else {
			p[path] = changeRemoved
		}
	}
}

func (p pending) batch() Batch {
	var batch Batch
	for path, kind := range p {
		switch kind {
		case changeModified:
			batch.Modified = append(batch.Modified, path)
		case changeAdded:
			batch.Added = append(batch.Added, path)
		case changeRemoved:
			batch.Removed = append(batch.Removed, path)
		}
	}
	sort.Strings(batch.Modified)
	sort.Strings(batch.Added)
	sort.Strings(batch.Removed)
	return batch
}
