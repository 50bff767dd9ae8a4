// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package watch

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/shopfront/themesync/lib/clock"
)

const (
	pollInterval    = 100 * time.Millisecond
	DefaultDebounce = 50 * time.Millisecond

	fileEvents = unix.IN_CLOSE_WRITE | unix.IN_CREATE | unix.IN_MOVED_TO | unix.IN_DELETE | unix.IN_MOVED_FROM
)

// Subdirectories watched besides the root.
var watchedSubdirectories = []string{"sections", "assets"}

// Options configures an Inotify notifier.
type Options struct {
	// Debounce is the quiet period that ends a batch. Defaults to
	// DefaultDebounce.
	Debounce time.Duration

	// Clock defaults to clock.Real().
	Clock clock.Clock

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Inotify is a Linux inotify-backed Notifier.
type Inotify struct {
	root     string
	debounce time.Duration
	clock    clock.Clock
	logger   *slog.Logger

	mu      sync.Mutex
	started bool
	stop    chan struct{}
	done    chan struct{}

	fd      int
	watches map[int32]string
}

// NewInotify returns a notifier for the theme directory root.
func NewInotify(root string, options Options) *Inotify {
	if options.Debounce <= 0 {
		options.Debounce = DefaultDebounce
	}
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return &Inotify{
		root:     root,
		debounce: options.Debounce,
		clock:    options.Clock,
		logger:   options.Logger,
		watches:  make(map[int32]string),
	}
}

// Start installs the watches and begins delivering batches to handler.
func (n *Inotify) Start(handler Handler) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.started {
		return errors.New("watch: notifier already started")
	}

	root, err := filepath.Abs(n.root)
	if err != nil {
		return fmt.Errorf("watch: resolving %s: %w", n.root, err)
	}
	n.root = root

	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return fmt.Errorf("watch: inotify_init1: %w", err)
	}
	n.fd = fd
	if err := n.addWatch(root); err != nil {
		unix.Close(fd)
		return err
	}
	for _, name := range watchedSubdirectories {
		directory := filepath.Join(root, name)
		if info, err := os.Stat(directory); err == nil && info.IsDir() {
			if err := n.addWatch(directory); err != nil {
				unix.Close(fd)
				return err
			}
		}
	}

	n.started = true
	n.stop = make(chan struct{})
	n.done = make(chan struct{})
	go n.loop(handler)
	return nil
}

// Stop ends delivery and waits for the loop, including any running
// handler, to exit. Safe to call more than once.
func (n *Inotify) Stop() {
	n.mu.Lock()
	if !n.started {
		n.mu.Unlock()
		return
	}
	n.started = false
	close(n.stop)
	done := n.done
	n.mu.Unlock()
	<-done
}

func (n *Inotify) addWatch(directory string) error {
	wd, err := unix.InotifyAddWatch(n.fd, directory, fileEvents)
	if err != nil {
		return fmt.Errorf("watch: inotify_add_watch on %s: %w", directory, err)
	}
	n.watches[int32(wd)] = directory
	return nil
}

// loop polls the inotify fd every pollInterval so it notices stop
// promptly. Once events arrive it keeps reading until the debounce
// window passes without any, then hands the batch over.
func (n *Inotify) loop(handler Handler) {
	defer close(n.done)
	defer unix.Close(n.fd)

	buffer := make([]byte, 64*1024)
	changes := make(pending)
	var flushAt time.Time

	for {
		select {
		case <-n.stop:
			return
		default:
		}

		timeout := pollInterval
		if !flushAt.IsZero() {
			timeout = max(flushAt.Sub(n.clock.Now()), 0)
		}
		pollDescriptors := []unix.PollFd{{Fd: int32(n.fd), Events: unix.POLLIN}}
		count, err := unix.Poll(pollDescriptors, int(timeout.Milliseconds()))
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			n.logger.Error("watch: poll failed, stopping", "error", err)
			return
		}

		if count > 0 {
			bytesRead, err := unix.Read(n.fd, buffer)
			if err != nil && err != unix.EAGAIN && err != unix.EINTR {
				n.logger.Error("watch: read failed, stopping", "error", err)
				return
			}
			if bytesRead > 0 && n.parse(buffer[:bytesRead], changes) {
				flushAt = n.clock.Now().Add(n.debounce)
			}
			continue
		}

		if !flushAt.IsZero() && !n.clock.Now().Before(flushAt) {
			flushAt = time.Time{}
			batch := changes.batch()
			clear(changes)
			if !batch.Empty() {
				handler(batch)
			}
		}
	}
}

// parse folds a buffer of raw events into changes, returning whether
// any event concerned a file. Layout from inotify(7):
//
//	struct inotify_event {
//	    int32_t  wd;     // offset 0
//	    uint32_t mask;   // offset 4
//	    uint32_t cookie; // offset 8
//	    uint32_t len;    // offset 12
//	    char     name[]; // offset 16, null-padded to alignment
//	};
func (n *Inotify) parse(buffer []byte, changes pending) bool {
	recorded := false
	offset := 0
	for offset+unix.SizeofInotifyEvent <= len(buffer) {
		wd := int32(binary.NativeEndian.Uint32(buffer[offset : offset+4]))
		mask := binary.NativeEndian.Uint32(buffer[offset+4 : offset+8])
		nameLength := int(binary.NativeEndian.Uint32(buffer[offset+12 : offset+16]))
		eventSize := unix.SizeofInotifyEvent + nameLength
		if offset+eventSize > len(buffer) {
			break
		}
		name := nullTerminatedString(buffer[offset+unix.SizeofInotifyEvent : offset+eventSize])
		offset += eventSize

		directory, known := n.watches[wd]
		if mask&unix.IN_IGNORED != 0 {
			delete(n.watches, wd)
			continue
		}
		if !known || name == "" {
			continue
		}
		path := filepath.Join(directory, name)

		if mask&unix.IN_ISDIR != 0 {
			if directory == n.root && mask&(unix.IN_CREATE|unix.IN_MOVED_TO) != 0 && isWatchedSubdirectory(name) {
				if err := n.addWatch(path); err != nil {
					n.logger.Warn("watch: cannot watch new directory", "path", path, "error", err)
				}
			}
			continue
		}

		changes.record(path, mask)
		recorded = true
	}
	return recorded
}

func isWatchedSubdirectory(name string) bool {
	for _, candidate := range watchedSubdirectories {
		if name == candidate {
			return true
		}
	}
	return false
}

func nullTerminatedString(data []byte) string {
	for i, b := range data {
		if b == 0 {
			return string(data[:i])
		}
	}
	return string(data)
}
