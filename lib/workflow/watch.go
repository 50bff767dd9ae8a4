// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package workflow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/zeebo/blake3"

	"github.com/shopfront/themesync/lib/prompt"
	"github.com/shopfront/themesync/lib/theme"
	"github.com/shopfront/themesync/lib/watch"
)

// Farewell is said when Watch returns.
const Farewell = "See you in another lifetime."

// Watch uploads local changes under dir to remote as the notifier
// reports them, until ctx is cancelled or an item fails fatally.
// Cancellation is a normal exit and returns nil.
func (w *Workflows) Watch(ctx context.Context, dir string, remote theme.Theme, notifier watch.Notifier) error {
	if err := w.confirmPublic(remote); err != nil {
		return err
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", dir, err)
	}

	session := &watchSession{
		workflows:    w,
		root:         root,
		filesystem:   osfs.New(root),
		remote:       remote,
		fingerprints: make(map[string][32]byte),
		failed:       make(chan error, 1),
	}
	if err := notifier.Start(func(batch watch.Batch) { session.handle(ctx, batch) }); err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	w.prompt.Notice(fmt.Sprintf("Watching %s for changes...", root))

	var failure error
	select {
	case <-ctx.Done():
	case failure = <-session.failed:
	}
	notifier.Stop()
	w.prompt.Say(Farewell, prompt.Plain)
	return failure
}

// watchSession is the state of one Watch call. handle runs on the
// notifier's goroutine, one batch at a time.
type watchSession struct {
	workflows  *Workflows
	root       string
	filesystem billy.Filesystem
	remote     theme.Theme

	// fingerprints holds the blake3 sum of the last uploaded content
	// per kind and file name.
	fingerprints map[string][32]byte

	stopped atomic.Bool
	failed  chan error
}

func (s *watchSession) handle(ctx context.Context, batch watch.Batch) {
	if s.stopped.Load() {
		return
	}
	if err := s.apply(ctx, batch); err != nil {
		s.stopped.Store(true)
		s.failed <- err
	}
}

func (s *watchSession) apply(ctx context.Context, batch watch.Batch) error {
	for _, path := range slices.Concat(batch.Modified, batch.Added) {
		if err := s.upload(ctx, path); err != nil {
			return err
		}
	}
	for _, path := range batch.Removed {
		if err := s.remove(ctx, path); err != nil {
			return err
		}
	}
	if err := s.remote.Reload(ctx); err != nil {
		return fmt.Errorf("reloading remote theme: %w", err)
	}
	return nil
}

// resolve maps an absolute path to its theme item, or ok=false for
// files that are not part of a theme.
func (s *watchSession) resolve(path string) (relative string, kind theme.Kind, fileName string, ok bool) {
	relative, err := filepath.Rel(s.root, path)
	if err != nil {
		return "", "", "", false
	}
	relative = filepath.ToSlash(relative)
	kind, fileName, ok = theme.ClassifyPath(relative)
	return relative, kind, fileName, ok
}

func (s *watchSession) upload(ctx context.Context, path string) error {
	w := s.workflows
	relative, kind, fileName, ok := s.resolve(path)
	if !ok {
		w.logger.Debug("ignoring non-theme file", "path", path)
		return nil
	}
	content, err := util.ReadFile(s.filesystem, relative)
	if errors.Is(err, os.ErrNotExist) {
		// Removed again before the batch was handled.
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	key := string(kind) + ":" + fileName
	fingerprint := blake3.Sum256(content)
	if previous, seen := s.fingerprints[key]; seen && previous == fingerprint {
		w.logger.Debug("content unchanged since last upload", "file_name", fileName)
		return nil
	}

	switch kind {
	case theme.KindTemplate:
		err = s.remote.AddTemplate(ctx, fileName, string(content))
	case theme.KindAsset:
		err = s.remote.AddAsset(ctx, fileName, bytes.NewReader(content))
	}
	if err != nil {
		return w.itemError(fileName, err)
	}
	s.fingerprints[key] = fingerprint
	w.prompt.Say(fmt.Sprintf("Uploaded %s: %s", kind, fileName), prompt.Green)
	return nil
}

func (s *watchSession) remove(ctx context.Context, path string) error {
	w := s.workflows
	_, kind, fileName, ok := s.resolve(path)
	if !ok {
		return nil
	}
	delete(s.fingerprints, string(kind)+":"+fileName)

	var removed bool
	var err error
	switch kind {
	case theme.KindTemplate:
		removed, err = s.remote.RemoveTemplate(ctx, fileName)
	case theme.KindAsset:
		removed, err = s.remote.RemoveAsset(ctx, fileName)
	}
	if err != nil {
		return w.itemError(fileName, err)
	}
	if removed {
		w.prompt.Say(fmt.Sprintf("Deleted remote %s: %s", kind, fileName), prompt.Yellow)
	} else {
		w.prompt.Say(fmt.Sprintf("Remote %s %s was not deleted", kind, fileName), prompt.Yellow)
	}
	return nil
}
