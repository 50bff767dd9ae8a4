// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package workflow

import (
	"context"
	"io"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopfront/themesync/lib/prompt"
	"github.com/shopfront/themesync/lib/theme"
	"github.com/shopfront/themesync/lib/watch"
)

var (
	earlier = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	later   = earlier.Add(time.Hour)
)

// faultyTheme wraps a Memory theme, failing mutations of chosen file
// names and counting the ones that go through.
type faultyTheme struct {
	*theme.Memory
	failures  map[string]error
	mutations atomic.Int32
	reloads   atomic.Int32
}

func newFaultyTheme() *faultyTheme {
	return &faultyTheme{Memory: theme.NewMemory(), failures: make(map[string]error)}
}

func (f *faultyTheme) AddTemplate(ctx context.Context, fileName, body string) error {
	if err := f.failures[fileName]; err != nil {
		return err
	}
	f.mutations.Add(1)
	return f.Memory.AddTemplate(ctx, fileName, body)
}

func (f *faultyTheme) AddAsset(ctx context.Context, fileName string, content io.Reader) error {
	if err := f.failures[fileName]; err != nil {
		return err
	}
	f.mutations.Add(1)
	return f.Memory.AddAsset(ctx, fileName, content)
}

func (f *faultyTheme) RemoveTemplate(ctx context.Context, fileName string) (bool, error) {
	if err := f.failures[fileName]; err != nil {
		return false, err
	}
	f.mutations.Add(1)
	return f.Memory.RemoveTemplate(ctx, fileName)
}

func (f *faultyTheme) RemoveAsset(ctx context.Context, fileName string) (bool, error) {
	if err := f.failures[fileName]; err != nil {
		return false, err
	}
	f.mutations.Add(1)
	return f.Memory.RemoveAsset(ctx, fileName)
}

func (f *faultyTheme) Reload(ctx context.Context) error {
	f.reloads.Add(1)
	return f.Memory.Reload(ctx)
}

// devTheme is a Publishable in-memory theme.
type devTheme struct {
	*faultyTheme
	dev       bool
	published bool
	deleteDev bool
}

func (d *devTheme) IsDev() bool { return d.dev }

func (d *devTheme) Publish(_ context.Context, deleteDev bool) error {
	d.published = true
	d.deleteDev = deleteDev
	return nil
}

// fakeNotifier lets tests deliver batches by hand.
type fakeNotifier struct {
	handler watch.Handler
	started chan struct{}
	stopped atomic.Bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{started: make(chan struct{})}
}

func (n *fakeNotifier) Start(handler watch.Handler) error {
	n.handler = handler
	close(n.started)
	return nil
}

func (n *fakeNotifier) Stop() { n.stopped.Store(true) }

func newWorkflows(p prompt.Prompt) *Workflows {
	return New(Config{Prompt: p, Concurrency: 4})
}

func requireNames(t *testing.T, label string, got []string, want ...string) {
	t.Helper()
	if want == nil {
		want = []string{}
	}
	if got == nil {
		got = []string{}
	}
	sorted := slices.Sorted(slices.Values(got))
	if !slices.Equal(sorted, want) {
		t.Errorf("%s = %v, want %v", label, sorted, want)
	}
}

func templateBody(t *testing.T, m *theme.Memory, fileName string) string {
	t.Helper()
	templates, _ := m.Templates(context.Background())
	for _, template := range templates {
		if template.FileName == fileName {
			return template.Body
		}
	}
	t.Fatalf("template %s not found", fileName)
	return ""
}
