// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package workflow

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopfront/themesync/lib/prompt"
	"github.com/shopfront/themesync/lib/testutil"
	"github.com/shopfront/themesync/lib/theme"
	"github.com/shopfront/themesync/lib/watch"
)

// runWatch starts Watch in the background and returns once the
// notifier has been started, plus a function that cancels Watch and
// returns its error.
func runWatch(t *testing.T, workflows *Workflows, dir string, remote theme.Theme, notifier *fakeNotifier) func() error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- workflows.Watch(ctx, dir, remote, notifier) }()
	testutil.RequireClosed(t, notifier.started, 5*time.Second, "notifier never started")
	return func() error {
		cancel()
		return testutil.RequireReceive(t, result, 5*time.Second, "Watch did not return")
	}
}

func TestWatchUploadsChanges(t *testing.T) {
	dir := t.TempDir()
	remote := newFaultyTheme()
	remote.AddTemplateAt("gone.html", "x", earlier)
	remote.AddAssetAt("old.png", []byte("x"), earlier)
	recorder := prompt.NewRecorder()
	notifier := newFakeNotifier()
	stop := runWatch(t, newWorkflows(recorder), dir, remote, notifier)

	layout := testutil.WriteFile(t, dir, "layout.html", "<html>")
	header := testutil.WriteFile(t, dir, "sections/header.liquid", "{{ shop }}")
	logo := testutil.WriteFile(t, dir, "assets/logo.png", "PNG")
	notes := testutil.WriteFile(t, dir, "notes.txt", "not a theme file")
	notifier.handler(watch.Batch{
		Modified: []string{layout},
		Added:    []string{header, logo, notes},
		Removed:  []string{filepath.Join(dir, "gone.html"), filepath.Join(dir, "assets", "old.png")},
	})

	if err := stop(); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	requireNames(t, "remote templates", remote.TemplateNames(), "layout.html", "sections/header.liquid")
	requireNames(t, "remote assets", remote.AssetNames(), "logo.png")
	if remote.reloads.Load() != 1 {
		t.Errorf("remote reloaded %d times, want 1", remote.reloads.Load())
	}
	if !notifier.stopped.Load() {
		t.Error("notifier not stopped")
	}
	output := recorder.Output()
	if !strings.Contains(output, "Uploaded asset: logo.png") || !strings.HasSuffix(output, Farewell) {
		t.Errorf("output:\n%s", output)
	}
}

func TestWatchSkipsUnchangedContent(t *testing.T) {
	dir := t.TempDir()
	remote := newFaultyTheme()
	notifier := newFakeNotifier()
	stop := runWatch(t, newWorkflows(prompt.Null{}), dir, remote, notifier)

	layout := testutil.WriteFile(t, dir, "layout.html", "v1")
	notifier.handler(watch.Batch{Added: []string{layout}})
	notifier.handler(watch.Batch{Modified: []string{layout}})
	testutil.WriteFile(t, dir, "layout.html", "v2")
	notifier.handler(watch.Batch{Modified: []string{layout}})

	if err := stop(); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if got := remote.mutations.Load(); got != 2 {
		t.Errorf("%d uploads, want 2", got)
	}
	if got := templateBody(t, remote.Memory, "layout.html"); got != "v2" {
		t.Errorf("remote layout.html = %q", got)
	}
}

func TestWatchStopsOnFatalError(t *testing.T) {
	dir := t.TempDir()
	remote := newFaultyTheme()
	remote.failures["layout.html"] = &theme.ServerError{Operation: "upload", FileName: "layout.html", StatusCode: 500, Err: errors.New("boom")}
	notifier := newFakeNotifier()
	workflows := newWorkflows(prompt.Null{})

	result := make(chan error, 1)
	go func() { result <- workflows.Watch(context.Background(), dir, remote, notifier) }()
	testutil.RequireClosed(t, notifier.started, 5*time.Second)

	layout := testutil.WriteFile(t, dir, "layout.html", "x")
	notifier.handler(watch.Batch{Modified: []string{layout}})

	err := testutil.RequireReceive(t, result, 5*time.Second, "Watch did not stop")
	var serverErr *theme.ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("Watch error = %v, want ServerError", err)
	}
}

func TestWatchSkipsRejectedFile(t *testing.T) {
	dir := t.TempDir()
	remote := newFaultyTheme()
	remote.failures["bad.html"] = &theme.ValidationError{FileName: "bad.html"}
	notifier := newFakeNotifier()
	stop := runWatch(t, newWorkflows(prompt.Null{}), dir, remote, notifier)

	bad := testutil.WriteFile(t, dir, "bad.html", "x")
	good := testutil.WriteFile(t, dir, "good.html", "y")
	notifier.handler(watch.Batch{Added: []string{bad, good}})

	if err := stop(); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	requireNames(t, "remote templates", remote.TemplateNames(), "good.html")
}
