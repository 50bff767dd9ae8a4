// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/shopfront/themesync/lib/theme"
)

func TestReportAddsHint(t *testing.T) {
	var out bytes.Buffer
	report(&out, &theme.ConflictError{FileName: "layout.html", Err: errors.New("stale")})
	want := "hint: run 'themesync theme sync' first, then try again\n"
	if !bytes.HasSuffix(out.Bytes(), []byte(want)) {
		t.Errorf("report output = %q, want suffix %q", out.String(), want)
	}
}

func TestReportWithoutHint(t *testing.T) {
	var out bytes.Buffer
	report(&out, errors.New("boom"))
	if out.String() != "error: boom\n" {
		t.Errorf("report output = %q", out.String())
	}
}
