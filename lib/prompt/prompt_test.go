// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muesli/termenv"
)

func TestTerminalYesOrNo(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		defaultAnswer bool
		want          bool
	}{
		{"yes", "y\n", false, true},
		{"full yes uppercase", "YES\n", false, true},
		{"no", "n\n", true, false},
		{"empty takes default true", "\n", true, true},
		{"empty takes default false", "\n", false, false},
		{"unrecognized takes default", "maybe\n", true, true},
		{"end of input takes default", "", true, true},
		{"answer without newline", "y", false, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var out bytes.Buffer
			terminal := NewTerminal(strings.NewReader(test.input), &out)
			if got := terminal.YesOrNo("Continue?", test.defaultAnswer); got != test.want {
				t.Errorf("YesOrNo = %v, want %v", got, test.want)
			}
			if !strings.Contains(out.String(), "Continue?") {
				t.Errorf("question not printed: %q", out.String())
			}
		})
	}
}

func TestTerminalReadsSuccessiveAnswers(t *testing.T) {
	var out bytes.Buffer
	terminal := NewTerminal(strings.NewReader("y\nn\n"), &out)
	if !terminal.YesOrNo("first?", false) {
		t.Error("first answer should be yes")
	}
	if terminal.YesOrNo("second?", true) {
		t.Error("second answer should be no")
	}
}

func TestTerminalPlainOutputHasNoEscapes(t *testing.T) {
	var out bytes.Buffer
	terminal := NewTerminal(strings.NewReader(""), &out)
	terminal.Notice("Pulling")
	terminal.Say("removed layout.html", Red)
	terminal.Diff("@@ -1 +1 @@\n-a\n+b\n")
	highlighted := terminal.Highlight("layout.html")

	want := " ---> Pulling\nremoved layout.html\n@@ -1 +1 @@\n-a\n+b\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
	if highlighted != "layout.html" {
		t.Errorf("Highlight = %q, want plain text", highlighted)
	}
}

func TestTerminalColorOutput(t *testing.T) {
	var out bytes.Buffer
	terminal := NewTerminalWithProfile(strings.NewReader(""), &out, termenv.ANSI256)
	terminal.Say("added", Green)
	if !strings.Contains(out.String(), "\x1b[") {
		t.Errorf("expected ANSI escapes in %q", out.String())
	}
	if !strings.Contains(out.String(), "added") {
		t.Errorf("message missing from %q", out.String())
	}
}

func TestNullReturnsDefault(t *testing.T) {
	var p Prompt = Null{}
	if !p.YesOrNo("?", true) || p.YesOrNo("?", false) {
		t.Error("Null must return the default answer")
	}
	if p.Highlight("x") != "x" {
		t.Error("Null.Highlight must return its input")
	}
}

func TestShowDiffFallsBackToSay(t *testing.T) {
	recorder := NewRecorder()
	ShowDiff(recorder, "-a\n+b\n")
	ShowDiff(recorder, "")
	if len(recorder.Messages) != 1 || recorder.Messages[0] != "-a\n+b\n" {
		t.Errorf("messages = %q", recorder.Messages)
	}
}

func TestRecorderScript(t *testing.T) {
	recorder := NewRecorder(false, true)
	if recorder.YesOrNo("one", true) {
		t.Error("first scripted answer is false")
	}
	if !recorder.YesOrNo("two", false) {
		t.Error("second scripted answer is true")
	}
	if !recorder.YesOrNo("three", true) {
		t.Error("exhausted script should return the default")
	}
	if recorder.AskedCount() != 3 {
		t.Errorf("asked %d, want 3", recorder.AskedCount())
	}
}
