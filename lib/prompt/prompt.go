// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

// Package prompt is the interactive boundary of the workflows: yes/no
// confirmations and styled user-facing output.
//
// Workflows receive a [Prompt] explicitly. [Null] answers every question
// with its default and discards output, for non-interactive runs.
// [Terminal] reads answers from an input stream and writes styled text
// to an output stream. Confirmations are only ever requested from the
// workflow's own goroutine.
package prompt

// Style selects the color of a [Prompt.Say] message.
type Style int

const (
	Plain Style = iota
	Red
	Green
	Yellow
	Magenta
	Cyan
)

func (s Style) String() string {
	switch s {
	case Red:
		return "red"
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	case Magenta:
		return "magenta"
	case Cyan:
		return "cyan"
	default:
		return "plain"
	}
}

// Prompt asks questions and reports progress to the user.
type Prompt interface {
	// YesOrNo asks question and returns the answer, or defaultAnswer
	// when the user gives none.
	YesOrNo(question string, defaultAnswer bool) bool

	// Notice prints a prominent status line.
	Notice(message string)

	// Say prints message in the given style.
	Say(message string, style Style)

	// Highlight returns message emphasized for embedding in other
	// output.
	Highlight(message string) string
}

// DiffPrinter is implemented by prompts that can render unified diffs
// with syntax coloring.
type DiffPrinter interface {
	Diff(text string)
}

// ShowDiff prints a unified diff through p, colorized when p supports
// it.
func ShowDiff(p Prompt, text string) {
	if text == "" {
		return
	}
	if printer, ok := p.(DiffPrinter); ok {
		printer.Diff(text)
		return
	}
	p.Say(text, Plain)
}

// Null is a Prompt that answers with defaults and prints nothing.
type Null struct{}

func (Null) YesOrNo(_ string, defaultAnswer bool) bool { return defaultAnswer }
func (Null) Notice(string)                             {}
func (Null) Say(string, Style)                         {}
func (Null) Highlight(message string) string           { return message }
