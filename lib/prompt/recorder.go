// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package prompt

import (
	"strings"
	"sync"
)

// Recorder is a scripted Prompt for tests. It answers questions from
// Answers in order, falling back to each question's default once the
// script runs out, and records everything it is asked and told.
type Recorder struct {
	mu        sync.Mutex
	Answers   []bool
	Questions []string
	Messages  []string
}

// NewRecorder returns a Recorder that gives answers in order.
func NewRecorder(answers ...bool) *Recorder {
	return &Recorder{Answers: answers}
}

func (r *Recorder) YesOrNo(question string, defaultAnswer bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Questions = append(r.Questions, question)
	if len(r.Answers) == 0 {
		return defaultAnswer
	}
	answer := r.Answers[0]
	r.Answers = r.Answers[1:]
	return answer
}

func (r *Recorder) Notice(message string) {
	r.record(message)
}

func (r *Recorder) Say(message string, _ Style) {
	r.record(message)
}

func (r *Recorder) Highlight(message string) string { return message }

func (r *Recorder) Diff(text string) {
	r.record(text)
}

func (r *Recorder) record(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, message)
}

// Output returns every recorded message joined by newlines.
func (r *Recorder) Output() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.Messages, "\n")
}

// AskedCount returns the number of questions asked so far.
func (r *Recorder) AskedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Questions)
}
