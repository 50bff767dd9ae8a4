// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package hypermedia

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError is one entry of a response's "errors" array.
type FieldError struct {
	Field    string   `json:"field"`
	Messages []string `json:"messages"`
}

// Error is a failed request. Callers inspect it with errors.As:
//
//	var apiErr *hypermedia.Error
//	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict { ... }
type Error struct {
	Method     string
	URL        string
	StatusCode int

	// Message is the body's "message" member, or a description of why
	// the body could not be used.
	Message string

	Fields []FieldError
}

func (e *Error) Error() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "hypermedia: %s %s: status %d", e.Method, e.URL, e.StatusCode)
	if e.Message != "" {
		builder.WriteString(": " + e.Message)
	}
	for _, field := range e.Fields {
		fmt.Fprintf(&builder, "; %s %s", field.Field, strings.Join(field.Messages, ", "))
	}
	return builder.String()
}

// HasField reports whether the error carries a field error for name.
func (e *Error) HasField(name string) bool {
	for _, field := range e.Fields {
		if field.Field == name {
			return true
		}
	}
	return false
}

// ErrNoLink is returned when an entity does not offer a relation.
var ErrNoLink = errors.New("hypermedia: relation not offered")
