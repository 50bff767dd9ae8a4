// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopfront/themesync/lib/hypermedia"
	"github.com/shopfront/themesync/lib/netutil"
	"github.com/shopfront/themesync/lib/remotetheme"
	"github.com/shopfront/themesync/lib/theme"
)

// ErrorCategory classifies command errors so main can print a hint
// suited to what went wrong.
type ErrorCategory string

const (
	// CategoryValidation indicates the caller provided invalid input, or
	// the theme violates a precondition (clashing asset names). Fix the
	// input and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound indicates a referenced resource does not exist:
	// unknown shop, missing theme directory, no development theme.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryForbidden indicates the access token was rejected.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryConflict indicates a remote item changed since it was last
	// read. Running sync first resolves it.
	CategoryConflict ErrorCategory = "conflict"

	// CategoryTransient indicates a temporary failure: a timeout after
	// exhausting retries or a 5xx response. Retrying later may help.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal indicates an unexpected error: local I/O failures,
	// malformed responses, bugs.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized error returned by commands. It wraps an
// inner error, preserving the chain for errors.Is and errors.As.
type ToolError struct {
	Category ErrorCategory
	Err      error
}

func (e *ToolError) Error() string { return e.Err.Error() }

func (e *ToolError) Unwrap() error { return e.Err }

// Hint returns a one-line suggestion for the category, or "".
func (e *ToolError) Hint() string {
	switch e.Category {
	case CategoryForbidden:
		return "check your access token (THEMESYNC_ACCESS_TOKEN or access_token_file)"
	case CategoryConflict:
		return "run 'themesync theme sync' first, then try again"
	case CategoryTransient:
		return "the platform did not respond in time; try again later"
	default:
		return ""
	}
}

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error: a referenced resource does not exist.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// Classify wraps err in a ToolError whose category follows from the
// library error taxonomy. Errors that already are ToolErrors are
// returned unchanged; nil stays nil.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return err
	}
	return &ToolError{Category: category(err), Err: err}
}

func category(err error) ErrorCategory {
	var (
		clash      *theme.NameClashError
		conflict   *theme.ConflictError
		validation *theme.ValidationError
		server     *theme.ServerError
		apiErr     *hypermedia.Error
	)
	switch {
	case errors.As(err, &clash), errors.As(err, &validation):
		return CategoryValidation
	case errors.As(err, &conflict):
		return CategoryConflict
	case errors.Is(err, remotetheme.ErrShopNotFound),
		errors.Is(err, remotetheme.ErrNoShops),
		errors.Is(err, remotetheme.ErrNoDevTheme):
		return CategoryNotFound
	case netutil.IsTimeout(err):
		return CategoryTransient
	case errors.As(err, &server) && server.StatusCode >= http.StatusInternalServerError:
		return CategoryTransient
	case errors.As(err, &apiErr):
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized, apiErr.StatusCode == http.StatusForbidden:
			return CategoryForbidden
		case apiErr.StatusCode == http.StatusNotFound:
			return CategoryNotFound
		case apiErr.StatusCode >= http.StatusInternalServerError:
			return CategoryTransient
		}
	}
	return CategoryInternal
}
