// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import "fmt"

// errorCategory classifies a failure so main can pick an exit code
// without parsing message text.
type errorCategory string

const (
	// categoryValidation: bad flags, arguments, or configuration. The
	// user should fix the input and retry.
	categoryValidation errorCategory = "validation"

	// categoryNotFound: a named file does not exist.
	categoryNotFound errorCategory = "not_found"

	// categoryInternal: an unexpected failure such as terminal I/O.
	categoryInternal errorCategory = "internal"
)

// commandError is a categorized error with an optional hint printed on
// its own line below the message.
type commandError struct {
	Category errorCategory
	Err      error
	Hint     string
}

func (e *commandError) Error() string { return e.Err.Error() }

func (e *commandError) Unwrap() error { return e.Err }

// ExitCode maps the category to the process exit status.
func (e *commandError) ExitCode() int {
	switch e.Category {
	case categoryValidation:
		return 2
	case categoryNotFound:
		return 3
	default:
		return 1
	}
}

// WithHint attaches a suggestion for resolving the error.
func (e *commandError) WithHint(hint string) *commandError {
	e.Hint = hint
	return e
}

func validation(format string, args ...any) *commandError {
	return &commandError{Category: categoryValidation, Err: fmt.Errorf(format, args...)}
}

func notFound(format string, args ...any) *commandError {
	return &commandError{Category: categoryNotFound, Err: fmt.Errorf(format, args...)}
}

func internal(format string, args ...any) *commandError {
	return &commandError{Category: categoryInternal, Err: fmt.Errorf(format, args...)}
}
