// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

// ActionableError carries the context a user needs to act on a failure:
// the operation that failed, the resource involved, and concrete
// suggestions. Built via ErrorContext:
//
//	err := issue.NewErrorContext().
//		WithOperation("load denvfile").
//		WithResource("./denvfile.cue").
//		WithSuggestion("Run 'denv init' to create one").
//		Wrap(originalErr).
//		BuildError()
type ActionableError struct {
	// Operation is the verb phrase that failed, e.g. "resolve source".
	Operation string
	// Resource is the file, path or entity involved. Optional.
	Resource string
	// Suggestions are hints on how to fix the failure. Optional.
	Suggestions []string
	// Cause is the underlying error. Optional.
	Cause error
}

// ErrorContext accumulates an ActionableError field by field.
type ErrorContext struct {
	err ActionableError
}

// NewErrorContext starts an empty builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error returns the concise one-line message; suggestions and the error
// chain are left to Details.
func (e *ActionableError) Error() string {
	var msg strings.Builder
	msg.WriteString("failed to ")
	msg.WriteString(e.Operation)
	if e.Resource != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Resource)
	}
	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}
	return msg.String()
}

// Unwrap returns the cause for errors.Is/As traversal.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Details renders the suggestion list, and with verbose set the numbered
// error chain, for display after the message itself. Empty when there is
// nothing beyond the message.
func (e *ActionableError) Details(verbose bool) string {
	var msg strings.Builder

	for _, suggestion := range e.Suggestions {
		if msg.Len() > 0 {
			msg.WriteString("\n")
		}
		msg.WriteString("  • ")
		msg.WriteString(suggestion)
	}

	if verbose && e.Cause != nil {
		if msg.Len() > 0 {
			msg.WriteString("\n")
		}
		msg.WriteString("Error chain:")
		for depth, err := 1, e.Cause; err != nil; depth, err = depth+1, errors.Unwrap(err) {
			fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
		}
	}

	return msg.String()
}

// WithOperation sets the failed operation, a verb phrase like
// "load denvfile". Required; BuildError returns nil without it.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.err.Operation = op
	return c
}

// WithResource names the file, path or entity involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.err.Resource = res
	return c
}

// WithSuggestion appends one fix-it hint. May be called repeatedly.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.err.Suggestions = append(c.err.Suggestions, sug)
	return c
}

// Wrap records the underlying cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.err.Cause = err
	return c
}

// BuildError finalizes the builder. Returns nil when no operation was set,
// so a conditional build chain can feed a plain error return.
func (c *ErrorContext) BuildError() error {
	if c.err.Operation == "" {
		return nil
	}
	e := c.err
	return &e
}
