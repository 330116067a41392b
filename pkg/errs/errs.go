// Package errs defines the error-kind vocabulary shared by the workflow
// engine, tool dispatcher, and extension bridge.
package errs

import (
	"errors"
	"fmt"
	"runtime"
	"time"
)

// Kind enumerates the machine-readable error categories every subsystem
// reports. Callers branch on Kind rather than string-matching messages.
type Kind string

const (
	InvalidInput          Kind = "invalid_input"
	ElementNotFound        Kind = "element_not_found"
	ElementNotVisible      Kind = "element_not_visible"
	ElementNotEnabled      Kind = "element_not_enabled"
	ElementNotStable       Kind = "element_not_stable"
	ElementDetached        Kind = "element_detached"
	ElementObscured        Kind = "element_obscured"
	ScrollFailed           Kind = "scroll_failed"
	VerificationFailed     Kind = "verification_failed"
	ExtensionUnavailable   Kind = "extension_unavailable"
	ScriptExecutionFailed  Kind = "script_execution_failed"
	Timeout                Kind = "timeout"
	Cancelled              Kind = "cancelled"
	PortBindError          Kind = "port_bind_error"
	InternalError          Kind = "internal_error"
)

// Retryable reports whether the dispatcher's retry loop should keep
// retrying a step that failed with this kind, absent an explicit
// per-step override.
func (k Kind) Retryable() bool {
	switch k {
	case ElementNotFound, ElementNotVisible, ElementNotEnabled, ElementNotStable,
		ElementObscured, ScrollFailed, Timeout, ExtensionUnavailable:
		return true
	default:
		return false
	}
}

// TriedSelector records one selector attempt made while resolving an
// element, surfaced on ElementNotFound errors so a caller can see what was
// tried and why each attempt failed.
type TriedSelector struct {
	Selector string `json:"selector"`
	Reason   string `json:"reason"`
}

// Location pins an error to the call site that built it, mirroring the
// WithLocation() step of the builder this type is modelled on.
type Location struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Function string `json:"function"`
}

// Error is the structured error type every component in this module
// returns. It carries a machine-readable Kind plus enough context for a
// client to render a useful message and, for ElementNotFound, a
// suggestion of what to try next.
type Error struct {
	Kind        Kind                   `json:"kind"`
	Message     string                 `json:"message"`
	Context     map[string]interface{} `json:"context,omitempty"`
	Tried       []TriedSelector        `json:"tried,omitempty"`
	Suggestions []string               `json:"suggestions,omitempty"`
	Location    *Location              `json:"location,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
	Cause       error                  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// Builder constructs an *Error one field at a time, mirroring the
// fluent NewError()....Build() pattern this package is grounded on.
type Builder struct {
	err *Error
}

// New starts a Builder for the given kind and message.
func New(kind Kind, message string) *Builder {
	return &Builder{err: &Error{
		Kind:      kind,
		Message:   message,
		Context:   make(map[string]interface{}),
		Timestamp: time.Now(),
	}}
}

func (b *Builder) Context(key string, value interface{}) *Builder {
	b.err.Context[key] = value
	return b
}

func (b *Builder) Tried(sel string, reason string) *Builder {
	b.err.Tried = append(b.err.Tried, TriedSelector{Selector: sel, Reason: reason})
	return b
}

func (b *Builder) Suggest(suggestion string) *Builder {
	b.err.Suggestions = append(b.err.Suggestions, suggestion)
	return b
}

func (b *Builder) Cause(cause error) *Builder {
	b.err.Cause = cause
	return b
}

// WithLocation captures the caller's file/line/function. skip is the
// number of additional stack frames to skip beyond WithLocation itself.
func (b *Builder) WithLocation(skip int) *Builder {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return b
	}
	fn := runtime.FuncForPC(pc)
	name := "unknown"
	if fn != nil {
		name = fn.Name()
	}
	b.err.Location = &Location{File: file, Line: line, Function: name}
	return b
}

func (b *Builder) Build() *Error { return b.err }

// Wrap converts an arbitrary error into an *Error of the given kind,
// preserving an existing *Error's kind if cause already is one.
func Wrap(kind Kind, message string, cause error) *Error {
	if cause == nil {
		return New(kind, message).Build()
	}
	var existing *Error
	if errors.As(cause, &existing) {
		return New(existing.Kind, message).Cause(cause).Build()
	}
	return New(kind, message).Cause(cause).Build()
}

// As reports whether err (or something it wraps) is an *Error, returning
// it for inspection.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, else
// InternalError.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return InternalError
}
