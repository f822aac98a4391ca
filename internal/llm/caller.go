// Package llm bridges compile-time metadata to runtime behavior for
// LLM-derived primitives: it crafts prompts from docstrings and declared
// types, invokes an external caller, parses the model's text into a typed
// value, and falls back to the function's original lambda on any failure.
package llm

import (
	"context"
	"errors"
)

// Request is one model invocation. ID is a fresh UUID per call, for logs
// and cache bookkeeping.
type Request struct {
	ID          string
	Prompt      string
	Model       string
	Temperature float64
}

// Caller is the transport capability the host injects. The core runtime
// never sees HTTP details; a timeout or transport error is indistinguishable
// from any other failure and routes to the fallback lambda.
type Caller interface {
	Call(ctx context.Context, req Request) (string, error)
}

// CallerFunc adapts a function to the Caller interface, mostly for tests.
type CallerFunc func(ctx context.Context, req Request) (string, error)

func (f CallerFunc) Call(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// ErrNotConfigured is returned by the caller used when no endpoint is set.
// Every LLM function then runs offline through its fallback.
var ErrNotConfigured = errors.New("llm: no backend configured")

// Unconfigured returns a Caller that always fails with ErrNotConfigured.
func Unconfigured() Caller {
	return CallerFunc(func(context.Context, Request) (string, error) {
		return "", ErrNotConfigured
	})
}
