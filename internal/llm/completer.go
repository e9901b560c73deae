// Package llm wraps the text-completion service behind a narrow interface so
// the evaluation and QA steps can run against a fake in tests.
package llm

import (
	"context"
	"errors"
)

// Request describes one completion call.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
	MaxTokens    int
	JSONMode     bool
}

// Completer issues a single completion request and returns the model text.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Sentinel errors for transport-level failure classes. Callers match with
// errors.Is to produce distinct user-facing messages.
var (
	ErrNotConfigured = errors.New("completion service not configured")
	ErrAuth          = errors.New("completion auth failed")
	ErrRateLimited   = errors.New("completion rate limited")
)
