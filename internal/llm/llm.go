// Package llm wraps the upstream text-generation service behind a small
// interface so the planner service can be tested against a stub.
package llm

import (
	"context"
	"errors"
)

var (
	// ErrUnauthorized means the upstream rejected our API key. Not
	// transient; never retried.
	ErrUnauthorized = errors.New("llm: upstream rejected credentials")
	// ErrUnavailable covers transient upstream failures (timeouts, 5xx,
	// rate limits). Safe to retry a bounded number of times.
	ErrUnavailable = errors.New("llm: upstream unavailable")
)

// Generator produces text from a prompt. Implementations must honor the
// context deadline and classify failures as ErrUnauthorized or
// ErrUnavailable where possible.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
