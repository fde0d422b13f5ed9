// Package rephrase turns a plain productivity suggestion into a motivational
// variant through an external text service.
package rephrase

import (
	"context"
	"errors"
	"fmt"
)

var ErrEmptyResponse = errors.New("rephrase: empty response")

// Rephraser transforms text. Implementations may block and may fail.
type Rephraser interface {
	Rephrase(ctx context.Context, text string) (string, error)
}

// Func adapts a plain function to Rephraser.
type Func func(ctx context.Context, text string) (string, error)

func (f Func) Rephrase(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// Passthrough returns its input unchanged. It is selected explicitly for
// offline use and is never used as a fallback.
type Passthrough struct{}

func (Passthrough) Rephrase(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &Error{Provider: "passthrough", Err: err}
	}
	return text, nil
}

// Error reports a failed rephrase call.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("rephrase: %s: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// APIError carries a non-2xx response from the provider.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api status %d", e.StatusCode)
	}
	return fmt.Sprintf("api status %d: %s", e.StatusCode, e.Message)
}

// Prompt wraps a base suggestion in the instruction sent to the model.
func Prompt(base string) string {
	return fmt.Sprintf("Rephrase this productivity suggestion in an upbeat, motivational way,\nkeeping it short and friendly:\n%q", base)
}

const (
	ProviderGemini      = "gemini"
	ProviderPassthrough = "passthrough"
)

// New builds the rephraser named by provider.
func New(provider string, opts GeminiOptions) (Rephraser, error) {
	switch provider {
	case "", ProviderGemini:
		return NewGemini(opts), nil
	case ProviderPassthrough:
		return Passthrough{}, nil
	default:
		return nil, fmt.Errorf("rephrase: unknown provider %q", provider)
	}
}
