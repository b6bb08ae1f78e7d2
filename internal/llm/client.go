// Package llm provides the blocking text-generation client used by the
// planning collaborators. The core planner never imports this package
// directly; it sees collaborators through narrow interfaces and treats
// every call as an opaque blocking operation.
package llm

import "context"

// GenerateRequest is a single completion request.
type GenerateRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Client generates text for a prompt. Implementations must be safe for
// sequential reuse; concurrent use is not required.
type Client interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, req GenerateRequest) (string, error)

func (f ClientFunc) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	return f(ctx, req)
}
