package llm

import (
	"context"
)

// Client is the generative-model collaborator. A nil Client means the model
// is permanently unavailable, which is a supported configuration.
type Client interface {
	// ChatCompletion sends a non-streaming chat completion request.
	ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}
