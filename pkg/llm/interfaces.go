// Package llm provides chat-completion clients used to synthesize
// training conversations.
package llm

import "context"

// Client defines the interface for chat-completion operations.
// Use this interface for dependency injection to enable mocking in tests.
type Client interface {
	// Generate produces a completion for prompt under the given system message.
	Generate(ctx context.Context, systemMessage, prompt string, temperature float64) (string, error)

	// GetModel returns the configured model name.
	GetModel() string
}
