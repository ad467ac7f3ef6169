package interfaces

import (
	"context"
)

// Message represents a single message in a model conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// GenerationService defines the interface for generative-model text
// completion. Implementations wrap cloud providers (Gemini, Claude); the
// quiz pipeline only depends on prompt-in, raw-text-out.
type GenerationService interface {
	// Generate produces a raw text reply for the given prompt. The reply
	// is not guaranteed to be well-formed; callers own parsing and
	// degradation.
	Generate(ctx context.Context, prompt string) (string, error)

	// HealthCheck verifies the service can reach its provider.
	HealthCheck(ctx context.Context) error

	// Close releases provider resources.
	Close() error
}
