package driven

import "context"

// LLMService provides the generative-model capability for answer
// composition. It is consumed as an opaque external capability; no
// training or fine-tuning happens here.
//
// Implementations may include:
//   - OpenAI (GPT-4o family)
//   - Any OpenAI-compatible chat completion server
type LLMService interface {
	// Chat conducts a multi-turn exchange and returns the model's text.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
