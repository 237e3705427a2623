package ai

import (
	"context"
	"fmt"
)

// Completer is the text completion capability used to locate and extract
// editorials.
type Completer interface {
	// Complete sends req to the model. The result maps ResponseKey to the
	// model's reply; callers validate its shape with ValidateResponse.
	Complete(ctx context.Context, req CompletionRequest) (map[string]any, error)

	// Model names the model behind this Completer.
	Model() string
}

// NewProvider creates the appropriate provider based on config.
func NewProvider(cfg ProviderConfig) (Completer, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(cfg.APIKey, cfg.Model), nil
	case "anthropic":
		return NewAnthropicProvider(cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
}
