package ai

// ResponseKey is the key under which a Completer returns the model's text.
const ResponseKey = "raw_response"

// ProviderConfig holds the configuration needed to create an AI provider.
type ProviderConfig struct {
	Provider string // "openai" | "anthropic"
	APIKey   string
	Model    string
}

// CompletionRequest is a single-turn prompt.
type CompletionRequest struct {
	System    string
	Prompt    string
	MaxTokens int
}
