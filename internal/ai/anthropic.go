package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Compile-time interface check.
var _ Completer = (*AnthropicProvider)(nil)

const (
	anthropicAPIURL           = "https://api.anthropic.com/v1/messages"
	anthropicDefaultMaxTokens = 4096
)

// AnthropicProvider implements Completer using the Anthropic Messages API.
type AnthropicProvider struct {
	apiKey string
	model  string
	apiURL string
	client *http.Client
}

// NewAnthropicProvider creates an AnthropicProvider with a 120-second
// timeout HTTP client.
func NewAnthropicProvider(apiKey, model string) *AnthropicProvider {
	return &AnthropicProvider{
		apiKey: apiKey,
		model:  model,
		apiURL: anthropicAPIURL,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// anthropicRequest is the request body for the Anthropic Messages API.
type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature"`
}

// anthropicMessage is a single message in the Anthropic request.
type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicResponse is the response body from the Anthropic Messages API.
type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Model returns the configured model name.
func (p *AnthropicProvider) Model() string {
	return p.model
}

// Complete sends req to the Messages API.
func (p *AnthropicProvider) Complete(ctx context.Context, req CompletionRequest) (map[string]any, error) {
	text, err := withRetry(ctx, "anthropic", func() (string, error) {
		return p.callAPI(ctx, req)
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic completion: %w", err)
	}
	return map[string]any{ResponseKey: text}, nil
}

// callAPI makes an HTTP request to the Anthropic Messages API and returns
// the concatenated text blocks.
func (p *AnthropicProvider) callAPI(ctx context.Context, req CompletionRequest) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	reqBody := anthropicRequest{
		Model:     p.model,
		MaxTokens: maxTokens,
		System:    req.System,
		Messages: []anthropicMessage{
			{Role: "user", Content: req.Prompt},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")
	httpReq.Header.Set("content-type", "application/json")

	slog.Debug("calling Anthropic API", "model", p.model, "max_tokens", maxTokens)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", &statusError{status: resp.StatusCode}
		}
		return "", fmt.Errorf("parsing response (status %d): %w", resp.StatusCode, err)
	}

	if apiResp.Error != nil {
		return "", &statusError{status: resp.StatusCode, message: apiResp.Error.Message}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &statusError{status: resp.StatusCode}
	}

	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("empty response: no content blocks returned")
	}

	var text string
	for _, block := range apiResp.Content {
		if block.Type == "" || block.Type == "text" {
			text += block.Text
		}
	}
	return text, nil
}
