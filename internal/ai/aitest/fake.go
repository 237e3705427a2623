// Package aitest provides a scripted ai.Completer for tests.
package aitest

import (
	"context"
	"sync"

	"github.com/hoanghai1803/cfeditorial/internal/ai"
)

// Completer replies with canned results in order. Once the script runs
// out, the last reply repeats.
type Completer struct {
	ModelName string

	mu       sync.Mutex
	replies  []Reply
	requests []ai.CompletionRequest
}

// Reply is one scripted completion outcome.
type Reply struct {
	Raw map[string]any
	Err error
}

var _ ai.Completer = (*Completer)(nil)

// New creates a Completer for model that returns replies in order.
func New(model string, replies ...Reply) *Completer {
	return &Completer{ModelName: model, replies: replies}
}

// Text is a well-formed reply carrying text.
func Text(text string) Reply {
	return Reply{Raw: map[string]any{ai.ResponseKey: text}}
}

func (c *Completer) Complete(ctx context.Context, req ai.CompletionRequest) (map[string]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requests = append(c.requests, req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(c.replies) == 0 {
		return map[string]any{ai.ResponseKey: ""}, nil
	}

	i := len(c.requests) - 1
	if i >= len(c.replies) {
		i = len(c.replies) - 1
	}
	r := c.replies[i]
	return r.Raw, r.Err
}

func (c *Completer) Model() string { return c.ModelName }

// Requests returns every request received so far.
func (c *Completer) Requests() []ai.CompletionRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ai.CompletionRequest(nil), c.requests...)
}
