package ai

import "fmt"

// Response is the validated shape of a raw completion result. It is
// either ValidResponse or MalformedResponse.
type Response interface {
	isResponse()
}

// ValidResponse carries the model's reply text. Text may be empty.
type ValidResponse struct {
	Text string
}

// MalformedResponse explains why a raw result was rejected.
type MalformedResponse struct {
	Reason string
}

func (ValidResponse) isResponse()     {}
func (MalformedResponse) isResponse() {}

// ValidateResponse checks that raw holds a string under ResponseKey.
func ValidateResponse(raw map[string]any) Response {
	if raw == nil {
		return MalformedResponse{Reason: "completion result is empty"}
	}
	v, ok := raw[ResponseKey]
	if !ok {
		return MalformedResponse{Reason: fmt.Sprintf("completion result has no %q key", ResponseKey)}
	}
	text, ok := v.(string)
	if !ok {
		return MalformedResponse{Reason: fmt.Sprintf("%q must be a string, got %T", ResponseKey, v)}
	}
	return ValidResponse{Text: text}
}
