package ai

import "testing"

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name      string
		raw       map[string]any
		wantValid bool
		wantText  string
	}{
		{"string", map[string]any{ResponseKey: "solution"}, true, "solution"},
		{"empty string", map[string]any{ResponseKey: ""}, true, ""},
		{"extra keys", map[string]any{ResponseKey: "x", "usage": 10}, true, "x"},
		{"nil map", nil, false, ""},
		{"missing key", map[string]any{"text": "solution"}, false, ""},
		{"null", map[string]any{ResponseKey: nil}, false, ""},
		{"number", map[string]any{ResponseKey: 42}, false, ""},
		{"float", map[string]any{ResponseKey: 4.2}, false, ""},
		{"list", map[string]any{ResponseKey: []any{"a"}}, false, ""},
		{"mapping", map[string]any{ResponseKey: map[string]any{"text": "a"}}, false, ""},
		{"bool", map[string]any{ResponseKey: true}, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			switch r := ValidateResponse(tt.raw).(type) {
			case ValidResponse:
				if !tt.wantValid {
					t.Fatalf("ValidateResponse() = ValidResponse(%q), want MalformedResponse", r.Text)
				}
				if r.Text != tt.wantText {
					t.Errorf("Text = %q, want %q", r.Text, tt.wantText)
				}
			case MalformedResponse:
				if tt.wantValid {
					t.Fatalf("ValidateResponse() = MalformedResponse(%q), want ValidResponse", r.Reason)
				}
				if r.Reason == "" {
					t.Error("MalformedResponse.Reason should not be empty")
				}
			default:
				t.Fatalf("ValidateResponse() returned unexpected type %T", r)
			}
		})
	}
}
