package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestCachedEditorial_IsExpired(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		cachedAt time.Time
		ttl      int
		want     bool
	}{
		{"fresh", now.Add(-1 * time.Hour), DefaultTTLHours, false},
		{"just inside window", now.Add(-167 * time.Hour), DefaultTTLHours, false},
		{"exactly at ttl", now.Add(-168 * time.Hour), DefaultTTLHours, false},
		{"past ttl", now.Add(-169 * time.Hour), DefaultTTLHours, true},
		{"short ttl", now.Add(-2 * time.Hour), 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &CachedEditorial{CachedAt: tt.cachedAt, TTLHours: tt.ttl}
			if got := c.IsExpired(now); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCachedEditorial_WireFormat(t *testing.T) {
	source := "https://codeforces.com/blog/entry/12345"
	extracted := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	cached := time.Date(2026, 1, 2, 3, 5, 0, 0, time.UTC)

	in := &CachedEditorial{
		Problem: ProblemIdentifier{ContestID: "1234", ProblemIndex: "B1", IsGym: false},
		Editorial: Editorial{
			ProblemID:    "1234B1",
			SolutionText: "Use a prefix sum.",
			SourceURL:    &source,
			ExtractedAt:  extracted,
			CodeSnippets: []CodeSnippet{{Language: "cpp", Code: "int main() {}"}},
			Hints:        []string{},
			AIModel:      "gpt-4o",
		},
		TutorialURL:    source,
		TutorialFormat: FormatHTML,
		CachedAt:       cached,
		TTLHours:       DefaultTTLHours,
	}

	data, err := MarshalCachedEditorial(in)
	if err != nil {
		t.Fatalf("MarshalCachedEditorial() error: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("decoding raw JSON: %v", err)
	}
	for _, key := range []string{"problem", "editorial", "tutorial_url", "tutorial_format", "cached_at", "ttl_hours"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("wire format missing key %q", key)
		}
	}
	problem, _ := raw["problem"].(map[string]any)
	for _, key := range []string{"contest_id", "problem_index", "is_gym"} {
		if _, ok := problem[key]; !ok {
			t.Errorf("problem missing key %q", key)
		}
	}
	if got, _ := raw["cached_at"].(string); !strings.HasPrefix(got, "2026-01-02T03:05:00") {
		t.Errorf("cached_at = %q, want ISO-8601 timestamp", got)
	}

	out, err := UnmarshalCachedEditorial(data)
	if err != nil {
		t.Fatalf("UnmarshalCachedEditorial() error: %v", err)
	}
	if out.Problem != in.Problem {
		t.Errorf("Problem = %+v, want %+v", out.Problem, in.Problem)
	}
	if out.Editorial.SolutionText != in.Editorial.SolutionText {
		t.Errorf("SolutionText = %q, want %q", out.Editorial.SolutionText, in.Editorial.SolutionText)
	}
	if out.Editorial.SourceURL == nil || *out.Editorial.SourceURL != source {
		t.Errorf("SourceURL = %v, want %q", out.Editorial.SourceURL, source)
	}
	if !out.Editorial.ExtractedAt.Equal(extracted) {
		t.Errorf("ExtractedAt = %v, want %v", out.Editorial.ExtractedAt, extracted)
	}
	if !out.CachedAt.Equal(cached) {
		t.Errorf("CachedAt = %v, want %v", out.CachedAt, cached)
	}
	if out.TutorialFormat != FormatHTML {
		t.Errorf("TutorialFormat = %q, want %q", out.TutorialFormat, FormatHTML)
	}
	if out.TTLHours != DefaultTTLHours {
		t.Errorf("TTLHours = %d, want %d", out.TTLHours, DefaultTTLHours)
	}
	if len(out.Editorial.CodeSnippets) != 1 || out.Editorial.CodeSnippets[0].Language != "cpp" {
		t.Errorf("CodeSnippets = %+v, want one cpp snippet", out.Editorial.CodeSnippets)
	}
}

func TestUnmarshalCachedEditorial_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "editorial"},
		{"empty object", "{}"},
		{"missing editorial", `{"problem":{"contest_id":"1","problem_index":"A"}}`},
		{"wrong type", `{"problem":"1A"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := UnmarshalCachedEditorial([]byte(tt.data)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseTutorialFormat(t *testing.T) {
	tests := []struct {
		in   string
		want TutorialFormat
	}{
		{"html", FormatHTML},
		{"pdf", FormatPDF},
		{"unknown", FormatUnknown},
		{"docx", FormatUnknown},
		{"", FormatUnknown},
	}
	for _, tt := range tests {
		if got := ParseTutorialFormat(tt.in); got != tt.want {
			t.Errorf("ParseTutorialFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
