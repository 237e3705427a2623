package tutorial

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

// buildPDF renders one page per entry of pages.
func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.SetFont("Helvetica", "", 12)
	for _, text := range pages {
		pdf.AddPage()
		pdf.Cell(40, 10, text)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("rendering pdf: %v", err)
	}
	return buf.Bytes()
}

func TestExtractPDFText(t *testing.T) {
	data := buildPDF(t, "ALPHA", "BRAVO")

	text, err := ExtractPDFText(data)
	if err != nil {
		t.Fatalf("ExtractPDFText() error: %v", err)
	}

	first := strings.Index(text, "ALPHA")
	second := strings.Index(text, "BRAVO")
	if first < 0 || second < 0 {
		t.Fatalf("ExtractPDFText() = %q, want both pages", text)
	}
	if first > second {
		t.Errorf("pages out of order in %q", text)
	}
	if !strings.Contains(text[first:second], "\n\n") {
		t.Errorf("pages not separated by a blank line in %q", text)
	}
}

func TestExtractPDFText_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not a pdf", []byte("<html>hello</html>")},
		{"truncated", []byte("%PDF-1.4\n1 0 obj\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ExtractPDFText(tt.data); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestJoinPages(t *testing.T) {
	got := joinPages([]string{"one", "", "three"})
	want := "one\n\n\n\nthree"
	if got != want {
		t.Errorf("joinPages() = %q, want %q", got, want)
	}
}
