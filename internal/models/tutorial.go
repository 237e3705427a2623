package models

// TutorialFormat is the source format a tutorial was normalized from.
type TutorialFormat string

const (
	FormatHTML    TutorialFormat = "html"
	FormatPDF     TutorialFormat = "pdf"
	FormatUnknown TutorialFormat = "unknown"
)

// ParseTutorialFormat maps a stored format name back to a TutorialFormat,
// falling back to FormatUnknown.
func ParseTutorialFormat(s string) TutorialFormat {
	switch TutorialFormat(s) {
	case FormatHTML:
		return FormatHTML
	case FormatPDF:
		return FormatPDF
	default:
		return FormatUnknown
	}
}

// TutorialDocument is a tutorial reduced to plain text.
type TutorialDocument struct {
	URL     string
	Format  TutorialFormat
	Content string
	Title   *string
	Author  *string

	// Raw holds the original bytes for PDF sources only.
	Raw []byte
}
