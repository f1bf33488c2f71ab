package importer

import (
	"fmt"
	"strings"
)

// Format is the parser selected for a file.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// AcceptedExtensions is the file-input accept list rendered by the page.
const AcceptedExtensions = ".csv,.json"

// DetectFormat selects a parser from the declared MIME type.
// The match is a case-sensitive substring match and JSON wins when both
// substrings are present.
func DetectFormat(mimeType string) (Format, error) {
	switch {
	case strings.Contains(mimeType, "json"):
		return FormatJSON, nil
	case strings.Contains(mimeType, "csv"):
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, mimeType)
	}
}
