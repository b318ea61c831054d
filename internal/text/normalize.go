package text

import (
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// ErrEmptyText is returned when the input text is empty or whitespace-only.
var ErrEmptyText = errors.New("text is empty")

// Normalize prepares raw input text for conversion.
// It normalizes line endings to \n, trims surrounding whitespace and rejects
// empty or whitespace-only input.
func Normalize(s string) (string, error) {
	// Normalize line endings: CRLF → LF, then bare CR → LF.
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	s = strings.TrimSpace(s)

	if s == "" {
		return "", ErrEmptyText
	}

	return s, nil
}

// Fold brings s into the form dictionary keys are stored in: canonical
// composition (NFC) with full-width Latin letters, digits and punctuation
// folded to ASCII, so "ＡＢＣ" becomes "ABC". CJK ideographs and ideographic
// punctuation such as "。" are left untouched.
func Fold(s string) string {
	return width.Fold.String(norm.NFC.String(s))
}
