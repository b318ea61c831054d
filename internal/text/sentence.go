package text

import "strings"

// sentenceEnd reports whether r terminates a sentence, in either Chinese or
// Latin punctuation.
func sentenceEnd(r rune) bool {
	switch r {
	case '。', '！', '？', '；', '.', '!', '?', ';':
		return true
	}
	return false
}

// SplitSentences splits text after every sentence terminator, keeping the
// terminator attached to its sentence. Surrounding whitespace is trimmed and
// empty segments are dropped.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0

	for i, r := range text {
		if sentenceEnd(r) {
			end := i + len(string(r))
			if s := strings.TrimSpace(text[start:end]); s != "" {
				sentences = append(sentences, s)
			}
			start = end
		}
	}

	// Trailing text after the last terminator (if any).
	if start < len(text) {
		if s := strings.TrimSpace(text[start:]); s != "" {
			sentences = append(sentences, s)
		}
	}

	return sentences
}
