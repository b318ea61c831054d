// Package testutil provides shared dictionary fixtures and skip helpers for
// tests.
//
// Typical usage:
//
//	func TestMyConversion(t *testing.T) {
//	    conv := testutil.NewConverter(t)
//	    ...
//	}
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/go-pinyin/internal/dictionary"
	"github.com/example/go-pinyin/internal/pinyin"
)

// SampleDictionary is a small base dictionary in resource order. Its sorted
// syllables are a1 bu4 dao4 fa1 hao3 na3 ni3.
const SampleDictionary = `{
	"你": {"consonant": "n", "vowel": "i", "tone": "3"},
	"好": {"consonant": "h", "vowel": "ao", "tone": "3"},
	"啊": {"consonant": "", "vowel": "a", "tone": "1"},
	"不": {"consonant": "b", "vowel": "u", "tone": "4"},
	"发": {"consonant": "f", "vowel": "a", "tone": "1"},
	"到": {"consonant": "d", "vowel": "ao", "tone": "4"},
	"哪": {"consonant": "n", "vowel": "a", "tone": "3"}
}`

// SampleUserEntries is the user dictionary used by the demo.
const SampleUserEntries = `{
	"book": {"consonant": "bu", "vowel": "ke", "tone": "4"}
}`

// WriteDictionary writes content to name inside a fresh temporary directory
// and returns its path.
func WriteDictionary(tb testing.TB, name, content string) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		tb.Fatalf("write dictionary %s: %v", path, err)
	}
	return path
}

// NewStore builds a store from SampleDictionary and the given user entries.
func NewStore(tb testing.TB, user map[string]dictionary.Entry) *dictionary.Store {
	tb.Helper()

	store, err := dictionary.NewFromEntries(dictionary.NewJSONSource(strings.NewReader(SampleDictionary)), user)
	if err != nil {
		tb.Fatalf("build sample store: %v", err)
	}
	return store
}

// NewConverter returns a converter over SampleDictionary without user entries.
func NewConverter(tb testing.TB) *pinyin.Converter {
	tb.Helper()
	return pinyin.New(NewStore(tb, nil))
}

// RequireFile skips the test if path does not exist relative to the current
// working directory.
func RequireFile(tb testing.TB, path string) {
	tb.Helper()

	if _, err := os.Stat(path); err != nil {
		tb.Skipf("fixture %q not available: %v", path, err)
	}
}
