package pinyin

import (
	"slices"

	"github.com/example/go-pinyin/internal/dictionary"
)

// UnknownCode is the code for characters and syllables that have no index.
// Valid codes are always >= 0.
const UnknownCode = -1

// Codebook holds the two dense index tables derived from a dictionary.
//
// Pinyin codes are assigned to the distinct rendered syllables in
// lexicographic (byte) order, so they depend only on the dictionary
// contents. Hanzi codes follow the store's key order.
type Codebook struct {
	pinyin      map[string]int
	pinyinVocab []string
	hanzi       map[string]int
	hanziVocab  []string
}

// NewCodebook derives both index tables from store.
func NewCodebook(store *dictionary.Store) *Codebook {
	seen := make(map[string]struct{}, store.Len())
	syllables := make([]string, 0, store.Len())
	hanzi := make(map[string]int, store.Len())
	hanziVocab := make([]string, 0, store.Len())

	for key, e := range store.All() {
		hanzi[key] = len(hanziVocab)
		hanziVocab = append(hanziVocab, key)

		s := e.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		syllables = append(syllables, s)
	}
	slices.Sort(syllables)

	pinyin := make(map[string]int, len(syllables))
	for i, s := range syllables {
		pinyin[s] = i
	}

	return &Codebook{
		pinyin:      pinyin,
		pinyinVocab: syllables,
		hanzi:       hanzi,
		hanziVocab:  hanziVocab,
	}
}

// Pinyin returns the code of a rendered syllable such as "hao3".
func (cb *Codebook) Pinyin(syllable string) int {
	if code, ok := cb.pinyin[syllable]; ok {
		return code
	}
	return UnknownCode
}

// Hanzi returns the code of a dictionary key.
func (cb *Codebook) Hanzi(key string) int {
	if code, ok := cb.hanzi[key]; ok {
		return code
	}
	return UnknownCode
}

// PinyinVocab returns the syllables indexed by code.
func (cb *Codebook) PinyinVocab() []string {
	return append([]string(nil), cb.pinyinVocab...)
}

// HanziVocab returns the dictionary keys indexed by code.
func (cb *Codebook) HanziVocab() []string {
	return append([]string(nil), cb.hanziVocab...)
}

// PinyinAt maps a code back to its syllable. Unknown or out-of-range codes
// give dictionary.Unknown's rendering.
func (cb *Codebook) PinyinAt(code int) string {
	if code < 0 || code >= len(cb.pinyinVocab) {
		return dictionary.Unknown.String()
	}
	return cb.pinyinVocab[code]
}

// HanziAt maps a code back to its dictionary key, or "" if there is none.
func (cb *Codebook) HanziAt(code int) string {
	if code < 0 || code >= len(cb.hanziVocab) {
		return ""
	}
	return cb.hanziVocab[code]
}
