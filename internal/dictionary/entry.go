// Package dictionary holds the character-to-pinyin table that every
// conversion and encoding in this module is based on.
//
// A Store is built once from a Source (the external dictionary resource) and
// an optional second Source of caller-supplied entries. It is read-only
// afterwards and safe for concurrent lookups.
package dictionary

// Field names every dictionary entry must carry.
const (
	FieldConsonant = "consonant"
	FieldVowel     = "vowel"
	FieldTone      = "tone"
)

// requiredFields lists the entry fields in validation order.
var requiredFields = []string{FieldConsonant, FieldVowel, FieldTone}

// Entry is the decomposed pronunciation of one dictionary key.
type Entry struct {
	Consonant string `json:"consonant" yaml:"consonant"`
	Vowel     string `json:"vowel"     yaml:"vowel"`
	Tone      string `json:"tone"      yaml:"tone"`
}

// Unknown is returned by Lookup for keys that are not in the dictionary.
// It is never stored and renders as "unknown".
var Unknown = Entry{Consonant: "un", Vowel: "know", Tone: "n"}

// String renders the entry as consonant, vowel and tone without separators,
// e.g. "hao3".
func (e Entry) String() string {
	return e.Consonant + e.Vowel + e.Tone
}

// Fields is an untyped dictionary entry as read from a resource, before it
// has been checked for completeness.
type Fields map[string]string

// Entry converts f to an Entry. It returns the name of the first required
// field that is absent; an empty value counts as present.
func (f Fields) Entry() (Entry, string) {
	for _, name := range requiredFields {
		if _, ok := f[name]; !ok {
			return Entry{}, name
		}
	}
	return Entry{
		Consonant: f[FieldConsonant],
		Vowel:     f[FieldVowel],
		Tone:      f[FieldTone],
	}, ""
}

// FieldsOf is the inverse of Fields.Entry.
func FieldsOf(e Entry) Fields {
	return Fields{
		FieldConsonant: e.Consonant,
		FieldVowel:     e.Vowel,
		FieldTone:      e.Tone,
	}
}
