package pinyin

import "encoding/json"

// Kind tells which field of a Result or Codes value is populated.
type Kind int

const (
	KindScalar Kind = iota // Result.Text, Codes.Code
	KindSeq                // Result.Syllables, Codes.Seq
	KindList               // Result.Items, Codes.Items
)

// Result is the output of Render. Its shape mirrors the input: a Single
// input gives Text (joined) or Syllables, a Flat or Nested input gives one
// Item per element.
type Result struct {
	Kind      Kind
	Text      string
	Syllables []string
	Items     []Result
}

// MarshalJSON encodes the populated level only, so a joined Single result
// becomes a JSON string and a Flat result a JSON array.
func (r Result) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case KindScalar:
		return json.Marshal(r.Text)
	case KindSeq:
		if r.Syllables == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(r.Syllables)
	default:
		if r.Items == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(r.Items)
	}
}

// Strings flattens r into its leaf strings in order.
func (r Result) Strings() []string {
	switch r.Kind {
	case KindScalar:
		return []string{r.Text}
	case KindSeq:
		return append([]string(nil), r.Syllables...)
	default:
		var out []string
		for _, it := range r.Items {
			out = append(out, it.Strings()...)
		}
		return out
	}
}

// Codes is the output of the encoders, shaped like Result.
type Codes struct {
	Kind  Kind
	Code  int
	Seq   []int
	Items []Codes
}

// MarshalJSON encodes the populated level only.
func (c Codes) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case KindScalar:
		return json.Marshal(c.Code)
	case KindSeq:
		if c.Seq == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(c.Seq)
	default:
		if c.Items == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(c.Items)
	}
}

// Rows returns the innermost code sequences in order, for batching into a
// tensor. A scalar becomes a one-element row.
func (c Codes) Rows() [][]int {
	switch c.Kind {
	case KindScalar:
		return [][]int{{c.Code}}
	case KindSeq:
		return [][]int{append([]int(nil), c.Seq...)}
	default:
		var rows [][]int
		for _, it := range c.Items {
			rows = append(rows, it.Rows()...)
		}
		return rows
	}
}
