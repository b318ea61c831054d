// Package pinyin renders Chinese text as pinyin syllables and encodes
// characters and syllables as dense integer codes for model input.
//
// A Converter is built from a dictionary.Store. Both code tables are derived
// when the Converter is created, so every method is read-only and the
// Converter can be shared between goroutines.
package pinyin

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/go-pinyin/internal/dictionary"
)

// Converter applies a dictionary and its code tables to text.
type Converter struct {
	store    *dictionary.Store
	codebook *Codebook
}

type options struct {
	logger *slog.Logger
}

// Option configures New.
type Option func(*options)

// WithLogger sets the logger used during construction.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New returns a Converter over store and builds its code tables.
func New(store *dictionary.Store, optFns ...Option) *Converter {
	opts := options{logger: slog.Default()}
	for _, fn := range optFns {
		fn(&opts)
	}

	cb := NewCodebook(store)
	opts.logger.Debug("codebook built",
		slog.Int("hanzi", len(cb.hanziVocab)),
		slog.Int("pinyin", len(cb.pinyinVocab)),
	)

	return &Converter{store: store, codebook: cb}
}

// Store returns the dictionary the Converter was built from.
func (c *Converter) Store() *dictionary.Store { return c.store }

// Codebook returns the Converter's code tables.
func (c *Converter) Codebook() *Codebook { return c.codebook }

// Syllables renders each character of s as one syllable. With nosplit the
// whole of s is looked up as a single key.
func (c *Converter) Syllables(s string, nosplit bool) []string {
	if nosplit {
		return []string{c.store.Lookup(s).String()}
	}
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, c.store.Lookup(string(r)).String())
	}
	return out
}

// RenderString is Render for a Single input, returning the joined form.
func (c *Converter) RenderString(s string, nosplit bool) string {
	return strings.Join(c.Syllables(s, nosplit), " ")
}

// Render converts in to pinyin. With join the syllables of each string are
// joined by single spaces, otherwise they are returned one per character.
//
// nosplit only applies to a Single input. Elements of Flat and Nested inputs
// are always split into characters.
func (c *Converter) Render(in Input, join, nosplit bool) Result {
	switch v := in.(type) {
	case Single:
		syllables := c.Syllables(string(v), nosplit)
		if join {
			return Result{Kind: KindScalar, Text: strings.Join(syllables, " ")}
		}
		return Result{Kind: KindSeq, Syllables: syllables}
	case Flat:
		items := make([]Result, len(v))
		for i, s := range v {
			items[i] = c.Render(Single(s), join, false)
		}
		return Result{Kind: KindList, Items: items}
	case Nested:
		items := make([]Result, len(v))
		for i, seq := range v {
			items[i] = c.Render(Flat(seq), join, false)
		}
		return Result{Kind: KindList, Items: items}
	default:
		panic(fmt.Sprintf("pinyin: unsupported input %T", in))
	}
}

// EncodePinyin maps rendered syllables to their codes: a Single gives one
// code, a Flat one code per element and a Nested one sequence per element.
// Syllables outside the dictionary get UnknownCode.
func (c *Converter) EncodePinyin(in Input) Codes {
	switch v := in.(type) {
	case Single:
		return Codes{Kind: KindScalar, Code: c.codebook.Pinyin(string(v))}
	case Flat:
		seq := make([]int, len(v))
		for i, s := range v {
			seq[i] = c.codebook.Pinyin(s)
		}
		return Codes{Kind: KindSeq, Seq: seq}
	case Nested:
		items := make([]Codes, len(v))
		for i, seq := range v {
			items[i] = c.EncodePinyin(Flat(seq))
		}
		return Codes{Kind: KindList, Items: items}
	default:
		panic(fmt.Sprintf("pinyin: unsupported input %T", in))
	}
}

// EncodeRendered maps a Render result to pinyin codes, keeping its shape.
// Joined text is looked up as one syllable.
func (c *Converter) EncodeRendered(r Result) Codes {
	switch r.Kind {
	case KindScalar:
		return c.EncodePinyin(Single(r.Text))
	case KindSeq:
		return c.EncodePinyin(Flat(r.Syllables))
	default:
		items := make([]Codes, len(r.Items))
		for i, it := range r.Items {
			items[i] = c.EncodeRendered(it)
		}
		return Codes{Kind: KindList, Items: items}
	}
}

// EncodeHanzi maps every character to its dictionary key code. A Single
// gives one sequence; Flat and Nested inputs give one result per element.
func (c *Converter) EncodeHanzi(in Input) Codes {
	switch v := in.(type) {
	case Single:
		seq := make([]int, 0, len(v))
		for _, r := range string(v) {
			seq = append(seq, c.codebook.Hanzi(string(r)))
		}
		return Codes{Kind: KindSeq, Seq: seq}
	case Flat:
		items := make([]Codes, len(v))
		for i, s := range v {
			items[i] = c.EncodeHanzi(Single(s))
		}
		return Codes{Kind: KindList, Items: items}
	case Nested:
		items := make([]Codes, len(v))
		for i, seq := range v {
			items[i] = c.EncodeHanzi(Flat(seq))
		}
		return Codes{Kind: KindList, Items: items}
	default:
		panic(fmt.Sprintf("pinyin: unsupported input %T", in))
	}
}

// EncodePronunciation renders in without joining and encodes the syllables.
// A Single gives one code per character.
func (c *Converter) EncodePronunciation(in Input) Codes {
	return c.EncodeRendered(c.Render(in, false, false))
}
