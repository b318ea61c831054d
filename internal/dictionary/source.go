package dictionary

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// Source yields dictionary entries one by one, in a stable order.
// It returns io.EOF when the stream is exhausted.
type Source interface {
	Next() (key string, fields Fields, err error)
}

// Format identifies the encoding of a dictionary resource.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for resources whose format cannot be told
// from the file name.
var ErrUnknownFormat = errors.New("unknown dictionary format")

// FormatFromPath derives the resource format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q (want .json, .yaml or .yml)", ErrUnknownFormat, path)
	}
}

// NewSource returns the adapter for format f reading from r.
func NewSource(r io.Reader, f Format) (Source, error) {
	switch f {
	case FormatJSON:
		return NewJSONSource(r), nil
	case FormatYAML:
		return NewYAMLSource(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// OpenFile reads the dictionary resource at path. The file is read eagerly
// and closed before OpenFile returns.
func OpenFile(path string) (Source, error) {
	if path == "" {
		return nil, errors.New("dictionary path is required")
	}
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	return NewSource(bytes.NewReader(data), f)
}

// --- JSON ------------------------------------------------------------------

// JSONSource streams entries from a JSON object of the form
//
//	{"好": {"consonant": "h", "vowel": "ao", "tone": "3"}, ...}
//
// in document order.
type JSONSource struct {
	dec     *json.Decoder
	started bool
	done    bool
}

// NewJSONSource wraps r in a streaming JSON adapter.
func NewJSONSource(r io.Reader) *JSONSource {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &JSONSource{dec: dec}
}

// Next returns the next key and its fields.
func (s *JSONSource) Next() (string, Fields, error) {
	if s.done {
		return "", nil, io.EOF
	}
	if !s.started {
		tok, err := s.dec.Token()
		if err == io.EOF {
			s.done = true
			return "", nil, io.EOF
		}
		if err != nil {
			return "", nil, fmt.Errorf("decode dictionary: %w", err)
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return "", nil, errors.New("decode dictionary: top level must be a JSON object")
		}
		s.started = true
	}
	if !s.dec.More() {
		if _, err := s.dec.Token(); err != nil { // closing '}'
			return "", nil, fmt.Errorf("decode dictionary: %w", err)
		}
		if _, err := s.dec.Token(); err != io.EOF {
			return "", nil, errors.New("decode dictionary: trailing data after the top-level object")
		}
		s.done = true
		return "", nil, io.EOF
	}
	tok, err := s.dec.Token()
	if err != nil {
		return "", nil, fmt.Errorf("decode dictionary: %w", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", nil, fmt.Errorf("decode dictionary: unexpected token %v", tok)
	}
	var raw map[string]any
	if err := s.dec.Decode(&raw); err != nil {
		return "", nil, fmt.Errorf("decode dictionary entry %q: %w", key, err)
	}
	fields, err := toFields(raw)
	if err != nil {
		return "", nil, fmt.Errorf("decode dictionary entry %q: %w", key, err)
	}
	return key, fields, nil
}

// --- in-memory -------------------------------------------------------------

type sliceSource struct {
	keys   []string
	fields []Fields
	index  int
}

func (s *sliceSource) Next() (string, Fields, error) {
	if s.index >= len(s.keys) {
		return "", nil, io.EOF
	}
	i := s.index
	s.index++
	return s.keys[i], s.fields[i], nil
}

// MapSource serves untyped entries from memory in lexicographic key order.
// It is the form a caller-supplied user dictionary usually takes.
func MapSource(m map[string]Fields) Source {
	keys := sortedKeys(m)
	src := &sliceSource{keys: keys, fields: make([]Fields, len(keys))}
	for i, k := range keys {
		src.fields[i] = m[k]
	}
	return src
}

// EntrySource serves complete entries from memory in lexicographic key order.
func EntrySource(m map[string]Entry) Source {
	keys := sortedKeys(m)
	src := &sliceSource{keys: keys, fields: make([]Fields, len(keys))}
	for i, k := range keys {
		src.fields[i] = FieldsOf(m[k])
	}
	return src
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// toFields flattens a decoded entry object into string fields. Integer
// values ("tone": 3) are accepted and rendered in decimal, so a YAML 03 loads
// as "3". Non-integer numbers are rejected and null values are treated as
// absent.
func toFields(raw map[string]any) (Fields, error) {
	fields := make(Fields, len(raw))
	for name, v := range raw {
		s, ok, err := scalarString(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		if ok {
			fields[name] = s
		}
	}
	return fields, nil
}

func scalarString(v any) (string, bool, error) {
	switch x := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return x, true, nil
	case json.Number:
		n, err := strconv.ParseInt(x.String(), 10, 64)
		if err != nil {
			return "", false, fmt.Errorf("unsupported non-integer number %s", x)
		}
		return strconv.FormatInt(n, 10), true, nil
	case bool:
		return "", false, fmt.Errorf("unsupported boolean value %v", x)
	case int, int64, uint64:
		return fmt.Sprint(x), true, nil
	case float64:
		return "", false, fmt.Errorf("unsupported non-integer number %v", x)
	default:
		return "", false, fmt.Errorf("unsupported value of type %T", v)
	}
}
