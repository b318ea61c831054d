package dictionary

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
)

// Store maps dictionary keys to entries. Keys keep a deterministic order:
// base entries in resource order, followed by keys that only the user
// dictionary defines, in user source order. A user entry that overrides a
// base key keeps the base key's position.
type Store struct {
	entries map[string]Entry
	keys    []string
}

type options struct {
	logger *slog.Logger
}

// Option configures New.
type Option func(*options)

// WithLogger sets the logger that receives load statistics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

type record struct {
	key    string
	fields Fields
}

// New loads the base dictionary from base and merges the entries of user
// over it. user may be nil.
//
// All user entries are read and validated before anything is merged: if one
// lacks a required field New returns a *ValidationError naming it and no
// Store.
func New(base Source, user Source, optFns ...Option) (*Store, error) {
	opts := options{logger: slog.Default()}
	for _, fn := range optFns {
		fn(&opts)
	}

	var overrides []record
	if user != nil {
		var err error
		overrides, err = readAll(user)
		if err != nil {
			return nil, fmt.Errorf("read user dictionary: %w", err)
		}
		for _, r := range overrides {
			if _, missing := r.fields.Entry(); missing != "" {
				return nil, &ValidationError{Origin: OriginUser, Key: r.key, Field: missing}
			}
		}
	}

	s := &Store{entries: make(map[string]Entry)}
	if base != nil {
		for {
			key, fields, err := base.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, err
			}
			e, missing := fields.Entry()
			if missing != "" {
				return nil, &ValidationError{Origin: OriginBase, Key: key, Field: missing}
			}
			s.put(key, e)
		}
	}
	baseLen := len(s.keys)

	for _, r := range overrides {
		e, _ := r.fields.Entry()
		s.put(r.key, e)
	}

	opts.logger.Debug("dictionary loaded",
		slog.Int("base_entries", baseLen),
		slog.Int("user_entries", len(overrides)),
		slog.Int("keys", len(s.keys)),
	)
	return s, nil
}

// NewFromEntries is New for typed in-memory user entries, which are always
// complete.
func NewFromEntries(base Source, user map[string]Entry, optFns ...Option) (*Store, error) {
	var src Source
	if user != nil {
		src = EntrySource(user)
	}
	return New(base, src, optFns...)
}

func (s *Store) put(key string, e Entry) {
	if _, exists := s.entries[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.entries[key] = e
}

func readAll(src Source) ([]record, error) {
	var out []record
	for {
		key, fields, err := src.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, record{key: key, fields: fields})
	}
}

// Lookup returns the entry for key, or Unknown.
func (s *Store) Lookup(key string) Entry {
	if e, ok := s.entries[key]; ok {
		return e
	}
	return Unknown
}

// Has reports whether key is a dictionary key.
func (s *Store) Has(key string) bool {
	_, ok := s.entries[key]
	return ok
}

// Len returns the number of keys.
func (s *Store) Len() int { return len(s.keys) }

// Keys returns a copy of all keys in store order.
func (s *Store) Keys() []string {
	return append([]string(nil), s.keys...)
}

// All iterates over keys and entries in store order.
func (s *Store) All() iter.Seq2[string, Entry] {
	return func(yield func(string, Entry) bool) {
		for _, k := range s.keys {
			if !yield(k, s.entries[k]) {
				return
			}
		}
	}
}
