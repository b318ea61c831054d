// Package doctor provides preflight checks for the pinyin dictionaries.
package doctor

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/go-pinyin/internal/dictionary"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// LoadFunc builds a store from a base and an optional user dictionary path.
type LoadFunc func(base, user string) (*dictionary.Store, error)

// Config holds the inputs and injectable dependencies of each check.
type Config struct {
	DictionaryPath     string
	UserDictionaryPath string
	// Load builds the store; LoadFiles when nil.
	Load LoadFunc
	// Probe is sample text whose characters must all have entries.
	Probe string
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	// ---- dictionary files -------------------------------------------------
	checkFile(&res, w, "dictionary", cfg.DictionaryPath)
	if cfg.UserDictionaryPath == "" {
		fmt.Fprintf(w, "%s user dictionary: skipped\n", PassMark)
	} else {
		checkFile(&res, w, "user dictionary", cfg.UserDictionaryPath)
	}
	if res.Failed() {
		return res
	}

	// ---- entries ----------------------------------------------------------
	load := cfg.Load
	if load == nil {
		load = LoadFiles
	}
	store, err := load(cfg.DictionaryPath, cfg.UserDictionaryPath)
	if err != nil {
		res.fail(fmt.Sprintf("entries: %v", err))
		fmt.Fprintf(w, "%s entries: %v\n", FailMark, err)
		return res
	}
	fmt.Fprintf(w, "%s entries: %d keys\n", PassMark, store.Len())

	// ---- probe text -------------------------------------------------------
	if cfg.Probe == "" {
		return res
	}
	if missing := Missing(store, cfg.Probe); len(missing) > 0 {
		res.fail(fmt.Sprintf("probe text: no entry for %s", strings.Join(missing, " ")))
		fmt.Fprintf(w, "%s probe text: no entry for %s\n", FailMark, strings.Join(missing, " "))
	} else {
		fmt.Fprintf(w, "%s probe text: all characters covered\n", PassMark)
	}

	return res
}

func checkFile(res *Result, w io.Writer, label, path string) {
	if _, err := dictionary.FormatFromPath(path); err != nil {
		res.fail(fmt.Sprintf("%s %q: %v", label, path, err))
		fmt.Fprintf(w, "%s %s %s: %v\n", FailMark, label, path, err)
		return
	}
	if _, err := os.Stat(path); err != nil {
		res.fail(fmt.Sprintf("%s %q: %v", label, path, err))
		fmt.Fprintf(w, "%s %s %s: not found\n", FailMark, label, path)
		return
	}
	fmt.Fprintf(w, "%s %s: %s\n", PassMark, label, path)
}

// Missing returns the distinct characters of s, in order of first
// appearance, that have no entry in store. Whitespace is ignored.
func Missing(store *dictionary.Store, s string) []string {
	var out []string
	seen := make(map[rune]bool)
	for _, r := range s {
		if seen[r] || strings.TrimSpace(string(r)) == "" {
			continue
		}
		seen[r] = true
		if !store.Has(string(r)) {
			out = append(out, string(r))
		}
	}
	return out
}

// LoadFiles opens the dictionary files and builds a store. user may be "".
func LoadFiles(base, user string) (*dictionary.Store, error) {
	baseSrc, err := dictionary.OpenFile(base)
	if err != nil {
		return nil, err
	}

	var userSrc dictionary.Source
	if user != "" {
		if userSrc, err = dictionary.OpenFile(user); err != nil {
			return nil, err
		}
	}

	return dictionary.New(baseSrc, userSrc)
}
