package main

import (
	"fmt"
	"io"
	"os"

	"github.com/example/go-pinyin/internal/text"
)

// readInputLines returns args when given, otherwise the non-blank lines of
// file ("-" or "" for r).
func readInputLines(args []string, file string, r io.Reader) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	if file != "" && file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	lines, err := text.ReadLines(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if len(lines) == 0 {
		return nil, text.ErrEmptyText
	}
	return lines, nil
}

// splitSentences replaces every line by its sentences.
func splitSentences(lines []string) []string {
	var out []string
	for _, l := range lines {
		out = append(out, text.SplitSentences(l)...)
	}
	return out
}
