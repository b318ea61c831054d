package main

import (
	"io"
	"os"
	"strings"

	"github.com/example/go-pinyin/internal/config"
	"github.com/example/go-pinyin/internal/dictionary"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// highlighter marks unknown syllables in rendered output.
type highlighter struct {
	unknown *color.Color
}

func newHighlighter(mode string, w io.Writer) *highlighter {
	c := color.New(color.FgRed, color.Bold)
	if useColor(mode, w) {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return &highlighter{unknown: c}
}

// useColor resolves an output.color mode against the writer.
func useColor(mode string, w io.Writer) bool {
	switch strings.ToLower(mode) {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// join joins syllables with single spaces, highlighting unknown ones.
func (h *highlighter) join(syllables []string) string {
	unknown := dictionary.Unknown.String()

	out := make([]string, len(syllables))
	for i, s := range syllables {
		if s == unknown {
			s = h.unknown.Sprint(s)
		}
		out[i] = s
	}
	return strings.Join(out, " ")
}
