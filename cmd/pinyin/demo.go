package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/example/go-pinyin/internal/dictionary"
	"github.com/example/go-pinyin/internal/pinyin"
	"github.com/spf13/cobra"
)

// demoUserEntries is merged over the configured dictionary by the demo.
var demoUserEntries = map[string]dictionary.Entry{
	"book": {Consonant: "bu", Vowel: "ke", Tone: "4"},
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Walk through rendering and encoding on sample input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			base, err := dictionary.OpenFile(cfg.Paths.Dictionary)
			if err != nil {
				return fmt.Errorf("open dictionary: %w", err)
			}
			store, err := dictionary.NewFromEntries(base, demoUserEntries)
			if err != nil {
				return err
			}

			return runDemo(cmd.OutOrStdout(), pinyin.New(store))
		},
	}
}

func runDemo(w io.Writer, c *pinyin.Converter) error {
	single := pinyin.Single("你好啊")
	batch := pinyin.Flat{"不好", "发到哪"}

	steps := []struct {
		label string
		value any
	}{
		{`render "你好啊"`, c.Render(single, true, false)},
		{`render "你好啊" unjoined`, c.Render(single, false, false)},
		{`render ["不好","发到哪"]`, c.Render(batch, true, false)},
		{`render "book" nosplit`, c.Render(pinyin.Single("book"), true, true)},
		{`encode hanzi "你好啊"`, c.EncodeHanzi(single)},
		{`encode hanzi ["不好","发到哪"]`, c.EncodeHanzi(batch)},
		{`encode pinyin ["ni3","hao3","a1"]`, c.EncodePinyin(pinyin.Flat{"ni3", "hao3", "a1"})},
		{`encode pronunciation "你好啊"`, c.EncodePronunciation(single)},
		{`encode pronunciation ["不好","发到哪"]`, c.EncodePronunciation(batch)},
	}

	for _, s := range steps {
		b, err := json.Marshal(s.value)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", s.label, b); err != nil {
			return err
		}
	}
	return nil
}
