package main

import (
	"fmt"

	"github.com/example/go-pinyin/internal/pinyin"
	"github.com/spf13/cobra"
)

func newVocabCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Print a code table as code<TAB>value lines",
	}

	cmd.AddCommand(newVocabSubCmd("pinyin", "Print the syllable codes", (*pinyin.Codebook).PinyinVocab))
	cmd.AddCommand(newVocabSubCmd("hanzi", "Print the dictionary key codes", (*pinyin.Codebook).HanziVocab))

	return cmd
}

func newVocabSubCmd(name, short string, vocab func(*pinyin.Codebook) []string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			conv, err := loadConverter(cfg)
			if err != nil {
				return err
			}

			for code, v := range vocab(conv.Codebook()) {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", code, v); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
