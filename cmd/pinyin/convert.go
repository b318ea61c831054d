package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/go-pinyin/internal/batch"
	"github.com/example/go-pinyin/internal/pinyin"
	"github.com/example/go-pinyin/internal/text"
	"github.com/spf13/cobra"
)

func newConvertCmd() *cobra.Command {
	var (
		join      bool
		nosplit   bool
		sentences bool
		file      string
	)

	cmd := &cobra.Command{
		Use:   "convert [text...]",
		Short: "Render Chinese text as pinyin, one line per input",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("join") {
				join = cfg.Convert.Join
			}
			if !cmd.Flags().Changed("nosplit") {
				nosplit = cfg.Convert.NoSplit
			}

			conv, err := loadConverter(cfg)
			if err != nil {
				return err
			}

			lines, err := readInputLines(args, file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if sentences {
				lines = splitSentences(lines)
			}

			hl := newHighlighter(cfg.Output.Color, cmd.OutOrStdout())
			out, err := batch.Map(cmd.Context(), lines, cfg.Output.Workers,
				func(_ context.Context, line string) (string, error) {
					if cfg.Convert.Normalize {
						line = text.Fold(line)
					}
					if join {
						return hl.join(conv.Syllables(line, nosplit)), nil
					}
					b, err := json.Marshal(conv.Render(pinyin.Single(line), false, nosplit))
					return string(b), err
				})
			if err != nil {
				return err
			}

			for _, s := range out {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), s); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&join, "join", true, "Join syllables with spaces (otherwise print a JSON array)")
	cmd.Flags().BoolVar(&nosplit, "nosplit", false, "Look each input up as one dictionary key")
	cmd.Flags().BoolVar(&sentences, "sentences", false, "Split input lines into sentences first")
	cmd.Flags().StringVar(&file, "file", "", "Read input lines from file ('-' for stdin)")

	return cmd
}
