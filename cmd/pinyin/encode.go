package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/example/go-pinyin/internal/batch"
	"github.com/example/go-pinyin/internal/pinyin"
	"github.com/example/go-pinyin/internal/text"
	"github.com/spf13/cobra"
)

type encodeFlags struct {
	file   string
	tensor bool
	pad    int
}

func newEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode text or syllables as integer codes",
	}

	cmd.AddCommand(newEncodeSubCmd("hanzi", "Encode every character as its dictionary code",
		func(c *pinyin.Converter, line string) pinyin.Codes {
			return c.EncodeHanzi(pinyin.Single(line))
		}))
	cmd.AddCommand(newEncodeSubCmd("pinyin", "Encode whitespace-separated syllables",
		func(c *pinyin.Converter, line string) pinyin.Codes {
			return c.EncodePinyin(pinyin.Flat(strings.Fields(line)))
		}))
	cmd.AddCommand(newEncodeSubCmd("pronunciation", "Render text and encode its syllables",
		func(c *pinyin.Converter, line string) pinyin.Codes {
			return c.EncodePronunciation(pinyin.Single(line))
		}))

	return cmd
}

func newEncodeSubCmd(name, short string, encode func(*pinyin.Converter, string) pinyin.Codes) *cobra.Command {
	var f encodeFlags

	cmd := &cobra.Command{
		Use:   name + " [text...]",
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			conv, err := loadConverter(cfg)
			if err != nil {
				return err
			}

			lines, err := readInputLines(args, f.file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			codes, err := batch.Map(cmd.Context(), lines, cfg.Output.Workers,
				func(_ context.Context, line string) (pinyin.Codes, error) {
					if cfg.Convert.Normalize && name != "pinyin" {
						line = text.Fold(line)
					}
					return encode(conv, line), nil
				})
			if err != nil {
				return err
			}

			if f.tensor {
				return writeTensor(cmd.OutOrStdout(), codes, f.pad)
			}
			return writeCodeLines(cmd.OutOrStdout(), codes)
		},
	}

	cmd.Flags().StringVar(&f.file, "file", "", "Read input lines from file ('-' for stdin)")
	cmd.Flags().BoolVar(&f.tensor, "tensor", false, "Print all lines as one padded [lines, maxLen] tensor")
	cmd.Flags().IntVar(&f.pad, "pad", pinyin.UnknownCode, "Padding code used with --tensor")

	return cmd
}

// writeCodeLines prints one JSON array per input line.
func writeCodeLines(w io.Writer, codes []pinyin.Codes) error {
	enc := json.NewEncoder(w)
	for _, c := range codes {
		if err := enc.Encode(c); err != nil {
			return err
		}
	}
	return nil
}

func writeTensor(w io.Writer, codes []pinyin.Codes, pad int) error {
	var rows [][]int
	for _, c := range codes {
		rows = append(rows, c.Rows()...)
	}

	t := pinyin.ToTensor(rows, pad)
	if t == nil {
		return fmt.Errorf("nothing to encode")
	}

	_, err := fmt.Fprintf(w, "shape: %v\nlengths: %v\n%v\n", t.Shape(), pinyin.Lengths(rows), t)
	return err
}
