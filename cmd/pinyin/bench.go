package main

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/example/go-pinyin/internal/bench"
	"github.com/example/go-pinyin/internal/config"
	"github.com/example/go-pinyin/internal/pinyin"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	var (
		text   string
		op     string
		runs   int
		format string
		minCPS float64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark conversion latency and throughput",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("--text is required for bench")
			}
			if runs < 1 {
				return fmt.Errorf("--runs must be at least 1")
			}
			if format != "table" && format != "json" {
				return fmt.Errorf("--format must be 'table' or 'json'")
			}
			convert, err := benchOp(op)
			if err != nil {
				return err
			}

			results, err := runBench(cfg, text, runs, convert)
			if err != nil {
				return err
			}

			durations := make([]time.Duration, len(results))
			for i, r := range results {
				durations[i] = r.Duration
			}
			stats := bench.ComputeStats(durations)

			switch format {
			case "json":
				bench.FormatJSON(results, stats, cmd.OutOrStdout())
			default:
				bench.FormatTable(results, stats, cmd.OutOrStdout())
			}

			return bench.CheckMinCPS(bench.MeanCPS(results), minCPS)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to convert for each run (required)")
	cmd.Flags().StringVar(&op, "op", "render", "Operation to time: render|hanzi|pronunciation")
	cmd.Flags().IntVar(&runs, "runs", 5, "Number of conversion runs")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json")
	cmd.Flags().Float64Var(&minCPS, "min-cps", 0, "Exit non-zero if mean warm throughput is below this many chars/s (0 = disabled)")

	return cmd
}

func benchOp(op string) (func(*pinyin.Converter, string), error) {
	switch op {
	case "render":
		return func(c *pinyin.Converter, s string) { c.Render(pinyin.Single(s), true, false) }, nil
	case "hanzi":
		return func(c *pinyin.Converter, s string) { c.EncodeHanzi(pinyin.Single(s)) }, nil
	case "pronunciation":
		return func(c *pinyin.Converter, s string) { c.EncodePronunciation(pinyin.Single(s)) }, nil
	default:
		return nil, fmt.Errorf("unknown --op %q (want render|hanzi|pronunciation)", op)
	}
}

// runBench times runs conversions of text. The first run also loads the
// dictionaries.
func runBench(cfg config.Config, text string, runs int, convert func(*pinyin.Converter, string)) ([]bench.RunResult, error) {
	chars := utf8.RuneCountInString(text)
	results := make([]bench.RunResult, 0, runs)

	var conv *pinyin.Converter
	for i := range runs {
		start := time.Now()
		if conv == nil {
			var err error
			if conv, err = loadConverter(cfg); err != nil {
				return nil, err
			}
		}
		convert(conv, text)
		dur := time.Since(start)

		results = append(results, bench.RunResult{
			Index:    i,
			Cold:     i == 0,
			Duration: dur,
			Chars:    chars,
			CPS:      bench.CalcCPS(chars, dur),
		})
	}

	return results, nil
}
