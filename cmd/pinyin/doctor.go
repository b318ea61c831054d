package main

import (
	"errors"
	"fmt"

	"github.com/example/go-pinyin/internal/doctor"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	var probe string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the configured dictionaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			result := doctor.Run(doctor.Config{
				DictionaryPath:     cfg.Paths.Dictionary,
				UserDictionaryPath: cfg.Paths.UserDictionary,
				Probe:              probe,
			}, out)

			if result.Failed() {
				for _, f := range result.Failures() {
					fmt.Fprintf(cmd.ErrOrStderr(), "FAIL: %s\n", f)
				}

				return errors.New("doctor checks failed")
			}

			_, _ = fmt.Fprintln(out, "doctor checks passed")

			return nil
		},
	}

	cmd.Flags().StringVar(&probe, "probe", "", "Sample text whose characters must all have entries")

	return cmd
}
