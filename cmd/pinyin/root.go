package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/example/go-pinyin/internal/config"
	"github.com/example/go-pinyin/internal/dictionary"
	"github.com/example/go-pinyin/internal/pinyin"
	"github.com/example/go-pinyin/internal/server"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	activeCfg config.Config
)

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:           "pinyin",
		Short:         "Chinese character to pinyin converter",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(config.LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			activeCfg = loaded
			setupLogger(loaded.LogLevel)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	config.RegisterFlags(cmd.PersistentFlags(), defaults)

	cmd.AddCommand(newConvertCmd())
	cmd.AddCommand(newEncodeCmd())
	cmd.AddCommand(newVocabCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newHealthCmd())
	cmd.AddCommand(newDemoCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newBenchCmd())

	return cmd
}

// setupLogger configures the process-wide slog default logger.
func setupLogger(levelStr string) {
	lvl, err := server.ParseLogLevel(levelStr)
	if err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
}

func requireConfig() (config.Config, error) {
	if activeCfg.Paths.Dictionary == "" {
		return config.Config{}, fmt.Errorf("configuration not loaded")
	}
	return activeCfg, nil
}

// loadConverter reads the configured base and user dictionaries.
func loadConverter(cfg config.Config) (*pinyin.Converter, error) {
	base, err := dictionary.OpenFile(cfg.Paths.Dictionary)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}

	var user dictionary.Source
	if cfg.Paths.UserDictionary != "" {
		user, err = dictionary.OpenFile(cfg.Paths.UserDictionary)
		if err != nil {
			return nil, fmt.Errorf("open user dictionary: %w", err)
		}
	}

	store, err := dictionary.New(base, user, dictionary.WithLogger(slog.Default()))
	if err != nil {
		return nil, err
	}

	return pinyin.New(store, pinyin.WithLogger(slog.Default())), nil
}
