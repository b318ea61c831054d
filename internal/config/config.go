package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Paths    PathsConfig   `mapstructure:"paths"`
	Convert  ConvertConfig `mapstructure:"convert"`
	Server   ServerConfig  `mapstructure:"server"`
	Output   OutputConfig  `mapstructure:"output"`
	LogLevel string        `mapstructure:"log_level"`
}

type PathsConfig struct {
	Dictionary     string `mapstructure:"dictionary"`
	UserDictionary string `mapstructure:"user_dictionary"`
}

type ConvertConfig struct {
	Join      bool `mapstructure:"join"`
	NoSplit   bool `mapstructure:"nosplit"`
	Normalize bool `mapstructure:"normalize"`
}

type ServerConfig struct {
	ListenAddr      string `mapstructure:"listen_addr"`
	Workers         int    `mapstructure:"workers"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
	MaxTextBytes    int    `mapstructure:"max_text_bytes"`
	RequestTimeout  int    `mapstructure:"request_timeout"`
}

type OutputConfig struct {
	Color   string `mapstructure:"color"`
	Workers int    `mapstructure:"workers"`
}

// Color modes accepted by OutputConfig.Color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			Dictionary:     "data/char.json",
			UserDictionary: "",
		},
		Convert: ConvertConfig{
			Join:      true,
			NoSplit:   false,
			Normalize: true,
		},
		Server: ServerConfig{
			ListenAddr:      ":8080",
			Workers:         4,
			ShutdownTimeout: 30,
			MaxTextBytes:    4096,
			RequestTimeout:  10,
		},
		Output: OutputConfig{
			Color:   ColorAuto,
			Workers: 4,
		},
		LogLevel: "info",
	}
}

// flagKeys maps config keys to the flag names that set them.
var flagKeys = []struct{ key, flag string }{
	{"paths.dictionary", "dict"},
	{"paths.user_dictionary", "user-dict"},
	{"convert.normalize", "normalize"},
	{"server.listen_addr", "listen-addr"},
	{"server.workers", "workers"},
	{"server.shutdown_timeout", "shutdown-timeout"},
	{"server.max_text_bytes", "max-text-bytes"},
	{"server.request_timeout", "request-timeout"},
	{"output.color", "color"},
	{"output.workers", "batch-workers"},
	{"log_level", "log-level"},
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("dict", defaults.Paths.Dictionary, "Path to the character dictionary (json|yaml)")
	fs.String("user-dict", defaults.Paths.UserDictionary, "Optional user dictionary merged over the base dictionary")
	fs.Bool("normalize", defaults.Convert.Normalize, "Fold full-width and decomposed input before lookup")
	fs.String("listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.Int("workers", defaults.Server.Workers, "Max concurrent HTTP encode requests")
	fs.Int("shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown timeout in seconds")
	fs.Int("max-text-bytes", defaults.Server.MaxTextBytes, "Max request text size in bytes")
	fs.Int("request-timeout", defaults.Server.RequestTimeout, "Per-request timeout in seconds")
	fs.String("color", defaults.Output.Color, "Highlight unknown syllables: auto|always|never")
	fs.Int("batch-workers", defaults.Output.Workers, "Goroutines used to convert input lines")
	fs.String("log-level", defaults.LogLevel, "Log level: debug|info|warn|error")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix("PINYIN")
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	if err := v.BindEnv("paths.dictionary", "PINYIN_PATHS_DICTIONARY", "PINYIN_DICT"); err != nil {
		return Config{}, fmt.Errorf("bind dictionary env vars: %w", err)
	}
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("pinyin")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects settings that no command can work with.
func (c Config) Validate() error {
	switch strings.ToLower(c.Output.Color) {
	case ColorAuto, ColorAlways, ColorNever, "":
	default:
		return fmt.Errorf("invalid color mode %q (want %s|%s|%s)", c.Output.Color, ColorAuto, ColorAlways, ColorNever)
	}
	if c.Server.MaxTextBytes < 0 {
		return fmt.Errorf("max text bytes must not be negative, got %d", c.Server.MaxTextBytes)
	}
	return nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("paths.dictionary", c.Paths.Dictionary)
	v.SetDefault("paths.user_dictionary", c.Paths.UserDictionary)
	v.SetDefault("convert.join", c.Convert.Join)
	v.SetDefault("convert.nosplit", c.Convert.NoSplit)
	v.SetDefault("convert.normalize", c.Convert.Normalize)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.workers", c.Server.Workers)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
	v.SetDefault("server.max_text_bytes", c.Server.MaxTextBytes)
	v.SetDefault("server.request_timeout", c.Server.RequestTimeout)
	v.SetDefault("output.color", c.Output.Color)
	v.SetDefault("output.workers", c.Output.Workers)
	v.SetDefault("log_level", c.LogLevel)
}

// bindFlags binds every registered flag present in fs to its config key.
// Flags only override lower layers when they are set explicitly.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, fk := range flagKeys {
		f := fs.Lookup(fk.flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(fk.key, f); err != nil {
			return fmt.Errorf("bind flag %q: %w", fk.flag, err)
		}
	}
	return nil
}
