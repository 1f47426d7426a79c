package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"wiremeta/naming"
)

// Output formats understood by the CLI.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatDump = "dump"
)

// Formats lists every supported output format.
var Formats = []string{FormatText, FormatJSON, FormatYAML, FormatDump}

// Keys of the configuration, as used in wiremeta.yaml and by flags.
const (
	KeyNaming       = "naming"
	KeyAllowPrivate = "allow_private"
	KeyOverlay      = "overlay"
	KeyFormat       = "format"
	KeyNoColor      = "no_color"
	KeyVerbose      = "verbose"
)

// Config represents the wiremeta configuration.
type Config struct {
	Naming       string `mapstructure:"naming"`
	AllowPrivate bool   `mapstructure:"allow_private"`
	Overlay      string `mapstructure:"overlay"`
	Format       string `mapstructure:"format"`
	NoColor      bool   `mapstructure:"no_color"`
	Verbose      bool   `mapstructure:"verbose"`
}

// New returns a viper instance with the wiremeta defaults and environment
// binding (WIREMETA_NAMING, WIREMETA_ALLOW_PRIVATE, ...).
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyNaming, "original")
	v.SetDefault(KeyAllowPrivate, false)
	v.SetDefault(KeyOverlay, "")
	v.SetDefault(KeyFormat, FormatText)
	v.SetDefault(KeyNoColor, false)
	v.SetDefault(KeyVerbose, false)

	v.SetEnvPrefix("wiremeta")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the configuration into v and decodes it. An explicit file must
// exist; otherwise wiremeta.yaml is looked up in dir and is optional.
func Load(v *viper.Viper, file, dir string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("wiremeta")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Mutator returns the naming policy selected by the configuration.
func (c *Config) Mutator() naming.Mutator {
	m, err := naming.Lookup(c.Naming)
	if err != nil {
		return naming.Original
	}

	return m
}

func validateConfig(cfg *Config) error {
	if _, err := naming.Lookup(cfg.Naming); err != nil {
		return fmt.Errorf("naming: %w", err)
	}

	cfg.Format = strings.ToLower(cfg.Format)
	if !slices.Contains(Formats, cfg.Format) {
		return fmt.Errorf("format must be one of %s, got: %s", strings.Join(Formats, ", "), cfg.Format)
	}

	return nil
}
