package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/roach88/timex/internal/engine"
	"github.com/roach88/timex/internal/ir"
	"github.com/roach88/timex/internal/tense"
)

// ConfigName is the config file name searched for, without extension.
const ConfigName = "timex"

// EnvPrefix prefixes environment overrides, as in TIMEX_CORPUS.
const EnvPrefix = "TIMEX"

// Config is the effective configuration of one invocation.
//
// Configuration hierarchy (highest to lowest priority):
//  1. CLI flags
//  2. Environment variables (TIMEX_*)
//  3. Config file (--config, ./timex.yaml, $HOME/.timex/timex.yaml)
//  4. Defaults
type Config struct {
	// Corpus is the rule corpus directory.
	Corpus string `mapstructure:"corpus" yaml:"corpus" json:"corpus"`

	DocumentType  string   `mapstructure:"document_type" yaml:"document_type,omitempty" json:"document_type,omitempty"`
	Hemisphere    string   `mapstructure:"hemisphere" yaml:"hemisphere,omitempty" json:"hemisphere,omitempty"`
	TenseStrategy string   `mapstructure:"tense_strategy" yaml:"tense_strategy" json:"tense_strategy"`
	Kinds         []string `mapstructure:"kinds" yaml:"kinds,omitempty" json:"kinds,omitempty"`

	// Workers bounds sentence-level parallelism; 0 means GOMAXPROCS.
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers"`

	// DisableTenseCorrection turns off the perfect/passive chain that
	// reads "has been moved" as past.
	DisableTenseCorrection bool `mapstructure:"disable_tense_correction" yaml:"disable_tense_correction" json:"disable_tense_correction"`

	// KeepOverlapping skips overlap resolution. Meant for debugging rules.
	KeepOverlapping bool `mapstructure:"keep_overlapping" yaml:"keep_overlapping" json:"keep_overlapping"`

	// MatchTimeout bounds each pattern search; 0 means no limit.
	MatchTimeout time.Duration `mapstructure:"match_timeout" yaml:"match_timeout" json:"match_timeout"`
}

// DefaultConfig returns the built-in defaults. An empty document type,
// hemisphere or kind list defers to the corpus manifest.
func DefaultConfig() Config {
	return Config{
		Corpus:        filepath.Join("resources", "english"),
		TenseStrategy: tense.Backward.String(),
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("corpus", d.Corpus)
	v.SetDefault("document_type", d.DocumentType)
	v.SetDefault("hemisphere", d.Hemisphere)
	v.SetDefault("tense_strategy", d.TenseStrategy)
	v.SetDefault("kinds", []string{})
	v.SetDefault("disable_tense_correction", d.DisableTenseCorrection)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("keep_overlapping", d.KeepOverlapping)
	v.SetDefault("match_timeout", d.MatchTimeout)
}

// initConfig reads the config file and environment into opts.Config.
// Only an explicit --config that cannot be read is an error; a missing
// default file is not.
func (opts *RootOptions) initConfig() error {
	v := opts.viper
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, "."+ConfigName))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return WrapExitError(ExitCommandError, "failed to read config", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return WrapExitError(ExitCommandError, "invalid config", err)
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid config", err)
	}
	opts.Config = cfg
	return nil
}

// ConfigFileUsed returns the config file that was read, or "".
func (opts *RootOptions) ConfigFileUsed() string {
	return opts.viper.ConfigFileUsed()
}

// Validate checks every enumerated value.
func (c Config) Validate() error {
	if _, err := ir.ParseDocumentType(c.DocumentType); err != nil {
		return fmt.Errorf("document_type: %w", err)
	}
	switch c.Hemisphere {
	case "", "northern", "southern":
	default:
		return fmt.Errorf("hemisphere: must be northern or southern, got %q", c.Hemisphere)
	}
	if c.TenseStrategy != "" {
		if _, err := tense.ParseStrategy(c.TenseStrategy); err != nil {
			return fmt.Errorf("tense_strategy: %w", err)
		}
	}
	for _, k := range c.Kinds {
		if _, err := ir.ParseKind(k); err != nil {
			return fmt.Errorf("kinds: %w", err)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers: must be non-negative, got %d", c.Workers)
	}
	if c.MatchTimeout < 0 {
		return fmt.Errorf("match_timeout: must be non-negative, got %s", c.MatchTimeout)
	}
	return nil
}

// EngineOptions translates c into engine options. Call Validate first.
func (c Config) EngineOptions() []engine.Option {
	var opts []engine.Option
	if t, err := ir.ParseDocumentType(c.DocumentType); err == nil && c.DocumentType != "" {
		opts = append(opts, engine.WithDocumentType(t))
	}
	if c.Hemisphere != "" {
		opts = append(opts, engine.WithHemisphere(c.Hemisphere))
	}
	if s, err := tense.ParseStrategy(c.TenseStrategy); err == nil {
		opts = append(opts, engine.WithTenseStrategy(s))
	}
	if c.DisableTenseCorrection {
		opts = append(opts, engine.WithCorrection(tense.Correction{}))
	}
	if len(c.Kinds) > 0 {
		kinds := make([]ir.Kind, 0, len(c.Kinds))
		for _, name := range c.Kinds {
			if k, err := ir.ParseKind(name); err == nil {
				kinds = append(kinds, k)
			}
		}
		opts = append(opts, engine.WithKinds(kinds...))
	}
	if c.Workers > 0 {
		opts = append(opts, engine.WithWorkers(c.Workers))
	}
	if c.KeepOverlapping {
		opts = append(opts, engine.WithKeepOverlapping(true))
	}
	if c.MatchTimeout > 0 {
		opts = append(opts, engine.WithMatchTimeout(c.MatchTimeout))
	}
	return opts
}

// NewConfigCommand creates the config command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect timex configuration",
		Long: `Inspect the configuration timex runs with.

Configuration hierarchy (highest to lowest priority):
  1. CLI flags
  2. Environment variables (TIMEX_*)
  3. Config file (--config, ./timex.yaml, $HOME/.timex/timex.yaml)
  4. Defaults`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "show",
		Short:         "Show the effective configuration",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(rootOpts, cmd)
		},
	})
	return cmd
}

func runConfigShow(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.Format == "json" {
		return formatter.Success(opts.Config)
	}

	if file := opts.ConfigFileUsed(); file != "" {
		fmt.Fprintf(formatter.GetErrWriter(), "Configuration file: %s\n\n", file)
	} else {
		fmt.Fprintf(formatter.GetErrWriter(), "No configuration file found (using defaults)\n\n")
	}

	data, err := yaml.Marshal(opts.Config)
	if err != nil {
		return WrapExitError(ExitFailure, "error marshaling config", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
