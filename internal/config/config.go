// Package config loads fcon settings from a YAML file and FCON_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mithrandir/fcon/internal/debug"
	"github.com/mithrandir/fcon/internal/fwiki"
	"github.com/mithrandir/fcon/internal/reconcile"
	"github.com/mithrandir/fcon/internal/runlog"
	"github.com/mithrandir/fcon/internal/workflow"
)

// EnvPrefix prefixes every environment override, e.g. FCON_DIRECTION.
const EnvPrefix = "FCON"

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "fcon.yaml"

// ErrConfigNotFound is returned when an explicitly named config file is missing.
var ErrConfigNotFound = errors.New("config file not found")

// LogConfig configures the rotated log file.
type LogConfig struct {
	File       string `mapstructure:"file" yaml:"file" toml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups" toml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days" toml:"max_age_days"`
}

// Config is the resolved fcon configuration.
type Config struct {
	Direction string `mapstructure:"direction" yaml:"direction" toml:"direction"`

	// ===== Wiki corpus =====
	FwikiPaths  []string `mapstructure:"fwiki_paths" yaml:"fwiki_paths" toml:"fwiki_paths"`
	SkipTags    []string `mapstructure:"skip_tags" yaml:"skip_tags" toml:"skip_tags"`
	FileSkipTag string   `mapstructure:"file_skip_tag" yaml:"file_skip_tag" toml:"file_skip_tag"`
	ExcludeDirs []string `mapstructure:"exclude_dirs" yaml:"exclude_dirs" toml:"exclude_dirs"`

	// ===== Deck =====
	Import2AnkiPaths   []string `mapstructure:"import_2_anki_paths" yaml:"import_2_anki_paths" toml:"import_2_anki_paths"`
	ExportFromAnkiPath string   `mapstructure:"export_from_anki_path" yaml:"export_from_anki_path" toml:"export_from_anki_path"`
	MarkupThreshold    int      `mapstructure:"markup_threshold" yaml:"markup_threshold" toml:"markup_threshold"`

	IndexPath string    `mapstructure:"index_path" yaml:"index_path" toml:"index_path"`
	Log       LogConfig `mapstructure:"log" yaml:"log" toml:"log"`

	// File is the config file that was loaded, empty when running on
	// defaults and environment only.
	File string `mapstructure:"-" yaml:"-" toml:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("direction", string(workflow.ToAnki))
	v.SetDefault("fwiki_paths", []string{})
	v.SetDefault("skip_tags", fwiki.DefaultSkipTags)
	v.SetDefault("file_skip_tag", fwiki.DefaultFileSkipTag)
	v.SetDefault("exclude_dirs", fwiki.DefaultExcludeDirs)
	v.SetDefault("import_2_anki_paths", []string{})
	v.SetDefault("export_from_anki_path", "")
	v.SetDefault("markup_threshold", reconcile.DefaultMarkupThreshold)
	v.SetDefault("index_path", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

// Load reads configuration. Precedence for the file: path, then
// $FCON_CONFIG, then ./fcon.yaml, then <user config dir>/fcon/config.yaml.
// A named file (path or $FCON_CONFIG) must exist; the fallbacks are optional.
// FCON_* environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	file, err := locate(path)
	if err != nil {
		return nil, err
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
		debug.Logf("loaded config from %s\n", file)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = file
	cfg.resolvePaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func locate(path string) (string, error) {
	named := path
	if named == "" {
		named = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if named != "" {
		if _, err := os.Stat(named); err != nil {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, named)
		}
		return filepath.Abs(named)
	}

	if _, err := os.Stat(DefaultFileName); err == nil {
		return filepath.Abs(DefaultFileName)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		candidate := filepath.Join(dir, "fcon", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}

// resolvePaths expands ~ and makes relative paths relative to the config
// file's directory (or the working directory without a file).
func (c *Config) resolvePaths() {
	base := ""
	if c.File != "" {
		base = filepath.Dir(c.File)
	}
	for i, p := range c.FwikiPaths {
		c.FwikiPaths[i] = resolve(base, p)
	}
	for i, p := range c.Import2AnkiPaths {
		c.Import2AnkiPaths[i] = resolve(base, p)
	}
	c.ExportFromAnkiPath = resolve(base, c.ExportFromAnkiPath)
	c.IndexPath = resolve(base, c.IndexPath)
	c.Log.File = resolve(base, c.Log.File)
}

func resolve(base, p string) string {
	if p == "" {
		return ""
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	if filepath.IsAbs(p) || base == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

// Validate checks values that would fail every command.
func (c *Config) Validate() error {
	if _, err := workflow.ParseDirection(c.Direction); err != nil {
		return err
	}
	if c.MarkupThreshold < 0 {
		return fmt.Errorf("markup_threshold must not be negative, got %d", c.MarkupThreshold)
	}
	return nil
}

// Workflow builds the run configuration for direction (empty keeps the
// configured one).
func (c *Config) Workflow(direction string, dryRun bool, logs *runlog.Sink) (workflow.Config, error) {
	if direction == "" {
		direction = c.Direction
	}
	d, err := workflow.ParseDirection(direction)
	if err != nil {
		return workflow.Config{}, err
	}
	if len(c.FwikiPaths) == 0 {
		return workflow.Config{}, fmt.Errorf("fwiki_paths is empty: no corpus to read")
	}
	return workflow.Config{
		Direction:       d,
		WikiRoots:       c.FwikiPaths,
		SkipTags:        c.SkipTags,
		FileSkipTag:     c.FileSkipTag,
		ExcludeDirs:     c.ExcludeDirs,
		DeckOutputs:     c.Import2AnkiPaths,
		DeckInput:       c.ExportFromAnkiPath,
		MarkupThreshold: c.MarkupThreshold,
		DryRun:          dryRun,
		IndexPath:       c.IndexPath,
		Logs:            logs,
	}, nil
}

// RunlogOptions maps the log section to sink options.
func (c *Config) RunlogOptions(quiet bool) runlog.Options {
	return runlog.Options{
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
		Quiet:      quiet,
	}
}
