// Package config holds the translator and emulator settings, loaded from a
// YAML file with defaults for everything left out.
package config

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sarchlab/hackvm/hack"
	"github.com/sarchlab/hackvm/vm"
	"gopkg.in/yaml.v3"
)

// BootstrapMode decides when the bootstrap prologue is emitted.
type BootstrapMode string

const (
	// BootstrapAlways emits the prologue for every translation. It is the
	// default.
	BootstrapAlways BootstrapMode = "always"
	// BootstrapAuto emits the prologue iff the entry module is translated.
	BootstrapAuto  BootstrapMode = "auto"
	BootstrapNever BootstrapMode = "never"
)

// Config is the full set of settings.
type Config struct {
	// Entry is the function the bootstrap calls.
	Entry string `yaml:"entry"`
	// EntryModule is translated last.
	EntryModule string        `yaml:"entry_module"`
	Bootstrap   BootstrapMode `yaml:"bootstrap"`
	StackBase   int           `yaml:"stack_base"`
	Comments    bool          `yaml:"comments"`
	EndLoop     bool          `yaml:"end_loop"`

	MaxCycles uint64 `yaml:"max_cycles"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the standard Hack platform settings.
func Default() Config {
	return Config{
		Entry:       "Sys.init",
		EntryModule: "Sys",
		Bootstrap:   BootstrapAlways,
		StackBase:   256,
		MaxCycles:   10_000_000,
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}

	c, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}

	return c, nil
}

// Parse decodes YAML on top of the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	c := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "decode")
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if !vm.IsFunctionName(c.Entry) {
		return errors.Errorf("entry %q is not a valid function name", c.Entry)
	}

	if c.EntryModule == "" {
		return errors.New("entry_module must not be empty")
	}

	switch c.Bootstrap {
	case BootstrapAuto, BootstrapAlways, BootstrapNever:
	default:
		return errors.Errorf("unknown bootstrap mode %q", c.Bootstrap)
	}

	if c.StackBase <= 0 || c.StackBase >= 1<<15 {
		return errors.Errorf("stack_base %d out of range", c.StackBase)
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return errors.Errorf("unknown log_format %q", c.LogFormat)
	}

	return nil
}

// SlogLevel maps LogLevel to a slog level. "trace" enables per-instruction
// emulator logging.
func (c Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "trace":
		return hack.LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}

	return 0, errors.Errorf("unknown log_level %q", c.LogLevel)
}
