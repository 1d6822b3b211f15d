// Command hackvm translates stack-VM programs into Hack assembly and can run
// the result on a built-in Hack emulator.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/sarchlab/hackvm/config"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

var globals globalFlags

var rootCmd = &cobra.Command{
	Use:           "hackvm",
	Short:         "Translate stack-VM code to Hack assembly",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&globals.configPath, "config", "", "YAML config file")
	pf.StringVar(&globals.logLevel, "log-level", "", "trace, debug, info, warn or error")
	pf.StringVar(&globals.logFormat, "log-format", "", "text or json")

	rootCmd.AddCommand(translateCmd, runCmd, lintCmd)
}

// loadConfig reads the config file, applies the global flags and installs
// the logger.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if globals.configPath != "" {
		var err error
		cfg, err = config.Load(globals.configPath)
		if err != nil {
			return config.Config{}, err
		}
	}

	if globals.logLevel != "" {
		cfg.LogLevel = globals.logLevel
	}
	if globals.logFormat != "" {
		cfg.LogFormat = globals.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	level, _ := cfg.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))

	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hackvm:", err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
