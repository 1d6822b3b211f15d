package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sarchlab/hackvm/config"
	"github.com/sarchlab/hackvm/translator"
	"github.com/sarchlab/hackvm/verify"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var translateFlags struct {
	out       string
	bootstrap string
	comments  bool
	endLoop   bool
	report    bool
}

var translateCmd = &cobra.Command{
	Use:   "translate <file.vm|dir>",
	Short: "Translate a VM file or a directory of VM files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		applyTranslateFlags(cmd, &cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		return translateToFile(cmd, cfg, args[0])
	},
}

func init() {
	f := translateCmd.Flags()
	f.StringVarP(&translateFlags.out, "out", "o", "", "output path (default derived from the input)")
	f.StringVar(&translateFlags.bootstrap, "bootstrap", "", "always (default), auto or never")
	f.BoolVar(&translateFlags.comments, "comments", false, "annotate the output with VM commands")
	f.BoolVar(&translateFlags.endLoop, "end-loop", false, "append a terminal loop")
	f.BoolVar(&translateFlags.report, "report", false, "print translation statistics and lint results")
}

func applyTranslateFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("bootstrap") {
		cfg.Bootstrap = config.BootstrapMode(translateFlags.bootstrap)
	}
	if f.Changed("comments") {
		cfg.Comments = translateFlags.comments
	}
	if f.Changed("end-loop") {
		cfg.EndLoop = translateFlags.endLoop
	}
}

// translateToFile writes into a temporary file next to the destination and
// renames it into place only when the whole run succeeded.
func translateToFile(cmd *cobra.Command, cfg config.Config, input string) error {
	src, err := translator.NewFileSource(input)
	if err != nil {
		return err
	}

	out := translateFlags.out
	if out == "" {
		out, err = translator.OutputPath(input)
		if err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(out), ".hackvm-*.asm")
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	tmpName := tmp.Name()
	atexit.Register(func() { os.Remove(tmpName) })

	stats, err := translator.Builder{}.WithConfig(cfg).Build().Translate(src, tmp)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = errors.Wrap(cerr, "close output")
	}
	if err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, out); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "move output into place")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "translated %d module(s) -> %s\n", len(stats.Modules), out)

	if translateFlags.report {
		asm, err := os.ReadFile(out)
		if err != nil {
			return errors.Wrap(err, "read output back")
		}
		verify.GenerateReport(string(asm), stats).WriteReport(cmd.OutOrStdout())
	}

	return nil
}
