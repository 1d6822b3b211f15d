package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sarchlab/hackvm/verify"
	"github.com/spf13/cobra"
)

var lintCmd = &cobra.Command{
	Use:   "lint <file.asm>",
	Short: "Check Hack assembly for label and static-region defects",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(); err != nil {
			return err
		}

		asm, err := os.ReadFile(args[0])
		if err != nil {
			return errors.Wrap(err, "read assembly")
		}

		report := &verify.Report{Issues: verify.Lint(string(asm))}
		if report.OK() {
			fmt.Fprintln(cmd.OutOrStdout(), "no issues")
			return nil
		}

		report.WriteIssues(cmd.OutOrStdout())

		return errors.Errorf("lint: %s", report.Summary())
	},
}
