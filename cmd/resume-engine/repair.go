// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/resume-engine/internal/latex"
	"github.com/pdiddy/resume-engine/internal/store"
)

var repairCmd = &cobra.Command{
	Use:   "repair [template-file]",
	Short: "Repair corrupted LaTeX templates",
	Long: `Repair undoes the damage repeated re-serialization does to templates:
over-escaped backslashes, literal \n sequences, and commands that lost their
backslash. With a file argument the repaired template is written to
--output (or stdout) and warnings go to stderr. With --all every template
in the store is repaired in place.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRepair,
}

func init() {
	repairCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	repairCmd.Flags().Bool("all", false, "repair every template in the store")

	rootCmd.AddCommand(repairCmd)
}

func runRepair(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	switch {
	case all && len(args) > 0:
		return fmt.Errorf("use either a template file or --all, not both")
	case all:
		return repairStore(cmd)
	case len(args) == 0:
		return fmt.Errorf("provide a template file or --all")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading template: %w", err)
	}
	rep := latex.RepairReport(string(data))
	for _, f := range rep.Fixes {
		fmt.Fprintln(os.Stderr, "fixed:  ", f)
	}
	for _, w := range rep.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	out, _ := cmd.Flags().GetString("output")
	return writeOutput(out, []byte(rep.Content))
}

func repairStore(cmd *cobra.Command) error {
	ctx := logger.WithContext(cmd.Context())
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	fixes, err := st.RepairTemplates(ctx, os.Stdout)
	if err != nil {
		return err
	}
	fixed := 0
	for _, f := range fixes {
		if f.Fixed {
			fixed++
		}
	}
	fmt.Printf("%d of %d template(s) repaired\n", fixed, len(fixes))
	return nil
}
