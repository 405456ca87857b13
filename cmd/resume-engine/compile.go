// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/resume-engine/internal/compile"
	"github.com/pdiddy/resume-engine/pkg/types"
)

var compileCmd = &cobra.Command{
	Use:   "compile <file.tex>",
	Short: "Compile a LaTeX document to PDF",
	Long: `Compile typesets a document with the local engine or the hosted
service, following the runtime mode and fallback policy. With --or-source a
failed compilation in development mode writes the LaTeX source instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().StringP("output", "o", "", "output file (default <input>.pdf)")
	compileCmd.Flags().String("mode", "", "runtime mode: production or development")
	compileCmd.Flags().Bool("force-local", false, "use only the local engine")
	compileCmd.Flags().Bool("allow-fallback", false, "try the other strategy when the preferred one fails")
	compileCmd.Flags().Bool("or-source", false, "write the LaTeX source when compilation fails in development mode")
	compileCmd.Flags().String("engine", "", "local engine binary (default pdflatex)")

	_ = viper.BindPFlag("compile.mode", compileCmd.Flags().Lookup("mode"))
	_ = viper.BindPFlag("compile.force_local", compileCmd.Flags().Lookup("force-local"))
	_ = viper.BindPFlag("compile.allow_local_fallback", compileCmd.Flags().Lookup("allow-fallback"))
	_ = viper.BindPFlag("compile.local.engine", compileCmd.Flags().Lookup("engine"))

	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}

	ctx := logger.WithContext(cmd.Context())
	orch := compile.NewOrchestrator(cfg.Compile, logger)

	orSource, _ := cmd.Flags().GetBool("or-source")
	compileFn := orch.Compile
	if orSource {
		compileFn = orch.CompileOrSource
	}
	res, err := compileFn(ctx, string(data))
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("output")
	out, err = compileOutputPath(args[0], out, res)
	if err != nil {
		return err
	}
	if res.IsLatex {
		fmt.Fprintln(os.Stderr, "compilation unavailable, writing LaTeX source")
	} else {
		fmt.Fprintf(os.Stderr, "compiled with %s strategy\n", res.Strategy)
	}
	return writeOutput(out, res.Data)
}

// compileOutputPath picks where a compilation result is written. A degraded
// result is source, so its default name differs from the input; an explicit
// path naming the input is refused.
func compileOutputPath(input, out string, res types.CompilationResult) (string, error) {
	if out == "" {
		base := strings.TrimSuffix(input, ".tex")
		if res.IsLatex {
			return base + ".source.tex", nil
		}
		return base + res.Extension(), nil
	}
	if filepath.Clean(out) == filepath.Clean(input) {
		return "", fmt.Errorf("refusing to overwrite input %s", input)
	}
	return out, nil
}
