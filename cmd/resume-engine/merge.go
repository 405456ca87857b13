// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/resume-engine/internal/latex"
	"github.com/pdiddy/resume-engine/internal/resume"
	"github.com/pdiddy/resume-engine/pkg/types"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <resume-file>",
	Short: "Merge a resume into a LaTeX template",
	Long: `Merge reads a resume (a JSON object, a JSON string, or a .txt file of
free-form text) and substitutes it into a template. The template comes from
--template (a .tex file), --builtin (classic, modern, minimalist, sidebar,
boxed), or the default layout. The merged document is written to --output
or stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringP("template", "t", "", "template file")
	mergeCmd.Flags().String("builtin", "", "built-in template name")
	mergeCmd.Flags().StringP("output", "o", "", "output file (default stdout)")

	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	content, err := readResume(args[0])
	if err != nil {
		return err
	}
	tpl, err := templateFromFlags(cmd)
	if err != nil {
		return err
	}

	doc, err := latex.Merge(content, tpl)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("output")
	return writeOutput(out, []byte(doc+"\n"))
}

// readResume loads resume content from path. Files ending in .txt are
// free-form text; anything else is decoded as JSON.
func readResume(path string) (types.ResumeContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading resume: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		return types.FreeformResume{Text: string(data)}, nil
	}
	content, err := resume.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if content == nil {
		return nil, fmt.Errorf("%s: %w", path, latex.ErrMissingResume)
	}
	return content, nil
}

func templateFromFlags(cmd *cobra.Command) (types.Template, error) {
	path, _ := cmd.Flags().GetString("template")
	name, _ := cmd.Flags().GetString("builtin")

	switch {
	case path != "" && name != "":
		return types.Template{}, fmt.Errorf("use either --template or --builtin, not both")
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return types.Template{}, fmt.Errorf("reading template: %w", err)
		}
		return types.Template{Name: filepath.Base(path), Content: string(data)}, nil
	case name != "":
		tpl, ok := latex.LookupBuiltin(name)
		if !ok {
			return types.Template{}, fmt.Errorf("unknown built-in template %q", name)
		}
		return tpl, nil
	}
	return latex.DefaultTemplate, nil
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s (%d bytes)\n", path, len(data))
	return nil
}
