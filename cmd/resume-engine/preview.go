// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/resume-engine/internal/preview"
)

var previewCmd = &cobra.Command{
	Use:   "preview <file.pdf>",
	Short: "Render the first page of a PDF as a PNG",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().StringP("output", "o", "", "output file (default <input>.png)")
	previewCmd.Flags().Int("dpi", 0, "output resolution (default 100)")

	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	pdf, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading PDF: %w", err)
	}

	pcfg := cfg.Preview
	if dpi, _ := cmd.Flags().GetInt("dpi"); dpi > 0 {
		pcfg.DPI = dpi
	}
	out := preview.New(pcfg, logger).ToRaster(logger.WithContext(cmd.Context()), pdf)
	if preview.ContentType(out) != preview.TypePNG {
		return fmt.Errorf("could not rasterize %s; is %s installed?", args[0], orDefault(pcfg.Tool, "pdftoppm"))
	}

	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		path = strings.TrimSuffix(args[0], ".pdf") + ".png"
	}
	return writeOutput(path, out)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
