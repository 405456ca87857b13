// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package preview renders the first page of a PDF as a PNG for inline
// display. Conversion is best effort: any failure yields the PDF unchanged,
// so callers dispatch on ContentType rather than on success.
package preview

import (
	"context"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/resume-engine/pkg/types"
)

const (
	defaultTool    = "pdftoppm"
	defaultDPI     = 100
	defaultTimeout = 30 * time.Second

	inputFile  = "in.pdf"
	outputBase = "out"
)

// Content types returned by ContentType.
const (
	TypePNG = "image/png"
	TypePDF = "application/pdf"
)

// runner abstracts tool execution for testing.
type runner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

type osRunner struct{}

func (osRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// Rasterizer converts PDFs to PNG with an external tool.
type Rasterizer struct {
	tool    string
	dpi     int
	tempDir string
	timeout time.Duration
	run     runner
	log     zerolog.Logger
}

// New creates a Rasterizer from cfg, applying defaults for unset fields.
func New(cfg types.PreviewConfig, log zerolog.Logger) *Rasterizer {
	r := &Rasterizer{
		tool:    cfg.Tool,
		dpi:     cfg.DPI,
		tempDir: cfg.TempDir,
		timeout: defaultTimeout,
		run:     osRunner{},
		log:     log.With().Str("component", "preview").Logger(),
	}
	if r.tool == "" {
		r.tool = defaultTool
	}
	if r.dpi <= 0 {
		r.dpi = defaultDPI
	}
	return r
}

// ToRaster returns a PNG of the first page of pdf, or pdf itself when the
// conversion cannot be done. It never fails.
func (r *Rasterizer) ToRaster(ctx context.Context, pdf []byte) []byte {
	if len(pdf) == 0 {
		return pdf
	}
	png, err := r.convert(ctx, pdf)
	if err != nil {
		r.log.Warn().Err(err).Msg("raster conversion failed, returning PDF")
		return pdf
	}
	return png
}

func (r *Rasterizer) convert(ctx context.Context, pdf []byte) ([]byte, error) {
	dir, err := os.MkdirTemp(r.tempDir, "preview-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	if err := os.WriteFile(filepath.Join(dir, inputFile), pdf, 0o600); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	out, err := r.run.Run(ctx, dir, r.tool,
		"-png", "-singlefile", "-r", strconv.Itoa(r.dpi),
		inputFile, outputBase,
	)
	if err != nil {
		r.log.Debug().Bytes("output", out).Msg("converter output")
		return nil, err
	}
	return os.ReadFile(filepath.Join(dir, outputBase+".png"))
}

// ContentType sniffs b. It returns TypePNG or TypePDF for the payloads
// ToRaster produces.
func ContentType(b []byte) string {
	return http.DetectContentType(b)
}

// Extension returns the file extension for a payload sniffed by
// ContentType.
func Extension(b []byte) string {
	if ContentType(b) == TypePNG {
		return ".png"
	}
	return ".pdf"
}
