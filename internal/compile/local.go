// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/resume-engine/internal/container"
	"github.com/pdiddy/resume-engine/pkg/types"
)

const (
	defaultEngine       = "pdflatex"
	defaultLocalTimeout = 60 * time.Second

	texFile = "resume.tex"
	pdfFile = "resume.pdf"
	logFile = "resume.log"

	outputTailBytes = 4096
	logTailLines    = 30
)

// runner abstracts engine execution for testing.
type runner interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, dir, name string, args []string, output io.Writer) error
}

// osRunner is the production runner backed by os/exec.
type osRunner struct{}

func (osRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osRunner) Run(ctx context.Context, dir, name string, args []string, output io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = output
	cmd.Stderr = output
	return cmd.Run()
}

// LocalCompiler runs the typesetting engine as a subprocess. Each call
// owns a fresh working directory that is removed before Compile returns.
// When the engine is not on PATH and an image is configured, the engine
// runs inside a docker or podman container instead.
type LocalCompiler struct {
	engine     string
	tempDir    string
	timeout    time.Duration
	image      string
	classFiles []string

	run    runner
	detect func(context.Context) (container.Runtime, error)
	log    zerolog.Logger
}

// NewLocalCompiler creates a LocalCompiler from cfg, applying defaults for
// unset fields.
func NewLocalCompiler(cfg types.LocalEngineConfig, log zerolog.Logger) *LocalCompiler {
	c := &LocalCompiler{
		engine:     cfg.Engine,
		tempDir:    cfg.TempDir,
		timeout:    cfg.Timeout,
		image:      cfg.ContainerImage,
		classFiles: cfg.ClassFiles,
		run:        osRunner{},
		detect:     container.DetectRuntime,
		log:        log.With().Str("strategy", "local").Logger(),
	}
	if c.engine == "" {
		c.engine = defaultEngine
	}
	if c.timeout <= 0 {
		c.timeout = defaultLocalTimeout
	}
	return c
}

// Name returns "local".
func (c *LocalCompiler) Name() string { return "local" }

// Compile typesets doc and returns the PDF bytes.
func (c *LocalCompiler) Compile(ctx context.Context, doc string) ([]byte, error) {
	dir, err := os.MkdirTemp(c.tempDir, "resume-")
	if err != nil {
		return nil, fmt.Errorf("%w: creating working directory: %w", ErrCompile, err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			c.log.Warn().Err(err).Str("dir", dir).Msg("removing working directory")
		}
	}()

	if err := os.WriteFile(filepath.Join(dir, texFile), []byte(doc), 0o600); err != nil {
		return nil, fmt.Errorf("%w: writing %s: %w", ErrCompile, texFile, err)
	}
	c.copyClassFiles(dir)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	var out bytes.Buffer
	if err := c.runEngine(ctx, dir, &out); err != nil {
		if errors.Is(err, ErrEngineNotFound) {
			return nil, err
		}
		return nil, c.engineError(dir, err, out.String())
	}

	pdf, err := os.ReadFile(filepath.Join(dir, pdfFile))
	if err != nil {
		return nil, &EngineError{
			Engine:   c.engine,
			ExitCode: 0,
			Output:   tail(out.String(), outputTailBytes),
			LogTail:  readLogTail(dir),
			Err:      fmt.Errorf("reading %s: %w", pdfFile, err),
		}
	}

	c.log.Debug().
		Int("bytes", len(pdf)).
		Dur("elapsed", time.Since(start)).
		Msg("compiled document")
	return pdf, nil
}

// runEngine runs the engine on the host when it is on PATH, otherwise in a
// container when an image is configured and present locally.
func (c *LocalCompiler) runEngine(ctx context.Context, dir string, out io.Writer) error {
	if _, err := c.run.LookPath(c.engine); err == nil {
		args := engineArgs(dir)
		return c.run.Run(ctx, dir, c.engine, args, out)
	}
	if c.image == "" {
		return fmt.Errorf("%w: %s is not on PATH and no container image is configured", ErrEngineNotFound, c.engine)
	}

	rt, err := c.detect(ctx)
	if err != nil {
		return fmt.Errorf("%w: %s is not on PATH: %w", ErrEngineNotFound, c.engine, err)
	}
	if err := rt.ImageExists(ctx, c.image); err != nil {
		return fmt.Errorf("%w: %s is not on PATH: %w", ErrEngineNotFound, c.engine, err)
	}
	c.log.Debug().Str("runtime", rt.Name()).Str("image", c.image).Msg("running engine in container")
	args := append([]string{c.engine}, engineArgs(container.WorkDir)...)
	return rt.Run(ctx, c.image, dir, args, out)
}

func engineArgs(outDir string) []string {
	return []string{
		"-interaction=nonstopmode",
		"-halt-on-error",
		"-no-shell-escape",
		"-output-directory", outDir,
		texFile,
	}
}

// copyClassFiles copies configured support files (document classes, style
// files) into dir. Files that cannot be read are skipped.
func (c *LocalCompiler) copyClassFiles(dir string) {
	for _, path := range c.classFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			c.log.Debug().Err(err).Str("file", path).Msg("skipping class file")
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, filepath.Base(path)), data, 0o600); err != nil {
			c.log.Warn().Err(err).Str("file", path).Msg("copying class file")
		}
	}
}

func (c *LocalCompiler) engineError(dir string, err error, output string) *EngineError {
	code := -1
	var exit interface{ ExitCode() int }
	if errors.As(err, &exit) {
		code = exit.ExitCode()
	}
	return &EngineError{
		Engine:   c.engine,
		ExitCode: code,
		Output:   tail(output, outputTailBytes),
		LogTail:  readLogTail(dir),
		Err:      err,
	}
}

// readLogTail returns the last lines of the engine log in dir, or "" when
// no log was written.
func readLogTail(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, logFile))
	if err != nil {
		return ""
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) > logTailLines {
		lines = lines[len(lines)-logTailLines:]
	}
	return strings.Join(lines, "\n")
}

// tail returns the last n bytes of s.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
