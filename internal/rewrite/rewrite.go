// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rewrite tailors a resume to a job description with a generative
// model and tracks the progress of each (user, job ad) generation.
package rewrite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/pdiddy/resume-engine/internal/resume"
	"github.com/pdiddy/resume-engine/pkg/types"
)

const defaultMaxChars = 1900

var (
	// ErrMissingInput is returned when the job text or resume is absent.
	ErrMissingInput = errors.New("missing input data")

	// ErrUnparseable is returned when a structured run yields output that
	// is not a valid resume object.
	ErrUnparseable = errors.New("failed to parse AI response")
)

// Backend abstracts the generative model so tests can supply a mock.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// StatusStore records generation progress.
type StatusStore interface {
	SetStatus(ctx context.Context, st types.GenerationStatus) error
}

// Request is one generation request.
type Request struct {
	JobText string

	// Resume is the user's current resume as JSON (object or string).
	Resume json.RawMessage

	// UserID and JobAdID key the status record. Progress is tracked only
	// when both are set.
	UserID  string
	JobAdID string

	// Unformatted requests a plain-text resume instead of JSON.
	Unformatted bool
}

// Result is a generated resume.
type Result struct {
	// Text is the cleaned model output.
	Text string

	// Resume is the decoded resume: FreeformResume for unformatted runs,
	// StructuredResume otherwise.
	Resume types.ResumeContent
}

// Generator runs generations against a Backend.
type Generator struct {
	backend  Backend
	status   StatusStore
	maxChars int
	log      zerolog.Logger
}

// NewGenerator creates a Generator. status may be nil, in which case no
// progress is recorded.
func NewGenerator(backend Backend, status StatusStore, cfg types.AIConfig, log zerolog.Logger) *Generator {
	maxChars := cfg.MaxChars
	if maxChars <= 0 {
		maxChars = defaultMaxChars
	}
	return &Generator{backend: backend, status: status, maxChars: maxChars, log: log}
}

// Generate produces a tailored resume. When the request is tracked, the
// status moves to processing before the model is called and to completed
// or failed afterwards.
func (g *Generator) Generate(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.JobText) == "" || emptyJSON(req.Resume) {
		return Result{}, ErrMissingInput
	}

	log := g.log.With().Str("user", req.UserID).Str("job_ad", req.JobAdID).Logger()

	if err := g.setStatus(ctx, req, types.GenerationProcessing, "", ""); err != nil {
		return Result{}, err
	}

	prompt, err := buildPrompt(req, g.maxChars)
	if err != nil {
		return Result{}, g.fail(ctx, req, err)
	}

	raw, err := g.backend.Generate(ctx, prompt)
	if err != nil {
		return Result{}, g.fail(ctx, req, fmt.Errorf("generating resume: %w", err))
	}
	text := CleanOutput(raw)

	var res Result
	if req.Unformatted {
		if n := utf8.RuneCountInString(text); n > g.maxChars {
			log.Warn().Int("chars", n).Int("limit", g.maxChars).Msg("generated resume exceeds length limit")
		}
		res = Result{Text: text, Resume: types.FreeformResume{Text: text}}
	} else {
		r, err := decodeStructured(text)
		if err != nil {
			return Result{}, g.fail(ctx, req, err)
		}
		res = Result{Text: text, Resume: r}
	}

	if err := g.setStatus(ctx, req, types.GenerationCompleted, text, ""); err != nil {
		return Result{}, err
	}
	log.Info().Bool("unformatted", req.Unformatted).Int("chars", len(text)).Msg("generated resume")
	return res, nil
}

func decodeStructured(text string) (types.StructuredResume, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(text), &m); err != nil {
		return types.StructuredResume{}, fmt.Errorf("%w: %w", ErrUnparseable, err)
	}
	r, err := resume.FromMap(m)
	if err != nil {
		return types.StructuredResume{}, fmt.Errorf("%w: %w", ErrUnparseable, err)
	}
	return r, nil
}

// fail records the failure and returns err.
func (g *Generator) fail(ctx context.Context, req Request, err error) error {
	if serr := g.setStatus(context.WithoutCancel(ctx), req, types.GenerationFailed, "", err.Error()); serr != nil {
		g.log.Warn().Err(serr).Msg("recording failed status")
	}
	return err
}

func (g *Generator) setStatus(ctx context.Context, req Request, state types.GenerationState, text, msg string) error {
	if g.status == nil || req.UserID == "" || req.JobAdID == "" {
		return nil
	}
	err := g.status.SetStatus(ctx, types.GenerationStatus{
		UserID:  req.UserID,
		JobAdID: req.JobAdID,
		State:   state,
		Resume:  text,
		Error:   msg,
	})
	if err != nil {
		return fmt.Errorf("recording %s status: %w", state, err)
	}
	return nil
}

func emptyJSON(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	switch string(raw) {
	case "", "null", `""`, "{}", "[]":
		return true
	}
	return false
}
