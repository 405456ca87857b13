// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the resume pipeline over HTTP with Fiber.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/resume-engine/internal/artifact"
	"github.com/pdiddy/resume-engine/internal/compile"
	"github.com/pdiddy/resume-engine/internal/latex"
	"github.com/pdiddy/resume-engine/internal/logging"
	"github.com/pdiddy/resume-engine/internal/resume"
	"github.com/pdiddy/resume-engine/internal/rewrite"
	"github.com/pdiddy/resume-engine/internal/store"
	"github.com/pdiddy/resume-engine/pkg/types"
)

const (
	defaultAddr      = ":3000"
	defaultBodyLimit = 1 << 20
	shutdownTimeout  = 10 * time.Second
)

// Previewer turns a PDF into an inline preview image.
type Previewer interface {
	ToRaster(ctx context.Context, pdf []byte) []byte
}

// Uploader stores compiled PDFs and returns download links.
type Uploader interface {
	UploadPDF(ctx context.Context, userID string, pdf []byte) (artifact.Artifact, error)
}

// Deps are the collaborators behind the handlers. Generator and Artifacts
// may be nil; their routes then answer 503.
type Deps struct {
	Store     *store.Store
	Compiler  *compile.Orchestrator
	Preview   Previewer
	Generator *rewrite.Generator
	Artifacts Uploader
	Log       zerolog.Logger
}

// Server is the HTTP API.
type Server struct {
	app  *fiber.App
	addr string
	deps Deps
	log  zerolog.Logger
}

// New builds the Fiber app and registers every route.
func New(cfg types.ServerConfig, deps Deps) *Server {
	s := &Server{addr: cfg.Addr, deps: deps, log: deps.Log}
	if s.addr == "" {
		s.addr = defaultAddr
	}
	limit := cfg.BodyLimit
	if limit <= 0 {
		limit = defaultBodyLimit
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "resume-engine",
		BodyLimit:             limit,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(recover.New())
	s.app.Use(s.requestContext)
	s.routes()
	return s
}

// App returns the underlying Fiber app.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) routes() {
	s.app.Get("/healthz", s.health)

	api := s.app.Group("/api")

	api.Get("/templates", s.listTemplates)
	api.Post("/templates", s.createTemplate)
	api.Post("/templates/repair", s.repairTemplates)
	api.Get("/templates/:id", s.getTemplate)

	api.Post("/resumes", s.createResume)
	api.Post("/resumes/format", s.formatResume)
	api.Post("/resumes/compile", s.compileResume)
	api.Get("/resumes/preview", s.previewResume)
	api.Post("/resumes/download", s.downloadResume)
	api.Get("/resumes/:id", s.getResume)

	api.Post("/generate", s.generate)
	api.Get("/generate", s.generationStatus)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.addr).Msg("listening")
		errc <- s.app.Listen(s.addr)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info().Msg("shutting down")
	return s.app.ShutdownWithContext(shutdownCtx)
}

// requestContext tags each request with an ID, attaches a request-scoped
// logger to the user context, and logs the outcome.
func (s *Server) requestContext(c *fiber.Ctx) error {
	id := c.Get(fiber.HeaderXRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(fiber.HeaderXRequestID, id)

	l := s.log.With().Str("request_id", id).Logger()
	c.SetUserContext(l.WithContext(c.UserContext()))

	start := time.Now()
	if err := c.Next(); err != nil {
		if herr := s.handleError(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	l.Info().
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", c.Response().StatusCode()).
		Dur("elapsed", time.Since(start)).
		Msg("request")
	return nil
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// apiError carries the status and client message chosen by a handler.
type apiError struct {
	status int
	msg    string
	err    error
}

func (e *apiError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *apiError) Unwrap() error { return e.err }

func fail(status int, msg string, err error) error {
	return &apiError{status: status, msg: msg, err: err}
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	body := errorBody{Error: http.StatusText(status), Details: err.Error()}

	var ae *apiError
	var fe *fiber.Error
	switch {
	case errors.As(err, &ae):
		status = ae.status
		body = errorBody{Error: ae.msg}
		if ae.err != nil {
			body.Details = ae.err.Error()
		}
	case errors.As(err, &fe):
		status = fe.Code
		body = errorBody{Error: fe.Message}
	}

	l := logging.FromContext(c.UserContext())
	ev := l.Warn()
	if status >= http.StatusInternalServerError {
		ev = l.Error()
	}
	ev.Err(err).Int("status", status).Msg("request failed")

	return c.Status(status).JSON(body)
}

// StatusFor maps pipeline errors to HTTP status codes: template and input
// errors are 400, missing records 404, everything else 500.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, latex.ErrConfig),
		errors.Is(err, latex.ErrMissingResume),
		errors.Is(err, resume.ErrInvalidResume),
		errors.Is(err, rewrite.ErrMissingInput):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, store.ErrNoTemplates):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) health(c *fiber.Ctx) error {
	if s.deps.Store != nil {
		if err := s.deps.Store.Ping(c.UserContext()); err != nil {
			return fail(fiber.StatusServiceUnavailable, "Store unavailable", err)
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
