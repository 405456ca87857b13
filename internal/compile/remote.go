// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pdiddy/resume-engine/internal/httputil"
	"github.com/pdiddy/resume-engine/pkg/types"
)

// DefaultRemoteURL is the hosted compile endpoint used when none is
// configured.
var DefaultRemoteURL = "https://latexonline.cc/compile"

const (
	defaultRemoteParam   = "text"
	defaultMaxURLLength  = 8000
	defaultRemoteTimeout = 60 * time.Second
	defaultUserAgent     = "resume-engine/0.1"

	// maxPDFBytes bounds the response body read from the service.
	maxPDFBytes = 32 << 20
)

// RemoteCompiler submits documents to a hosted compilation service as a
// URL-encoded query parameter of a GET request. It makes exactly one
// request per call.
type RemoteCompiler struct {
	baseURL      string
	param        string
	maxURLLength int
	userAgent    string

	client  *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

// NewRemoteCompiler creates a RemoteCompiler from cfg, applying defaults
// for unset fields. A positive RateLimitRPS enables an outbound limiter
// shared by all calls on the returned compiler.
func NewRemoteCompiler(cfg types.RemoteEngineConfig, log zerolog.Logger) *RemoteCompiler {
	c := &RemoteCompiler{
		baseURL:      cfg.BaseURL,
		param:        cfg.Param,
		maxURLLength: cfg.MaxURLLength,
		userAgent:    cfg.UserAgent,
		log:          log.With().Str("strategy", "remote").Logger(),
	}
	if c.baseURL == "" {
		c.baseURL = DefaultRemoteURL
	}
	if c.param == "" {
		c.param = defaultRemoteParam
	}
	if c.maxURLLength <= 0 {
		c.maxURLLength = defaultMaxURLLength
	}
	if c.userAgent == "" {
		c.userAgent = defaultUserAgent
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	c.client = &http.Client{Timeout: timeout}
	if cfg.RateLimitRPS > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), 1)
	}
	return c
}

// Name returns "remote".
func (c *RemoteCompiler) Name() string { return "remote" }

// Compile sends doc to the service and returns the PDF bytes.
func (c *RemoteCompiler) Compile(ctx context.Context, doc string) ([]byte, error) {
	reqURL, err := c.requestURL(doc)
	if err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: waiting for rate limiter: %w", ErrCompile, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %w", ErrCompile, err)
	}
	req.Header.Set("Accept", "application/pdf")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: requesting %s: %w", ErrCompile, req.URL.Host, stripURL(err))
	}
	defer resp.Body.Close()

	if err := httputil.CheckResponse(resp, "application/pdf"); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}

	pdf, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrCompile, err)
	}

	c.log.Debug().
		Int("bytes", len(pdf)).
		Dur("elapsed", time.Since(start)).
		Msg("compiled document")
	return pdf, nil
}

// requestURL builds the GET URL for doc, failing with ErrDocumentTooLarge
// when it would exceed the configured length.
func (c *RemoteCompiler) requestURL(doc string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: parsing base URL: %w", ErrCompile, err)
	}
	q := u.Query()
	q.Set(c.param, doc)
	u.RawQuery = q.Encode()

	s := u.String()
	if len(s) > c.maxURLLength {
		return "", fmt.Errorf("%w (%d bytes encoded, limit %d)", ErrDocumentTooLarge, len(s), c.maxURLLength)
	}
	return s, nil
}

// stripURL drops the request URL from transport errors; it carries the
// whole document.
func stripURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	return err
}
