// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"
)

// MaxExcerptBytes bounds the response body kept for diagnostics.
var MaxExcerptBytes = 2048

// ResponseError reports an HTTP response that was not the expected payload.
// The request URL is not recorded because it may carry the whole document.
type ResponseError struct {
	// Host is the host the request was sent to.
	Host string

	// StatusCode is the HTTP status of the response.
	StatusCode int

	// ContentType is the response Content-Type header.
	ContentType string

	// Body is the start of the response body, truncated to
	// MaxExcerptBytes.
	Body string
}

func (e *ResponseError) Error() string {
	msg := fmt.Sprintf("%s returned HTTP %d (%s)", e.Host, e.StatusCode, e.ContentType)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// CheckResponse returns nil when resp has a 2xx status and a media type
// equal to wantType. Otherwise it consumes up to MaxExcerptBytes of the
// body and returns a *ResponseError. The caller still owns resp.Body.
func CheckResponse(resp *http.Response, wantType string) error {
	ct := resp.Header.Get("Content-Type")
	if resp.StatusCode >= 200 && resp.StatusCode < 300 && MediaType(ct) == wantType {
		return nil
	}
	host := ""
	if resp.Request != nil && resp.Request.URL != nil {
		host = resp.Request.URL.Host
	}
	return &ResponseError{
		Host:        host,
		StatusCode:  resp.StatusCode,
		ContentType: ct,
		Body:        Excerpt(resp.Body, MaxExcerptBytes),
	}
}

// MediaType returns the lower-cased media type of a Content-Type header
// without parameters, or "" when the header cannot be parsed.
func MediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(mt)
}

// Excerpt reads at most n bytes from r and returns them as trimmed text,
// with "..." appended when r had more. Invalid UTF-8 at the cut is dropped.
func Excerpt(r io.Reader, n int) string {
	if r == nil || n <= 0 {
		return ""
	}
	buf, _ := io.ReadAll(io.LimitReader(r, int64(n)+1))
	truncated := len(buf) > n
	if truncated {
		buf = buf[:n]
		for len(buf) > 0 && !utf8.Valid(buf) {
			buf = buf[:len(buf)-1]
		}
	}
	s := strings.TrimSpace(string(buf))
	if truncated {
		s += "..."
	}
	return s
}
