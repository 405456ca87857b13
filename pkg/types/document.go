// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Template is a LaTeX document template. Content carries either the
// aggregate placeholder {{RESUME_CONTENT}} or per-field {{fieldName}} tokens.
type Template struct {
	// ID is the store identifier (a UUID for user templates, a slug for
	// built-ins).
	ID string `json:"id" yaml:"id"`

	// Name is the display name (e.g. "Classic").
	Name string `json:"name" yaml:"name"`

	// Description is a one-line summary shown in template pickers.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Content is the LaTeX source.
	Content string `json:"content" yaml:"content"`

	// UpdatedAt is the last time the content was written.
	UpdatedAt time.Time `json:"updatedAt,omitempty" yaml:"updated_at,omitempty"`
}

// CompilationResult is the artifact produced for one compile request.
// When IsLatex is true, Data is the merged markup returned in place of a
// PDF because compilation was unavailable or failed under local mode.
type CompilationResult struct {
	// Data is the PDF bytes, or the LaTeX source when IsLatex is set.
	Data []byte

	// IsLatex marks the degraded result.
	IsLatex bool

	// Strategy names the compiler that produced Data ("local", "remote"),
	// empty for degraded results.
	Strategy string
}

// ContentType returns the MIME type for the result payload.
func (r CompilationResult) ContentType() string {
	if r.IsLatex {
		return "text/plain"
	}
	return "application/pdf"
}

// Extension returns the file extension matching the payload.
func (r CompilationResult) Extension() string {
	if r.IsLatex {
		return ".tex"
	}
	return ".pdf"
}

// GenerationState is the lifecycle state of an AI resume generation.
type GenerationState string

const (
	GenerationIdle       GenerationState = "idle"
	GenerationProcessing GenerationState = "processing"
	GenerationCompleted  GenerationState = "completed"
	GenerationFailed     GenerationState = "failed"
)

// GenerationStatus tracks one generation keyed by (UserID, JobAdID).
type GenerationStatus struct {
	UserID  string          `json:"userId" yaml:"user_id"`
	JobAdID string          `json:"jobAdId" yaml:"job_ad_id"`
	State   GenerationState `json:"status" yaml:"status"`

	// Resume is the generated resume: raw text for unformatted runs, JSON
	// for structured runs. Empty until State is completed.
	Resume string `json:"resume,omitempty" yaml:"resume,omitempty"`

	// Error records the failure message when State is failed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	UpdatedAt time.Time `json:"updatedAt" yaml:"updated_at"`
}

// StoredResume is a resume record as persisted by the store. Body is the
// raw JSON value: a JSON string for freeform resumes, an object otherwise.
type StoredResume struct {
	ID        string    `json:"id" yaml:"id"`
	UserID    string    `json:"userId" yaml:"user_id"`
	Body      []byte    `json:"body" yaml:"body"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updated_at"`
}
