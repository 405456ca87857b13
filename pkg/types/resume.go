// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the resume-engine pipeline:
// resume content, templates, compilation results, generation status, and the
// configuration structs for each stage.
package types

// ResumeContent is the resume supplied to the merger. It has exactly two
// variants, StructuredResume and FreeformResume; callers dispatch with a type
// switch. The unexported marker method keeps the set closed.
type ResumeContent interface {
	isResumeContent()
}

// EducationEntry is one school record in a structured resume.
type EducationEntry struct {
	// School is the institution name.
	School string `json:"school" yaml:"school"`

	// Degree is the degree or program (e.g. "B.S. Computer Science").
	Degree string `json:"degree" yaml:"degree"`

	// Years is the attendance range (optional, e.g. "2021-2025").
	Years string `json:"years,omitempty" yaml:"years,omitempty"`
}

// JobEntry is one position in a structured resume's job history.
type JobEntry struct {
	// Company is the employer name.
	Company string `json:"company" yaml:"company"`

	// Title is the role held.
	Title string `json:"title" yaml:"title"`

	// Dates is the employment range (optional, e.g. "2023-Present").
	Dates string `json:"dates,omitempty" yaml:"dates,omitempty"`

	// Responsibilities lists achievement or duty bullets.
	Responsibilities []string `json:"responsibilities,omitempty" yaml:"responsibilities,omitempty"`
}

// StructuredResume is the record-shaped resume variant.
type StructuredResume struct {
	Emails     []string         `json:"emails,omitempty" yaml:"emails,omitempty"`
	Phones     []string         `json:"phones,omitempty" yaml:"phones,omitempty"`
	Objective  string           `json:"objective,omitempty" yaml:"objective,omitempty"`
	Skills     []string         `json:"skills,omitempty" yaml:"skills,omitempty"`
	Education  []EducationEntry `json:"education,omitempty" yaml:"education,omitempty"`
	JobHistory []JobEntry       `json:"jobHistory,omitempty" yaml:"jobHistory,omitempty"`

	// Extra holds any additional top-level fields (bio, name, links...).
	// Values keep their decoded JSON shape: string, number, bool, []any,
	// or map[string]any.
	Extra map[string]any `json:"-" yaml:"-"`
}

func (StructuredResume) isResumeContent() {}

// FreeformResume is an opaque plain-text resume, typically produced by the
// AI rewrite step. Section headers are expected as all-caps lines.
type FreeformResume struct {
	Text string `json:"text" yaml:"text"`
}

func (FreeformResume) isResumeContent() {}
