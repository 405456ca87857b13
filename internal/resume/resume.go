// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resume decodes resume payloads into types.ResumeContent. The
// variant is chosen by the JSON value itself: a string is a freeform
// resume and an object is a structured one.
package resume

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/pdiddy/resume-engine/pkg/types"
)

//go:embed schema.json
var schemaJSON []byte

var schema = mustSchema()

func mustSchema() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		panic(fmt.Sprintf("resume: invalid embedded schema: %v", err))
	}
	return s
}

// ErrInvalidResume is wrapped by every decoding failure.
var ErrInvalidResume = errors.New("invalid resume")

// knownFields are the structured fields with dedicated struct members.
var knownFields = map[string]bool{
	"emails": true, "phones": true, "objective": true,
	"skills": true, "education": true, "jobHistory": true,
}

// ValidationError lists schema violations of a structured resume.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid resume: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidResume }

// Decode parses raw into a resume. Empty input, JSON null, and blank
// strings decode to nil with no error; the merger reports those as a
// missing resume.
func Decode(raw []byte) (types.ResumeContent, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	switch raw[0] {
	case '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidResume, err)
		}
		if strings.TrimSpace(text) == "" {
			return nil, nil
		}
		return types.FreeformResume{Text: text}, nil
	case '{':
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidResume, err)
		}
		return FromMap(m)
	}
	return nil, fmt.Errorf("%w: expected a JSON string or object", ErrInvalidResume)
}

// FromMap validates m against the resume schema and converts it to a
// StructuredResume. Fields outside the known set are kept in Extra.
func FromMap(m map[string]any) (types.StructuredResume, error) {
	if err := Validate(m); err != nil {
		return types.StructuredResume{}, err
	}

	// Validation guarantees the known fields have the struct's shapes.
	b, err := json.Marshal(m)
	if err != nil {
		return types.StructuredResume{}, fmt.Errorf("%w: %w", ErrInvalidResume, err)
	}
	var r types.StructuredResume
	if err := json.Unmarshal(b, &r); err != nil {
		return types.StructuredResume{}, fmt.Errorf("%w: %w", ErrInvalidResume, err)
	}
	for k, v := range m {
		if knownFields[k] {
			continue
		}
		if r.Extra == nil {
			r.Extra = make(map[string]any)
		}
		r.Extra[k] = v
	}
	return r, nil
}

// Validate checks m against the embedded resume schema.
func Validate(m map[string]any) error {
	res, err := schema.Validate(gojsonschema.NewGoLoader(m))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResume, err)
	}
	if res.Valid() {
		return nil
	}
	problems := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		problems = append(problems, e.String())
	}
	return &ValidationError{Problems: problems}
}

// Encode is the inverse of Decode: a freeform resume becomes a JSON string
// and a structured resume an object with Extra fields inlined.
func Encode(r types.ResumeContent) ([]byte, error) {
	switch v := r.(type) {
	case types.FreeformResume:
		return json.Marshal(v.Text)
	case *types.FreeformResume:
		return json.Marshal(v.Text)
	case types.StructuredResume:
		return encodeStructured(v)
	case *types.StructuredResume:
		return encodeStructured(*v)
	}
	return nil, fmt.Errorf("%w: unsupported resume type %T", ErrInvalidResume, r)
}

func encodeStructured(r types.StructuredResume) ([]byte, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	if len(r.Extra) == 0 {
		return b, nil
	}
	m := make(map[string]any, len(r.Extra)+6)
	for k, v := range r.Extra {
		m[k] = v
	}
	var known map[string]any
	if err := json.Unmarshal(b, &known); err != nil {
		return nil, err
	}
	for k, v := range known {
		m[k] = v
	}
	return json.Marshal(m)
}
