// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import (
	"errors"
	"fmt"
)

// ErrConfig is the class of template configuration errors. A merge that
// fails with an error wrapping ErrConfig will fail again for the same
// template.
var ErrConfig = errors.New("template configuration error")

// ErrMissingTemplate is returned when the template has no content.
var ErrMissingTemplate = fmt.Errorf("%w: template content is empty", ErrConfig)

// ErrMissingResume is returned when no resume data is supplied.
var ErrMissingResume = errors.New("resume data is missing")

// ConfigError reports a template that lacks the placeholder the resume
// variant needs.
type ConfigError struct {
	// Template is the template name, empty when the template is unnamed.
	Template string

	// Placeholder is the token that was expected.
	Placeholder string
}

func (e *ConfigError) Error() string {
	if e.Template == "" {
		return fmt.Sprintf("template is missing placeholder %s", e.Placeholder)
	}
	return fmt.Sprintf("template %q is missing placeholder %s", e.Template, e.Placeholder)
}

// Unwrap lets errors.Is(err, ErrConfig) match.
func (e *ConfigError) Unwrap() error { return ErrConfig }
