// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCompile is wrapped by every compilation failure.
var ErrCompile = errors.New("compilation failed")

// ErrDocumentTooLarge is returned by the remote compiler, without making a
// request, when the encoded document would exceed the URL length limit.
var ErrDocumentTooLarge = fmt.Errorf("%w: document too large for remote compilation", ErrCompile)

// ErrEngineNotFound is returned when neither the engine binary nor a
// container image is available.
var ErrEngineNotFound = fmt.Errorf("%w: typesetting engine not found", ErrCompile)

// EngineError reports a typesetting engine run that did not produce a PDF.
type EngineError struct {
	// Engine is the binary that was run (e.g. "pdflatex").
	Engine string

	// ExitCode is the process exit code, or -1 when the process did not
	// exit normally (killed, timed out, failed to start).
	ExitCode int

	// Output is the tail of the engine's combined stdout and stderr.
	Output string

	// LogTail is the tail of the engine's .log file, when one was written.
	LogTail string

	// Err is the underlying error.
	Err error
}

func (e *EngineError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Engine, e.ExitCode)
	if d := e.diagnostic(); d != "" {
		msg += ": " + d
	}
	return msg
}

// diagnostic returns the first "!" error line from the log or output,
// which is where TeX reports the failure.
func (e *EngineError) diagnostic() string {
	for _, text := range []string{e.LogTail, e.Output} {
		for _, line := range strings.Split(text, "\n") {
			if strings.HasPrefix(line, "!") {
				return strings.TrimSpace(line)
			}
		}
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return ""
}

func (e *EngineError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCompile}
	}
	return []error{ErrCompile, e.Err}
}

// StrategyError is one strategy's failure inside an AggregateError.
type StrategyError struct {
	Strategy string
	Err      error
}

// AggregateError is returned when every attempted strategy failed. It
// carries each strategy's error in attempt order.
type AggregateError struct {
	Attempts []StrategyError
}

func (e *AggregateError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, a.Strategy+": "+a.Err.Error())
	}
	return "all compilation strategies failed: " + strings.Join(parts, "; ")
}

func (e *AggregateError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts)+1)
	errs = append(errs, ErrCompile)
	for _, a := range e.Attempts {
		errs = append(errs, a.Err)
	}
	return errs
}
