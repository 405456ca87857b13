// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/resume-engine/pkg/types"
)

func TestCompileOutputPath(t *testing.T) {
	pdf := types.CompilationResult{Data: []byte("%PDF-"), Strategy: "local"}
	source := types.CompilationResult{Data: []byte("\\documentclass{article}"), IsLatex: true}

	tests := []struct {
		name   string
		input  string
		out    string
		res    types.CompilationResult
		want   string
		errMsg string
	}{
		{name: "pdf next to input", input: "cv/resume.tex", res: pdf, want: "cv/resume.pdf"},
		{name: "source does not replace input", input: "cv/resume.tex", res: source, want: "cv/resume.source.tex"},
		{name: "explicit output", input: "resume.tex", out: "out/r.pdf", res: pdf, want: "out/r.pdf"},
		{name: "explicit output is the input", input: "resume.tex", out: "./resume.tex", res: source, errMsg: "refusing to overwrite"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := compileOutputPath(tt.input, tt.out, tt.res)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotEqual(t, tt.input, got)
		})
	}
}
