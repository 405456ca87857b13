// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package preview

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/resume-engine/pkg/types"
)

var (
	fakePDF = []byte("%PDF-1.5\n%fake document\n")
	fakePNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
)

type mockRunner struct {
	fn   func(dir, name string, args []string) ([]byte, error)
	args []string
}

func (m *mockRunner) Run(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	m.args = append([]string{name}, args...)
	return m.fn(dir, name, args)
}

func newTestRasterizer(t *testing.T, fn func(dir, name string, args []string) ([]byte, error)) (*Rasterizer, *mockRunner, string) {
	t.Helper()
	parent := t.TempDir()
	r := New(types.PreviewConfig{TempDir: parent, DPI: 72}, zerolog.Nop())
	m := &mockRunner{fn: fn}
	r.run = m
	return r, m, parent
}

func assertCleaned(t *testing.T, parent string) {
	t.Helper()
	entries, err := os.ReadDir(parent)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestToRaster_Success(t *testing.T) {
	r, m, parent := newTestRasterizer(t, func(dir, _ string, _ []string) ([]byte, error) {
		in, err := os.ReadFile(filepath.Join(dir, inputFile))
		if err != nil {
			return nil, err
		}
		if string(in) != string(fakePDF) {
			return nil, errors.New("unexpected input")
		}
		return nil, os.WriteFile(filepath.Join(dir, "out.png"), fakePNG, 0o600)
	})

	got := r.ToRaster(context.Background(), fakePDF)
	assert.Equal(t, fakePNG, got)
	assert.Equal(t, []string{"pdftoppm", "-png", "-singlefile", "-r", "72", "in.pdf", "out"}, m.args)
	assert.Equal(t, TypePNG, ContentType(got))
	assertCleaned(t, parent)
}

func TestToRaster_Fallbacks(t *testing.T) {
	tests := []struct {
		name string
		fn   func(dir, name string, args []string) ([]byte, error)
	}{
		{"tool missing", func(string, string, []string) ([]byte, error) {
			return nil, errors.New(`exec: "pdftoppm": executable file not found in $PATH`)
		}},
		{"nonzero exit", func(string, string, []string) ([]byte, error) {
			return []byte("Syntax Error: Couldn't find trailer dictionary"), errors.New("exit status 1")
		}},
		{"no output file", func(string, string, []string) ([]byte, error) {
			return nil, nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, parent := newTestRasterizer(t, tt.fn)

			got := r.ToRaster(context.Background(), fakePDF)
			assert.Equal(t, fakePDF, got)
			assert.Equal(t, TypePDF, ContentType(got))
			assertCleaned(t, parent)
		})
	}
}

func TestToRaster_RealMissingTool(t *testing.T) {
	parent := t.TempDir()
	r := New(types.PreviewConfig{Tool: "definitely-not-a-real-rasterizer", TempDir: parent}, zerolog.Nop())

	assert.Equal(t, fakePDF, r.ToRaster(context.Background(), fakePDF))
	assertCleaned(t, parent)
}

func TestToRaster_Empty(t *testing.T) {
	r, m, _ := newTestRasterizer(t, func(string, string, []string) ([]byte, error) { return nil, nil })
	assert.Empty(t, r.ToRaster(context.Background(), nil))
	assert.Nil(t, m.args)
}

func TestContentTypeAndExtension(t *testing.T) {
	assert.Equal(t, TypePNG, ContentType(fakePNG))
	assert.Equal(t, TypePDF, ContentType(fakePDF))
	assert.Equal(t, ".png", Extension(fakePNG))
	assert.Equal(t, ".pdf", Extension(fakePDF))
}

func TestNewDefaults(t *testing.T) {
	r := New(types.PreviewConfig{}, zerolog.Nop())
	assert.Equal(t, "pdftoppm", r.tool)
	assert.Equal(t, 100, r.dpi)
}
