// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compile

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/resume-engine/pkg/types"
)

// fakeCompiler returns a fixed result and counts calls.
type fakeCompiler struct {
	name  string
	fail  bool
	calls int
}

func (f *fakeCompiler) Name() string { return f.name }

func (f *fakeCompiler) Compile(context.Context, string) ([]byte, error) {
	f.calls++
	if f.fail {
		return nil, fmt.Errorf("%w: %s broke", ErrCompile, f.name)
	}
	return []byte("%PDF " + f.name), nil
}

func TestOrchestratorCompile(t *testing.T) {
	tests := []struct {
		name         string
		cfg          types.CompileConfig
		localFails   bool
		remoteFails  bool
		wantStrategy string
		wantErr      bool
		wantLocal    int
		wantRemote   int
	}{
		{
			name:         "development prefers local",
			cfg:          types.CompileConfig{Mode: types.ModeDevelopment},
			wantStrategy: "local", wantLocal: 1,
		},
		{
			name:         "production prefers remote",
			cfg:          types.CompileConfig{Mode: types.ModeProduction},
			wantStrategy: "remote", wantRemote: 1,
		},
		{
			name:         "force local wins over production",
			cfg:          types.CompileConfig{Mode: types.ModeProduction, ForceLocal: true},
			wantStrategy: "local", wantLocal: 1,
		},
		{
			name:         "production falls back to local when allowed",
			cfg:          types.CompileConfig{Mode: types.ModeProduction, AllowLocalFallback: true},
			remoteFails:  true,
			wantStrategy: "local", wantLocal: 1, wantRemote: 1,
		},
		{
			name:         "development falls back to remote when allowed",
			cfg:          types.CompileConfig{AllowLocalFallback: true},
			localFails:   true,
			wantStrategy: "remote", wantLocal: 1, wantRemote: 1,
		},
		{
			name:        "no fallback without permission",
			cfg:         types.CompileConfig{Mode: types.ModeProduction},
			remoteFails: true,
			wantErr:     true, wantRemote: 1,
		},
		{
			name:       "force local never tries remote",
			cfg:        types.CompileConfig{ForceLocal: true, AllowLocalFallback: true},
			localFails: true,
			wantErr:    true, wantLocal: 1,
		},
		{
			name:        "both fail",
			cfg:         types.CompileConfig{Mode: types.ModeProduction, AllowLocalFallback: true},
			localFails:  true,
			remoteFails: true,
			wantErr:     true, wantLocal: 1, wantRemote: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := &fakeCompiler{name: "local", fail: tt.localFails}
			remote := &fakeCompiler{name: "remote", fail: tt.remoteFails}
			o := NewOrchestratorWith(local, remote, tt.cfg, zerolog.Nop())

			res, err := o.Compile(context.Background(), testDoc)
			assert.Equal(t, tt.wantLocal, local.calls)
			assert.Equal(t, tt.wantRemote, remote.calls)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrCompile)
				var agg *AggregateError
				require.True(t, errors.As(err, &agg))
				assert.Len(t, agg.Attempts, tt.wantLocal+tt.wantRemote)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStrategy, res.Strategy)
			assert.Equal(t, "%PDF "+tt.wantStrategy, string(res.Data))
			assert.False(t, res.IsLatex)
		})
	}
}

func TestOrchestratorAggregateMessage(t *testing.T) {
	o := NewOrchestratorWith(
		&fakeCompiler{name: "local", fail: true},
		&fakeCompiler{name: "remote", fail: true},
		types.CompileConfig{Mode: types.ModeProduction, AllowLocalFallback: true},
		zerolog.Nop(),
	)

	_, err := o.Compile(context.Background(), testDoc)
	require.Error(t, err)
	assert.Equal(t,
		"all compilation strategies failed: remote: compilation failed: remote broke; local: compilation failed: local broke",
		err.Error())
}

func TestOrchestratorNoStrategies(t *testing.T) {
	o := NewOrchestratorWith(nil, nil, types.CompileConfig{}, zerolog.Nop())
	assert.Empty(t, o.Plan())

	_, err := o.Compile(context.Background(), testDoc)
	assert.ErrorIs(t, err, ErrEngineNotFound)
}

func TestOrchestratorStopsOnCancel(t *testing.T) {
	local := &fakeCompiler{name: "local", fail: true}
	remote := &fakeCompiler{name: "remote"}
	o := NewOrchestratorWith(local, remote, types.CompileConfig{AllowLocalFallback: true}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := o.Compile(ctx, testDoc)
	assert.Error(t, err)
	assert.Zero(t, remote.calls)
}

func TestCompileOrSource(t *testing.T) {
	tests := []struct {
		name       string
		cfg        types.CompileConfig
		fail       bool
		wantLatex  bool
		wantErr    bool
		wantCalled bool
	}{
		{"latex only skips compilation", types.CompileConfig{LatexOnly: true}, false, true, false, false},
		{"success returns pdf", types.CompileConfig{}, false, false, false, true},
		{"local mode failure degrades", types.CompileConfig{}, true, true, false, true},
		{"production failure is an error", types.CompileConfig{Mode: types.ModeProduction}, true, false, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := &fakeCompiler{name: "local", fail: tt.fail}
			remote := &fakeCompiler{name: "remote", fail: tt.fail}
			o := NewOrchestratorWith(local, remote, tt.cfg, zerolog.Nop())

			res, err := o.CompileOrSource(context.Background(), testDoc)
			assert.Equal(t, tt.wantCalled, local.calls+remote.calls > 0)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrCompile)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLatex, res.IsLatex)
			if tt.wantLatex {
				assert.Equal(t, testDoc, string(res.Data))
				assert.Equal(t, "text/plain", res.ContentType())
				assert.Equal(t, ".tex", res.Extension())
			} else {
				assert.Equal(t, "application/pdf", res.ContentType())
			}
		})
	}
}

func TestEngineErrorUnwrap(t *testing.T) {
	inner := errors.New("signal: killed")
	err := error(&EngineError{Engine: "pdflatex", ExitCode: -1, Err: inner})

	assert.ErrorIs(t, err, ErrCompile)
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "pdflatex exited with code -1: signal: killed", err.Error())
}
