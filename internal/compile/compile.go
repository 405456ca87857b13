// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compile turns merged LaTeX documents into PDFs. Two strategies
// exist, a local engine subprocess and a hosted compilation service; the
// Orchestrator picks between them by runtime mode and falls back to the
// other when policy allows.
package compile

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pdiddy/resume-engine/pkg/types"
)

// Compiler is one compilation strategy.
type Compiler interface {
	// Name identifies the strategy ("local" or "remote").
	Name() string

	// Compile typesets doc and returns the PDF bytes. Errors wrap
	// ErrCompile.
	Compile(ctx context.Context, doc string) ([]byte, error)
}

// Orchestrator selects and sequences compilation strategies.
type Orchestrator struct {
	local  Compiler
	remote Compiler
	cfg    types.CompileConfig
	log    zerolog.Logger
}

// NewOrchestrator builds the local and remote compilers from cfg.
func NewOrchestrator(cfg types.CompileConfig, log zerolog.Logger) *Orchestrator {
	return NewOrchestratorWith(
		NewLocalCompiler(cfg.Local, log),
		NewRemoteCompiler(cfg.Remote, log),
		cfg, log,
	)
}

// NewOrchestratorWith uses the given strategies. Either may be nil, in
// which case it is never attempted.
func NewOrchestratorWith(local, remote Compiler, cfg types.CompileConfig, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{local: local, remote: remote, cfg: cfg, log: log}
}

// PrefersLocal reports whether the local engine is the first strategy.
// ForceLocal always wins; otherwise production mode prefers remote.
func (o *Orchestrator) PrefersLocal() bool {
	return o.cfg.ForceLocal || o.cfg.Mode != types.ModeProduction
}

// Plan returns the strategies Compile will try, in order.
//
// ForceLocal restricts the plan to the local engine. Otherwise the
// alternate strategy follows the preferred one only when
// AllowLocalFallback is set.
func (o *Orchestrator) Plan() []Compiler {
	preferred, alternate := o.remote, o.local
	if o.PrefersLocal() {
		preferred, alternate = o.local, o.remote
	}

	plan := make([]Compiler, 0, 2)
	if preferred != nil {
		plan = append(plan, preferred)
	}
	if !o.cfg.ForceLocal && o.cfg.AllowLocalFallback && alternate != nil {
		plan = append(plan, alternate)
	}
	return plan
}

// Compile runs the plan until one strategy succeeds. When every strategy
// fails the error is an *AggregateError listing each failure in order.
func (o *Orchestrator) Compile(ctx context.Context, doc string) (types.CompilationResult, error) {
	plan := o.Plan()
	if len(plan) == 0 {
		return types.CompilationResult{}, ErrEngineNotFound
	}

	agg := &AggregateError{}
	for i, c := range plan {
		pdf, err := c.Compile(ctx, doc)
		if err == nil {
			if i > 0 {
				o.log.Info().Str("strategy", c.Name()).Msg("fallback strategy succeeded")
			}
			return types.CompilationResult{Data: pdf, Strategy: c.Name()}, nil
		}
		agg.Attempts = append(agg.Attempts, StrategyError{Strategy: c.Name(), Err: err})
		o.log.Warn().Err(err).Str("strategy", c.Name()).Msg("compilation strategy failed")

		if ctx.Err() != nil {
			break
		}
	}
	return types.CompilationResult{}, agg
}

// CompileOrSource compiles doc, degrading to the markup itself when
// compilation is disabled (LatexOnly) or when it fails while the local
// engine is preferred. The degraded result has IsLatex set and a nil
// error. In production mode a failure is returned as an error.
func (o *Orchestrator) CompileOrSource(ctx context.Context, doc string) (types.CompilationResult, error) {
	if o.cfg.LatexOnly {
		return sourceResult(doc), nil
	}
	res, err := o.Compile(ctx, doc)
	if err == nil {
		return res, nil
	}
	if !o.PrefersLocal() || ctx.Err() != nil {
		return types.CompilationResult{}, err
	}
	o.log.Warn().Err(err).Msg("compilation failed, returning LaTeX source")
	return sourceResult(doc), nil
}

func sourceResult(doc string) types.CompilationResult {
	return types.CompilationResult{Data: []byte(doc), IsLatex: true}
}
