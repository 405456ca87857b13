// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/resume-engine/internal/artifact"
	"github.com/pdiddy/resume-engine/internal/compile"
	"github.com/pdiddy/resume-engine/internal/preview"
	"github.com/pdiddy/resume-engine/internal/rewrite"
	"github.com/pdiddy/resume-engine/internal/server"
	"github.com/pdiddy/resume-engine/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve opens the template store, wires the compiler, preview, generation,
and artifact components, and serves the HTTP API until interrupted.

Generation is enabled when a Gemini API key is available; downloads are
enabled when artifact storage is configured.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :3000)")
	serveCmd.Flags().String("data-dir", "", "directory holding the SQLite database (default data)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("store.data_dir", serveCmd.Flags().Lookup("data-dir"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()
	logger.Info().Str("path", st.Path()).Msg("opened store")

	deps := server.Deps{
		Store:    st,
		Compiler: compile.NewOrchestrator(cfg.Compile, logger),
		Preview:  preview.New(cfg.Preview, logger),
		Log:      logger,
	}

	if gen, err := newGenerator(ctx, st); err != nil {
		logger.Warn().Err(err).Msg("resume generation disabled")
	} else {
		deps.Generator = gen
	}

	up, err := artifact.New(cfg.Artifact, logger)
	switch {
	case errors.Is(err, artifact.ErrDisabled):
		logger.Info().Msg("artifact storage not configured, downloads disabled")
	case err != nil:
		return err
	default:
		if err := up.EnsureBucket(ctx); err != nil {
			return err
		}
		deps.Artifacts = up
	}

	return server.New(cfg.Server, deps).Run(ctx)
}

func newGenerator(ctx context.Context, st *store.Store) (*rewrite.Generator, error) {
	backend, err := rewrite.NewGeminiBackend(ctx, cfg.AI)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("model", backend.Model()).Msg("resume generation enabled")
	return rewrite.NewGenerator(backend, st, cfg.AI, logger), nil
}
