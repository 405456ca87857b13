// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the resume-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/resume-engine/internal/logging"
	"github.com/pdiddy/resume-engine/internal/secrets"
	"github.com/pdiddy/resume-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg is the merged configuration, loaded before every command runs.
var cfg types.Config

// logger is the process logger built from cfg.Log.
var logger zerolog.Logger

// rootCmd is the base command for the resume-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "resume-engine",
	Short: "Merge resumes into LaTeX templates and compile them to PDF",
	Long: `resume-engine turns resume data and LaTeX templates into finished
documents. It repairs templates damaged by repeated serialization, merges
structured or free-form resumes into them, and compiles the result with a
local engine or a hosted compilation service.

Run "resume-engine serve" for the HTTP API, or use the merge, compile,
preview, repair, and templates subcommands directly.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = c
		logger = logging.Init(cfg.Log)

		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir, logger)
		if err != nil {
			return err
		}
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug().Strs("keys", keys).Msg("loaded secrets")
		}
		secrets.Apply(&cfg, s)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./resume-engine.yaml or ~/.config/resume-engine/resume-engine.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets/", "directory of secret files (gemini-api-key, artifact-access-key, artifact-secret-key)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: json or pretty")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("resume-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "resume-engine"))
		}
	}

	viper.SetEnvPrefix("RESUME_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	// NODE_ENV is honoured for deployments that already set it.
	_ = viper.BindEnv("compile.mode", "RESUME_ENGINE_COMPILE_MODE", "NODE_ENV")

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")

	viper.SetDefault("compile.mode", string(types.ModeDevelopment))
	viper.SetDefault("compile.force_local", false)
	viper.SetDefault("compile.allow_local_fallback", false)
	viper.SetDefault("compile.latex_only", false)
	viper.SetDefault("compile.local.engine", "pdflatex")
	viper.SetDefault("compile.local.temp_dir", "")
	viper.SetDefault("compile.local.timeout", "60s")
	viper.SetDefault("compile.local.container_image", "")
	viper.SetDefault("compile.local.class_files", []string{})
	viper.SetDefault("compile.remote.base_url", "")
	viper.SetDefault("compile.remote.param", "text")
	viper.SetDefault("compile.remote.max_url_length", 8000)
	viper.SetDefault("compile.remote.rate_limit_rps", 0)
	viper.SetDefault("compile.remote.timeout", "60s")
	viper.SetDefault("compile.remote.user_agent", "resume-engine/"+version)

	viper.SetDefault("preview.tool", "pdftoppm")
	viper.SetDefault("preview.dpi", 100)
	viper.SetDefault("preview.temp_dir", "")

	viper.SetDefault("store.data_dir", "data")
	viper.SetDefault("store.seed_templates", true)

	viper.SetDefault("ai.model", "")
	viper.SetDefault("ai.api_key", "")
	viper.SetDefault("ai.base_url", "")
	viper.SetDefault("ai.max_chars", 1900)

	viper.SetDefault("artifact.endpoint", "")
	viper.SetDefault("artifact.access_key_id", "")
	viper.SetDefault("artifact.secret_access_key", "")
	viper.SetDefault("artifact.bucket", "")
	viper.SetDefault("artifact.use_ssl", true)
	viper.SetDefault("artifact.url_expiry", "1h")

	viper.SetDefault("server.addr", ":3000")
	viper.SetDefault("server.body_limit", 1<<20)
}

// loadConfig decodes viper's merged view into the typed config.
func loadConfig() (types.Config, error) {
	var c types.Config
	if err := viper.Unmarshal(&c); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	return c, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
