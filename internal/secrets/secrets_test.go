// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/resume-engine/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T) string
		want   map[string]string
		errMsg string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, GeminiAPIKey, "  gk_abc123  \n")
				writeFile(t, dir, ArtifactAccessKey, "minio")
				writeFile(t, dir, ArtifactSecretKey, "minio-secret\n")
				return dir
			},
			want: map[string]string{
				GeminiAPIKey:      "gk_abc123",
				ArtifactAccessKey: "minio",
				ArtifactSecretKey: "minio-secret",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, GeminiAPIKey, "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				GeminiAPIKey: "valid-key",
			},
		},
		{
			name: "skips dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, ArtifactSecretKey, "real")
				return dir
			},
			want: map[string]string{
				ArtifactSecretKey: "real",
			},
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, GeminiAPIKey, "gk_123")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				GeminiAPIKey: "gk_123",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := Load(dir, zerolog.Nop())
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupFallsBackToEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", " from-env ")
	t.Setenv("ARTIFACT_SECRET_KEY", "")

	assert.Equal(t, "from-file", Lookup(map[string]string{GeminiAPIKey: "from-file"}, GeminiAPIKey))
	assert.Equal(t, "from-env", Lookup(nil, GeminiAPIKey))
	assert.Empty(t, Lookup(nil, ArtifactSecretKey))
	assert.Empty(t, Lookup(nil, "unknown-key"))
}

func TestApply(t *testing.T) {
	t.Setenv("ARTIFACT_ACCESS_KEY", "env-access")

	cfg := types.Config{}
	cfg.AI.APIKey = "configured"
	Apply(&cfg, map[string]string{
		GeminiAPIKey:      "ignored",
		ArtifactSecretKey: "file-secret",
	})

	assert.Equal(t, "configured", cfg.AI.APIKey)
	assert.Equal(t, "env-access", cfg.Artifact.AccessKeyID)
	assert.Equal(t, "file-secret", cfg.Artifact.SecretAccessKey)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
