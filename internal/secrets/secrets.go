// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: gemini-api-key, artifact-access-key, artifact-secret-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/resume-engine/pkg/types"
)

// Key file names.
const (
	GeminiAPIKey      = "gemini-api-key"
	ArtifactAccessKey = "artifact-access-key"
	ArtifactSecretKey = "artifact-secret-key"
)

// envFallback maps each key file to the environment variable consulted
// when the file is absent.
var envFallback = map[string]string{
	GeminiAPIKey:      "GEMINI_API_KEY",
	ArtifactAccessKey: "ARTIFACT_ACCESS_KEY",
	ArtifactSecretKey: "ARTIFACT_SECRET_KEY",
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged as warnings but do not abort.
func Load(dir string, log zerolog.Logger) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn().Err(err).Str("secret", name).Msg("could not read secret")
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Lookup returns the secret for key, falling back to its environment
// variable.
func Lookup(secrets map[string]string, key string) string {
	if v, ok := secrets[key]; ok {
		return v
	}
	if env, ok := envFallback[key]; ok {
		return strings.TrimSpace(os.Getenv(env))
	}
	return ""
}

// Apply fills credential fields of cfg that are still empty. Values
// already set by configuration win.
func Apply(cfg *types.Config, secrets map[string]string) {
	fill(&cfg.AI.APIKey, secrets, GeminiAPIKey)
	fill(&cfg.Artifact.AccessKeyID, secrets, ArtifactAccessKey)
	fill(&cfg.Artifact.SecretAccessKey, secrets, ArtifactSecretKey)
}

func fill(dst *string, secrets map[string]string, key string) {
	if *dst == "" {
		*dst = Lookup(secrets, key)
	}
}
