// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "resume-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// RuntimeMode selects the compilation preference. Production prefers the
// remote service; anything else prefers the local engine.
type RuntimeMode string

const (
	ModeProduction  RuntimeMode = "production"
	ModeDevelopment RuntimeMode = "development"
)

// LocalEngineConfig configures the local typesetting engine.
type LocalEngineConfig struct {
	// Engine is the engine binary (default "pdflatex").
	Engine string `json:"engine" yaml:"engine" mapstructure:"engine"`

	// TempDir is the parent for per-request working directories
	// (default os.TempDir()).
	TempDir string `json:"temp_dir" yaml:"temp_dir" mapstructure:"temp_dir"`

	// Timeout bounds one engine run (default 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// ContainerImage, when set, runs the engine inside this image through
	// docker or podman if the engine binary is not on PATH.
	ContainerImage string `json:"container_image,omitempty" yaml:"container_image,omitempty" mapstructure:"container_image"`

	// ClassFiles are extra files (e.g. resume.cls) copied into the working
	// directory before compiling. Missing files are ignored.
	ClassFiles []string `json:"class_files,omitempty" yaml:"class_files,omitempty" mapstructure:"class_files"`
}

// RemoteEngineConfig configures the hosted compilation service.
type RemoteEngineConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the compile endpoint (default "https://latexonline.cc/compile").
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Param is the query parameter carrying the document (default "text").
	Param string `json:"param" yaml:"param" mapstructure:"param"`

	// MaxURLLength caps the full request URL (default 8000 bytes).
	MaxURLLength int `json:"max_url_length" yaml:"max_url_length" mapstructure:"max_url_length"`

	// RateLimitRPS throttles outbound requests; 0 disables the limiter.
	RateLimitRPS float64 `json:"rate_limit_rps" yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
}

// CompileConfig holds settings for the compilation stage.
type CompileConfig struct {
	// Mode is the runtime mode signal (production prefers remote).
	Mode RuntimeMode `json:"mode" yaml:"mode" mapstructure:"mode"`

	// ForceLocal forces local compilation regardless of Mode.
	ForceLocal bool `json:"force_local" yaml:"force_local" mapstructure:"force_local"`

	// AllowLocalFallback permits trying the other strategy after the
	// preferred one fails.
	AllowLocalFallback bool `json:"allow_local_fallback" yaml:"allow_local_fallback" mapstructure:"allow_local_fallback"`

	// LatexOnly marks deployments where compilation is known to be
	// unavailable; degraded endpoints return the merged markup instead.
	LatexOnly bool `json:"latex_only" yaml:"latex_only" mapstructure:"latex_only"`

	Local  LocalEngineConfig  `json:"local" yaml:"local" mapstructure:"local"`
	Remote RemoteEngineConfig `json:"remote" yaml:"remote" mapstructure:"remote"`
}

// PreviewConfig holds settings for the raster preview adapter.
type PreviewConfig struct {
	// Tool is the converter binary (default "pdftoppm").
	Tool string `json:"tool" yaml:"tool" mapstructure:"tool"`

	// DPI is the output resolution (default 100).
	DPI int `json:"dpi" yaml:"dpi" mapstructure:"dpi"`

	// TempDir is the parent for per-request working directories.
	TempDir string `json:"temp_dir" yaml:"temp_dir" mapstructure:"temp_dir"`
}

// StoreConfig holds settings for the SQLite store.
type StoreConfig struct {
	// DataDir contains the database file (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// SeedTemplates inserts the built-in templates when missing.
	SeedTemplates bool `json:"seed_templates" yaml:"seed_templates" mapstructure:"seed_templates"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gemini-2.5-flash").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the API endpoint (proxies and tests).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// MaxChars caps unformatted resume output (default 1900).
	MaxChars int `json:"max_chars" yaml:"max_chars" mapstructure:"max_chars"`
}

// ArtifactConfig holds settings for S3-compatible artifact storage.
type ArtifactConfig struct {
	Endpoint        string        `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`
	AccessKeyID     string        `json:"access_key_id" yaml:"access_key_id" mapstructure:"access_key_id"`
	SecretAccessKey string        `json:"secret_access_key,omitempty" yaml:"secret_access_key,omitempty" mapstructure:"secret_access_key"`
	Bucket          string        `json:"bucket" yaml:"bucket" mapstructure:"bucket"`
	UseSSL          bool          `json:"use_ssl" yaml:"use_ssl" mapstructure:"use_ssl"`
	URLExpiry       time.Duration `json:"url_expiry" yaml:"url_expiry" mapstructure:"url_expiry"`
}

// Enabled reports whether enough settings are present to build a client.
func (c ArtifactConfig) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default ":3000").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// BodyLimit caps request bodies in bytes (default 1 MiB).
	BodyLimit int `json:"body_limit" yaml:"body_limit" mapstructure:"body_limit"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	// Level is a zerolog level name (debug, info, warn, error).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "json" or "pretty".
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all stage configurations.
type Config struct {
	Compile  CompileConfig  `json:"compile" yaml:"compile" mapstructure:"compile"`
	Preview  PreviewConfig  `json:"preview" yaml:"preview" mapstructure:"preview"`
	Store    StoreConfig    `json:"store" yaml:"store" mapstructure:"store"`
	AI       AIConfig       `json:"ai" yaml:"ai" mapstructure:"ai"`
	Artifact ArtifactConfig `json:"artifact" yaml:"artifact" mapstructure:"artifact"`
	Server   ServerConfig   `json:"server" yaml:"server" mapstructure:"server"`
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
}
