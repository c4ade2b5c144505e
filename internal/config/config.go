// Package config loads server configuration from the environment.
//
// Everything configurable lives in one explicit struct that is passed to the
// components that need it — there are no package-level path or port globals.
// The envconfig tags declare the variable name and default for each field, so
// this struct is also the documentation of the deployment surface.
package config

import (
	"log/slog"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the full server configuration.
type Config struct {
	Port      int    `envconfig:"PORT" default:"8080"`
	DBPath    string `envconfig:"DB_PATH" default:"data/ims.db"`
	UploadDir string `envconfig:"UPLOAD_DIR" default:"data/uploads"`

	// MaxUploadBytes caps the /send request body. Base64 inflates images by
	// ~4/3, so 8 MiB of form data allows roughly a 6 MB image.
	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"8388608"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads the configuration from environment variables, applying the
// defaults declared on the struct tags.
func Load() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}

// SlogLevel translates the textual LOG_LEVEL into a slog.Level.
// Unknown values fall back to Info rather than failing startup.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
