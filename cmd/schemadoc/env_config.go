package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-schemadoc/internal/config"
)

const envPrefix = "SCHEMADOC_"

// envConfig holds configuration from environment variables.
// Lets CI pipelines override a checked-in config without editing it.
type envConfig struct {
	ConfigPath string // SCHEMADOC_CONFIG: config file name or path
	Style      string // SCHEMADOC_STYLE: extra style name or CSS path
	AssetPath  string // SCHEMADOC_ASSET_PATH: asset override directory
	Workers    int    // SCHEMADOC_WORKERS: parallel workers
}

// knownEnvVars lists valid SCHEMADOC_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"SCHEMADOC_CONFIG":     true,
	"SCHEMADOC_STYLE":      true,
	"SCHEMADOC_ASSET_PATH": true,
	"SCHEMADOC_WORKERS":    true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed or non-positive worker counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("SCHEMADOC_CONFIG"),
		Style:      os.Getenv("SCHEMADOC_STYLE"),
		AssetPath:  os.Getenv("SCHEMADOC_ASSET_PATH"),
	}

	if workers := os.Getenv("SCHEMADOC_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints a warning for each unrecognized SCHEMADOC_* variable.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Style != "" && cfg.Style.Name == "" {
		cfg.Style.Name = env.Style
	}
	if env.AssetPath != "" && cfg.Assets.BasePath == "" {
		cfg.Assets.BasePath = env.AssetPath
	}
}
