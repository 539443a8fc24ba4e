// Package config resolves Surveyor's runtime configuration.
//
// Precedence, lowest first: built-in defaults, a .env file in the working
// directory, process environment, command-line flags (applied by the CLI).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvDataDir   = "SURVEYOR_DATA_DIR"
	EnvFormsDir  = "SURVEYOR_FORMS_DIR"
	EnvCacheSize = "SURVEYOR_CACHE_SIZE"
	EnvWatch     = "SURVEYOR_WATCH"
	EnvVerbose   = "SURVEYOR_VERBOSE"
)

// Config holds the settings shared by the server and the CLI.
type Config struct {
	// DataDir holds the SQLite response archive.
	DataDir string
	// FormsDir is the catalog directory questionnaires are loaded from.
	FormsDir string
	// CacheSize bounds the number of parsed definitions kept in memory.
	CacheSize int
	// Watch enables cache eviction on definition file changes.
	Watch bool
	// Verbose switches logging to debug level.
	Verbose bool
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	cwd, _ := os.Getwd()
	return Config{
		DataDir:   filepath.Join(home, ".surveyor"),
		FormsDir:  filepath.Join(cwd, "forms"),
		CacheSize: 64,
		Watch:     true,
	}
}

// Load applies .env and environment overrides to the defaults. A missing
// .env file is not an error; a malformed value is.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(DefaultConfig(), os.Getenv)
}

// FromEnv overlays variables read through getenv onto base.
func FromEnv(base Config, getenv func(string) string) (Config, error) {
	cfg := base
	if v := strings.TrimSpace(getenv(EnvDataDir)); v != "" {
		cfg.DataDir = v
	}
	if v := strings.TrimSpace(getenv(EnvFormsDir)); v != "" {
		cfg.FormsDir = v
	}
	if v := strings.TrimSpace(getenv(EnvCacheSize)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return base, fmt.Errorf("%s must be a positive integer, got %q", EnvCacheSize, v)
		}
		cfg.CacheSize = n
	}
	if v := strings.TrimSpace(getenv(EnvWatch)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return base, fmt.Errorf("%s must be a boolean, got %q", EnvWatch, v)
		}
		cfg.Watch = b
	}
	if v := strings.TrimSpace(getenv(EnvVerbose)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return base, fmt.Errorf("%s must be a boolean, got %q", EnvVerbose, v)
		}
		cfg.Verbose = b
	}
	return cfg, nil
}
