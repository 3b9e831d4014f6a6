// Package config defines the workspace engine's runtime configuration:
// where workspaces live on disk, size limits, the quarantine toggle, and
// log verbosity. Values come from FILEMANAGER_-prefixed environment
// variables; cmd/filemanager has no flags that override them.
package config

import (
	"os"
	"strconv"

	"k8s.io/apimachinery/pkg/api/resource"

	"github.com/arxiv/filemanager/pkg/check"
	"github.com/arxiv/filemanager/pkg/logging"
)

const (
	// DefaultMaxFileSize is the default per-file size ceiling, in bytes
	// (40 MiB), above which an upload is rejected with payload_too_large.
	DefaultMaxFileSize = 40 << 20
	// DefaultMaxWorkspaceSize is the default total-workspace size ceiling,
	// in bytes (1 GiB).
	DefaultMaxWorkspaceSize = 1 << 30
)

// Config carries every knob the workspace engine needs at runtime.
type Config struct {
	// BaseDir is the root directory under which every workspace's
	// "<upload_id>/" subtree is created.
	BaseDir string
	// Quarantine selects the Quarantine storage adapter over Simple when
	// true, staging writes outside the workspace root until explicitly
	// persisted.
	Quarantine bool
	// MaxFileSize is the largest single file, in bytes, an upload may add
	// to a workspace.
	MaxFileSize int64
	// MaxWorkspaceSize is the largest total size, in bytes, a workspace's
	// source area may reach.
	MaxWorkspaceSize int64
	// Checkers overrides the default checker pipeline, for tests that need
	// to isolate a subset of checks. A nil slice means use
	// check.DefaultCheckers().
	Checkers []check.Checker
	// LogLevel is the logging verbosity threshold.
	LogLevel logging.Level
}

// FromEnvironment builds a Config from FILEMANAGER_-prefixed environment
// variables, falling back to the package defaults for anything unset or
// unparseable.
func FromEnvironment() *Config {
	c := &Config{
		BaseDir:          envString("FILEMANAGER_BASE_DIR", os.TempDir()),
		Quarantine:       envBool("FILEMANAGER_QUARANTINE", false),
		MaxFileSize:      envSize("FILEMANAGER_MAX_FILE_SIZE", DefaultMaxFileSize),
		MaxWorkspaceSize: envSize("FILEMANAGER_MAX_WORKSPACE_SIZE", DefaultMaxWorkspaceSize),
		LogLevel:         logging.LevelInfo,
	}
	if name := os.Getenv("FILEMANAGER_LOG_LEVEL"); name != "" {
		if level, ok := logging.NameToLevel(name); ok {
			c.LogLevel = level
		}
	}
	return c
}

func envString(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		return v
	}
	return fallback
}

func envBool(name string, fallback bool) bool {
	v, ok := os.LookupEnv(name)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// envSize reads a size limit from the environment, accepting either a bare
// byte count or a Kubernetes-style human-readable quantity ("40Mi", "1Gi").
func envSize(name string, fallback int64) int64 {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return fallback
	}
	if quantity, err := resource.ParseQuantity(v); err == nil {
		if value := quantity.Value(); value > 0 {
			return value
		}
		return fallback
	}
	parsed, err := strconv.ParseInt(v, 10, 64)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

// CheckerPipeline returns c.Checkers if set, otherwise the canonical
// default pipeline.
func (c *Config) CheckerPipeline() []check.Checker {
	if c.Checkers != nil {
		return c.Checkers
	}
	return check.DefaultCheckers()
}
