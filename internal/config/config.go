// Package config loads process configuration from environment variables.
//
// This covers where catalogsync keeps its own state (database, retry queue,
// secret-file fallback). The catalog repository settings are persisted
// state managed through the config store, not environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config holds the process configuration loaded from environment variables.
type Config struct {
	DBPath     string
	QueueDir   string
	SecretFile string
	SecretKey  string
	LogLevel   slog.Level
}

// Load reads configuration from environment variables and returns a
// validated Config. All variables are optional: CATALOGSYNC_DB_PATH,
// CATALOGSYNC_QUEUE_DIR, and CATALOGSYNC_SECRET_FILE default to paths under
// the user config directory; CATALOGSYNC_SECRET_KEY is only needed when the
// platform keychain is unavailable; CATALOGSYNC_LOG_LEVEL defaults to info.
func Load() (*Config, error) {
	stateDir, err := defaultStateDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBPath:     filepath.Join(stateDir, "catalogsync.db"),
		QueueDir:   filepath.Join(stateDir, "queue"),
		SecretFile: filepath.Join(stateDir, "secret"),
		SecretKey:  os.Getenv("CATALOGSYNC_SECRET_KEY"),
		LogLevel:   slog.LevelInfo,
	}

	if v, ok := os.LookupEnv("CATALOGSYNC_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := os.LookupEnv("CATALOGSYNC_QUEUE_DIR"); ok {
		cfg.QueueDir = v
	}
	if v, ok := os.LookupEnv("CATALOGSYNC_SECRET_FILE"); ok {
		cfg.SecretFile = v
	}
	if v, ok := os.LookupEnv("CATALOGSYNC_LOG_LEVEL"); ok {
		level, err := parseLevel(v)
		if err != nil {
			return nil, err
		}
		cfg.LogLevel = level
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o700); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	return cfg, nil
}

// defaultStateDir returns the per-user state directory for catalogsync.
func defaultStateDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config directory: %w", err)
	}
	return filepath.Join(base, "catalogsync"), nil
}

func parseLevel(v string) (slog.Level, error) {
	switch strings.ToLower(v) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("CATALOGSYNC_LOG_LEVEL has invalid value %q", v)
}
