package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/otscore/internal/analyzer"
	"github.com/blackwell-systems/otscore/internal/config"
	"github.com/blackwell-systems/otscore/internal/opentargets"
	"github.com/blackwell-systems/otscore/internal/store"
)

// getDBPath returns the local mirror path, using the flag or OTSCORE_DB when
// set and ~/.otscore/associations.db otherwise.
func getDBPath(cfg *config.Config) (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	if cfg != nil && cfg.DBPath != "" {
		return cfg.DBPath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	// Create .otscore directory if it doesn't exist
	dir := filepath.Join(home, ".otscore")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create otscore directory: %w", err)
	}

	return filepath.Join(dir, "associations.db"), nil
}

// newQuerier returns the local mirror when a database path is configured and
// the Open Targets API client otherwise. The returned func releases it.
func newQuerier(cfg *config.Config) (analyzer.Querier, func() error, error) {
	if cfg.DBPath != "" {
		if _, err := os.Stat(cfg.DBPath); err != nil {
			if os.IsNotExist(err) {
				return nil, nil, fmt.Errorf("%s: %w", cfg.DBPath, store.ErrNotInitialized)
			}
			return nil, nil, fmt.Errorf("failed to stat database: %w", err)
		}

		st, err := store.New(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		return st, st.Close, nil
	}

	client := opentargets.NewClient(
		opentargets.WithBaseURL(cfg.APIURL),
		opentargets.WithPageSize(cfg.PageSize),
		opentargets.WithTimeout(cfg.Timeout),
	)
	return client, func() error { return nil }, nil
}

// sourceName describes where associations are read from.
func sourceName(cfg *config.Config) string {
	if cfg.DBPath != "" {
		return cfg.DBPath
	}
	if cfg.APIURL != "" {
		return cfg.APIURL
	}
	return "Open Targets"
}

// newLogger writes informational messages only in verbose mode; warnings and
// errors are always shown.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
