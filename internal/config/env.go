package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvAPIURL   = "OTSCORE_API_URL"
	EnvPageSize = "OTSCORE_PAGE_SIZE"
	EnvTimeout  = "OTSCORE_TIMEOUT"
	EnvDB       = "OTSCORE_DB"
)

// Config holds settings that command-line flags may override.
// Zero values mean "use the client default".
type Config struct {
	APIURL   string
	PageSize int
	Timeout  time.Duration
	DBPath   string
}

// Load reads the optional dotenv files (default ".env") into the process
// environment and then builds a Config from it. Variables already set in the
// environment win over the dotenv file.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		APIURL: os.Getenv(EnvAPIURL),
		DBPath: os.Getenv(EnvDB),
	}

	if v := os.Getenv(EnvPageSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid %s %q: must be a positive integer", EnvPageSize, v)
		}
		cfg.PageSize = n
	}

	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid %s %q: must be a positive duration such as 30s", EnvTimeout, v)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}
