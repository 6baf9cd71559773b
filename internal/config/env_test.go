package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvAPIURL, EnvPageSize, EnvTimeout, EnvDB} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestFromEnv_Empty(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error: %v", err)
	}
	if *cfg != (Config{}) {
		t.Errorf("FromEnv() = %+v, want zero config", *cfg)
	}
}

func TestFromEnv_Values(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIURL, "http://localhost:9000")
	t.Setenv(EnvPageSize, "250")
	t.Setenv(EnvTimeout, "15s")
	t.Setenv(EnvDB, "/tmp/assoc.db")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error: %v", err)
	}

	want := Config{
		APIURL:   "http://localhost:9000",
		PageSize: 250,
		Timeout:  15 * time.Second,
		DBPath:   "/tmp/assoc.db",
	}
	if *cfg != want {
		t.Errorf("FromEnv() = %+v, want %+v", *cfg, want)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"page size not a number", EnvPageSize, "lots"},
		{"page size zero", EnvPageSize, "0"},
		{"timeout without unit", EnvTimeout, "30"},
		{"negative timeout", EnvTimeout, "-5s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := FromEnv(); err == nil {
				t.Errorf("FromEnv() with %s=%q should fail", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.env"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIURL != "" {
		t.Errorf("APIURL = %q, want empty", cfg.APIURL)
	}
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "test.env")
	content := EnvAPIURL + "=http://mirror.internal\n" + EnvPageSize + "=500\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv(EnvAPIURL)
		os.Unsetenv(EnvPageSize)
	})

	if cfg.APIURL != "http://mirror.internal" {
		t.Errorf("APIURL = %q, want value from env file", cfg.APIURL)
	}
	if cfg.PageSize != 500 {
		t.Errorf("PageSize = %d, want 500", cfg.PageSize)
	}
}

func TestLoad_EnvironmentWinsOverFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIURL, "http://from-env")

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte(EnvAPIURL+"=http://from-file\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIURL != "http://from-env" {
		t.Errorf("APIURL = %q, want environment value to win", cfg.APIURL)
	}
}
