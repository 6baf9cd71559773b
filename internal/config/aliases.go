// Package config provides environment and configuration file handling for otscore.
package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Dir returns the otscore config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/otscore if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "otscore"), nil
}

// AliasConfig maps friendly names (gene symbols, disease labels) to the
// identifiers the association source understands, e.g. BRCA2=ENSG00000139618.
// Names are matched case-insensitively.
type AliasConfig struct {
	Aliases map[string]string
}

// LoadAliases reads the aliases file at {dir}/aliases and returns the parsed
// config. If the file does not exist, an empty config is returned without an
// error. Invalid or malformed lines are silently skipped.
func LoadAliases(dir string) (*AliasConfig, error) {
	cfg := &AliasConfig{
		Aliases: make(map[string]string),
	}

	f, err := os.Open(filepath.Join(dir, "aliases"))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, id, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		id = strings.TrimSpace(id)
		if name == "" || id == "" {
			continue
		}

		cfg.Aliases[strings.ToLower(name)] = id
	}

	if err := scanner.Err(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Resolve returns the identifier registered for name, or name unchanged.
func (c *AliasConfig) Resolve(name string) string {
	if c == nil {
		return name
	}
	if id, ok := c.Aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return id
	}
	return name
}
