// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files, with
// environment variables as a fallback. Each file in the directory holds one
// secret: the filename is the key name and the trimmed contents the value.
//
// Supported key files: serpapi-api-key, patentsview-api-key, gemini-api-key,
// anthropic-api-key.
package secrets

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// envFallback maps a secret file name to the environment variable consulted
// when the file is absent.
var envFallback = map[string]string{
	"serpapi-api-key":     "SERPAPI_API_KEY",
	"patentsview-api-key": "PATENTSVIEW_API_KEY",
	"gemini-api-key":      "GEMINI_API_KEY",
	"anthropic-api-key":   "ANTHROPIC_API_KEY",
}

// Store holds the secrets read from disk.
type Store map[string]string

// Load reads all files in dir. A missing directory is not an error and
// yields an empty Store. Unreadable files are logged and skipped.
func Load(dir string, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Store{}, nil
		}
		return nil, goerr.Wrap(err, "failed to read secrets directory", goerr.V("dir", dir))
	}

	secrets := make(Store)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", "name", name, "error", err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Lookup returns the secret called name, falling back to its environment
// variable. The empty string means neither source has it.
func (s Store) Lookup(name string) string {
	if v := s[name]; v != "" {
		return v
	}
	if env, ok := envFallback[name]; ok {
		return strings.TrimSpace(os.Getenv(env))
	}
	return ""
}

// EnvName returns the environment variable consulted for name, if any.
func EnvName(name string) string { return envFallback[name] }
