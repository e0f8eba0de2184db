// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files and
// resolves each credential against flags and environment variables.
// The filename is the key name and the trimmed file contents are the value.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Known key files and the environment variables that override them.
const (
	AnthropicAPIKey       = "anthropic-api-key"
	GeminiAPIKey          = "gemini-api-key"
	FirecrawlAPIKey       = "firecrawl-api-key"
	SemanticScholarAPIKey = "semantic-scholar-api-key"
)

var envNames = map[string]string{
	AnthropicAPIKey:       "ANTHROPIC_API_KEY",
	GeminiAPIKey:          "GEMINI_API_KEY",
	FirecrawlAPIKey:       "FIRECRAWL_API_KEY",
	SemanticScholarAPIKey: "SEMANTIC_SCHOLAR_API_KEY",
}

// Set is a loaded collection of secrets.
type Set map[string]string

// Load reads all files in dir. A missing directory is not an error and
// yields an empty set; unreadable files are reported in skipped.
func Load(dir string) (s Set, skipped []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Set{}, nil, nil
		}
		return nil, nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s = make(Set)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			skipped = append(skipped, name)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}
	return s, skipped, nil
}

// Resolve returns the credential for key. An explicit value wins, then the
// key's environment variable, then the secrets file.
func (s Set) Resolve(key, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env, ok := envNames[key]; ok {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}
	return s[key]
}

// Names returns the loaded key names in sorted order.
func (s Set) Names() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
