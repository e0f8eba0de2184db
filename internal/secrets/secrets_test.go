// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Set
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, FirecrawlAPIKey, "  fc_abc123  \n")
				writeFile(t, dir, AnthropicAPIKey, "sk_xyz789")
				return dir
			},
			want: Set{
				FirecrawlAPIKey: "fc_abc123",
				AnthropicAPIKey: "sk_xyz789",
			},
		},
		{
			name: "missing directory yields empty set",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Set{},
		},
		{
			name: "skips empty files, dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, GeminiAPIKey, "valid-key")
				writeFile(t, dir, "empty-key", "   \n\t  ")
				writeFile(t, dir, ".gitkeep", "x")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: Set{GeminiAPIKey: "valid-key"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, skipped, err := Load(tt.setup(t))
			require.NoError(t, err)
			assert.Empty(t, skipped)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve(t *testing.T) {
	s := Set{FirecrawlAPIKey: "from-file"}

	t.Setenv("FIRECRAWL_API_KEY", "")
	assert.Equal(t, "from-file", s.Resolve(FirecrawlAPIKey, ""))

	t.Setenv("FIRECRAWL_API_KEY", "from-env")
	assert.Equal(t, "from-env", s.Resolve(FirecrawlAPIKey, ""))
	assert.Equal(t, "from-flag", s.Resolve(FirecrawlAPIKey, "from-flag"))

	assert.Equal(t, "", s.Resolve("unknown-key", ""))
}

func TestNames(t *testing.T) {
	s := Set{"b": "1", "a": "2"}
	assert.Equal(t, []string{"a", "b"}, s.Names())
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
