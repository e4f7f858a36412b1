package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "data/tickets.db", cfg.DBPath)
	assert.Equal(t, "data/knowledge_base.json", cfg.KBPath)
	assert.False(t, cfg.Debug)
}

func TestLoadYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "supportpilot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"provider: anthropic\nmodel: claude-3-5-sonnet-latest\ndebug: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "claude-3-5-sonnet-latest", cfg.Model)
	assert.True(t, cfg.Debug)
	// Untouched fields keep their defaults.
	assert.Equal(t, "data/tickets.db", cfg.DBPath)
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "supportpilot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: anthropic\n"), 0o644))

	t.Setenv("SUPPORTPILOT_PROVIDER", "openai")
	t.Setenv("SUPPORTPILOT_DB", "/tmp/other.db")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "/tmp/other.db", cfg.DBPath)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("SUPPORTPILOT_PROVIDER", "cohere")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "supportpilot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestAPIKeySelection(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("OPENAI_API_KEY", "sk-openai-test")
	t.Setenv("GOOGLE_API_KEY", "google-test")

	assert.Equal(t, "sk-ant-test", (&Config{Provider: "anthropic"}).APIKey())
	assert.Equal(t, "sk-openai-test", (&Config{Provider: "openai"}).APIKey())
	assert.Equal(t, "google-test", (&Config{Provider: "gemini"}).APIKey())
	assert.Empty(t, (&Config{Provider: "other"}).APIKey())
}
