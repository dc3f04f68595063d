package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("TEST_EXPAND_SET", "from-env")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "set variable", in: "key: ${TEST_EXPAND_SET}", want: "key: from-env"},
		{name: "set variable ignores default", in: "key: ${TEST_EXPAND_SET:fallback}", want: "key: from-env"},
		{name: "unset with default", in: "key: ${TEST_EXPAND_UNSET:fallback}", want: "key: fallback"},
		{name: "unset with empty default", in: "key: ${TEST_EXPAND_UNSET:}", want: "key: "},
		{name: "unset without default stays literal", in: "key: ${TEST_EXPAND_UNSET}", want: "key: ${TEST_EXPAND_UNSET}"},
		{name: "multiple placeholders", in: "${TEST_EXPAND_SET}/${TEST_EXPAND_UNSET:x}", want: "from-env/x"},
		{name: "no placeholder", in: "plain text", want: "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandEnv(tt.in))
		})
	}
}

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", name), []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", "app:\n  name: sara-chatbot\n")
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sara-chatbot", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 8080, cfg.Server.HTTP.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.HTTP.ReadTimeout)
	assert.Equal(t, "Sara", cfg.Persona.Name)
	assert.Equal(t, "match_resume_chunks", cfg.Search.MatchFunction)
	assert.InDelta(t, 0.75, cfg.Search.MatchThreshold, 1e-9)
	assert.Equal(t, 6, cfg.Search.MatchCount)
	assert.True(t, cfg.Observability.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Observability.Metrics.Path)
}

func TestLoadEnvOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", "app:\n  name: sara-chatbot\n  verbose: false\n")
	writeConfig(t, dir, "config.staging.yaml", "app:\n  verbose: true\n")
	t.Chdir(dir)
	t.Setenv("APP_ENV", "staging")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sara-chatbot", cfg.App.Name)
	assert.True(t, cfg.App.Verbose)
}

func TestLoadMissingEnvOverlayIsOptional(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", "app:\n  name: sara-chatbot\n")
	t.Chdir(dir)
	t.Setenv("APP_ENV", "nonexistent")

	_, err := Load()
	require.NoError(t, err)
}

func TestLoadMissingBaseConfigFails(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load()
	require.Error(t, err)
}

func TestLoadConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", "app:\n  name: sara-chatbot\n")
	t.Setenv("CONFIG_DIR", filepath.Join(dir, "configs"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sara-chatbot", cfg.App.Name)
}

func TestLLMConfigDefault(t *testing.T) {
	cfg := LLMConfig{
		DefaultProvider: "openai",
		Providers: map[string]ProviderConfig{
			"openai": {Model: "gpt-4o-mini", Temperature: 0.7},
		},
	}

	p, ok := cfg.Default()
	require.True(t, ok)
	assert.Equal(t, "gpt-4o-mini", p.Model)

	cfg.DefaultProvider = "missing"
	_, ok = cfg.Default()
	assert.False(t, ok)
}

func TestLoadExpandsPlaceholders(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", `
llm:
  default_provider: openai
  providers:
    openai:
      api_key: ${TEST_LOADER_KEY:fallback-key}
      model: gpt-4o-mini
`)
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fallback-key", cfg.LLM.Providers["openai"].APIKey)

	t.Setenv("TEST_LOADER_KEY", "sk-live")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-live", cfg.LLM.Providers["openai"].APIKey)
}

func TestLoadEnvVarOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", "app:\n  name: sara-chatbot\n")
	t.Chdir(dir)
	t.Setenv("SEARCH_MATCH_COUNT", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Search.MatchCount)
}
