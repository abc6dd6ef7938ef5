package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fusionqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{EnvGeminiKey, EnvTavilyKey, EnvOpenAIKey, EnvAnthropicKey} {
		t.Setenv(name, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearProviderEnv(t)

	cfg, err := Load(memory.NewConfigStore(), WithEnvFiles())

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig().Retrieval, cfg.Retrieval)
	assert.Equal(t, domain.AIProviderGemini, cfg.LLM.Provider)
	assert.False(t, cfg.WebSearch.IsConfigured())
}

func TestLoad_StoreValues(t *testing.T) {
	clearProviderEnv(t)
	store := memory.NewConfigStore(map[string]any{"retrieval.budget": 9})

	cfg, err := Load(store, WithEnvFiles())

	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Retrieval.Budget)
}

func TestLoad_EnvOverridesStore(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("FUSIONQA_RETRIEVAL_BUDGET", "3")
	t.Setenv("FUSIONQA_LLM_TIMEOUT", "20s")
	t.Setenv("FUSIONQA_INDEX_BACKEND", "memory")
	store := memory.NewConfigStore(map[string]any{"retrieval.budget": 9})

	cfg, err := Load(store, WithEnvFiles())

	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Retrieval.Budget)
	assert.Equal(t, 20*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, domain.IndexMemory, cfg.Index.Backend)

	// The persistent store is untouched.
	assert.Equal(t, 9, store.GetInt("retrieval.budget"))
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("FUSIONQA_RETRIEVAL_WEB_CAP", "lots")

	_, err := Load(memory.NewConfigStore(), WithEnvFiles())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "FUSIONQA_RETRIEVAL_WEB_CAP")
}

func TestLoad_CredentialFallbacks(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv(EnvGeminiKey, "gemini-secret")
	t.Setenv(EnvTavilyKey, "tvly-0123456789")

	cfg, err := Load(memory.NewConfigStore(), WithEnvFiles())

	require.NoError(t, err)
	assert.Equal(t, "gemini-secret", cfg.LLM.APIKey)
	assert.Empty(t, cfg.Embedding.APIKey, "ollama embeddings need no key")
	assert.True(t, cfg.WebSearch.IsConfigured())
}

func TestLoad_StoredKeyBeatsFallback(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv(EnvGeminiKey, "from-env")
	store := memory.NewConfigStore(map[string]any{"llm.api_key": "from-store"})

	cfg, err := Load(store, WithEnvFiles())

	require.NoError(t, err)
	assert.Equal(t, "from-store", cfg.LLM.APIKey)
}

func TestLoad_DummyTavilyKeyDisablesWebSearch(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv(EnvTavilyKey, "dummy_key")

	cfg, err := Load(memory.NewConfigStore(), WithEnvFiles())

	require.NoError(t, err)
	assert.False(t, cfg.WebSearch.IsConfigured())
}

func TestLoad_EnvFile(t *testing.T) {
	clearProviderEnv(t)
	const name = "FUSIONQA_RETRIEVAL_LOCAL_K"
	t.Cleanup(func() { _ = os.Unsetenv(name) })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(name+"=7\n"), 0o600))

	cfg, err := Load(memory.NewConfigStore(), WithEnvFiles(filepath.Join(t.TempDir(), "missing.env"), path))

	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Retrieval.LocalK)
}

func TestLoad_CredentialFallbackFromEnvFile(t *testing.T) {
	clearProviderEnv(t)
	require.NoError(t, os.Unsetenv(EnvOpenAIKey))
	t.Cleanup(func() { _ = os.Unsetenv(EnvOpenAIKey) })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(EnvOpenAIKey+"=sk-from-file\n"), 0o600))
	store := memory.NewConfigStore(map[string]any{"llm.provider": "openai"})

	cfg, err := Load(store, WithEnvFiles(path))

	require.NoError(t, err)
	assert.Equal(t, "sk-from-file", cfg.LLM.APIKey)
}

func TestLoad_PrefixedCredentialIsNotAFallback(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("FUSIONQA_CREDENTIALS_LLM", "wrong-path")

	cfg, err := Load(memory.NewConfigStore(), WithEnvFiles())

	require.NoError(t, err)
	assert.Empty(t, cfg.LLM.APIKey)
}
