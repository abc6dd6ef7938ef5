package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
	assert.Empty(t, store.Keys())
}

func TestNewConfigStore_CreatesNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	_, err := NewConfigStore(dir)

	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_CorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not toml {{{[["), 0o600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_WritesNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.provider", "gemini"))
	require.NoError(t, store.Set("retrieval.budget", 5))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[llm]")
	assert.Contains(t, string(data), "[retrieval]")
	assert.Regexp(t, `provider = ['"]gemini['"]`, string(data))
}

func TestConfigStore_ReadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[llm]
provider = "openai"
temperature = 0.5
top_k = 20

[retrieval]
domain_keywords = ["asthma", "copd"]

[web]
enabled = true
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0o600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "openai", store.GetString("llm.provider"))
	assert.InDelta(t, 0.5, store.GetFloat("llm.temperature"), 1e-9)
	assert.Equal(t, 20, store.GetInt("llm.top_k"))
	assert.InDelta(t, 20.0, store.GetFloat("llm.top_k"), 1e-9)
	assert.Equal(t, []string{"asthma", "copd"}, store.GetStringSlice("retrieval.domain_keywords"))
	assert.True(t, store.GetBool("web.enabled"))
	assert.Equal(t, []string{
		"llm.provider", "llm.temperature", "llm.top_k", "retrieval.domain_keywords", "web.enabled",
	}, store.Keys())
}

func TestConfigStore_TypeMismatchReturnsZero(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("llm.model", "gpt"))

	assert.Zero(t, store.GetInt("llm.model"))
	assert.Zero(t, store.GetFloat("llm.model"))
	assert.False(t, store.GetBool("llm.model"))
	assert.Nil(t, store.GetStringSlice("llm.model"))
	assert.Empty(t, store.GetString("missing"))
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()
	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set("llm.timeout", "45s"))
	require.NoError(t, store1.Set("retrieval.budget", 7))
	require.NoError(t, store1.Set("retrieval.domain_keywords", []string{"a", "b"}))

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "45s", store2.GetString("llm.timeout"))
	assert.Equal(t, 7, store2.GetInt("retrieval.budget"))
	assert.Equal(t, []string{"a", "b"}, store2.GetStringSlice("retrieval.domain_keywords"))
}

func TestConfigStore_Set_ConflictingKeyRollsBack(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("llm.provider", "gemini"))

	err = store.Set("llm", "flat")

	require.Error(t, err)
	_, exists := store.Get("llm")
	assert.False(t, exists)
	assert.Equal(t, "gemini", store.GetString("llm.provider"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("web.api_key", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestConfigStore_LoadDiscardsUnsavedState(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("a.b", 1))

	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, store.Load())

	assert.Empty(t, store.Keys())
	assert.NoError(t, store.Save())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("retrieval.budget", n)
			_ = store.GetInt("retrieval.budget")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("retrieval.budget")
	assert.True(t, ok)
}

func TestNest(t *testing.T) {
	nested, err := nest(map[string]any{"a.b.c": 1, "a.d": "x", "e": true})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": map[string]any{"b": map[string]any{"c": 1}, "d": "x"},
		"e": true,
	}, nested)

	flat := make(map[string]any)
	flatten(nested, "", flat)
	assert.Equal(t, map[string]any{"a.b.c": 1, "a.d": "x", "e": true}, flat)
}
