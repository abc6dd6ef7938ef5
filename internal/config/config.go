// Package config builds the explicit domain.Config the rest of the program
// receives. Values come from the persistent ConfigStore, then a .env file,
// then FUSIONQA_* environment variables, then provider credential
// variables as a fallback for empty keys.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/custodia-labs/fusionqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
	"github.com/custodia-labs/fusionqa/internal/core/services"
	"github.com/custodia-labs/fusionqa/internal/logger"
)

// EnvPrefix prefixes every override variable, e.g. FUSIONQA_RETRIEVAL_BUDGET.
const EnvPrefix = "FUSIONQA"

// Provider credential variables honoured when the matching key is empty.
//
//nolint:gosec // G101: environment variable names, not credentials.
const (
	EnvGeminiKey    = "GEMINI_API_KEY"
	EnvTavilyKey    = "TAVILY_API_KEY"
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
)

var providerKeyEnv = map[domain.AIProvider]string{
	domain.AIProviderGemini:    EnvGeminiKey,
	domain.AIProviderOpenAI:    EnvOpenAIKey,
	domain.AIProviderAnthropic: EnvAnthropicKey,
}

type options struct {
	envFiles []string
}

// Option configures Load.
type Option func(*options)

// WithEnvFiles replaces the .env search list. Missing files are ignored.
func WithEnvFiles(paths ...string) Option {
	return func(o *options) { o.envFiles = paths }
}

// Load reads store and overlays the environment. The store itself is not
// modified.
func Load(store driven.ConfigStore, opts ...Option) (*domain.Config, error) {
	o := options{envFiles: []string{".env"}}
	for _, opt := range opts {
		opt(&o)
	}
	loadEnvFiles(o.envFiles)

	overlay := memory.NewConfigStore()
	for _, k := range store.Keys() {
		if v, ok := store.Get(k); ok {
			_ = overlay.Set(k, v)
		}
	}
	settings := services.NewSettingsService(overlay, nil)

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var errs []error
	for _, key := range settings.Keys() {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
		if !v.IsSet(key) {
			continue
		}
		logger.Debug("Environment override: %s", key)
		if err := settings.Set(key, v.GetString(key)); err != nil {
			errs = append(errs, fmt.Errorf("%s_%s: %w", EnvPrefix, envName(key), err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	cfg, err := settings.Get()
	if err != nil {
		return nil, err
	}
	if err := applyCredentialFallbacks(viper.New(), cfg); err != nil {
		return nil, err
	}

	if !cfg.WebSearch.IsConfigured() {
		logger.Debug("Web search key missing or invalid; web search disabled")
	}
	return cfg, nil
}

// Viper keys bound to the provider credential variables.
const (
	credentialLLM       = "credentials.llm"
	credentialEmbedding = "credentials.embedding"
	credentialWebSearch = "credentials.web_search"
)

// applyCredentialFallbacks fills empty API keys from the provider
// credential variables, bound to v under the credentials.* keys. v must not
// use AutomaticEnv, or FUSIONQA_CREDENTIALS_* would shadow the bindings.
func applyCredentialFallbacks(v *viper.Viper, cfg *domain.Config) error {
	fallback := func(dst *string, key, env string) error {
		if *dst != "" || env == "" {
			return nil
		}
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s: %w", env, err)
		}
		*dst = strings.TrimSpace(v.GetString(key))
		return nil
	}

	return errors.Join(
		fallback(&cfg.LLM.APIKey, credentialLLM, providerKeyEnv[cfg.LLM.Provider]),
		fallback(&cfg.Embedding.APIKey, credentialEmbedding, providerKeyEnv[cfg.Embedding.Provider]),
		fallback(&cfg.WebSearch.APIKey, credentialWebSearch, EnvTavilyKey),
	)
}

// loadEnvFiles loads the first .env file found. Variables already in the
// environment win.
func loadEnvFiles(paths []string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			logger.Warn("Failed to load %s: %v", path, err)
			continue
		}
		logger.Debug("Loaded environment from %s", path)
		return
	}
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
