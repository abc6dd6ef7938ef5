package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
)

// webSearchProvider is the set-key name for the web search API key.
const webSearchProvider = "tavily"

var setKeyEmbedding bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure AI providers, the local index and the retrieval policy.

Use subcommands to change individual keys or to configure a provider.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a single setting",
	Long: `Set a single setting by its dotted key, for example:

  fusionqa settings set retrieval.budget 8
  fusionqa settings set index.backend pgvector
  fusionqa settings set retrieval.domain_keywords "asthma,copd"

Run 'fusionqa settings keys' to list every key.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsSetKeyCmd = &cobra.Command{
	Use:   "set-key [provider]",
	Short: "Store an API key",
	Long: `Store an API key without echoing it to the terminal.

Providers:
  gemini, openai, anthropic - select the provider for answers (or embeddings with --embedding)
  tavily                    - enable web search`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsSetKey,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the embedding provider used for ingestion and local retrieval.`,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider used for answers and translation.`,
	RunE:  runSettingsLLM,
}

func init() {
	settingsSetKeyCmd.Flags().BoolVar(&setKeyEmbedding, "embedding", false, "configure the embedding provider instead of the LLM")
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsSetKeyCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

func loadSettingsService(cmd *cobra.Command) error {
	if err := ensureServices(cmd, NeedSettings); err != nil {
		return err
	}
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if err := loadSettingsService(cmd); err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	printKey(cmd, settings.LLM.Provider.RequiresAPIKey(), settings.LLM.APIKey)
	cmd.Printf("  Timeout: %s\n", settings.LLM.Timeout)
	cmd.Printf("  Status: %s\n", configuredStatus(settings.LLM.IsConfigured()))
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	printKey(cmd, settings.Embedding.Provider.RequiresAPIKey(), settings.Embedding.APIKey)
	if settings.Embedding.CacheAddr != "" {
		cmd.Printf("  Cache: %s\n", settings.Embedding.CacheAddr)
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Embedding.IsConfigured()))
	cmd.Println()

	cmd.Println("[Local Index]")
	cmd.Printf("  Backend: %s\n", settings.Index.Backend.Description())
	cmd.Println()

	cmd.Println("[Web Search]")
	printKey(cmd, true, settings.WebSearch.APIKey)
	cmd.Printf("  Status: %s\n", configuredStatus(settings.WebSearch.IsConfigured()))
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Budget: %d\n", settings.Retrieval.Budget)
	cmd.Printf("  Local k: %d, web cap: %d, local first: %d\n",
		settings.Retrieval.LocalK, settings.Retrieval.WebCap, settings.Retrieval.LocalPriority)
	cmd.Printf("  Domain keywords: %s\n", strings.Join(settings.Retrieval.DomainKeywords, ", "))

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if err := loadSettingsService(cmd); err != nil {
		return err
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("%s updated.\n", args[0])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if err := loadSettingsService(cmd); err != nil {
		return err
	}
	for _, k := range settingsService.Keys() {
		cmd.Println(k)
	}
	return nil
}

func runSettingsSetKey(cmd *cobra.Command, args []string) error {
	if err := loadSettingsService(cmd); err != nil {
		return err
	}

	name := strings.ToLower(strings.TrimSpace(args[0]))
	provider := domain.AIProvider(name)
	if name != webSearchProvider && (!provider.IsValid() || !provider.RequiresAPIKey()) {
		return fmt.Errorf("unknown provider %q (expected gemini, openai, anthropic or tavily)", args[0])
	}

	cmd.Printf("Enter %s API key: ", name)
	apiKey := readPassword(cmd.InOrStdin())
	cmd.Println()
	if apiKey == "" {
		return errors.New("API key is required")
	}

	var err error
	switch {
	case name == webSearchProvider:
		err = settingsService.SetWebSearchKey(apiKey)
	case setKeyEmbedding:
		err = settingsService.SetEmbeddingProvider(provider, "", apiKey)
	default:
		err = settingsService.SetLLMProvider(provider, "", apiKey)
	}
	if err != nil {
		return fmt.Errorf("failed to store key: %w", err)
	}

	cmd.Printf("%s key saved.\n", name)
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if err := loadSettingsService(cmd); err != nil {
		return err
	}
	return configureEmbeddingProvider(cmd, bufio.NewReader(cmd.InOrStdin()))
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if err := loadSettingsService(cmd); err != nil {
		return err
	}
	return configureLLMProvider(cmd, bufio.NewReader(cmd.InOrStdin()))
}

//nolint:dupl // Similar to configureLLMProvider but for embeddings - intentional for CLI flow clarity
func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selectedProvider := providers[idx-1]

	defaultModel := domain.DefaultEmbeddingModels()[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readLine(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetEmbeddingProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n", selectedProvider.Description(), model)
	return nil
}

//nolint:dupl // Similar to configureEmbeddingProvider but for LLM - intentional for CLI flow clarity
func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selectedProvider := providers[idx-1]

	defaultModel := domain.DefaultLLMModels()[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readLine(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n", selectedProvider.Description(), model)
	return nil
}

// Helper functions.

func printKey(cmd *cobra.Command, required bool, key string) {
	if !required {
		return
	}
	if key != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(key))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads a secret without echo when in is a terminal,
// falling back to a plain line read.
func readPassword(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(bufio.NewReader(in))
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
