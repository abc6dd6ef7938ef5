// Package cli provides the cobra command tree for fusionqa.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fusionqa/internal/core/domain"
	"github.com/custodia-labs/fusionqa/internal/core/ports/driving"
	"github.com/custodia-labs/fusionqa/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

// Services injected by the composition root or by tests.
var (
	askService       driving.AskService
	retrievalService driving.RetrievalService
	ingestService    driving.IngestService
	settingsService  driving.SettingsService

	// configuredBudget is retrieval.budget; 0 means unknown.
	configuredBudget int
)

// Global flags.
var (
	verboseFlag     bool
	configDirFlag   string
	metricsAddrFlag string
)

// Requirement tells the bootstrap which providers a command needs.
type Requirement int

const (
	// NeedSettings only needs the config store.
	NeedSettings Requirement = iota

	// NeedRetrieval needs the index and web search but no LLM.
	NeedRetrieval

	// NeedAnswer needs a reachable LLM.
	NeedAnswer

	// NeedIngest needs an embedding service and a writable index.
	NeedIngest
)

// Options is passed to the bootstrap for each command invocation.
type Options struct {
	ConfigDir   string
	MetricsAddr string
	Need        Requirement
}

// Services is the set of driving ports a bootstrap returns.
// Close releases provider resources; it may be nil.
type Services struct {
	Ask       driving.AskService
	Retrieval driving.RetrievalService
	Ingest    driving.IngestService
	Settings  driving.SettingsService

	// Budget is the configured record budget used when --budget is unset.
	Budget int

	Close func()
}

// Bootstrap builds services from configuration.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var (
	bootstrap    Bootstrap
	closeService func()
)

var rootCmd = &cobra.Command{
	Use:   "fusionqa",
	Short: "Cited answers from local documents and the web",
	Long: `fusionqa answers women's health questions from your own documents and
live web results, with numbered citations for every source.

Configure providers with 'fusionqa settings', load documents with
'fusionqa ingest' and ask with 'fusionqa ask'.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if closeService != nil {
			closeService()
			closeService = nil
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config", "", "config directory (default ~/.fusionqa)")
	rootCmd.PersistentFlags().StringVar(&metricsAddrFlag, "metrics-addr", "", "serve Prometheus metrics on this address")
}

// SetVersion sets the version reported by 'fusionqa version'.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetBootstrap registers the function that builds services lazily,
// once the command and its flags are known.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices injects services directly, bypassing the bootstrap.
func SetServices(s *Services) {
	askService = s.Ask
	retrievalService = s.Retrieval
	ingestService = s.Ingest
	settingsService = s.Settings
	configuredBudget = s.Budget
	closeService = s.Close
}

// resolveBudget prefers an explicit flag value, then retrieval.budget.
func resolveBudget(flag int) int {
	switch {
	case flag > 0:
		return flag
	case configuredBudget > 0:
		return configuredBudget
	default:
		return domain.DefaultBudget
	}
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// ensureServices runs the bootstrap for commands that need providers.
// Without a bootstrap the injected services are used as-is.
func ensureServices(cmd *cobra.Command, need Requirement) error {
	if bootstrap == nil {
		return nil
	}

	svcs, err := bootstrap(commandContext(cmd), Options{
		ConfigDir:   configDirFlag,
		MetricsAddr: metricsAddrFlag,
		Need:        need,
	})
	if err != nil {
		return err
	}
	SetServices(svcs)
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

var errNoInput = errors.New("one of --file, --url or --dir is required")
