// Package cli implements the vecsync command-line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/vecsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/vecsync/internal/adapters/driven/embedding"
	"github.com/custodia-labs/vecsync/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/vecsync/internal/connectors/filesystem"
	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
	"github.com/custodia-labs/vecsync/internal/core/ports/driving"
	"github.com/custodia-labs/vecsync/internal/core/services"
	"github.com/custodia-labs/vecsync/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flag values.
var (
	cfgPath     string
	verboseFlag bool

	flagRoot        string
	flagStore       string
	flagExclude     []string
	flagLimit       int
	flagConcurrency int
	flagProvider    string
	flagModel       string
	flagAPIKey      string
)

var rootCmd = &cobra.Command{
	Use:   "vecsync",
	Short: "Keep a vector index in sync with a markdown corpus",
	Long: `vecsync fingerprints the markdown documents under a corpus root,
diffs them against the fingerprints recorded in the vector store, and
embeds only the documents that actually changed. Unchanged documents
cost nothing; deleted documents are removed from the index.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "config file (default ~/.vecsync/config.toml)")
	pf.BoolVarP(&verboseFlag, "verbose", "v", false, "verbose output")
	pf.StringVar(&flagRoot, "root", "", "corpus root directory")
	pf.StringVar(&flagStore, "store", "", "vector store path (SQLite database file)")
	pf.StringSliceVar(&flagExclude, "exclude", nil, "glob patterns to exclude (repeatable)")
	pf.IntVar(&flagLimit, "limit", 0, "max content bytes before truncation")
	pf.IntVar(&flagConcurrency, "concurrency", 0, "max simultaneous provider/store calls")
	pf.StringVar(&flagProvider, "provider", "", "embedding provider: openai or ollama")
	pf.StringVar(&flagModel, "model", "", "embedding model name")
	pf.StringVar(&flagAPIKey, "api-key", "", "embedding provider API key")
}

// Execute runs the CLI. A non-nil error means the process must exit
// non-zero.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadSettings assembles the one-time configuration snapshot: config
// file under flags under environment, then validated.
func loadSettings() (domain.Settings, error) {
	path := cfgPath
	explicit := path != ""
	if !explicit {
		path = configfile.DefaultPath()
	}

	settings, err := configfile.Load(path, explicit)
	if err != nil {
		return settings, err
	}

	if flagRoot != "" {
		settings.Root = flagRoot
	}
	if flagStore != "" {
		settings.StorePath = flagStore
	}
	if len(flagExclude) > 0 {
		settings.Exclude = flagExclude
	}
	if flagLimit > 0 {
		settings.Limit = flagLimit
	}
	if flagConcurrency > 0 {
		settings.Concurrency = flagConcurrency
	}
	if flagProvider != "" {
		settings.Embedding.Provider = flagProvider
	}
	if flagModel != "" {
		settings.Embedding.Model = flagModel
	}
	if flagAPIKey != "" {
		settings.Embedding.APIKey = flagAPIKey
	}

	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// app bundles the wired services for one command invocation.
type app struct {
	settings domain.Settings
	embedder driven.EmbeddingService
	store    driven.VectorStore
	sync     driving.SyncRunner
	searcher driving.Searcher
}

// buildApp wires adapters and services from the configuration snapshot.
// The embedding provider is pinged and the store's recorded model and
// dimensionality are checked before anything else happens.
func buildApp(ctx context.Context) (*app, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}

	embedder, err := embedding.NewValidatedService(ctx, settings.Embedding)
	if err != nil {
		return nil, err
	}

	store, err := sqlite.NewStore(settings.StorePath, embedder.ModelName(), embedder.Dimensions())
	if err != nil {
		_ = embedder.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}

	reader := filesystem.NewReader(settings.Root, settings.Exclude)

	return &app{
		settings: settings,
		embedder: embedder,
		store:    store,
		sync:     services.NewSyncService(reader, store, embedder, settings),
		searcher: services.NewSearchService(embedder, store),
	}, nil
}

// Close releases the app's adapters.
func (a *app) Close() {
	_ = a.store.Close()
	_ = a.embedder.Close()
}
