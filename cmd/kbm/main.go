// Package main provides the kbm CLI entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/kbm/internal/config"
	"github.com/matsen/kbm/internal/corpus"
	"github.com/matsen/kbm/internal/logging"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	corpusDir   string
	seedFlag    int64
	deriveLinks bool

	cfg    config.Config
	logger = zap.NewNop()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kbm",
	Short: "Knowledge base manager: graph, comparison and duplicate review",
	Long: `kbm explores a knowledge base of articles.

Core features:
  - Filter and sort articles by department, status, search and density
  - Lay out the article graph (force, radial, cluster) as SVG, HTML or JSON
  - Word-level comparison of two articles with a merge recommendation
  - Duplicate-pair review with session-scoped decisions
  - Discovery lists, clusters and department distribution

Without --corpus (or corpus_dir in the config) a seeded sample corpus is used.
All commands output JSON by default; pass --human for readable output.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&corpusDir, "corpus", "", "Corpus directory of JSONL files (default: sample corpus)")
	rootCmd.PersistentFlags().BoolVar(&deriveLinks, "derive-links", false, "Add department and related-document links to a corpus directory's links")
	rootCmd.PersistentFlags().Int64Var(&seedFlag, "seed", 0, "Seed for the sample corpus and layout (default from config)")
	rootCmd.Version = Version
}

// setup resolves configuration and the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	config.LoadDotEnv()
	c, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v\n\n%s", err, config.HelpfulConfigMessage())
	}
	if corpusDir != "" {
		c.CorpusDir = config.ExpandTilde(corpusDir)
	}
	if seedFlag != 0 {
		c.Seed = seedFlag
	}
	cfg = c

	l, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	logger = l
	return nil
}

// corpusProvider picks the directory provider when a corpus dir is
// configured, otherwise the seeded sample.
func corpusProvider() corpus.Provider {
	if cfg.CorpusDir != "" {
		return corpus.DirProvider{Dir: cfg.CorpusDir, DeriveLinks: deriveLinks}
	}
	return corpus.MockProvider{Seed: cfg.Seed, ItemCount: cfg.ItemCount}
}

// mustLoadStore loads the corpus into a store, exits on error.
func mustLoadStore(ctx context.Context) *corpus.Store {
	store := corpus.NewStore(corpusProvider())
	if err := store.Reload(ctx); err != nil {
		code := ExitDataError
		if errors.Is(err, os.ErrNotExist) {
			code = ExitConfigError
		}
		exitWithError(code, "loading corpus: %v", err)
	}
	return store
}

// mustLoadCorpus returns the current corpus snapshot, exits on error.
func mustLoadCorpus(ctx context.Context) *corpus.Corpus {
	c, err := mustLoadStore(ctx).Current()
	if err != nil {
		exitWithError(ExitDataError, "loading corpus: %v", err)
	}
	return c
}
