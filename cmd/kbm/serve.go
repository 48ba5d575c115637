package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matsen/kbm/internal/corpus"
	"github.com/matsen/kbm/internal/insights"
	"github.com/matsen/kbm/internal/server"
)

var (
	serveAddr  string
	serveWatch bool
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8080)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload the corpus directory when its files change")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP server",
	Long: `Run the dashboard HTTP server.

The server renders the article graph (/graph, /graph.svg, /api/graph), lists
articles (/api/nodes), serves the duplicate review queue (/api/duplicates),
compares articles (/compare, /api/compare) and exposes Prometheus metrics at
/metrics. Review decisions live in memory and are lost on restart.

Examples:
  kbm serve
  kbm serve --addr :9090
  kbm serve --corpus ./kb --watch`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer logger.Sync()

	store := mustLoadStore(ctx)

	graph := graphDefaults()
	srv, err := server.New(server.Config{
		Store:         store,
		Logger:        logger,
		Suggestions:   insights.NewRandomSuggestions(cfg.Seed),
		Graph:         graph,
		LayoutTimeout: cfg.LayoutTimeout,
		Seed:          cfg.Seed,
		RenderRate:    cfg.RenderRate,
		RenderBurst:   cfg.RenderBurst,
	})
	if err != nil {
		exitWithError(ExitConfigError, "configuring server: %v", err)
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Addr
	}

	var tasks []func(context.Context) error
	if serveWatch {
		if cfg.CorpusDir == "" {
			exitWithError(ExitConfigError, "--watch needs a corpus directory (--corpus or corpus_dir)")
		}
		tasks = append(tasks, func(ctx context.Context) error {
			return corpus.Watch(ctx, cfg.CorpusDir, store, logger)
		})
	}

	if humanOutput {
		outputHuman("Dashboard on http://%s/graph\n", displayAddr(addr))
	}
	return srv.Serve(ctx, addr, tasks...)
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
