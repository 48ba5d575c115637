// Package server exposes the knowledge-base dashboard over HTTP: the graph
// as SVG, HTML and JSON, article lists, the duplicate review queue, article
// comparison and the insight panels.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/matsen/kbm/internal/corpus"
	"github.com/matsen/kbm/internal/duplicate"
	"github.com/matsen/kbm/internal/filter"
	"github.com/matsen/kbm/internal/insights"
	"github.com/matsen/kbm/internal/viz"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// Config wires a Server. Store is required; everything else has defaults.
type Config struct {
	Store         *corpus.Store
	Logger        *zap.Logger
	Suggestions   insights.SuggestionProvider
	Graph         viz.Options
	LayoutTimeout time.Duration
	Seed          int64
	RenderRate    float64 // renders per second; <= 0 disables limiting
	RenderBurst   int
}

// Server is the dashboard. Review overrides live in its Workflow and are lost
// on restart.
type Server struct {
	store       *corpus.Store
	logger      *zap.Logger
	suggestions insights.SuggestionProvider
	graph       viz.Options
	timeout     time.Duration
	seed        int64

	filters  *filter.Store
	workflow *duplicate.Workflow
	metrics  *Metrics
	limiter  *rate.Limiter
}

// New creates a server over cfg.Store. The store should already be loaded;
// the review workflow is rebased on every reload.
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("server: corpus store is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Suggestions == nil {
		cfg.Suggestions = insights.NewRandomSuggestions(cfg.Seed)
	}
	if cfg.Graph == (viz.Options{}) {
		cfg.Graph = viz.DefaultOptions()
	}
	if err := cfg.Graph.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		store:       cfg.Store,
		logger:      cfg.Logger,
		suggestions: cfg.Suggestions,
		graph:       cfg.Graph,
		timeout:     cfg.LayoutTimeout,
		seed:        cfg.Seed,
		filters:     filter.NewStore(filter.Spec{Scope: filter.ScopeFull}),
		workflow:    duplicate.NewWorkflow(nil),
		metrics:     NewMetrics(),
	}
	if cfg.RenderRate > 0 {
		burst := cfg.RenderBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RenderRate), burst)
	}

	if c, err := cfg.Store.Current(); err == nil {
		s.workflow.Rebase(c.Pairs)
	}
	cfg.Store.OnReload(func(c *corpus.Corpus) {
		s.workflow.Rebase(c.Pairs)
		s.metrics.CorpusReloads.Inc()
	})
	s.filters.Subscribe(func(spec filter.Spec) {
		s.logger.Debug("shared filter changed",
			zap.String("department", spec.Department),
			zap.String("status", spec.Status),
			zap.String("search", spec.SearchQuery))
	})
	return s, nil
}

// Workflow returns the review session.
func (s *Server) Workflow() *duplicate.Workflow { return s.workflow }

// Filters returns the shared filter.
func (s *Server) Filters() *filter.Store { return s.filters }

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
// Extra background tasks (such as a corpus watcher) run in the same group;
// the first to fail stops the rest.
func (s *Server) Serve(ctx context.Context, addr string, tasks ...func(context.Context) error) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("dashboard listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	for _, task := range tasks {
		task := task
		g.Go(func() error {
			err := task(gctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	err := g.Wait()
	s.logger.Info("dashboard stopped")
	return err
}
