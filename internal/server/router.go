package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handler builds the routed handler with middleware.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(requestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(s.requestLogger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))

	router.Get("/health", s.health)
	router.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	router.Group(func(r chi.Router) {
		r.Use(s.throttle)
		r.Get("/graph", s.graphHTML)
		r.Get("/graph.svg", s.graphSVG)
		r.Get("/api/graph", s.graphJSON)
	})
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/graph", http.StatusFound)
	})
	router.Get("/nodes/{id}", s.nodePage)
	router.Get("/compare", s.comparePage)

	router.Route("/api", func(r chi.Router) {
		r.Get("/filter", s.getFilter)
		r.Put("/filter", s.putFilter)

		r.Get("/nodes", s.listNodes)
		r.Get("/nodes/{id}", s.getNode)

		r.Route("/duplicates", func(r chi.Router) {
			r.Get("/", s.listDuplicates)
			r.Get("/history", s.reviewHistory)
			r.Delete("/overrides", s.resetOverrides)
			r.Get("/{id}", s.getDuplicate)
			r.Put("/{id}/status", s.setDuplicateStatus)
		})

		r.Get("/compare", s.compareJSON)

		r.Route("/insights", func(r chi.Router) {
			r.Get("/discover", s.discover)
			r.Get("/clusters", s.clusters)
			r.Get("/departments", s.departments)
			r.Get("/suggestions", s.suggest)
		})
	})

	return router
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.Current()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"source":    c.Source,
		"nodes":     len(c.Nodes),
		"links":     len(c.Links),
		"pairs":     len(c.Pairs),
		"loaded_at": c.LoadedAt,
	})
}
