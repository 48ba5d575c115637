package server

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/matsen/kbm/internal/viz"
)

// renderGraph runs one render cycle for the request. Each request owns its
// view, so a cancelled request stops only its own simulation.
func (s *Server) renderGraph(r *http.Request, format string) (*viz.Scene, viz.Transform, error) {
	q := r.URL.Query()
	spec, err := s.parseSpec(q)
	if err != nil {
		return nil, viz.Transform{}, err
	}
	opts, err := s.parseGraphOptions(q)
	if err != nil {
		return nil, viz.Transform{}, err
	}
	t, err := parseTransform(q)
	if err != nil {
		return nil, viz.Transform{}, err
	}
	c, err := s.store.Current()
	if err != nil {
		return nil, viz.Transform{}, err
	}

	view := viz.NewView(s.logger.With(zap.String("requestID", RequestIDFrom(r.Context()))), s.timeout)
	view.Seed = s.seed
	defer view.Close()

	start := time.Now()
	scene, _, err := view.Render(r.Context(), c.Nodes, c.Links, spec, opts)
	s.metrics.RenderDuration.WithLabelValues(string(opts.Layout), format).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.RenderFailures.WithLabelValues(failureReason(err)).Inc()
		return scene, t, err
	}
	return scene, t, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, viz.ErrLayoutUnavailable):
		return "timeout"
	case errors.Is(err, viz.ErrViewClosed), errors.Is(err, viz.ErrRenderSuperseded):
		return "cancelled"
	default:
		return "error"
	}
}

// renderFailed writes the reply for a failed render and reports whether
// it did. A layout timeout is the "visualization unavailable" state: 503.
func (s *Server) renderFailed(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, viz.ErrLayoutUnavailable) {
		writeError(w, http.StatusServiceUnavailable, err)
		return true
	}
	if r.Context().Err() != nil {
		// Client went away; nothing to write.
		return true
	}
	s.fail(w, r, err)
	return true
}

func (s *Server) graphJSON(w http.ResponseWriter, r *http.Request) {
	scene, t, err := s.renderGraph(r, "json")
	if s.renderFailed(w, r, err) {
		return
	}
	data, err := viz.ToJSON(scene, t)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) graphSVG(w http.ResponseWriter, r *http.Request) {
	scene, t, err := s.renderGraph(r, "svg")
	if s.renderFailed(w, r, err) {
		return
	}
	out, err := viz.RenderSVG(scene, t)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write([]byte(out))
}

func (s *Server) graphHTML(w http.ResponseWriter, r *http.Request) {
	scene, _, err := s.renderGraph(r, "html")
	if s.renderFailed(w, r, err) {
		return
	}
	out, err := viz.GenerateHTML(scene, viz.DefaultHTMLOptions())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(out))
}
