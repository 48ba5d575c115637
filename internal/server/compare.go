package server

import (
	"html/template"
	"net/http"
	"time"

	"github.com/matsen/kbm/internal/diff"
)

// CompareResponse is the reply of GET /api/compare.
type CompareResponse struct {
	diff.Comparison
	DiffHTML string `json:"diff_html"`
	Summary  string `json:"summary"`
}

// now is the clock article ages are measured against.
var now = time.Now

func (s *Server) comparison(r *http.Request) (diff.Comparison, error) {
	aID, err := required(r, "a")
	if err != nil {
		return diff.Comparison{}, err
	}
	bID, err := required(r, "b")
	if err != nil {
		return diff.Comparison{}, err
	}
	c, err := s.store.Current()
	if err != nil {
		return diff.Comparison{}, err
	}
	a, err := c.Item(aID)
	if err != nil {
		return diff.Comparison{}, err
	}
	b, err := c.Item(bID)
	if err != nil {
		return diff.Comparison{}, err
	}
	return diff.CompareAt(a, b, now()), nil
}

func (s *Server) compareJSON(w http.ResponseWriter, r *http.Request) {
	cmp, err := s.comparison(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CompareResponse{
		Comparison: cmp,
		DiffHTML:   diff.RenderHTML(cmp.Spans),
		Summary:    cmp.Summary(),
	})
}

func (s *Server) comparePage(w http.ResponseWriter, r *http.Request) {
	cmp, err := s.comparison(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.page(w, r, "compare", comparePageData{
		Comparison: cmp,
		// RenderHTML escapes every span.
		DiffHTML: template.HTML(diff.RenderHTML(cmp.Spans)),
		Summary:  cmp.Summary(),
	})
}
