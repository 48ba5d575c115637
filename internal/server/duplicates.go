package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matsen/kbm/internal/duplicate"
)

// PairView is a pair with its effective status and display hints.
type PairView struct {
	duplicate.Pair
	StatusLabel string          `json:"status_label"`
	Level       duplicate.Level `json:"level"`
	LevelColor  string          `json:"level_color"`
}

func pairView(p duplicate.Pair) PairView {
	lvl := duplicate.SimilarityLevel(p.Similarity)
	return PairView{
		Pair:        p,
		StatusLabel: p.Status.Label(),
		Level:       lvl,
		LevelColor:  duplicate.LevelColor(lvl),
	}
}

// DuplicateListResponse is the reply of GET /api/duplicates.
type DuplicateListResponse struct {
	Filter duplicate.Filter         `json:"filter"`
	Counts map[duplicate.Status]int `json:"counts"`
	Pairs  []PairView               `json:"pairs"`
}

func (s *Server) listDuplicates(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.Current()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q := r.URL.Query()
	f := duplicate.Filter{
		SearchQuery: q.Get("q"),
		Status:      q.Get("status"),
		Similarity:  duplicate.Band(q.Get("similarity")),
	}

	matched := s.workflow.Effective(f.Apply(c.Pairs, s.workflow))
	views := make([]PairView, len(matched))
	for i, p := range matched {
		views[i] = pairView(p)
	}
	writeJSON(w, http.StatusOK, DuplicateListResponse{
		Filter: f,
		Counts: s.workflow.Counts(c.Pairs),
		Pairs:  views,
	})
}

func (s *Server) getDuplicate(w http.ResponseWriter, r *http.Request) {
	p, err := s.workflow.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pairView(p))
}

// StatusRequest is the body of PUT /api/duplicates/{id}/status.
type StatusRequest struct {
	Status duplicate.Status `json:"status"`
}

// StatusResponse confirms a review decision.
type StatusResponse struct {
	Pair         PairView               `json:"pair"`
	Notification duplicate.Notification `json:"notification"`
}

func (s *Server) setDuplicateStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	id := chi.URLParam(r, "id")
	note, err := s.workflow.SetStatus(id, req.Status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.ReviewTransitions.WithLabelValues(string(req.Status)).Inc()

	p, err := s.workflow.Get(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Pair: pairView(p), Notification: note})
}

func (s *Server) resetOverrides(w http.ResponseWriter, r *http.Request) {
	s.workflow.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) reviewHistory(w http.ResponseWriter, r *http.Request) {
	history := s.workflow.History()
	if history == nil {
		history = []duplicate.Change{}
	}
	writeJSON(w, http.StatusOK, history)
}
