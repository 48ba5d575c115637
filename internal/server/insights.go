package server

import (
	"fmt"
	"net/http"

	"github.com/matsen/kbm/internal/corpus"
	"github.com/matsen/kbm/internal/insights"
	"github.com/matsen/kbm/internal/node"
)

func (s *Server) discover(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.Current()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	kind := insights.Kind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = insights.KindTrending
	}
	nodes, err := insights.Discover(c.Nodes, kind)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"kind": kind, "nodes": nodes})
}

// ClusterResponse is one cluster, with its items when a single cluster is requested.
type ClusterResponse struct {
	insights.Cluster
	Members []node.KnowledgeItem `json:"members,omitempty"`
}

func (s *Server) clusters(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.Current()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	items := c.AllItems()
	clusters := insights.Clusters(items)

	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSON(w, http.StatusOK, clusters)
		return
	}
	cl, err := insights.FindCluster(clusters, id)
	if err != nil {
		s.fail(w, r, fmt.Errorf("%w: %s", err, id))
		return
	}
	writeJSON(w, http.StatusOK, ClusterResponse{Cluster: *cl, Members: insights.FilterItems(items, cl)})
}

func (s *Server) departments(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.Current()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, insights.DepartmentDistribution(c.Nodes))
}

func (s *Server) suggest(w http.ResponseWriter, r *http.Request) {
	id, err := required(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.store.Current()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	n, ok := c.NodeByID(id)
	if !ok {
		s.fail(w, r, fmt.Errorf("%w: article %s", corpus.ErrNotFound, id))
		return
	}
	suggestions, err := s.suggestions.Suggest(r.Context(), n)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}
