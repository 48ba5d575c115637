package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/matsen/kbm/internal/corpus"
	"github.com/matsen/kbm/internal/filter"
	"github.com/matsen/kbm/internal/node"
	"github.com/matsen/kbm/internal/viz"
)

// markdown renders article content. Raw HTML in content is not passed through.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// RenderContent converts article markdown to HTML.
func RenderContent(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering content: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// NodeListResponse is the reply of GET /api/nodes.
type NodeListResponse struct {
	Filter filter.Spec `json:"filter"`
	Total  int         `json:"total"`
	Nodes  []node.Node `json:"nodes"`
}

func (s *Server) listNodes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	spec, err := s.parseSpec(q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.store.Current()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	nodes := node.CloneAll(filter.Nodes(c.Nodes, spec))
	if field := q.Get("sort"); field != "" {
		dir := filter.SortDirection(q.Get("dir"))
		if dir != filter.Desc {
			dir = filter.Asc
		}
		filter.Sort(nodes, filter.SortField(field), dir)
	}
	writeJSON(w, http.StatusOK, NodeListResponse{Filter: spec, Total: len(c.Nodes), Nodes: nodes})
}

// NodeResponse is the reply of GET /api/nodes/{id}.
type NodeResponse struct {
	Node        node.Node     `json:"node"`
	Tooltip     viz.Tooltip   `json:"tooltip"`
	ContentHTML template.HTML `json:"content_html"`
}

func (s *Server) lookupNode(r *http.Request) (node.Node, error) {
	c, err := s.store.Current()
	if err != nil {
		return node.Node{}, err
	}
	id := chi.URLParam(r, "id")
	n, ok := c.NodeByID(id)
	if !ok {
		return node.Node{}, fmt.Errorf("%w: article %s", corpus.ErrNotFound, id)
	}
	return n, nil
}

func (s *Server) getNode(w http.ResponseWriter, r *http.Request) {
	n, err := s.lookupNode(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	content, err := RenderContent(n.Content)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NodeResponse{Node: n, Tooltip: viz.TooltipFor(&n), ContentHTML: content})
}

func (s *Server) nodePage(w http.ResponseWriter, r *http.Request) {
	n, err := s.lookupNode(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	content, err := RenderContent(n.Content)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	suggestions, err := s.suggestions.Suggest(r.Context(), n)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	notice := viz.SelectedNotice(&n)
	s.page(w, r, "node", nodePageData{
		Notice:      notice,
		Node:        n,
		Tooltip:     viz.TooltipFor(&n),
		Content:     content,
		Suggestions: suggestions,
	})
}

func (s *Server) getFilter(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.filters.Get())
}

func (s *Server) putFilter(w http.ResponseWriter, r *http.Request) {
	var spec filter.Spec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		s.fail(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if spec.Scope == "" {
		spec.Scope = filter.ScopeFull
	}
	if err := s.filters.Set(spec); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, spec)
}
