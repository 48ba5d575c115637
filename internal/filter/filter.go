// Package filter reduces a corpus to the articles and links a view should show.
package filter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matsen/kbm/internal/edge"
	"github.com/matsen/kbm/internal/node"
)

// All is the wildcard value for department and status filters.
const All = "all"

// MinDensityKeep is the fewest articles a density filter will keep.
const MinDensityKeep = 5

// SearchScope selects which fields a search query is matched against.
type SearchScope string

// Search scopes.
const (
	// ScopeFull matches title, description, content and tags.
	ScopeFull SearchScope = "full"
	// ScopeTitle matches the title only.
	ScopeTitle SearchScope = "title"
)

// Spec describes which articles a view should show.
type Spec struct {
	Department  string      `json:"department,omitempty" validate:"omitempty,max=64"`
	Status      string      `json:"status,omitempty" validate:"omitempty,max=64"`
	SearchQuery string      `json:"search_query,omitempty" validate:"max=256"`
	Density     *int        `json:"density,omitempty" validate:"omitempty,min=0,max=100"`
	Scope       SearchScope `json:"scope,omitempty" validate:"omitempty,oneof=full title"`
}

var validate = validator.New()

// Validate checks field ranges.
func (s Spec) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}
	return nil
}

// WithDensity returns a copy of s with the density set.
func (s Spec) WithDensity(d int) Spec {
	s.Density = &d
	return s
}

// IsZero reports whether the spec filters nothing.
func (s Spec) IsZero() bool {
	return isAll(s.Department) && isAll(s.Status) && s.SearchQuery == "" && s.Density == nil
}

func isAll(v string) bool {
	return v == "" || v == All
}

// Matches reports whether a single article passes the department, status and
// search filters. Density is a collection property and is not considered.
func (s Spec) Matches(n *node.Node) bool {
	if !isAll(s.Department) && string(n.Department) != s.Department {
		return false
	}
	if !isAll(s.Status) && string(n.Status) != s.Status {
		return false
	}
	if s.SearchQuery == "" {
		return true
	}
	q := strings.ToLower(s.SearchQuery)
	if strings.Contains(strings.ToLower(n.Title), q) {
		return true
	}
	if s.Scope == ScopeTitle {
		return false
	}
	if strings.Contains(strings.ToLower(n.Description), q) ||
		strings.Contains(strings.ToLower(n.Content), q) {
		return true
	}
	for _, tag := range n.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Nodes applies spec to nodes and returns a new slice; nodes is not modified.
// When a density is set, the survivors are ranked by views (stable, descending)
// and the top max(5, floor(count*density/100)) are kept.
func Nodes(nodes []node.Node, spec Spec) []node.Node {
	out := make([]node.Node, 0, len(nodes))
	for i := range nodes {
		if spec.Matches(&nodes[i]) {
			out = append(out, nodes[i])
		}
	}
	if spec.Density == nil {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Analytics.Views > out[j].Analytics.Views
	})
	keep := DensityKeep(len(out), *spec.Density)
	return out[:keep]
}

// DensityKeep is the number of articles retained from count at density percent.
func DensityKeep(count, density int) int {
	keep := count * density / 100
	if keep < MinDensityKeep {
		keep = MinDensityKeep
	}
	if keep > count {
		keep = count
	}
	return keep
}

// IDSet returns the ids of nodes.
func IDSet(nodes []node.Node) map[string]bool {
	ids := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = true
	}
	return ids
}

// Links keeps only links whose endpoints are both in keep.
func Links(links []edge.Link, keep map[string]bool) []edge.Link {
	out := make([]edge.Link, 0, len(links))
	for _, l := range links {
		if keep[l.Source] && keep[l.Target] {
			out = append(out, l)
		}
	}
	return out
}

// Apply filters nodes and then the links between the survivors.
func Apply(nodes []node.Node, links []edge.Link, spec Spec) ([]node.Node, []edge.Link) {
	kept := Nodes(nodes, spec)
	return kept, Links(links, IDSet(kept))
}
