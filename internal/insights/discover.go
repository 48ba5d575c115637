// Package insights derives discovery lists, clusters and distributions from
// a corpus for the dashboard panels.
package insights

import (
	"errors"
	"fmt"
	"sort"

	"github.com/matsen/kbm/internal/node"
)

// DiscoverLimit is the number of articles a discovery list shows.
const DiscoverLimit = 6

// Kind selects a discovery list.
type Kind string

// Discovery kinds.
const (
	KindTrending    Kind = "trending"
	KindRecommended Kind = "recommended"
	KindRecent      Kind = "recent"
)

// Kinds lists the discovery kinds.
var Kinds = []Kind{KindTrending, KindRecommended, KindRecent}

// ErrUnknownKind is returned for an unsupported discovery kind.
var ErrUnknownKind = errors.New("unknown discovery kind")

// Discover returns up to DiscoverLimit articles for kind:
// trending ranks by views, recommended by helpfulness, and recent keeps
// recently-updated or high-performing articles in input order.
// The input is not modified.
func Discover(nodes []node.Node, kind Kind) ([]node.Node, error) {
	out := make([]node.Node, 0, len(nodes))
	switch kind {
	case KindTrending:
		out = append(out, nodes...)
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Analytics.Views > out[j].Analytics.Views
		})
	case KindRecommended:
		out = append(out, nodes...)
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Analytics.Helpfulness > out[j].Analytics.Helpfulness
		})
	case KindRecent:
		for _, n := range nodes {
			if n.Status == node.StatusRecentlyUpdated || n.Status == node.StatusHighPerforming {
				out = append(out, n)
			}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if len(out) > DiscoverLimit {
		out = out[:DiscoverLimit]
	}
	return node.CloneAll(out), nil
}

// DepartmentCount is the number of articles in one department.
type DepartmentCount struct {
	Department node.Department `json:"department"`
	Count      int             `json:"count"`
}

// DepartmentDistribution counts articles per department, largest first;
// ties are ordered by department name.
func DepartmentDistribution(nodes []node.Node) []DepartmentCount {
	counts := make(map[node.Department]int)
	for _, n := range nodes {
		counts[n.Department]++
	}
	out := make([]DepartmentCount, 0, len(counts))
	for d, c := range counts {
		out = append(out, DepartmentCount{Department: d, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Department < out[j].Department
	})
	return out
}
