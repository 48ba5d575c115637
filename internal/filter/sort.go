package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/matsen/kbm/internal/node"
)

// SortField names a list-view column.
type SortField string

// Sortable columns.
const (
	SortTitle      SortField = "title"
	SortDepartment SortField = "department"
	SortStatus     SortField = "status"
	SortViews      SortField = "views"
	SortUpdated    SortField = "updated"
)

// SortDirection is ascending or descending.
type SortDirection string

// Sort directions.
const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// Sort orders nodes in place by field. Unknown fields leave the order untouched.
// Unparseable update dates sort as the zero time.
func Sort(nodes []node.Node, field SortField, dir SortDirection) {
	var less func(a, b *node.Node) int
	switch field {
	case SortTitle:
		less = func(a, b *node.Node) int { return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)) }
	case SortDepartment:
		less = func(a, b *node.Node) int { return strings.Compare(string(a.Department), string(b.Department)) }
	case SortStatus:
		less = func(a, b *node.Node) int { return strings.Compare(string(a.Status), string(b.Status)) }
	case SortViews:
		less = func(a, b *node.Node) int { return a.Analytics.Views - b.Analytics.Views }
	case SortUpdated:
		less = func(a, b *node.Node) int { return updatedAt(a).Compare(updatedAt(b)) }
	default:
		return
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		c := less(&nodes[i], &nodes[j])
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})
}

func updatedAt(n *node.Node) time.Time {
	t, err := node.ParseDate(n.UpdatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}
