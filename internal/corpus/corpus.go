// Package corpus supplies the read-only article collection that every view renders.
package corpus

import (
	"context"
	"errors"
	"time"

	"github.com/matsen/kbm/internal/duplicate"
	"github.com/matsen/kbm/internal/edge"
	"github.com/matsen/kbm/internal/node"
)

// Provider loads a corpus. Implementations must return a corpus that callers
// may share freely; nothing downstream mutates it.
type Provider interface {
	Load(ctx context.Context) (*Corpus, error)
}

// ItemDuplicate is a detected near-copy of a knowledge item.
type ItemDuplicate struct {
	Original   node.KnowledgeItem `json:"original"`
	Duplicate  node.KnowledgeItem `json:"duplicate"`
	Similarity float64            `json:"similarity"` // 0..1
	DetectedAt string             `json:"detected_at"`
}

// Corpus is an immutable snapshot of articles, links and duplicate pairs.
type Corpus struct {
	Nodes          []node.Node          `json:"nodes"`
	Links          []edge.Link          `json:"links"`
	Pairs          []duplicate.Pair     `json:"pairs"`
	Items          []node.KnowledgeItem `json:"items,omitempty"`
	ItemDuplicates []ItemDuplicate      `json:"item_duplicates,omitempty"`

	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`

	byID map[string]*node.Node
}

// ErrNotFound is returned when an article or item id is unknown.
var ErrNotFound = errors.New("not found in corpus")

// ErrDuplicateID is returned when two articles share an id.
var ErrDuplicateID = errors.New("duplicate article id")

func (c *Corpus) index() {
	c.byID = node.IndexByID(c.Nodes)
}

// NodeByID looks up an article.
func (c *Corpus) NodeByID(id string) (node.Node, bool) {
	if c.byID == nil {
		c.index()
	}
	n, ok := c.byID[id]
	if !ok {
		return node.Node{}, false
	}
	return n.Clone(), true
}

// Item looks up a knowledge item by id. Generated items and their detected
// duplicates are searched first, then articles are converted on the fly.
func (c *Corpus) Item(id string) (node.KnowledgeItem, error) {
	for _, it := range c.Items {
		if it.ID == id {
			return it, nil
		}
	}
	for _, d := range c.ItemDuplicates {
		if d.Duplicate.ID == id {
			return d.Duplicate, nil
		}
	}
	if n, ok := c.NodeByID(id); ok {
		return node.FromNode(n), nil
	}
	return node.KnowledgeItem{}, ErrNotFound
}

// AllItems returns generated items followed by every article as an item.
func (c *Corpus) AllItems() []node.KnowledgeItem {
	out := make([]node.KnowledgeItem, 0, len(c.Items)+len(c.Nodes))
	out = append(out, c.Items...)
	for _, n := range c.Nodes {
		out = append(out, node.FromNode(n))
	}
	return out
}

// BuildLinks derives the graph's links from the articles:
// every pair within a department (value 2), then one related link per related
// document not already linked in either direction (value similarity/25), then
// the given fixed links. Related documents pointing outside nodes are skipped.
func BuildLinks(nodes []node.Node, fixed []edge.Link) []edge.Link {
	var links []edge.Link
	seen := edge.Set{}

	var order []node.Department
	byDept := make(map[node.Department][]string)
	for _, n := range nodes {
		if _, ok := byDept[n.Department]; !ok {
			order = append(order, n.Department)
		}
		byDept[n.Department] = append(byDept[n.Department], n.ID)
	}
	for _, d := range order {
		ids := byDept[d]
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				l := edge.Link{Source: ids[i], Target: ids[j], Value: 2, Type: edge.TypeDepartment}
				links = append(links, l)
				seen.Add(l)
			}
		}
	}

	present := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		present[n.ID] = true
	}
	for _, n := range nodes {
		for _, rd := range n.RelatedDocuments {
			if !present[rd.ID] || rd.ID == n.ID || seen.Has(n.ID, rd.ID) {
				continue
			}
			l := edge.Link{Source: n.ID, Target: rd.ID, Value: rd.Similarity / 25, Type: edge.TypeRelated}
			links = append(links, l)
			seen.Add(l)
		}
	}

	return append(links, fixed...)
}
