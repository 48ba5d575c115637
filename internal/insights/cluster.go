package insights

import (
	"errors"
	"regexp"
	"strings"

	"github.com/matsen/kbm/internal/node"
)

// Cluster is a named group of knowledge items.
type Cluster struct {
	ID    string   `json:"id"`    // lowercase alphanumeric + hyphens
	Name  string   `json:"name"`  // display name
	Count int      `json:"count"` // len(Items)
	Items []string `json:"items"`
}

// IDPattern is the regex pattern for valid cluster IDs.
var IDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Cluster errors.
var (
	ErrInvalidClusterID = errors.New("cluster id must be lowercase alphanumeric with hyphens")
	ErrClusterNotFound  = errors.New("cluster not found")
)

// Topics are the cross-department themes clustered by title or content.
var Topics = []string{
	"Security", "Documentation", "Customer", "Product",
	"Technical", "Research", "Development", "Marketing",
}

// MinTopicItems is the size a topic must exceed to form a cluster.
const MinTopicItems = 5

var whitespace = regexp.MustCompile(`\s+`)

// Slug lowercases s and replaces whitespace runs with hyphens.
func Slug(s string) string {
	return whitespace.ReplaceAllString(strings.ToLower(s), "-")
}

// ValidateID checks a cluster id.
func ValidateID(id string) error {
	if !IDPattern.MatchString(id) {
		return ErrInvalidClusterID
	}
	return nil
}

// Contains reports whether the cluster includes item id.
func (c *Cluster) Contains(id string) bool {
	for _, it := range c.Items {
		if it == id {
			return true
		}
	}
	return false
}

// Clusters groups items by department, in first-seen order, then adds a
// topic cluster for each topic mentioned in the title or content of more
// than MinTopicItems items.
func Clusters(items []node.KnowledgeItem) []Cluster {
	var clusters []Cluster
	index := make(map[node.Department]int)
	for _, it := range items {
		i, ok := index[it.Department]
		if !ok {
			i = len(clusters)
			index[it.Department] = i
			clusters = append(clusters, Cluster{
				ID:   "cluster-" + Slug(string(it.Department)),
				Name: string(it.Department),
			})
		}
		clusters[i].Items = append(clusters[i].Items, it.ID)
	}

	for _, topic := range Topics {
		t := strings.ToLower(topic)
		var ids []string
		for _, it := range items {
			if strings.Contains(strings.ToLower(it.Title), t) || strings.Contains(strings.ToLower(it.Content), t) {
				ids = append(ids, it.ID)
			}
		}
		if len(ids) > MinTopicItems {
			clusters = append(clusters, Cluster{
				ID:    "cluster-topic-" + Slug(topic),
				Name:  topic + " Resources",
				Items: ids,
			})
		}
	}

	for i := range clusters {
		clusters[i].Count = len(clusters[i].Items)
	}
	return clusters
}

// FindCluster returns the cluster with id.
func FindCluster(clusters []Cluster, id string) (*Cluster, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	for i := range clusters {
		if clusters[i].ID == id {
			return &clusters[i], nil
		}
	}
	return nil, ErrClusterNotFound
}

// FilterItems keeps the items belonging to cluster c.
func FilterItems(items []node.KnowledgeItem, c *Cluster) []node.KnowledgeItem {
	var out []node.KnowledgeItem
	for _, it := range items {
		if c.Contains(it.ID) {
			out = append(out, it)
		}
	}
	return out
}
