package insights

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/matsen/kbm/internal/node"
)

func discoverNodes() []node.Node {
	out := make([]node.Node, 0, 9)
	statuses := []node.Status{node.StatusCurrent, node.StatusRecentlyUpdated, node.StatusHighPerforming}
	for i := 0; i < 9; i++ {
		out = append(out, node.Node{
			ID:        fmt.Sprintf("n%d", i),
			Title:     fmt.Sprintf("Article %d", i),
			Status:    statuses[i%3],
			Analytics: node.Analytics{Views: (i * 37) % 100, Helpfulness: 100 - i*5},
		})
	}
	return out
}

func nodeIDs(nodes []node.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func TestDiscover(t *testing.T) {
	tests := []struct {
		kind Kind
		want []string
	}{
		// views: n0=0 n1=37 n2=74 n3=11 n4=48 n5=85 n6=22 n7=59 n8=96
		{KindTrending, []string{"n8", "n5", "n2", "n7", "n4", "n1"}},
		{KindRecommended, []string{"n0", "n1", "n2", "n3", "n4", "n5"}},
		{KindRecent, []string{"n1", "n2", "n4", "n5", "n7", "n8"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			in := discoverNodes()
			got, err := Discover(in, tt.kind)
			if err != nil {
				t.Fatalf("Discover() error = %v", err)
			}
			if !reflect.DeepEqual(nodeIDs(got), tt.want) {
				t.Errorf("Discover(%s) = %v, want %v", tt.kind, nodeIDs(got), tt.want)
			}
			if !reflect.DeepEqual(nodeIDs(in), nodeIDs(discoverNodes())) {
				t.Error("Discover mutated its input")
			}
		})
	}
}

func TestDiscover_UnknownKind(t *testing.T) {
	_, err := Discover(discoverNodes(), "popular")
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("error = %v, want ErrUnknownKind", err)
	}
}

func TestDepartmentDistribution(t *testing.T) {
	nodes := []node.Node{
		{ID: "a", Department: node.DeptIT},
		{ID: "b", Department: node.DeptHR},
		{ID: "c", Department: node.DeptIT},
		{ID: "d", Department: node.DeptSales},
	}
	got := DepartmentDistribution(nodes)
	want := []DepartmentCount{
		{Department: node.DeptIT, Count: 2},
		{Department: node.DeptHR, Count: 1},
		{Department: node.DeptSales, Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DepartmentDistribution() = %v, want %v", got, want)
	}
}

func clusterItems() []node.KnowledgeItem {
	var items []node.KnowledgeItem
	for i := 0; i < 7; i++ {
		items = append(items, node.KnowledgeItem{
			ID:         fmt.Sprintf("item-%d", i),
			Title:      "Security Guide",
			Department: node.DeptCustomerSupport,
		})
	}
	items = append(items,
		node.KnowledgeItem{ID: "item-7", Title: "Pricing", Content: "product pricing", Department: node.DeptSales},
		node.KnowledgeItem{ID: "item-8", Title: "Roadmap", Content: "Product roadmap", Department: node.DeptSales},
	)
	return items
}

func TestClusters(t *testing.T) {
	got := Clusters(clusterItems())

	var ids []string
	for _, c := range got {
		ids = append(ids, c.ID)
		if err := ValidateID(c.ID); err != nil {
			t.Errorf("cluster id %q invalid: %v", c.ID, err)
		}
		if c.Count != len(c.Items) {
			t.Errorf("cluster %s count %d != %d items", c.ID, c.Count, len(c.Items))
		}
	}
	want := []string{"cluster-customer-support", "cluster-sales", "cluster-topic-security"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("cluster ids = %v, want %v", ids, want)
	}
	if got[2].Name != "Security Resources" || got[2].Count != 7 {
		t.Errorf("topic cluster = %+v", got[2])
	}
	if got[1].Count != 2 {
		t.Errorf("sales cluster count = %d, want 2", got[1].Count)
	}
}

func TestFindCluster(t *testing.T) {
	clusters := Clusters(clusterItems())

	c, err := FindCluster(clusters, "cluster-sales")
	if err != nil {
		t.Fatalf("FindCluster() error = %v", err)
	}
	if got := FilterItems(clusterItems(), c); len(got) != 2 || got[0].ID != "item-7" {
		t.Errorf("FilterItems() = %v", got)
	}

	if _, err := FindCluster(clusters, "cluster-legal"); !errors.Is(err, ErrClusterNotFound) {
		t.Errorf("error = %v, want ErrClusterNotFound", err)
	}
	if _, err := FindCluster(clusters, "Bad ID"); !errors.Is(err, ErrInvalidClusterID) {
		t.Errorf("error = %v, want ErrInvalidClusterID", err)
	}
}

func TestSlug(t *testing.T) {
	if got := Slug("Customer  Support"); got != "customer-support" {
		t.Errorf("Slug() = %q", got)
	}
}

func TestRandomSuggestions(t *testing.T) {
	p := NewRandomSuggestions(42)
	var provider SuggestionProvider = p

	got, err := provider.Suggest(context.Background(), node.Node{ID: "x"})
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if len(got) != DefaultSuggestionCount {
		t.Fatalf("len = %d, want %d", len(got), DefaultSuggestionCount)
	}
	seen := map[string]bool{}
	for _, s := range got {
		if seen[s.Type] {
			t.Errorf("duplicate suggestion %q", s.Type)
		}
		seen[s.Type] = true
	}

	again, _ := NewRandomSuggestions(42).Suggest(context.Background(), node.Node{})
	if !reflect.DeepEqual(got, again) {
		t.Error("same seed produced different suggestions")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Suggest(ctx, node.Node{}); err == nil {
		t.Error("expected error for cancelled context")
	}
}
