package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsen/kbm/internal/edge"
	"github.com/matsen/kbm/internal/node"
	"github.com/matsen/kbm/internal/storage"
)

var fixedNow = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

func loadMock(t *testing.T, seed int64) *Corpus {
	t.Helper()
	c, err := MockProvider{Seed: seed, Now: fixedNow}.Load(context.Background())
	require.NoError(t, err)
	return c
}

func TestMockProvider_SeedCorpus(t *testing.T) {
	c := loadMock(t, 42)

	assert.Len(t, c.Nodes, 16)
	assert.Len(t, c.Pairs, 11)
	assert.Len(t, c.Items, DefaultItemCount)
	assert.Len(t, c.ItemDuplicates, 15)

	counts := map[edge.LinkType]int{}
	for _, l := range c.Links {
		counts[l.Type]++
	}
	assert.Equal(t, 20, counts[edge.TypeDepartment])
	assert.Equal(t, 2, counts[edge.TypeRelated])
	assert.Equal(t, 6, counts[edge.TypeCrossDepartment])
}

func TestMockProvider_Deterministic(t *testing.T) {
	a := loadMock(t, 7)
	b := loadMock(t, 7)
	assert.Equal(t, a.Nodes, b.Nodes)
	assert.Equal(t, a.Items, b.Items)

	other := loadMock(t, 8)
	assert.NotEqual(t, a.Items, other.Items)
}

func TestMockProvider_DatesWithinPastYear(t *testing.T) {
	c := loadMock(t, 1)
	for _, n := range c.Nodes {
		created, err := time.Parse(DisplayDateLayout, n.CreatedAt)
		require.NoError(t, err)
		updated, err := time.Parse(DisplayDateLayout, n.UpdatedAt)
		require.NoError(t, err)
		assert.False(t, updated.Before(created), "node %s updated before created", n.ID)
		assert.True(t, created.After(fixedNow.AddDate(-1, 0, -1)), "node %s too old", n.ID)
	}
}

func TestMockProvider_ItemInvariants(t *testing.T) {
	c := loadMock(t, 3)
	for _, it := range c.Items {
		assert.Less(t, it.Views, 10000)
		assert.LessOrEqual(t, float64(it.HelpfulCount), float64(it.Views)*0.3)
		assert.LessOrEqual(t, float64(it.NotHelpfulCount), float64(it.Views)*0.1)
		assert.GreaterOrEqual(t, len(it.RelatedDocuments), 3)
		assert.LessOrEqual(t, len(it.RelatedDocuments), 10)
		for _, rd := range it.RelatedDocuments {
			assert.NotEqual(t, it.ID, rd.ID)
			assert.GreaterOrEqual(t, rd.Similarity, 0.5)
		}
	}
}

func TestMockProvider_ItemDuplicates(t *testing.T) {
	c := loadMock(t, 5)
	first := c.ItemDuplicates[0]
	assert.Equal(t, "dup-0", first.Duplicate.ID)
	assert.Equal(t, c.Items[0].ID, first.Original.ID)
	assert.Contains(t, first.Duplicate.Content, "slightly different content")

	second := c.ItemDuplicates[1]
	assert.Equal(t, c.Items[16].Content, second.Duplicate.Content)

	item, err := c.Item("dup-3")
	require.NoError(t, err)
	assert.Equal(t, "dup-3", item.ID)
}

func TestMockProvider_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := MockProvider{}.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCorpus_Item(t *testing.T) {
	c := loadMock(t, 1)

	it, err := c.Item("hr-onboarding")
	require.NoError(t, err)
	assert.Equal(t, 842, it.Views)

	_, err = c.Item("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBuildLinks(t *testing.T) {
	nodes := []node.Node{
		{ID: "a", Department: node.DeptHR, RelatedDocuments: []node.RelatedDocument{{ID: "b", Similarity: 50}, {ID: "c", Similarity: 75}, {ID: "ghost", Similarity: 90}}},
		{ID: "b", Department: node.DeptHR},
		{ID: "c", Department: node.DeptIT, RelatedDocuments: []node.RelatedDocument{{ID: "a", Similarity: 75}}},
	}
	fixed := []edge.Link{{Source: "b", Target: "c", Value: 1, Type: edge.TypeCrossDepartment}}

	links := BuildLinks(nodes, fixed)
	require.Len(t, links, 3)
	assert.Equal(t, edge.Link{Source: "a", Target: "b", Value: 2, Type: edge.TypeDepartment}, links[0])
	assert.Equal(t, edge.Link{Source: "a", Target: "c", Value: 3, Type: edge.TypeRelated}, links[1])
	assert.Equal(t, fixed[0], links[2])
}

func TestDirProvider_RoundTrip(t *testing.T) {
	src := loadMock(t, 9)
	dir := t.TempDir()
	require.NoError(t, Export(src, dir))

	got, err := DirProvider{Dir: dir}.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, got.Nodes, len(src.Nodes))
	assert.Len(t, got.Links, len(src.Links))
	assert.Len(t, got.Pairs, len(src.Pairs))
	assert.Len(t, got.Items, len(src.Items))
	assert.Equal(t, dir, got.Source)
}

func TestDirProvider_DropsDanglingLinks(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, storage.WriteAllNodes(filepath.Join(dir, storage.NodesFile), []node.Node{
		{ID: "a", Title: "A"}, {ID: "b", Title: "B"},
	}))
	require.NoError(t, storage.WriteAllLinks(filepath.Join(dir, storage.LinksFile), []edge.Link{
		{Source: "a", Target: "b", Value: 1, Type: edge.TypeRelated},
		{Source: "a", Target: "zzz", Value: 1, Type: edge.TypeRelated},
	}))

	c, err := DirProvider{Dir: dir}.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, c.Links, 1)
}

func TestDirProvider_RejectsDuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, storage.WriteAllNodes(filepath.Join(dir, storage.NodesFile), []node.Node{
		{ID: "n1", Title: "A"}, {ID: "n1", Title: "B"},
	}))

	_, err := DirProvider{Dir: dir}.Load(context.Background())
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestMockProvider_UniqueIDs(t *testing.T) {
	c := loadMock(t, 42)
	assert.Empty(t, node.DuplicateID(c.Nodes))
}

func TestDirProvider_MissingNodes(t *testing.T) {
	_, err := DirProvider{Dir: t.TempDir()}.Load(context.Background())
	assert.Error(t, err)

	f := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(f, nil, 0644))
	_, err = DirProvider{Dir: f}.Load(context.Background())
	assert.Error(t, err)
}

func TestStore_ReloadKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, storage.WriteAllNodes(filepath.Join(dir, storage.NodesFile), []node.Node{{ID: "a", Title: "A"}}))

	s := NewStore(DirProvider{Dir: dir})
	_, err := s.Current()
	assert.ErrorIs(t, err, ErrNotLoaded)

	var reloaded int
	s.OnReload(func(*Corpus) { reloaded++ })
	require.NoError(t, s.Reload(context.Background()))

	require.NoError(t, os.WriteFile(filepath.Join(dir, storage.NodesFile), []byte("{broken"), 0644))
	assert.Error(t, s.Reload(context.Background()))

	c, err := s.Current()
	require.NoError(t, err)
	assert.Len(t, c.Nodes, 1)
	assert.Equal(t, 1, reloaded)
}
