package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/matsen/kbm/internal/duplicate"
	"github.com/matsen/kbm/internal/edge"
	"github.com/matsen/kbm/internal/node"
	"github.com/matsen/kbm/internal/storage"
)

// DirProvider loads a corpus from JSONL files in a directory.
//
// nodes.jsonl is required. links.jsonl holds fixed links that are appended
// to the derived department and related links, unless DeriveLinks is false,
// in which case it is used verbatim. duplicates.jsonl and items.jsonl are optional.
type DirProvider struct {
	Dir         string
	DeriveLinks bool
}

// Load implements Provider.
func (p DirProvider) Load(ctx context.Context) (*Corpus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(p.Dir)
	if err != nil {
		return nil, fmt.Errorf("corpus directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus path is not a directory: %s", p.Dir)
	}

	nodesPath := filepath.Join(p.Dir, storage.NodesFile)
	if _, err := os.Stat(nodesPath); err != nil {
		return nil, fmt.Errorf("corpus requires %s: %w", storage.NodesFile, err)
	}
	nodes, err := storage.ReadAllNodes(nodesPath)
	if err != nil {
		return nil, err
	}

	if id := node.DuplicateID(nodes); id != "" {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}

	links, err := storage.ReadAllLinks(filepath.Join(p.Dir, storage.LinksFile))
	if err != nil {
		return nil, err
	}
	if p.DeriveLinks {
		links = BuildLinks(nodes, links)
	}

	valid := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		valid[n.ID] = true
	}
	_, links = edge.DetectDanglingLinks(links, valid)

	records, err := storage.ReadAllDuplicates(filepath.Join(p.Dir, storage.DuplicatesFile))
	if err != nil {
		return nil, err
	}
	pairs, err := duplicate.Resolve(records, node.IndexByID(nodes))
	if err != nil {
		return nil, err
	}

	items, err := storage.ReadAllItems(filepath.Join(p.Dir, storage.ItemsFile))
	if err != nil {
		return nil, err
	}

	c := &Corpus{
		Nodes:  nodes,
		Links:  links,
		Pairs:  pairs,
		Items:  items,
		Source: p.Dir,
	}
	c.LoadedAt = fileModTime(nodesPath)
	c.index()
	return c, nil
}

func fileModTime(path string) (t time.Time) {
	if info, err := os.Stat(path); err == nil {
		t = info.ModTime()
	}
	return t
}

// Export writes a corpus to dir in the layout DirProvider reads.
func Export(c *Corpus, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating corpus directory: %w", err)
	}
	if err := storage.WriteAllNodes(filepath.Join(dir, storage.NodesFile), c.Nodes); err != nil {
		return err
	}
	if err := storage.WriteAllLinks(filepath.Join(dir, storage.LinksFile), c.Links); err != nil {
		return err
	}
	records := make([]duplicate.Record, len(c.Pairs))
	for i, p := range c.Pairs {
		records[i] = duplicate.Record{
			ID:         p.ID,
			SourceID:   p.Source.ID,
			TargetID:   p.Target.ID,
			Similarity: p.Similarity,
			Status:     p.Status,
		}
	}
	if err := storage.WriteAllDuplicates(filepath.Join(dir, storage.DuplicatesFile), records); err != nil {
		return err
	}
	if len(c.Items) > 0 {
		if err := storage.WriteAllItems(filepath.Join(dir, storage.ItemsFile), c.Items); err != nil {
			return err
		}
	}
	return nil
}
