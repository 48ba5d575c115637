package storage

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/matsen/kbm/internal/duplicate"
	"github.com/matsen/kbm/internal/edge"
	"github.com/matsen/kbm/internal/node"
)

// File names inside a corpus directory.
const (
	NodesFile      = "nodes.jsonl"
	LinksFile      = "links.jsonl"
	DuplicatesFile = "duplicates.jsonl"
	ItemsFile      = "items.jsonl"
)

// CorpusFiles lists the files a corpus directory may contain.
var CorpusFiles = []string{NodesFile, LinksFile, DuplicatesFile, ItemsFile}

// ReadAllNodes reads all articles from a JSONL file.
func ReadAllNodes(path string) ([]node.Node, error) {
	return readJSONL(path, "nodes", (*node.Node).Validate)
}

// DecodeNodes reads articles from a JSONL stream.
func DecodeNodes(r io.Reader) ([]node.Node, error) {
	return decodeJSONL(r, "nodes", (*node.Node).Validate)
}

// WriteAllNodes writes all articles to a JSONL file.
func WriteAllNodes(path string, nodes []node.Node) error {
	return writeAll(path, "node", nodes)
}

// ReadAllLinks reads all links from a JSONL file.
func ReadAllLinks(path string) ([]edge.Link, error) {
	return readJSONL(path, "links", (*edge.Link).Validate)
}

// DecodeLinks reads links from a JSONL stream.
func DecodeLinks(r io.Reader) ([]edge.Link, error) {
	return decodeJSONL(r, "links", (*edge.Link).Validate)
}

// WriteAllLinks writes all links to a JSONL file.
func WriteAllLinks(path string, links []edge.Link) error {
	return writeAll(path, "link", links)
}

func validateRecord(r *duplicate.Record) error {
	if r.ID == "" {
		return duplicate.ErrEmptyPairID
	}
	if r.Status != "" && !r.Status.Valid() {
		return duplicate.ErrInvalidStatus
	}
	if !(r.Similarity >= 0 && r.Similarity <= 100) {
		return fmt.Errorf("%w: %v", duplicate.ErrSimilarity, r.Similarity)
	}
	return nil
}

// ReadAllDuplicates reads duplicate-pair records from a JSONL file.
func ReadAllDuplicates(path string) ([]duplicate.Record, error) {
	return readJSONL(path, "duplicates", validateRecord)
}

// DecodeDuplicates reads duplicate-pair records from a JSONL stream.
func DecodeDuplicates(r io.Reader) ([]duplicate.Record, error) {
	return decodeJSONL(r, "duplicates", validateRecord)
}

// WriteAllDuplicates writes duplicate-pair records to a JSONL file.
func WriteAllDuplicates(path string, records []duplicate.Record) error {
	return writeAll(path, "duplicate", records)
}

// ReadAllItems reads knowledge items from a JSONL file.
func ReadAllItems(path string) ([]node.KnowledgeItem, error) {
	return readJSONL[node.KnowledgeItem](path, "items", nil)
}

// WriteAllItems writes knowledge items to a JSONL file.
func WriteAllItems(path string, items []node.KnowledgeItem) error {
	return writeAll(path, "item", items)
}

// IsCorpusFile reports whether path names one of the corpus files.
func IsCorpusFile(path string) bool {
	base := filepath.Base(path)
	for _, f := range CorpusFiles {
		if base == f {
			return true
		}
	}
	return false
}
