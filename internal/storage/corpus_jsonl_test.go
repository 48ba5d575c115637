package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matsen/kbm/internal/duplicate"
	"github.com/matsen/kbm/internal/edge"
	"github.com/matsen/kbm/internal/node"
)

func TestReadAllLinks(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantLinks int
		wantErr   bool
	}{
		{
			name:      "empty file",
			content:   "",
			wantLinks: 0,
		},
		{
			name:      "single link",
			content:   `{"source":"hr-onboarding","target":"it-security","value":1,"type":"cross-department"}`,
			wantLinks: 1,
		},
		{
			name: "with empty lines",
			content: `{"source":"a","target":"b","value":2,"type":"department"}

{"source":"b","target":"c","value":1.5,"type":"related"}`,
			wantLinks: 2,
		},
		{
			name:    "invalid JSON",
			content: `{"source":"a","target":"b"`,
			wantErr: true,
		},
		{
			name:    "self link fails validation",
			content: `{"source":"a","target":"a","value":1,"type":"related"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), LinksFile)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			links, err := ReadAllLinks(path)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(links) != tt.wantLinks {
				t.Errorf("got %d links, want %d", len(links), tt.wantLinks)
			}
		})
	}
}

func TestReadAllNodes_FileNotExists(t *testing.T) {
	nodes, err := ReadAllNodes("/nonexistent/path/nodes.jsonl")
	if err != nil {
		t.Errorf("expected nil error for missing file, got %v", err)
	}
	if nodes != nil {
		t.Errorf("expected nil slice, got %v", nodes)
	}
}

func TestReadAllNodes_ErrorMentionsLine(t *testing.T) {
	content := `{"id":"a","title":"A","analytics":{"views":1}}
{"id":"","title":"B"}`
	_, err := DecodeNodes(strings.NewReader(content))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error %q does not mention line 2", err)
	}
}

func TestWriteThenReadNodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), NodesFile)
	want := []node.Node{
		{ID: "hr-onboarding", Title: "Employee Onboarding Process", Department: node.DeptHR, Tags: []string{"onboarding"}},
		{ID: "it-security", Title: "IT Security Protocols", Department: node.DeptIT},
	}
	if err := WriteAllNodes(path, want); err != nil {
		t.Fatalf("WriteAllNodes: %v", err)
	}
	got, err := ReadAllNodes(path)
	if err != nil {
		t.Fatalf("ReadAllNodes: %v", err)
	}
	if len(got) != 2 || got[0].Department != node.DeptHR || got[1].ID != "it-security" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestReadAllDuplicates_InvalidStatus(t *testing.T) {
	content := `{"id":"a-b","source_id":"a","target_id":"b","similarity":80,"status":"deleted"}`
	_, err := DecodeDuplicates(strings.NewReader(content))
	if err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestReadAllDuplicates_SimilarityRange(t *testing.T) {
	tests := []struct {
		name       string
		similarity string
		wantErr    bool
	}{
		{"lower bound", "0", false},
		{"upper bound", "100", false},
		{"above range", "450", true},
		{"negative", "-1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := `{"id":"a-b","source_id":"a","target_id":"b","similarity":` + tt.similarity + `,"status":"pending"}`
			_, err := DecodeDuplicates(strings.NewReader(content))
			if tt.wantErr && !errors.Is(err, duplicate.ErrSimilarity) {
				t.Errorf("DecodeDuplicates() error = %v, want %v", err, duplicate.ErrSimilarity)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("DecodeDuplicates() unexpected error = %v", err)
			}
		})
	}
}

func TestDecodeNodes_RelatedSimilarityRange(t *testing.T) {
	content := `{"id":"n1","title":"A","related_documents":[{"id":"n2","title":"B","similarity":450}]}`
	_, err := DecodeNodes(strings.NewReader(content))
	if !errors.Is(err, node.ErrSimilarity) {
		t.Fatalf("DecodeNodes() error = %v, want %v", err, node.ErrSimilarity)
	}
}

func TestWriteAllDuplicatesAndLinks(t *testing.T) {
	dir := t.TempDir()
	recs := []duplicate.Record{{ID: "a-b", SourceID: "a", TargetID: "b", Similarity: 70, Status: duplicate.StatusPending}}
	if err := WriteAllDuplicates(filepath.Join(dir, DuplicatesFile), recs); err != nil {
		t.Fatal(err)
	}
	links := []edge.Link{{Source: "a", Target: "b", Value: 2, Type: edge.TypeDepartment}}
	if err := WriteAllLinks(filepath.Join(dir, LinksFile), links); err != nil {
		t.Fatal(err)
	}

	gotRecs, err := ReadAllDuplicates(filepath.Join(dir, DuplicatesFile))
	if err != nil || len(gotRecs) != 1 {
		t.Fatalf("ReadAllDuplicates = %v, %v", gotRecs, err)
	}
	gotLinks, err := ReadAllLinks(filepath.Join(dir, LinksFile))
	if err != nil || len(gotLinks) != 1 || gotLinks[0].Type != edge.TypeDepartment {
		t.Fatalf("ReadAllLinks = %v, %v", gotLinks, err)
	}
}

func TestIsCorpusFile(t *testing.T) {
	if !IsCorpusFile("/data/kb/nodes.jsonl") {
		t.Error("nodes.jsonl should be a corpus file")
	}
	if IsCorpusFile("/data/kb/notes.txt") {
		t.Error("notes.txt should not be a corpus file")
	}
}
