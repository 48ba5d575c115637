package node

import (
	"errors"
	"testing"
)

func TestNode_Validate(t *testing.T) {
	tests := []struct {
		name    string
		node    Node
		wantErr error
	}{
		{
			name:    "valid node",
			node:    Node{ID: "hr-onboarding", Title: "Onboarding", Analytics: Analytics{Views: 10, Helpfulness: 90}},
			wantErr: nil,
		},
		{
			name:    "unknown department is accepted",
			node:    Node{ID: "x", Title: "X", Department: "Janitorial"},
			wantErr: nil,
		},
		{
			name:    "empty id",
			node:    Node{Title: "X"},
			wantErr: ErrEmptyID,
		},
		{
			name:    "empty title",
			node:    Node{ID: "x"},
			wantErr: ErrEmptyTitle,
		},
		{
			name:    "negative views",
			node:    Node{ID: "x", Title: "X", Analytics: Analytics{Views: -1}},
			wantErr: ErrNegativeViews,
		},
		{
			name: "related similarity in range",
			node: Node{ID: "x", Title: "X", RelatedDocuments: []RelatedDocument{
				{ID: "a", Similarity: 0}, {ID: "b", Similarity: 100},
			}},
			wantErr: nil,
		},
		{
			name:    "related similarity above 100",
			node:    Node{ID: "x", Title: "X", RelatedDocuments: []RelatedDocument{{ID: "a", Similarity: 450}}},
			wantErr: ErrSimilarity,
		},
		{
			name:    "negative related similarity",
			node:    Node{ID: "x", Title: "X", RelatedDocuments: []RelatedDocument{{ID: "a", Similarity: -5}}},
			wantErr: ErrSimilarity,
		},
		{
			name:    "score above 100",
			node:    Node{ID: "x", Title: "X", Analytics: Analytics{Accuracy: 101}},
			wantErr: ErrScoreRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.node.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDuplicateID(t *testing.T) {
	if got := DuplicateID([]Node{{ID: "a"}, {ID: "b"}}); got != "" {
		t.Errorf("DuplicateID() = %q, want empty", got)
	}
	if got := DuplicateID([]Node{{ID: "a"}, {ID: "n1"}, {ID: "b"}, {ID: "n1"}}); got != "n1" {
		t.Errorf("DuplicateID() = %q, want n1", got)
	}
}

func TestNode_Radius(t *testing.T) {
	if got := (&Node{}).Radius(); got != DefaultRadius {
		t.Errorf("Radius() = %v, want %v", got, DefaultRadius)
	}
	if got := (&Node{Size: 32}).Radius(); got != 32 {
		t.Errorf("Radius() = %v, want 32", got)
	}
}

func TestNode_CloneIsDeep(t *testing.T) {
	orig := Node{
		ID:               "a",
		Tags:             []string{"one"},
		RelatedDocuments: []RelatedDocument{{ID: "b", Similarity: 70}},
	}
	c := orig.Clone()
	c.Tags[0] = "changed"
	c.RelatedDocuments[0].Similarity = 10

	if orig.Tags[0] != "one" {
		t.Errorf("clone shares tags with original")
	}
	if orig.RelatedDocuments[0].Similarity != 70 {
		t.Errorf("clone shares related documents with original")
	}
}

func TestEnumValid(t *testing.T) {
	if !DeptCustomerSupport.Valid() {
		t.Error("Customer Support should be valid")
	}
	if Department("Janitorial").Valid() {
		t.Error("unknown department reported valid")
	}
	if !StatusRecentlyUpdated.Valid() {
		t.Error("recently-updated should be valid")
	}
	if Status("stale").Valid() {
		t.Error("unknown status reported valid")
	}
}

func TestFromNode(t *testing.T) {
	n := Node{
		ID:         "sales-pricing",
		Title:      "Pricing",
		Department: DeptSales,
		Tags:       []string{"pricing"},
		Analytics:  Analytics{Views: 200, Helpfulness: 80},
		RelatedDocuments: []RelatedDocument{
			{ID: "sales-playbook", Title: "Playbook", Similarity: 75},
		},
	}
	item := FromNode(n)

	if item.HelpfulCount != 160 || item.NotHelpfulCount != 40 {
		t.Errorf("votes = %d/%d, want 160/40", item.HelpfulCount, item.NotHelpfulCount)
	}
	if item.Views != 200 {
		t.Errorf("Views = %d, want 200", item.Views)
	}
	if len(item.RelatedDocuments) != 1 || item.RelatedDocuments[0].Similarity != 0.75 {
		t.Errorf("RelatedDocuments = %+v", item.RelatedDocuments)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2024-03-01T10:00:00Z", want: "2024-03-01"},
		{in: "2024-03-01", want: "2024-03-01"},
		{in: "Mar 1, 2024", want: "2024-03-01"},
		{in: "March 1, 2024", want: "2024-03-01"},
		{in: " 3/1/2024 ", want: "2024-03-01"},
		{in: "yesterday", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDate(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) error = %v", tt.in, err)
			}
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.in, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}
