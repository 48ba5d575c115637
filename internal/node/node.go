// Package node defines the core domain types for knowledge-base articles.
package node

import (
	"errors"
	"fmt"
	"math"
)

// Department is the owning organizational unit of an article.
type Department string

// Known departments.
const (
	DeptHR              Department = "HR"
	DeptSupport         Department = "Support"
	DeptIT              Department = "IT"
	DeptSales           Department = "Sales"
	DeptMarketing       Department = "Marketing"
	DeptEngineering     Department = "Engineering"
	DeptProduct         Department = "Product"
	DeptCustomerSupport Department = "Customer Support"
	DeptFinance         Department = "Finance"
	DeptLegal           Department = "Legal"
	DeptOperations      Department = "Operations"
	DeptResearch        Department = "Research"
)

// Departments lists every known department in display order.
var Departments = []Department{
	DeptHR, DeptSupport, DeptIT, DeptSales, DeptMarketing, DeptEngineering,
	DeptProduct, DeptCustomerSupport, DeptFinance, DeptLegal, DeptOperations, DeptResearch,
}

// Valid reports whether d is one of the known departments.
func (d Department) Valid() bool {
	for _, known := range Departments {
		if d == known {
			return true
		}
	}
	return false
}

// Status is the lifecycle or performance state of an article.
type Status string

// Known statuses.
const (
	StatusDraft           Status = "draft"
	StatusPublished       Status = "published"
	StatusArchived        Status = "archived"
	StatusReview          Status = "review"
	StatusOutdated        Status = "outdated"
	StatusCurrent         Status = "current"
	StatusHighPerforming  Status = "high-performing"
	StatusRecentlyUpdated Status = "recently-updated"
	StatusLowPerforming   Status = "low-performing"
)

// Statuses lists every known status.
var Statuses = []Status{
	StatusDraft, StatusPublished, StatusArchived, StatusReview, StatusOutdated,
	StatusCurrent, StatusHighPerforming, StatusRecentlyUpdated, StatusLowPerforming,
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Analytics holds the engagement and quality scores of an article.
// All scores except Views are percentages in [0, 100].
type Analytics struct {
	Views           int `json:"views"`
	Helpfulness     int `json:"helpfulness"`
	SearchRelevance int `json:"search_relevance"`
	Freshness       int `json:"freshness"`
	Completeness    int `json:"completeness"`
	Accuracy        int `json:"accuracy"`
}

// RelatedDocument is a directed similarity reference from one article to another.
// It is not required to be reciprocal.
type RelatedDocument struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Department  Department `json:"department,omitempty"`
	Similarity  float64    `json:"similarity"` // 0..100
}

// Node is a single knowledge-base article.
type Node struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	Department  Department `json:"department"`
	Status      Status     `json:"status"`
	CreatedAt   string     `json:"created_at,omitempty"`
	UpdatedAt   string     `json:"updated_at,omitempty"`
	Author      string     `json:"author"`
	Tags        []string   `json:"tags"`
	Size        float64    `json:"size"` // visual radius hint

	RelatedDocuments []RelatedDocument `json:"related_documents,omitempty"`
	Analytics        Analytics         `json:"analytics"`
}

// DefaultRadius is used when a node has no positive size.
const DefaultRadius = 20

// Validation errors.
var (
	ErrEmptyID       = errors.New("id is required")
	ErrEmptyTitle    = errors.New("title is required")
	ErrNegativeViews = errors.New("analytics.views cannot be negative")
	ErrScoreRange    = errors.New("analytics score must be between 0 and 100")
	ErrSimilarity    = errors.New("related document similarity must be between 0 and 100")
)

// Validate checks the structural invariants of a node.
// Unknown departments and statuses are accepted; renderers fall back to neutral styles.
func (n *Node) Validate() error {
	if n.ID == "" {
		return ErrEmptyID
	}
	if n.Title == "" {
		return ErrEmptyTitle
	}
	for _, r := range n.RelatedDocuments {
		if !(r.Similarity >= 0 && r.Similarity <= 100) {
			return fmt.Errorf("%w: %s -> %s = %v", ErrSimilarity, n.ID, r.ID, r.Similarity)
		}
	}
	return n.Analytics.Validate()
}

// Validate checks that all analytics scores are in range.
func (a Analytics) Validate() error {
	if a.Views < 0 {
		return ErrNegativeViews
	}
	scores := map[string]int{
		"helpfulness":      a.Helpfulness,
		"search_relevance": a.SearchRelevance,
		"freshness":        a.Freshness,
		"completeness":     a.Completeness,
		"accuracy":         a.Accuracy,
	}
	for name, v := range scores {
		if v < 0 || v > 100 {
			return fmt.Errorf("%w: %s=%d", ErrScoreRange, name, v)
		}
	}
	return nil
}

// Radius returns the node's visual radius, defaulting when size is unset.
func (n *Node) Radius() float64 {
	if n.Size <= 0 {
		return DefaultRadius
	}
	return n.Size
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	c := n
	if n.Tags != nil {
		c.Tags = append([]string(nil), n.Tags...)
	}
	if n.RelatedDocuments != nil {
		c.RelatedDocuments = append([]RelatedDocument(nil), n.RelatedDocuments...)
	}
	return c
}

// CloneAll deep-copies a slice of nodes.
func CloneAll(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

// DuplicateID returns the first id that appears more than once in nodes,
// or "" when all ids are unique.
func DuplicateID(nodes []Node) string {
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if seen[n.ID] {
			return n.ID
		}
		seen[n.ID] = true
	}
	return ""
}

// IndexByID builds an id lookup over nodes.
func IndexByID(nodes []Node) map[string]*Node {
	idx := make(map[string]*Node, len(nodes))
	for i := range nodes {
		idx[nodes[i].ID] = &nodes[i]
	}
	return idx
}

// KnowledgeItem is the comparison-oriented record of an article, carrying raw
// helpful / not-helpful vote counts instead of a precomputed percentage.
type KnowledgeItem struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Department       Department    `json:"department"`
	Status           Status        `json:"status"`
	Author           string        `json:"author"`
	CreatedAt        string        `json:"created_at"`
	UpdatedAt        string        `json:"updated_at"`
	Content          string        `json:"content"`
	Tags             []string      `json:"tags"`
	Views            int           `json:"views"`
	HelpfulCount     int           `json:"helpful_count"`
	NotHelpfulCount  int           `json:"not_helpful_count"`
	RelatedDocuments []RelatedItem `json:"related_documents,omitempty"`
}

// RelatedItem is a lightweight related-document reference on a KnowledgeItem.
// Similarity is a fraction in [0.5, 1].
type RelatedItem struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
}

// FromNode converts an article to a KnowledgeItem. Vote counts are derived
// from the helpfulness percentage applied to views.
func FromNode(n Node) KnowledgeItem {
	helpful := int(math.Round(float64(n.Analytics.Views) * float64(n.Analytics.Helpfulness) / 100))
	item := KnowledgeItem{
		ID:              n.ID,
		Title:           n.Title,
		Department:      n.Department,
		Status:          n.Status,
		Author:          n.Author,
		CreatedAt:       n.CreatedAt,
		UpdatedAt:       n.UpdatedAt,
		Content:         n.Content,
		Tags:            append([]string(nil), n.Tags...),
		Views:           n.Analytics.Views,
		HelpfulCount:    helpful,
		NotHelpfulCount: n.Analytics.Views - helpful,
	}
	for _, rd := range n.RelatedDocuments {
		item.RelatedDocuments = append(item.RelatedDocuments, RelatedItem{
			ID:         rd.ID,
			Title:      rd.Title,
			Similarity: rd.Similarity / 100,
		})
	}
	return item
}
