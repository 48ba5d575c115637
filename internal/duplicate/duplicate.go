// Package duplicate implements the duplicate-pair review workflow.
package duplicate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matsen/kbm/internal/node"
)

// Status is the review outcome of a duplicate pair.
type Status string

// Review statuses.
const (
	StatusPending      Status = "pending"
	StatusMerged       Status = "merged"
	StatusKeptSeparate Status = "kept-separate"
	StatusFlagged      Status = "flagged"
)

// Statuses lists the valid review statuses.
var Statuses = []Status{StatusPending, StatusMerged, StatusKeptSeparate, StatusFlagged}

// Valid reports whether s is a known review status.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Label returns the display label for a review status.
// Unknown statuses are shown as their raw value.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending Review"
	case StatusMerged:
		return "Merged"
	case StatusKeptSeparate:
		return "Kept Separate"
	case StatusFlagged:
		return "Flagged for Review"
	default:
		return string(s)
	}
}

// Pair is a suspected duplicate relationship between two articles.
type Pair struct {
	ID         string    `json:"id"`
	Source     node.Node `json:"source"`
	Target     node.Node `json:"target"`
	Similarity float64   `json:"similarity"` // 0..100
	Status     Status    `json:"status"`
}

// Record is the on-disk form of a pair, referencing articles by id.
type Record struct {
	ID         string  `json:"id"`
	SourceID   string  `json:"source_id"`
	TargetID   string  `json:"target_id"`
	Similarity float64 `json:"similarity"`
	Status     Status  `json:"status"`
}

// Errors returned by the review workflow.
var (
	ErrEmptyPairID    = errors.New("pair id is required")
	ErrPairNotFound   = errors.New("duplicate pair not found")
	ErrInvalidStatus  = errors.New("invalid review status")
	ErrMissingArticle = errors.New("duplicate pair references a missing article")
	ErrSimilarity     = errors.New("pair similarity must be between 0 and 100")
)

// Resolve turns records into pairs using the given article index.
func Resolve(records []Record, byID map[string]*node.Node) ([]Pair, error) {
	pairs := make([]Pair, 0, len(records))
	for _, r := range records {
		if r.ID == "" {
			return nil, ErrEmptyPairID
		}
		src, ok := byID[r.SourceID]
		if !ok {
			return nil, fmt.Errorf("%w: pair %s source %s", ErrMissingArticle, r.ID, r.SourceID)
		}
		tgt, ok := byID[r.TargetID]
		if !ok {
			return nil, fmt.Errorf("%w: pair %s target %s", ErrMissingArticle, r.ID, r.TargetID)
		}
		status := r.Status
		if status == "" {
			status = StatusPending
		}
		pairs = append(pairs, Pair{
			ID:         r.ID,
			Source:     src.Clone(),
			Target:     tgt.Clone(),
			Similarity: r.Similarity,
			Status:     status,
		})
	}
	return pairs, nil
}

// Level is a coarse similarity grade used for color-coding.
type Level string

// Similarity levels.
const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

// SimilarityLevel grades a similarity for display: >= 85 high, >= 75 medium.
func SimilarityLevel(similarity float64) Level {
	switch {
	case similarity >= 85:
		return LevelHigh
	case similarity >= 75:
		return LevelMedium
	default:
		return LevelLow
	}
}

// LevelColor returns the badge color of a similarity level.
func LevelColor(l Level) string {
	switch l {
	case LevelHigh:
		return "#ef4444"
	case LevelMedium:
		return "#f59e0b"
	default:
		return "#10b981"
	}
}

// Band is a similarity range used when filtering the pair list.
type Band string

// Filter bands. These use a different cut-off (90) than SimilarityLevel.
const (
	BandAll    Band = "all"
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// Contains reports whether a similarity falls into the band.
func (b Band) Contains(similarity float64) bool {
	switch b {
	case "", BandAll:
		return true
	case BandHigh:
		return similarity >= 90
	case BandMedium:
		return similarity >= 75 && similarity < 90
	case BandLow:
		return similarity < 75
	default:
		return false
	}
}

// Filter narrows the pair list.
type Filter struct {
	SearchQuery string `json:"search_query,omitempty"`
	Status      string `json:"status,omitempty"` // "all" or a Status
	Similarity  Band   `json:"similarity,omitempty"`
}

// Apply returns the pairs matching f, evaluating status through w.
// A nil workflow uses each pair's base status.
func (f Filter) Apply(pairs []Pair, w *Workflow) []Pair {
	query := strings.ToLower(f.SearchQuery)
	out := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Source.Title), query) &&
			!strings.Contains(strings.ToLower(p.Target.Title), query) {
			continue
		}
		status := p.Status
		if w != nil {
			status = w.Status(p)
		}
		if f.Status != "" && f.Status != "all" && string(status) != f.Status {
			continue
		}
		if !f.Similarity.Contains(p.Similarity) {
			continue
		}
		out = append(out, p)
	}
	return out
}
