// Package edge defines the core domain types for knowledge graph links.
package edge

import (
	"errors"
)

// LinkType classifies how two articles are connected.
type LinkType string

// Known link types.
const (
	TypeDepartment      LinkType = "department"
	TypeRelated         LinkType = "related"
	TypeCrossDepartment LinkType = "cross-department"
)

// Link is an undirected connection between two articles.
type Link struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Value  float64  `json:"value"` // strength, > 0
	Type   LinkType `json:"type"`
}

// Validation errors.
var (
	ErrEmptySource   = errors.New("source is required")
	ErrEmptyTarget   = errors.New("target is required")
	ErrSelfLink      = errors.New("source and target cannot be the same")
	ErrNonPositive   = errors.New("value must be positive")
	ErrEmptyLinkType = errors.New("type is required")
)

// Validate checks a link's structural invariants.
func (l *Link) Validate() error {
	if l.Source == "" {
		return ErrEmptySource
	}
	if l.Target == "" {
		return ErrEmptyTarget
	}
	if l.Source == l.Target {
		return ErrSelfLink
	}
	if l.Value <= 0 {
		return ErrNonPositive
	}
	if l.Type == "" {
		return ErrEmptyLinkType
	}
	return nil
}

// Key returns the unordered endpoint pair identifying this link.
func (l *Link) Key() Key {
	if l.Source < l.Target {
		return Key{A: l.Source, B: l.Target}
	}
	return Key{A: l.Target, B: l.Source}
}

// Key is the direction-independent identity of a link.
type Key struct {
	A string
	B string
}

// DanglingLinkInfo describes a link with one or both endpoints missing.
type DanglingLinkInfo struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Type   LinkType `json:"type"`
	Reason string   `json:"reason"` // "missing_source", "missing_target", or "missing_both"
}

// DetectDanglingLinks splits links into those whose endpoints are both in
// validIDs and those that reference missing articles.
func DetectDanglingLinks(links []Link, validIDs map[string]bool) (dangling []DanglingLinkInfo, valid []Link) {
	for _, l := range links {
		sourceOK := validIDs[l.Source]
		targetOK := validIDs[l.Target]

		if sourceOK && targetOK {
			valid = append(valid, l)
			continue
		}
		info := DanglingLinkInfo{Source: l.Source, Target: l.Target, Type: l.Type}
		switch {
		case !sourceOK && !targetOK:
			info.Reason = "missing_both"
		case !sourceOK:
			info.Reason = "missing_source"
		default:
			info.Reason = "missing_target"
		}
		dangling = append(dangling, info)
	}
	return dangling, valid
}

// Set tracks which unordered endpoint pairs are already linked.
type Set map[Key]bool

// Has reports whether a link between a and b, in either direction, exists.
func (s Set) Has(a, b string) bool {
	l := Link{Source: a, Target: b}
	return s[l.Key()]
}

// Add records a link.
func (s Set) Add(l Link) {
	s[l.Key()] = true
}
