package diff

import (
	"fmt"
	"math"
	"time"

	"github.com/matsen/kbm/internal/node"
)

// MergeThreshold is the number of changed spans above which merging is advised.
const MergeThreshold = 10

// Recommendation is the advised action for a pair of similar articles.
type Recommendation string

// Recommendations.
const (
	RecommendMerge          Recommendation = "Merge these articles into a new comprehensive document"
	RecommendCrossReference Recommendation = "Keep as separate documents but cross-reference them"
)

// Recommend advises merging when more than MergeThreshold spans changed.
func Recommend(spans []Span) Recommendation {
	if Stats(spans).Changed() > MergeThreshold {
		return RecommendMerge
	}
	return RecommendCrossReference
}

// DayDiff is the whole number of days between two dates, rounded up.
func DayDiff(d1, d2 string) (int, error) {
	t1, err := node.ParseDate(d1)
	if err != nil {
		return 0, err
	}
	t2, err := node.ParseDate(d2)
	if err != nil {
		return 0, err
	}
	d := t2.Sub(t1)
	if d < 0 {
		d = -d
	}
	return int(math.Ceil(d.Hours() / 24)), nil
}

// TagDiff splits two tag lists. Input order is preserved.
type TagDiff struct {
	Common []string `json:"common"`
	OnlyA  []string `json:"only_a"`
	OnlyB  []string `json:"only_b"`
	Union  []string `json:"union"`
}

// TagSets computes the common, unique and combined tags of a and b.
func TagSets(a, b []string) TagDiff {
	inA := make(map[string]bool, len(a))
	for _, t := range a {
		inA[t] = true
	}
	inB := make(map[string]bool, len(b))
	for _, t := range b {
		inB[t] = true
	}

	td := TagDiff{Common: []string{}, OnlyA: []string{}, OnlyB: []string{}, Union: []string{}}
	for _, t := range a {
		if inB[t] {
			td.Common = append(td.Common, t)
		} else {
			td.OnlyA = append(td.OnlyA, t)
		}
	}
	for _, t := range b {
		if !inA[t] {
			td.OnlyB = append(td.OnlyB, t)
		}
	}
	seen := make(map[string]bool, len(a)+len(b))
	for _, t := range append(append([]string(nil), a...), b...) {
		if !seen[t] {
			seen[t] = true
			td.Union = append(td.Union, t)
		}
	}
	return td
}

// HelpfulnessPct is the helpful share of votes as a percentage.
// With no votes it is 0.
func HelpfulnessPct(helpful, notHelpful int) float64 {
	total := helpful + notHelpful
	if total == 0 {
		total = 1
	}
	return float64(helpful) / float64(total) * 100
}

// Comparison is the side-by-side analysis of article A against article B.
// Deltas are B minus A.
type Comparison struct {
	A node.KnowledgeItem `json:"a"`
	B node.KnowledgeItem `json:"b"`

	Spans []Span    `json:"spans"`
	Stats SpanStats `json:"stats"`

	// Day differences are nil when either date is unparseable.
	CreatedDays *int `json:"created_days,omitempty"`
	UpdatedDays *int `json:"updated_days,omitempty"`
	// Days since last update, relative to the comparison time.
	AgeDaysA *int `json:"age_days_a,omitempty"`
	AgeDaysB *int `json:"age_days_b,omitempty"`

	Tags TagDiff `json:"tags"`

	ViewsDiff       int     `json:"views_diff"`
	HelpfulnessA    float64 `json:"helpfulness_a"`
	HelpfulnessB    float64 `json:"helpfulness_b"`
	HelpfulnessDiff float64 `json:"helpfulness_diff"`

	// MoreViewed and MoreHelpful are 1 or 2; MoreHelpful is 0 on a tie.
	MoreViewed        int    `json:"more_viewed"`
	MoreHelpful       int    `json:"more_helpful"`
	PerformanceWinner string `json:"performance_winner"`

	Recommendation  Recommendation `json:"recommendation"`
	ContentStrategy string         `json:"content_strategy"`
	Suggestions     []string       `json:"suggestions"`
}

// Compare analyses a against b as of now.
func Compare(a, b node.KnowledgeItem) Comparison {
	return CompareAt(a, b, time.Now())
}

// CompareAt analyses a against b, measuring article age relative to now.
func CompareAt(a, b node.KnowledgeItem, now time.Time) Comparison {
	spans := Words(a.Content, b.Content)
	c := Comparison{
		A:            a,
		B:            b,
		Spans:        spans,
		Stats:        Stats(spans),
		Tags:         TagSets(a.Tags, b.Tags),
		ViewsDiff:    b.Views - a.Views,
		HelpfulnessA: HelpfulnessPct(a.HelpfulCount, a.NotHelpfulCount),
		HelpfulnessB: HelpfulnessPct(b.HelpfulCount, b.NotHelpfulCount),
	}
	c.HelpfulnessDiff = c.HelpfulnessB - c.HelpfulnessA

	if d, err := DayDiff(a.CreatedAt, b.CreatedAt); err == nil {
		c.CreatedDays = &d
	}
	if d, err := DayDiff(a.UpdatedAt, b.UpdatedAt); err == nil {
		c.UpdatedDays = &d
	}
	c.AgeDaysA = ageDays(a.UpdatedAt, now)
	c.AgeDaysB = ageDays(b.UpdatedAt, now)

	c.MoreViewed = 2
	if a.Views > b.Views {
		c.MoreViewed = 1
	}
	switch {
	case c.HelpfulnessDiff > 0:
		c.MoreHelpful = 2
	case c.HelpfulnessDiff < 0:
		c.MoreHelpful = 1
	}

	c.PerformanceWinner = b.Title
	if float64(a.Views)*c.HelpfulnessA > float64(b.Views)*c.HelpfulnessB {
		c.PerformanceWinner = a.Title
	}

	c.Recommendation = Recommend(spans)
	c.ContentStrategy = contentStrategy(c.MoreViewed)
	c.Suggestions = suggestions(c)
	return c
}

func ageDays(updated string, now time.Time) *int {
	t, err := node.ParseDate(updated)
	if err != nil {
		return nil
	}
	d := int(math.Floor(now.Sub(t).Hours() / 24))
	return &d
}

func contentStrategy(moreViewed int) string {
	other := 2
	if moreViewed == 2 {
		other = 1
	}
	return fmt.Sprintf("Use Article %d as the base and incorporate the unique content from Article %d", moreViewed, other)
}

func suggestions(c Comparison) []string {
	var out []string
	if c.Stats.Added > c.Stats.Removed {
		out = append(out, "Article 2 contains more detailed information that should be preserved in the final version")
	} else {
		out = append(out, "Article 1 contains more detailed information that should be preserved in the final version")
	}
	if len(c.Tags.OnlyA) > 0 || len(c.Tags.OnlyB) > 0 {
		out = append(out, "Combine all tags for better search visibility and categorization")
	} else {
		out = append(out, "Consider adding more specific tags to improve discoverability")
	}
	if len(c.A.RelatedDocuments) != len(c.B.RelatedDocuments) {
		out = append(out, "Consolidate related documents from both articles to provide more comprehensive references")
	} else {
		out = append(out, "Review related documents to ensure they're still relevant to the merged content")
	}
	return out
}

// Summary describes the engagement comparison in one sentence or two.
func (c Comparison) Summary() string {
	hi, lo := c.A.Views, c.B.Views
	if lo > hi {
		hi, lo = lo, hi
	}
	s := fmt.Sprintf("Based on the performance metrics, Article %d has higher engagement with %d views compared to %d views.",
		c.MoreViewed, hi, lo)
	if c.MoreHelpful != 0 {
		s += fmt.Sprintf(" In terms of helpfulness, Article %d is rated more helpful by users.", c.MoreHelpful)
	}
	return s
}
