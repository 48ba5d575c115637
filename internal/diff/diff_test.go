package diff

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsen/kbm/internal/node"
)

func TestWords_Basic(t *testing.T) {
	got := Words("the quick fox", "the slow fox")
	assert.Equal(t, []Span{
		{Value: "the "},
		{Value: "quick", Removed: true},
		{Value: "slow", Added: true},
		{Value: " fox"},
	}, got)
}

func TestWords_EdgeCases(t *testing.T) {
	assert.Equal(t, []Span{{Value: ""}}, Words("", ""))
	assert.Equal(t, []Span{{Value: "same text."}}, Words("same text.", "same text."))
	assert.Equal(t, []Span{{Value: "new", Added: true}}, Words("", "new"))
	assert.Equal(t, []Span{{Value: "old", Removed: true}}, Words("old", ""))
}

func TestWords_RoundTrip(t *testing.T) {
	vocab := []string{"alpha", "beta", "gamma", " ", "  ", "\n", ",", ".", "déjà", "vu", "42", "-", "'"}
	rng := rand.New(rand.NewSource(9))
	gen := func() string {
		var b strings.Builder
		for i := rng.Intn(40); i > 0; i-- {
			b.WriteString(vocab[rng.Intn(len(vocab))])
		}
		return b.String()
	}
	for i := 0; i < 200; i++ {
		a, b := gen(), gen()
		spans := Words(a, b)
		require.Equal(t, a, Source(spans), "source of %q -> %q", a, b)
		require.Equal(t, b, Target(spans), "target of %q -> %q", a, b)
		for j := 1; j < len(spans); j++ {
			prev, cur := spans[j-1], spans[j]
			assert.False(t, prev.Added == cur.Added && prev.Removed == cur.Removed, "adjacent spans of the same kind")
		}
		if a == "" && b == "" {
			continue
		}
		for _, s := range spans {
			assert.False(t, s.Added && s.Removed)
			assert.NotEmpty(t, s.Value)
		}
	}
}

func TestWords_RoundTripInvalidUTF8(t *testing.T) {
	tests := []struct{ a, b string }{
		{"caf\xff bar", "caf\xff baz"},
		{"\xff\xfe", "\xfe"},
		{"ok \xc3", "ok \xc3\xa9"},
		{"déjà\x80vu", "deja\x80vu"},
	}
	for _, tt := range tests {
		spans := Words(tt.a, tt.b)
		assert.Equal(t, tt.a, Source(spans), "source of %q -> %q", tt.a, tt.b)
		assert.Equal(t, tt.b, Target(spans), "target of %q -> %q", tt.a, tt.b)
	}
}

func TestWords_Identity(t *testing.T) {
	for _, s := range []string{"", "x", "Employee onboarding, step 1.", "  spaced  out  ", "caf\xff"} {
		spans := Words(s, s)
		require.Len(t, spans, 1)
		assert.True(t, spans[0].Unchanged())
		assert.Equal(t, s, spans[0].Value)
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"Hello", ",", " ", "world", "!", "!"}, Tokenize("Hello, world!!"))
	assert.Equal(t, []string{"snake_case", "  ", "v2"}, Tokenize("snake_case  v2"))
	assert.Empty(t, Tokenize(""))
	assert.Equal(t, []string{"caf", "\xff", " ", "bar"}, Tokenize("caf\xff bar"))
	assert.Equal(t, []string{"déjà", "\x80", "vu"}, Tokenize("déjà\x80vu"))
}

func TestStatsAndRecommend(t *testing.T) {
	spans := make([]Span, 0, 21)
	for i := 0; i < 10; i++ {
		spans = append(spans, Span{Value: "x"}, Span{Value: "y", Added: i%2 == 0, Removed: i%2 == 1})
	}
	st := Stats(spans)
	assert.Equal(t, SpanStats{Added: 5, Removed: 5, Unchanged: 10}, st)
	assert.Equal(t, RecommendCrossReference, Recommend(spans))

	spans = append(spans, Span{Value: "z", Added: true})
	assert.Equal(t, RecommendMerge, Recommend(spans))
}

func TestHelpfulnessPct(t *testing.T) {
	assert.Equal(t, 0.0, HelpfulnessPct(0, 0))
	assert.Equal(t, 80.0, HelpfulnessPct(8, 2))
	assert.Equal(t, 100.0, HelpfulnessPct(3, 0))
}

func TestDayDiff(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2024-01-01", "2024-01-11", 10},
		{"2024-01-11", "2024-01-01", 10},
		{"2024-01-01T00:00:00Z", "2024-01-02T01:00:00Z", 2},
		{"Jan 1, 2024", "March 1, 2024", 60},
		{"2024-05-05", "2024-05-05", 0},
	}
	for _, tt := range tests {
		got, err := DayDiff(tt.a, tt.b)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s -> %s", tt.a, tt.b)
	}

	_, err := DayDiff("not a date", "2024-01-01")
	assert.Error(t, err)
}

func TestTagSets(t *testing.T) {
	td := TagSets([]string{"hr", "onboarding", "policy"}, []string{"policy", "benefits", "hr"})
	assert.Equal(t, []string{"hr", "policy"}, td.Common)
	assert.Equal(t, []string{"onboarding"}, td.OnlyA)
	assert.Equal(t, []string{"benefits"}, td.OnlyB)
	assert.Equal(t, []string{"hr", "onboarding", "policy", "benefits"}, td.Union)

	empty := TagSets(nil, nil)
	assert.Empty(t, empty.Common)
	assert.NotNil(t, empty.Union)
}

func comparisonItems() (node.KnowledgeItem, node.KnowledgeItem) {
	a := node.KnowledgeItem{
		ID: "hr-onboarding", Title: "Employee Onboarding Process",
		CreatedAt: "2024-01-01", UpdatedAt: "2024-03-01",
		Content: "New hires complete paperwork on day one.",
		Tags:    []string{"hr", "onboarding"},
		Views:   842, HelpfulCount: 80, NotHelpfulCount: 20,
		RelatedDocuments: []node.RelatedItem{{ID: "x", Similarity: 0.7}},
	}
	b := node.KnowledgeItem{
		ID: "hr-onboarding-v2", Title: "Onboarding Checklist",
		CreatedAt: "2024-01-05", UpdatedAt: "2024-02-20",
		Content: "New hires complete paperwork and training on day one.",
		Tags:    []string{"hr", "checklist"},
		Views:   756, HelpfulCount: 9, NotHelpfulCount: 1,
	}
	return a, b
}

func TestCompare_Deltas(t *testing.T) {
	a, b := comparisonItems()
	now := time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC)
	c := CompareAt(a, b, now)

	assert.Equal(t, -86, c.ViewsDiff)
	assert.Equal(t, 80.0, c.HelpfulnessA)
	assert.Equal(t, 90.0, c.HelpfulnessB)
	assert.InDelta(t, 10.0, c.HelpfulnessDiff, 1e-9)
	require.NotNil(t, c.CreatedDays)
	assert.Equal(t, 4, *c.CreatedDays)
	require.NotNil(t, c.UpdatedDays)
	assert.Equal(t, 10, *c.UpdatedDays)
	require.NotNil(t, c.AgeDaysA)
	assert.Equal(t, 10, *c.AgeDaysA)

	assert.Equal(t, 1, c.MoreViewed)
	assert.Equal(t, 2, c.MoreHelpful)
	// 756*90 beats 842*80
	assert.Equal(t, "Onboarding Checklist", c.PerformanceWinner)

	assert.Equal(t, a.Content, Source(c.Spans))
	assert.Equal(t, b.Content, Target(c.Spans))
	assert.Equal(t, RecommendCrossReference, c.Recommendation)
	assert.Equal(t, "Use Article 1 as the base and incorporate the unique content from Article 2", c.ContentStrategy)
	assert.Equal(t, []string{
		"Article 2 contains more detailed information that should be preserved in the final version",
		"Combine all tags for better search visibility and categorization",
		"Consolidate related documents from both articles to provide more comprehensive references",
	}, c.Suggestions)
	assert.Contains(t, c.Summary(), "Article 1 has higher engagement with 842 views compared to 756 views.")
	assert.Contains(t, c.Summary(), "Article 2 is rated more helpful")
}

func TestCompare_BadDatesAndNoVotes(t *testing.T) {
	a := node.KnowledgeItem{Title: "A", CreatedAt: "??", Content: "x"}
	b := node.KnowledgeItem{Title: "B", CreatedAt: "2024-01-01", Content: "x"}
	c := CompareAt(a, b, time.Now())
	assert.Nil(t, c.CreatedDays)
	assert.Nil(t, c.AgeDaysA)
	assert.Zero(t, c.HelpfulnessDiff)
	assert.Zero(t, c.MoreHelpful)
	assert.Equal(t, "B", c.PerformanceWinner)
	assert.NotContains(t, c.Summary(), "helpful")
}

func TestRenderHTML(t *testing.T) {
	out := RenderHTML([]Span{{Value: "keep <b>"}, {Value: "old", Removed: true}, {Value: "new & shiny", Added: true}})
	assert.True(t, strings.HasPrefix(out, "keep &lt;b&gt;"))
	assert.Contains(t, out, `class="diff-removed"`)
	assert.Contains(t, out, "line-through")
	assert.Contains(t, out, `class="diff-added"`)
	assert.Contains(t, out, "new &amp; shiny")
}

func TestRenderANSI_NoColor(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	out := RenderANSI(Words("the quick fox", "the slow fox"))
	assert.Equal(t, "the [-quick-]{+slow+} fox", out)
}
