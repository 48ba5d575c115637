package insights

import (
	"context"
	"math/rand"
	"sync"

	"github.com/matsen/kbm/internal/node"
)

// Impact is the expected effect of applying a suggestion.
type Impact string

// Impacts.
const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// Suggestion is an opaque improvement hint for an article.
type Suggestion struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Impact      Impact `json:"impact"`
}

// SuggestionProvider produces improvement hints for an article.
type SuggestionProvider interface {
	Suggest(ctx context.Context, n node.Node) ([]Suggestion, error)
}

// SuggestionCatalog is the placeholder pool RandomSuggestions draws from.
var SuggestionCatalog = []Suggestion{
	{Type: "content", Description: "Add more details about the latest security protocols in section 3.", Impact: ImpactHigh},
	{Type: "structure", Description: "Consider breaking the long paragraph in the introduction into bullet points for better readability.", Impact: ImpactMedium},
	{Type: "keywords", Description: "Add keywords related to 'remote access' to improve search visibility.", Impact: ImpactHigh},
	{Type: "visuals", Description: "Add a diagram illustrating the network configuration process.", Impact: ImpactMedium},
	{Type: "links", Description: "Add links to related documents on VPN setup and troubleshooting.", Impact: ImpactLow},
}

// DefaultSuggestionCount is how many hints RandomSuggestions returns.
const DefaultSuggestionCount = 3

// RandomSuggestions is a placeholder provider returning a random subset of
// SuggestionCatalog. It is safe for concurrent use.
type RandomSuggestions struct {
	Count int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSuggestions creates a provider seeded with seed.
func NewRandomSuggestions(seed int64) *RandomSuggestions {
	return &RandomSuggestions{Count: DefaultSuggestionCount, rng: rand.New(rand.NewSource(seed))}
}

// Suggest implements SuggestionProvider.
func (r *RandomSuggestions) Suggest(ctx context.Context, _ node.Node) ([]Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := append([]Suggestion(nil), SuggestionCatalog...)
	r.mu.Lock()
	r.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	r.mu.Unlock()

	n := r.Count
	if n <= 0 || n > len(out) {
		n = len(out)
	}
	return out[:n], nil
}
