package corpus

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/matsen/kbm/internal/duplicate"
	"github.com/matsen/kbm/internal/node"
	"github.com/matsen/kbm/internal/storage"
)

//go:embed seed/*.jsonl
var seedFS embed.FS

// DisplayDateLayout is the short date format used on articles.
const DisplayDateLayout = "Jan 2, 2006"

// DefaultItemCount is the number of generated knowledge items.
const DefaultItemCount = 150

// itemDuplicateCount is how many generated items get a detected near-copy.
const itemDuplicateCount = 15

// MockProvider builds a demonstration corpus from the embedded seed articles
// plus generated dates, links and knowledge items. The same Seed and Now
// always produce the same corpus.
type MockProvider struct {
	Seed      int64
	Now       time.Time // zero means time.Now()
	ItemCount int       // zero means DefaultItemCount; negative disables items
}

// Load implements Provider.
func (p MockProvider) Load(ctx context.Context) (*Corpus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := p.Now
	if now.IsZero() {
		now = time.Now()
	}
	rng := rand.New(rand.NewSource(p.Seed))

	nodes, err := readSeedNodes()
	if err != nil {
		return nil, err
	}
	for i := range nodes {
		created, updated := randomDate(rng, now), randomDate(rng, now)
		if updated.Before(created) {
			created, updated = updated, created
		}
		nodes[i].CreatedAt = created.Format(DisplayDateLayout)
		nodes[i].UpdatedAt = updated.Format(DisplayDateLayout)
	}

	crossLinks, err := storage.DecodeLinks(mustOpenSeed(seedLinksPath))
	if err != nil {
		return nil, fmt.Errorf("decoding seed links: %w", err)
	}
	records, err := storage.DecodeDuplicates(mustOpenSeed(seedDuplicatesPath))
	if err != nil {
		return nil, fmt.Errorf("decoding seed duplicates: %w", err)
	}
	pairs, err := duplicate.Resolve(records, node.IndexByID(nodes))
	if err != nil {
		return nil, fmt.Errorf("resolving seed duplicates: %w", err)
	}

	c := &Corpus{
		Nodes:    nodes,
		Links:    BuildLinks(nodes, crossLinks),
		Pairs:    pairs,
		Source:   fmt.Sprintf("mock:seed=%d", p.Seed),
		LoadedAt: now,
	}

	count := p.ItemCount
	if count == 0 {
		count = DefaultItemCount
	}
	if count > 0 {
		c.Items = generateItems(rng, now, count)
		c.ItemDuplicates = generateItemDuplicates(rng, now, c.Items)
	}
	c.index()
	return c, nil
}

const (
	seedNodesPath      = "seed/nodes.jsonl"
	seedLinksPath      = "seed/links.jsonl"
	seedDuplicatesPath = "seed/duplicates.jsonl"
)

func mustOpenSeed(path string) *bytes.Reader {
	data, err := seedFS.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("embedded seed %s missing: %v", path, err))
	}
	return bytes.NewReader(data)
}

func readSeedNodes() ([]node.Node, error) {
	nodes, err := storage.DecodeNodes(mustOpenSeed(seedNodesPath))
	if err != nil {
		return nil, fmt.Errorf("decoding seed nodes: %w", err)
	}
	return nodes, nil
}

// randomDate picks a moment uniformly within the year before now.
func randomDate(rng *rand.Rand, now time.Time) time.Time {
	pastYear := now.AddDate(-1, 0, 0)
	span := now.Sub(pastYear)
	return pastYear.Add(time.Duration(rng.Int63n(int64(span))))
}

var itemDepartments = []node.Department{
	node.DeptEngineering, node.DeptProduct, node.DeptMarketing, node.DeptSales,
	node.DeptCustomerSupport, node.DeptHR, node.DeptFinance, node.DeptLegal,
	node.DeptOperations, node.DeptResearch,
}

var itemStatuses = []node.Status{node.StatusDraft, node.StatusPublished, node.StatusArchived, node.StatusReview}

// Topics are the subjects generated items are written about.
var Topics = []string{
	"API Documentation", "User Onboarding", "Pricing Strategy", "Security Protocols",
	"Data Privacy", "Performance Optimization", "Customer Feedback", "Product Roadmap",
	"Market Analysis", "Competitor Research", "Employee Benefits", "Hiring Process",
	"Financial Reporting", "Legal Compliance", "Infrastructure Setup", "Disaster Recovery",
	"Brand Guidelines", "Social Media Strategy", "Sales Techniques", "Customer Retention",
	"Product Features", "Technical Specifications", "User Interface Design",
	"User Experience Research", "Mobile Development", "Web Development",
	"Database Management", "Cloud Infrastructure", "Machine Learning Models",
	"Analytics Implementation", "Regulatory Requirements", "Internal Policies",
	"Training Materials", "Troubleshooting Guides", "Release Notes", "Integration Guides",
	"Partner Programs", "Affiliate Marketing", "Email Campaigns", "Content Strategy",
	"SEO Optimization", "PPC Advertising", "Event Planning", "Community Management",
	"Customer Success Stories", "Product Demos", "Technical Support", "Account Management",
	"Billing Procedures", "Tax Compliance",
}

var itemAuthors = []string{
	"Alex Johnson", "Sam Smith", "Jordan Lee", "Taylor Wong", "Casey Martinez",
	"Morgan Patel", "Jamie Garcia", "Riley Thompson", "Quinn Wilson", "Avery Rodriguez",
	"Dakota Chen", "Reese Nguyen", "Jordan Kim", "Cameron Davis", "Skyler Brown",
}

func generateItems(rng *rand.Rand, now time.Time, count int) []node.KnowledgeItem {
	items := make([]node.KnowledgeItem, 0, count)
	for i := 0; i < count; i++ {
		dept := itemDepartments[rng.Intn(len(itemDepartments))]
		topic := Topics[rng.Intn(len(Topics))]
		status := itemStatuses[rng.Intn(len(itemStatuses))]
		author := itemAuthors[rng.Intn(len(itemAuthors))]

		created := now.AddDate(0, 0, -rng.Intn(365))
		updated := created.AddDate(0, 0, rng.Intn(30))

		views := rng.Intn(10000)
		helpful := randBelow(rng, float64(views)*0.3)
		notHelpful := randBelow(rng, float64(views)*0.1)

		tags := []string{
			strings.ToLower(strings.Fields(topic)[0]),
			strings.ToLower(string(dept)),
		}
		if rng.Float64() > 0.5 {
			tags = append(tags, "important")
		} else {
			tags = append(tags, "reference")
		}
		if rng.Float64() > 0.7 {
			tags = append(tags, "featured")
		}

		items = append(items, node.KnowledgeItem{
			ID:              fmt.Sprintf("doc-%d", i+1),
			Title:           fmt.Sprintf("%s %d", topic, i+1),
			Department:      dept,
			Status:          status,
			Author:          author,
			CreatedAt:       created.UTC().Format(time.RFC3339),
			UpdatedAt:       updated.UTC().Format(time.RFC3339),
			Content:         fmt.Sprintf("This is a detailed document about %s. It contains comprehensive information that is useful for the %s department.", topic, dept),
			Tags:            tags,
			Views:           views,
			HelpfulCount:    helpful,
			NotHelpfulCount: notHelpful,
		})
	}

	if count < 2 {
		return items
	}
	for i := range items {
		want := 3 + rng.Intn(8)
		if want > count-1 {
			want = count - 1
		}
		picked := make(map[int]bool, want)
		var related []node.RelatedItem
		for len(related) < want {
			j := rng.Intn(count)
			if j == i || picked[j] {
				continue
			}
			picked[j] = true
			related = append(related, node.RelatedItem{
				ID:         items[j].ID,
				Title:      items[j].Title,
				Similarity: math.Round((0.5+rng.Float64()*0.5)*100) / 100,
			})
		}
		items[i].RelatedDocuments = related
	}
	return items
}

// randBelow returns a random int in [0, limit), or 0 when limit <= 0.
func randBelow(rng *rand.Rand, limit float64) int {
	if limit <= 0 {
		return 0
	}
	return int(rng.Float64() * limit)
}

// generateItemDuplicates pairs the first items with near-copies of later ones.
// Every third copy gets deliberately altered content.
func generateItemDuplicates(rng *rand.Rand, now time.Time, items []node.KnowledgeItem) []ItemDuplicate {
	var dups []ItemDuplicate
	for i := 0; i < itemDuplicateCount && itemDuplicateCount+i < len(items); i++ {
		src := items[itemDuplicateCount+i]
		d := src
		d.ID = fmt.Sprintf("dup-%d", i)
		d.Tags = append([]string(nil), src.Tags...)
		d.RelatedDocuments = append([]node.RelatedItem(nil), src.RelatedDocuments...)

		head := src.Content
		if len(head) > 20 {
			head = head[:20]
		}
		if i%3 == 0 {
			d.Content = head + " This is slightly different content to create a partial match."
		} else {
			d.Content = src.Content
		}

		dups = append(dups, ItemDuplicate{
			Original:   items[i],
			Duplicate:  d,
			Similarity: math.Round((0.7+rng.Float64()*0.3)*100) / 100,
			DetectedAt: now.UTC().Format(time.RFC3339),
		})
	}
	return dups
}
