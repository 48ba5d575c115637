package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/matsen/kbm/internal/corpus"
	"github.com/matsen/kbm/internal/diff"
	"github.com/matsen/kbm/internal/node"
)

func init() {
	rootCmd.AddCommand(compareCmd)
}

var compareCmd = &cobra.Command{
	Use:   "compare <id-a> <id-b>",
	Short: "Compare two articles word by word",
	Long: `Compare two articles: a word-level content diff, date and tag differences,
views and helpfulness, and a merge or cross-reference recommendation.

Ids may name articles or generated knowledge items (doc-N, dup-N).

Examples:
  kbm compare hr-onboarding hr-benefits --human
  kbm compare doc-15 dup-1`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func runCompare(cmd *cobra.Command, args []string) error {
	c := mustLoadCorpus(cmd.Context())
	a, b, err := lookupPair(c, args[0], args[1])
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	cmp := diff.Compare(a, b)
	if !humanOutput {
		return outputJSON(cmp)
	}

	outputHuman("%s %s\n", heading("Article 1:"), truncateString(a.Title, DetailTitleMaxLen))
	outputHuman("%s %s\n\n", heading("Article 2:"), truncateString(b.Title, DetailTitleMaxLen))
	outputHuman("%s\n\n", diff.RenderANSI(cmp.Spans))
	outputHuman("%s %d added, %d removed, %d unchanged spans\n",
		heading("Changes:"), cmp.Stats.Added, cmp.Stats.Removed, cmp.Stats.Unchanged)

	if cmp.CreatedDays != nil {
		outputHuman("%s created %d days apart", heading("Dates:"), *cmp.CreatedDays)
		if cmp.UpdatedDays != nil {
			outputHuman(", updated %d days apart", *cmp.UpdatedDays)
		}
		outputHuman("\n")
	}
	outputHuman("%s common [%s], only 1 [%s], only 2 [%s]\n", heading("Tags:"),
		strings.Join(cmp.Tags.Common, ", "), strings.Join(cmp.Tags.OnlyA, ", "), strings.Join(cmp.Tags.OnlyB, ", "))
	outputHuman("%s %s vs %s views (%+d), %.0f%% vs %.0f%% helpful (%+.0f)\n", heading("Performance:"),
		formatViews(a.Views), formatViews(b.Views), cmp.ViewsDiff,
		cmp.HelpfulnessA, cmp.HelpfulnessB, cmp.HelpfulnessDiff)
	outputHuman("%s\n\n", cmp.Summary())

	outputHuman("%s %s\n", heading("Recommendation:"), color.CyanString(string(cmp.Recommendation)))
	outputHuman("  %s\n", cmp.ContentStrategy)
	for _, s := range cmp.Suggestions {
		outputHuman("  - %s\n", s)
	}
	return nil
}

// lookupPair resolves both sides of a comparison.
func lookupPair(c *corpus.Corpus, idA, idB string) (a, b node.KnowledgeItem, err error) {
	if a, err = c.Item(idA); err != nil {
		return a, b, fmt.Errorf("article %q: %w", idA, err)
	}
	if b, err = c.Item(idB); err != nil {
		return a, b, fmt.Errorf("article %q: %w", idB, err)
	}
	return a, b, nil
}
