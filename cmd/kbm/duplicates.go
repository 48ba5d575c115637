package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/matsen/kbm/internal/duplicate"
)

var (
	dupSearch     string
	dupStatus     string
	dupSimilarity string
	dupSet        []string
)

func init() {
	duplicatesCmd.Flags().StringVarP(&dupSearch, "search", "q", "", "Search source and target titles")
	duplicatesCmd.Flags().StringVar(&dupStatus, "status", "all", "Only pairs with this status: pending, merged, kept-separate, flagged")
	duplicatesCmd.Flags().StringVar(&dupSimilarity, "similarity", "all", "Similarity band: high (>=90), medium (75-89), low (<75)")
	duplicatesCmd.Flags().StringArrayVar(&dupSet, "set", nil, "Apply a review decision id=status before listing (repeatable, last write wins)")
	rootCmd.AddCommand(duplicatesCmd)
}

var duplicatesCmd = &cobra.Command{
	Use:     "duplicates",
	Aliases: []string{"dupes"},
	Short:   "Review suspected duplicate article pairs",
	Long: `List suspected duplicate pairs with their review status.

Review decisions given with --set are applied in order for this invocation
only; the corpus is never modified. Use the dashboard (kbm serve) for a
review session that lasts until the server stops.

Examples:
  kbm duplicates --status pending --human
  kbm duplicates --similarity high
  kbm duplicates --set it-security-it-network=merged --human`,
	Args: cobra.NoArgs,
	RunE: runDuplicates,
}

// DuplicatesResponse is the JSON output of duplicates.
type DuplicatesResponse struct {
	Notifications []duplicate.Notification `json:"notifications,omitempty"`
	Counts        map[duplicate.Status]int `json:"counts"`
	Pairs         []duplicate.Pair         `json:"pairs"`
}

func runDuplicates(cmd *cobra.Command, args []string) error {
	c := mustLoadCorpus(cmd.Context())
	w := duplicate.NewWorkflow(c.Pairs)

	notes, err := applyDecisions(w, dupSet)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	f := duplicate.Filter{
		SearchQuery: dupSearch,
		Status:      dupStatus,
		Similarity:  duplicate.Band(dupSimilarity),
	}
	pairs := w.Effective(f.Apply(c.Pairs, w))

	if !humanOutput {
		return outputJSON(DuplicatesResponse{Notifications: notes, Counts: w.Counts(c.Pairs), Pairs: pairs})
	}

	for _, n := range notes {
		outputHuman("%s %s\n", color.GreenString(n.Title+":"), n.Message)
	}
	if len(notes) > 0 {
		outputHuman("\n")
	}
	counts := w.Counts(c.Pairs)
	outputHuman("%s  pending %d  merged %d  kept separate %d  flagged %d\n\n",
		heading(len(pairs), " pairs"),
		counts[duplicate.StatusPending], counts[duplicate.StatusMerged],
		counts[duplicate.StatusKeptSeparate], counts[duplicate.StatusFlagged])
	for _, p := range pairs {
		outputHuman("%s  %s  %s\n", levelBadge(p.Similarity), p.ID, dim("["+p.Status.Label()+"]"))
		outputHuman("  %s\n  %s\n", truncateString(p.Source.Title, DetailTitleMaxLen), truncateString(p.Target.Title, DetailTitleMaxLen))
	}
	return nil
}

// errBadDecision is returned for a --set value that is not id=status.
var errBadDecision = errors.New("--set expects id=status")

// applyDecisions applies id=status decisions in order; a later decision for
// the same pair overrides an earlier one. It stops at the first failure.
func applyDecisions(w *duplicate.Workflow, decisions []string) ([]duplicate.Notification, error) {
	notes := make([]duplicate.Notification, 0, len(decisions))
	for _, s := range decisions {
		id, status, ok := strings.Cut(s, "=")
		if !ok {
			return notes, fmt.Errorf("%w, got %q", errBadDecision, s)
		}
		note, err := w.SetStatus(id, duplicate.Status(status))
		if err != nil {
			return notes, err
		}
		notes = append(notes, note)
	}
	return notes, nil
}

// levelBadge colors a similarity by its level.
func levelBadge(similarity float64) string {
	text := fmt.Sprintf("%3.0f%%", similarity)
	switch duplicate.SimilarityLevel(similarity) {
	case duplicate.LevelHigh:
		return color.RedString(text)
	case duplicate.LevelMedium:
		return color.YellowString(text)
	default:
		return color.GreenString(text)
	}
}
