package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/kbm/internal/node"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a single article by ID",
	Long: `Get a single article by its ID.

Example:
  kbm get it-security --human`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	c := mustLoadCorpus(cmd.Context())
	n, ok := c.NodeByID(args[0])
	if !ok {
		exitWithError(ExitNotFound, "article not found: %s", args[0])
	}
	if !humanOutput {
		return outputJSON(n)
	}
	printNodeDetail(n)
	return nil
}

func printNodeDetail(n node.Node) {
	outputHuman("%s\n", heading(n.Title))
	outputHuman("%s\n\n", dim(string(n.Department)+" · "+string(n.Status)+" · "+n.Author+" · updated "+n.UpdatedAt))
	if n.Description != "" {
		outputHuman("%s\n\n", n.Description)
	}
	if len(n.Tags) > 0 {
		outputHuman("Tags: %s\n", strings.Join(n.Tags, ", "))
	}
	a := n.Analytics
	outputHuman("Views: %s  Helpful: %d%%  Relevance: %d%%  Freshness: %d%%\n",
		formatViews(a.Views), a.Helpfulness, a.SearchRelevance, a.Freshness)
	for _, r := range n.RelatedDocuments {
		outputHuman("  related: %s (%s, %.0f%% similar)\n", r.Title, r.ID, r.Similarity)
	}
	if n.Content != "" {
		outputHuman("\n%s\n", n.Content)
	}
}
