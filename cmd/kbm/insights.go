package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/kbm/internal/insights"
)

var discoverKind string

func init() {
	discoverCmd.Flags().StringVar(&discoverKind, "kind", string(insights.KindTrending), "Discovery list: trending, recommended, recent")
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(clustersCmd)
	rootCmd.AddCommand(departmentsCmd)
	rootCmd.AddCommand(suggestCmd)
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Show trending, recommended or recent articles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := mustLoadCorpus(cmd.Context())
		nodes, err := insights.Discover(c.Nodes, insights.Kind(discoverKind))
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if !humanOutput {
			return outputJSON(nodes)
		}
		outputHuman("%s\n", heading("Discover: ", discoverKind))
		for i, n := range nodes {
			outputHuman("%d. %-*s %s views, %d%% helpful\n", i+1, ListTitleMaxLen,
				truncateString(n.Title, ListTitleMaxLen), formatViews(n.Analytics.Views), n.Analytics.Helpfulness)
		}
		return nil
	},
}

var clustersCmd = &cobra.Command{
	Use:   "clusters [cluster-id]",
	Short: "List knowledge clusters, or the items of one cluster",
	Long: `List clusters of knowledge items: one per department plus topic clusters
for themes mentioned by more than five items.

Examples:
  kbm clusters --human
  kbm clusters cluster-it --human`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := mustLoadCorpus(cmd.Context())
		items := c.AllItems()
		clusters := insights.Clusters(items)

		if len(args) == 0 {
			if !humanOutput {
				return outputJSON(clusters)
			}
			for _, cl := range clusters {
				outputHuman("%-28s %-32s %d items\n", cl.ID, cl.Name, cl.Count)
			}
			return nil
		}

		cl, err := insights.FindCluster(clusters, args[0])
		if errors.Is(err, insights.ErrClusterNotFound) {
			exitWithError(ExitNotFound, "cluster %q not found", args[0])
		}
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		members := insights.FilterItems(items, cl)
		if !humanOutput {
			return outputJSON(struct {
				insights.Cluster
				Members any `json:"members"`
			}{*cl, members})
		}
		outputHuman("%s\n", heading(cl.Name, fmt.Sprintf(" (%d items)", cl.Count)))
		for _, it := range members {
			outputHuman("  %-12s %s %s\n", it.ID, truncateString(it.Title, ListTitleMaxLen), dim(string(it.Department)))
		}
		return nil
	},
}

var departmentsCmd = &cobra.Command{
	Use:   "departments",
	Short: "Show the article count per department",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := mustLoadCorpus(cmd.Context())
		dist := insights.DepartmentDistribution(c.Nodes)
		if !humanOutput {
			return outputJSON(dist)
		}
		for _, d := range dist {
			outputHuman("%-20s %d\n", d.Department, d.Count)
		}
		return nil
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <article-id>",
	Short: "Show improvement suggestions for an article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := mustLoadCorpus(cmd.Context())
		n, ok := c.NodeByID(args[0])
		if !ok {
			exitWithError(ExitNotFound, "article %q not found", args[0])
		}
		suggestions, err := insights.NewRandomSuggestions(cfg.Seed).Suggest(cmd.Context(), n)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if !humanOutput {
			return outputJSON(suggestions)
		}
		outputHuman("%s\n", heading(n.Title))
		for _, s := range suggestions {
			outputHuman("  [%s, %s impact] %s\n", s.Type, s.Impact, s.Description)
		}
		return nil
	},
}
