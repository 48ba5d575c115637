package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/kbm/internal/filter"
	"github.com/matsen/kbm/internal/node"
)

var (
	listFilter filterFlags
	listSort   string
	listDesc   bool
	listLimit  int
)

func init() {
	listFilter.register(listCmd, -1)
	listCmd.Flags().StringVar(&listSort, "sort", "", "Sort by title, department, status, views or updated")
	listCmd.Flags().BoolVar(&listDesc, "desc", false, "Sort descending")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "Maximum articles to show (0 = all)")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List articles",
	Long: `List articles, filtered and sorted.

Examples:
  kbm list --department HR
  kbm list -q security --sort views --desc --human
  kbm list --status outdated --density 20`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// ListResponse is the JSON output of list.
type ListResponse struct {
	Total    int         `json:"total"`
	Matching int         `json:"matching"`
	Nodes    []node.Node `json:"nodes"`
}

func runList(cmd *cobra.Command, args []string) error {
	spec, err := listFilter.spec(filter.ScopeFull)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	c := mustLoadCorpus(cmd.Context())

	nodes := filter.Nodes(c.Nodes, spec)
	if listSort != "" {
		dir := filter.Asc
		if listDesc {
			dir = filter.Desc
		}
		filter.Sort(nodes, filter.SortField(listSort), dir)
	}
	matching := len(nodes)
	if listLimit > 0 && len(nodes) > listLimit {
		nodes = nodes[:listLimit]
	}

	if !humanOutput {
		return outputJSON(ListResponse{Total: len(c.Nodes), Matching: matching, Nodes: nodes})
	}

	outputHuman("%s\n\n", heading("Showing ", matching, " of ", len(c.Nodes), " articles"))
	for _, n := range nodes {
		outputHuman("%-50s  %-18s  %-17s  %8s views\n",
			truncateString(n.Title, ListTitleMaxLen),
			n.Department,
			n.Status,
			formatViews(n.Analytics.Views))
		if n.UpdatedAt != "" {
			outputHuman("  %s\n", dim("updated "+n.UpdatedAt+" by "+n.Author))
		}
	}
	return nil
}
