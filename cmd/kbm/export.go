package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/kbm/internal/config"
	"github.com/matsen/kbm/internal/corpus"
)

func init() {
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Write the current corpus as JSONL files",
	Long: `Write the current corpus (the sample corpus unless --corpus is given) to a
directory as nodes.jsonl, links.jsonl, duplicates.jsonl and items.jsonl.
The directory can then be used with --corpus or corpus_dir.

Examples:
  kbm export ~/kb
  kbm config corpus_dir ~/kb`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := config.ExpandTilde(args[0])
		c := mustLoadCorpus(cmd.Context())
		if err := corpus.Export(c, dir); err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		if !humanOutput {
			return outputJSON(OutputResponse{Output: dir})
		}
		outputHuman("Exported %d articles, %d links and %d duplicate pairs to %s\n",
			len(c.Nodes), len(c.Links), len(c.Pairs), dir)
		return nil
	},
}
