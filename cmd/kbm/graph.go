package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/kbm/internal/corpus"
	"github.com/matsen/kbm/internal/filter"
	"github.com/matsen/kbm/internal/layout"
	"github.com/matsen/kbm/internal/viz"
)

var (
	graphOutput string
	graphFormat string
	graphLayout string
	graphColor  string
	graphTheme  string
	graphZoom   float64
	graphLabels bool
	graphFilter filterFlags
	graphTitle  string
)

func init() {
	graphCmd.Flags().StringVarP(&graphOutput, "output", "o", "", "Output file path (default: stdout)")
	graphCmd.Flags().StringVar(&graphFormat, "format", "html", "Output format: html, svg or json")
	graphCmd.Flags().StringVar(&graphLayout, "layout", "force", "Layout: force, radial or cluster")
	graphCmd.Flags().StringVar(&graphColor, "color", "department", "Node colors: department, density or none")
	graphCmd.Flags().StringVar(&graphTheme, "theme", "light", "Theme: light or dark")
	graphCmd.Flags().Float64Var(&graphZoom, "zoom", 1, "Initial zoom (0.1 to 3)")
	graphCmd.Flags().BoolVar(&graphLabels, "labels", true, "Show node labels")
	graphCmd.Flags().StringVar(&graphTitle, "title", "Knowledge Graph", "HTML page title")
	graphFilter.register(graphCmd, 50)
	rootCmd.AddCommand(graphCmd)
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Render the article graph",
	Long: `Render the article graph as interactive HTML, SVG or JSON.

Articles are filtered, the top --density percent by views are kept (at least
5), and the survivors are laid out with the chosen layout:
  force    link, charge, centering and collision forces
  radial   departments on concentric rings
  cluster  departments pulled toward points on a circle, with labels

Link colors: purple for related documents, amber for cross-department links,
grey within a department.

Examples:
  kbm graph > graph.html
  kbm graph --layout cluster --format svg -o graph.svg
  kbm graph --department IT --color density --format json`,
	RunE: runGraph,
}

// graphDefaults applies the configured viewport to the default options.
func graphDefaults() viz.Options {
	opts := viz.DefaultOptions()
	opts.Width = float64(cfg.ViewportWidth)
	opts.Height = float64(cfg.ViewportHeight)
	return opts
}

func graphOptions() (viz.Options, error) {
	opts := graphDefaults()
	opts.Layout = layout.Mode(graphLayout)
	if !opts.Layout.Valid() {
		return opts, fmt.Errorf("%w: %q", layout.ErrUnknownMode, graphLayout)
	}
	opts.ShowLabels = graphLabels
	opts.Theme = viz.Theme(graphTheme)
	switch graphColor {
	case "department":
		opts.ColorByDepartment, opts.ColorByDensity = true, false
	case "density":
		opts.ColorByDensity = true
	case "none":
		opts.ColorByDepartment, opts.ColorByDensity = false, false
	default:
		return opts, fmt.Errorf("unknown color mode %q (department, density, none)", graphColor)
	}
	if graphFilter.density >= 0 {
		opts.Density = graphFilter.density
	}
	return opts, opts.Validate()
}

// renderScene runs one render cycle with the configured timeout and seed.
func renderScene(ctx context.Context, c *corpus.Corpus, spec filter.Spec, opts viz.Options) (*viz.Scene, error) {
	view := viz.NewView(logger, cfg.LayoutTimeout)
	view.Seed = cfg.Seed
	defer view.Close()

	scene, _, err := view.Render(ctx, c.Nodes, c.Links, spec, opts)
	return scene, err
}

func runGraph(cmd *cobra.Command, args []string) error {
	opts, err := graphOptions()
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	spec, err := graphFilter.spec(filter.ScopeFull)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	c := mustLoadCorpus(cmd.Context())

	scene, err := renderScene(cmd.Context(), c, spec, opts)
	if errors.Is(err, viz.ErrLayoutUnavailable) {
		exitWithError(ExitUnavailable, "%v (try a lower --density or a longer layout_timeout)", err)
	}
	if err != nil {
		exitWithError(exitCodeFor(err), "rendering graph: %v", err)
	}

	t := viz.Identity.Scale(graphZoom)
	var out []byte
	switch graphFormat {
	case "html":
		var html string
		html, err = viz.GenerateHTML(scene, viz.HTMLOptions{Title: graphTitle})
		out = []byte(html)
	case "svg":
		var svg string
		svg, err = viz.RenderSVG(scene, t)
		out = []byte(svg)
	case "json":
		out, err = viz.ToJSON(scene, t)
		out = append(out, '\n')
	default:
		exitWithError(ExitError, "unknown format %q (html, svg, json)", graphFormat)
	}
	if err != nil {
		return fmt.Errorf("generating %s: %w", graphFormat, err)
	}

	if graphOutput == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(graphOutput, out, 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	if humanOutput {
		outputHuman("Graph with %d articles written to %s\n", len(scene.Nodes), graphOutput)
	} else {
		outputJSON(OutputResponse{Output: graphOutput})
	}
	return nil
}
