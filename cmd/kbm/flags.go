package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/kbm/internal/filter"
)

// filterFlags are the article filter options shared by list and graph.
type filterFlags struct {
	department string
	status     string
	search     string
	titleOnly  bool
	density    int
}

// register adds the filter flags to cmd. A negative defaultDensity means
// "no density filter" unless --density is given.
func (f *filterFlags) register(cmd *cobra.Command, defaultDensity int) {
	cmd.Flags().StringVar(&f.department, "department", filter.All, "Only articles in this department")
	cmd.Flags().StringVar(&f.status, "status", filter.All, "Only articles with this status")
	cmd.Flags().StringVarP(&f.search, "search", "q", "", "Case-insensitive search over title, description, content and tags")
	cmd.Flags().BoolVar(&f.titleOnly, "title-only", false, "Match --search against titles only")
	cmd.Flags().IntVar(&f.density, "density", defaultDensity, "Keep the top N percent of matches by views (at least 5)")
}

// spec builds a validated filter. scope is used unless --title-only is set.
func (f *filterFlags) spec(scope filter.SearchScope) (filter.Spec, error) {
	if f.titleOnly {
		scope = filter.ScopeTitle
	}
	s := filter.Spec{
		Department:  f.department,
		Status:      f.status,
		SearchQuery: f.search,
		Scope:       scope,
	}
	if f.density >= 0 {
		s = s.WithDensity(f.density)
	}
	return s, s.Validate()
}
