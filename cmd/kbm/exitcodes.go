package main

import (
	"errors"

	"github.com/matsen/kbm/internal/corpus"
	"github.com/matsen/kbm/internal/duplicate"
	"github.com/matsen/kbm/internal/insights"
	"github.com/matsen/kbm/internal/viz"
)

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (bad config file, missing corpus dir)
	ExitDataError   = 3 // Data error (malformed corpus, validation failure)
	ExitNotFound    = 4 // Article, pair or cluster not found
	ExitUnavailable = 5 // Graph layout did not settle in time
)

// exitCodeFor maps a command error to its exit code.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, corpus.ErrNotFound),
		errors.Is(err, duplicate.ErrPairNotFound),
		errors.Is(err, insights.ErrClusterNotFound):
		return ExitNotFound
	case errors.Is(err, viz.ErrLayoutUnavailable):
		return ExitUnavailable
	case errors.Is(err, corpus.ErrDuplicateID),
		errors.Is(err, corpus.ErrNotLoaded):
		return ExitDataError
	default:
		return ExitError
	}
}
