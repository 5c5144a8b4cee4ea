package zerv

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Options configures end-to-end version resolution from a repository.
type Options struct {
	// Repository is the Git repository to analyze.
	Repository *git.Repository

	// Commitish specifies which commit to analyze (default: "HEAD").
	Commitish plumbing.Revision

	// TagFilter allows filtering which tags to consider.
	TagFilter func(string) bool

	// TagPattern is a regex pattern to filter tags (alternative to TagFilter).
	TagPattern string

	// InputFormat selects the tag parser (default: auto).
	InputFormat string

	// BaseVersion substitutes for a missing tag.
	BaseVersion string

	// Calendar switches the core segment to the calendar scheme.
	Calendar bool

	// DevTimestamp is the dev value for dirty states.
	DevTimestamp uint64

	// Overrides and Bumps mutate the resolved model.
	Overrides *Overrides
	Bumps     *Bumps
}

// Resolve determines the version model for a commit: repository facts
// are collected, classified into a tier, and adjusted by any overrides
// and bumps.
func Resolve(opts Options) (*Zerv, error) {
	facts, err := CollectFacts(CollectOptions{
		Repository: opts.Repository,
		Commitish:  opts.Commitish,
		TagFilter:  opts.TagFilter,
		TagPattern: opts.TagPattern,
	})
	if err != nil {
		return nil, fmt.Errorf("collecting repository facts: %w", err)
	}

	z, err := Classify(facts, ClassifyOptions{
		InputFormat:  opts.InputFormat,
		BaseVersion:  opts.BaseVersion,
		Calendar:     opts.Calendar,
		DevTimestamp: opts.DevTimestamp,
	})
	if err != nil {
		return nil, err
	}

	if err := Apply(z, opts.Overrides, opts.Bumps); err != nil {
		return nil, err
	}
	return z, nil
}

// FallbackVersion returns a default development version model for use
// when no repository is available.
func FallbackVersion() *Zerv {
	z := &Zerv{
		Vars: Vars{
			Major: uintPtr(0),
			Minor: uintPtr(0),
			Patch: uintPtr(0),
			Dev:   uintPtr(0),
		},
		Schema: mustSchema(standardCore, []Component{Ref(V(VarDev))}, nil),
	}
	return z
}
