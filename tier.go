package zerv

import (
	"fmt"
	"strconv"
)

// Facts is the already-resolved repository state the classifier consumes.
// TagVersion is the nearest version tag reachable from the commit, empty
// when none exists.
type Facts struct {
	TagVersion      string `json:"tag_version,omitempty"`
	TagCommitHash   string `json:"tag_commit_hash,omitempty"`
	TagBranch       string `json:"tag_branch,omitempty"`
	TagTimestamp    uint64 `json:"tag_timestamp,omitempty"`
	Distance        uint64 `json:"distance"`
	Dirty           bool   `json:"dirty"`
	Branch          string `json:"branch,omitempty"`
	CommitHash      string `json:"commit_hash,omitempty"`
	CommitTimestamp uint64 `json:"commit_timestamp,omitempty"`

	// ObjectPrefix marks abbreviated object names in build metadata,
	// the way git describe does. Defaults to "g".
	ObjectPrefix string `json:"object_prefix,omitempty"`
}

// ClassifyOptions adjusts how facts become a version model.
type ClassifyOptions struct {
	// InputFormat selects the tag parser; defaults to FormatAuto.
	InputFormat string

	// BaseVersion substitutes for a missing tag.
	BaseVersion string

	// Calendar switches the core segment to the calendar scheme.
	Calendar bool

	// DevTimestamp is the dev value for dirty states. Zero derives a
	// compact datetime from the commit timestamp.
	DevTimestamp uint64
}

// Classify turns repository facts into a fully populated version model.
// Three tiers apply, in priority order: a dirty worktree is tier 3, any
// distance past the tag is tier 2, and an exact clean tag is tier 1.
// Dirtiness dominates distance.
func Classify(facts Facts, opts ClassifyOptions) (*Zerv, error) {
	tag := facts.TagVersion
	if tag == "" {
		tag = opts.BaseVersion
	}
	if tag == "" {
		return nil, ErrMissingBaseVersion
	}

	parsed, err := ParseVersion(tag, opts.InputFormat)
	if err != nil {
		return nil, fmt.Errorf("parsing base version %q: %w", tag, err)
	}

	vars := parsed.Vars
	vars.Distance = uintPtr(facts.Distance)
	vars.Dirty = boolPtr(facts.Dirty)

	prefix := facts.ObjectPrefix
	if prefix == "" {
		prefix = "g"
	}
	if facts.Branch != "" {
		vars.BumpedBranch = strPtr(prefix + facts.Branch)
	}
	if facts.CommitHash != "" {
		vars.BumpedCommitHash = strPtr(prefix + facts.CommitHash)
	}
	if facts.CommitTimestamp > 0 {
		vars.BumpedTimestamp = uintPtr(facts.CommitTimestamp)
	}
	if facts.TagBranch != "" {
		vars.LastBranch = strPtr(prefix + facts.TagBranch)
	}
	if facts.TagCommitHash != "" {
		vars.LastCommitHash = strPtr(prefix + facts.TagCommitHash)
	}
	if facts.TagTimestamp > 0 {
		vars.LastTimestamp = uintPtr(facts.TagTimestamp)
	}

	core := standardCore
	if opts.Calendar {
		core = calverCore
	}

	switch {
	case facts.Dirty:
		vars.Post = uintPtr(facts.Distance)
		dev, err := devTimestamp(facts, opts)
		if err != nil {
			return nil, err
		}
		vars.Dev = uintPtr(dev)
	case facts.Distance > 0:
		vars.Post = uintPtr(facts.Distance)
	}

	// The schema shapes itself around the populated fields, so qualifiers
	// carried by the tag (epoch, pre-release) keep rendering at every tier.
	z := &Zerv{Vars: vars, Schema: stateSchema(core, &vars)}
	z.Finalize()
	return z, nil
}

// devTimestamp picks the dev value for a dirty state: the caller's
// choice, or a compact datetime of the commit being built.
func devTimestamp(facts Facts, opts ClassifyOptions) (uint64, error) {
	if opts.DevTimestamp > 0 {
		return opts.DevTimestamp, nil
	}
	formatted, err := formatTimestamp(PatternCompactDatetime, facts.CommitTimestamp)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(formatted, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("deriving dev timestamp: %w", err)
	}
	return n, nil
}
