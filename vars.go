package zerv

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// VarKind enumerates the variables a schema component may reference.
type VarKind int

const (
	VarUnknown VarKind = iota

	// Primary release numbers.
	VarMajor
	VarMinor
	VarPatch

	// Secondary release qualifiers.
	VarEpoch
	VarPreRelease
	VarPost
	VarDev

	// Repository context.
	VarDistance
	VarDirty
	VarBumpedBranch
	VarBumpedCommitHash
	VarBumpedCommitHashShort
	VarBumpedTimestamp
	VarLastBranch
	VarLastCommitHash
	VarLastCommitHashShort
	VarLastTimestamp

	// Parameterised escape hatches.
	VarCustom
	VarTimestamp
)

// Var is a reference to a version variable. Custom and timestamp variables
// carry an argument: the dotted lookup path or the format pattern.
type Var struct {
	Kind VarKind
	Arg  string
}

var varNames = map[VarKind]string{
	VarMajor:                 "major",
	VarMinor:                 "minor",
	VarPatch:                 "patch",
	VarEpoch:                 "epoch",
	VarPreRelease:            "pre_release",
	VarPost:                  "post",
	VarDev:                   "dev",
	VarDistance:              "distance",
	VarDirty:                 "dirty",
	VarBumpedBranch:          "bumped_branch",
	VarBumpedCommitHash:      "bumped_commit_hash",
	VarBumpedCommitHashShort: "bumped_commit_hash_short",
	VarBumpedTimestamp:       "bumped_timestamp",
	VarLastBranch:            "last_branch",
	VarLastCommitHash:        "last_commit_hash",
	VarLastCommitHashShort:   "last_commit_hash_short",
	VarLastTimestamp:         "last_timestamp",
}

var varKinds = func() map[string]VarKind {
	m := make(map[string]VarKind, len(varNames))
	for k, name := range varNames {
		m[name] = k
	}
	return m
}()

// V returns the fixed variable with the given kind.
func V(kind VarKind) Var {
	return Var{Kind: kind}
}

// CustomVar references a caller-supplied value by dotted path.
func CustomVar(path string) Var {
	return Var{Kind: VarCustom, Arg: path}
}

// TimestampVar formats the bumped timestamp with the given pattern.
func TimestampVar(pattern string) Var {
	return Var{Kind: VarTimestamp, Arg: pattern}
}

// VarFromName resolves a bare variable name against the fixed registry.
// Custom and timestamp variables are not reachable by name.
func VarFromName(name string) (Var, bool) {
	kind, ok := varKinds[name]
	if !ok {
		return Var{}, false
	}
	return Var{Kind: kind}, true
}

func (v Var) String() string {
	switch v.Kind {
	case VarCustom:
		return fmt.Sprintf("custom(%s)", v.Arg)
	case VarTimestamp:
		return fmt.Sprintf("ts(%s)", v.Arg)
	default:
		if name, ok := varNames[v.Kind]; ok {
			return name
		}
		return "unknown"
	}
}

// IsPrimary reports whether the variable is one of the three release numbers.
func (v Var) IsPrimary() bool {
	return v.Kind == VarMajor || v.Kind == VarMinor || v.Kind == VarPatch
}

// IsSecondary reports whether the variable is a release qualifier.
func (v Var) IsSecondary() bool {
	switch v.Kind {
	case VarEpoch, VarPreRelease, VarPost, VarDev:
		return true
	}
	return false
}

// PreReleaseLabel is a normalised pre-release stage name.
type PreReleaseLabel string

const (
	LabelAlpha PreReleaseLabel = "alpha"
	LabelBeta  PreReleaseLabel = "beta"
	LabelRC    PreReleaseLabel = "rc"
)

// parsePreLabel normalises a pre-release label spelling. The pep440 flag
// additionally accepts the "c", "pre" and "preview" spellings for rc.
func parsePreLabel(s string, pep440 bool) (PreReleaseLabel, bool) {
	switch strings.ToLower(s) {
	case "alpha", "a":
		return LabelAlpha, true
	case "beta", "b":
		return LabelBeta, true
	case "rc", "c":
		return LabelRC, true
	case "pre", "preview":
		if pep440 {
			return LabelRC, true
		}
	}
	return "", false
}

// PEP440 returns the single-letter normalised spelling used by PEP 440.
func (l PreReleaseLabel) PEP440() string {
	switch l {
	case LabelAlpha:
		return "a"
	case LabelBeta:
		return "b"
	default:
		return "rc"
	}
}

// PreRelease is a pre-release stage with an optional number. A nil Number
// means the label appeared without one.
type PreRelease struct {
	Label  PreReleaseLabel `json:"label"`
	Number *uint64         `json:"number,omitempty"`
}

// Vars holds the values a schema draws from. Nil fields are absent: the
// distinction matters because several formats render a value-less field
// differently from a missing one.
type Vars struct {
	Major *uint64     `json:"major,omitempty"`
	Minor *uint64     `json:"minor,omitempty"`
	Patch *uint64     `json:"patch,omitempty"`
	Epoch *uint64     `json:"epoch,omitempty"`
	Pre   *PreRelease `json:"pre_release,omitempty"`
	Post  *uint64     `json:"post,omitempty"`
	Dev   *uint64     `json:"dev,omitempty"`

	Distance *uint64 `json:"distance,omitempty"`
	Dirty    *bool   `json:"dirty,omitempty"`

	BumpedBranch     *string `json:"bumped_branch,omitempty"`
	BumpedCommitHash *string `json:"bumped_commit_hash,omitempty"`
	BumpedTimestamp  *uint64 `json:"bumped_timestamp,omitempty"`
	LastBranch       *string `json:"last_branch,omitempty"`
	LastCommitHash   *string `json:"last_commit_hash,omitempty"`
	LastTimestamp    *uint64 `json:"last_timestamp,omitempty"`

	Custom map[string]any `json:"custom,omitempty"`
}

// shortHashLen matches the abbreviated object name length used in build
// metadata, including the object prefix.
const shortHashLen = 8

func shortHash(full string) string {
	if len(full) <= shortHashLen {
		return full
	}
	return full[:shortHashLen]
}

// Resolve returns the variable's textual value, or false when the variable
// holds no value in vars.
func (v Var) Resolve(vars *Vars) (string, bool) {
	switch v.Kind {
	case VarMajor:
		return uintValue(vars.Major)
	case VarMinor:
		return uintValue(vars.Minor)
	case VarPatch:
		return uintValue(vars.Patch)
	case VarEpoch:
		return uintValue(vars.Epoch)
	case VarPost:
		return uintValue(vars.Post)
	case VarDev:
		return uintValue(vars.Dev)
	case VarDistance:
		return uintValue(vars.Distance)
	case VarPreRelease:
		if vars.Pre == nil {
			return "", false
		}
		if vars.Pre.Number == nil {
			return string(vars.Pre.Label), true
		}
		return fmt.Sprintf("%s.%d", vars.Pre.Label, *vars.Pre.Number), true
	case VarDirty:
		if vars.Dirty == nil || !*vars.Dirty {
			return "", false
		}
		return "dirty", true
	case VarBumpedBranch:
		return strValue(vars.BumpedBranch)
	case VarBumpedCommitHash:
		return strValue(vars.BumpedCommitHash)
	case VarBumpedCommitHashShort:
		if vars.BumpedCommitHash == nil {
			return "", false
		}
		return shortHash(*vars.BumpedCommitHash), true
	case VarBumpedTimestamp:
		return uintValue(vars.BumpedTimestamp)
	case VarLastBranch:
		return strValue(vars.LastBranch)
	case VarLastCommitHash:
		return strValue(vars.LastCommitHash)
	case VarLastCommitHashShort:
		if vars.LastCommitHash == nil {
			return "", false
		}
		return shortHash(*vars.LastCommitHash), true
	case VarLastTimestamp:
		return uintValue(vars.LastTimestamp)
	case VarCustom:
		return vars.customValue(v.Arg)
	case VarTimestamp:
		if vars.BumpedTimestamp == nil {
			return "", false
		}
		s, err := formatTimestamp(v.Arg, *vars.BumpedTimestamp)
		if err != nil {
			return "", false
		}
		return s, true
	}
	return "", false
}

func uintValue(p *uint64) (string, bool) {
	if p == nil {
		return "", false
	}
	return strconv.FormatUint(*p, 10), true
}

func strValue(p *string) (string, bool) {
	if p == nil || *p == "" {
		return "", false
	}
	return *p, true
}

// customValue looks up a dotted path in the custom value map. Only scalar
// leaves resolve; maps and lists do not.
func (vs *Vars) customValue(path string) (string, bool) {
	var cur any = vs.Custom
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		cur, ok = m[part]
		if !ok {
			return "", false
		}
	}
	return scalarString(cur)
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case json.Number:
		return t.String(), true
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10), true
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	}
	return "", false
}

// Uint64 returns a pointer to v, for building Overrides and Bumps
// literals.
func Uint64(v uint64) *uint64 { return &v }

func uintPtr(v uint64) *uint64 { return &v }
func strPtr(v string) *string  { return &v }
func boolPtr(v bool) *bool     { return &v }
