package zerv

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blang/semver"
)

// Identifier is one dot-separated token of a pre-release or build
// section. Numeric tokens keep their integer identity so ordering and
// round-trips behave.
type Identifier struct {
	Str   string
	Num   uint64
	IsNum bool
}

// StrID returns a string identifier.
func StrID(s string) Identifier {
	return Identifier{Str: s}
}

// NumID returns a numeric identifier.
func NumID(n uint64) Identifier {
	return Identifier{Num: n, IsNum: true}
}

// identifierFor classifies a token, keeping digit runs numeric unless a
// leading zero forces them to stay textual.
func identifierFor(s string) Identifier {
	if isDigits(s) && (len(s) == 1 || s[0] != '0') {
		if n, err := strconv.ParseUint(s, 10, 64); err == nil {
			return NumID(n)
		}
	}
	return StrID(s)
}

func (id Identifier) String() string {
	if id.IsNum {
		return strconv.FormatUint(id.Num, 10)
	}
	return id.Str
}

// SemVer is a parsed semver-like version: three release numbers plus
// optional pre-release and build identifier lists.
type SemVer struct {
	Major uint64
	Minor uint64
	Patch uint64
	Pre   []Identifier
	Build []Identifier
}

// ParseSemVer parses a semver version string. A leading "v" and missing
// minor or patch numbers are tolerated.
func ParseSemVer(input string) (*SemVer, error) {
	parsed, err := semver.ParseTolerant(input)
	if err != nil {
		return nil, &ParseError{Input: input, Msg: err.Error()}
	}

	out := &SemVer{
		Major: parsed.Major,
		Minor: parsed.Minor,
		Patch: parsed.Patch,
	}
	for _, pre := range parsed.Pre {
		if pre.IsNum {
			out.Pre = append(out.Pre, NumID(pre.VersionNum))
		} else {
			out.Pre = append(out.Pre, StrID(pre.VersionStr))
		}
	}
	for _, build := range parsed.Build {
		out.Build = append(out.Build, identifierFor(build))
	}
	return out, nil
}

func (v *SemVer) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d.%d", v.Major, v.Minor, v.Patch)
	if len(v.Pre) > 0 {
		b.WriteByte('-')
		b.WriteString(joinIdentifiers(v.Pre))
	}
	if len(v.Build) > 0 {
		b.WriteByte('+')
		b.WriteString(joinIdentifiers(v.Build))
	}
	return b.String()
}

func joinIdentifiers(ids []Identifier) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ".")
}

// Zerv converts the parsed version into the variable/schema model. The
// pre-release identifiers are scanned left to right in a single pass:
// a recognised field name becomes pending, the next numeric token gives
// it a value, and everything else stays a literal component in order.
func (v *SemVer) Zerv() *Zerv {
	vars := Vars{
		Major: uintPtr(v.Major),
		Minor: uintPtr(v.Minor),
		Patch: uintPtr(v.Patch),
	}

	var extra []Component
	pending := VarUnknown
	var pendingLabel PreReleaseLabel
	consumed := map[VarKind]bool{}

	flush := func() {
		switch pending {
		case VarUnknown:
			return
		case VarPreRelease:
			vars.Pre = &PreRelease{Label: pendingLabel}
			extra = append(extra, Ref(V(VarPreRelease)))
		default:
			extra = append(extra, Str(varNames[pending]))
		}
		pending = VarUnknown
	}

	assign := func(n uint64) {
		num := uintPtr(n)
		switch pending {
		case VarPreRelease:
			vars.Pre = &PreRelease{Label: pendingLabel, Number: num}
		case VarEpoch:
			vars.Epoch = num
		case VarPost:
			vars.Post = num
		case VarDev:
			vars.Dev = num
		}
		extra = append(extra, Ref(V(pending)))
		pending = VarUnknown
	}

	for _, id := range v.Pre {
		if id.IsNum {
			if pending != VarUnknown {
				assign(id.Num)
			} else {
				extra = append(extra, Int(id.Num))
			}
			continue
		}

		kind, label, recognised := recognisePreToken(id.Str)
		if recognised && !consumed[kind] && pending == VarUnknown {
			pending, pendingLabel = kind, label
			consumed[kind] = true
			continue
		}
		flush()
		extra = append(extra, Str(id.Str))
	}
	flush()

	var build []Component
	for _, id := range v.Build {
		if id.IsNum {
			build = append(build, Int(id.Num))
		} else {
			build = append(build, Str(id.Str))
		}
	}

	return &Zerv{
		Vars:   vars,
		Schema: mustSchema(standardCore, extra, build),
	}
}

// recognisePreToken maps a pre-release token to the field it names.
func recognisePreToken(s string) (VarKind, PreReleaseLabel, bool) {
	switch strings.ToLower(s) {
	case "epoch":
		return VarEpoch, "", true
	case "post":
		return VarPost, "", true
	case "dev":
		return VarDev, "", true
	}
	if label, ok := parsePreLabel(s, false); ok {
		return VarPreRelease, label, true
	}
	return VarUnknown, "", false
}

// SemVerFromZerv formats the version state as a semver version. In strict
// mode a context variable with no value is an error; otherwise it is
// skipped.
func SemVerFromZerv(z *Zerv, strict bool) (*SemVer, error) {
	out := &SemVer{}
	vars := &z.Vars

	coreSlots := []*uint64{&out.Major, &out.Minor, &out.Patch}
	coreCount := 0
	for _, c := range z.Schema.Core() {
		if n, ok := c.IntValue(vars); ok && coreCount < len(coreSlots) {
			*coreSlots[coreCount] = n
			coreCount++
			continue
		}
		if err := appendSemVerTokens(&out.Pre, c, vars, strict); err != nil {
			return nil, err
		}
	}

	for _, c := range z.Schema.ExtraCore() {
		if err := appendSemVerTokens(&out.Pre, c, vars, strict); err != nil {
			return nil, err
		}
	}
	for _, c := range z.Schema.Build() {
		if err := appendSemVerTokens(&out.Build, c, vars, strict); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// appendSemVerTokens renders one schema component into identifier
// tokens. Secondary variables expand to a name/value pair, or to the
// bare name when value-less. Other values are sanitised and dot-split.
func appendSemVerTokens(list *[]Identifier, c Component, vars *Vars, strict bool) error {
	if n, ok := c.IsInt(); ok {
		*list = append(*list, NumID(n))
		return nil
	}

	v, isVar := c.IsVar()
	if !isVar {
		appendCleanTokens(list, c.str, SemVerSanitizer())
		return nil
	}

	switch v.Kind {
	case VarPreRelease:
		if vars.Pre == nil {
			*list = append(*list, StrID(v.String()))
			return nil
		}
		*list = append(*list, StrID(string(vars.Pre.Label)))
		if vars.Pre.Number != nil {
			*list = append(*list, NumID(*vars.Pre.Number))
		}
		return nil
	case VarEpoch, VarPost, VarDev:
		value, ok := v.Resolve(vars)
		if !ok {
			*list = append(*list, StrID(v.String()))
			return nil
		}
		*list = append(*list, StrID(v.String()))
		appendCleanTokens(list, value, SemVerSanitizer())
		return nil
	}

	value, ok := v.Resolve(vars)
	if !ok {
		if strict && !v.IsPrimary() {
			return &UnsupportedSchemaError{Format: "semver", Component: c.String()}
		}
		return nil
	}
	appendCleanTokens(list, value, SemVerSanitizer())
	return nil
}

// appendCleanTokens sanitises a value and appends its dot-separated
// tokens, preserving numeric identity.
func appendCleanTokens(list *[]Identifier, value string, san Sanitizer) {
	cleaned, ok := san.Clean(value)
	if !ok {
		return
	}
	for _, tok := range strings.Split(cleaned, ".") {
		if tok == "" {
			continue
		}
		*list = append(*list, identifierFor(tok))
	}
}
