package zerv

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// PEP440 is a parsed PEP 440-like version: an epoch, a release number
// sequence, the ordered qualifiers and a local segment.
type PEP440 struct {
	Epoch     uint64
	Release   []uint64
	PreLabel  PreReleaseLabel // empty when absent
	PreNumber *uint64
	Post      *uint64
	Dev       *uint64
	Local     []Identifier
}

// pep440Pattern follows the PEP 440 appendix grammar, without the
// normalisation-only spellings the standard forbids in canonical form.
var pep440Pattern = regexp.MustCompile(`(?i)^v?` +
	`(?:(\d+)!)?` +
	`(\d+(?:\.\d+)*)` +
	`(?:[-_.]?(a|b|c|rc|alpha|beta|pre|preview)[-_.]?(\d+)?)?` +
	`(?:-(\d+)|[-_.]?(post|rev|r)[-_.]?(\d+)?)?` +
	`(?:[-_.]?(dev)[-_.]?(\d+)?)?` +
	`(?:\+([a-z0-9]+(?:[-_.][a-z0-9]+)*))?$`)

// ParsePEP440 parses a PEP 440 version string, accepting the alternate
// spellings the standard normalises (underscores, "alpha", "rev", an
// implicit post number, and so on).
func ParsePEP440(input string) (*PEP440, error) {
	m := pep440Pattern.FindStringSubmatch(strings.TrimSpace(input))
	if m == nil {
		return nil, &ParseError{Input: input, Msg: "not a valid PEP 440 version"}
	}

	out := &PEP440{}
	if m[1] != "" {
		n, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			return nil, &ParseError{Input: input, Token: m[1], Msg: "epoch out of range"}
		}
		out.Epoch = n
	}

	for _, part := range strings.Split(m[2], ".") {
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, &ParseError{Input: input, Token: part, Msg: "release number out of range"}
		}
		out.Release = append(out.Release, n)
	}

	number := func(s, field string) (uint64, error) {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, &ParseError{Input: input, Token: s, Msg: field + " number out of range"}
		}
		return n, nil
	}

	if m[3] != "" {
		label, ok := parsePreLabel(m[3], true)
		if !ok {
			return nil, &ParseError{Input: input, Token: m[3], Msg: "unknown pre-release label"}
		}
		out.PreLabel = label
		if m[4] != "" {
			n, err := number(m[4], "pre-release")
			if err != nil {
				return nil, err
			}
			out.PreNumber = uintPtr(n)
		}
	}

	switch {
	case m[5] != "": // implicit "-N" post form
		n, err := number(m[5], "post")
		if err != nil {
			return nil, err
		}
		out.Post = uintPtr(n)
	case m[6] != "":
		var n uint64
		if m[7] != "" {
			var err error
			n, err = number(m[7], "post")
			if err != nil {
				return nil, err
			}
		}
		out.Post = uintPtr(n)
	}

	if m[8] != "" {
		var n uint64
		if m[9] != "" {
			var err error
			n, err = number(m[9], "dev")
			if err != nil {
				return nil, err
			}
		}
		out.Dev = uintPtr(n)
	}

	for _, part := range strings.FieldsFunc(strings.ToLower(m[10]), func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	}) {
		if isDigits(part) {
			n, err := number(part, "local segment")
			if err != nil {
				return nil, err
			}
			out.Local = append(out.Local, NumID(n))
		} else {
			out.Local = append(out.Local, StrID(part))
		}
	}
	return out, nil
}

// String renders the canonical normalised form: leading epoch when
// non-zero, single-letter pre-release labels, and dotted post/dev
// segments.
func (p *PEP440) String() string {
	var b strings.Builder
	if p.Epoch > 0 {
		fmt.Fprintf(&b, "%d!", p.Epoch)
	}

	release := make([]string, len(p.Release))
	for i, n := range p.Release {
		release[i] = strconv.FormatUint(n, 10)
	}
	b.WriteString(strings.Join(release, "."))

	if p.PreLabel != "" {
		b.WriteString(p.PreLabel.PEP440())
		if p.PreNumber != nil {
			b.WriteString(strconv.FormatUint(*p.PreNumber, 10))
		} else {
			b.WriteByte('0')
		}
	}
	if p.Post != nil {
		fmt.Fprintf(&b, ".post%d", *p.Post)
	}
	if p.Dev != nil {
		fmt.Fprintf(&b, ".dev%d", *p.Dev)
	}
	if len(p.Local) > 0 {
		b.WriteByte('+')
		b.WriteString(joinIdentifiers(p.Local))
	}
	return b.String()
}

// Zerv converts the parsed version into the variable/schema model. The
// first three release numbers take the major, minor and patch slots;
// further ones stay literal core components. Local segments become
// literal build components.
func (p *PEP440) Zerv() *Zerv {
	vars := Vars{}

	var core []Component
	coreVars := []struct {
		slot **uint64
		v    Var
	}{
		{&vars.Major, V(VarMajor)},
		{&vars.Minor, V(VarMinor)},
		{&vars.Patch, V(VarPatch)},
	}
	for i, n := range p.Release {
		if i < len(coreVars) {
			*coreVars[i].slot = uintPtr(n)
			core = append(core, Ref(coreVars[i].v))
		} else {
			core = append(core, Int(n))
		}
	}

	var extra []Component
	if p.Epoch > 0 {
		vars.Epoch = uintPtr(p.Epoch)
		extra = append(extra, Ref(V(VarEpoch)))
	}
	if p.PreLabel != "" {
		vars.Pre = &PreRelease{Label: p.PreLabel, Number: copyUint(p.PreNumber)}
		extra = append(extra, Ref(V(VarPreRelease)))
	}
	if p.Post != nil {
		vars.Post = copyUint(p.Post)
		extra = append(extra, Ref(V(VarPost)))
	}
	if p.Dev != nil {
		vars.Dev = copyUint(p.Dev)
		extra = append(extra, Ref(V(VarDev)))
	}

	var build []Component
	for _, id := range p.Local {
		if id.IsNum {
			build = append(build, Int(id.Num))
		} else {
			build = append(build, Str(id.Str))
		}
	}

	return &Zerv{
		Vars:   vars,
		Schema: mustSchema(core, extra, build),
	}
}

// PEP440FromZerv formats the version state as a PEP 440 version. Values
// with no slot in the grammar join the local segment; in strict mode a
// context variable with no value is an error.
func PEP440FromZerv(z *Zerv, strict bool) (*PEP440, error) {
	out := &PEP440{}
	vars := &z.Vars

	for _, c := range z.Schema.Core() {
		if n, ok := c.IntValue(vars); ok {
			out.Release = append(out.Release, n)
			continue
		}
		if err := appendPEP440Local(out, c, vars, strict); err != nil {
			return nil, err
		}
	}
	if len(out.Release) == 0 {
		out.Release = []uint64{0}
	}

	for _, c := range z.Schema.ExtraCore() {
		v, isVar := c.IsVar()
		if !isVar {
			if err := appendPEP440Local(out, c, vars, strict); err != nil {
				return nil, err
			}
			continue
		}
		switch v.Kind {
		case VarEpoch:
			if vars.Epoch != nil {
				out.Epoch = *vars.Epoch
			}
		case VarPreRelease:
			if vars.Pre != nil {
				out.PreLabel = vars.Pre.Label
				out.PreNumber = copyUint(vars.Pre.Number)
			}
		case VarPost:
			out.Post = copyUint(vars.Post)
		case VarDev:
			out.Dev = copyUint(vars.Dev)
		default:
			if err := appendPEP440Local(out, c, vars, strict); err != nil {
				return nil, err
			}
		}
	}

	for _, c := range z.Schema.Build() {
		if err := appendPEP440Local(out, c, vars, strict); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func appendPEP440Local(p *PEP440, c Component, vars *Vars, strict bool) error {
	value, ok := c.Value(vars)
	if !ok {
		v, isVar := c.IsVar()
		if strict && isVar && !v.IsPrimary() {
			return &UnsupportedSchemaError{Format: "pep440", Component: c.String()}
		}
		return nil
	}
	appendCleanTokens(&p.Local, value, PEP440LocalSanitizer())
	return nil
}

func copyUint(p *uint64) *uint64 {
	if p == nil {
		return nil
	}
	n := *p
	return &n
}
