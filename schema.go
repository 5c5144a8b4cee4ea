package zerv

import "strings"

// Segment identifies one of the three schema regions.
type Segment int

const (
	SegmentCore Segment = iota
	SegmentExtraCore
	SegmentBuild
)

func (s Segment) String() string {
	switch s {
	case SegmentCore:
		return "core"
	case SegmentExtraCore:
		return "extra_core"
	case SegmentBuild:
		return "build"
	}
	return "unknown"
}

// Schema is an ordered arrangement of components across the core,
// extra-core and build segments. It decides which variables a formatted
// version draws on and where their values appear.
type Schema struct {
	core      []Component
	extraCore []Component
	build     []Component
}

// NewSchema validates and assembles a schema from its three segments.
// Either segment may be nil.
func NewSchema(core, extraCore, build []Component) (*Schema, error) {
	s := &Schema{
		core:      append([]Component(nil), core...),
		extraCore: append([]Component(nil), extraCore...),
		build:     append([]Component(nil), build...),
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func mustSchema(core, extraCore, build []Component) *Schema {
	s, err := NewSchema(core, extraCore, build)
	if err != nil {
		panic(err)
	}
	return s
}

// Core returns the core segment components.
func (s *Schema) Core() []Component { return s.core }

// ExtraCore returns the extra-core segment components.
func (s *Schema) ExtraCore() []Component { return s.extraCore }

// Build returns the build segment components.
func (s *Schema) Build() []Component { return s.build }

// Clone returns an independent copy of the schema.
func (s *Schema) Clone() *Schema {
	return &Schema{
		core:      append([]Component(nil), s.core...),
		extraCore: append([]Component(nil), s.extraCore...),
		build:     append([]Component(nil), s.build...),
	}
}

func (s *Schema) segment(seg Segment) *[]Component {
	switch seg {
	case SegmentCore:
		return &s.core
	case SegmentExtraCore:
		return &s.extraCore
	default:
		return &s.build
	}
}

// Push appends a component to a segment, revalidating the schema.
func (s *Schema) Push(seg Segment, c Component) error {
	target := s.segment(seg)
	*target = append(*target, c)
	if err := s.validate(); err != nil {
		*target = (*target)[:len(*target)-1]
		return err
	}
	return nil
}

// Replace substitutes the component at index i of a segment. An
// out-of-range index is a SchemaError.
func (s *Schema) Replace(seg Segment, i int, c Component) error {
	target := s.segment(seg)
	if i < 0 || i >= len(*target) {
		return schemaErrorf("index %d out of range for %s segment of length %d", i, seg, len(*target))
	}
	old := (*target)[i]
	(*target)[i] = c
	if err := s.validate(); err != nil {
		(*target)[i] = old
		return err
	}
	return nil
}

// Resolve returns the value of a variable referenced by this schema.
// Unknown variables are a SchemaError; a known variable with no value
// resolves to an empty string.
func (s *Schema) Resolve(v Var, vars *Vars) (string, error) {
	if v.Kind == VarUnknown {
		return "", schemaErrorf("cannot resolve unknown variable")
	}
	value, ok := v.Resolve(vars)
	if !ok {
		return "", nil
	}
	return value, nil
}

var primaryOrder = map[VarKind]int{VarMajor: 0, VarMinor: 1, VarPatch: 2}

func (s *Schema) validate() error {
	if len(s.core)+len(s.extraCore)+len(s.build) == 0 {
		return schemaErrorf("schema has no components")
	}

	seen := map[VarKind]bool{}
	lastPrimary := -1
	for _, c := range s.core {
		v, ok := c.IsVar()
		if !ok {
			continue
		}
		if err := checkVar(v, seen); err != nil {
			return err
		}
		if v.IsSecondary() {
			return schemaErrorf("%s belongs in the extra_core segment", v)
		}
		if order, primary := primaryOrder[v.Kind]; primary {
			if order < lastPrimary {
				return schemaErrorf("%s appears after a later release number", v)
			}
			lastPrimary = order
		}
	}

	for _, seg := range []struct {
		name  Segment
		comps []Component
	}{{SegmentExtraCore, s.extraCore}, {SegmentBuild, s.build}} {
		for _, c := range seg.comps {
			v, ok := c.IsVar()
			if !ok {
				continue
			}
			if err := checkVar(v, seen); err != nil {
				return err
			}
			if v.IsPrimary() {
				return schemaErrorf("%s belongs in the core segment", v)
			}
			if v.IsSecondary() && seg.name == SegmentBuild {
				return schemaErrorf("%s belongs in the extra_core segment", v)
			}
		}
	}
	return nil
}

func checkVar(v Var, seen map[VarKind]bool) error {
	if v.Kind == VarUnknown {
		return schemaErrorf("unknown variable reference")
	}
	if v.Kind == VarTimestamp && !validTimestampPattern(v.Arg) {
		return schemaErrorf("invalid timestamp pattern %q", v.Arg)
	}
	if v.IsPrimary() || v.IsSecondary() {
		if seen[v.Kind] {
			return schemaErrorf("%s referenced more than once", v)
		}
		seen[v.Kind] = true
	}
	return nil
}

// String renders the schema in its text form, e.g.
// "core: major.minor.patch | extra_core: post | build: bumped_branch".
func (s *Schema) String() string {
	var parts []string
	for _, seg := range []struct {
		name  Segment
		comps []Component
	}{{SegmentCore, s.core}, {SegmentExtraCore, s.extraCore}, {SegmentBuild, s.build}} {
		if len(seg.comps) == 0 {
			continue
		}
		tokens := make([]string, len(seg.comps))
		for i, c := range seg.comps {
			tokens[i] = c.String()
		}
		parts = append(parts, seg.name.String()+": "+strings.Join(tokens, "."))
	}
	return strings.Join(parts, " | ")
}
