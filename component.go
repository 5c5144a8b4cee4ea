package zerv

import (
	"fmt"
	"strconv"
)

type componentKind int

const (
	componentStr componentKind = iota
	componentInt
	componentVar
)

// Component is one position in a schema segment: a literal string, a
// literal integer, or a variable reference.
type Component struct {
	kind componentKind
	str  string
	num  uint64
	v    Var
}

// Str returns a literal string component.
func Str(s string) Component {
	return Component{kind: componentStr, str: s}
}

// Int returns a literal integer component.
func Int(n uint64) Component {
	return Component{kind: componentInt, num: n}
}

// Ref returns a variable reference component.
func Ref(v Var) Component {
	return Component{kind: componentVar, v: v}
}

// IsVar reports whether the component is a variable reference, and which.
func (c Component) IsVar() (Var, bool) {
	if c.kind != componentVar {
		return Var{}, false
	}
	return c.v, true
}

// IsInt reports whether the component is a literal integer, and its value.
func (c Component) IsInt() (uint64, bool) {
	if c.kind != componentInt {
		return 0, false
	}
	return c.num, true
}

// Value returns the component's textual value: the literal itself, or the
// resolved variable value. Absent variables return false.
func (c Component) Value(vars *Vars) (string, bool) {
	switch c.kind {
	case componentStr:
		return c.str, true
	case componentInt:
		return strconv.FormatUint(c.num, 10), true
	default:
		return c.v.Resolve(vars)
	}
}

// IntValue returns the component's value as an unsigned integer where it
// has one: a literal integer, or a variable resolving to decimal digits.
func (c Component) IntValue(vars *Vars) (uint64, bool) {
	switch c.kind {
	case componentInt:
		return c.num, true
	case componentVar:
		s, ok := c.v.Resolve(vars)
		if !ok {
			return 0, false
		}
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// String renders the component in schema text form, e.g. str(g), int(3)
// or the bare variable name.
func (c Component) String() string {
	switch c.kind {
	case componentStr:
		return fmt.Sprintf("str(%s)", c.str)
	case componentInt:
		return fmt.Sprintf("int(%d)", c.num)
	default:
		return c.v.String()
	}
}

// MarshalText serialises the component in schema text form.
func (c Component) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses a component from schema text form.
func (c *Component) UnmarshalText(text []byte) error {
	parsed, err := parseComponentToken(string(text), string(text), 0)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
