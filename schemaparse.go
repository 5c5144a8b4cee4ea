package zerv

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseSchema parses a schema from its text form:
//
//	core: major.minor.patch | extra_core: pre_release.post | build: str(g).bumped_commit_hash_short
//
// Segments are separated by "|", components by dots outside parentheses.
// Component tokens are bare variable names, bare integers, or the
// str(...), int(...), custom(...) and ts(...) forms.
func ParseSchema(text string) (*Schema, error) {
	segments := map[Segment][]Component{}
	offset := 0
	for _, part := range strings.Split(text, "|") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			offset += len(part) + 1
			continue
		}

		name, rest, found := strings.Cut(trimmed, ":")
		if !found {
			return nil, &ParseError{Input: text, Token: trimmed, Pos: offset, Msg: "segment missing name"}
		}

		var seg Segment
		switch strings.TrimSpace(name) {
		case "core":
			seg = SegmentCore
		case "extra_core":
			seg = SegmentExtraCore
		case "build":
			seg = SegmentBuild
		default:
			return nil, &ParseError{Input: text, Token: strings.TrimSpace(name), Pos: offset, Msg: "unknown segment"}
		}
		if _, dup := segments[seg]; dup {
			return nil, &ParseError{Input: text, Token: strings.TrimSpace(name), Pos: offset, Msg: "duplicate segment"}
		}

		comps, err := parseComponentList(rest, text, offset+len(name)+1)
		if err != nil {
			return nil, err
		}
		segments[seg] = comps
		offset += len(part) + 1
	}

	schema, err := NewSchema(segments[SegmentCore], segments[SegmentExtraCore], segments[SegmentBuild])
	if err != nil {
		return nil, fmt.Errorf("parsing schema %q: %w", text, err)
	}
	return schema, nil
}

func parseComponentList(list, input string, offset int) ([]Component, error) {
	var comps []Component
	for _, tok := range splitOutsideParens(list, '.') {
		trimmed := strings.TrimSpace(tok)
		if trimmed == "" {
			return nil, &ParseError{Input: input, Token: tok, Pos: offset, Msg: "empty component"}
		}
		c, err := parseComponentToken(trimmed, input, offset)
		if err != nil {
			return nil, err
		}
		comps = append(comps, c)
	}
	return comps, nil
}

func parseComponentToken(tok, input string, pos int) (Component, error) {
	if name, arg, ok := splitCall(tok); ok {
		switch name {
		case "str":
			return Str(arg), nil
		case "int":
			n, err := strconv.ParseUint(arg, 10, 64)
			if err != nil {
				return Component{}, &ParseError{Input: input, Token: tok, Pos: pos, Msg: "integer component is not a non-negative integer"}
			}
			return Int(n), nil
		case "custom":
			if arg == "" {
				return Component{}, &ParseError{Input: input, Token: tok, Pos: pos, Msg: "custom variable needs a path"}
			}
			return Ref(CustomVar(arg)), nil
		case "ts":
			if !validTimestampPattern(arg) {
				return Component{}, &ParseError{Input: input, Token: tok, Pos: pos, Msg: "invalid timestamp pattern"}
			}
			return Ref(TimestampVar(arg)), nil
		default:
			return Component{}, &ParseError{Input: input, Token: tok, Pos: pos, Msg: "unknown component form"}
		}
	}

	if isDigits(tok) {
		n, err := strconv.ParseUint(tok, 10, 64)
		if err != nil {
			return Component{}, &ParseError{Input: input, Token: tok, Pos: pos, Msg: "integer component out of range"}
		}
		return Int(n), nil
	}

	v, ok := VarFromName(tok)
	if !ok {
		return Component{}, &ParseError{
			Input: input, Token: tok, Pos: pos, Msg: "unknown variable",
			Err: schemaErrorf("unknown variable %q", tok),
		}
	}
	return Ref(v), nil
}

// splitCall matches tokens of the form name(arg).
func splitCall(tok string) (name, arg string, ok bool) {
	open := strings.IndexByte(tok, '(')
	if open <= 0 || !strings.HasSuffix(tok, ")") {
		return "", "", false
	}
	return tok[:open], tok[open+1 : len(tok)-1], true
}

func splitOutsideParens(s string, sep byte) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

type schemaDocument struct {
	Core      []string `yaml:"core"`
	ExtraCore []string `yaml:"extra_core"`
	Build     []string `yaml:"build"`
}

// ParseSchemaYAML parses a schema from a YAML document whose core,
// extra_core and build keys each hold a list of component tokens.
func ParseSchemaYAML(data []byte) (*Schema, error) {
	var doc schemaDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding schema document: %w", err)
	}

	parse := func(tokens []string) ([]Component, error) {
		var comps []Component
		for _, tok := range tokens {
			c, err := parseComponentToken(strings.TrimSpace(tok), tok, 0)
			if err != nil {
				return nil, err
			}
			comps = append(comps, c)
		}
		return comps, nil
	}

	core, err := parse(doc.Core)
	if err != nil {
		return nil, err
	}
	extra, err := parse(doc.ExtraCore)
	if err != nil {
		return nil, err
	}
	build, err := parse(doc.Build)
	if err != nil {
		return nil, err
	}
	return NewSchema(core, extra, build)
}
