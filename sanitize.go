package zerv

import "strings"

// Sanitizer rewrites arbitrary values into tokens a target format accepts.
// Runs of disallowed characters collapse into a single separator, numeric
// segments lose leading zeros, and nothing surviving means no token at all.
type Sanitizer struct {
	numeric   bool
	separator string
	lowercase bool
	allowDash bool
}

// SemVerSanitizer cleans values for semver pre-release and build
// identifiers: dots separate segments, dashes and case survive.
func SemVerSanitizer() Sanitizer {
	return Sanitizer{separator: ".", allowDash: true}
}

// PEP440LocalSanitizer cleans values for PEP 440 local version segments,
// which are lowercase alphanumerics separated by dots.
func PEP440LocalSanitizer() Sanitizer {
	return Sanitizer{separator: ".", lowercase: true}
}

// UintSanitizer reduces a value to its decimal digits.
func UintSanitizer() Sanitizer {
	return Sanitizer{numeric: true}
}

// KeySanitizer cleans variable names for use as identifier keys:
// lowercase, with underscores and other punctuation becoming dots.
func KeySanitizer() Sanitizer {
	return Sanitizer{separator: ".", lowercase: true}
}

// Clean sanitises in for the target format. The second return is false
// when no characters survive.
func (s Sanitizer) Clean(in string) (string, bool) {
	if s.numeric {
		return cleanNumeric(in)
	}

	var b strings.Builder
	pending := false
	for _, r := range in {
		if s.allowed(r) {
			if pending && b.Len() > 0 {
				b.WriteString(s.separator)
			}
			pending = false
			b.WriteRune(r)
		} else {
			pending = true
		}
	}

	out := b.String()
	if s.lowercase {
		out = strings.ToLower(out)
	}
	out = stripSegmentZeros(out, s.separator)
	if out == "" {
		return "", false
	}
	return out, true
}

func (s Sanitizer) allowed(r rune) bool {
	switch {
	case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r == '-':
		return s.allowDash
	}
	return false
}

func cleanNumeric(in string) (string, bool) {
	var b strings.Builder
	for _, r := range in {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "", false
	}
	return trimLeadingZeros(b.String()), true
}

// stripSegmentZeros removes leading zeros from all-digit segments, so that
// numeric identifiers stay valid in formats that forbid them.
func stripSegmentZeros(in, separator string) string {
	if separator == "" {
		return in
	}
	parts := strings.Split(in, separator)
	for i, p := range parts {
		if p != "" && isDigits(p) {
			parts[i] = trimLeadingZeros(p)
		}
	}
	return strings.Join(parts, separator)
}

func trimLeadingZeros(s string) string {
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
