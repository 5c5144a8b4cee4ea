package zerv

import "fmt"

// Version string formats.
const (
	FormatAuto   = "auto"
	FormatSemVer = "semver"
	FormatPEP440 = "pep440"
)

// ParseVersion parses a version string in the named format into the
// variable/schema model. FormatAuto tries semver first, then PEP 440.
func ParseVersion(input, format string) (*Zerv, error) {
	switch format {
	case FormatSemVer:
		v, err := ParseSemVer(input)
		if err != nil {
			return nil, err
		}
		return v.Zerv(), nil
	case FormatPEP440:
		p, err := ParsePEP440(input)
		if err != nil {
			return nil, err
		}
		return p.Zerv(), nil
	case FormatAuto, "":
		if v, err := ParseSemVer(input); err == nil {
			return v.Zerv(), nil
		}
		if p, err := ParsePEP440(input); err == nil {
			return p.Zerv(), nil
		}
		return nil, &ParseError{Input: input, Msg: "not a valid semver or PEP 440 version"}
	}
	return nil, fmt.Errorf("unknown input format %q", format)
}

// FormatVersion renders the version state in the named output format.
func FormatVersion(z *Zerv, format string, strict bool) (string, error) {
	switch format {
	case FormatSemVer:
		v, err := SemVerFromZerv(z, strict)
		if err != nil {
			return "", err
		}
		return v.String(), nil
	case FormatPEP440:
		p, err := PEP440FromZerv(z, strict)
		if err != nil {
			return "", err
		}
		return p.String(), nil
	}
	return "", fmt.Errorf("unknown output format %q", format)
}

// CheckVersion reports whether input is a valid version in the named
// format.
func CheckVersion(input, format string) bool {
	_, err := ParseVersion(input, format)
	return err == nil
}
