package zerv

import "cmp"

// Compare orders two semver versions by precedence: the release numbers
// first, then the pre-release identifiers, where a version without a
// pre-release ranks above one carrying any. Numeric identifiers rank
// below textual ones, and when one identifier list is a prefix of the
// other the shorter ranks lower. Build metadata never takes part.
func (v *SemVer) Compare(other *SemVer) int {
	if c := cmp.Compare(v.Major, other.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Minor, other.Minor); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Patch, other.Patch); c != 0 {
		return c
	}
	switch {
	case len(v.Pre) == 0 && len(other.Pre) == 0:
		return 0
	case len(v.Pre) == 0:
		return 1
	case len(other.Pre) == 0:
		return -1
	}
	return compareIdentifiers(v.Pre, other.Pre)
}

// Compare orders two PEP 440 versions: epoch, release numbers, then the
// qualifiers in stage order. A short release ranks below a longer one
// sharing its prefix, so "1.0" sorts before "1.0.0". A pre-release ranks
// below the plain release, a post-release above it, a dev number below
// its own stage, and a local segment above the same version without one.
func (p *PEP440) Compare(other *PEP440) int {
	if c := cmp.Compare(p.Epoch, other.Epoch); c != 0 {
		return c
	}
	for i := 0; i < len(p.Release) && i < len(other.Release); i++ {
		if c := cmp.Compare(p.Release[i], other.Release[i]); c != 0 {
			return c
		}
	}
	if c := cmp.Compare(len(p.Release), len(other.Release)); c != 0 {
		return c
	}
	if c := comparePre(p, other); c != 0 {
		return c
	}
	if c := compareNumber(p.Post, other.Post, false); c != 0 {
		return c
	}
	if c := compareNumber(p.Dev, other.Dev, true); c != 0 {
		return c
	}
	switch {
	case len(p.Local) == 0 && len(other.Local) == 0:
		return 0
	case len(p.Local) == 0:
		return -1
	case len(other.Local) == 0:
		return 1
	}
	return compareIdentifiers(p.Local, other.Local)
}

func comparePre(a, b *PEP440) int {
	switch {
	case a.PreLabel == "" && b.PreLabel == "":
		return 0
	case a.PreLabel == "":
		return 1
	case b.PreLabel == "":
		return -1
	}
	if c := cmp.Compare(a.PreLabel.rank(), b.PreLabel.rank()); c != 0 {
		return c
	}
	return compareNumber(a.PreNumber, b.PreNumber, false)
}

// compareNumber orders two optional numbers. absentWins picks which side
// of the present values an absent one lands on: a missing dev number
// ranks above any present one, a missing pre or post number below.
func compareNumber(a, b *uint64, absentWins bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		if absentWins {
			return 1
		}
		return -1
	case b == nil:
		if absentWins {
			return -1
		}
		return 1
	}
	return cmp.Compare(*a, *b)
}

func compareIdentifiers(a, b []Identifier) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := a[i].compare(b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

func (id Identifier) compare(other Identifier) int {
	switch {
	case id.IsNum && other.IsNum:
		return cmp.Compare(id.Num, other.Num)
	case id.IsNum:
		return -1
	case other.IsNum:
		return 1
	}
	return cmp.Compare(id.Str, other.Str)
}

func (l PreReleaseLabel) rank() int {
	switch l {
	case LabelAlpha:
		return 0
	case LabelBeta:
		return 1
	default:
		return 2
	}
}
