package zerv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePEP440(t *testing.T) {
	t.Run("Alternate spellings normalise", func(t *testing.T) {
		tests := []struct {
			input string
			want  string
		}{
			{"1.2.3", "1.2.3"},
			{"v1.2.3", "1.2.3"},
			{"1.2.3a1", "1.2.3a1"},
			{"1.2.3.alpha.1", "1.2.3a1"},
			{"1.2.3-beta_2", "1.2.3b2"},
			{"1.2.3preview2", "1.2.3rc2"},
			{"1.2.3pre1", "1.2.3rc1"},
			{"1.2.3C4", "1.2.3rc4"},
			{"1.2.3a", "1.2.3a0"},
			{"1.2.3.post7", "1.2.3.post7"},
			{"1.2.3-7", "1.2.3.post7"},
			{"1.2.3rev3", "1.2.3.post3"},
			{"1.2.3.post", "1.2.3.post0"},
			{"1.2.3.dev5", "1.2.3.dev5"},
			{"1.2.3dev", "1.2.3.dev0"},
			{"2!1.0", "2!1.0"},
			{"0!1.0", "1.0"},
			{"1.2.3+Foo.007.BAR", "1.2.3+foo.7.bar"},
			{"1.2", "1.2"},
			{"1.2.3.4.5", "1.2.3.4.5"},
		}

		for _, tt := range tests {
			p, err := ParsePEP440(tt.input)
			require.NoError(t, err, tt.input)
			require.Equal(t, tt.want, p.String(), tt.input)
		}
	})

	t.Run("Qualifiers land in their fields", func(t *testing.T) {
		p, err := ParsePEP440("2!1.2.3a4.post5.dev6+local.7")
		require.NoError(t, err)
		require.Equal(t, uint64(2), p.Epoch)
		require.Equal(t, []uint64{1, 2, 3}, p.Release)
		require.Equal(t, LabelAlpha, p.PreLabel)
		require.Equal(t, uint64(4), *p.PreNumber)
		require.Equal(t, uint64(5), *p.Post)
		require.Equal(t, uint64(6), *p.Dev)
		require.Equal(t, []Identifier{StrID("local"), NumID(7)}, p.Local)
	})

	t.Run("Invalid inputs fail with a parse error", func(t *testing.T) {
		for _, input := range []string{"", "abc", "1.2.3..4", "1.2.3+"} {
			_, err := ParsePEP440(input)
			require.Error(t, err, input)
			var perr *ParseError
			require.ErrorAs(t, err, &perr, input)
		}
	})

	t.Run("Overflowing qualifier numbers fail with a parse error", func(t *testing.T) {
		const big = "99999999999999999999"
		for _, input := range []string{
			"1.2.3a" + big,
			"1.2.3-" + big,
			"1.2.3.post" + big,
			"1.2.3.dev" + big,
			"1.2.3+" + big,
		} {
			_, err := ParsePEP440(input)
			require.Error(t, err, input)
			var perr *ParseError
			require.ErrorAs(t, err, &perr, input)
		}
	})
}

func TestPEP440Zerv(t *testing.T) {
	t.Run("First three release numbers take the core slots", func(t *testing.T) {
		z := mustParsePEP440(t, "1.2.3.4").Zerv()
		require.Equal(t, uint64(1), *z.Vars.Major)
		require.Equal(t, uint64(2), *z.Vars.Minor)
		require.Equal(t, uint64(3), *z.Vars.Patch)
		require.Len(t, z.Schema.Core(), 4)
		require.Equal(t, Int(4), z.Schema.Core()[3])
	})

	t.Run("Short release keeps its length", func(t *testing.T) {
		z := mustParsePEP440(t, "1.2").Zerv()
		require.Nil(t, z.Vars.Patch)
		require.Len(t, z.Schema.Core(), 2)
	})

	t.Run("Local segments become literal build components", func(t *testing.T) {
		z := mustParsePEP440(t, "1.2.3+gmain.g29045e8").Zerv()
		require.Equal(t, []Component{Str("gmain"), Str("g29045e8")}, z.Schema.Build())
	})
}

func TestPEP440RoundTrip(t *testing.T) {
	inputs := []string{
		"1.2.3",
		"1.2",
		"1.2.3.4.5",
		"2!1.2.3",
		"1.2.3a1",
		"1.2.3b0",
		"1.2.3rc2",
		"1.2.3.post7",
		"1.2.3.dev5",
		"2!1.2.3a4.post5.dev6+local.7",
		"1.2.3.post7+gmain.g29045e8",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			p, err := ParsePEP440(input)
			require.NoError(t, err)

			rendered, err := PEP440FromZerv(p.Zerv(), true)
			require.NoError(t, err)
			require.Equal(t, input, rendered.String())
		})
	}
}

func TestCrossFormatConversion(t *testing.T) {
	t.Run("SemVer pre-release maps into PEP 440 qualifiers", func(t *testing.T) {
		z := mustParseSemVer(t, "1.2.3-alpha.1+build.5").Zerv()
		p, err := PEP440FromZerv(z, true)
		require.NoError(t, err)
		require.Equal(t, "1.2.3a1+build.5", p.String())
	})

	t.Run("PEP 440 qualifiers map into semver pre-release", func(t *testing.T) {
		z := mustParsePEP440(t, "1.2.3.post7+gmain.g29045e8").Zerv()
		v, err := SemVerFromZerv(z, true)
		require.NoError(t, err)
		require.Equal(t, "1.2.3-post.7+gmain.g29045e8", v.String())
	})

	t.Run("Unrecognised semver tokens join the local segment", func(t *testing.T) {
		z := mustParseSemVer(t, "1.2.3-nightly.7").Zerv()
		p, err := PEP440FromZerv(z, true)
		require.NoError(t, err)
		require.Equal(t, "1.2.3+nightly.7", p.String())
	})

	t.Run("Epoch survives both directions", func(t *testing.T) {
		z := mustParsePEP440(t, "2!1.0.0").Zerv()
		v, err := SemVerFromZerv(z, true)
		require.NoError(t, err)
		require.Equal(t, "1.0.0-epoch.2", v.String())

		back, err := PEP440FromZerv(mustParseSemVer(t, v.String()).Zerv(), true)
		require.NoError(t, err)
		require.Equal(t, "2!1.0.0", back.String())
	})
}
