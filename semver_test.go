package zerv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSemVer(t *testing.T) {
	t.Run("Plain release", func(t *testing.T) {
		v, err := ParseSemVer("1.2.3")
		require.NoError(t, err)
		require.Equal(t, uint64(1), v.Major)
		require.Equal(t, uint64(2), v.Minor)
		require.Equal(t, uint64(3), v.Patch)
		require.Empty(t, v.Pre)
		require.Empty(t, v.Build)
	})

	t.Run("Leading v is tolerated", func(t *testing.T) {
		v, err := ParseSemVer("v2.0.1")
		require.NoError(t, err)
		require.Equal(t, "2.0.1", v.String())
	})

	t.Run("Pre-release and build identifiers keep numeric identity", func(t *testing.T) {
		v, err := ParseSemVer("1.0.0-rc.1+build.5")
		require.NoError(t, err)
		require.Equal(t, []Identifier{StrID("rc"), NumID(1)}, v.Pre)
		require.Equal(t, []Identifier{StrID("build"), NumID(5)}, v.Build)
	})

	t.Run("Leading zeros stay textual in build", func(t *testing.T) {
		v, err := ParseSemVer("1.0.0+007")
		require.NoError(t, err)
		require.Equal(t, []Identifier{StrID("007")}, v.Build)
	})

	t.Run("Garbage fails with a parse error", func(t *testing.T) {
		_, err := ParseSemVer("not-a-version")
		require.Error(t, err)
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		require.Equal(t, "not-a-version", perr.Input)
	})
}

func TestSemVerZerv(t *testing.T) {
	t.Run("Release numbers fill the core", func(t *testing.T) {
		z := mustParseSemVer(t, "1.2.3").Zerv()
		require.Equal(t, uint64(1), *z.Vars.Major)
		require.Equal(t, uint64(2), *z.Vars.Minor)
		require.Equal(t, uint64(3), *z.Vars.Patch)
		require.Empty(t, z.Schema.ExtraCore())
	})

	t.Run("Label with number becomes pre_release", func(t *testing.T) {
		z := mustParseSemVer(t, "1.2.3-rc.1").Zerv()
		require.NotNil(t, z.Vars.Pre)
		require.Equal(t, LabelRC, z.Vars.Pre.Label)
		require.Equal(t, uint64(1), *z.Vars.Pre.Number)
	})

	t.Run("Label spellings normalise case-insensitively", func(t *testing.T) {
		for _, input := range []string{"1.0.0-a.1", "1.0.0-A.1", "1.0.0-Alpha.1"} {
			z := mustParseSemVer(t, input).Zerv()
			require.NotNil(t, z.Vars.Pre, input)
			require.Equal(t, LabelAlpha, z.Vars.Pre.Label, input)
		}
	})

	t.Run("Named fields pair with the following number", func(t *testing.T) {
		z := mustParseSemVer(t, "1.2.3-epoch.2.alpha.1.post.3.dev.4").Zerv()
		require.Equal(t, uint64(2), *z.Vars.Epoch)
		require.Equal(t, LabelAlpha, z.Vars.Pre.Label)
		require.Equal(t, uint64(1), *z.Vars.Pre.Number)
		require.Equal(t, uint64(3), *z.Vars.Post)
		require.Equal(t, uint64(4), *z.Vars.Dev)
	})

	t.Run("Unrecognised tokens stay literal in order", func(t *testing.T) {
		z := mustParseSemVer(t, "1.2.3-nightly.7").Zerv()
		require.Nil(t, z.Vars.Post)
		require.Equal(t, []Component{Str("nightly"), Int(7)}, z.Schema.ExtraCore())
	})

	t.Run("Field name without a number flushes value-less", func(t *testing.T) {
		z := mustParseSemVer(t, "1.2.3-post").Zerv()
		require.Nil(t, z.Vars.Post)
		require.Equal(t, []Component{Str("post")}, z.Schema.ExtraCore())
	})

	t.Run("A second label escapes to a literal", func(t *testing.T) {
		z := mustParseSemVer(t, "1.2.3-alpha.beta.1").Zerv()
		require.NotNil(t, z.Vars.Pre)
		require.Equal(t, LabelAlpha, z.Vars.Pre.Label)
		require.Nil(t, z.Vars.Pre.Number)
		require.Equal(t,
			[]Component{Ref(V(VarPreRelease)), Str("beta"), Int(1)},
			z.Schema.ExtraCore())
	})

	t.Run("Build identifiers become literal components", func(t *testing.T) {
		z := mustParseSemVer(t, "1.2.3+gmain.g29045e8").Zerv()
		require.Equal(t, []Component{Str("gmain"), Str("g29045e8")}, z.Schema.Build())
	})
}

func TestSemVerRoundTrip(t *testing.T) {
	inputs := []string{
		"1.2.3",
		"0.0.1",
		"1.2.3-rc.1",
		"1.2.3-alpha",
		"1.2.3-post",
		"1.2.3-post.7",
		"1.2.3-epoch.2.alpha.1.post.3.dev.4",
		"1.2.3-nightly.7",
		"1.2.3-alpha.beta.1",
		"1.2.3-post.7+gmain.g29045e8",
		"1.2.3+build.5",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			v, err := ParseSemVer(input)
			require.NoError(t, err)

			rendered, err := SemVerFromZerv(v.Zerv(), true)
			require.NoError(t, err)
			require.Equal(t, input, rendered.String())
		})
	}
}

func TestSemVerFromZerv(t *testing.T) {
	t.Run("Missing release numbers default to zero", func(t *testing.T) {
		z := mustParsePEP440(t, "1.2").Zerv()
		v, err := SemVerFromZerv(z, false)
		require.NoError(t, err)
		require.Equal(t, "1.2.0", v.String())
	})

	t.Run("Fourth release number flattens into pre-release", func(t *testing.T) {
		z := mustParsePEP440(t, "1.2.3.4").Zerv()
		v, err := SemVerFromZerv(z, false)
		require.NoError(t, err)
		require.Equal(t, "1.2.3-4", v.String())
	})

	t.Run("Context values are sanitised for semver", func(t *testing.T) {
		schema := mustSchema(standardCore, nil, []Component{Ref(V(VarBumpedBranch))})
		z := &Zerv{
			Vars: Vars{
				Major:        uintPtr(1),
				Minor:        uintPtr(0),
				Patch:        uintPtr(0),
				BumpedBranch: strPtr("feature/ABC_123"),
			},
			Schema: schema,
		}
		v, err := SemVerFromZerv(z, true)
		require.NoError(t, err)
		require.Equal(t, "1.0.0+feature.ABC.123", v.String())
	})

	t.Run("Value-less context variable is skipped by default", func(t *testing.T) {
		schema := mustSchema(standardCore, nil, []Component{Ref(V(VarBumpedBranch))})
		z := &Zerv{Vars: Vars{Major: uintPtr(1), Minor: uintPtr(0), Patch: uintPtr(0)}, Schema: schema}

		v, err := SemVerFromZerv(z, false)
		require.NoError(t, err)
		require.Equal(t, "1.0.0", v.String())
	})

	t.Run("Value-less context variable fails in strict mode", func(t *testing.T) {
		schema := mustSchema(standardCore, nil, []Component{Ref(V(VarBumpedBranch))})
		z := &Zerv{Vars: Vars{Major: uintPtr(1), Minor: uintPtr(0), Patch: uintPtr(0)}, Schema: schema}

		_, err := SemVerFromZerv(z, true)
		var uerr *UnsupportedSchemaError
		require.ErrorAs(t, err, &uerr)
		require.Equal(t, "semver", uerr.Format)
	})
}

func mustParseSemVer(t *testing.T, input string) *SemVer {
	t.Helper()
	v, err := ParseSemVer(input)
	require.NoError(t, err)
	return v
}

func mustParsePEP440(t *testing.T, input string) *PEP440 {
	t.Helper()
	p, err := ParsePEP440(input)
	require.NoError(t, err)
	return p
}
