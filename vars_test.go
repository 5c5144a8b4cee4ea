package zerv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarFromName(t *testing.T) {
	t.Run("Registry names resolve both ways", func(t *testing.T) {
		for kind, name := range varNames {
			v, ok := VarFromName(name)
			require.True(t, ok, name)
			require.Equal(t, kind, v.Kind)
			require.Equal(t, name, v.String())
		}
	})

	t.Run("Unregistered names do not resolve", func(t *testing.T) {
		for _, name := range []string{"", "hash", "custom", "ts"} {
			_, ok := VarFromName(name)
			require.False(t, ok, name)
		}
	})
}

func TestVarResolve(t *testing.T) {
	vars := &Vars{
		Major:            uintPtr(1),
		Distance:         uintPtr(7),
		Dirty:            boolPtr(true),
		BumpedBranch:     strPtr("gmain"),
		BumpedCommitHash: strPtr("g29045e8f4b2d"),
		BumpedTimestamp:  uintPtr(1735732800),
		Custom: map[string]any{
			"build": map[string]any{"id": 42, "ci": true},
			"name":  "orion",
		},
	}

	tests := []struct {
		v    Var
		want string
	}{
		{V(VarMajor), "1"},
		{V(VarDistance), "7"},
		{V(VarDirty), "dirty"},
		{V(VarBumpedBranch), "gmain"},
		{V(VarBumpedCommitHash), "g29045e8f4b2d"},
		{V(VarBumpedCommitHashShort), "g29045e8"},
		{V(VarBumpedTimestamp), "1735732800"},
		{CustomVar("name"), "orion"},
		{CustomVar("build.id"), "42"},
		{CustomVar("build.ci"), "true"},
		{TimestampVar("YYYY"), "2025"},
		{TimestampVar(PatternCompactDatetime), "20250101120000"},
	}

	for _, tt := range tests {
		t.Run(tt.v.String(), func(t *testing.T) {
			value, ok := tt.v.Resolve(vars)
			require.True(t, ok)
			require.Equal(t, tt.want, value)
		})
	}

	t.Run("Absent fields do not resolve", func(t *testing.T) {
		for _, v := range []Var{
			V(VarMinor), V(VarEpoch), V(VarPreRelease),
			V(VarLastBranch), CustomVar("build.missing"), CustomVar("build"),
		} {
			_, ok := v.Resolve(vars)
			require.False(t, ok, v.String())
		}
	})

	t.Run("A clean state does not resolve dirty", func(t *testing.T) {
		_, ok := V(VarDirty).Resolve(&Vars{Dirty: boolPtr(false)})
		require.False(t, ok)
	})

	t.Run("Pre-release resolves label and number", func(t *testing.T) {
		value, ok := V(VarPreRelease).Resolve(&Vars{Pre: &PreRelease{Label: LabelRC, Number: uintPtr(2)}})
		require.True(t, ok)
		require.Equal(t, "rc.2", value)

		value, ok = V(VarPreRelease).Resolve(&Vars{Pre: &PreRelease{Label: LabelBeta}})
		require.True(t, ok)
		require.Equal(t, "beta", value)
	})
}

func TestComponentText(t *testing.T) {
	components := []Component{
		Str("g"), Int(42), Ref(V(VarMajor)),
		Ref(CustomVar("build.id")), Ref(TimestampVar("YYYY0M")),
	}

	for _, c := range components {
		t.Run(c.String(), func(t *testing.T) {
			text, err := c.MarshalText()
			require.NoError(t, err)

			var back Component
			require.NoError(t, back.UnmarshalText(text))
			require.Equal(t, c, back)
		})
	}
}
