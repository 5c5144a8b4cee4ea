package zerv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSemVerCompare(t *testing.T) {
	t.Run("Versions order by precedence", func(t *testing.T) {
		ordered := []string{
			"1.0.0-alpha",
			"1.0.0-alpha.1",
			"1.0.0-alpha.beta",
			"1.0.0-beta",
			"1.0.0-beta.2",
			"1.0.0-beta.11",
			"1.0.0-rc.1",
			"1.0.0",
			"1.0.1",
			"1.1.0",
			"2.0.0",
		}

		for i := 1; i < len(ordered); i++ {
			lo := mustParseSemVer(t, ordered[i-1])
			hi := mustParseSemVer(t, ordered[i])
			require.Negative(t, lo.Compare(hi), "%s < %s", ordered[i-1], ordered[i])
			require.Positive(t, hi.Compare(lo), "%s > %s", ordered[i], ordered[i-1])
		}
	})

	t.Run("Equal versions compare as equal", func(t *testing.T) {
		a := mustParseSemVer(t, "1.2.3-rc.1")
		b := mustParseSemVer(t, "v1.2.3-rc.1")
		require.Zero(t, a.Compare(b))
	})

	t.Run("Build metadata never affects the order", func(t *testing.T) {
		a := mustParseSemVer(t, "1.2.3+gmain.g29045e8")
		b := mustParseSemVer(t, "1.2.3+other")
		require.Zero(t, a.Compare(b))
	})
}

func TestPEP440Compare(t *testing.T) {
	t.Run("Versions order by precedence", func(t *testing.T) {
		ordered := []string{
			"1.0a",
			"1.0a1",
			"1.0b1",
			"1.0rc1",
			"1.0.dev1",
			"1.0",
			"1.0+local",
			"1.0.post1.dev1",
			"1.0.post1",
			"1.0.0",
			"1.0.1",
			"2!0.1",
		}

		for i := 1; i < len(ordered); i++ {
			lo := mustParsePEP440(t, ordered[i-1])
			hi := mustParsePEP440(t, ordered[i])
			require.Negative(t, lo.Compare(hi), "%s < %s", ordered[i-1], ordered[i])
			require.Positive(t, hi.Compare(lo), "%s > %s", ordered[i], ordered[i-1])
		}
	})

	t.Run("Alternate spellings compare as equal", func(t *testing.T) {
		a := mustParsePEP440(t, "1.2.3.alpha.1")
		b := mustParsePEP440(t, "1.2.3a1")
		require.Zero(t, a.Compare(b))
	})

	t.Run("Short releases rank below longer ones sharing a prefix", func(t *testing.T) {
		short := mustParsePEP440(t, "1.0")
		long := mustParsePEP440(t, "1.0.0")
		require.Negative(t, short.Compare(long))
	})

	t.Run("Local segments order element-wise", func(t *testing.T) {
		ordered := []string{"1.0", "1.0+7", "1.0+abc", "1.0+abc.5", "1.0+abc.def"}
		for i := 1; i < len(ordered); i++ {
			lo := mustParsePEP440(t, ordered[i-1])
			hi := mustParsePEP440(t, ordered[i])
			require.Negative(t, lo.Compare(hi), "%s < %s", ordered[i-1], ordered[i])
		}
	})
}
