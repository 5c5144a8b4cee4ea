package zerv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testFacts() Facts {
	return Facts{
		TagVersion:      "1.2.3",
		Branch:          "main",
		CommitHash:      "29045e8f4b2d1c6a9e3f7b0d2c5a8e1f4b7d0c3a",
		CommitTimestamp: 1735732800, // 2025-01-01 12:00:00 UTC
	}
}

func TestClassify(t *testing.T) {
	t.Run("Exact clean tag renders the core alone", func(t *testing.T) {
		z, err := Classify(testFacts(), ClassifyOptions{})
		require.NoError(t, err)

		semverOut, err := FormatVersion(z, FormatSemVer, true)
		require.NoError(t, err)
		require.Equal(t, "1.2.3", semverOut)

		pepOut, err := FormatVersion(z, FormatPEP440, true)
		require.NoError(t, err)
		require.Equal(t, "1.2.3", pepOut)
	})

	t.Run("Distance maps to post with branch and commit context", func(t *testing.T) {
		facts := testFacts()
		facts.Distance = 7

		z, err := Classify(facts, ClassifyOptions{})
		require.NoError(t, err)

		pepOut, err := FormatVersion(z, FormatPEP440, true)
		require.NoError(t, err)
		require.Equal(t, "1.2.3.post7+gmain.g29045e8", pepOut)

		semverOut, err := FormatVersion(z, FormatSemVer, true)
		require.NoError(t, err)
		require.Equal(t, "1.2.3-post.7+gmain.g29045e8", semverOut)
	})

	t.Run("Dirty state adds a dev timestamp", func(t *testing.T) {
		facts := testFacts()
		facts.Distance = 7
		facts.Dirty = true

		z, err := Classify(facts, ClassifyOptions{DevTimestamp: 20250101120000})
		require.NoError(t, err)

		pepOut, err := FormatVersion(z, FormatPEP440, true)
		require.NoError(t, err)
		require.Equal(t, "1.2.3.post7.dev20250101120000+gmain.g29045e8", pepOut)
	})

	t.Run("Dev timestamp derives from the commit when unset", func(t *testing.T) {
		facts := testFacts()
		facts.Dirty = true

		z, err := Classify(facts, ClassifyOptions{})
		require.NoError(t, err)
		require.Equal(t, uint64(20250101120000), *z.Vars.Dev)
	})

	t.Run("Dirtiness dominates distance", func(t *testing.T) {
		for _, distance := range []uint64{0, 1, 7, 100} {
			facts := testFacts()
			facts.Distance = distance
			facts.Dirty = true

			z, err := Classify(facts, ClassifyOptions{})
			require.NoError(t, err)
			require.NotNil(t, z.Vars.Dev, "distance %d", distance)
			require.Equal(t, distance, *z.Vars.Post, "distance %d", distance)
		}
	})

	t.Run("No tag falls back to the base version", func(t *testing.T) {
		facts := testFacts()
		facts.TagVersion = ""

		z, err := Classify(facts, ClassifyOptions{BaseVersion: "0.1.0"})
		require.NoError(t, err)

		semverOut, err := FormatVersion(z, FormatSemVer, true)
		require.NoError(t, err)
		require.Equal(t, "0.1.0", semverOut)
	})

	t.Run("No tag and no base version fails", func(t *testing.T) {
		facts := testFacts()
		facts.TagVersion = ""

		_, err := Classify(facts, ClassifyOptions{})
		require.ErrorIs(t, err, ErrMissingBaseVersion)
	})

	t.Run("Tag qualifiers keep rendering at every tier", func(t *testing.T) {
		facts := testFacts()
		facts.TagVersion = "1.2.3-rc.1"

		z, err := Classify(facts, ClassifyOptions{})
		require.NoError(t, err)
		semverOut, err := FormatVersion(z, FormatSemVer, true)
		require.NoError(t, err)
		require.Equal(t, "1.2.3-rc.1", semverOut)

		facts.Distance = 7
		z, err = Classify(facts, ClassifyOptions{})
		require.NoError(t, err)
		pepOut, err := FormatVersion(z, FormatPEP440, true)
		require.NoError(t, err)
		require.Equal(t, "1.2.3rc1.post7+gmain.g29045e8", pepOut)
	})

	t.Run("Tag epoch survives classification", func(t *testing.T) {
		facts := testFacts()
		facts.TagVersion = "2!1.2.3"

		z, err := Classify(facts, ClassifyOptions{})
		require.NoError(t, err)
		pepOut, err := FormatVersion(z, FormatPEP440, true)
		require.NoError(t, err)
		require.Equal(t, "2!1.2.3", pepOut)
	})

	t.Run("PEP 440 tags parse too", func(t *testing.T) {
		facts := testFacts()
		facts.TagVersion = "1.2.3a1"

		z, err := Classify(facts, ClassifyOptions{})
		require.NoError(t, err)
		require.Equal(t, LabelAlpha, z.Vars.Pre.Label)
	})

	t.Run("Object prefix is configurable", func(t *testing.T) {
		facts := testFacts()
		facts.Distance = 1
		facts.ObjectPrefix = "x"

		z, err := Classify(facts, ClassifyOptions{})
		require.NoError(t, err)
		require.Equal(t, "xmain", *z.Vars.BumpedBranch)
	})

	t.Run("Calendar scheme draws the core from the timestamp", func(t *testing.T) {
		z, err := Classify(testFacts(), ClassifyOptions{Calendar: true})
		require.NoError(t, err)

		semverOut, err := FormatVersion(z, FormatSemVer, true)
		require.NoError(t, err)
		require.Equal(t, "2025.1.3", semverOut)
	})
}
