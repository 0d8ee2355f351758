//nolint:revive // types is a standard Go package name pattern
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshot_AllSectionsPresent(t *testing.T) {
	snap := NewSnapshot("jane-doe")

	require.Len(t, snap.Sections, len(SectionOrder))
	for _, sec := range SectionOrder {
		res, ok := snap.Sections[sec]
		require.True(t, ok, "section %s must have a key", sec)
		assert.False(t, res.Exists)
	}
}

func TestSnapshot_SetNormalizesCounts(t *testing.T) {
	snap := NewSnapshot("jane-doe")

	snap.Set(SectionExperience, SectionResult{
		Exists:       true,
		VisibleCount: 5,
		TotalCount:   3, // inconsistent: must be raised to VisibleCount
		Phase:        PhaseScan,
	})

	res := snap.Get(SectionExperience)
	assert.Equal(t, 5, res.TotalCount)
	assert.False(t, res.HasMore)

	snap.Set(SectionExperience, SectionResult{
		Exists:       true,
		VisibleCount: 5,
		TotalCount:   12,
		Phase:        PhaseScan,
	})
	res = snap.Get(SectionExperience)
	assert.True(t, res.HasMore)
}

func TestSnapshot_SetDerivesCharCount(t *testing.T) {
	snap := NewSnapshot("jane-doe")
	snap.Set(SectionAbout, SectionResult{Exists: true, Text: "hello", Phase: PhaseExtract})
	assert.Equal(t, 5, snap.Get(SectionAbout).CharCount)
}

func TestSnapshot_FingerprintIsPure(t *testing.T) {
	snap := NewSnapshot("jane-doe")
	snap.Set(SectionAbout, SectionResult{Exists: true, CharCount: 850, Phase: PhaseScan})
	snap.Set(SectionSkills, SectionResult{Exists: true, VisibleCount: 2, TotalCount: 18, Phase: PhaseScan})

	first := snap.Fingerprint()
	second := snap.Fingerprint()
	assert.Equal(t, first, second, "fingerprint must be a pure function of the snapshot")
	assert.Len(t, first, 64)
}

func TestSnapshot_FingerprintIgnoresRawText(t *testing.T) {
	a := NewSnapshot("jane-doe")
	a.Set(SectionAbout, SectionResult{Exists: true, Text: "rendered one way", CharCount: 100, Phase: PhaseDeep})

	b := NewSnapshot("jane-doe")
	b.Set(SectionAbout, SectionResult{Exists: true, Text: "rendered другой way!", CharCount: 100, Phase: PhaseDeep})

	assert.Equal(t, a.Fingerprint(), b.Fingerprint(),
		"same coarse features must fingerprint identically regardless of raw text")
}

func TestSnapshot_FingerprintChangesOnSubstantiveEdit(t *testing.T) {
	a := NewSnapshot("jane-doe")
	a.Set(SectionAbout, SectionResult{Exists: true, CharCount: 100, Phase: PhaseScan})

	b := NewSnapshot("jane-doe")
	b.Set(SectionAbout, SectionResult{Exists: true, CharCount: 500, Phase: PhaseScan})

	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestCacheEntry_HasScore(t *testing.T) {
	entry := &CacheEntry{ProfileID: "jane-doe", Fingerprint: "abc"}
	assert.False(t, entry.HasScore(), "entry without quality is never a valid zero result")

	entry.Quality = &QualityResult{}
	assert.False(t, entry.HasScore())

	entry.Quality.OverallScore = 5.0
	assert.True(t, entry.HasScore())
}
