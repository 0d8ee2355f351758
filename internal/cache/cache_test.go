package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prPMDev/elevateli/internal/types"
)

func entryFixture(profileID, fingerprint string, computedAt time.Time) *types.CacheEntry {
	return &types.CacheEntry{
		ProfileID:   profileID,
		Fingerprint: fingerprint,
		Completeness: &types.CompletenessResult{
			Score:         72,
			SectionScores: map[types.Section]types.SubScore{},
		},
		Quality: &types.QualityResult{
			OverallScore:  7.5,
			SectionScores: map[types.Section]float64{types.SectionAbout: 8},
			ScoreCap:      10,
		},
		ComputedAt: computedAt,
	}
}

func TestCache_PutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore())
	entry := entryFixture("jane-doe", "f1", time.Now().UTC())

	require.NoError(t, c.Put(ctx, entry))

	got, err := c.Get(ctx, "jane-doe")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "f1", got.Fingerprint)
	assert.InDelta(t, 7.5, got.Quality.OverallScore, 0.001)
}

func TestCache_GetMiss(t *testing.T) {
	got, err := New(NewMemoryStore()).Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCache_CorruptEntryIsAMiss(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, map[string][]byte{"analysis:jane-doe": []byte("{not json")}))

	got, err := New(store).Get(ctx, "jane-doe")
	require.NoError(t, err, "corruption must not surface as a hard error")
	assert.Nil(t, got)
}

func TestCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore())
	require.NoError(t, c.Put(ctx, entryFixture("jane-doe", "f1", time.Now().UTC())))
	require.NoError(t, c.Invalidate(ctx, "jane-doe"))

	got, err := c.Get(ctx, "jane-doe")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCache_PutSupersedes(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore())
	require.NoError(t, c.Put(ctx, entryFixture("jane-doe", "f1", time.Now().UTC())))
	require.NoError(t, c.Put(ctx, entryFixture("jane-doe", "f2", time.Now().UTC())))

	got, err := c.Get(ctx, "jane-doe")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "f2", got.Fingerprint, "newer entry replaces, never merges")
}

func TestIsValid_ScenarioC_FingerprintMismatch(t *testing.T) {
	c := New(NewMemoryStore())
	entry := entryFixture("jane-doe", "f1", time.Now().UTC())

	assert.True(t, c.IsValid(entry, "f1", DefaultTTLDays))
	assert.False(t, c.IsValid(entry, "f2", DefaultTTLDays),
		"a changed fingerprint must force recomputation")
}

func TestIsValid_TTLExpiry(t *testing.T) {
	c := New(NewMemoryStore())
	entry := entryFixture("jane-doe", "f1", time.Now().UTC().Add(-8*24*time.Hour))

	assert.False(t, c.IsValid(entry, "f1", 7))
	assert.True(t, c.IsValid(entry, "f1", 30))
}

func TestIsValid_MissingScoreNeverValid(t *testing.T) {
	c := New(NewMemoryStore())
	entry := entryFixture("jane-doe", "f1", time.Now().UTC())
	entry.Quality = nil

	assert.False(t, c.IsValid(entry, "f1", DefaultTTLDays),
		"an entry without a numeric score is empty, not a valid zero")
	assert.False(t, c.IsValid(nil, "f1", DefaultTTLDays))
}

func TestClampTTL(t *testing.T) {
	assert.Equal(t, DefaultTTLDays, ClampTTL(0))
	assert.Equal(t, MinTTLDays, ClampTTL(-5))
	assert.Equal(t, MaxTTLDays, ClampTTL(90))
	assert.Equal(t, 14, ClampTTL(14))
}
