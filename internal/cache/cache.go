package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/prPMDev/elevateli/internal/types"
)

// TTL bounds in days, user-configurable.
const (
	MinTTLDays     = 1
	MaxTTLDays     = 30
	DefaultTTLDays = 7
)

// maxEntryBytes is the per-key byte budget. Entries over budget are stored
// with their narrative payload stripped rather than rejected.
const maxEntryBytes = 64 * 1024

const keyPrefix = "analysis:"

// Cache reads and writes analysis results through the Store collaborator.
// Writes replace the full entry for a profile; concurrent writers resolve by
// last write wins, an accepted race for this single-user workload.
type Cache struct {
	store Store
	now   func() time.Time
}

// New creates a cache over the given store.
func New(store Store) *Cache {
	return &Cache{store: store, now: time.Now}
}

// Get returns the current entry for a profile, or nil on a miss. A stored
// value that fails to decode is treated as a miss, never surfaced as an
// error: corrupted cache must trigger fresh computation, not break the run.
func (c *Cache) Get(ctx context.Context, profileID string) (*types.CacheEntry, error) {
	key := keyPrefix + profileID
	values, err := c.store.Get(ctx, []string{key})
	if err != nil {
		return nil, fmt.Errorf("cache read for %s: %w", profileID, err)
	}
	raw, ok := values[key]
	if !ok {
		return nil, nil
	}

	var entry types.CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		log.Printf("[cache] corrupt entry for %s treated as miss: %v", profileID, err)
		return nil, nil
	}
	return &entry, nil
}

// Put stores the entry, superseding whatever was current for the profile.
func (c *Cache) Put(ctx context.Context, entry *types.CacheEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("cache encode for %s: %w", entry.ProfileID, err)
	}
	if len(raw) > maxEntryBytes {
		raw, err = json.Marshal(trimmed(entry))
		if err != nil {
			return fmt.Errorf("cache encode for %s: %w", entry.ProfileID, err)
		}
	}
	if err := c.store.Set(ctx, map[string][]byte{keyPrefix + entry.ProfileID: raw}); err != nil {
		return fmt.Errorf("cache write for %s: %w", entry.ProfileID, err)
	}
	return nil
}

// Invalidate removes the entry outright to reclaim storage budget.
func (c *Cache) Invalidate(ctx context.Context, profileID string) error {
	if err := c.store.Remove(ctx, []string{keyPrefix + profileID}); err != nil {
		return fmt.Errorf("cache invalidate for %s: %w", profileID, err)
	}
	return nil
}

// IsValid reports whether an entry can stand in for a fresh analysis:
// the fingerprint must match the current snapshot, the entry must be younger
// than the TTL, and it must hold a real numeric score. An entry without a
// score is always invalid so an empty cache never displays as a zero result.
func (c *Cache) IsValid(entry *types.CacheEntry, currentFingerprint string, ttlDays int) bool {
	if entry == nil || !entry.HasScore() {
		return false
	}
	if entry.Fingerprint != currentFingerprint {
		return false
	}
	return entry.Age(c.now()) < time.Duration(ClampTTL(ttlDays))*24*time.Hour
}

// ClampTTL bounds a user-supplied TTL into the supported range, mapping
// zero to the default.
func ClampTTL(days int) int {
	switch {
	case days == 0:
		return DefaultTTLDays
	case days < MinTTLDays:
		return MinTTLDays
	case days > MaxTTLDays:
		return MaxTTLDays
	}
	return days
}

// trimmed drops the narrative payload to fit the byte budget; the scores and
// the fingerprint always survive.
func trimmed(entry *types.CacheEntry) *types.CacheEntry {
	out := *entry
	if out.Quality != nil {
		q := *out.Quality
		q.Insights = nil
		q.Recommendations = nil
		out.Quality = &q
	}
	return &out
}
