//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// CacheEntry is one cached analysis result. Identity is
// (ProfileID, Fingerprint); at most one entry is current per profile.
// A newer entry with a different fingerprint supersedes, never merges.
type CacheEntry struct {
	ProfileID    string              `json:"profile_id"`
	Fingerprint  string              `json:"fingerprint"`
	Completeness *CompletenessResult `json:"completeness"`
	Quality      *QualityResult      `json:"quality,omitempty"`
	ComputedAt   time.Time           `json:"computed_at"`
}

// HasScore reports whether the entry holds a real numeric quality score.
// An entry without one is always treated as a cache miss, never as a valid
// "zero" result.
func (e *CacheEntry) HasScore() bool {
	return e != nil && e.Quality != nil && e.Quality.OverallScore > 0
}

// Age returns how long ago the entry was computed.
func (e *CacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.ComputedAt)
}
