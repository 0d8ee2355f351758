//nolint:revive // types is a standard Go package name pattern
package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Snapshot maps every known section to its most recent SectionResult for one
// analysis run. It is owned by the orchestrator for the duration of the run
// and must not be mutated once the run completes.
type Snapshot struct {
	ProfileID  string                    `json:"profile_id"`
	Sections   map[Section]SectionResult `json:"sections"`
	CapturedAt time.Time                 `json:"captured_at"`
}

// NewSnapshot creates a snapshot with every known section pre-populated as
// missing, so absence is always represented by Exists=false.
func NewSnapshot(profileID string) *Snapshot {
	sections := make(map[Section]SectionResult, len(SectionOrder))
	for _, sec := range SectionOrder {
		sections[sec] = Missing(PhaseScan)
	}
	return &Snapshot{
		ProfileID:  profileID,
		Sections:   sections,
		CapturedAt: time.Now().UTC(),
	}
}

// Set records a phase result for a section, normalizing invariants first.
func (s *Snapshot) Set(sec Section, res SectionResult) {
	res.Normalize()
	s.Sections[sec] = res
}

// Get returns the current result for a section. Unknown sections read as missing.
func (s *Snapshot) Get(sec Section) SectionResult {
	if res, ok := s.Sections[sec]; ok {
		return res
	}
	return Missing(PhaseScan)
}

// Fingerprint computes a stable hash over coarse-grained section features:
// existence flags, item counts, and character counts, never the raw text,
// so trivial re-renders do not invalidate the cache while substantive edits
// do. Sections are hashed in canonical order; the same
// snapshot always produces the same fingerprint.
func (s *Snapshot) Fingerprint() string {
	var b strings.Builder
	for _, sec := range SectionOrder {
		res := s.Get(sec)
		fmt.Fprintf(&b, "%s:%t:%d:%d:%d;", sec, res.Exists, res.VisibleCount, res.TotalCount, res.CharCount)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
