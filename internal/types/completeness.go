//nolint:revive // types is a standard Go package name pattern
package types

// SubScore is one section's contribution toward the completeness score.
type SubScore struct {
	Earned float64 `json:"earned"`
	Max    float64 `json:"max"`
}

// Recommendation suggests one concrete fix and the score gain it would yield.
type Recommendation struct {
	Section       Section `json:"section"`
	Message       string  `json:"message"`
	ImpactPercent float64 `json:"impact_percent"`
}

// CompletenessResult is the deterministic 0-100 completeness score plus a
// ranked list of missing-content recommendations (descending by impact).
type CompletenessResult struct {
	Score           int                  `json:"score"`
	SectionScores   map[Section]SubScore `json:"section_scores"`
	Recommendations []Recommendation     `json:"recommendations"`
}
