//nolint:revive // types is a standard Go package name pattern
package types

// MissingCritical records one critical section whose absence capped the score.
type MissingCritical struct {
	Section  Section `json:"section"`
	CappedAt int     `json:"capped_at"`
}

// Insights carries the analyzer's narrative observations about the profile.
type Insights struct {
	Strengths         []string `json:"strengths,omitempty"`
	Improvements      []string `json:"improvements,omitempty"`
	IndustryAlignment string   `json:"industryAlignment,omitempty"`
}

// TieredRecommendations groups analyzer suggestions by urgency.
type TieredRecommendations struct {
	Critical []string `json:"critical,omitempty"`
	High     []string `json:"high,omitempty"`
	Medium   []string `json:"medium,omitempty"`
	Low      []string `json:"low,omitempty"`
}

// QualityResult is the aggregated 0-10 quality score.
// OverallScore never exceeds ScoreCap.
type QualityResult struct {
	OverallScore    float64                `json:"overall_score"`
	SectionScores   map[Section]float64    `json:"section_scores"`
	ScoreCap        int                    `json:"score_cap"`
	MissingCritical []MissingCritical      `json:"missing_critical,omitempty"`
	Recommendations *TieredRecommendations `json:"recommendations,omitempty"`
	Insights        *Insights              `json:"insights,omitempty"`

	// Degraded is set when the analyzer's output could not be parsed and the
	// score fell back to the neutral default. The run still completes.
	Degraded bool `json:"degraded,omitempty"`
}
