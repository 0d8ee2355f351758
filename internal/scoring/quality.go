package scoring

import (
	"math"

	"github.com/prPMDev/elevateli/internal/types"
)

// NeutralScore is the fallback when the analyzer's output cannot be parsed.
const NeutralScore = 5.0

// qualityWeights are the fixed per-section weights for the quality average.
// Sections absent from the analyzer's output are renormalized away rather
// than counted as zero, so a missing score is not penalized twice.
var qualityWeights = map[types.Section]float64{
	types.SectionAbout:           0.30,
	types.SectionExperience:      0.30,
	types.SectionSkills:          0.20,
	types.SectionHeadline:        0.10,
	types.SectionEducation:       0.05,
	types.SectionRecommendations: 0.05,
}

// criticalCaps is the empirically chosen cap table: the maximum achievable
// quality score when a critical section is missing entirely. The constants
// are a product decision, not a fitted model; do not re-derive them.
var criticalCaps = map[types.Section]int{
	types.SectionAbout:           7,
	types.SectionExperience:      6,
	types.SectionSkills:          9,
	types.SectionRecommendations: 8,
}

// defaultCap applies when no critical section is missing.
const defaultCap = 10

// Quality combines the analyzer's per-section 1-10 scores (possibly partial)
// into one overall score: a weighted average over the sections that were
// scored, then capped by the lowest ceiling among missing critical sections.
// The cap runs after the average so a profile with no About never shows a
// high score however well its other sections did.
func Quality(snap *types.Snapshot, sectionScores map[types.Section]float64) *types.QualityResult {
	result := &types.QualityResult{
		SectionScores: make(map[types.Section]float64, len(sectionScores)),
		ScoreCap:      defaultCap,
	}

	for _, sec := range types.SectionOrder {
		ceiling, critical := criticalCaps[sec]
		if !critical || snap.Get(sec).Exists {
			continue
		}
		result.MissingCritical = append(result.MissingCritical, types.MissingCritical{Section: sec, CappedAt: ceiling})
		if ceiling < result.ScoreCap {
			result.ScoreCap = ceiling
		}
	}

	var weightedSum, weightTotal float64
	for _, sec := range types.SectionOrder {
		score, scored := sectionScores[sec]
		weight, weighted := qualityWeights[sec]
		if !scored || !weighted {
			continue
		}
		score = clampScore(score)
		result.SectionScores[sec] = score
		weightedSum += score * weight
		weightTotal += weight
	}

	base := NeutralScore
	if weightTotal > 0 {
		base = weightedSum / weightTotal
	}

	result.OverallScore = round1(math.Min(base, float64(result.ScoreCap)))
	return result
}

// NeutralQuality is the recovery path for unparsable analyzer output: the
// neutral default score with the degraded flag set. The cap still applies.
func NeutralQuality(snap *types.Snapshot) *types.QualityResult {
	result := Quality(snap, nil)
	result.OverallScore = round1(math.Min(NeutralScore, float64(result.ScoreCap)))
	result.Degraded = true
	return result
}

func clampScore(v float64) float64 {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}
