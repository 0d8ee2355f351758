// Package scoring turns a profile snapshot into the two user-facing numbers:
// a deterministic 0-100 completeness score and an analyzer-assisted 0-10
// quality score with critical-section caps.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/prPMDev/elevateli/internal/types"
)

// Full-credit thresholds. Values below the threshold earn proportional credit.
const (
	aboutFullChars      = 800
	headlineFullChars   = 100
	skillsFullCount     = 15
	experienceFullRoles = 3
)

// completenessWeights sum to exactly 100. The four narrative-heavy sections
// carry fixed weights; the remaining six share the rest evenly.
var completenessWeights = map[types.Section]float64{
	types.SectionAbout:           15,
	types.SectionExperience:      15,
	types.SectionSkills:          15,
	types.SectionHeadline:        10,
	types.SectionPhoto:           7.5,
	types.SectionEducation:       7.5,
	types.SectionRecommendations: 7.5,
	types.SectionCertifications:  7.5,
	types.SectionProjects:        7.5,
	types.SectionFeatured:        7.5,
}

// Completeness computes the deterministic completeness score. It is a pure
// function: the same snapshot always yields the same score and the same
// recommendation ordering.
func Completeness(snap *types.Snapshot) *types.CompletenessResult {
	result := &types.CompletenessResult{
		SectionScores: make(map[types.Section]types.SubScore, len(types.SectionOrder)),
	}

	var total float64
	for _, sec := range types.SectionOrder {
		weight := completenessWeights[sec]
		earned := weight * credit(sec, snap.Get(sec))
		result.SectionScores[sec] = types.SubScore{Earned: round1(earned), Max: weight}
		total += earned

		if gap := weight - earned; gap > 0.05 {
			result.Recommendations = append(result.Recommendations, types.Recommendation{
				Section:       sec,
				Message:       recommendationMessage(sec, snap.Get(sec)),
				ImpactPercent: round1(gap),
			})
		}
	}

	// Descending by impact; canonical section order breaks ties so the
	// "top N quick wins" list is stable across runs.
	sort.SliceStable(result.Recommendations, func(i, j int) bool {
		return result.Recommendations[i].ImpactPercent > result.Recommendations[j].ImpactPercent
	})

	result.Score = int(math.Round(total))
	if result.Score > 100 {
		result.Score = 100
	}
	return result
}

// credit returns the 0..1 fraction of a section's weight earned.
func credit(sec types.Section, res types.SectionResult) float64 {
	if !res.Exists {
		return 0
	}
	switch sec {
	case types.SectionAbout:
		return ratio(res.CharCount, aboutFullChars)
	case types.SectionHeadline:
		return ratio(res.CharCount, headlineFullChars)
	case types.SectionSkills:
		return ratio(res.TotalCount, skillsFullCount)
	case types.SectionExperience:
		return experienceCredit(res)
	default:
		// Simple presence checks for the remaining sections.
		return 1
	}
}

// experienceCredit gives full credit at three or more positions that carry
// non-empty descriptions. Before items are extracted (scan phase only),
// position counts stand in for described positions.
func experienceCredit(res types.SectionResult) float64 {
	if len(res.Items) == 0 {
		return ratio(res.TotalCount, experienceFullRoles)
	}
	described := 0
	for _, item := range res.Items {
		if item.Description != "" {
			described++
		}
	}
	return ratio(described, experienceFullRoles)
}

func ratio(have, want int) float64 {
	if want <= 0 || have >= want {
		return 1
	}
	if have <= 0 {
		return 0
	}
	return float64(have) / float64(want)
}

func recommendationMessage(sec types.Section, res types.SectionResult) string {
	if !res.Exists {
		switch sec {
		case types.SectionPhoto:
			return "Upload a professional profile photo"
		case types.SectionAbout:
			return "Add an About summary describing your background"
		case types.SectionFeatured:
			return "Feature a post, article, or project"
		default:
			return fmt.Sprintf("Add a %s section", sec.Label())
		}
	}
	switch sec {
	case types.SectionAbout:
		return fmt.Sprintf("Expand your About summary to at least %d characters", aboutFullChars)
	case types.SectionHeadline:
		return fmt.Sprintf("Expand your headline to at least %d characters", headlineFullChars)
	case types.SectionSkills:
		return fmt.Sprintf("List at least %d skills", skillsFullCount)
	case types.SectionExperience:
		return fmt.Sprintf("Describe at least %d positions", experienceFullRoles)
	default:
		return fmt.Sprintf("Expand your %s section", sec.Label())
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
