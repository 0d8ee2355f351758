// Package types provides type definitions for structured data used throughout the profile analyzer.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Section identifies one named area of profile content.
type Section string

// The closed set of known profile sections.
const (
	SectionPhoto           Section = "photo"
	SectionHeadline        Section = "headline"
	SectionAbout           Section = "about"
	SectionExperience      Section = "experience"
	SectionSkills          Section = "skills"
	SectionEducation       Section = "education"
	SectionRecommendations Section = "recommendations"
	SectionCertifications  Section = "certifications"
	SectionProjects        Section = "projects"
	SectionFeatured        Section = "featured"
)

// SectionOrder is the canonical iteration order for sections. Fingerprinting,
// deep extraction, and progress reporting all walk sections in this order so
// that output is deterministic across runs.
var SectionOrder = []Section{
	SectionPhoto,
	SectionHeadline,
	SectionAbout,
	SectionExperience,
	SectionSkills,
	SectionEducation,
	SectionRecommendations,
	SectionCertifications,
	SectionProjects,
	SectionFeatured,
}

// Label returns the human-readable heading text used on the profile page.
// The locator's title-search fallback matches against these labels.
func (s Section) Label() string {
	switch s {
	case SectionPhoto:
		return "Profile photo"
	case SectionHeadline:
		return "Headline"
	case SectionAbout:
		return "About"
	case SectionExperience:
		return "Experience"
	case SectionSkills:
		return "Skills"
	case SectionEducation:
		return "Education"
	case SectionRecommendations:
		return "Recommendations"
	case SectionCertifications:
		return "Licenses & certifications"
	case SectionProjects:
		return "Projects"
	case SectionFeatured:
		return "Featured"
	}
	return string(s)
}

// Known reports whether s is one of the closed set of section names.
func (s Section) Known() bool {
	for _, known := range SectionOrder {
		if s == known {
			return true
		}
	}
	return false
}
