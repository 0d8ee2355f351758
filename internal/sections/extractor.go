// Package sections implements the per-section extractors for a profile page.
//
// Every extractor exposes the same three-phase contract in escalating cost
// order: Scan (cheap existence + counts), Extract (top visible items only),
// ExtractDeep (full text, including content hidden behind truncation).
// Extractors are stateless and read-only; calling a phase twice on an
// unchanged document yields the same result.
package sections

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/prPMDev/elevateli/internal/dom"
	"github.com/prPMDev/elevateli/internal/types"
)

// maxPreviewItems bounds how many items Extract reads per section. The full
// list is only walked during ExtractDeep when external analysis needs it.
const maxPreviewItems = 5

// Extractor is the three-phase contract over one section's region.
type Extractor interface {
	Section() types.Section
	Scan(doc *goquery.Document) types.SectionResult
	Extract(doc *goquery.Document) types.SectionResult
	ExtractDeep(doc *goquery.Document) types.SectionResult
}

// Registry returns the closed set of section extractors in canonical order.
// New page idioms are additions to the strategy tables below, not new code
// paths.
func Registry() []Extractor {
	return []Extractor{
		newPhotoExtractor(),
		newHeadlineExtractor(),
		newAboutExtractor(),
		newExperienceExtractor(),
		newListExtractor(types.SectionSkills, skillsStrategies),
		newListExtractor(types.SectionEducation, educationStrategies),
		newListExtractor(types.SectionRecommendations, recommendationsStrategies),
		newListExtractor(types.SectionCertifications, certificationsStrategies),
		newListExtractor(types.SectionProjects, projectsStrategies),
		newListExtractor(types.SectionFeatured, featuredStrategies),
	}
}

// Strategy tables, ordered most-current idiom first. The anchor entries match
// the marker-plus-sibling layout the page uses today; the plain selectors
// cover older renders still seen in saved pages.
var (
	aboutStrategies = []dom.Strategy{
		{Selector: "div#about", Anchor: true},
		{Selector: "section.pv-about-section"},
		{Selector: "section.summary"},
	}
	experienceStrategies = []dom.Strategy{
		{Selector: "div#experience", Anchor: true},
		{Selector: "section#experience-section"},
		{Selector: "section.experience-section"},
	}
	skillsStrategies = []dom.Strategy{
		{Selector: "div#skills", Anchor: true},
		{Selector: "section.pv-skill-categories-section"},
	}
	educationStrategies = []dom.Strategy{
		{Selector: "div#education", Anchor: true},
		{Selector: "section#education-section"},
	}
	recommendationsStrategies = []dom.Strategy{
		{Selector: "div#recommendations", Anchor: true},
		{Selector: "section.recommendations-section"},
	}
	certificationsStrategies = []dom.Strategy{
		{Selector: "div#licenses_and_certifications", Anchor: true},
		{Selector: "section#certifications-section"},
	}
	projectsStrategies = []dom.Strategy{
		{Selector: "div#projects", Anchor: true},
		{Selector: "section#projects-section"},
	}
	featuredStrategies = []dom.Strategy{
		{Selector: "div#featured", Anchor: true},
		{Selector: "section.pv-featured-container"},
	}
)

// locate runs the strategy list for a section against the document.
func locate(doc *goquery.Document, sec types.Section, strategies []dom.Strategy) *goquery.Selection {
	return dom.Locate(doc, sec.Label(), strategies)
}

// scanAggregate reads existence and counts from a region without enumerating
// its items: the visible count comes from the top-level list length, the
// total from a "Show all N" footer label or a count-bearing detail link.
func scanAggregate(region *goquery.Selection) types.SectionResult {
	res := types.SectionResult{Exists: true, Phase: types.PhaseScan}

	items := region.Find("ul").First().ChildrenFiltered("li")
	res.VisibleCount = items.Length()
	res.TotalCount = res.VisibleCount

	footer := region.Find(`a[href*="/details/"]`).First()
	if footer.Length() > 0 {
		if href, ok := footer.Attr("href"); ok {
			res.DetailURL = href
		}
		if n := dom.ParseCount(dom.VisibleText(footer)); n > 0 {
			res.TotalCount = n
		}
	} else if n := dom.ParseCount(dom.VisibleText(region.Find("button.scaffold-finite-scroll__load-button, .pvs-list__footer-wrapper").First())); n > 0 {
		res.TotalCount = n
	}

	res.Normalize()
	return res
}

// parseItem reads one list entry's title, subtitle, and description with
// class-based lookups first and positional text as a fallback.
func parseItem(li *goquery.Selection, deep bool) types.Item {
	item := types.Item{}

	item.Title = dom.VisibleText(li.Find(".t-bold, .mr1.hoverable-link-text").First())
	item.Subtitle = dom.VisibleText(li.Find(".t-14.t-normal").First())
	item.Meta = dom.VisibleText(li.Find(".t-14.t-normal.t-black--light, .t-black--light").First())

	descNode := li.Find(".inline-show-more-text").First()
	if descNode.Length() > 0 {
		if deep {
			item.Description = dom.FullText(descNode)
		} else {
			item.Description = dom.VisibleText(descNode)
		}
	}

	if item.Title == "" {
		// Old renders carry no utility classes; take the first text line.
		item.Title = firstLine(dom.NormalizeText(li.Text()))
	}
	return item
}

func firstLine(text string) string {
	const maxTitle = 120
	runes := []rune(text)
	if len(runes) > maxTitle {
		return string(runes[:maxTitle])
	}
	return text
}
