package sections

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/prPMDev/elevateli/internal/dom"
	"github.com/prPMDev/elevateli/internal/types"
)

// experienceExtractor reads positions. It differs from the generic list
// extractor in that the completeness scorer inspects per-position
// descriptions, so items always carry them when present.
type experienceExtractor struct{}

func newExperienceExtractor() *experienceExtractor { return &experienceExtractor{} }

func (e *experienceExtractor) Section() types.Section { return types.SectionExperience }

func (e *experienceExtractor) Scan(doc *goquery.Document) types.SectionResult {
	region := locate(doc, types.SectionExperience, experienceStrategies)
	if region == nil {
		return types.Missing(types.PhaseScan)
	}
	return scanAggregate(region)
}

func (e *experienceExtractor) Extract(doc *goquery.Document) types.SectionResult {
	return e.read(doc, types.PhaseExtract)
}

func (e *experienceExtractor) ExtractDeep(doc *goquery.Document) types.SectionResult {
	return e.read(doc, types.PhaseDeep)
}

func (e *experienceExtractor) read(doc *goquery.Document, phase types.Phase) types.SectionResult {
	region := locate(doc, types.SectionExperience, experienceStrategies)
	if region == nil {
		return types.Missing(phase)
	}

	res := scanAggregate(region)
	res.Phase = phase
	deep := phase == types.PhaseDeep

	limit := maxPreviewItems
	if deep {
		limit = -1
	}

	var texts []string
	region.Find("ul").First().ChildrenFiltered("li").EachWithBreak(func(i int, li *goquery.Selection) bool {
		if limit >= 0 && i >= limit {
			return false
		}
		item := e.parsePosition(li, deep)
		if item.Title == "" {
			return true
		}
		res.Items = append(res.Items, item)

		line := item.Title
		if item.Subtitle != "" {
			line += " at " + item.Subtitle
		}
		if item.Meta != "" {
			line += " (" + item.Meta + ")"
		}
		if item.Description != "" {
			line += "\n" + item.Description
		}
		texts = append(texts, line)
		return true
	})

	res.Text = strings.Join(texts, "\n\n")
	res.CharCount = len([]rune(res.Text))
	res.Normalize()
	return res
}

// parsePosition reads one position entry: role title, company, date range,
// and the role description (full text when deep).
func (e *experienceExtractor) parsePosition(li *goquery.Selection, deep bool) types.Item {
	item := parseItem(li, deep)

	// Grouped positions nest role entries under a company header; fold the
	// nested roles' descriptions into the parent so counts stay aggregate.
	if item.Description == "" {
		nested := li.Find("ul li .inline-show-more-text").First()
		if nested.Length() > 0 {
			if deep {
				item.Description = dom.FullText(nested)
			} else {
				item.Description = dom.VisibleText(nested)
			}
		}
	}
	return item
}
