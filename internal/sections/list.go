package sections

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/prPMDev/elevateli/internal/dom"
	"github.com/prPMDev/elevateli/internal/types"
)

// listExtractor covers the list-shaped sections that share one scan/extract
// shape: skills, education, recommendations, certifications, projects,
// featured. Experience has its own extractor because its items carry
// descriptions the scorer inspects.
type listExtractor struct {
	section    types.Section
	strategies []dom.Strategy
}

func newListExtractor(sec types.Section, strategies []dom.Strategy) *listExtractor {
	return &listExtractor{section: sec, strategies: strategies}
}

func (e *listExtractor) Section() types.Section { return e.section }

func (e *listExtractor) Scan(doc *goquery.Document) types.SectionResult {
	region := locate(doc, e.section, e.strategies)
	if region == nil {
		return types.Missing(types.PhaseScan)
	}
	return scanAggregate(region)
}

func (e *listExtractor) Extract(doc *goquery.Document) types.SectionResult {
	return e.read(doc, types.PhaseExtract)
}

func (e *listExtractor) ExtractDeep(doc *goquery.Document) types.SectionResult {
	return e.read(doc, types.PhaseDeep)
}

func (e *listExtractor) read(doc *goquery.Document, phase types.Phase) types.SectionResult {
	region := locate(doc, e.section, e.strategies)
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
		item := parseItem(li, deep)
		if item.Title == "" && item.Description == "" {
			return true
		}
		res.Items = append(res.Items, item)
		texts = append(texts, strings.TrimSpace(strings.Join(nonEmpty(item.Title, item.Subtitle, item.Description), " | ")))
		return true
	})

	res.Text = strings.Join(texts, "\n")
	res.CharCount = len([]rune(res.Text))
	res.Normalize()
	return res
}

func nonEmpty(parts ...string) []string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
