package sections

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/prPMDev/elevateli/internal/dom"
	"github.com/prPMDev/elevateli/internal/types"
)

var headlineStrategies = []dom.Strategy{
	{Selector: "div.ph5 div.text-body-medium.break-words"},
	{Selector: "div.text-body-medium.break-words"},
	{Selector: "h2.top-card-layout__headline"},
	{Selector: ".pv-top-card--list + .text-body-medium"},
}

// headlineExtractor reads the one-line headline under the profile name.
// There is nothing to expand, so all three phases read the same text.
type headlineExtractor struct{}

func newHeadlineExtractor() *headlineExtractor { return &headlineExtractor{} }

func (e *headlineExtractor) Section() types.Section { return types.SectionHeadline }

func (e *headlineExtractor) Scan(doc *goquery.Document) types.SectionResult {
	return e.read(doc, types.PhaseScan)
}

func (e *headlineExtractor) Extract(doc *goquery.Document) types.SectionResult {
	return e.read(doc, types.PhaseExtract)
}

func (e *headlineExtractor) ExtractDeep(doc *goquery.Document) types.SectionResult {
	return e.read(doc, types.PhaseDeep)
}

func (e *headlineExtractor) read(doc *goquery.Document, phase types.Phase) types.SectionResult {
	region := dom.Locate(doc, "", headlineStrategies)
	if region == nil {
		return types.Missing(phase)
	}
	text := dom.NormalizeText(region.Text())
	res := types.SectionResult{
		Exists:    text != "",
		Text:      text,
		CharCount: len([]rune(text)),
		Phase:     phase,
	}
	res.Normalize()
	return res
}
