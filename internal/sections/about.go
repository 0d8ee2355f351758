package sections

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/prPMDev/elevateli/internal/dom"
	"github.com/prPMDev/elevateli/internal/types"
)

// aboutExtractor reads the narrative summary. The section is a single text
// body, usually truncated behind a "see more" affordance, with the full text
// duplicated into a visually-hidden span.
type aboutExtractor struct{}

func newAboutExtractor() *aboutExtractor { return &aboutExtractor{} }

func (e *aboutExtractor) Section() types.Section { return types.SectionAbout }

func (e *aboutExtractor) Scan(doc *goquery.Document) types.SectionResult {
	region := locate(doc, types.SectionAbout, aboutStrategies)
	if region == nil {
		return types.Missing(types.PhaseScan)
	}
	// Character count from the full (hidden) text so the completeness
	// thresholds see real length, not the truncated preview.
	full := dom.FullText(region)
	res := types.SectionResult{
		Exists:    full != "",
		CharCount: len([]rune(full)),
		Phase:     types.PhaseScan,
	}
	res.Normalize()
	return res
}

func (e *aboutExtractor) Extract(doc *goquery.Document) types.SectionResult {
	region := locate(doc, types.SectionAbout, aboutStrategies)
	if region == nil {
		return types.Missing(types.PhaseExtract)
	}
	visible := dom.VisibleText(region)
	full := dom.FullText(region)
	res := types.SectionResult{
		Exists:    full != "",
		Text:      visible,
		CharCount: len([]rune(full)),
		Phase:     types.PhaseExtract,
	}
	res.Normalize()
	return res
}

func (e *aboutExtractor) ExtractDeep(doc *goquery.Document) types.SectionResult {
	region := locate(doc, types.SectionAbout, aboutStrategies)
	if region == nil {
		return types.Missing(types.PhaseDeep)
	}
	full := dom.FullText(region)
	res := types.SectionResult{
		Exists:    full != "",
		Text:      full,
		CharCount: len([]rune(full)),
		Phase:     types.PhaseDeep,
	}
	res.Normalize()
	return res
}
