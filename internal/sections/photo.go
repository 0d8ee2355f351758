package sections

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/prPMDev/elevateli/internal/types"
)

var photoSelectors = []string{
	"img.pv-top-card-profile-picture__image--show",
	"img.pv-top-card-profile-picture__image",
	"img.profile-photo-edit__preview",
	"img.top-card-layout__entity-image",
}

// photoExtractor checks for a real profile photo. A ghost placeholder (the
// default avatar) counts as missing. All phases are the same cheap check.
type photoExtractor struct{}

func newPhotoExtractor() *photoExtractor { return &photoExtractor{} }

func (e *photoExtractor) Section() types.Section { return types.SectionPhoto }

func (e *photoExtractor) Scan(doc *goquery.Document) types.SectionResult {
	return e.read(doc, types.PhaseScan)
}

func (e *photoExtractor) Extract(doc *goquery.Document) types.SectionResult {
	return e.read(doc, types.PhaseExtract)
}

func (e *photoExtractor) ExtractDeep(doc *goquery.Document) types.SectionResult {
	return e.read(doc, types.PhaseDeep)
}

func (e *photoExtractor) read(doc *goquery.Document, phase types.Phase) types.SectionResult {
	res := types.SectionResult{Phase: phase}
	for _, sel := range photoSelectors {
		img := doc.Find(sel).First()
		if img.Length() == 0 {
			continue
		}
		src, ok := img.Attr("src")
		if !ok || src == "" {
			continue
		}
		if strings.Contains(src, "ghost-person") || strings.HasPrefix(src, "data:") {
			// Default avatar, not an uploaded photo.
			continue
		}
		res.Exists = true
		res.VisibleCount = 1
		res.TotalCount = 1
		break
	}
	res.Normalize()
	return res
}
