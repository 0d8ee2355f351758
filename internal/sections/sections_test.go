package sections

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prPMDev/elevateli/internal/types"
)

// profileFixture mirrors the current page layout: top card, then anchored
// cards whose content lives in a sibling of the anchor marker.
const profileFixture = `<html><body>
<div class="ph5">
  <img class="pv-top-card-profile-picture__image" src="https://media.example.com/photo/jane.jpg" alt="Jane Doe">
  <h1>Jane Doe</h1>
  <div class="text-body-medium break-words">Staff Software Engineer | Distributed Systems | Go, Kubernetes, Postgres</div>
</div>

<section>
  <div id="about"><h2>About</h2></div>
  <div class="display-flex">
    <div class="inline-show-more-text inline-show-more-text--is-collapsed">
      <span aria-hidden="true">I design and operate large-scale data platforms…</span>
      <span class="visually-hidden">I design and operate large-scale data platforms. Over the last decade I have led teams building stream processing systems handling billions of events per day, and I care deeply about operational simplicity.</span>
    </div>
  </div>
</section>

<section>
  <div id="experience"><h2>Experience</h2></div>
  <div></div>
  <div>
    <ul>
      <li>
        <span class="t-bold"><span aria-hidden="true">Staff Engineer</span><span class="visually-hidden">Staff Engineer</span></span>
        <span class="t-14 t-normal"><span aria-hidden="true">Initech</span></span>
        <span class="t-14 t-normal t-black--light"><span aria-hidden="true">2021 - Present</span></span>
        <div class="inline-show-more-text">
          <span aria-hidden="true">Leading the platform team…</span>
          <span class="visually-hidden">Leading the platform team responsible for ingestion, storage, and query serving across three regions.</span>
        </div>
      </li>
      <li>
        <span class="t-bold"><span aria-hidden="true">Senior Engineer</span></span>
        <span class="t-14 t-normal"><span aria-hidden="true">Globex</span></span>
        <div class="inline-show-more-text"><span aria-hidden="true">Built the billing pipeline from scratch.</span></div>
      </li>
      <li>
        <span class="t-bold"><span aria-hidden="true">Engineer</span></span>
        <span class="t-14 t-normal"><span aria-hidden="true">Hooli</span></span>
        <div class="inline-show-more-text"><span aria-hidden="true">Worked on search infrastructure.</span></div>
      </li>
    </ul>
    <div class="pvs-list__footer-wrapper">
      <a href="https://www.example.com/in/jane/details/experience"><span aria-hidden="true">Show all 12 experiences</span></a>
    </div>
  </div>
</section>

<section>
  <div id="skills"><h2>Skills</h2></div>
  <div>
    <ul>
      <li><span class="t-bold"><span aria-hidden="true">Go</span></span></li>
      <li><span class="t-bold"><span aria-hidden="true">Kubernetes</span></span></li>
    </ul>
    <a href="https://www.example.com/in/jane/details/skills"><span aria-hidden="true">Show all 18 skills</span></a>
  </div>
</section>

<section>
  <div id="education"><h2>Education</h2></div>
  <div>
    <ul>
      <li><span class="t-bold"><span aria-hidden="true">State University</span></span>
          <span class="t-14 t-normal"><span aria-hidden="true">BSc Computer Science</span></span></li>
    </ul>
  </div>
</section>
</body></html>`

func fixtureDoc(t *testing.T) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(profileFixture))
	require.NoError(t, err)
	return doc
}

func findExtractor(t *testing.T, sec types.Section) Extractor {
	t.Helper()
	for _, e := range Registry() {
		if e.Section() == sec {
			return e
		}
	}
	t.Fatalf("no extractor registered for %s", sec)
	return nil
}

func TestRegistry_CoversAllKnownSections(t *testing.T) {
	reg := Registry()
	require.Len(t, reg, len(types.SectionOrder))
	for i, e := range reg {
		assert.Equal(t, types.SectionOrder[i], e.Section())
	}
}

func TestPhoto_Scan(t *testing.T) {
	res := findExtractor(t, types.SectionPhoto).Scan(fixtureDoc(t))
	assert.True(t, res.Exists)
}

func TestPhoto_GhostPlaceholderIsMissing(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><body><img class="pv-top-card-profile-picture__image" src="https://static.example.com/ghost-person.svg"></body></html>`))
	require.NoError(t, err)
	res := findExtractor(t, types.SectionPhoto).Scan(doc)
	assert.False(t, res.Exists)
}

func TestHeadline_Scan(t *testing.T) {
	res := findExtractor(t, types.SectionHeadline).Scan(fixtureDoc(t))
	assert.True(t, res.Exists)
	assert.Greater(t, res.CharCount, 50)
	assert.Contains(t, res.Text, "Staff Software Engineer")
}

func TestAbout_ScanCountsFullText(t *testing.T) {
	res := findExtractor(t, types.SectionAbout).Scan(fixtureDoc(t))
	assert.True(t, res.Exists)
	// Character count must come from the hidden full text, not the clipped preview.
	assert.Greater(t, res.CharCount, 150)
}

func TestAbout_ExtractDeepPrefersHiddenTwin(t *testing.T) {
	res := findExtractor(t, types.SectionAbout).ExtractDeep(fixtureDoc(t))
	assert.True(t, res.Exists)
	assert.Contains(t, res.Text, "operational simplicity")
	assert.NotContains(t, res.Text, "…")
}

func TestExperience_ScanReadsAggregateCounts(t *testing.T) {
	res := findExtractor(t, types.SectionExperience).Scan(fixtureDoc(t))
	assert.True(t, res.Exists)
	assert.Equal(t, 3, res.VisibleCount)
	assert.Equal(t, 12, res.TotalCount, "total must come from the Show-all label, not item enumeration")
	assert.True(t, res.HasMore)
	assert.Contains(t, res.DetailURL, "/details/experience")
	assert.Empty(t, res.Items, "scan must not enumerate items")
}

func TestExperience_ScanIdempotent(t *testing.T) {
	e := findExtractor(t, types.SectionExperience)
	doc := fixtureDoc(t)
	assert.Equal(t, e.Scan(doc), e.Scan(doc))
}

func TestExperience_ExtractReadsItems(t *testing.T) {
	res := findExtractor(t, types.SectionExperience).Extract(fixtureDoc(t))
	require.Len(t, res.Items, 3)
	assert.Equal(t, "Staff Engineer", res.Items[0].Title)
	assert.Equal(t, "Initech", res.Items[0].Subtitle)
	assert.NotEmpty(t, res.Items[0].Description)
	assert.Equal(t, 12, res.TotalCount)
}

func TestExperience_DeepExpandsDescriptions(t *testing.T) {
	res := findExtractor(t, types.SectionExperience).ExtractDeep(fixtureDoc(t))
	require.NotEmpty(t, res.Items)
	assert.Contains(t, res.Items[0].Description, "three regions", "deep phase must read the full hidden description")
}

func TestSkills_ScanTotalFromLabel(t *testing.T) {
	res := findExtractor(t, types.SectionSkills).Scan(fixtureDoc(t))
	assert.True(t, res.Exists)
	assert.Equal(t, 2, res.VisibleCount)
	assert.Equal(t, 18, res.TotalCount)
	assert.True(t, res.HasMore)
}

func TestEducation_Extract(t *testing.T) {
	res := findExtractor(t, types.SectionEducation).Extract(fixtureDoc(t))
	assert.True(t, res.Exists)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "State University", res.Items[0].Title)
}

func TestMissingSections_ReportExistsFalse(t *testing.T) {
	doc := fixtureDoc(t)
	for _, sec := range []types.Section{
		types.SectionRecommendations,
		types.SectionCertifications,
		types.SectionProjects,
		types.SectionFeatured,
	} {
		res := findExtractor(t, sec).Scan(doc)
		assert.False(t, res.Exists, "section %s should be missing from the fixture", sec)
	}
}
