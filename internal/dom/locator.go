// Package dom locates and reads profile page regions with goquery.
// The page's markup drifts between renders, so every lookup runs an ordered
// list of fallback strategies and degrades to nil rather than erroring.
package dom

import (
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Strategy is one candidate way to find a section's region.
type Strategy struct {
	// Selector is a CSS selector tried against the whole document.
	Selector string
	// Anchor marks the selector as matching a marker element that contains
	// only a header; the actual content lives in a following sibling.
	Anchor bool
}

// minRegionText is the smallest normalized text length a sibling must carry
// to be accepted as a section's content region during the anchor walk.
const minRegionText = 12

// Locate finds the region for a section by trying each strategy in order.
// Selectors with invalid syntax are filtered out and never executed; a debug
// note is logged but no error surfaces. If no strategy matches, the document's
// headings are scanned for a case-insensitive label match. Returns nil when
// the section cannot be found. Read-only: the document is never mutated.
func Locate(doc *goquery.Document, label string, candidates []Strategy) *goquery.Selection {
	for _, strat := range candidates {
		if _, err := cascadia.ParseGroup(strat.Selector); err != nil {
			// Fail closed: a selector the engine cannot parse is dropped,
			// not surfaced. The page owns its markup, not us.
			log.Printf("[locator] skipping invalid selector %q: %v", strat.Selector, err)
			continue
		}

		match := doc.Find(strat.Selector).First()
		if match.Length() == 0 {
			continue
		}

		if !strat.Anchor {
			return match
		}
		if region := walkSiblings(match); region != nil {
			return region
		}
	}

	return locateByHeading(doc, label)
}

// walkSiblings steps forward from an anchor marker until it finds a sibling
// with non-trivial content. The content may sit in the first, second, or a
// later sibling depending on the render.
func walkSiblings(anchor *goquery.Selection) *goquery.Selection {
	var region *goquery.Selection
	anchor.NextAll().EachWithBreak(func(_ int, sib *goquery.Selection) bool {
		if hasContent(sib) {
			region = sib
			return false
		}
		return true
	})
	return region
}

// hasContent reports whether a node carries enough text or list items to be
// a plausible content region rather than decoration.
func hasContent(s *goquery.Selection) bool {
	if s.Find("li").Length() > 0 {
		return true
	}
	return len(NormalizeText(s.Text())) >= minRegionText
}

// locateByHeading is the last-resort strategy: scan every heading-like
// element for a case-insensitive text match against the section label and
// return the heading's enclosing container.
func locateByHeading(doc *goquery.Document, label string) *goquery.Selection {
	if label == "" {
		return nil
	}
	want := strings.ToLower(label)

	var region *goquery.Selection
	doc.Find("h1, h2, h3, h4, [role=heading]").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		text := strings.ToLower(NormalizeText(h.Text()))
		if text == "" || !strings.Contains(text, want) {
			return true
		}
		parent := h.Closest("section")
		if parent.Length() == 0 {
			parent = h.Parent()
		}
		if parent.Length() > 0 {
			region = parent
			return false
		}
		return true
	})
	return region
}
