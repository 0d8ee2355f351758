package dom

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NormalizeText collapses whitespace and blank lines into single spaces.
func NormalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.Join(strings.Fields(scanner.Text()), " ")
		if line != "" {
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}

// FullText reads the complete text of a region, preferring the
// accessibility-only duplicate over the visually truncated one. The page
// renders long text twice: a clipped span marked aria-hidden for sighted
// users and a visually-hidden span carrying the full content for screen
// readers. The hidden twin is the authoritative source.
func FullText(s *goquery.Selection) string {
	hidden := s.Find("span.visually-hidden")
	if hidden.Length() > 0 {
		var parts []string
		hidden.Each(func(_ int, h *goquery.Selection) {
			if t := NormalizeText(h.Text()); t != "" {
				parts = append(parts, t)
			}
		})
		if len(parts) > 0 {
			return strings.Join(parts, " ")
		}
	}
	return NormalizeText(s.Text())
}

// VisibleText reads only what a sighted user currently sees: the aria-hidden
// twin when the duplicated-span idiom is present, the plain text otherwise.
func VisibleText(s *goquery.Selection) string {
	visible := s.Find(`span[aria-hidden="true"]`)
	if visible.Length() > 0 {
		var parts []string
		visible.Each(func(_ int, v *goquery.Selection) {
			if t := NormalizeText(v.Text()); t != "" {
				parts = append(parts, t)
			}
		})
		if len(parts) > 0 {
			return strings.Join(parts, " ")
		}
	}
	return NormalizeText(s.Text())
}

// collapsedMarkers are class fragments that flag a truncated text container.
var collapsedMarkers = []string{"inline-show-more-text", "show-more", "collapsed", "truncate"}

// IsCollapsed reports whether the region holds text clipped behind a
// "see more" affordance.
func IsCollapsed(s *goquery.Selection) bool {
	collapsed := false
	s.Find("[class]").Each(func(_ int, el *goquery.Selection) {
		class, _ := el.Attr("class")
		class = strings.ToLower(class)
		for _, marker := range collapsedMarkers {
			if strings.Contains(class, marker) {
				collapsed = true
				return
			}
		}
	})
	return collapsed
}

var countPattern = regexp.MustCompile(`\d[\d,]*`)

// ParseCount pulls the first integer out of an aggregate label such as
// "Show all 12 experiences" or "Show all 1,402 skills". Returns 0 when the
// label carries no number.
func ParseCount(label string) int {
	match := countPattern.FindString(label)
	if match == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(match, ",", ""))
	if err != nil {
		return 0
	}
	return n
}
