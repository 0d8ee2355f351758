package fetch

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Page classifies what kind of page a URL points at. Only profile pages are
// analyzable; everything else is reported before any extraction runs.
type Page string

const (
	// PageProfile is a member profile under /in/.
	PageProfile Page = "profile"
	// PageCompany is a company page, which has none of the profile sections.
	PageCompany Page = "company"
	// PageAuthWall is the logged-out interstitial.
	PageAuthWall Page = "authwall"
	// PageUnknown is anything else.
	PageUnknown Page = "unknown"
)

// DetectPage classifies a URL by its path shape.
func DetectPage(urlStr string) Page {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PageUnknown
	}

	path := strings.ToLower(parsed.Path)
	switch {
	case strings.Contains(path, "/authwall") || strings.Contains(path, "/uas/login") || strings.HasPrefix(path, "/login"):
		return PageAuthWall
	case strings.HasPrefix(path, "/in/") || strings.Contains(path, "/in/"):
		return PageProfile
	case strings.Contains(path, "/company/") || strings.Contains(path, "/school/"):
		return PageCompany
	}
	return PageUnknown
}

// IsLoginWall reports whether a fetched document is the logged-out page
// instead of profile content. The session form fields are the reliable tell;
// page chrome class names churn too often to match on.
func IsLoginWall(doc *goquery.Document) bool {
	if doc == nil {
		return false
	}
	return doc.Find(`input[name="session_key"], form.login__form, #join-form, .authwall`).Length() > 0
}
