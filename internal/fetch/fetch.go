// Package fetch acquires profile pages from their possible sources: a live
// URL, a headless-browser render, or a saved HTML file. Every source yields
// the same Result so the pipeline never knows where a page came from.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests. A desktop
// browser string; the mobile render uses different section markup.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Result holds a fetched profile page, parsed and ready for extraction.
type Result struct {
	ProfileID  string
	URL        string
	HTML       string
	Doc        *goquery.Document
	StatusCode int
}

// Error represents a failure acquiring a page.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// URL retrieves and parses a profile page over plain HTTP. Pages behind a
// login wall come back as an Error; callers fall back to the browser render
// or a saved file.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	client := &http.Client{Timeout: opts.Timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}

	req.Header.Set("User-Agent", opts.UserAgent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	result, err := FromHTML(ProfileIDFromURL(urlStr), string(bodyBytes))
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to parse page", Cause: err}
	}
	result.URL = urlStr
	result.StatusCode = resp.StatusCode

	if IsLoginWall(result.Doc) || DetectPage(resp.Request.URL.String()) == PageAuthWall {
		return nil, &Error{URL: urlStr, Message: "page is behind a login wall"}
	}
	return result, nil
}

// FromFile parses a locally saved profile page. The profile id falls back to
// the file name stem when the page itself does not carry a canonical URL.
func FromFile(path string) (*Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{URL: path, Message: "failed to read file", Cause: err}
	}

	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	result, err := FromHTML(id, string(raw))
	if err != nil {
		return nil, &Error{URL: path, Message: "failed to parse saved page", Cause: err}
	}
	result.URL = path

	if canonical := canonicalProfileID(result.Doc); canonical != "" {
		result.ProfileID = canonical
	}
	return result, nil
}

// FromHTML parses raw page markup under an explicit profile id.
func FromHTML(profileID, html string) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return &Result{ProfileID: profileID, HTML: html, Doc: doc}, nil
}

// ProfileIDFromURL extracts the vanity slug from a profile URL, e.g.
// "https://www.linkedin.com/in/jane-doe/" yields "jane-doe". Non-profile
// URLs fall back to the full host+path so the id stays stable and unique.
func ProfileIDFromURL(urlStr string) string {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return urlStr
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	for i, seg := range segments {
		if seg == "in" && i+1 < len(segments) && segments[i+1] != "" {
			return segments[i+1]
		}
	}
	return parsed.Host + parsed.Path
}

// canonicalProfileID reads the slug out of the page's canonical link, which
// saved pages usually preserve.
func canonicalProfileID(doc *goquery.Document) string {
	href, ok := doc.Find(`link[rel=canonical]`).Attr("href")
	if !ok || !strings.Contains(href, "/in/") {
		return ""
	}
	return ProfileIDFromURL(href)
}
