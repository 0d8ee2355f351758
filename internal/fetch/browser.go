// Package fetch - browser.go renders a profile page in a headless browser.
// Profile sections below the fold mount lazily on scroll, so a plain HTTP
// GET misses most of them; the render scrolls the page before capture.
package fetch

import (
	"context"
	"log"
	"time"

	"github.com/chromedp/chromedp"
)

// scrollPasses is how many viewport-height scrolls the render performs.
// Ten screens covers every section on even long profiles.
const scrollPasses = 10

// scrollSettle is the pause after each scroll for lazy sections to mount.
const scrollSettle = 500 * time.Millisecond

// WithBrowser renders a profile page in a headless browser and returns the
// fully mounted HTML. Requires Chrome/Chromium on the system.
func WithBrowser(ctx context.Context, urlStr string, timeout time.Duration, verbose bool) (*Result, error) {
	if verbose {
		log.Printf("[BROWSER] Starting headless browser for: %s", urlStr)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string

	err := chromedp.Run(browserCtx,
		chromedp.Navigate(urlStr),
		chromedp.WaitReady("body"),
		chromedp.Sleep(2*time.Second),
		chromedp.ActionFunc(func(ctx context.Context) error {
			for i := 0; i < scrollPasses; i++ {
				if err := chromedp.Evaluate(`window.scrollBy(0, window.innerHeight)`, nil).Do(ctx); err != nil {
					return err
				}
				if err := chromedp.Sleep(scrollSettle).Do(ctx); err != nil {
					return err
				}
			}
			return chromedp.Evaluate(`window.scrollTo(0, 0)`, nil).Do(ctx)
		}),
		// Expand truncated blocks so the capture holds the full text.
		// Missing buttons are not a failure.
		chromedp.ActionFunc(func(ctx context.Context) error {
			_ = chromedp.Evaluate(
				`document.querySelectorAll('button.inline-show-more-text__button').forEach(b => b.click())`,
				nil,
			).Do(ctx)
			return nil
		}),
		chromedp.Sleep(1*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "browser rendering failed", Cause: err}
	}

	if verbose {
		log.Printf("[BROWSER] Rendered HTML: %d bytes", len(html))
	}

	result, err := FromHTML(ProfileIDFromURL(urlStr), html)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to parse rendered page", Cause: err}
	}
	result.URL = urlStr

	if IsLoginWall(result.Doc) {
		return nil, &Error{URL: urlStr, Message: "render hit a login wall"}
	}
	return result, nil
}

// BrowserSimple renders with the default timeout.
func BrowserSimple(ctx context.Context, urlStr string, verbose bool) (*Result, error) {
	return WithBrowser(ctx, urlStr, DefaultTimeout, verbose)
}

// ShouldUseBrowser reports whether a plain HTTP result is too thin to
// analyze, which on this site means the sections never mounted.
func ShouldUseBrowser(result *Result) bool {
	if result == nil || result.Doc == nil {
		return true
	}
	return result.Doc.Find("section, main").Length() < 2 ||
		len(result.HTML) < minRenderedBytes
}

// minRenderedBytes is well below any real profile page but above the shell
// document served to logged-out clients.
const minRenderedBytes = 20 * 1024
