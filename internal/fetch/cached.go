// Package fetch - cached.go wraps page acquisition with store-backed caching
// of the raw HTML, so repeated analyses of an unchanged page skip the network
// entirely.
package fetch

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/prPMDev/elevateli/internal/cache"
)

// DefaultPageTTL is how long a cached raw page stays fresh.
const DefaultPageTTL = 24 * time.Hour

const pageKeyPrefix = "page:"

// CachedFetcher wraps URL fetching with store-backed page caching. Page
// caching is independent of result caching; a fresh page can still produce a
// cache-hit analysis and vice versa.
type CachedFetcher struct {
	store     cache.Store
	options   *Options
	ttl       time.Duration
	skipCache bool
	now       func() time.Time
}

// CachedFetcherConfig holds configuration for the cached fetcher.
type CachedFetcherConfig struct {
	TTL       time.Duration
	SkipCache bool
	Options   *Options
}

// NewCachedFetcher creates a cached fetcher over the given store.
func NewCachedFetcher(store cache.Store, config *CachedFetcherConfig) *CachedFetcher {
	if config == nil {
		config = &CachedFetcherConfig{}
	}
	if config.Options == nil {
		config.Options = DefaultOptions()
	}
	if config.TTL == 0 {
		config.TTL = DefaultPageTTL
	}
	return &CachedFetcher{
		store:     store,
		options:   config.Options,
		ttl:       config.TTL,
		skipCache: config.SkipCache,
		now:       time.Now,
	}
}

// CachedResult extends Result with cache provenance.
type CachedResult struct {
	*Result
	FromCache bool
}

// cachedPage is the stored form of a fetched page.
type cachedPage struct {
	URL       string    `json:"url"`
	HTML      string    `json:"html"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Fetch returns the page for a URL, from cache when fresh, from the network
// otherwise. A failing cache never fails the fetch; it only costs a network
// round trip.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*CachedResult, error) {
	key := pageKeyPrefix + ProfileIDFromURL(urlStr)

	if !f.skipCache && f.store != nil {
		if page := f.freshPage(ctx, key); page != nil {
			result, err := FromHTML(ProfileIDFromURL(urlStr), page.HTML)
			if err == nil {
				result.URL = page.URL
				return &CachedResult{Result: result, FromCache: true}, nil
			}
			log.Printf("[fetch] cached page for %s unparsable, refetching: %v", urlStr, err)
		}
	}

	result, err := URL(ctx, urlStr, f.options)
	if err != nil {
		return nil, err
	}

	if f.store != nil {
		raw, err := json.Marshal(cachedPage{URL: urlStr, HTML: result.HTML, FetchedAt: f.now().UTC()})
		if err == nil {
			err = f.store.Set(ctx, map[string][]byte{key: raw})
		}
		if err != nil {
			log.Printf("[fetch] page cache write for %s failed: %v", urlStr, err)
		}
	}

	return &CachedResult{Result: result, FromCache: false}, nil
}

// Invalidate removes the cached page for a URL.
func (f *CachedFetcher) Invalidate(ctx context.Context, urlStr string) error {
	if f.store == nil {
		return nil
	}
	return f.store.Remove(ctx, []string{pageKeyPrefix + ProfileIDFromURL(urlStr)})
}

// freshPage returns the cached page when present, decodable, and younger
// than the TTL. Every failure mode reads as a miss.
func (f *CachedFetcher) freshPage(ctx context.Context, key string) *cachedPage {
	values, err := f.store.Get(ctx, []string{key})
	if err != nil {
		log.Printf("[fetch] page cache read failed: %v", err)
		return nil
	}
	raw, ok := values[key]
	if !ok {
		return nil
	}

	var page cachedPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil
	}
	if f.now().Sub(page.FetchedAt) >= f.ttl {
		return nil
	}
	return &page
}
