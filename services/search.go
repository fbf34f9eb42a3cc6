package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"autotrader-search/models"
	"autotrader-search/storage"
	"autotrader-search/utils"
)

// LinkFinder returns the listing URLs a results page shows for a term.
type LinkFinder interface {
	FindListings(ctx context.Context, term models.SearchTerm, location string, radiusKm int) ([]string, error)
}

// PageBatcher fetches a batch of listing URLs and returns what succeeded.
type PageBatcher interface {
	FetchAll(ctx context.Context, ids []string) []models.Page
}

// SearchService drives the per-term search, fetch, extract and cache cycle
// and accumulates listings across terms.
type SearchService struct {
	finder  LinkFinder
	fetcher PageBatcher
	cache   storage.ListingStore
	logger  *utils.Logger
	delay   time.Duration
	sleep   func(ctx context.Context, d time.Duration)
}

// NewSearchService creates a SearchService that waits delay between terms.
func NewSearchService(finder LinkFinder, fetcher PageBatcher, cache storage.ListingStore, logger *utils.Logger, delay time.Duration) *SearchService {
	return &SearchService{
		finder:  finder,
		fetcher: fetcher,
		cache:   cache,
		logger:  logger,
		delay:   delay,
		sleep:   sleepContext,
	}
}

// Run processes terms one after another; only the page fetches within a
// term run in parallel. A term whose search fails is skipped. Listings
// without a URL are dropped, the rest are written back to the cache and
// returned in accumulation order. A failed cache write is logged and the
// listing is still returned.
func (s *SearchService) Run(ctx context.Context, terms []models.SearchTerm, location string, radiusKm int) []models.Listing {
	log := s.logger.With("run", uuid.NewString())
	var listings []models.Listing

	for i, term := range terms {
		if ctx.Err() != nil {
			log.Warn("[search] Run cancelled before %s: %v", term, ctx.Err())
			break
		}
		if i > 0 && s.delay > 0 {
			s.sleep(ctx, s.delay)
		}

		tlog := log.With("term", term.String())
		tlog.Info("[search] Searching for %s within %d km of %s", term, radiusKm, location)

		links, err := s.finder.FindListings(ctx, term, location, radiusKm)
		if err != nil {
			tlog.Error("[search] Error fetching search results for %s: %v", term, err)
			continue
		}

		ids := utils.Unique(links)
		tlog.Debug("[search] %d links, %d unique", len(links), len(ids))

		pages := s.fetcher.FetchAll(ctx, ids)
		if len(pages) == 0 {
			tlog.Warn("[search] No pages found for %s. Skipping to next term.", term)
			continue
		}

		kept := 0
		for _, page := range pages {
			l := Extract(page)
			if l.IsEmpty() {
				tlog.Debug("[search] No listing data in %s", page.URL)
				continue
			}
			if err := s.cache.Store(l.URL, &l); err != nil {
				tlog.Warn("[search] Cache write failed for %s: %v", l.URL, err)
			}
			listings = append(listings, l)
			kept++
		}
		tlog.Info("[search] %s done: %d listings (%d so far)", term, kept, len(listings))
	}

	return listings
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
