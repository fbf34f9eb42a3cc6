package autotrader

import (
	"context"
	"errors"
	"fmt"

	"autotrader-search/models"
	"autotrader-search/storage"
	"autotrader-search/utils"
)

// ErrorKind classifies a failed fetch.
type ErrorKind int

const (
	ErrKindTransport ErrorKind = iota + 1
	ErrKindStatus
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindTransport:
		return "transport"
	case ErrKindStatus:
		return "status"
	default:
		return "unknown"
	}
}

// FetchError is returned when a listing page could not be retrieved.
type FetchError struct {
	URL  string
	Kind ErrorKind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s (%s): %v", e.URL, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher resolves listing URLs to pages, serving fresh cache entries without
// touching the network.
type Fetcher struct {
	source      PageSource
	cache       storage.ListingStore
	logger      *utils.Logger
	workers     int
	rateLimitMs int
}

// NewFetcher creates a Fetcher that runs at most workers fetches at once.
func NewFetcher(source PageSource, cache storage.ListingStore, logger *utils.Logger, workers, rateLimitMs int) *Fetcher {
	if workers < 1 {
		workers = 1
	}
	return &Fetcher{
		source:      source,
		cache:       cache,
		logger:      logger,
		workers:     workers,
		rateLimitMs: rateLimitMs,
	}
}

// Fetch returns the cached record for id when it is fresh, and otherwise
// makes a single network attempt. Failures are logged and returned as
// *FetchError; there is no retry.
func (f *Fetcher) Fetch(ctx context.Context, id string) (models.Page, error) {
	if l, ok := f.cache.Load(id); ok {
		f.logger.Debug("[fetcher] Cache hit: %s", id)
		return models.CachedPage(l), nil
	}

	body, err := f.source.Get(ctx, id)
	if err != nil {
		kind := ErrKindTransport
		var se *StatusError
		if errors.As(err, &se) {
			kind = ErrKindStatus
		}
		f.logger.Error("[fetcher] Error fetching car page %s: %v", id, err)
		return models.Page{}, &FetchError{URL: id, Kind: kind, Err: err}
	}
	return models.RawPage(id, body), nil
}

type fetchResult struct {
	page models.Page
	err  error
}

// FetchAll fetches every id on a bounded worker pool and returns the pages
// that succeeded, in completion order. Failed ids are dropped; an empty
// result is not an error.
func (f *Fetcher) FetchAll(ctx context.Context, ids []string) []models.Page {
	if len(ids) == 0 {
		return nil
	}

	workers := f.workers
	if workers > len(ids) {
		workers = len(ids)
	}
	pool := utils.NewWorkerPool(workers, f.rateLimitMs)
	defer pool.Close()

	// Buffered so workers never block on reporting.
	results := make(chan fetchResult, len(ids))
	for _, id := range ids {
		pool.Submit(func() {
			page, err := f.Fetch(ctx, id)
			results <- fetchResult{page: page, err: err}
		})
	}

	pages := make([]models.Page, 0, len(ids))
	dropped := 0
	for range ids {
		r := <-results
		if r.err != nil {
			dropped++
			continue
		}
		pages = append(pages, r.page)
	}

	f.logger.Debug("[fetcher] Batch done: %d fetched, %d dropped", len(pages), dropped)
	return pages
}
