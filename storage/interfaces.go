package storage

import "autotrader-search/models"

// ListingStore is the cache contract the fetcher and the search service rely
// on. Load must only return fresh entries.
type ListingStore interface {
	HasFresh(id string) bool
	Load(id string) (*models.Listing, bool)
	Store(id string, l *models.Listing) error
}

// ListingWriter exports a final result set.
type ListingWriter interface {
	Write(listings []models.Listing) error
	Close() error
}

var (
	_ ListingStore  = (*ListingCache)(nil)
	_ ListingWriter = (*CSVWriter)(nil)
)
