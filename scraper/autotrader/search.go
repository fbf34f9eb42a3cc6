package autotrader

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"autotrader-search/models"
	"autotrader-search/utils"
)

// listingLinkSelector matches the anchors on a results page that point at a
// listing detail page.
const listingLinkSelector = "a.detail-price-area, a.inner-link"

// Searcher turns a make/model term into the listing URLs found on one
// results page.
type Searcher struct {
	source   PageSource
	baseURL  string
	pageSize int
	logger   *utils.Logger
}

// NewSearcher creates a Searcher against baseURL requesting pageSize results.
func NewSearcher(source PageSource, baseURL string, pageSize int, logger *utils.Logger) *Searcher {
	return &Searcher{
		source:   source,
		baseURL:  strings.TrimRight(baseURL, "/"),
		pageSize: pageSize,
		logger:   logger,
	}
}

// FindListings fetches the results page for term and returns the listing
// links on it. The list may contain duplicates.
func (s *Searcher) FindListings(ctx context.Context, term models.SearchTerm, location string, radiusKm int) ([]string, error) {
	searchURL := SearchURL(s.baseURL, term, location, radiusKm, s.pageSize)
	s.logger.Debug("[search] Requesting URL: %s", searchURL)

	body, err := s.source.Get(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("fetch search results for %s: %w", term, err)
	}

	links, err := ExtractListingLinks(s.baseURL, body)
	if err != nil {
		return nil, fmt.Errorf("parse search results for %s: %w", term, err)
	}
	return links, nil
}

// SearchURL builds the results-page URL for a term. Spaces are encoded as
// %20 rather than '+'.
func SearchURL(baseURL string, term models.SearchTerm, location string, radiusKm, pageSize int) string {
	q := url.Values{}
	q.Set("loc", location)
	q.Set("make", term.Make)
	q.Set("mdl", term.Model)
	q.Set("prx", strconv.Itoa(radiusKm))
	q.Set("rcp", strconv.Itoa(pageSize))

	// Encode escapes a literal '+' as %2B, so every remaining '+' is a space.
	return strings.TrimRight(baseURL, "/") + "/cars/?" + strings.ReplaceAll(q.Encode(), "+", "%20")
}

// ExtractListingLinks returns the absolute listing URLs on a results page in
// document order.
func ExtractListingLinks(baseURL string, body []byte) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var links []string
	doc.Find(listingLinkSelector).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		links = append(links, base.ResolveReference(ref).String())
	})
	return links, nil
}
