package services

import (
	"sort"

	"autotrader-search/models"
)

// Select filters listings by c and ranks the survivors by price, then
// mileage. The input slice is not modified.
func Select(listings []models.Listing, c models.Constraints) []models.Listing {
	filtered := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if Matches(l, c) {
			filtered = append(filtered, l)
		}
	}
	Rank(filtered)
	return filtered
}

// Matches reports whether l satisfies every active constraint. An active
// bound on a field the listing lacks is a failure.
func Matches(l models.Listing, c models.Constraints) bool {
	if c.MaxMileageKm != 0 {
		if l.Mileage == nil || *l.Mileage > c.MaxMileageKm {
			return false
		}
	}
	if c.YearRange != nil {
		if l.Year == nil || !c.YearRange.Contains(*l.Year) {
			return false
		}
	}
	if c.MaxPrice != 0 {
		if l.Price == nil || *l.Price > float64(c.MaxPrice) {
			return false
		}
	}
	return true
}

// Rank sorts listings in place by ascending price, then ascending mileage.
// Missing values sort as zero. Equal keys keep their original order.
func Rank(listings []models.Listing) {
	sort.SliceStable(listings, func(i, j int) bool {
		pi, pj := listings[i].PriceOrZero(), listings[j].PriceOrZero()
		if pi != pj {
			return pi < pj
		}
		return listings[i].MileageOrZero() < listings[j].MileageOrZero()
	})
}
