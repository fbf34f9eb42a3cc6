package services

import (
	"testing"

	"autotrader-search/models"
)

func car(url string, price float64, mileage, year int) models.Listing {
	return models.Listing{
		URL:     url,
		Price:   models.Float(price),
		Mileage: models.Int(mileage),
		Year:    models.Int(year),
	}
}

func TestRankByPriceThenMileage(t *testing.T) {
	listings := []models.Listing{
		car("a", 30000, 50000, 2020),
		car("b", 25000, 80000, 2020),
		car("c", 25000, 10000, 2020),
	}
	got := Select(listings, models.Constraints{})

	want := []string{"c", "b", "a"}
	for i, url := range want {
		if got[i].URL != url {
			t.Errorf("rank %d: got %s, want %s", i, got[i].URL, url)
		}
	}
	if listings[0].URL != "a" {
		t.Error("Select must not reorder its input")
	}
}

func TestRankTreatsAbsentAsZeroAndIsStable(t *testing.T) {
	listings := []models.Listing{
		{URL: "priced", Price: models.Float(100)},
		{URL: "first-unpriced"},
		{URL: "zero-priced", Price: models.Float(0)},
		{URL: "second-unpriced"},
	}
	Rank(listings)

	want := []string{"first-unpriced", "zero-priced", "second-unpriced", "priced"}
	for i, url := range want {
		if listings[i].URL != url {
			t.Errorf("rank %d: got %s, want %s", i, listings[i].URL, url)
		}
	}
}

func TestFilterExcludesAbsentMileage(t *testing.T) {
	noMileage := models.Listing{URL: "x", Price: models.Float(1000), Year: models.Int(2020)}

	if Matches(noMileage, models.Constraints{MaxMileageKm: 100000}) {
		t.Error("listing without mileage must fail an active mileage bound")
	}
	if !Matches(noMileage, models.Constraints{}) {
		t.Error("unset constraints must always pass")
	}
}

func TestFilterBounds(t *testing.T) {
	yr := &models.YearRange{Start: 2018, End: 2022}
	c := models.Constraints{MaxMileageKm: 100000, YearRange: yr, MaxPrice: 30000}

	tests := []struct {
		name string
		l    models.Listing
		want bool
	}{
		{"all within", car("a", 29999, 99999, 2019), true},
		{"at bounds", car("b", 30000, 100000, 2022), true},
		{"year start inclusive", car("c", 1, 1, 2018), true},
		{"over price", car("d", 30000.01, 1, 2020), false},
		{"over mileage", car("e", 1, 100001, 2020), false},
		{"year too old", car("f", 1, 1, 2017), false},
		{"year too new", car("g", 1, 1, 2023), false},
		{"no year", models.Listing{URL: "h", Price: models.Float(1), Mileage: models.Int(1)}, false},
		{"no price", models.Listing{URL: "i", Mileage: models.Int(1), Year: models.Int(2020)}, false},
	}
	for _, tt := range tests {
		if got := Matches(tt.l, c); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSelectEmpty(t *testing.T) {
	if got := Select(nil, models.Constraints{MaxPrice: 1}); len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
}
