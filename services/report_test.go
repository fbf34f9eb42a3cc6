package services

import (
	"bytes"
	"strings"
	"testing"

	"autotrader-search/models"
	"autotrader-search/utils"
)

func sampleListings() []models.Listing {
	return []models.Listing{
		{URL: "https://x/1", Make: models.Str("Mazda"), Model: models.Str("CX-5"), Price: models.Float(21000), Mileage: models.Int(45000), Year: models.Int(2019)},
		{URL: "https://x/2", Make: models.Str("Toyota"), Model: models.Str("RAV4"), Price: models.Float(29000.5)},
		{URL: "https://x/3", Make: models.Str("Mazda"), Model: models.Str("CX-30")},
	}
}

func TestReportGenerate(t *testing.T) {
	svc := NewReportService(utils.NewLogger())
	r := svc.Generate(sampleListings())

	if r.TotalListings != 3 {
		t.Errorf("TotalListings: got %d, want 3", r.TotalListings)
	}
	if r.PricedListings != 2 {
		t.Errorf("PricedListings: got %d, want 2", r.PricedListings)
	}
	if r.MinPrice != 21000 || r.MaxPrice != 29000.5 {
		t.Errorf("price range: got %.2f-%.2f", r.MinPrice, r.MaxPrice)
	}
	if r.AveragePrice != 25000.25 {
		t.Errorf("AveragePrice: got %.2f, want 25000.25", r.AveragePrice)
	}
	if r.Cheapest == nil || r.Cheapest.URL != "https://x/1" {
		t.Errorf("Cheapest: got %+v", r.Cheapest)
	}
	if r.ListingsByMake["Mazda"] != 2 || r.ListingsByMake["Toyota"] != 1 {
		t.Errorf("ListingsByMake: got %v", r.ListingsByMake)
	}
}

func TestReportGenerateEmpty(t *testing.T) {
	r := NewReportService(utils.NewLogger()).Generate(nil)
	if r.TotalListings != 0 || r.Cheapest != nil {
		t.Errorf("expected an empty report, got %+v", r)
	}
}

func TestReportPrintTable(t *testing.T) {
	var buf bytes.Buffer
	NewReportService(utils.NewLogger()).Print(&buf, sampleListings(), "Total Combined Filtered Results")
	out := buf.String()

	for _, want := range []string{
		"Total Combined Filtered Results",
		"Mileage (km)",
		"45,000",
		"21,000",
		"29,000",
		"N/A",
		"https://x/3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReportPrintEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewReportService(utils.NewLogger()).Print(&buf, nil, "Results")
	if !strings.Contains(buf.String(), "No results found.") {
		t.Errorf("empty result should say so, got %q", buf.String())
	}
}
