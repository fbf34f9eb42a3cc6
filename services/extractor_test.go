package services

import (
	"fmt"
	"testing"

	"autotrader-search/models"
)

const siteBlock = `<script type="application/ld+json">{"@context":"https://schema.org","@type":"WebSite","name":"AutoTrader"}</script>`

func listingPage(vehicleJSON string) []byte {
	return []byte(fmt.Sprintf(`<html><head>%s
<script type="application/ld+json">%s</script></head><body></body></html>`, siteBlock, vehicleJSON))
}

const fullVehicle = `{
  "@type": "Car",
  "url": "https://www.autotrader.ca/a/mazda/cx-5/toronto/ontario/5_1_ab/",
  "name": "2020  Mazda CX-5\n GS",
  "brand": {"@type": "Brand", "name": "Mazda"},
  "model": "CX-5",
  "vehicleModelDate": "2020",
  "color": "Soul Red",
  "mileageFromOdometer": {"@type": "QuantitativeValue", "value": "45,000", "unitCode": "KMT"},
  "offers": {"@type": "Offer", "price": 25999.99, "priceCurrency": "CAD", "eligibleRegion": "ON"},
  "vehicleConfiguration": "GS AWD"
}`

func TestExtractFullVehicle(t *testing.T) {
	l := Extract(models.RawPage("https://www.autotrader.ca/a/x", listingPage(fullVehicle)))

	if l.URL != "https://www.autotrader.ca/a/mazda/cx-5/toronto/ontario/5_1_ab/" {
		t.Errorf("URL: got %q", l.URL)
	}
	checks := []struct {
		field string
		got   *string
		want  string
	}{
		{"Name", l.Name, "2020 Mazda CX-5 GS"},
		{"Make", l.Make, "Mazda"},
		{"Model", l.Model, "CX-5"},
		{"Color", l.Color, "Soul Red"},
		{"Location", l.Location, "ON"},
		{"VehicleConfiguration", l.VehicleConfiguration, "GS AWD"},
	}
	for _, c := range checks {
		if c.got == nil || *c.got != c.want {
			t.Errorf("%s: got %v, want %q", c.field, c.got, c.want)
		}
	}
	if l.Year == nil || *l.Year != 2020 {
		t.Errorf("Year: got %v, want 2020", l.Year)
	}
	if l.Mileage == nil || *l.Mileage != 45000 {
		t.Errorf("Mileage: got %v, want 45000", l.Mileage)
	}
	if l.Price == nil || *l.Price != 25999.99 {
		t.Errorf("Price: got %v, want 25999.99", l.Price)
	}
}

func TestExtractOmitsAbsentAndNullFields(t *testing.T) {
	page := listingPage(`{"url":"https://x/1","name":null,"brand":{"name":"Honda"},"color":"  ","mileageFromOdometer":{"value":null},"offers":{"price":"0"}}`)
	l := Extract(models.RawPage("https://x/1", page))

	if l.URL != "https://x/1" {
		t.Fatalf("URL: got %q", l.URL)
	}
	if l.Name != nil || l.Color != nil || l.Mileage != nil || l.Year != nil || l.Model != nil || l.Location != nil {
		t.Errorf("null/blank/missing fields must be omitted, got %+v", l)
	}
	if l.Price == nil || *l.Price != 0 {
		t.Errorf("present zero price must be kept, got %v", l.Price)
	}
	if l.Make == nil || *l.Make != "Honda" {
		t.Errorf("Make: got %v", l.Make)
	}
}

func TestExtractMalformedPages(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"no scripts", "<html><body>hello</body></html>"},
		{"one block only", "<html>" + siteBlock + "</html>"},
		{"bad json", string(listingPage(`{"url": "https://x/1",`))},
		{"array payload", string(listingPage(`[{"url":"https://x/1"}]`))},
		{"wrong types", string(listingPage(`{"url": true, "offers": "cheap", "mileageFromOdometer": 5}`))},
	}
	for _, tt := range tests {
		l := Extract(models.RawPage("https://x/1", []byte(tt.body)))
		if !l.IsEmpty() {
			t.Errorf("%s: expected empty listing, got %+v", tt.name, l)
		}
	}
}

func TestExtractNegativeNumbersAreAbsent(t *testing.T) {
	l := Extract(models.RawPage("https://x/1", listingPage(`{"url":"https://x/1","mileageFromOdometer":{"value":-5},"offers":{"price":"-1"}}`)))
	if l.Mileage != nil || l.Price != nil {
		t.Errorf("negative values should be dropped, got mileage=%v price=%v", l.Mileage, l.Price)
	}
}

func TestExtractCachedIsIdentity(t *testing.T) {
	cached := &models.Listing{URL: "https://x/1", Year: models.Int(2019)}
	l := Extract(models.CachedPage(cached))
	if l.URL != cached.URL || l.Year != cached.Year {
		t.Errorf("cached page should pass through unchanged, got %+v", l)
	}
	if got := Extract(models.Page{Kind: models.PageCached}); !got.IsEmpty() {
		t.Errorf("cached page without record: got %+v", got)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	first := Extract(models.RawPage("https://x", listingPage(fullVehicle)))
	second := Extract(models.CachedPage(&first))

	if second.URL != first.URL ||
		*second.Name != *first.Name ||
		*second.Make != *first.Make ||
		*second.Year != *first.Year ||
		*second.Mileage != *first.Mileage ||
		*second.Price != *first.Price ||
		*second.Location != *first.Location {
		t.Errorf("extract(extract(p)) differs:\n first  %+v\n second %+v", first, second)
	}
}

func TestNormaliseText(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  a  b\tc\n", "a b c"},
		{"", ""},
		{"single", "single"},
	}
	for _, tt := range tests {
		if got := normaliseText(tt.in); got != tt.want {
			t.Errorf("normaliseText(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
