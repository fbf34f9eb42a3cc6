package services

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"autotrader-search/models"
)

const (
	ldJSONSelector = `script[type="application/ld+json"]`
	// The vehicle block is the second JSON-LD script on a listing page; the
	// first describes the site.
	vehicleBlockIndex = 1
)

// vehicleLD is the subset of the schema.org Vehicle/Car object we read. Every
// field is kept raw because the site is inconsistent about strings versus
// numbers versus nested objects.
type vehicleLD struct {
	URL                  json.RawMessage `json:"url"`
	Name                 json.RawMessage `json:"name"`
	Brand                json.RawMessage `json:"brand"`
	Model                json.RawMessage `json:"model"`
	VehicleModelDate     json.RawMessage `json:"vehicleModelDate"`
	Color                json.RawMessage `json:"color"`
	MileageFromOdometer  json.RawMessage `json:"mileageFromOdometer"`
	Offers               json.RawMessage `json:"offers"`
	VehicleConfiguration json.RawMessage `json:"vehicleConfiguration"`
}

type quantitativeLD struct {
	Value json.RawMessage `json:"value"`
}

type offerLD struct {
	Price          json.RawMessage `json:"price"`
	EligibleRegion json.RawMessage `json:"eligibleRegion"`
}

// Extract turns a fetched page into a listing. Cached pages are returned as
// they are. Raw pages are read from their embedded JSON-LD; when the vehicle
// block is missing or malformed the result is an empty listing, never an
// error. Absent source values stay absent.
func Extract(page models.Page) models.Listing {
	switch page.Kind {
	case models.PageCached:
		if page.Record == nil {
			return models.Listing{}
		}
		return *page.Record
	case models.PageRaw:
		return extractRaw(page.Body)
	default:
		return models.Listing{}
	}
}

func extractRaw(body []byte) models.Listing {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return models.Listing{}
	}

	scripts := doc.Find(ldJSONSelector)
	if scripts.Length() <= vehicleBlockIndex {
		return models.Listing{}
	}

	var v vehicleLD
	if err := json.Unmarshal([]byte(scripts.Eq(vehicleBlockIndex).Text()), &v); err != nil {
		return models.Listing{}
	}

	l := models.Listing{
		Name:                 textValue(v.Name),
		Make:                 textValue(v.Brand),
		Model:                textValue(v.Model),
		Year:                 intValue(v.VehicleModelDate),
		Color:                textValue(v.Color),
		VehicleConfiguration: textValue(v.VehicleConfiguration),
	}
	if u := textValue(v.URL); u != nil {
		l.URL = *u
	}

	var odo quantitativeLD
	if json.Unmarshal(v.MileageFromOdometer, &odo) == nil {
		l.Mileage = intValue(odo.Value)
	}

	var offer offerLD
	if json.Unmarshal(v.Offers, &offer) == nil {
		l.Price = floatValue(offer.Price)
		l.Location = textValue(offer.EligibleRegion)
	}

	return l
}

// textValue reads a JSON string, a number, or an object carrying a "name"
// (schema.org Brand, Place). Blank and null values are absent.
func textValue(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		return nonEmpty(s)
	}

	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return nonEmpty(n.String())
	}

	var named struct {
		Name json.RawMessage `json:"name"`
	}
	if json.Unmarshal(raw, &named) == nil && len(named.Name) > 0 {
		return textValue(named.Name)
	}
	return nil
}

// intValue reads a non-negative whole number from a JSON number or a numeric
// string such as "45,000".
func intValue(raw json.RawMessage) *int {
	f := floatValue(raw)
	if f == nil || *f > math.MaxInt32 {
		return nil
	}
	return models.Int(int(*f))
}

// floatValue reads a non-negative number from a JSON number or a numeric
// string. Anything else is absent.
func floatValue(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}

	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return nonNegative(n.String())
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		return nonNegative(s)
	}
	return nil
}

func nonNegative(s string) *float64 {
	s = strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return models.Float(f)
}

func nonEmpty(s string) *string {
	s = normaliseText(s)
	if s == "" {
		return nil
	}
	return models.Str(s)
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
