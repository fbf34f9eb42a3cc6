package models

// Listing is one normalized vehicle listing. URL identifies it and is the
// cache key; every other field is optional and nil when the source page did
// not carry it. A nil field is never the same as a zero value.
type Listing struct {
	URL                  string   `json:"url,omitempty"`
	Name                 *string  `json:"name,omitempty"`
	Make                 *string  `json:"make,omitempty"`
	Model                *string  `json:"model,omitempty"`
	Year                 *int     `json:"year,omitempty"`
	Color                *string  `json:"color,omitempty"`
	Mileage              *int     `json:"mileage,omitempty"`
	Price                *float64 `json:"price,omitempty"`
	Location             *string  `json:"location,omitempty"`
	VehicleConfiguration *string  `json:"vehicle_configuration,omitempty"`
}

// IsEmpty reports whether the listing carries no URL and therefore cannot be
// cached or identified later.
func (l Listing) IsEmpty() bool {
	return l.URL == ""
}

// PriceOrZero and MileageOrZero are for ordering and display only. Filtering
// must look at the pointers.
func (l Listing) PriceOrZero() float64 {
	if l.Price == nil {
		return 0
	}
	return *l.Price
}

func (l Listing) MileageOrZero() int {
	if l.Mileage == nil {
		return 0
	}
	return *l.Mileage
}

// Str, Int and Float build optional field values.
func Str(s string) *string { return &s }

func Int(n int) *int { return &n }

func Float(f float64) *float64 { return &f }

// PageKind tags the two shapes a fetch can produce.
type PageKind int

const (
	// PageRaw holds an undecoded listing page fetched from the network.
	PageRaw PageKind = iota
	// PageCached holds a record loaded from the listing cache.
	PageCached
)

func (k PageKind) String() string {
	switch k {
	case PageRaw:
		return "raw"
	case PageCached:
		return "cached"
	default:
		return "unknown"
	}
}

// Page is the result of fetching one listing identifier.
type Page struct {
	Kind   PageKind
	URL    string
	Body   []byte
	Record *Listing
}

// RawPage wraps a fetched page body.
func RawPage(url string, body []byte) Page {
	return Page{Kind: PageRaw, URL: url, Body: body}
}

// CachedPage wraps a record served from the cache.
func CachedPage(l *Listing) Page {
	return Page{Kind: PageCached, URL: l.URL, Record: l}
}

// Report holds summary figures over a ranked result set.
type Report struct {
	TotalListings  int
	PricedListings int
	AveragePrice   float64
	MinPrice       float64
	MaxPrice       float64
	Cheapest       *Listing
	ListingsByMake map[string]int
}
