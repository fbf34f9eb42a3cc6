package models

import "fmt"

// SearchTerm is one make/model pair to search for. Model may be empty.
type SearchTerm struct {
	Make  string
	Model string
}

func (t SearchTerm) String() string {
	if t.Model == "" {
		return t.Make
	}
	return t.Make + " " + t.Model
}

// YearRange is an inclusive model-year window.
type YearRange struct {
	Start int
	End   int
}

// Contains reports whether year lies within [Start, End].
func (r YearRange) Contains(year int) bool {
	return year >= r.Start && year <= r.End
}

func (r YearRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Constraints are the buyer's filters. MaxMileageKm and MaxPrice use zero to
// mean "no bound", so a literal zero bound cannot be expressed. YearRange is
// nil when unconstrained.
type Constraints struct {
	MaxMileageKm int
	YearRange    *YearRange
	MaxPrice     int
}

// BuyerInput is what the front end collects before a run.
type BuyerInput struct {
	Location     string
	RadiusKm     int
	MaxMileageKm int
	YearRange    string
	MaxPrice     int
	Terms        string
}
