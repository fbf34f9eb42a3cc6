package services

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"autotrader-search/models"
)

// ParseTerms splits comma-separated buyer input into make/model terms. Each
// term is split on its first run of whitespace; the remainder, if any, is
// the model. Blank terms are skipped.
func ParseTerms(input string) []models.SearchTerm {
	var terms []models.SearchTerm
	for _, raw := range strings.Split(input, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		i := strings.IndexFunc(raw, unicode.IsSpace)
		if i < 0 {
			terms = append(terms, models.SearchTerm{Make: raw})
			continue
		}
		terms = append(terms, models.SearchTerm{
			Make:  raw[:i],
			Model: strings.TrimSpace(raw[i:]),
		})
	}
	return terms
}

// ParseYearRange parses "YYYY-YYYY". An empty string means no constraint and
// returns nil.
func ParseYearRange(input string) (*models.YearRange, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	start, end, ok := strings.Cut(input, "-")
	if !ok {
		return nil, fmt.Errorf("year range %q: want YYYY-YYYY", input)
	}
	from, err := strconv.Atoi(strings.TrimSpace(start))
	if err != nil {
		return nil, fmt.Errorf("year range %q: bad start year: %w", input, err)
	}
	to, err := strconv.Atoi(strings.TrimSpace(end))
	if err != nil {
		return nil, fmt.Errorf("year range %q: bad end year: %w", input, err)
	}
	if from > to {
		return nil, fmt.Errorf("year range %q: start after end", input)
	}
	return &models.YearRange{Start: from, End: to}, nil
}

// BuildConstraints turns raw buyer input into Constraints. Zero mileage and
// price mean unconstrained.
func BuildConstraints(in models.BuyerInput) (models.Constraints, error) {
	if in.MaxMileageKm < 0 || in.MaxPrice < 0 {
		return models.Constraints{}, fmt.Errorf("mileage and price bounds must not be negative")
	}
	yr, err := ParseYearRange(in.YearRange)
	if err != nil {
		return models.Constraints{}, err
	}
	return models.Constraints{
		MaxMileageKm: in.MaxMileageKm,
		YearRange:    yr,
		MaxPrice:     in.MaxPrice,
	}, nil
}
