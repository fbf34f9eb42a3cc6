package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"autotrader-search/models"
	"autotrader-search/services"
)

// AskBuyerInput collects the search location, bounds and make/model terms.
func AskBuyerInput() (models.BuyerInput, error) {
	var (
		location  string
		radius    = "100"
		mileage   = "0"
		yearRange string
		price     = "0"
		terms     string
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Enter your postal code").
				Placeholder("A1A1A1").
				Value(&location).
				Validate(required("postal code")),
			huh.NewInput().
				Title("Enter the search radius in kilometers").
				Value(&radius).
				Validate(nonNegativeInt),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Enter the maximum mileage in kilometers").
				Description("0 means no limit").
				Value(&mileage).
				Validate(nonNegativeInt),
			huh.NewInput().
				Title("Enter the year range").
				Description("e.g. 2015-2020, leave empty for any year").
				Value(&yearRange).
				Validate(validYearRange),
			huh.NewInput().
				Title("Enter the maximum price in CAD").
				Description("0 means no limit").
				Value(&price).
				Validate(nonNegativeInt),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Enter the makes and models you want to search for").
				Description("Comma-separated, e.g. Mazda CX-5, Toyota RAV4, Honda CR-V").
				Value(&terms).
				Validate(validTerms),
		),
	)

	if err := form.Run(); err != nil {
		return models.BuyerInput{}, fmt.Errorf("prompt cancelled: %w", err)
	}

	return Parse(location, radius, mileage, yearRange, price, terms)
}

// Parse converts raw answers into BuyerInput, applying the same validation
// as the form.
func Parse(location, radius, mileage, yearRange, price, terms string) (models.BuyerInput, error) {
	for _, check := range []struct {
		name string
		err  error
	}{
		{"postal code", required("postal code")(location)},
		{"radius", nonNegativeInt(radius)},
		{"mileage", nonNegativeInt(mileage)},
		{"year range", validYearRange(yearRange)},
		{"price", nonNegativeInt(price)},
		{"terms", validTerms(terms)},
	} {
		if check.err != nil {
			return models.BuyerInput{}, fmt.Errorf("%s: %w", check.name, check.err)
		}
	}

	return models.BuyerInput{
		Location:     strings.TrimSpace(location),
		RadiusKm:     atoi(radius),
		MaxMileageKm: atoi(mileage),
		YearRange:    strings.TrimSpace(yearRange),
		MaxPrice:     atoi(price),
		Terms:        terms,
	}, nil
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", name)
		}
		return nil
	}
}

func nonNegativeInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter a whole number")
	}
	if n < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func validYearRange(s string) error {
	_, err := services.ParseYearRange(s)
	return err
}

func validTerms(s string) error {
	if len(services.ParseTerms(s)) == 0 {
		return fmt.Errorf("enter at least one make")
	}
	return nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
