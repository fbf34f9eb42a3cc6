package services

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"autotrader-search/models"
	"autotrader-search/utils"
)

var (
	makeColors = map[string]lipgloss.Color{
		"Mazda":  lipgloss.Color("6"),
		"Toyota": lipgloss.Color("2"),
		"Honda":  lipgloss.Color("3"),
	}
	defaultMakeColor = lipgloss.Color("7")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

var reportHeaders = []string{
	"#", "Make", "Model", "Year", "Mileage (km)", "Price", "Location", "Color", "Configuration", "URL",
}

type ReportService struct {
	logger *utils.Logger
}

func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

// Generate computes summary figures over listings. Price figures only use
// listings that carry a price.
func (s *ReportService) Generate(listings []models.Listing) *models.Report {
	report := &models.Report{
		ListingsByMake: make(map[string]int),
	}
	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)

	var total float64
	for i := range listings {
		l := &listings[i]
		if l.Make != nil {
			report.ListingsByMake[*l.Make]++
		}
		if l.Price == nil {
			continue
		}
		p := *l.Price
		if report.PricedListings == 0 || p < report.MinPrice {
			report.MinPrice = p
			report.Cheapest = l
		}
		if report.PricedListings == 0 || p > report.MaxPrice {
			report.MaxPrice = p
		}
		total += p
		report.PricedListings++
	}

	if report.PricedListings > 0 {
		report.AveragePrice = round2(total / float64(report.PricedListings))
	}
	s.logger.Debug("[report] %d listings, %d priced", report.TotalListings, report.PricedListings)
	return report
}

// Print renders listings as a table under title. An empty list is reported
// as "No results found." rather than an error.
func (s *ReportService) Print(w io.Writer, listings []models.Listing, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render(title+" (sorted by best price/mileage ratio):"))
	fmt.Fprintln(w)

	if len(listings) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	rows := make([][]string, 0, len(listings))
	for i, l := range listings {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			orEmpty(l.Make),
			orEmpty(l.Model),
			yearCell(l.Year),
			mileageCell(l.Mileage),
			priceCell(l.Price),
			orEmpty(l.Location),
			orEmpty(l.Color),
			orEmpty(l.VehicleConfiguration),
			l.URL,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(reportHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 1 && row >= 0 && row < len(listings) {
				return cellStyle.Foreground(colorForMake(listings[row].Make))
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())

	r := s.Generate(listings)
	if r.PricedListings > 0 {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf(
			"%d listings | price min %s / avg %s / max %s",
			r.TotalListings, humanize.Comma(int64(r.MinPrice)),
			humanize.Comma(int64(math.Round(r.AveragePrice))), humanize.Comma(int64(r.MaxPrice)))))
	}
	if len(r.ListingsByMake) > 1 {
		makes := make([]string, 0, len(r.ListingsByMake))
		for m := range r.ListingsByMake {
			makes = append(makes, m)
		}
		sort.Strings(makes)
		for _, m := range makes {
			fmt.Fprintf(w, "  %-12s %d\n", m, r.ListingsByMake[m])
		}
	}
}

func colorForMake(mk *string) lipgloss.Color {
	if mk != nil {
		if c, ok := makeColors[*mk]; ok {
			return c
		}
	}
	return defaultMakeColor
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yearCell(y *int) string {
	if y == nil {
		return ""
	}
	return strconv.Itoa(*y)
}

func mileageCell(m *int) string {
	if m == nil {
		return "N/A"
	}
	return humanize.Comma(int64(*m))
}

func priceCell(p *float64) string {
	if p == nil {
		return ""
	}
	return humanize.Comma(int64(*p))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
