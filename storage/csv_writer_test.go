package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"autotrader-search/models"
)

func TestCSVWriterWritesRankedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.csv")
	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}

	listings := []models.Listing{
		{URL: "https://example.com/1", Make: models.Str("Mazda"), Price: models.Float(21000), Mileage: models.Int(40000)},
		{URL: "https://example.com/2", Make: models.Str("Honda")},
	}
	if err := w.Write(listings[:1]); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Write(listings[1:]); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("rows: got %d, want 3 (header + 2)", len(rows))
	}
	if rows[1][0] != "1" || rows[2][0] != "2" {
		t.Errorf("ranks should continue across writes, got %q and %q", rows[1][0], rows[2][0])
	}
	if rows[1][5] != "21000" {
		t.Errorf("price: got %q, want 21000", rows[1][5])
	}
	if rows[2][4] != "" || rows[2][5] != "" {
		t.Errorf("absent mileage/price should be empty cells, got %q/%q", rows[2][4], rows[2][5])
	}
	if rows[2][10] != "https://example.com/2" {
		t.Errorf("url: got %q", rows[2][10])
	}
}
