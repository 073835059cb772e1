package symbols

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Listing is one tradable instrument in the local symbol index.
type Listing struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Region   string `json:"region"`
}

// LoadListings reads a symbol,name,exchange,region CSV. The header row is
// optional; exchange and region may be omitted.
func LoadListings(path string) ([]Listing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open listings: %w", err)
	}
	defer f.Close()
	return ReadListings(f)
}

// ReadListings parses listings CSV from r.
func ReadListings(r io.Reader) ([]Listing, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse listings: %w", err)
	}
	if len(records) > 0 && strings.EqualFold(records[0][0], "symbol") {
		records = records[1:]
	}

	listings := make([]Listing, 0, len(records))
	for _, rec := range records {
		if len(rec) < 2 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		l := Listing{Symbol: strings.TrimSpace(rec[0]), Name: strings.TrimSpace(rec[1])}
		if len(rec) > 2 {
			l.Exchange = strings.TrimSpace(rec[2])
		}
		if len(rec) > 3 {
			l.Region = strings.TrimSpace(rec[3])
		}
		listings = append(listings, l)
	}
	return listings, nil
}
