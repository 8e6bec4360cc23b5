package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"zillow-scraper/models"
	"zillow-scraper/utils"
)

// Columns is the fixed CSV column set. Downstream consumers key on these
// names, so every row carries every column — placeholders included.
var Columns = []string{
	"zpid", "address", "city", "state", "zipcode", "full_address",
	"price", "price_numeric", "bedrooms", "bathrooms", "area_sqft",
	"property_type", "listing_type", "listing_status",
	"detail_url", "image_url", "broker_name",
	"latitude", "longitude", "page_number", "page_url",
}

// CSVWriter saves listings as a flat table with the fixed column set.
type CSVWriter struct {
	path string
}

func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Write saves all listings to the CSV file, creating the output directory if
// it does not exist. One row per record; row count equals record count.
func (w *CSVWriter) Write(listings []models.Listing) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("could not create output dir: %w", err)
	}

	file, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write(Columns)

	for _, l := range listings {
		writer.Write([]string{
			l.ZPID,
			l.Address,
			l.City,
			l.State,
			l.Zipcode,
			l.FullAddress,
			l.Price,
			strconv.FormatFloat(l.PriceNumeric, 'f', 2, 64),
			l.Bedrooms,
			l.Bathrooms,
			l.AreaSqft,
			l.PropertyType,
			l.ListingType,
			l.ListingStatus,
			l.DetailURL,
			l.ImageURL,
			l.BrokerName,
			strconv.FormatFloat(l.Latitude, 'f', 6, 64),
			strconv.FormatFloat(l.Longitude, 'f', 6, 64),
			strconv.Itoa(l.PageNumber),
			l.PageURL,
		})
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("csv write error: %w", err)
	}

	utils.Success("Saved %d listings → %s", len(listings), w.path)
	return nil
}
