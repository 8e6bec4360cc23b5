// Package parser extracts listing records from rendered Zillow search pages.
// The page embeds its data as JSON in the __NEXT_DATA__ script tag; field
// extraction is defensive — a missing field downgrades to a placeholder, it
// never fails the record, and a broken record never fails the page.
package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"zillow-scraper/models"
)

const (
	// Unknown is written wherever the payload carries no value for a field.
	Unknown = "N/A"
	// UndisclosedAddress marks listings whose street address is withheld.
	UndisclosedAddress = "(undisclosed Address)"

	resultsPerPage = 20
	zillowBaseURL  = "https://www.zillow.com"
)

// ParseListings extracts all listing records from one page's HTML, stamping
// each with the page number and URL it came from. A page without a parseable
// embedded payload returns an error and no records; the caller treats that as
// a per-page parse failure, not a fatal one.
func ParseListings(html string, pageNumber int, pageURL string) ([]models.Listing, error) {
	next, err := ExtractNextData(html)
	if err != nil {
		return nil, err
	}

	results := searchResults(next)
	if results == nil {
		return nil, fmt.Errorf("no search results found in embedded payload")
	}

	raw := listResults(results)
	listings := make([]models.Listing, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		listing, ok := mapListing(entry)
		if !ok {
			continue
		}
		listing.PageNumber = pageNumber
		listing.PageURL = pageURL
		listings = append(listings, listing)
	}

	return listings, nil
}

// ExtractNextData locates the __NEXT_DATA__ script tag and parses its JSON.
func ExtractNextData(html string) (map[string]interface{}, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("could not parse HTML: %w", err)
	}

	script := doc.Find(`script#__NEXT_DATA__`).First()
	if script.Length() == 0 {
		return nil, fmt.Errorf("no __NEXT_DATA__ script tag in page")
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(script.Text()), &data); err != nil {
		return nil, fmt.Errorf("could not parse __NEXT_DATA__ JSON: %w", err)
	}
	return data, nil
}

// searchResults navigates the known locations of the search results object.
// Zillow has moved it around between releases; the primary path is tried
// first, then the historical alternatives.
func searchResults(next map[string]interface{}) map[string]interface{} {
	paths := [][]string{
		{"props", "pageProps", "searchPageState", "cat1", "searchResults"},
		{"props", "pageProps", "searchPageState", "searchResults"},
		{"props", "pageProps", "componentProps", "searchResults"},
		{"props", "initialReduxState", "searchPageState", "cat1", "searchResults"},
	}

	for _, path := range paths {
		if m := dig(next, path...); m != nil && len(m) > 0 {
			return m
		}
	}
	return nil
}

func listResults(results map[string]interface{}) []interface{} {
	for _, key := range []string{"listResults", "results", "mapResults"} {
		if list, ok := results[key].([]interface{}); ok && len(list) > 0 {
			return list
		}
	}
	return nil
}

// PaginationInfo extracts the result-count metadata embedded alongside the
// listings. Total pages is a ceiling over Zillow's fixed 20 results per page.
func PaginationInfo(html string) (models.PaginationInfo, error) {
	next, err := ExtractNextData(html)
	if err != nil {
		return models.PaginationInfo{}, err
	}

	results := searchResults(next)
	if results == nil {
		return models.PaginationInfo{}, fmt.Errorf("no search results found in embedded payload")
	}

	total := 0
	for _, key := range []string{"totalResultCount", "totalResults", "resultCount"} {
		if v, ok := number(results, key); ok && v > 0 {
			total = int(v)
			break
		}
	}

	current := 1
	pagination := dig(results, "searchList", "pagination")
	if pagination == nil {
		pagination = dig(results, "pagination")
	}
	if v, ok := number(pagination, "currentPage"); ok && v > 0 {
		current = int(v)
	}

	return models.PaginationInfo{
		CurrentPage:  current,
		TotalPages:   (total + resultsPerPage - 1) / resultsPerPage,
		TotalResults: total,
	}, nil
}

// mapListing normalizes one raw listing. Only the zpid is mandatory; every
// other field falls back to a placeholder or zero value.
func mapListing(entry map[string]interface{}) (models.Listing, bool) {
	zpid := text(entry, "zpid")
	if zpid == "" {
		return models.Listing{}, false
	}

	address := text(entry, "addressStreet")
	if address == "" {
		address = UndisclosedAddress
	}
	city := text(entry, "addressCity")
	state := text(entry, "addressState")
	zipcode := text(entry, "addressZipcode")

	price := text(entry, "price")
	if price == "" {
		price = Unknown
	}
	priceNumeric, ok := number(entry, "unformattedPrice")
	if !ok {
		priceNumeric, _ = ToNumber(price)
	}

	detailURL := text(entry, "detailUrl")
	if detailURL != "" && !strings.HasPrefix(detailURL, "http") {
		detailURL = zillowBaseURL + detailURL
	}

	homeInfo := dig(entry, "hdpData", "homeInfo")
	latLong := dig(entry, "latLong")

	return models.Listing{
		ZPID:          zpid,
		Address:       address,
		City:          city,
		State:         state,
		Zipcode:       zipcode,
		FullAddress:   composeAddress(address, city, state, zipcode),
		Price:         price,
		PriceNumeric:  priceNumeric,
		Bedrooms:      count(entry, "beds"),
		Bathrooms:     count(entry, "baths"),
		AreaSqft:      count(entry, "area"),
		PropertyType:  textOr(homeInfo, "homeType", Unknown),
		ListingType:   textOr(entry, "statusType", Unknown),
		ListingStatus: textOr(entry, "statusText", Unknown),
		DetailURL:     detailURL,
		ImageURL:      text(entry, "imgSrc"),
		BrokerName:    text(entry, "brokerName"),
		Latitude:      numberOr(latLong, "latitude", 0),
		Longitude:     numberOr(latLong, "longitude", 0),
	}, true
}

func composeAddress(address, city, state, zipcode string) string {
	full := address
	if city != "" {
		full += ", " + city
	}
	if state != "" || zipcode != "" {
		full += ", " + strings.TrimSpace(state+" "+zipcode)
	}
	return full
}

// ToNumber converts a display value like "$2,500/mo" to a float. Returns
// false for anything without a leading numeric part, including placeholders.
func ToNumber(raw string) (float64, bool) {
	cleaned := strings.NewReplacer("$", "", ",", "", "+", "").Replace(strings.TrimSpace(raw))
	if i := strings.IndexFunc(cleaned, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	}); i >= 0 {
		cleaned = cleaned[:i]
	}
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// dig walks nested objects, returning nil as soon as a step is missing.
func dig(m map[string]interface{}, path ...string) map[string]interface{} {
	current := m
	for _, key := range path {
		if current == nil {
			return nil
		}
		next, ok := current[key].(map[string]interface{})
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

// text returns a string field, formatting numeric values like zpids that the
// payload sometimes carries as numbers.
func text(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func textOr(m map[string]interface{}, key, fallback string) string {
	if s := text(m, key); s != "" {
		return s
	}
	return fallback
}

func number(m map[string]interface{}, key string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	v, ok := m[key].(float64)
	return v, ok
}

func numberOr(m map[string]interface{}, key string, fallback float64) float64 {
	if v, ok := number(m, key); ok {
		return v
	}
	return fallback
}

// count formats a numeric field for export, downgrading to the placeholder
// when the payload has no value.
func count(m map[string]interface{}, key string) string {
	v, ok := number(m, key)
	if !ok {
		return Unknown
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
