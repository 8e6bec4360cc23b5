package models

// Listing is one normalized Zillow search result. Optional fields that are
// absent from the embedded payload hold the "N/A" placeholder so the CSV
// column set stays fixed across runs.
type Listing struct {
	ZPID          string  `json:"zpid"`
	Address       string  `json:"address"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	Zipcode       string  `json:"zipcode"`
	FullAddress   string  `json:"full_address"`
	Price         string  `json:"price"`
	PriceNumeric  float64 `json:"price_numeric"`
	Bedrooms      string  `json:"bedrooms"`
	Bathrooms     string  `json:"bathrooms"`
	AreaSqft      string  `json:"area_sqft"`
	PropertyType  string  `json:"property_type"`
	ListingType   string  `json:"listing_type"`
	ListingStatus string  `json:"listing_status"`
	DetailURL     string  `json:"detail_url"`
	ImageURL      string  `json:"image_url"`
	BrokerName    string  `json:"broker_name"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	PageNumber    int     `json:"page_number"`
	PageURL       string  `json:"page_url"`
}

// PageResult is one fetched search page. Pages are produced strictly in
// order; PageNumber starts at 1.
type PageResult struct {
	PageNumber int
	URL        string
	StatusCode int
	HTML       string
	OK         bool
}

// PaginationInfo is the pagination metadata Zillow embeds alongside the
// search results. TotalPages is derived from the result count at 20 results
// per page.
type PaginationInfo struct {
	CurrentPage  int `json:"current_page"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}
