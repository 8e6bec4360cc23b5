package services

import (
	"fmt"
	"math"
	"sort"

	"zillow-scraper/models"
	"zillow-scraper/parser"
)

// FieldStats are simple aggregates over the parseable numeric values of one
// field. Records carrying a placeholder or a non-positive value are excluded.
type FieldStats struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

type PageSummary struct {
	Page          int    `json:"page"`
	URL           string `json:"url"`
	ListingsCount int    `json:"listings_count"`
}

// RunSummary is the statistics document written next to the record exports.
type RunSummary struct {
	TotalPages          int                    `json:"total_pages"`
	TotalListings       int                    `json:"total_listings"`
	Pages               []PageSummary          `json:"pages"`
	PriceStats          *FieldStats            `json:"price_stats,omitempty"`
	BedsStats           *FieldStats            `json:"beds_stats,omitempty"`
	BathsStats          *FieldStats            `json:"baths_stats,omitempty"`
	BedroomDistribution map[string]int         `json:"bedroom_distribution"`
	Pagination          *models.PaginationInfo `json:"pagination,omitempty"`
}

// BuildSummary computes the run aggregates over the merged record set.
func BuildSummary(pages []PageSummary, listings []models.Listing) RunSummary {
	summary := RunSummary{
		TotalPages:          len(pages),
		TotalListings:       len(listings),
		Pages:               pages,
		BedroomDistribution: make(map[string]int),
	}

	var prices, beds, baths []float64
	for _, l := range listings {
		summary.BedroomDistribution[l.Bedrooms]++

		if l.PriceNumeric > 0 {
			prices = append(prices, l.PriceNumeric)
		} else if v, ok := parser.ToNumber(l.Price); ok && v > 0 {
			prices = append(prices, v)
		}
		if v, ok := parser.ToNumber(l.Bedrooms); ok && v > 0 {
			beds = append(beds, v)
		}
		if v, ok := parser.ToNumber(l.Bathrooms); ok && v > 0 {
			baths = append(baths, v)
		}
	}

	summary.PriceStats = fieldStats(prices)
	summary.BedsStats = fieldStats(beds)
	summary.BathsStats = fieldStats(baths)

	return summary
}

func fieldStats(values []float64) *FieldStats {
	if len(values) == 0 {
		return nil
	}

	stats := &FieldStats{Min: math.MaxFloat64, Max: -1}
	sum := 0.0
	for _, v := range values {
		sum += v
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
	}
	stats.Average = sum / float64(len(values))
	return stats
}

// PrintReport renders the run summary tables on the console.
func PrintReport(summary RunSummary, listings []models.Listing) {
	fmt.Println()
	fmt.Println("┌───────────────────────────────┬──────────────────────────────┐")
	fmt.Println("│                   Rental Market Summary                      │")
	fmt.Println("├───────────────────────────────┼──────────────────────────────┤")
	fmt.Printf("│ %-29s │ %-28d │\n", "Pages Fetched", summary.TotalPages)
	fmt.Printf("│ %-29s │ %-28d │\n", "Total Listings", summary.TotalListings)
	if summary.PriceStats != nil {
		fmt.Printf("│ %-29s │ $%-27.0f │\n", "Minimum Price", summary.PriceStats.Min)
		fmt.Printf("│ %-29s │ $%-27.0f │\n", "Maximum Price", summary.PriceStats.Max)
		fmt.Printf("│ %-29s │ $%-27.0f │\n", "Average Price", summary.PriceStats.Average)
	}
	fmt.Println("└───────────────────────────────┴──────────────────────────────┘")

	fmt.Println()
	fmt.Println("┌──────────────────────────────────────────────┬───────────────┐")
	fmt.Println("│ Bedrooms                                     │ Listings      │")
	fmt.Println("├──────────────────────────────────────────────┼───────────────┤")
	for _, key := range sortedKeys(summary.BedroomDistribution) {
		fmt.Printf("│ %-44s │ %-13d │\n", key, summary.BedroomDistribution[key])
	}
	fmt.Println("└──────────────────────────────────────────────┴───────────────┘")

	sample := listings
	if len(sample) > 3 {
		sample = sample[:3]
	}
	if len(sample) > 0 {
		fmt.Println()
		fmt.Println("Sample listings:")
		for i, l := range sample {
			fmt.Printf("%d. %s\n", i+1, l.FullAddress)
			fmt.Printf("   %s/mo | %s bed | %s bath | %s sqft | page %d\n",
				l.Price, l.Bedrooms, l.Bathrooms, l.AreaSqft, l.PageNumber)
		}
	}
	fmt.Println()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
