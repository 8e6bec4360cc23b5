package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"zillow-scraper/config"
	"zillow-scraper/models"
	"zillow-scraper/parser"
	"zillow-scraper/scraper/browser"
	"zillow-scraper/scraper/nimble"
	"zillow-scraper/scraper/zillow"
	"zillow-scraper/services"
	"zillow-scraper/storage"
	"zillow-scraper/utils"
)

const configPath = "config/config.yaml"

func main() {
	cfg, err := config.Load(configPath)
	if err != nil {
		utils.Error("Could not load config: %v", err)
		os.Exit(1)
	}

	utils.Info("Scraper starting | pages=%d delay=%v renderer=%s",
		cfg.MaxPages, cfg.PageDelay(), cfg.Renderer)

	renderer, cleanup := buildRenderer(cfg)
	defer cleanup()

	paginator := zillow.NewPaginator(renderer, cfg)
	pages := paginator.FetchAll(context.Background(), cfg.SearchURL)

	if len(pages) == 0 {
		utils.Warn("No pages were fetched.")
		os.Exit(0)
	}

	utils.Section("Parsing listings")

	var listings []models.Listing
	var pageSummaries []services.PageSummary
	parseFailures := 0

	for _, page := range pages {
		pageListings, err := parser.ParseListings(page.HTML, page.PageNumber, page.URL)
		if err != nil {
			utils.Warn("Page %d: %v — skipping its records", page.PageNumber, err)
			parseFailures++
		}
		listings = append(listings, pageListings...)
		pageSummaries = append(pageSummaries, services.PageSummary{
			Page:          page.PageNumber,
			URL:           page.URL,
			ListingsCount: len(pageListings),
		})
		utils.Success("Page %d: %d listings (total %d)",
			page.PageNumber, len(pageListings), len(listings))
	}

	summary := services.BuildSummary(pageSummaries, listings)
	if info, err := parser.PaginationInfo(pages[0].HTML); err == nil {
		summary.Pagination = &info
	}

	// Exports run even after parse failures — whatever was accumulated
	// still gets written.
	utils.Section("Exporting")
	base := filepath.Join(cfg.OutputDir, cfg.OutputPrefix)
	if err := storage.NewCSVWriter(base + ".csv").Write(listings); err != nil {
		utils.Error("Failed to save CSV: %v", err)
	}
	if err := storage.NewJSONWriter(base + ".json").Write(listings); err != nil {
		utils.Error("Failed to save JSON: %v", err)
	}
	if err := storage.NewJSONWriter(base + "_stats.json").Write(summary); err != nil {
		utils.Error("Failed to save statistics: %v", err)
	}

	printBanner(len(pages), len(listings), parseFailures)
	services.PrintReport(summary, listings)
}

// buildRenderer picks the page renderer: the Nimble API when a token is
// configured, otherwise a local headless Chrome.
func buildRenderer(cfg *config.Config) (zillow.Renderer, func()) {
	if cfg.Renderer == config.RendererBrowser || cfg.NimbleToken == "" {
		if cfg.Renderer != config.RendererBrowser {
			utils.Warn("NIMBLE_API_TOKEN not set — falling back to local browser rendering")
		}
		b := browser.NewRenderer(cfg)
		return b, b.Close
	}
	return nimble.NewClient(cfg), func() {}
}

func printBanner(pages, listings, parseFailures int) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════╗")
	fmt.Println("║                SCRAPE COMPLETE               ║")
	fmt.Println("╠══════════════════════════════════════════════╣")
	fmt.Printf( "║  Pages fetched  : %-26d║\n", pages)
	fmt.Printf( "║  Total listings : %-26d║\n", listings)
	fmt.Printf( "║  Parse failures : %-26d║\n", parseFailures)
	fmt.Println("╚══════════════════════════════════════════════╝")
	fmt.Println()
}
