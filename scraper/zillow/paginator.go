// Package zillow drives pagination over Zillow search results. The search is
// a SPA whose page state lives in the searchQueryState query parameter, so
// advancing a page means rewriting the seed URL rather than following links.
package zillow

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"zillow-scraper/config"
	"zillow-scraper/models"
	"zillow-scraper/utils"
)

// Renderer fetches one fully rendered page. Implemented by the Nimble client
// and the local browser renderer.
type Renderer interface {
	Render(ctx context.Context, url string) (models.PageResult, error)
}

type Paginator struct {
	renderer Renderer
	maxPages int
	delay    time.Duration
}

func NewPaginator(renderer Renderer, cfg *config.Config) *Paginator {
	return &Paginator{
		renderer: renderer,
		maxPages: cfg.MaxPages,
		delay:    cfg.PageDelay(),
	}
}

// FetchAll fetches pages 1..maxPages sequentially, stopping early when the
// markup signals there is no next page or a fetch fails. Pages fetched before
// a failure are retained. Page N+1 is never requested before page N returned.
func (p *Paginator) FetchAll(ctx context.Context, seedURL string) []models.PageResult {
	var pages []models.PageResult

	for n := 1; n <= p.maxPages; n++ {
		utils.Section(fmt.Sprintf("Page %d", n))

		pageURL, err := PageURL(seedURL, n)
		if err != nil {
			utils.Error("Could not build URL for page %d: %v", n, err)
			break
		}

		result, err := p.renderer.Render(ctx, pageURL)
		if err != nil {
			utils.Error("Page %d fetch failed: %v — keeping %d fetched pages", n, err, len(pages))
			break
		}

		result.PageNumber = n
		pages = append(pages, result)

		if !HasNextPage(result.HTML) {
			utils.Success("No more pages available. Total pages fetched: %d", n)
			break
		}

		if n < p.maxPages {
			utils.Info("Next page available, continuing to page %d", n+1)
			utils.Pause(p.delay)
		}
	}

	return pages
}

// PageURL derives the URL for a given result page from the seed search URL.
// Page 1 is always the seed itself. For later pages the pagination cursor is
// written into the searchQueryState JSON, and the path gains Zillow's
// cosmetic N_p segment (replacing any existing one).
func PageURL(seed string, page int) (string, error) {
	if page <= 1 {
		return seed, nil
	}

	u, err := url.Parse(seed)
	if err != nil {
		return "", fmt.Errorf("invalid seed URL: %w", err)
	}

	var kept []string
	for _, part := range strings.Split(strings.Trim(u.Path, "/"), "/") {
		if part != "" && !strings.HasSuffix(part, "_p") {
			kept = append(kept, part)
		}
	}
	kept = append(kept, fmt.Sprintf("%d_p", page))
	u.Path = "/" + strings.Join(kept, "/") + "/"

	q := u.Query()
	if raw := q.Get("searchQueryState"); raw != "" {
		var state map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &state); err != nil {
			return "", fmt.Errorf("could not parse searchQueryState: %w", err)
		}
		state["pagination"] = map[string]interface{}{"currentPage": page}
		encoded, err := json.Marshal(state)
		if err != nil {
			return "", fmt.Errorf("could not encode searchQueryState: %w", err)
		}
		q.Set("searchQueryState", string(encoded))
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// HasNextPage reports whether the page markup carries an enabled rel=next
// pagination anchor. Unparseable markup counts as no next page — better to
// stop than to loop on garbage.
func HasNextPage(html string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}

	next := doc.Find(`a[rel="next"]`).First()
	if next.Length() == 0 {
		return false
	}
	if disabled, _ := next.Attr("aria-disabled"); disabled == "true" {
		return false
	}
	return true
}
