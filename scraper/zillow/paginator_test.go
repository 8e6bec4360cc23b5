package zillow

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"testing"

	"zillow-scraper/config"
	"zillow-scraper/models"
)

const (
	htmlWithNext     = `<html><body><a rel="next" href="/denver-co/rentals/2_p/">Next</a></body></html>`
	htmlDisabledNext = `<html><body><a rel="next" aria-disabled="true">Next</a></body></html>`
	htmlNoNext       = `<html><body><p>end of results</p></body></html>`
)

type fakeRenderer struct {
	htmls  []string
	failAt int // 1-based call number that errors; 0 means never
	calls  int
	urls   []string
}

func (f *fakeRenderer) Render(_ context.Context, target string) (models.PageResult, error) {
	f.calls++
	f.urls = append(f.urls, target)
	if f.failAt > 0 && f.calls == f.failAt {
		return models.PageResult{URL: target}, errors.New("render exploded")
	}
	return models.PageResult{
		URL:        target,
		StatusCode: 200,
		HTML:       f.htmls[f.calls-1],
		OK:         true,
	}, nil
}

func testConfig(maxPages int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.MaxPages = maxPages
	cfg.PageDelaySeconds = 0
	return cfg
}

func TestFetchAllStopsAtTerminationSignal(t *testing.T) {
	// Signal fires on page 3 of a 10-page budget: exactly 3 fetches.
	renderer := &fakeRenderer{htmls: []string{htmlWithNext, htmlWithNext, htmlNoNext}}
	pages := NewPaginator(renderer, testConfig(10)).FetchAll(context.Background(), "https://www.zillow.com/denver-co/rentals/")

	if renderer.calls != 3 {
		t.Errorf("expected exactly 3 fetches, got %d", renderer.calls)
	}
	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}
	for i, p := range pages {
		if p.PageNumber != i+1 {
			t.Errorf("page %d has number %d", i, p.PageNumber)
		}
	}
}

func TestFetchAllHonoursMaxPages(t *testing.T) {
	renderer := &fakeRenderer{htmls: []string{htmlWithNext, htmlWithNext, htmlWithNext, htmlWithNext}}
	pages := NewPaginator(renderer, testConfig(2)).FetchAll(context.Background(), "https://www.zillow.com/denver-co/rentals/")

	if renderer.calls != 2 {
		t.Errorf("expected 2 fetches at the page bound, got %d", renderer.calls)
	}
	if len(pages) != 2 {
		t.Errorf("expected 2 pages, got %d", len(pages))
	}
}

func TestFetchAllDisabledNextStops(t *testing.T) {
	renderer := &fakeRenderer{htmls: []string{htmlDisabledNext}}
	pages := NewPaginator(renderer, testConfig(5)).FetchAll(context.Background(), "https://www.zillow.com/denver-co/rentals/")

	if renderer.calls != 1 || len(pages) != 1 {
		t.Errorf("expected a single fetch, got calls=%d pages=%d", renderer.calls, len(pages))
	}
}

func TestFetchAllKeepsPagesBeforeFailure(t *testing.T) {
	renderer := &fakeRenderer{
		htmls:  []string{htmlWithNext, htmlWithNext, ""},
		failAt: 3,
	}
	pages := NewPaginator(renderer, testConfig(10)).FetchAll(context.Background(), "https://www.zillow.com/denver-co/rentals/")

	if renderer.calls != 3 {
		t.Errorf("expected the failing fetch to be attempted, got %d calls", renderer.calls)
	}
	if len(pages) != 2 {
		t.Fatalf("expected the 2 successful pages to be retained, got %d", len(pages))
	}
}

func TestFetchAllPageOneUsesSeedVerbatim(t *testing.T) {
	seed := "https://www.zillow.com/denver-co/rentals/?searchQueryState=%7B%22usersSearchTerm%22%3A%22Denver%22%7D"
	renderer := &fakeRenderer{htmls: []string{htmlNoNext}}
	NewPaginator(renderer, testConfig(3)).FetchAll(context.Background(), seed)

	if renderer.urls[0] != seed {
		t.Errorf("page 1 URL was rewritten: %q", renderer.urls[0])
	}
}

func TestPageURLRewritesCursor(t *testing.T) {
	seed := "https://www.zillow.com/denver-co/rentals/?searchQueryState=" +
		url.QueryEscape(`{"usersSearchTerm":"Denver, CO","filterState":{"beds":{"min":5}}}`)

	got, err := PageURL(seed, 3)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("result is not a valid URL: %v", err)
	}
	if u.Path != "/denver-co/rentals/3_p/" {
		t.Errorf("expected pagination path segment, got %q", u.Path)
	}

	var state map[string]interface{}
	if err := json.Unmarshal([]byte(u.Query().Get("searchQueryState")), &state); err != nil {
		t.Fatalf("searchQueryState is not valid JSON: %v", err)
	}
	pagination, ok := state["pagination"].(map[string]interface{})
	if !ok || pagination["currentPage"] != float64(3) {
		t.Errorf("pagination cursor not set, state=%v", state)
	}
	if _, ok := state["filterState"]; !ok {
		t.Errorf("original search state dropped: %v", state)
	}
}

func TestPageURLReplacesExistingSegment(t *testing.T) {
	got, err := PageURL("https://www.zillow.com/denver-co/rentals/2_p/", 4)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(got, "/rentals/4_p/") {
		t.Errorf("expected 4_p segment, got %q", got)
	}
	if strings.Contains(got, "2_p") {
		t.Errorf("stale pagination segment kept: %q", got)
	}
}

func TestPageURLFirstPageUntouched(t *testing.T) {
	seed := "https://www.zillow.com/denver-co/rentals/"
	got, err := PageURL(seed, 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != seed {
		t.Errorf("page 1 must use the seed verbatim, got %q", got)
	}
}

func TestHasNextPage(t *testing.T) {
	if !HasNextPage(htmlWithNext) {
		t.Error("expected next page for enabled rel=next anchor")
	}
	if HasNextPage(htmlDisabledNext) {
		t.Error("expected no next page for aria-disabled anchor")
	}
	if HasNextPage(htmlNoNext) {
		t.Error("expected no next page without a rel=next anchor")
	}
	if HasNextPage("") {
		t.Error("expected no next page for empty markup")
	}
}
