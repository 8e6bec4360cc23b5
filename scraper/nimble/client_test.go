package nimble

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"zillow-scraper/config"
)

func testClient(apiURL string) *Client {
	cfg := config.DefaultConfig()
	cfg.NimbleAPIURL = apiURL
	cfg.NimbleToken = "dGVzdDp0ZXN0"
	cfg.RequestTimeoutSec = 5
	return NewClient(cfg)
}

func TestRenderSuccess(t *testing.T) {
	const page = "<html><body>rendered</body></html>"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Basic dGVzdDp0ZXN0" {
			t.Errorf("unexpected Authorization header %q", auth)
		}

		var req renderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("could not decode request body: %v", err)
		}
		if req.URL != "https://www.zillow.com/denver-co/rentals/" || !req.Render || req.Country != "US" {
			t.Errorf("unexpected request payload: %+v", req)
		}

		json.NewEncoder(w).Encode(envelope{
			Status:      "success",
			TaskID:      "task-123",
			HTMLContent: page,
		})
	}))
	defer srv.Close()

	result, err := testClient(srv.URL).Render(context.Background(), "https://www.zillow.com/denver-co/rentals/")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !result.OK || result.HTML != page || result.StatusCode != http.StatusOK {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestRenderFallbackHTMLFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Older API revisions used rendered_html instead of html_content.
		json.NewEncoder(w).Encode(envelope{Status: "success", RenderedHTML: "<html/>"})
	}))
	defer srv.Close()

	result, err := testClient(srv.URL).Render(context.Background(), "https://example.com/")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.HTML != "<html/>" {
		t.Errorf("rendered_html not picked up: %+v", result)
	}
}

func TestRenderHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exhausted", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	result, err := testClient(srv.URL).Render(context.Background(), "https://example.com/")
	if err == nil {
		t.Fatal("expected an error for non-2xx status")
	}
	if result.OK {
		t.Error("result must not be marked OK on failure")
	}
	if result.StatusCode != http.StatusPaymentRequired {
		t.Errorf("expected recorded status %d, got %d", http.StatusPaymentRequired, result.StatusCode)
	}
}

func TestRenderEmptyEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(envelope{Status: "success", TaskID: "task-9"})
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).Render(context.Background(), "https://example.com/"); err == nil {
		t.Fatal("expected an error when the envelope carries no HTML")
	}
}
