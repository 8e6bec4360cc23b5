// Package nimble talks to the Nimble Web API, a hosted service that fetches
// and JavaScript-renders a target page server-side and returns the resulting
// HTML in a JSON envelope.
package nimble

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"zillow-scraper/config"
	"zillow-scraper/models"
	"zillow-scraper/utils"
)

type Client struct {
	apiURL  string
	token   string
	country string
	http    *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiURL:  cfg.NimbleAPIURL,
		token:   cfg.NimbleToken,
		country: cfg.Country,
		http:    &http.Client{Timeout: cfg.RequestTimeout()},
	}
}

type renderRequest struct {
	URL     string `json:"url"`
	Render  bool   `json:"render"`
	Country string `json:"country"`
}

// envelope is the realtime API response. Which field carries the HTML has
// varied across API revisions, so all known ones are tried in order.
type envelope struct {
	Status       string `json:"status"`
	TaskID       string `json:"task_id"`
	HTMLContent  string `json:"html_content"`
	RenderedHTML string `json:"rendered_html"`
	BrowserHTML  string `json:"browser_html"`
	HTML         string `json:"html"`
}

func (e *envelope) html() string {
	for _, h := range []string{e.HTMLContent, e.RenderedHTML, e.BrowserHTML, e.HTML} {
		if h != "" {
			return h
		}
	}
	return ""
}

// Render fetches target through the rendering API. On failure the returned
// PageResult still carries the target URL and any HTTP status received.
func (c *Client) Render(ctx context.Context, target string) (models.PageResult, error) {
	result := models.PageResult{URL: target}

	body, err := json.Marshal(renderRequest{URL: target, Render: true, Country: c.country})
	if err != nil {
		return result, fmt.Errorf("nimble: could not encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return result, fmt.Errorf("nimble: could not build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+c.token)

	utils.Info("Fetching %s", truncate(target, 100))

	resp, err := c.http.Do(req)
	if err != nil {
		return result, fmt.Errorf("nimble: request failed: %w", err)
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, fmt.Errorf("nimble: could not read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return result, fmt.Errorf("nimble: unexpected status %d: %s", resp.StatusCode, truncate(string(raw), 500))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return result, fmt.Errorf("nimble: could not decode envelope: %w", err)
	}

	html := env.html()
	if html == "" {
		return result, fmt.Errorf("nimble: task %s returned no usable HTML (status %q)", env.TaskID, env.Status)
	}

	utils.Success("Rendered %d bytes | api status=%s", len(html), env.Status)

	result.HTML = html
	result.OK = true
	return result, nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
