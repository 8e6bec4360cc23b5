// Package browser renders search pages in a local headless Chrome. It is the
// fallback when no Nimble API token is configured and satisfies the same
// contract as the hosted renderer.
package browser

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/chromedp/chromedp"

	"zillow-scraper/config"
	"zillow-scraper/models"
	"zillow-scraper/utils"
)

type Renderer struct {
	timeout     time.Duration
	renderWait  time.Duration
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

func NewRenderer(cfg *config.Config) *Renderer {
	utils.Info("Launching Chrome browser...")
	allocCtx, allocCancel := chromedp.NewExecAllocator(
		context.Background(),
		utils.StealthOpts(cfg.Headless)...,
	)
	utils.Success("Browser ready")
	return &Renderer{
		timeout:     cfg.RequestTimeout(),
		renderWait:  cfg.RenderWait(),
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
	}
}

func (r *Renderer) Close() {
	utils.Info("Closing browser...")
	r.allocCancel()
}

// Render opens target in a fresh tab, waits for the client-side render to
// settle, and returns the serialized DOM.
func (r *Renderer) Render(ctx context.Context, target string) (models.PageResult, error) {
	result := models.PageResult{URL: target}

	tabCtx, tabCancel := chromedp.NewContext(r.allocCtx)
	defer tabCancel()

	// Chromedp contexts must chain from the allocator, so propagate the
	// caller's cancellation by hand.
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	runCtx, cancel := context.WithTimeout(tabCtx, r.timeout)
	defer cancel()

	utils.Info("Fetching %s", target)

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(target),
		utils.HideWebDriver(),
		chromedp.Sleep(r.renderWait),
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight * 0.5)`, nil),
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return result, fmt.Errorf("browser: render failed: %w", err)
	}

	utils.Success("Rendered %d bytes", len(html))

	result.StatusCode = http.StatusOK
	result.HTML = html
	result.OK = true
	return result, nil
}
