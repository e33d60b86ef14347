package scraper

import (
	"dagensfynd/dealworker/config"
	"dagensfynd/dealworker/helpers"
	"dagensfynd/dealworker/services/cache"
)

// NewSweclockersScraper creates the scraper for the SweClockers daily deals page
func NewSweclockersScraper(cfg *config.Config, fetcher *helpers.Fetcher, cacheSvc cache.CacheService) *SiteScraper {
	return NewSiteScraper(ScraperConfig{
		URL:      cfg.SourceURL,
		BaseURL:  "https://www.sweclockers.com",
		Name:     "Sweclockers",
		CacheKey: "sweclockers_page",
		Selectors: Selectors{
			DealList: "div.tips-row",
			Link:     "a.cell-product",
			Name:     "div.col-product-inner-wrapper",
			Category: "div.col-category",
			Vendor:   "div.col-vendor",
			Price:    "div.col-price",
		},
	}, fetcher, cacheSvc, cfg.PageCacheTTL)
}
