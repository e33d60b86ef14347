package scraper

import (
	"bytes"
	"strings"
	"time"

	"dagensfynd/dealworker/helpers"
	"dagensfynd/dealworker/logger"
	apperrors "dagensfynd/dealworker/pkg/errors"
	"dagensfynd/dealworker/services/cache"

	"github.com/PuerkitoBio/goquery"
)

// SiteScraper is a scraper driven by a set of CSS selectors.
// It is the single component that must change if the target page's
// markup changes.
type SiteScraper struct {
	URL       string
	BaseURL   string
	Name      string
	CacheKey  string
	Selectors Selectors

	fetcher  *helpers.Fetcher
	cacheSvc cache.CacheService
	cacheTTL time.Duration
	log      *logger.Logger
}

// NewSiteScraper creates a new selector-driven scraper.
// cacheSvc may be nil, in which case every call hits the source page.
func NewSiteScraper(config ScraperConfig, fetcher *helpers.Fetcher, cacheSvc cache.CacheService, cacheTTL time.Duration) *SiteScraper {
	return &SiteScraper{
		URL:       config.URL,
		BaseURL:   config.BaseURL,
		Name:      config.Name,
		CacheKey:  config.CacheKey,
		Selectors: config.Selectors,
		fetcher:   fetcher,
		cacheSvc:  cacheSvc,
		cacheTTL:  cacheTTL,
		log:       logger.ForScraper(config.Name),
	}
}

// GetName returns the scraper name
func (c *SiteScraper) GetName() string {
	return c.Name
}

// FetchDeals fetches the listing page and extracts one Deal per listing block.
// Zero matched blocks is a valid empty result; only an unfetchable or
// unparsable document is an error.
func (c *SiteScraper) FetchDeals() ([]Deal, error) {
	body, err := c.fetchWithCache()
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewParse(c.Name, "failed to parse listing page", err)
	}

	var deals []Deal
	doc.Find(c.Selectors.DealList).Each(func(_ int, s *goquery.Selection) {
		deal := c.processDeal(s)
		if deal != nil {
			deals = append(deals, *deal)
		}
	})

	return deals, nil
}

// fetchWithCache fetches the page body, going through the page cache when one
// is configured so repeated runs inside the TTL reuse the cached body.
func (c *SiteScraper) fetchWithCache() ([]byte, error) {
	if c.cacheSvc != nil && c.CacheKey != "" {
		if body, err := c.cacheSvc.Get(c.CacheKey); err == nil {
			c.log.Debug().Int("bytes", len(body)).Msg("Serving page from cache")
			return body, nil
		}
	}

	body, err := c.fetcher.Fetch(c.URL)
	if err != nil {
		return nil, err
	}

	if c.cacheSvc != nil && c.CacheKey != "" {
		if err := c.cacheSvc.Set(c.CacheKey, body, c.cacheTTL); err != nil {
			c.log.Warn().Err(err).Msg("Failed to cache page body")
		}
	}

	return body, nil
}

// processDeal extracts a single deal from a listing block.
// A missing sub-element yields the Unknown sentinel for that field; the
// block is never a reason to abort the extraction.
func (c *SiteScraper) processDeal(s *goquery.Selection) *Deal {
	url := Unknown
	if href, exists := s.Find(c.Selectors.Link).Attr("href"); exists && strings.TrimSpace(href) != "" {
		url = c.resolveURL(strings.TrimSpace(href))
	}

	return &Deal{
		URL:      helpers.EscapeXML(url),
		Name:     c.extractText(s, c.Selectors.Name),
		Category: c.extractText(s, c.Selectors.Category),
		Vendor:   c.extractText(s, c.Selectors.Vendor),
		Price:    c.extractText(s, c.Selectors.Price),
	}
}

// extractText extracts trimmed, XML-escaped text for a selector.
// Every string is escaped here because downstream output is embedded
// directly into XML.
func (c *SiteScraper) extractText(s *goquery.Selection, selector string) string {
	sel := s.Find(selector)
	if sel.Length() == 0 {
		return Unknown
	}

	text := strings.TrimSpace(sel.Text())
	if text == "" {
		return Unknown
	}

	return helpers.EscapeXML(text)
}

// resolveURL resolves a relative href against the scraper's base URL
func (c *SiteScraper) resolveURL(link string) string {
	if strings.HasPrefix(link, "/") && c.BaseURL != "" {
		return c.BaseURL + link
	}
	return link
}
