package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dagensfynd/dealworker/helpers"
	"dagensfynd/dealworker/internal/scraper"
	"dagensfynd/dealworker/services/feed"
	"dagensfynd/dealworker/services/notifier"
	"dagensfynd/dealworker/services/store"
	"dagensfynd/dealworker/services/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// This is a simple test page that mimics the daily deals listing
const testPageHTML = `
<!DOCTYPE html>
<html>
<head>
	<title>Dagens fynd</title>
</head>
<body>
	<div class="tips-row">
		<a class="cell-product" href="https://shop.example.com/item/1">View</a>
		<div class="col-product-inner-wrapper">Graphics Card</div>
		<div class="col-category">Hardware</div>
		<div class="col-vendor">Shop AB</div>
		<div class="col-price">1 190  kr</div>
	</div>
	<div class="tips-row">
		<a class="cell-product" href="https://shop.example.com/item/2">View</a>
		<div class="col-product-inner-wrapper">SSD</div>
		<div class="col-category">Storage</div>
		<div class="col-vendor">Other Shop</div>
		<div class="col-price">499 kr</div>
	</div>
</body>
</html>
`

func TestPipelineEndToEnd(t *testing.T) {
	pageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(testPageHTML))
	}))
	defer pageServer.Close()

	var notifications []string
	webhookServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		notifications = append(notifications, payload["content"])
		w.WriteHeader(http.StatusNoContent)
	}))
	defer webhookServer.Close()

	dir := t.TempDir()
	storePath := filepath.Join(dir, "deals.json")
	feedPath := filepath.Join(dir, "deals.rss")

	dealStore := store.NewJSONStore(storePath)
	require.NoError(t, dealStore.Initialize())

	siteScraper := scraper.NewSiteScraper(scraper.ScraperConfig{
		URL:  pageServer.URL,
		Name: "Test",
		Selectors: scraper.Selectors{
			DealList: "div.tips-row",
			Link:     "a.cell-product",
			Name:     "div.col-product-inner-wrapper",
			Category: "div.col-category",
			Vendor:   "div.col-vendor",
			Price:    "div.col-price",
		},
	}, helpers.NewFetcher(5*time.Second), nil, 0)

	w := worker.NewWorker(context.Background(), worker.Options{
		Scraper:  siteScraper,
		Store:    dealStore,
		Renderer: feed.NewRenderer(feed.DefaultConfig(time.UTC)),
		FeedPath: feedPath,
		Notifier: notifier.NewDiscordNotifier(webhookServer.URL, "", 5*time.Second),
		Location: time.UTC,
	})

	// First run discovers, stores, renders and notifies both deals
	require.NoError(t, w.RunOnce())

	data, err := dealStore.Read()
	require.NoError(t, err)
	require.Len(t, data, 2)

	first := data["https://shop.example.com/item/1"]
	assert.Equal(t, "Graphics Card", first.Name)
	assert.Equal(t, "Hardware", first.Category)
	assert.Equal(t, "Shop AB", first.Vendor)
	// Double spaces are collapsed at persistence time
	assert.Equal(t, "1 190 kr", first.Price)
	assert.Len(t, first.GUID, 36)
	assert.True(t, first.Notified)

	feedRaw, err := os.ReadFile(feedPath)
	require.NoError(t, err)
	assert.Contains(t, string(feedRaw), "<title>SweClockers - Dagens fynd</title>")
	assert.Contains(t, string(feedRaw), "<link>https://shop.example.com/item/1</link>")
	assert.Contains(t, string(feedRaw), "<link>https://shop.example.com/item/2</link>")

	require.Len(t, notifications, 2)
	assert.Contains(t, notifications[0], "New deal: **Graphics Card** for 1 190 kr")

	// Second run against the unchanged page is a no-op
	require.NoError(t, w.RunOnce())

	data, err = dealStore.Read()
	require.NoError(t, err)
	assert.Len(t, data, 2)
	assert.Len(t, notifications, 2)
}
