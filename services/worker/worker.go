package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"dagensfynd/dealworker/helpers"
	"dagensfynd/dealworker/internal/metrics"
	"dagensfynd/dealworker/internal/scraper"
	"dagensfynd/dealworker/logger"
	"dagensfynd/dealworker/services/feed"
	"dagensfynd/dealworker/services/guid"
	"dagensfynd/dealworker/services/notifier"
	"dagensfynd/dealworker/services/publisher"
	"dagensfynd/dealworker/services/store"
)

// Options holds the worker's collaborators.
// Notifier, Publisher and Metrics are optional.
type Options struct {
	Scraper   scraper.Scraper
	Store     store.Store
	Renderer  *feed.Renderer
	FeedPath  string
	Notifier  notifier.Notifier
	Publisher publisher.Publisher
	Metrics   *metrics.Metrics
	Location  *time.Location
	Interval  time.Duration
	Now       func() time.Time
}

// Worker runs the deal ingestion pipeline:
// fetch, extract, dedupe against the store, persist, render the feed, notify.
type Worker struct {
	ctx       context.Context
	scraper   scraper.Scraper
	store     store.Store
	guids     *guid.Generator
	renderer  *feed.Renderer
	feedPath  string
	notifier  notifier.Notifier
	publisher publisher.Publisher
	metrics   *metrics.Metrics
	location  *time.Location
	interval  time.Duration
	now       func() time.Time
	log       *logger.Logger
}

// NewWorker creates a new worker
func NewWorker(ctx context.Context, opts Options) *Worker {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	location := opts.Location
	if location == nil {
		location = time.UTC
	}

	return &Worker{
		ctx:       ctx,
		scraper:   opts.Scraper,
		store:     opts.Store,
		guids:     guid.NewGenerator(),
		renderer:  opts.Renderer,
		feedPath:  opts.FeedPath,
		notifier:  opts.Notifier,
		publisher: opts.Publisher,
		metrics:   opts.Metrics,
		location:  location,
		interval:  opts.Interval,
		now:       now,
		log:       logger.ForWorker(),
	}
}

// Start runs the pipeline. With a zero interval one run is performed and its
// result returned; otherwise runs repeat every interval until the context is
// cancelled, with each run's failure logged and the next run acting as the
// retry.
func (w *Worker) Start() error {
	if w.interval <= 0 {
		return w.RunOnce()
	}

	for {
		if err := w.RunOnce(); err != nil {
			w.log.Error().Err(err).Msg("Run aborted")
		}

		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		case <-time.After(w.interval):
		}
	}
}

// RunOnce performs one fetch, one extraction pass, and a sequential
// per-record store/notify loop. Fetch and parse failures abort the run
// before any store mutation.
func (w *Worker) RunOnce() error {
	start := time.Now()

	deals, err := w.scraper.FetchDeals()
	if err != nil {
		w.metrics.IncRun("aborted")
		return err
	}

	w.metrics.AddDealsScraped(len(deals))
	w.log.Info().Int("deals", len(deals)).Msg("Extraction pass complete")

	newCount := 0
	for _, deal := range deals {
		if w.ingest(deal) {
			newCount++
		}
	}
	if newCount > 0 {
		w.log.Info().Int("new_deals", newCount).Msg("Stored new deals")
	}

	data, err := w.store.Read()
	if err != nil {
		w.metrics.IncRun("aborted")
		return err
	}

	rendered := w.renderer.Render(data, w.now())
	if err := os.WriteFile(w.feedPath, []byte(rendered), 0o644); err != nil {
		w.log.Error().Err(err).Str("path", w.feedPath).Msg("Failed to write feed file")
	}

	w.notifyUnsent(data)

	w.metrics.IncRun("ok")
	w.metrics.ObserveRunDuration(time.Since(start))
	return nil
}

// ingest dedupes one extracted record against the store and persists it when
// new. Returns true when the record was written.
func (w *Worker) ingest(deal scraper.Deal) bool {
	exists, err := w.store.Exists(deal.URL)
	if err != nil {
		w.log.Error().Err(err).Str("url", deal.URL).Msg("Existence check failed, skipping deal")
		return false
	}
	if exists {
		w.log.Debug().Str("url", deal.URL).Msg("Deal already stored, skipping")
		return false
	}

	id, err := w.guids.Next(w.store)
	if err != nil {
		w.log.Error().Err(err).Str("url", deal.URL).Msg("Could not assign unique id, skipping deal")
		return false
	}
	deal.GUID = id
	deal.Date = helpers.EscapeXML(w.now().In(w.location).Format(time.RFC1123Z))

	if err := w.store.Upsert(deal.URL, deal); err != nil {
		w.log.Error().Err(err).Str("url", deal.URL).Msg("Failed to persist deal")
		return false
	}

	w.log.Info().
		Str("url", deal.URL).
		Str("name", deal.Name).
		Str("price", deal.Price).
		Msg("Deal found")

	w.publish(deal)
	w.metrics.IncDealsNew()
	return true
}

// publish pushes a newly stored deal to the stream publisher when configured
func (w *Worker) publish(deal scraper.Deal) {
	if w.publisher == nil {
		return
	}

	message, err := json.Marshal(map[string]string{
		"url":      deal.URL,
		"name":     deal.Name,
		"category": deal.Category,
		"vendor":   deal.Vendor,
		"price":    deal.Price,
		"date":     deal.Date,
		"guid":     deal.GUID,
	})
	if err != nil {
		w.log.Error().Err(err).Str("url", deal.URL).Msg("Failed to marshal deal for publishing")
		return
	}

	if err := w.publisher.Publish(message); err != nil {
		w.log.Error().Err(err).Str("url", deal.URL).Msg("Failed to publish deal")
	}
}

// notifyUnsent delivers every unsent record to the webhook. Each record's
// attempt is independent: a failure leaves its notified flag untouched so the
// next run retries it, and never affects the other records.
func (w *Worker) notifyUnsent(data map[string]scraper.Deal) {
	if w.notifier == nil || !w.notifier.Enabled() {
		return
	}

	urls := make([]string, 0, len(data))
	for url := range data {
		urls = append(urls, url)
	}
	sort.Strings(urls)

	for _, url := range urls {
		deal := data[url]
		if deal.Notified {
			continue
		}

		if err := w.notifier.Notify(deal); err != nil {
			w.log.Error().Err(err).Str("url", url).Msg("Notification failed")
			w.notifier.ReportError(fmt.Sprintf("Could not deliver deal to webhook: %s (%v)", url, err))
			w.metrics.IncNotification("failed")
			continue
		}

		deal.Notified = true
		deal.NotifiedAt = w.now().In(w.location).Format(time.RFC1123Z)
		if err := w.store.Upsert(url, deal); err != nil {
			w.log.Error().Err(err).Str("url", url).Msg("Failed to persist notified flag")
		}
		w.metrics.IncNotification("sent")
	}
}
