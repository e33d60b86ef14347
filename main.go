package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dagensfynd/dealworker/config"
	"dagensfynd/dealworker/helpers"
	"dagensfynd/dealworker/internal/metrics"
	"dagensfynd/dealworker/internal/scraper"
	"dagensfynd/dealworker/logger"
	"dagensfynd/dealworker/services/cache"
	"dagensfynd/dealworker/services/feed"
	"dagensfynd/dealworker/services/notifier"
	"dagensfynd/dealworker/services/publisher"
	"dagensfynd/dealworker/services/store"
	"dagensfynd/dealworker/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("source_url", cfg.SourceURL).
		Str("timezone", cfg.Timezone).
		Dur("scrape_interval", cfg.ScrapeInterval).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize the store
	dealStore := store.NewJSONStore(cfg.StorePath)
	if err := dealStore.Initialize(); err != nil {
		log.Fatal().Err(err).Str("path", cfg.StorePath).Msg("Failed to initialize store")
	}

	// Optional page cache
	var cacheSvc cache.CacheService
	if cfg.MemcacheAddr != "" {
		cacheSvc = cache.NewMemcacheService(cfg.MemcacheAddr)
		log.Info().Str("addr", cfg.MemcacheAddr).Msg("Page cache enabled")
	}

	// Optional Redis stream publisher
	var pub publisher.Publisher
	if cfg.RedisAddr != "" {
		redisPublisher := publisher.NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamMaxLength)
		defer redisPublisher.Close()
		pub = redisPublisher
		log.Info().Str("addr", cfg.RedisAddr).Str("stream", cfg.RedisStream).Msg("Stream publisher enabled")
	}

	// Optional metrics listener
	var m *metrics.Metrics
	if cfg.MetricsAddr != "" {
		m = metrics.NewMetrics()
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Error().Err(err).Str("addr", cfg.MetricsAddr).Msg("Metrics listener stopped")
			}
		}()
		log.Info().Str("addr", cfg.MetricsAddr).Msg("Metrics listener enabled")
	}

	// Optional notifier
	var n notifier.Notifier
	if cfg.WebhookURL != "" || cfg.ErrorWebhookURL != "" {
		n = notifier.NewDiscordNotifier(cfg.WebhookURL, cfg.ErrorWebhookURL, 10*time.Second)
		log.Info().Bool("deal_webhook", cfg.WebhookURL != "").Msg("Webhook notifier enabled")
	}

	// Create the scraper and worker
	fetcher := helpers.NewFetcher(cfg.FetchTimeout)
	siteScraper := scraper.NewSweclockersScraper(&cfg, fetcher, cacheSvc)
	renderer := feed.NewRenderer(feed.DefaultConfig(cfg.Location))

	w := worker.NewWorker(ctx, worker.Options{
		Scraper:   siteScraper,
		Store:     dealStore,
		Renderer:  renderer,
		FeedPath:  cfg.FeedPath,
		Notifier:  n,
		Publisher: pub,
		Metrics:   m,
		Location:  cfg.Location,
		Interval:  cfg.ScrapeInterval,
	})

	// Start worker in a goroutine
	workerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting deal worker")
		workerDone <- w.Start()
	}()

	// Wait for shutdown signal or worker completion
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	case err := <-workerDone:
		if err != nil {
			log.Error().Err(err).Msg("Worker exited with error")
		} else {
			log.Info().Msg("Worker exited normally")
		}
	}

	log.Info().Msg("Shutting down gracefully...")
}
