package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"product-scout/pkg/api"
	"product-scout/pkg/config"
	"product-scout/pkg/crawler"
	"product-scout/pkg/extract"
	"product-scout/pkg/fetch"
	"product-scout/pkg/retail"
	"product-scout/pkg/scrape"
	"product-scout/pkg/search"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the YAML configuration file")
	listenAddr := flag.String("addr", "", "Listen address (overrides config)")
	logLevel := flag.String("loglevel", "info", "Log level (trace, debug, info, warn, error)")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(*logLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warnf("Unknown log level %q, using info", *logLevel)
	}

	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		log.Debug("Loaded environment from .env file")
	}

	cfg, warnings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	for _, warning := range warnings {
		log.Warnf("Config: %s", warning)
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}

	client := fetch.NewClient(cfg.HTTPClientSettings, log)
	fetcher := fetch.NewFetcher(client, cfg.UserAgent, cfg.AcceptLanguage,
		cfg.Crawl.FetchTimeout, cfg.Crawl.MaxPageBytes, log)
	limiter := fetch.NewRateLimiter(cfg.Crawl.PolitenessDelay, log)

	var ai *extract.AIExtractor
	if cfg.AI.APIKey != "" {
		ai, err = extract.NewAIExtractor(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.MaxHTMLChars,
			log.WithField("component", "ai"))
		if err != nil {
			log.Warnf("AI extraction disabled: %v", err)
		}
	} else {
		log.Info("No AI credential configured, AI-assisted extraction disabled")
	}

	chain := search.NewChain(log,
		search.NewBrave(client, cfg.Search.BraveAPIKey, cfg.Search.BraveEndpoint),
		search.NewSerpAPI(client, cfg.Search.SerpAPIKey, cfg.Search.SerpEndpoint),
	)

	discovery := crawler.NewDiscovery(chain, fetcher, ai, log)
	frontier := crawler.NewFrontier(fetcher, limiter, client, cfg.UserAgent, cfg.Crawl.RobotsTimeout, log)
	pages := scrape.NewPageScraper(fetcher, ai, log)
	free := retail.NewMultiSearcher(retail.DefaultScrapers(), fetcher, log)
	proxy := scrape.NewProxyClient(client, cfg.Proxy.APIKey, cfg.Proxy.Endpoint, log)

	server := api.NewServer(discovery, frontier, pages, free, proxy, cfg.Crawl, log)
	router := api.NewRouter(server, log)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	go func() {
		log.Infof("Listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Infof("Received %s, shutting down", sig)

	go func() {
		<-sigCh
		log.Warn("Second signal received, exiting immediately")
		os.Exit(1)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Errorf("Graceful shutdown failed: %v", err)
	}
	log.Info("Shutdown complete")
}
