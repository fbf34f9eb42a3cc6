package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"autotrader-search/config"
	"autotrader-search/models"
	"autotrader-search/prompt"
	"autotrader-search/scraper/autotrader"
	"autotrader-search/services"
	"autotrader-search/storage"
	"autotrader-search/utils"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLoggerTo(os.Stderr, cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *utils.Logger) error {
	logger.Info("=== AutoTrader Car Search starting ===")
	logger.Info("Config: cache: %s (%v) | concurrency: %d | term delay: %v | fetch mode: %s",
		cfg.CacheDir, cfg.CacheTTL, cfg.MaxConcurrency, cfg.SearchDelay, cfg.FetchMode)

	cache, err := storage.NewListingCache(cfg.CacheDir, cfg.CacheTTL, logger)
	if err != nil {
		return err
	}

	input, err := prompt.AskBuyerInput()
	if err != nil {
		return err
	}
	constraints, err := services.BuildConstraints(input)
	if err != nil {
		return err
	}
	terms := services.ParseTerms(input.Terms)

	source, closeSource, err := newPageSource(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fetcher := autotrader.NewFetcher(source, cache, logger, cfg.MaxConcurrency, cfg.RateLimitMs)
	searcher := autotrader.NewSearcher(source, cfg.BaseURL, cfg.DisplayResults, logger)
	search := services.NewSearchService(searcher, fetcher, cache, logger, cfg.SearchDelay)

	listings := search.Run(ctx, terms, input.Location, input.RadiusKm)
	if len(listings) == 0 {
		logger.Error("No car data was collected. Exiting.")
		return nil
	}

	ranked := services.Select(listings, constraints)
	logger.Info("Collected %d listings, %d match the filters", len(listings), len(ranked))

	if cfg.CSVOutputPath != "" {
		if err := exportCSV(cfg.CSVOutputPath, ranked); err != nil {
			logger.Error("CSV export failed: %v", err)
		} else {
			logger.Info("Results saved to %s", cfg.CSVOutputPath)
		}
	}

	services.NewReportService(logger).Print(os.Stdout, ranked, "Total Combined Filtered Results")
	return nil
}

func newPageSource(cfg *config.Config, logger *utils.Logger) (autotrader.PageSource, func(), error) {
	switch cfg.FetchMode {
	case config.FetchModeHTTP:
		return autotrader.NewHTTPSource(cfg.RequestTimeout, cfg.Headers()), func() {}, nil
	case config.FetchModeBrowser:
		src, err := autotrader.NewBrowserSource(cfg.ChromeBin, cfg.UserAgent, cfg.RequestTimeout, logger)
		if err != nil {
			return nil, nil, err
		}
		return src, src.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown FETCH_MODE %q (want %q or %q)", cfg.FetchMode, config.FetchModeHTTP, config.FetchModeBrowser)
	}
}

func exportCSV(path string, listings []models.Listing) error {
	w, err := storage.NewCSVWriter(path)
	if err != nil {
		return err
	}
	if err := w.Write(listings); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
