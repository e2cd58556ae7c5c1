package main

import (
	"github.com/matsen/affil/internal/affiliation"
	"github.com/matsen/affil/internal/config"
	"github.com/matsen/affil/internal/fetch"
	"github.com/matsen/affil/internal/postal"
	"github.com/matsen/affil/internal/storage"
)

// mustLoadConfig loads the global configuration, exits on error.
func mustLoadConfig() *config.GlobalConfig {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustOpenDatabase opens the results database, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(l config.Layout) *storage.DB {
	db, err := storage.OpenDB(l.DBPath())
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// mustNewExtractor builds an extractor from cfg, exits on a bad postal table.
func mustNewExtractor(cfg *config.GlobalConfig, raster bool) *affiliation.Extractor {
	table, err := postal.LoadOrDefault(cfg.PostalCodes)
	if err != nil {
		exitWithError(ExitConfigError, "loading postal codes: %v", err)
	}
	return affiliation.NewExtractor(table, extractorOptions(cfg, raster))
}

// extractorOptions applies configured overrides to the defaults.
func extractorOptions(cfg *config.GlobalConfig, raster bool) affiliation.Options {
	opts := affiliation.DefaultOptions()
	opts.UseRaster = raster
	if cfg.Scale > 0 {
		opts.Scale = cfg.Scale
	}
	if cfg.SkipLines > 0 {
		opts.SkipLines = cfg.SkipLines
	}
	opts.StrictSymbols = cfg.StrictSymbols
	return opts
}

// newHTTPClient returns the rate-limited client configured by cfg.
func newHTTPClient(cfg *config.GlobalConfig) *fetch.Client {
	opts := []fetch.ClientOption{fetch.WithUserAgent(cfg.UserAgent)}
	if cfg.RequestsPerSecond != 0 {
		opts = append(opts, fetch.WithRate(cfg.RequestsPerSecond))
	}
	return fetch.NewClient(opts...)
}
