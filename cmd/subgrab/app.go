package main

import (
	"github.com/ciefp/subgrab/internal/aggregator"
	"github.com/ciefp/subgrab/internal/cache"
	"github.com/ciefp/subgrab/internal/client"
	"github.com/ciefp/subgrab/internal/config"
	"github.com/ciefp/subgrab/internal/downloader"
	"github.com/ciefp/subgrab/internal/provider/opensubtitles"
	"github.com/ciefp/subgrab/internal/provider/subdl"
	"github.com/ciefp/subgrab/internal/provider/titlovi"
)

// app bundles the wired components every command works against.
type app struct {
	aggregator *aggregator.Aggregator
	downloader *downloader.Downloader
}

// cacheLogger adapts zerolog to the cache package's error reporting.
type cacheLogger struct{}

func (cacheLogger) Error(msg string, err error) {
	logger := config.GetLogger()
	logger.Error().Err(err).Msg(msg)
}

// newCacheGroup builds one cache instance from the configured backend. A
// backend failure degrades to no caching rather than refusing to start.
func newCacheGroup(cfg *config.Config, group string) cache.Cache {
	c, err := cache.New(cfg.Cache.Provider, cache.ProviderConfig{
		Size:          cfg.Cache.Size,
		TTL:           cfg.CacheTTLDuration(),
		Logger:        cacheLogger{},
		RedisAddress:  cfg.Cache.Redis.Address,
		RedisPassword: cfg.Cache.Redis.Password,
		RedisDB:       cfg.Cache.Redis.DB,
		Group:         group,
	})
	if err != nil {
		logger := config.GetLogger()
		logger.Warn().Err(err).Str("group", group).Msg("Cache unavailable, continuing without it")
		return nil
	}
	return c
}

// newApp wires clients, caches, adapters, aggregator and downloader.
func newApp() *app {
	cfg := config.GetConfig()
	getter := config.GetConfig

	clients := client.New(cfg)
	pages := newCacheGroup(cfg, "titlovi_pages")
	payloads := newCacheGroup(cfg, "payloads")

	agg := aggregator.New(getter,
		titlovi.New(clients, getter, pages),
		subdl.New(clients, getter),
		opensubtitles.New(clients, getter),
	)
	return &app{
		aggregator: agg,
		downloader: downloader.New(agg, payloads, getter),
	}
}
