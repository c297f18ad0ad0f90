package app

import (
	"runtime"

	"github.com/konstantinfoerster/scryfall-go/internal/cache"
	"github.com/konstantinfoerster/scryfall-go/internal/config"
	logger "github.com/konstantinfoerster/scryfall-go/internal/log"
	"github.com/konstantinfoerster/scryfall-go/internal/scryfall"
	"github.com/konstantinfoerster/scryfall-go/internal/web"
	"github.com/rs/zerolog/log"
)

// Setup loads the configuration and configures the global logger.
func Setup(configPath string) (*config.Config, error) {
	logger.SetupConsoleLogger()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if err = logger.SetLogLevel(cfg.Logging.LevelOrDefault()); err != nil {
		return nil, err
	}

	log.Info().Msgf("OS\t\t %s", runtime.GOOS)
	log.Info().Msgf("ARCH\t\t %s", runtime.GOARCH)
	log.Info().Msgf("CPUs\t\t %d", runtime.NumCPU())

	return cfg, nil
}

// NewScryfallClient creates the api client, responses are cached if a cache path is configured.
// The returned close function must be called once the client is no longer used.
func NewScryfallClient(cfg config.Scryfall) (*scryfall.Client, func() error, error) {
	wclient := web.NewClient(cfg.Client, web.NewHTTPClient(cfg.Client))
	if !cfg.Cache.Enabled() {
		return scryfall.NewClient(cfg, wclient), func() error { return nil }, nil
	}

	cached, err := cache.Open(cfg.Cache, wclient, cache.SingleObjects)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Msgf("caching responses in %s for %s", cfg.Cache.Path, cfg.Cache.TTLOrDefault())

	if n, err := cached.Purge(); err != nil {
		log.Warn().Err(err).Msg("failed to purge expired cache entries")
	} else if n > 0 {
		log.Debug().Msgf("purged %d expired cache entries", n)
	}

	return scryfall.NewClient(cfg, cached), cached.Close, nil
}
