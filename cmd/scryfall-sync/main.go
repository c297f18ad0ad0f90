package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/konstantinfoerster/scryfall-go/internal/app"
	"github.com/konstantinfoerster/scryfall-go/internal/catalog"
	"github.com/konstantinfoerster/scryfall-go/internal/postgres"
	"github.com/konstantinfoerster/scryfall-go/internal/stats"
	"github.com/konstantinfoerster/scryfall-go/internal/timer"
	"github.com/rs/zerolog/log"
)

const usage = `Usage: scryfall-sync [options...]
  -c, --config path to the configuration file (default: ./configs/application.yaml)
  -s, --sets comma separated set codes to import, all sets are imported if empty
  -w, --writers amount of concurrent database writers (default: 4)
  -h, --help prints help information
`

func main() {
	defer timer.TimeTrack(time.Now(), "sync")

	var configPath string
	var setCodes string
	var writers int
	flag.StringVar(&configPath, "c", "./configs/application.yaml", "path to the configuration file")
	flag.StringVar(&configPath, "config", "./configs/application.yaml", "path to the configuration file")
	flag.StringVar(&setCodes, "s", "", "comma separated set codes")
	flag.StringVar(&setCodes, "sets", "", "comma separated set codes")
	flag.IntVar(&writers, "w", 4, "amount of concurrent database writers")
	flag.IntVar(&writers, "writers", 4, "amount of concurrent database writers")
	flag.Usage = func() { fmt.Print(usage) }
	flag.Parse()

	cfg, err := app.Setup(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	conn, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to the database")

		return
	}
	defer func(toCloseFn func() error) {
		cErr := toCloseFn()
		if cErr != nil {
			log.Error().Err(cErr).Msgf("Failed to close database connection")
		}
	}(conn.Close)

	client, closeFn, err := app.NewScryfallClient(cfg.Scryfall)
	if err != nil {
		log.Error().Err(err).Msg("failed to create scryfall client")

		return
	}
	defer func() {
		if cErr := closeFn(); cErr != nil {
			log.Error().Err(cErr).Msg("failed to close response cache")
		}
	}()

	var codes []string
	if strings.TrimSpace(setCodes) != "" {
		codes = strings.Split(setCodes, ",")
	}

	report, err := catalog.NewSyncer(client, catalog.NewCatalogDao(conn), writers).Sync(ctx, codes...)
	log.Info().Msgf("Report %#v", report)
	if err != nil {
		log.Error().Err(err).Msg("sync failed")

		return
	}

	stats.LogMemUsage()
}
