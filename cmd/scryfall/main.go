package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/konstantinfoerster/scryfall-go/internal/app"
	"github.com/konstantinfoerster/scryfall-go/internal/config"
	"github.com/konstantinfoerster/scryfall-go/internal/images"
	"github.com/konstantinfoerster/scryfall-go/internal/scryfall"
	"github.com/konstantinfoerster/scryfall-go/internal/storage"
	"github.com/konstantinfoerster/scryfall-go/internal/timer"
	"github.com/rs/zerolog/log"
)

const usage = `Usage: scryfall [options...]
  -c, --config path to the configuration file (default: ./configs/application.yaml)
  -q, --query full text card search, modifiers from the configuration are appended
  -n, --name all printings in all languages of cards matching the name
      --card card id
      --set set code
      --sets list all sets
  -i, --images directory to store card images or set icons of the result
  -h, --help prints help information
`

type options struct {
	configPath string
	query      string
	name       string
	cardID     string
	setCode    string
	listSets   bool
	imageDir   string
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.configPath, "c", "./configs/application.yaml", "path to the configuration file")
	flag.StringVar(&o.configPath, "config", "./configs/application.yaml", "path to the configuration file")
	flag.StringVar(&o.query, "q", "", "full text card search")
	flag.StringVar(&o.query, "query", "", "full text card search")
	flag.StringVar(&o.name, "n", "", "card name")
	flag.StringVar(&o.name, "name", "", "card name")
	flag.StringVar(&o.cardID, "card", "", "card id")
	flag.StringVar(&o.setCode, "set", "", "set code")
	flag.BoolVar(&o.listSets, "sets", false, "list all sets")
	flag.StringVar(&o.imageDir, "i", "", "directory to store images")
	flag.StringVar(&o.imageDir, "images", "", "directory to store images")
	flag.Usage = func() { fmt.Print(usage) }
	flag.Parse()

	return o
}

func main() {
	o := parseFlags()

	cfg, err := app.Setup(o.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, o, cfg, os.Stdout); err != nil {
		log.Error().Err(err).Msg("request failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, o options, cfg *config.Config, out io.Writer) error {
	defer timer.TimeTrack(time.Now(), "scryfall")

	client, closeFn, err := app.NewScryfallClient(cfg.Scryfall)
	if err != nil {
		return err
	}
	defer func() {
		if cErr := closeFn(); cErr != nil {
			log.Error().Err(cErr).Msg("failed to close response cache")
		}
	}()

	var store storage.Storer
	if o.imageDir != "" {
		store, err = storage.NewLocalStorage(config.Storage{Location: o.imageDir, Mode: cfg.Storage.Mode})
		if err != nil {
			return err
		}
	}

	switch {
	case o.cardID != "":
		card, err := client.FetchCard(ctx, o.cardID)
		if err != nil {
			return err
		}

		return printCards(ctx, out, []scryfall.Card{*card}, cardImages(client, store, cfg.Scryfall))
	case o.query != "":
		cards, err := client.Search(ctx, o.query, client.DefaultSearchOptions())
		pErr := printCards(ctx, out, cards, cardImages(client, store, cfg.Scryfall))

		return errors.Join(err, pErr)
	case o.name != "":
		cards, err := client.SearchByName(ctx, o.name)
		pErr := printCards(ctx, out, cards, cardImages(client, store, cfg.Scryfall))

		return errors.Join(err, pErr)
	case o.setCode != "":
		set, err := client.FetchSet(ctx, o.setCode)
		if err != nil {
			return err
		}

		return printSets(ctx, out, []scryfall.Set{*set}, setIcons(client, store))
	case o.listSets:
		sets, err := client.ListSets(ctx)
		pErr := printSets(ctx, out, sets, setIcons(client, store))

		return errors.Join(err, pErr)
	default:
		flag.Usage()

		return fmt.Errorf("missing one of --card, --query, --name, --set or --sets")
	}
}

func cardImages(client *scryfall.Client, store storage.Storer, cfg config.Scryfall) images.ImageStore {
	if store == nil {
		return nil
	}

	return images.NewCardImages(client, store, scryfall.ParseImageType(cfg.ImageTypeOrDefault()))
}

func setIcons(client *scryfall.Client, store storage.Storer) images.ImageStore {
	if store == nil {
		return nil
	}

	return images.NewSetIcons(client, store, images.DefaultIconSize)
}

func printCards(ctx context.Context, out io.Writer, cards []scryfall.Card, imgs images.ImageStore) error {
	for _, c := range cards {
		name := c.Name
		if c.PrintedName != "" && c.PrintedName != c.Name {
			name = fmt.Sprintf("%s (%s)", c.Name, c.PrintedName)
		}
		fmt.Fprintf(out, "%s\t%s\t%s #%s\t%s\n", c.ID, name, strings.ToUpper(c.SetCode), c.CollectorNumber, c.Lang)

		if err := storeImage(ctx, imgs, c.ID); err != nil {
			return err
		}
	}

	return nil
}

func printSets(ctx context.Context, out io.Writer, sets []scryfall.Set, imgs images.ImageStore) error {
	for _, s := range sets {
		released := ""
		if !s.ReleasedAt.IsZero() {
			released = s.ReleasedAt.Format(time.DateOnly)
		}
		fmt.Fprintf(out, "%s\t%s\t%s\t%d cards\t%s\n", strings.ToUpper(s.Code), s.Name, s.Type, s.CardCount, released)

		if err := storeImage(ctx, imgs, s.Code); err != nil {
			return err
		}
	}

	return nil
}

func storeImage(ctx context.Context, imgs images.ImageStore, id string) error {
	if imgs == nil {
		return nil
	}

	if _, err := imgs.Fetch(ctx, id); err != nil {
		if errors.Is(err, images.ErrImageNotFound) {
			log.Warn().Msgf("no image for %s", id)

			return nil
		}

		return err
	}

	return nil
}
