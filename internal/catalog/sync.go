package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/konstantinfoerster/scryfall-go/internal/scryfall"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const defaultWriters = 4

type Report struct {
	SetCount  int
	CardCount int
}

type Fetcher interface {
	ListSets(ctx context.Context) ([]scryfall.Set, error)
	ForEachCardPage(ctx context.Context, rawURL string, fn func(page []scryfall.Card) error) error
}

type Store interface {
	UpsertSet(ctx context.Context, s scryfall.Set) error
	UpsertCards(ctx context.Context, cards []scryfall.Card) error
}

func NewSyncer(fetcher Fetcher, store Store, writers int) *Syncer {
	if writers <= 0 {
		writers = defaultWriters
	}

	return &Syncer{
		fetcher: fetcher,
		store:   store,
		writers: writers,
	}
}

// Syncer copies sets and their cards into the catalog. Pages are fetched one after another,
// each fetched page is written by one of the writers while the next page is requested.
type Syncer struct {
	fetcher Fetcher
	store   Store
	writers int
}

// Sync imports the sets with the given codes or all sets if no code is given.
func (s *Syncer) Sync(ctx context.Context, setCodes ...string) (Report, error) {
	sets, err := s.fetcher.ListSets(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list sets %w", err)
	}

	selected, err := selectSets(sets, setCodes)
	if err != nil {
		return Report{}, err
	}

	report := Report{}
	for _, set := range selected {
		if err := s.store.UpsertSet(ctx, set); err != nil {
			return report, err
		}
		report.SetCount++
	}
	log.Info().Msgf("stored %d sets", report.SetCount)

	cardCount, err := s.syncCards(ctx, selected)
	report.CardCount = cardCount

	return report, err
}

func (s *Syncer) syncCards(ctx context.Context, sets []scryfall.Set) (int, error) {
	var written atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.writers)

	var fetchErr error
	for _, set := range sets {
		if set.SearchURI == "" || set.CardCount == 0 {
			log.Debug().Msgf("skipping set %s without cards", set.Code)

			continue
		}

		err := s.fetcher.ForEachCardPage(gctx, set.SearchURI, func(page []scryfall.Card) error {
			g.Go(func() error {
				if err := s.store.UpsertCards(gctx, page); err != nil {
					return fmt.Errorf("failed to store cards of set %s %w", set.Code, err)
				}
				written.Add(int64(len(page)))

				return nil
			})

			return nil
		})
		if errors.Is(err, scryfall.ErrNotFound) {
			log.Warn().Msgf("no cards found for set %s", set.Code)

			continue
		}
		if err != nil {
			fetchErr = fmt.Errorf("failed to fetch cards of set %s %w", set.Code, err)

			break
		}
		log.Info().Msgf("fetched cards of set %s", set.Code)
	}

	if writeErr := g.Wait(); writeErr != nil {
		// a failed write cancels the fetch loop, the fetch error adds nothing
		return int(written.Load()), writeErr
	}

	return int(written.Load()), fetchErr
}

func selectSets(sets []scryfall.Set, codes []string) ([]scryfall.Set, error) {
	if len(codes) == 0 {
		return sets, nil
	}

	wanted := make([]string, 0, len(codes))
	for _, c := range codes {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			wanted = append(wanted, c)
		}
	}
	slices.Sort(wanted)
	wanted = slices.Compact(wanted)

	var selected []scryfall.Set
	for _, s := range sets {
		if slices.Contains(wanted, strings.ToLower(s.Code)) {
			selected = append(selected, s)
		}
	}

	if len(selected) != len(wanted) {
		var missing []string
		for _, w := range wanted {
			if !slices.ContainsFunc(selected, func(s scryfall.Set) bool { return strings.EqualFold(s.Code, w) }) {
				missing = append(missing, w)
			}
		}

		return nil, fmt.Errorf("unknown set codes %s", strings.Join(missing, ","))
	}

	return selected, nil
}
