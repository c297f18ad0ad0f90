package scryfall

import (
	"context"
	"fmt"

	"github.com/konstantinfoerster/scryfall-go/internal/jsonfield"
	"github.com/rs/zerolog/log"
)

// eachPage requests u and follows next_page until the list has no more pages.
// Every request after the first waits for the page delay. A next_page seen before ends the loop with a decode error.
func eachPage(ctx context.Context, c *Client, u string, fn func(l List) error) error {
	seen := make(map[string]struct{})
	next := u
	for page := 1; next != ""; page++ {
		if _, ok := seen[next]; ok {
			return newFetchErr(next, KindDecode, fmt.Errorf("next_page points to an already requested page"))
		}
		seen[next] = struct{}{}

		if page > 1 {
			if err := c.wait(ctx); err != nil {
				return newFetchErr(next, KindNetwork, err)
			}
		}

		obj, err := c.fetchObject(ctx, next)
		if err != nil {
			return err
		}

		l, err := NewList(obj)
		if err != nil {
			return newFetchErr(next, KindDecode, err)
		}

		log.Debug().Int("page", page).Int("entries", len(l.Data)).Bool("hasMore", l.HasMore).Msg("page received")

		if err := fn(l); err != nil {
			return err
		}

		next = l.NextPage
	}

	return nil
}

// paginate collects all entries of all pages. On error the entries of the pages read so far are returned
// together with the error.
func paginate[T any](ctx context.Context, c *Client, u string, decode func(jsonfield.Object) T) ([]T, error) {
	result := make([]T, 0)
	err := eachPage(ctx, c, u, func(l List) error {
		for _, raw := range l.Data {
			result = append(result, decode(raw))
		}

		return nil
	})

	return result, err
}
