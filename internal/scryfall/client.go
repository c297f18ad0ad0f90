package scryfall

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/konstantinfoerster/scryfall-go/internal/aio"
	"github.com/konstantinfoerster/scryfall-go/internal/config"
	"github.com/konstantinfoerster/scryfall-go/internal/jsonfield"
	"github.com/konstantinfoerster/scryfall-go/internal/web"
	"github.com/rs/zerolog/log"
)

// maxBodyBytes limits a single json response, list pages are usually below 1 MiB.
const maxBodyBytes int64 = 32 * 1024 * 1024

func NewClient(cfg config.Scryfall, wclient web.Client) *Client {
	return &Client{
		cfg:       cfg,
		wclient:   wclient,
		pageDelay: cfg.PageDelayOrDefault(),
		search:    NewSearchOptions(cfg.Search),
	}
}

// Client reads cards and sets from the api. Calls are independent of each other and may run concurrently,
// the delay between page requests is applied per call only.
type Client struct {
	cfg       config.Scryfall
	wclient   web.Client
	pageDelay time.Duration
	search    SearchOptions
}

// DefaultSearchOptions returns the search modifiers from the configuration.
func (c *Client) DefaultSearchOptions() SearchOptions {
	return c.search
}

// FetchCard returns the card printing with the given id.
func (c *Client) FetchCard(ctx context.Context, id string) (*Card, error) {
	obj, err := c.fetchByID(ctx, cardsPath, id)
	if err != nil {
		return nil, err
	}

	card := NewCard(obj)

	return &card, nil
}

// FetchSet returns the set with the given code.
func (c *Client) FetchSet(ctx context.Context, code string) (*Set, error) {
	obj, err := c.fetchByID(ctx, setsPath, strings.ToLower(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}

	set := NewSet(obj)

	return &set, nil
}

// Search returns all cards matching the full text query across all result pages.
// A query without any match returns an empty result.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) ([]Card, error) {
	if strings.TrimSpace(query) == "" {
		return nil, newFetchErr(cardsPath+"/"+searchQuery, KindMalformedRequest, errors.New("empty search query"))
	}

	u, err := c.searchURL(opts.Apply(query))
	if err != nil {
		return nil, err
	}

	cards, err := paginate(ctx, c, u, NewCard)
	if err != nil && len(cards) == 0 && errors.Is(err, ErrNotFound) {
		log.Debug().Str("query", query).Msg("search without matches")

		return []Card{}, nil
	}

	return cards, err
}

// SearchByName returns every printing in every language of cards matching name.
func (c *Client) SearchByName(ctx context.Context, name string) ([]Card, error) {
	return c.Search(ctx, name, SearchOptions{AllLanguages: true, AllPrints: true})
}

// ListSets returns all sets.
func (c *Client) ListSets(ctx context.Context) ([]Set, error) {
	u, err := c.cfg.EnsureBaseURL(setsPath)
	if err != nil {
		return nil, newFetchErr(setsPath, KindMalformedRequest, err)
	}

	return paginate(ctx, c, u, NewSet)
}

// SetCards returns all cards of the set by following its search uri.
func (c *Client) SetCards(ctx context.Context, set Set) ([]Card, error) {
	if strings.TrimSpace(set.SearchURI) == "" {
		return nil, newFetchErr("", KindMalformedRequest, fmt.Errorf("set %s has no search uri", set.Code))
	}

	u, err := c.resolve(set.SearchURI)
	if err != nil {
		return nil, err
	}

	return paginate(ctx, c, u, NewCard)
}

// ForEachCardPage calls fn for each page of the search query, fn is called before the next page is requested.
func (c *Client) ForEachCardPage(ctx context.Context, rawURL string, fn func(page []Card) error) error {
	u, err := c.resolve(rawURL)
	if err != nil {
		return err
	}

	return eachPage(ctx, c, u, func(l List) error {
		cards := make([]Card, 0, len(l.Data))
		for _, raw := range l.Data {
			cards = append(cards, NewCard(raw))
		}

		return fn(cards)
	})
}

// FetchImage downloads an image. The caller must close the response body.
func (c *Client) FetchImage(ctx context.Context, rawURL string) (*web.Response, error) {
	u, err := c.resolve(rawURL)
	if err != nil {
		return nil, err
	}

	opts := web.NewGetOpts().
		WithHeader(web.HeaderAccept, "image/*").
		WithExpectedCodes(http.StatusOK)
	resp, err := c.wclient.Get(ctx, u, opts)
	if err != nil {
		return nil, c.classify(u, err)
	}

	return resp, nil
}

func (c *Client) fetchByID(ctx context.Context, resource, id string) (jsonfield.Object, error) {
	if strings.TrimSpace(id) == "" {
		return nil, newFetchErr(resource+"/", KindMalformedRequest, fmt.Errorf("missing %s id", resource))
	}

	u, err := c.cfg.EnsureBaseURL(resource + "/" + url.PathEscape(id))
	if err != nil {
		return nil, newFetchErr(resource+"/"+id, KindMalformedRequest, err)
	}

	obj, err := c.fetchObject(ctx, u)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(jsonfield.String(obj, "object"), objectList) {
		return nil, newFetchErr(u, KindDecode, errors.New("expected a single object but got a list"))
	}

	return obj, nil
}

func (c *Client) searchURL(query string) (string, error) {
	u, err := c.cfg.EnsureBaseURL(cardsPath + "/search")
	if err != nil {
		return "", newFetchErr(cardsPath+"/search", KindMalformedRequest, err)
	}

	return u + "?q=" + EncodeQuery(query), nil
}

// resolve keeps absolute uris as they are and resolves relative ones against the base url.
func (c *Client) resolve(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", newFetchErr(rawURL, KindMalformedRequest, err)
	}
	if u.IsAbs() {
		return rawURL, nil
	}

	abs, err := c.cfg.EnsureBaseURL(rawURL)
	if err != nil {
		return "", newFetchErr(rawURL, KindMalformedRequest, err)
	}

	return abs, nil
}

func (c *Client) fetchObject(ctx context.Context, u string) (obj jsonfield.Object, err error) {
	log.Debug().Msgf("requesting %s", u)

	opts := web.NewGetOpts().
		WithHeader(web.HeaderAccept, web.MimeTypeJSON).
		WithExpectedCodes(http.StatusOK)
	resp, err := c.wclient.Get(ctx, u, opts)
	if err != nil {
		return nil, c.classify(u, err)
	}
	defer aio.CloseWithErr(resp.Body, &err)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, newFetchErr(u, KindNetwork, fmt.Errorf("failed to read response body %w", err))
	}
	if e := log.Trace(); e.Enabled() {
		e.Str("url", u).Msg(string(body))
	}

	obj, err = jsonfield.Parse(body)
	if err != nil {
		return nil, newFetchErr(u, KindDecode, err)
	}
	if isErrorObject(obj) {
		return nil, c.classify(u, errorObject(u, obj))
	}

	return obj, nil
}

// errorObject maps an error envelope sent with a success status. A missing status counts as not found.
func errorObject(u string, obj jsonfield.Object) *web.ExternalAPIError {
	status := jsonfield.Int(obj, "status")
	if status == 0 {
		status = http.StatusNotFound
	}

	return &web.ExternalAPIError{
		URL:        u,
		StatusCode: status,
		Code:       jsonfield.String(obj, "code"),
		Message:    jsonfield.String(obj, "details"),
	}
}

func (c *Client) classify(u string, err error) error {
	switch {
	case web.IsNotFound(err):
		return newFetchErr(u, KindNotFound, err)
	case web.IsStatusCode(err, http.StatusBadRequest):
		return newFetchErr(u, KindMalformedRequest, err)
	default:
		return newFetchErr(u, KindNetwork, err)
	}
}

// wait blocks for the page delay or until ctx is done.
func (c *Client) wait(ctx context.Context) error {
	if c.pageDelay <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(c.pageDelay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
