package scryfall_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/konstantinfoerster/scryfall-go/internal/config"
	logger "github.com/konstantinfoerster/scryfall-go/internal/log"
	"github.com/konstantinfoerster/scryfall-go/internal/scryfall"
	"github.com/konstantinfoerster/scryfall-go/internal/test"
	"github.com/konstantinfoerster/scryfall-go/internal/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.SetupConsoleLogger()
	err := logger.SetLogLevel("warn")
	if err != nil {
		fmt.Printf("Failed to set log level %v", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

type request struct {
	uri string
	at  time.Time
}

// fakeAPI serves fixed bodies per request uri (path plus raw query) and records every request.
type fakeAPI struct {
	*httptest.Server
	mu       sync.Mutex
	bodies   map[string]string
	requests []request
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	notFound := test.Fixture(t, "not_found.json")
	api := &fakeAPI{bodies: make(map[string]string)}
	api.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.requests = append(api.requests, request{uri: r.URL.RequestURI(), at: time.Now()})
		body, ok := api.bodies[r.URL.RequestURI()]
		api.mu.Unlock()

		w.Header().Set("Content-Type", web.MimeTypeJSON)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, notFound)

			return
		}
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(api.Close)

	return api
}

func (a *fakeAPI) serve(uri, body string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.bodies[uri] = body
}

func (a *fakeAPI) recorded() []request {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]request(nil), a.requests...)
}

func (a *fakeAPI) client(delay time.Duration) *scryfall.Client {
	cfg := config.Scryfall{BaseURL: a.URL, PageDelay: delay}

	return scryfall.NewClient(cfg, web.NewClient(cfg.Client, a.Server.Client()))
}

func page(next string, ids ...string) string {
	data := ""
	for i, id := range ids {
		if i > 0 {
			data += ","
		}
		data += fmt.Sprintf(`{"object": "card", "id": %q, "name": "Card %s"}`, id, id)
	}
	if next == "" {
		return fmt.Sprintf(`{"object": "list", "has_more": false, "data": [%s]}`, data)
	}

	return fmt.Sprintf(`{"object": "list", "has_more": true, "next_page": %q, "data": [%s]}`, next, data)
}

func ids(cards []scryfall.Card) []string {
	result := make([]string, 0, len(cards))
	for _, c := range cards {
		result = append(result, c.ID)
	}

	return result
}

func TestFetchCard(t *testing.T) {
	api := newFakeAPI(t)
	api.serve("/cards/0000579f-7b35-4ed3-b44c-db2a538066fe", test.Fixture(t, "card.json"))
	client := api.client(0)

	t.Run("success", func(t *testing.T) {
		card, err := client.FetchCard(t.Context(), "0000579f-7b35-4ed3-b44c-db2a538066fe")

		require.NoError(t, err)
		assert.Equal(t, "0000579f-7b35-4ed3-b44c-db2a538066fe", card.ID)
		assert.Equal(t, "Fury Sliver", card.Name)
	})

	t.Run("not found", func(t *testing.T) {
		card, err := client.FetchCard(t.Context(), "does-not-exist")

		require.ErrorIs(t, err, scryfall.ErrNotFound)
		assert.Nil(t, card)
		var fetchErr *scryfall.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, api.URL+"/cards/does-not-exist", fetchErr.URL)
		assert.Equal(t, scryfall.KindNotFound, fetchErr.Kind)
		var apiErr *web.ExternalAPIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "not_found", apiErr.Code)
		assert.Equal(t, "No card found with the given ID or set code and collector number.", apiErr.Message)
		assert.NotContains(t, err.Error(), `"object"`)
	})

	t.Run("empty id", func(t *testing.T) {
		_, err := client.FetchCard(t.Context(), " ")

		require.ErrorIs(t, err, scryfall.ErrMalformedRequest)
	})
}

func TestFetchCard_ErrorEnvelopeWithOkStatus(t *testing.T) {
	api := newFakeAPI(t)
	api.serve("/cards/abc", test.Fixture(t, "not_found.json"))

	_, err := api.client(0).FetchCard(t.Context(), "abc")

	require.ErrorIs(t, err, scryfall.ErrNotFound)
	assert.Contains(t, err.Error(), "No card found")
}

func TestFetchCard_ErrorEnvelopeStatus(t *testing.T) {
	api := newFakeAPI(t)
	api.serve("/cards/bad", `{"object": "error", "code": "bad_request", "status": 400, "details": "Invalid id."}`)
	api.serve("/cards/nostatus", `{"object": "error", "details": "Gone."}`)
	client := api.client(0)

	_, err := client.FetchCard(t.Context(), "bad")
	require.ErrorIs(t, err, scryfall.ErrMalformedRequest)
	assert.Contains(t, err.Error(), "Invalid id.")

	_, err = client.FetchCard(t.Context(), "nostatus")
	require.ErrorIs(t, err, scryfall.ErrNotFound)
}

func TestFetchCard_DecodeError(t *testing.T) {
	api := newFakeAPI(t)
	api.serve("/cards/broken", `{"object": "card", "id": `)
	api.serve("/cards/list", page("", "a"))
	api.serve("/cards/proxied", `{"object": "card", "id": "proxied"}<html>502 Bad Gateway</html>`)
	client := api.client(0)

	_, err := client.FetchCard(t.Context(), "broken")
	require.ErrorIs(t, err, scryfall.ErrDecode)

	card, err := client.FetchCard(t.Context(), "proxied")
	require.ErrorIs(t, err, scryfall.ErrDecode)
	assert.Nil(t, card)

	_, err = client.FetchCard(t.Context(), "list")
	require.ErrorIs(t, err, scryfall.ErrDecode)
}

func TestFetchCard_NetworkError(t *testing.T) {
	api := newFakeAPI(t)
	client := api.client(0)
	api.Close()

	_, err := client.FetchCard(t.Context(), "abc")

	require.ErrorIs(t, err, scryfall.ErrNetwork)
	assert.NotErrorIs(t, err, scryfall.ErrNotFound)
}

func TestFetchCard_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()
	cfg := config.Scryfall{BaseURL: ts.URL}
	client := scryfall.NewClient(cfg, web.NewClient(cfg.Client, ts.Client()))

	_, err := client.FetchCard(t.Context(), "abc")

	require.ErrorIs(t, err, scryfall.ErrNetwork)
	assert.True(t, web.IsStatusCode(err, http.StatusInternalServerError))
}

func TestFetchSet(t *testing.T) {
	api := newFakeAPI(t)
	api.serve("/sets/tsp", test.Fixture(t, "set.json"))

	set, err := api.client(0).FetchSet(t.Context(), " TSP ")

	require.NoError(t, err)
	assert.Equal(t, "tsp", set.Code)
	assert.Equal(t, scryfall.SetType("expansion"), set.Type)
	assert.Equal(t, 301, set.CardCount)
	assert.Equal(t, time.Date(2006, 10, 6, 0, 0, 0, 0, time.UTC), set.ReleasedAt)
}

func TestSearch_FollowsNextPage(t *testing.T) {
	api := newFakeAPI(t)
	api.serve("/cards/search?q=fury", page(api.URL+"/page/2", "cardA"))
	api.serve("/page/2", page("", "cardB"))

	cards, err := api.client(0).Search(t.Context(), "fury", scryfall.SearchOptions{})

	require.NoError(t, err)
	assert.Equal(t, []string{"cardA", "cardB"}, ids(cards))
}

func TestSearch_WaitsBetweenPages(t *testing.T) {
	delay := 100 * time.Millisecond
	api := newFakeAPI(t)
	api.serve("/cards/search?q=sliver", page(api.URL+"/page/2", "a", "b"))
	api.serve("/page/2", page(api.URL+"/page/3", "c"))
	api.serve("/page/3", page("", "d"))

	start := time.Now()
	cards, err := api.client(delay).Search(t.Context(), "sliver", scryfall.SearchOptions{})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(cards))
	requests := api.recorded()
	require.Len(t, requests, 3)
	assert.Less(t, requests[0].at.Sub(start), delay, "first request must not wait")
	for i := 1; i < len(requests); i++ {
		assert.GreaterOrEqual(t, requests[i].at.Sub(requests[i-1].at), delay)
	}
}

func TestSearch_Modifiers(t *testing.T) {
	cases := []struct {
		name string
		opts scryfall.SearchOptions
		want string
	}{
		{
			name: "no modifiers",
			want: "/cards/search?q=%21%22Rattenkolonie%22",
		},
		{
			name: "all languages",
			opts: scryfall.SearchOptions{AllLanguages: true},
			want: "/cards/search?q=%21%22Rattenkolonie%22+lang%3Aany",
		},
		{
			name: "all modifiers",
			opts: scryfall.SearchOptions{AllLanguages: true, AllPrints: true, IncludeExtras: true},
			want: "/cards/search?q=%21%22Rattenkolonie%22+lang%3Aany+unique%3Aprints+include%3Aextras",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := newFakeAPI(t)
			api.serve(tc.want, page("", "rat"))

			cards, err := api.client(0).Search(t.Context(), `!"Rattenkolonie"`, tc.opts)

			require.NoError(t, err)
			assert.Equal(t, []string{"rat"}, ids(cards))
			requests := api.recorded()
			require.Len(t, requests, 1)
			assert.Equal(t, tc.want, requests[0].uri)
		})
	}
}

func TestSearchByName(t *testing.T) {
	api := newFakeAPI(t)
	api.serve("/cards/search?q=%21%22Rattenkolonie%22+lang%3Aany+unique%3Aprints", page("", "de", "en"))

	cards, err := api.client(0).SearchByName(t.Context(), `!"Rattenkolonie"`)

	require.NoError(t, err)
	assert.Equal(t, []string{"de", "en"}, ids(cards))
}

func TestSearch_NoMatches(t *testing.T) {
	api := newFakeAPI(t)

	cards, err := api.client(0).Search(t.Context(), "nothing", scryfall.SearchOptions{})

	require.NoError(t, err)
	assert.NotNil(t, cards)
	assert.Empty(t, cards)
}

func TestSearch_EmptyQuery(t *testing.T) {
	api := newFakeAPI(t)

	_, err := api.client(0).Search(t.Context(), "  ", scryfall.SearchOptions{})

	require.ErrorIs(t, err, scryfall.ErrMalformedRequest)
	assert.Empty(t, api.recorded())
}

func TestSearch_PartialResultOnError(t *testing.T) {
	api := newFakeAPI(t)
	api.serve("/cards/search?q=x", page(api.URL+"/page/2", "a"))
	api.serve("/page/2", page(api.URL+"/page/missing", "b"))

	cards, err := api.client(0).Search(t.Context(), "x", scryfall.SearchOptions{})

	require.ErrorIs(t, err, scryfall.ErrNotFound)
	assert.Equal(t, []string{"a", "b"}, ids(cards))
}

func TestSearch_RepeatedNextPage(t *testing.T) {
	cases := []struct {
		name      string
		serve     func(api *fakeAPI)
		wantIDs   []string
		wantCalls int
	}{
		{
			name: "next page is the current page",
			serve: func(api *fakeAPI) {
				api.serve("/cards/search?q=x", page(api.URL+"/cards/search?q=x", "a"))
			},
			wantIDs:   []string{"a"},
			wantCalls: 1,
		},
		{
			name: "next page points back to the first page",
			serve: func(api *fakeAPI) {
				api.serve("/cards/search?q=x", page(api.URL+"/page/2", "a"))
				api.serve("/page/2", page(api.URL+"/cards/search?q=x", "b"))
			},
			wantIDs:   []string{"a", "b"},
			wantCalls: 2,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := newFakeAPI(t)
			tc.serve(api)

			cards, err := api.client(0).Search(t.Context(), "x", scryfall.SearchOptions{})

			require.ErrorIs(t, err, scryfall.ErrDecode)
			assert.Equal(t, tc.wantIDs, ids(cards))
			assert.Len(t, api.recorded(), tc.wantCalls)
		})
	}
}

func TestSearch_InvalidList(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "has more without next page", body: `{"object": "list", "has_more": true, "data": []}`},
		{name: "missing data", body: `{"object": "list", "has_more": false}`},
		{name: "not json", body: `<html></html>`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := newFakeAPI(t)
			api.serve("/cards/search?q=x", tc.body)

			_, err := api.client(0).Search(t.Context(), "x", scryfall.SearchOptions{})

			require.ErrorIs(t, err, scryfall.ErrDecode)
		})
	}
}

func TestSearch_CancelledDuringDelay(t *testing.T) {
	api := newFakeAPI(t)
	api.serve("/cards/search?q=x", page(api.URL+"/page/2", "a"))
	api.serve("/page/2", page("", "b"))

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()
	cards, err := api.client(time.Minute).Search(ctx, "x", scryfall.SearchOptions{})

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []string{"a"}, ids(cards))
	assert.Len(t, api.recorded(), 1)
}

func TestListSetsAndSetCards(t *testing.T) {
	api := newFakeAPI(t)
	api.serve("/sets", fmt.Sprintf(`{"object": "list", "has_more": false, "data": [%s]}`, test.Fixture(t, "set.json")))
	api.serve("/cards/search?order=set&q=e%3Atsp&unique=prints", page("", "c1", "c2"))
	client := api.client(0)

	sets, err := client.ListSets(t.Context())
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, "tsp", sets[0].Code)

	cards, err := client.SetCards(t.Context(), sets[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2"}, ids(cards))

	_, err = client.SetCards(t.Context(), scryfall.Set{Code: "xyz"})
	require.ErrorIs(t, err, scryfall.ErrMalformedRequest)
}

func TestForEachCardPage(t *testing.T) {
	api := newFakeAPI(t)
	api.serve("/cards/search?q=x", page(api.URL+"/page/2", "a", "b"))
	api.serve("/page/2", page("", "c"))

	var pages [][]string
	err := api.client(0).ForEachCardPage(t.Context(), "/cards/search?q=x", func(p []scryfall.Card) error {
		pages = append(pages, ids(p))

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, pages)
}

func TestFetchImage(t *testing.T) {
	img := []byte{0xff, 0xd8, 0xff}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/large/front.jpg" {
			w.WriteHeader(http.StatusNotFound)

			return
		}
		w.Header().Set("Content-Type", web.MimeTypeJpeg)
		_, _ = w.Write(img)
	}))
	defer ts.Close()
	cfg := config.Scryfall{}
	client := scryfall.NewClient(cfg, web.NewClient(cfg.Client, ts.Client()))

	resp, err := client.FetchImage(t.Context(), ts.URL+"/large/front.jpg")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, img, b)
	assert.Equal(t, web.MimeTypeJpeg, resp.MimeType.Raw())

	_, err = client.FetchImage(t.Context(), ts.URL+"/missing.jpg")
	require.ErrorIs(t, err, scryfall.ErrNotFound)
}
