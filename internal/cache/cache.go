package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/konstantinfoerster/scryfall-go/internal/aio"
	"github.com/konstantinfoerster/scryfall-go/internal/config"
	"github.com/konstantinfoerster/scryfall-go/internal/web"
	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"
)

var bucketResponses = []byte("responses")

type entry struct {
	StoredAt time.Time `json:"storedAt"`
	MimeType string    `json:"mimeType"`
	Body     []byte    `json:"body"`
}

// Cacheable decides if the response of a url may be cached.
type Cacheable func(rawURL string) bool

// SingleObjects matches urls of a single card or set like /cards/<id> or /sets/<code>.
// Searches and lists are never matched since their pages change over time.
func SingleObjects(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.RawQuery != "" {
		return false
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 {
		return false
	}
	resource, id := segments[len(segments)-2], segments[len(segments)-1]

	return slices.Contains([]string{"cards", "sets"}, resource) && id != "" && id != "search"
}

// Client is a web.Client that serves json responses from a bolt database as long as they are not expired.
type Client struct {
	db        *bolt.DB
	next      web.Client
	ttl       time.Duration
	cacheable Cacheable
}

// Open opens or creates the cache database at cfg.Path.
func Open(cfg config.Cache, next web.Client, cacheable Cacheable) (*Client, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("missing cache path")
	}
	if cacheable == nil {
		cacheable = SingleObjects
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache dir %w", err)
	}

	db, err := bolt.Open(cfg.Path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db %s, %w", cfg.Path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketResponses)

		return err
	})
	if err != nil {
		aio.Close(db)

		return nil, fmt.Errorf("failed to create cache bucket %w", err)
	}

	return &Client{
		db:        db,
		next:      next,
		ttl:       cfg.TTLOrDefault(),
		cacheable: cacheable,
	}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) Get(ctx context.Context, rawURL string, opts web.GetOptions) (*web.Response, error) {
	if !c.cacheable(rawURL) {
		return c.next.Get(ctx, rawURL, opts)
	}

	if e, ok := c.lookup(rawURL); ok {
		log.Debug().Msgf("cache hit %s", rawURL)

		return &web.Response{
			URL:      rawURL,
			Body:     io.NopCloser(bytes.NewReader(e.Body)),
			MimeType: web.NewMimeType(e.MimeType),
		}, nil
	}

	resp, err := c.next.Get(ctx, rawURL, opts)
	if err != nil {
		return nil, err
	}
	if !resp.MimeType.IsJSON() {
		return resp, nil
	}
	defer aio.Close(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body %w", err)
	}

	if err := c.put(rawURL, entry{StoredAt: time.Now(), MimeType: resp.MimeType.Raw(), Body: body}); err != nil {
		log.Warn().Err(err).Msgf("failed to cache response of %s", rawURL)
	}

	return &web.Response{
		URL:      resp.URL,
		Body:     io.NopCloser(bytes.NewReader(body)),
		MimeType: resp.MimeType,
	}, nil
}

func (c *Client) lookup(key string) (entry, bool) {
	var data []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketResponses).Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}

		return nil
	})
	if err != nil || data == nil {
		return entry{}, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		log.Warn().Err(err).Msgf("dropping broken cache entry %s", key)

		return entry{}, false
	}

	return e, !c.expired(e)
}

func (c *Client) expired(e entry) bool {
	return time.Since(e.StoredAt) > c.ttl
}

func (c *Client) put(key string, e entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketResponses).Put([]byte(key), data)
	})
}

// Purge deletes all expired or unreadable entries and returns the number of deleted entries.
func (c *Client) Purge() (int, error) {
	var keys [][]byte
	err := c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketResponses)
		err := b.ForEach(func(k, v []byte) error {
			var e entry
			if err := json.Unmarshal(v, &e); err != nil || c.expired(e) {
				keys = append(keys, slices.Clone(k))
			}

			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache %w", err)
	}

	return len(keys), nil
}
