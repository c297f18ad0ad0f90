package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/konstantinfoerster/scryfall-go/internal/aio"
	"github.com/konstantinfoerster/scryfall-go/internal/scryfall"
	"github.com/konstantinfoerster/scryfall-go/internal/storage"
	"github.com/konstantinfoerster/scryfall-go/internal/web"
	"github.com/rs/zerolog/log"
)

var ErrImageNotFound = errors.New("image not found")

// ImageStore returns the image bytes for an id, downloading and persisting the image on first access.
type ImageStore interface {
	Fetch(ctx context.Context, id string) ([]byte, error)
}

type ImageDownloader interface {
	FetchImage(ctx context.Context, url string) (*web.Response, error)
}

// load returns the stored file or false if nothing is stored under name.
func load(storer storage.Storer, name string) ([]byte, bool, error) {
	ok, err := storer.Exists(name)
	if err != nil || !ok {
		return nil, false, err
	}

	f, err := storer.Load(name)
	if err != nil {
		return nil, false, err
	}
	defer aio.Close(f)

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read stored image %s, %w", name, err)
	}
	log.Debug().Msgf("serving stored image %s", name)

	return b, true, nil
}

func download(ctx context.Context, d ImageDownloader, url string) (_ []byte, _ web.MimeType, err error) {
	resp, err := d.FetchImage(ctx, url)
	if err != nil {
		if errors.Is(err, scryfall.ErrNotFound) {
			return nil, web.MimeType{}, errors.Join(ErrImageNotFound, err)
		}

		return nil, web.MimeType{}, err
	}
	defer aio.CloseWithErr(resp.Body, &err)

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, web.MimeType{}, fmt.Errorf("failed to read image %s, %w", url, err)
	}

	return b, resp.MimeType, nil
}

func store(storer storage.Storer, b []byte, name string) error {
	f, err := storer.Store(bytes.NewReader(b), name)
	if err != nil {
		return fmt.Errorf("failed to store image %s, %w", name, err)
	}
	log.Debug().Msgf("stored image at %s", f.Path)

	return nil
}
