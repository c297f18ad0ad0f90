package images

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"
	"github.com/konstantinfoerster/scryfall-go/internal/scryfall"
	"github.com/konstantinfoerster/scryfall-go/internal/storage"
	"github.com/konstantinfoerster/scryfall-go/internal/web"
)

const hashSize = 16

type CardLookup interface {
	ImageDownloader
	FetchCard(ctx context.Context, id string) (*scryfall.Card, error)
}

func NewCardImages(client CardLookup, storer storage.Storer, imgType scryfall.ImageType) *CardImages {
	if imgType == "" || imgType == scryfall.ImageUnknown {
		imgType = scryfall.ImageLarge
	}

	return &CardImages{
		client:  client,
		storer:  storer,
		imgType: imgType,
	}
}

// CardImages keeps one jpeg per card printing named <id>.jpg.
type CardImages struct {
	client  CardLookup
	storer  storage.Storer
	imgType scryfall.ImageType
}

func CardFilename(id string) string {
	return strings.TrimSpace(id) + ".jpg"
}

func (c *CardImages) Fetch(ctx context.Context, id string) ([]byte, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("missing card id")
	}

	name := CardFilename(id)
	if b, ok, err := load(c.storer, name); err != nil || ok {
		return b, err
	}

	card, err := c.client.FetchCard(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch card %s, %w", id, err)
	}

	url := card.ImageURL(c.imgType)
	if url == "" {
		return nil, fmt.Errorf("card %s has no %s image, %w", id, c.imgType, ErrImageNotFound)
	}

	b, mimeType, err := download(ctx, c.client, url)
	if err != nil {
		return nil, err
	}

	b, err = toJPEG(b, mimeType.Raw())
	if err != nil {
		return nil, fmt.Errorf("failed to convert image of card %s, %w", id, err)
	}

	if err := store(c.storer, b, name); err != nil {
		return nil, err
	}

	return b, nil
}

// Hash returns the perceptual hash of the card image.
func (c *CardImages) Hash(ctx context.Context, id string) (*goimagehash.ExtImageHash, error) {
	b, err := c.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image of card %s, %w", id, err)
	}

	h, err := goimagehash.ExtPerceptionHash(img, hashSize, hashSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create phash for card %s, %w", id, err)
	}

	return h, nil
}

// toJPEG re-encodes png images, jpeg images are kept as they are.
func toJPEG(b []byte, mimeType string) ([]byte, error) {
	if mimeType == web.MimeTypeJpeg {
		return b, nil
	}

	img, err := imaging.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(95)); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
