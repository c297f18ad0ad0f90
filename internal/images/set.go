package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/konstantinfoerster/scryfall-go/internal/scryfall"
	"github.com/konstantinfoerster/scryfall-go/internal/storage"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// DefaultIconSize is the width of a rendered set icon in pixel.
const DefaultIconSize = 256

type SetLookup interface {
	ImageDownloader
	FetchSet(ctx context.Context, code string) (*scryfall.Set, error)
}

func NewSetIcons(client SetLookup, storer storage.Storer, size int) *SetIcons {
	if size <= 0 {
		size = DefaultIconSize
	}

	return &SetIcons{
		client: client,
		storer: storer,
		size:   size,
	}
}

// SetIcons renders the svg icon of a set into set_<code>.png.
type SetIcons struct {
	client SetLookup
	storer storage.Storer
	size   int
}

func SetIconFilename(code string) string {
	return "set_" + strings.ToLower(strings.TrimSpace(code)) + ".png"
}

func (s *SetIcons) Fetch(ctx context.Context, code string) ([]byte, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("missing set code")
	}

	name := SetIconFilename(code)
	if b, ok, err := load(s.storer, name); err != nil || ok {
		return b, err
	}

	set, err := s.client.FetchSet(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch set %s, %w", code, err)
	}
	if set.IconSVGURI == "" {
		return nil, fmt.Errorf("set %s has no icon, %w", code, ErrImageNotFound)
	}

	svg, _, err := download(ctx, s.client, set.IconSVGURI)
	if err != nil {
		return nil, err
	}

	b, err := RenderPNG(svg, s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to render icon of set %s, %w", code, err)
	}

	if err := store(s.storer, b, name); err != nil {
		return nil, err
	}

	return b, nil
}

// RenderPNG rasterizes an svg image with the given width, the height follows the view box ratio.
func RenderPNG(svg []byte, width int) ([]byte, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("invalid svg, %w", err)
	}

	height := width
	if icon.ViewBox.W > 0 && icon.ViewBox.H > 0 {
		height = max(int(math.Round(float64(width)*icon.ViewBox.H/icon.ViewBox.W)), 1)
	}

	icon.SetTarget(0, 0, float64(width), float64(height))
	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, rgba, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode png, %w", err)
	}

	return buf.Bytes(), nil
}
