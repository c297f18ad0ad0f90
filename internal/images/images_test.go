package images_test

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/konstantinfoerster/scryfall-go/internal/config"
	"github.com/konstantinfoerster/scryfall-go/internal/images"
	logger "github.com/konstantinfoerster/scryfall-go/internal/log"
	"github.com/konstantinfoerster/scryfall-go/internal/scryfall"
	"github.com/konstantinfoerster/scryfall-go/internal/storage"
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

const iconSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 32 16">
<path d="M0 0 L32 0 L32 16 L0 16 Z" fill="#000"/></svg>`

type fakeAPI struct {
	cards     map[string]scryfall.Card
	sets      map[string]scryfall.Set
	images    map[string][]byte
	mimeTypes map[string]string
	downloads int
}

func (f *fakeAPI) FetchCard(_ context.Context, id string) (*scryfall.Card, error) {
	c, ok := f.cards[id]
	if !ok {
		return nil, &scryfall.FetchError{URL: id, Kind: scryfall.KindNotFound, Err: fmt.Errorf("missing")}
	}

	return &c, nil
}

func (f *fakeAPI) FetchSet(_ context.Context, code string) (*scryfall.Set, error) {
	s, ok := f.sets[code]
	if !ok {
		return nil, &scryfall.FetchError{URL: code, Kind: scryfall.KindNotFound, Err: fmt.Errorf("missing")}
	}

	return &s, nil
}

func (f *fakeAPI) FetchImage(_ context.Context, url string) (*web.Response, error) {
	b, ok := f.images[url]
	if !ok {
		return nil, &scryfall.FetchError{URL: url, Kind: scryfall.KindNotFound, Err: fmt.Errorf("missing")}
	}
	f.downloads++

	return &web.Response{
		URL:      url,
		Body:     io.NopCloser(bytes.NewReader(b)),
		MimeType: web.NewMimeType(f.mimeTypes[url]),
	}, nil
}

func encode(t *testing.T, format imaging.Format) []byte {
	t.Helper()

	img := imaging.New(64, 88, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, format))

	return buf.Bytes()
}

func newStorer(t *testing.T) (storage.Storer, string) {
	t.Helper()

	dir := t.TempDir()
	s, err := storage.NewLocalStorage(config.Storage{Location: dir, Mode: config.CREATE})
	require.NoError(t, err)

	return s, dir
}

func newAPI(t *testing.T) *fakeAPI {
	t.Helper()

	return &fakeAPI{
		cards: map[string]scryfall.Card{
			"jpg-card": {ID: "jpg-card", ImageURIs: scryfall.ImageURIs{scryfall.ImageLarge: "https://img/large.jpg"}},
			"png-card": {ID: "png-card", ImageURIs: scryfall.ImageURIs{scryfall.ImagePNG: "https://img/card.png"}},
			"dfc-card": {ID: "dfc-card", Faces: []scryfall.CardFace{
				{Name: "Front", ImageURIs: scryfall.ImageURIs{scryfall.ImageLarge: "https://img/large.jpg"}},
			}},
			"no-image":   {ID: "no-image"},
			"dead-image": {ID: "dead-image", ImageURIs: scryfall.ImageURIs{scryfall.ImageLarge: "https://img/gone.jpg"}},
		},
		sets: map[string]scryfall.Set{
			"tsp": {Code: "tsp", IconSVGURI: "https://svgs/tsp.svg"},
			"bad": {Code: "bad", IconSVGURI: "https://svgs/bad.svg"},
			"nil": {Code: "nil"},
		},
		images: map[string][]byte{
			"https://img/large.jpg": encode(t, imaging.JPEG),
			"https://img/card.png":  encode(t, imaging.PNG),
			"https://svgs/tsp.svg":  []byte(iconSVG),
			"https://svgs/bad.svg":  []byte(`<svg xmlns="http://www.w3.org/2000/svg"><path d=`),
		},
		mimeTypes: map[string]string{
			"https://img/large.jpg": web.MimeTypeJpeg,
			"https://img/card.png":  web.MimeTypePng,
			"https://svgs/tsp.svg":  web.MimeTypeSVG,
		},
	}
}

func TestCardImages_Fetch(t *testing.T) {
	api := newAPI(t)
	storer, dir := newStorer(t)
	store := images.NewCardImages(api, storer, scryfall.ImageLarge)

	b, err := store.Fetch(t.Context(), "jpg-card")

	require.NoError(t, err)
	assert.Equal(t, api.images["https://img/large.jpg"], b)
	assert.FileExists(t, filepath.Join(dir, "jpg-card.jpg"))

	again, err := store.Fetch(t.Context(), "jpg-card")
	require.NoError(t, err)
	assert.Equal(t, b, again)
	assert.Equal(t, 1, api.downloads, "stored images are not downloaded again")
}

func TestCardImages_FetchFaceImage(t *testing.T) {
	storer, dir := newStorer(t)
	store := images.NewCardImages(newAPI(t), storer, "")

	_, err := store.Fetch(t.Context(), "dfc-card")

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "dfc-card.jpg"))
}

func TestCardImages_ConvertsPNG(t *testing.T) {
	storer, _ := newStorer(t)
	store := images.NewCardImages(newAPI(t), storer, scryfall.ImagePNG)

	b, err := store.Fetch(t.Context(), "png-card")

	require.NoError(t, err)
	_, format, err := image.DecodeConfig(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestCardImages_Errors(t *testing.T) {
	cases := []struct {
		name    string
		id      string
		wantErr error
	}{
		{name: "unknown card", id: "missing", wantErr: scryfall.ErrNotFound},
		{name: "card without image", id: "no-image", wantErr: images.ErrImageNotFound},
		{name: "image not found", id: "dead-image", wantErr: images.ErrImageNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			storer, dir := newStorer(t)
			store := images.NewCardImages(newAPI(t), storer, scryfall.ImageLarge)

			_, err := store.Fetch(t.Context(), tc.id)

			require.ErrorIs(t, err, tc.wantErr)
			assert.NoFileExists(t, filepath.Join(dir, images.CardFilename(tc.id)))
		})
	}
}

func TestCardImages_Hash(t *testing.T) {
	storer, _ := newStorer(t)
	store := images.NewCardImages(newAPI(t), storer, scryfall.ImageLarge)

	h1, err := store.Hash(t.Context(), "jpg-card")
	require.NoError(t, err)
	h2, err := store.Hash(t.Context(), "dfc-card")
	require.NoError(t, err)

	distance, err := h1.Distance(h2)
	require.NoError(t, err)
	assert.Equal(t, 0, distance)
}

func TestSetIcons_Fetch(t *testing.T) {
	api := newAPI(t)
	storer, dir := newStorer(t)
	icons := images.NewSetIcons(api, storer, 64)

	b, err := icons.Fetch(t.Context(), "tsp")

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "set_tsp.png"))
	cfg, format, err := image.DecodeConfig(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 32, cfg.Height)

	_, err = icons.Fetch(t.Context(), "tsp")
	require.NoError(t, err)
	assert.Equal(t, 1, api.downloads)
}

func TestSetIcons_Errors(t *testing.T) {
	storer, _ := newStorer(t)
	icons := images.NewSetIcons(newAPI(t), storer, 0)

	_, err := icons.Fetch(t.Context(), "nil")
	require.ErrorIs(t, err, images.ErrImageNotFound)

	_, err = icons.Fetch(t.Context(), "xyz")
	require.ErrorIs(t, err, scryfall.ErrNotFound)

	_, err = icons.Fetch(t.Context(), "bad")
	require.Error(t, err)

	_, err = icons.Fetch(t.Context(), " ")
	require.Error(t, err)
}

func TestSetIconFilename(t *testing.T) {
	assert.Equal(t, "set_tsp.png", images.SetIconFilename(" TSP "))
	assert.Equal(t, "abc.jpg", images.CardFilename("abc"))
}
