package scryfall

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Card A single printing of a card in one language.
// The ID is unique per printing, the OracleID is shared by all printings and languages of the same card.
type Card struct {
	ID              string
	OracleID        string
	Name            string
	PrintedName     string
	Lang            Language
	Layout          Layout
	ManaCost        string
	CMC             float64
	TypeLine        string
	PrintedTypeLine string
	OracleText      string
	PrintedText     string
	Power           string
	Toughness       string
	Loyalty         string
	HandModifier    string
	LifeModifier    string
	Colors          []Color
	ColorIdentity   []Color
	Keywords        []string
	Faces           []CardFace
	AllParts        []RelatedCard
	Legalities      Legalities
	Games           []Game
	Reserved        bool
	Foil            bool
	NonFoil         bool
	Oversized       bool
	Promo           bool
	Reprint         bool
	Digital         bool
	FullArt         bool
	HighresImage    bool
	SetCode         string
	SetName         string
	CollectorNumber string
	Rarity          Rarity
	IllustrationID  string
	Watermark       string
	FlavorText      string
	Artist          string
	Frame           Frame
	FrameEffects    []FrameEffect
	BorderColor     BorderColor
	EdhrecRank      int
	ArenaID         int
	MtgoID          int
	TCGPlayerID     int
	ReleasedAt      time.Time
	ImageURIs       ImageURIs
	Prices          Prices
	RelatedURIs     map[RelatedSite]string
	ScryfallURI     string
	URI             string
	PrintsSearchURI string
	RulingsURI      string
}

// CardFace One printed side of a multi-faced card.
type CardFace struct {
	Name            string
	PrintedName     string
	ManaCost        string
	TypeLine        string
	PrintedTypeLine string
	OracleText      string
	PrintedText     string
	Colors          []Color
	ColorIndicator  []Color
	Power           string
	Toughness       string
	Loyalty         string
	FlavorText      string
	Artist          string
	IllustrationID  string
	ImageURIs       ImageURIs
}

// RelatedCard A reference to a card that is closely related to another card, like tokens or meld parts.
type RelatedCard struct {
	ID        string
	Component Component
	Name      string
	TypeLine  string
	URI       string
}

type ImageURIs map[ImageType]string

// Get returns the uri of the given image type or "".
func (u ImageURIs) Get(t ImageType) string {
	return u[t]
}

// Large returns the uri of the large image.
func (u ImageURIs) Large() string {
	return u.Get(ImageLarge)
}

type Prices map[PriceType]decimal.Decimal

// Get returns the price or zero if no price is known.
func (p Prices) Get(t PriceType) decimal.Decimal {
	v, ok := p[t]
	if !ok {
		return decimal.Zero
	}

	return v
}

// Legalities maps play formats to the legality of a card.
type Legalities map[Format]Legality

// Of returns the legality in format. Formats without an entry are not legal.
func (l Legalities) Of(format Format) Legality {
	v, ok := l[format]
	if !ok {
		return NotLegal
	}

	return v
}

// IsLegal reports whether the card may be played in format.
func (l Legalities) IsLegal(format Format) bool {
	return l.Of(format) == Legal
}

// SameCard compares the identities of two printings.
func (c Card) SameCard(other Card) bool {
	return c.ID != "" && c.ID == other.ID
}

// SameOracle reports whether both cards are printings of the same card.
func (c Card) SameOracle(other Card) bool {
	return c.OracleID != "" && c.OracleID == other.OracleID
}

// IsMultiFaced reports whether the card has more than one face.
func (c Card) IsMultiFaced() bool {
	return len(c.Faces) > 1
}

// ImageURL returns the image of type t. Cards with one image per face fall back to the first face.
func (c Card) ImageURL(t ImageType) string {
	if u := c.ImageURIs.Get(t); u != "" {
		return u
	}

	for _, f := range c.Faces {
		if u := f.ImageURIs.Get(t); u != "" {
			return u
		}
	}

	return ""
}

// FindURL returns the image url of type t of the face matching name, the card image is used as fallback.
func (c Card) FindURL(name string, t ImageType) string {
	for _, f := range c.Faces {
		if strings.EqualFold(f.Name, name) && f.ImageURIs.Get(t) != "" {
			return f.ImageURIs.Get(t)
		}
	}

	// fallback to top img
	return c.ImageURIs.Get(t)
}

// RelatedURI returns the link to a third party site or "".
func (c Card) RelatedURI(site RelatedSite) string {
	return c.RelatedURIs[site]
}

// Tokens returns all related cards that are tokens created by the card.
func (c Card) Tokens() []RelatedCard {
	var tokens []RelatedCard
	for _, p := range c.AllParts {
		if p.Component == ComponentToken {
			tokens = append(tokens, p)
		}
	}

	return tokens
}

// IsPlayableIn reports whether the card is available in game.
func (c Card) IsPlayableIn(game Game) bool {
	for _, g := range c.Games {
		if g == game {
			return true
		}
	}

	return false
}
