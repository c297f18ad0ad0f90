package scryfall

import (
	"net/url"
	"strings"

	"github.com/konstantinfoerster/scryfall-go/internal/config"
)

const (
	cardsPath   = "cards"
	setsPath    = "sets"
	searchQuery = "search?q="

	modifierAllLanguages  = "lang:any"
	modifierAllPrints     = "unique:prints"
	modifierIncludeExtras = "include:extras"
)

// SearchOptions widen a card search beyond the api defaults.
type SearchOptions struct {
	// AllLanguages includes printings in every language, not only english ones.
	AllLanguages bool
	// AllPrints includes every reprint instead of one printing per card.
	AllPrints bool
	// IncludeExtras includes tokens and other extra cards.
	IncludeExtras bool
}

func NewSearchOptions(cfg config.Search) SearchOptions {
	return SearchOptions{
		AllLanguages:  cfg.AllLanguages,
		AllPrints:     cfg.AllPrints,
		IncludeExtras: cfg.IncludeExtras,
	}
}

// Apply appends the enabled modifiers to query.
func (o SearchOptions) Apply(query string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(query))

	if o.AllLanguages {
		b.WriteString(" " + modifierAllLanguages)
	}
	if o.AllPrints {
		b.WriteString(" " + modifierAllPrints)
	}
	if o.IncludeExtras {
		b.WriteString(" " + modifierIncludeExtras)
	}

	return b.String()
}

// EncodeQuery percent-encodes a full text query, spaces are encoded as '+'.
func EncodeQuery(query string) string {
	return url.QueryEscape(query)
}
