package scryfall

import (
	"strings"

	"github.com/konstantinfoerster/scryfall-go/internal/jsonfield"
)

const (
	objectError = "error"
	objectList  = "list"
)

// NewCard maps a raw card object. Missing or malformed fields are left at their defaults.
func NewCard(obj jsonfield.Object) Card {
	return Card{
		ID:              jsonfield.String(obj, "id"),
		OracleID:        jsonfield.String(obj, "oracle_id"),
		Name:            jsonfield.String(obj, "name"),
		PrintedName:     jsonfield.String(obj, "printed_name"),
		Lang:            ParseLanguage(jsonfield.String(obj, "lang")),
		Layout:          ParseLayout(jsonfield.String(obj, "layout")),
		ManaCost:        jsonfield.String(obj, "mana_cost"),
		CMC:             jsonfield.Float(obj, "cmc"),
		TypeLine:        jsonfield.String(obj, "type_line"),
		PrintedTypeLine: jsonfield.String(obj, "printed_type_line"),
		OracleText:      jsonfield.String(obj, "oracle_text"),
		PrintedText:     jsonfield.String(obj, "printed_text"),
		Power:           jsonfield.String(obj, "power"),
		Toughness:       jsonfield.String(obj, "toughness"),
		Loyalty:         jsonfield.String(obj, "loyalty"),
		HandModifier:    jsonfield.String(obj, "hand_modifier"),
		LifeModifier:    jsonfield.String(obj, "life_modifier"),
		Colors:          newColors(obj, "colors"),
		ColorIdentity:   newColors(obj, "color_identity"),
		Keywords:        jsonfield.Strings(obj, "keywords"),
		Faces:           newFaces(obj),
		AllParts:        newRelatedCards(obj),
		Legalities:      newLegalities(obj),
		Games:           newGames(obj),
		Reserved:        jsonfield.Bool(obj, "reserved"),
		Foil:            jsonfield.Bool(obj, "foil"),
		NonFoil:         jsonfield.Bool(obj, "nonfoil"),
		Oversized:       jsonfield.Bool(obj, "oversized"),
		Promo:           jsonfield.Bool(obj, "promo"),
		Reprint:         jsonfield.Bool(obj, "reprint"),
		Digital:         jsonfield.Bool(obj, "digital"),
		FullArt:         jsonfield.Bool(obj, "full_art"),
		HighresImage:    jsonfield.Bool(obj, "highres_image"),
		SetCode:         jsonfield.String(obj, "set"),
		SetName:         jsonfield.String(obj, "set_name"),
		CollectorNumber: jsonfield.String(obj, "collector_number"),
		Rarity:          ParseRarity(jsonfield.String(obj, "rarity")),
		IllustrationID:  jsonfield.String(obj, "illustration_id"),
		Watermark:       jsonfield.String(obj, "watermark"),
		FlavorText:      jsonfield.String(obj, "flavor_text"),
		Artist:          jsonfield.String(obj, "artist"),
		Frame:           ParseFrame(jsonfield.String(obj, "frame")),
		FrameEffects:    newFrameEffects(obj),
		BorderColor:     ParseBorderColor(jsonfield.String(obj, "border_color")),
		EdhrecRank:      jsonfield.Int(obj, "edhrec_rank"),
		ArenaID:         jsonfield.Int(obj, "arena_id"),
		MtgoID:          jsonfield.Int(obj, "mtgo_id"),
		TCGPlayerID:     jsonfield.Int(obj, "tcgplayer_id"),
		ReleasedAt:      jsonfield.Date(obj, "released_at"),
		ImageURIs:       newImageURIs(obj),
		Prices:          newPrices(obj),
		RelatedURIs:     newRelatedURIs(obj),
		ScryfallURI:     jsonfield.String(obj, "scryfall_uri"),
		URI:             jsonfield.String(obj, "uri"),
		PrintsSearchURI: jsonfield.String(obj, "prints_search_uri"),
		RulingsURI:      jsonfield.String(obj, "rulings_uri"),
	}
}

func NewCardFace(obj jsonfield.Object) CardFace {
	return CardFace{
		Name:            jsonfield.String(obj, "name"),
		PrintedName:     jsonfield.String(obj, "printed_name"),
		ManaCost:        jsonfield.String(obj, "mana_cost"),
		TypeLine:        jsonfield.String(obj, "type_line"),
		PrintedTypeLine: jsonfield.String(obj, "printed_type_line"),
		OracleText:      jsonfield.String(obj, "oracle_text"),
		PrintedText:     jsonfield.String(obj, "printed_text"),
		Colors:          newColors(obj, "colors"),
		ColorIndicator:  newColors(obj, "color_indicator"),
		Power:           jsonfield.String(obj, "power"),
		Toughness:       jsonfield.String(obj, "toughness"),
		Loyalty:         jsonfield.String(obj, "loyalty"),
		FlavorText:      jsonfield.String(obj, "flavor_text"),
		Artist:          jsonfield.String(obj, "artist"),
		IllustrationID:  jsonfield.String(obj, "illustration_id"),
		ImageURIs:       newImageURIs(obj),
	}
}

func NewRelatedCard(obj jsonfield.Object) RelatedCard {
	return RelatedCard{
		ID:        jsonfield.String(obj, "id"),
		Component: ParseComponent(jsonfield.String(obj, "component")),
		Name:      jsonfield.String(obj, "name"),
		TypeLine:  jsonfield.String(obj, "type_line"),
		URI:       jsonfield.String(obj, "uri"),
	}
}

// NewSet maps a raw set object.
func NewSet(obj jsonfield.Object) Set {
	return Set{
		Code:          jsonfield.String(obj, "code"),
		Name:          jsonfield.String(obj, "name"),
		Type:          ParseSetType(jsonfield.String(obj, "set_type")),
		ReleasedAt:    jsonfield.Date(obj, "released_at"),
		CardCount:     jsonfield.Int(obj, "card_count"),
		Digital:       jsonfield.Bool(obj, "digital"),
		FoilOnly:      jsonfield.Bool(obj, "foil_only"),
		NonFoilOnly:   jsonfield.Bool(obj, "nonfoil_only"),
		BlockCode:     jsonfield.String(obj, "block_code"),
		Block:         jsonfield.String(obj, "block"),
		ParentSetCode: jsonfield.String(obj, "parent_set_code"),
		IconSVGURI:    jsonfield.String(obj, "icon_svg_uri"),
		SearchURI:     jsonfield.String(obj, "search_uri"),
		ScryfallURI:   jsonfield.String(obj, "scryfall_uri"),
		URI:           jsonfield.String(obj, "uri"),
	}
}

func newFaces(obj jsonfield.Object) []CardFace {
	raw := jsonfield.Objects(obj, "card_faces")

	faces := make([]CardFace, 0, len(raw))
	for _, f := range raw {
		faces = append(faces, NewCardFace(f))
	}

	return faces
}

func newRelatedCards(obj jsonfield.Object) []RelatedCard {
	raw := jsonfield.Objects(obj, "all_parts")

	parts := make([]RelatedCard, 0, len(raw))
	for _, p := range raw {
		parts = append(parts, NewRelatedCard(p))
	}

	return parts
}

func newLegalities(obj jsonfield.Object) Legalities {
	raw := jsonfield.StringMap(obj, "legalities")

	result := make(Legalities, len(raw))
	for k, v := range raw {
		result[Format(k)] = ParseLegality(v)
	}

	return result
}

func newGames(obj jsonfield.Object) []Game {
	raw := jsonfield.Strings(obj, "games")

	games := make([]Game, 0, len(raw))
	for _, g := range raw {
		games = append(games, ParseGame(g))
	}

	return games
}

func newColors(obj jsonfield.Object, key string) []Color {
	raw := jsonfield.Strings(obj, key)

	result := make([]Color, 0, len(raw))
	for _, c := range raw {
		result = append(result, ParseColor(c))
	}

	return result
}

func newFrameEffects(obj jsonfield.Object) []FrameEffect {
	raw := jsonfield.Strings(obj, "frame_effects")
	// older responses only carry a single effect
	if single := jsonfield.String(obj, "frame_effect"); single != "" && len(raw) == 0 {
		raw = []string{single}
	}

	effects := make([]FrameEffect, 0, len(raw))
	for _, e := range raw {
		effects = append(effects, ParseFrameEffect(e))
	}

	return effects
}

func newImageURIs(obj jsonfield.Object) ImageURIs {
	raw := jsonfield.StringMap(obj, "image_uris")

	uris := make(ImageURIs, len(raw))
	for k, v := range raw {
		if t := ParseImageType(k); t != ImageUnknown && v != "" {
			uris[t] = v
		}
	}

	return uris
}

func newPrices(obj jsonfield.Object) Prices {
	raw := jsonfield.Nested(obj, "prices")

	prices := make(Prices, len(raw))
	for _, k := range raw.Keys() {
		t := ParsePriceType(k)
		if t == PriceUnknown {
			continue
		}
		if d, ok := jsonfield.LookupDecimal(raw, k); ok {
			prices[t] = d
		}
	}

	return prices
}

func newRelatedURIs(obj jsonfield.Object) map[RelatedSite]string {
	merged := jsonfield.StringMap(obj, "related_uris")
	for k, v := range jsonfield.StringMap(obj, "purchase_uris") {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}

	uris := make(map[RelatedSite]string, len(merged))
	for k, v := range merged {
		if site := ParseRelatedSite(k); site != SiteUnknown && v != "" {
			uris[site] = v
		}
	}

	return uris
}

// isErrorObject reports whether obj is an error envelope instead of the requested resource.
func isErrorObject(obj jsonfield.Object) bool {
	return strings.EqualFold(jsonfield.String(obj, "object"), objectError)
}
