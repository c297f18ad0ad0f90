package scryfall

import (
	"slices"
	"strings"
)

// Unknown is the value of every enum that could not be matched against its known values.
const Unknown = "unknown"

func parseEnum[T ~string](raw string, known []T) T {
	v := T(strings.ToLower(strings.TrimSpace(raw)))
	if slices.Contains(known, v) {
		return v
	}

	return T(Unknown)
}

type Layout string

const (
	LayoutNormal           Layout = "normal"
	LayoutSplit            Layout = "split"
	LayoutFlip             Layout = "flip"
	LayoutTransform        Layout = "transform"
	LayoutModalDFC         Layout = "modal_dfc"
	LayoutMeld             Layout = "meld"
	LayoutLeveler          Layout = "leveler"
	LayoutClass            Layout = "class"
	LayoutSaga             Layout = "saga"
	LayoutAdventure        Layout = "adventure"
	LayoutMutate           Layout = "mutate"
	LayoutPrototype        Layout = "prototype"
	LayoutBattle           Layout = "battle"
	LayoutPlanar           Layout = "planar"
	LayoutScheme           Layout = "scheme"
	LayoutVanguard         Layout = "vanguard"
	LayoutToken            Layout = "token"
	LayoutDoubleFacedToken Layout = "double_faced_token"
	LayoutEmblem           Layout = "emblem"
	LayoutAugment          Layout = "augment"
	LayoutHost             Layout = "host"
	LayoutArtSeries        Layout = "art_series"
	LayoutReversibleCard   Layout = "reversible_card"
	LayoutUnknown          Layout = Unknown
)

var layouts = []Layout{
	LayoutNormal, LayoutSplit, LayoutFlip, LayoutTransform, LayoutModalDFC, LayoutMeld, LayoutLeveler,
	LayoutClass, LayoutSaga, LayoutAdventure, LayoutMutate, LayoutPrototype, LayoutBattle, LayoutPlanar,
	LayoutScheme, LayoutVanguard, LayoutToken, LayoutDoubleFacedToken, LayoutEmblem, LayoutAugment, LayoutHost,
	LayoutArtSeries, LayoutReversibleCard,
}

func ParseLayout(raw string) Layout {
	return parseEnum(raw, layouts)
}

// MultiFaced reports whether cards of this layout are printed with more than one face.
func (l Layout) MultiFaced() bool {
	switch l {
	case LayoutSplit, LayoutFlip, LayoutTransform, LayoutModalDFC, LayoutMeld, LayoutAdventure,
		LayoutDoubleFacedToken, LayoutArtSeries, LayoutReversibleCard, LayoutBattle:
		return true
	default:
		return false
	}
}

type Rarity string

const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
	RarityMythic   Rarity = "mythic"
	RaritySpecial  Rarity = "special"
	RarityBonus    Rarity = "bonus"
	RarityUnknown  Rarity = Unknown
)

func ParseRarity(raw string) Rarity {
	return parseEnum(raw, []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityMythic, RaritySpecial, RarityBonus})
}

type BorderColor string

const (
	BorderBlack      BorderColor = "black"
	BorderBorderless BorderColor = "borderless"
	BorderGold       BorderColor = "gold"
	BorderSilver     BorderColor = "silver"
	BorderWhite      BorderColor = "white"
	BorderYellow     BorderColor = "yellow"
	BorderUnknown    BorderColor = Unknown
)

func ParseBorderColor(raw string) BorderColor {
	return parseEnum(raw, []BorderColor{BorderBlack, BorderBorderless, BorderGold, BorderSilver, BorderWhite, BorderYellow})
}

type Frame string

const (
	Frame1993    Frame = "1993"
	Frame1997    Frame = "1997"
	Frame2003    Frame = "2003"
	Frame2015    Frame = "2015"
	FrameFuture  Frame = "future"
	FrameUnknown Frame = Unknown
)

func ParseFrame(raw string) Frame {
	return parseEnum(raw, []Frame{Frame1993, Frame1997, Frame2003, Frame2015, FrameFuture})
}

type FrameEffect string

const (
	FrameEffectLegendary      FrameEffect = "legendary"
	FrameEffectMiracle        FrameEffect = "miracle"
	FrameEffectNyxTouched     FrameEffect = "nyxtouched"
	FrameEffectDraft          FrameEffect = "draft"
	FrameEffectDevoid         FrameEffect = "devoid"
	FrameEffectTombstone      FrameEffect = "tombstone"
	FrameEffectColorShifted   FrameEffect = "colorshifted"
	FrameEffectInverted       FrameEffect = "inverted"
	FrameEffectSunMoonDFC     FrameEffect = "sunmoondfc"
	FrameEffectCompassLandDFC FrameEffect = "compasslanddfc"
	FrameEffectOriginPWDFC    FrameEffect = "originpwdfc"
	FrameEffectMoonEldraziDFC FrameEffect = "mooneldrazidfc"
	FrameEffectShowcase       FrameEffect = "showcase"
	FrameEffectExtendedArt    FrameEffect = "extendedart"
	FrameEffectEtched         FrameEffect = "etched"
	FrameEffectUnknown        FrameEffect = Unknown
)

var frameEffects = []FrameEffect{
	FrameEffectLegendary, FrameEffectMiracle, FrameEffectNyxTouched, FrameEffectDraft, FrameEffectDevoid,
	FrameEffectTombstone, FrameEffectColorShifted, FrameEffectInverted, FrameEffectSunMoonDFC,
	FrameEffectCompassLandDFC, FrameEffectOriginPWDFC, FrameEffectMoonEldraziDFC, FrameEffectShowcase,
	FrameEffectExtendedArt, FrameEffectEtched,
}

func ParseFrameEffect(raw string) FrameEffect {
	return parseEnum(raw, frameEffects)
}

type SetType string

const (
	SetTypeCore            SetType = "core"
	SetTypeExpansion       SetType = "expansion"
	SetTypeMasters         SetType = "masters"
	SetTypeAlchemy         SetType = "alchemy"
	SetTypeMasterpiece     SetType = "masterpiece"
	SetTypeArsenal         SetType = "arsenal"
	SetTypeFromTheVault    SetType = "from_the_vault"
	SetTypeSpellbook       SetType = "spellbook"
	SetTypePremiumDeck     SetType = "premium_deck"
	SetTypeDuelDeck        SetType = "duel_deck"
	SetTypeDraftInnovation SetType = "draft_innovation"
	SetTypeTreasureChest   SetType = "treasure_chest"
	SetTypeCommander       SetType = "commander"
	SetTypePlanechase      SetType = "planechase"
	SetTypeArchenemy       SetType = "archenemy"
	SetTypeVanguard        SetType = "vanguard"
	SetTypeFunny           SetType = "funny"
	SetTypeStarter         SetType = "starter"
	SetTypeBox             SetType = "box"
	SetTypePromo           SetType = "promo"
	SetTypeToken           SetType = "token"
	SetTypeMemorabilia     SetType = "memorabilia"
	SetTypeMinigame        SetType = "minigame"
	SetTypeUnknown         SetType = Unknown
)

var setTypes = []SetType{
	SetTypeCore, SetTypeExpansion, SetTypeMasters, SetTypeAlchemy, SetTypeMasterpiece, SetTypeArsenal,
	SetTypeFromTheVault, SetTypeSpellbook, SetTypePremiumDeck, SetTypeDuelDeck, SetTypeDraftInnovation,
	SetTypeTreasureChest, SetTypeCommander, SetTypePlanechase, SetTypeArchenemy, SetTypeVanguard, SetTypeFunny,
	SetTypeStarter, SetTypeBox, SetTypePromo, SetTypeToken, SetTypeMemorabilia, SetTypeMinigame,
}

func ParseSetType(raw string) SetType {
	return parseEnum(raw, setTypes)
}

type Legality string

const (
	Legal           Legality = "legal"
	NotLegal        Legality = "not_legal"
	Restricted      Legality = "restricted"
	Banned          Legality = "banned"
	LegalityUnknown Legality = Unknown
)

func ParseLegality(raw string) Legality {
	return parseEnum(raw, []Legality{Legal, NotLegal, Restricted, Banned})
}

// Format is a play format. Formats unknown to this package are kept with their raw name.
type Format string

const (
	FormatStandard        Format = "standard"
	FormatFuture          Format = "future"
	FormatHistoric        Format = "historic"
	FormatTimeless        Format = "timeless"
	FormatGladiator       Format = "gladiator"
	FormatPioneer         Format = "pioneer"
	FormatExplorer        Format = "explorer"
	FormatModern          Format = "modern"
	FormatLegacy          Format = "legacy"
	FormatPauper          Format = "pauper"
	FormatVintage         Format = "vintage"
	FormatPenny           Format = "penny"
	FormatCommander       Format = "commander"
	FormatOathbreaker     Format = "oathbreaker"
	FormatStandardBrawl   Format = "standardbrawl"
	FormatBrawl           Format = "brawl"
	FormatAlchemy         Format = "alchemy"
	FormatPauperCommander Format = "paupercommander"
	FormatDuel            Format = "duel"
	FormatOldSchool       Format = "oldschool"
	FormatPremodern       Format = "premodern"
	FormatPreDH           Format = "predh"
	FormatFrontier        Format = "frontier"
	FormatOneVersusOne    Format = "1v1"
	FormatUnknown         Format = Unknown
)

var formats = []Format{
	FormatStandard, FormatFuture, FormatHistoric, FormatTimeless, FormatGladiator, FormatPioneer, FormatExplorer,
	FormatModern, FormatLegacy, FormatPauper, FormatVintage, FormatPenny, FormatCommander, FormatOathbreaker,
	FormatStandardBrawl, FormatBrawl, FormatAlchemy, FormatPauperCommander, FormatDuel, FormatOldSchool,
	FormatPremodern, FormatPreDH, FormatFrontier, FormatOneVersusOne,
}

func ParseFormat(raw string) Format {
	return parseEnum(raw, formats)
}

// Formats returns all known play formats.
func Formats() []Format {
	return slices.Clone(formats)
}

type Game string

const (
	GamePaper   Game = "paper"
	GameArena   Game = "arena"
	GameMTGO    Game = "mtgo"
	GameUnknown Game = Unknown
)

func ParseGame(raw string) Game {
	return parseEnum(raw, []Game{GamePaper, GameArena, GameMTGO})
}

type Language string

const (
	LangEnglish            Language = "en"
	LangSpanish            Language = "es"
	LangFrench             Language = "fr"
	LangGerman             Language = "de"
	LangItalian            Language = "it"
	LangPortuguese         Language = "pt"
	LangJapanese           Language = "ja"
	LangKorean             Language = "ko"
	LangRussian            Language = "ru"
	LangSimplifiedChinese  Language = "zhs"
	LangTraditionalChinese Language = "zht"
	LangHebrew             Language = "he"
	LangLatin              Language = "la"
	LangAncientGreek       Language = "grc"
	LangArabic             Language = "ar"
	LangSanskrit           Language = "sa"
	LangPhyrexian          Language = "ph"
	LangUnknown            Language = Unknown
)

var languages = []Language{
	LangEnglish, LangSpanish, LangFrench, LangGerman, LangItalian, LangPortuguese, LangJapanese, LangKorean,
	LangRussian, LangSimplifiedChinese, LangTraditionalChinese, LangHebrew, LangLatin, LangAncientGreek, LangArabic,
	LangSanskrit, LangPhyrexian,
}

func ParseLanguage(raw string) Language {
	return parseEnum(raw, languages)
}

// ISOCode returns the two letter ISO 639-1 code, both chinese variants map to "zh".
func (l Language) ISOCode() string {
	switch l {
	case LangSimplifiedChinese, LangTraditionalChinese:
		return "zh"
	case LangAncientGreek:
		return "el"
	case LangPhyrexian, LangUnknown:
		return ""
	default:
		return string(l)
	}
}

type ImageType string

const (
	ImageSmall      ImageType = "small"
	ImageNormal     ImageType = "normal"
	ImageLarge      ImageType = "large"
	ImagePNG        ImageType = "png"
	ImageArtCrop    ImageType = "art_crop"
	ImageBorderCrop ImageType = "border_crop"
	ImageUnknown    ImageType = Unknown
)

func ParseImageType(raw string) ImageType {
	return parseEnum(raw, []ImageType{ImageSmall, ImageNormal, ImageLarge, ImagePNG, ImageArtCrop, ImageBorderCrop})
}

type PriceType string

const (
	PriceUSD       PriceType = "usd"
	PriceUSDFoil   PriceType = "usd_foil"
	PriceUSDEtched PriceType = "usd_etched"
	PriceEUR       PriceType = "eur"
	PriceEURFoil   PriceType = "eur_foil"
	PriceTix       PriceType = "tix"
	PriceUnknown   PriceType = Unknown
)

func ParsePriceType(raw string) PriceType {
	return parseEnum(raw, []PriceType{PriceUSD, PriceUSDFoil, PriceUSDEtched, PriceEUR, PriceEURFoil, PriceTix})
}

type RelatedSite string

const (
	SiteTCGPlayer      RelatedSite = "tcgplayer"
	SiteCardmarket     RelatedSite = "cardmarket"
	SiteCardhoarder    RelatedSite = "cardhoarder"
	SiteGatherer       RelatedSite = "gatherer"
	SiteTCGPlayerDecks RelatedSite = "tcgplayer_decks"
	SiteTCGPlayerInfo  RelatedSite = "tcgplayer_infinite_articles"
	SiteEDHREC         RelatedSite = "edhrec"
	SiteMTGTop8        RelatedSite = "mtgtop8"
	SiteUnknown        RelatedSite = Unknown
)

func ParseRelatedSite(raw string) RelatedSite {
	return parseEnum(raw, []RelatedSite{
		SiteTCGPlayer, SiteCardmarket, SiteCardhoarder, SiteGatherer, SiteTCGPlayerDecks, SiteTCGPlayerInfo,
		SiteEDHREC, SiteMTGTop8,
	})
}

// Component describes how a related card belongs to the card referencing it.
type Component string

const (
	ComponentToken      Component = "token"
	ComponentMeldPart   Component = "meld_part"
	ComponentMeldResult Component = "meld_result"
	ComponentComboPiece Component = "combo_piece"
	ComponentUnknown    Component = Unknown
)

func ParseComponent(raw string) Component {
	return parseEnum(raw, []Component{ComponentToken, ComponentMeldPart, ComponentMeldResult, ComponentComboPiece})
}

// Color is one of the five colors in its single letter form. Colorless cards carry no color at all.
type Color string

const (
	ColorWhite   Color = "W"
	ColorBlue    Color = "U"
	ColorBlack   Color = "B"
	ColorRed     Color = "R"
	ColorGreen   Color = "G"
	ColorUnknown Color = Unknown
)

var colors = []Color{ColorWhite, ColorBlue, ColorBlack, ColorRed, ColorGreen}

// ParseColor accepts the letter in any case.
func ParseColor(raw string) Color {
	c := Color(strings.ToUpper(strings.TrimSpace(raw)))
	if slices.Contains(colors, c) {
		return c
	}

	return ColorUnknown
}
