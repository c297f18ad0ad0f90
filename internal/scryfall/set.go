package scryfall

import "time"

// Set A group of related cards. The code is unique and usually three to five letters long.
type Set struct {
	Code          string
	Name          string
	Type          SetType
	ReleasedAt    time.Time
	CardCount     int
	Digital       bool
	FoilOnly      bool
	NonFoilOnly   bool
	BlockCode     string
	Block         string
	ParentSetCode string
	IconSVGURI    string
	SearchURI     string
	ScryfallURI   string
	URI           string
}

// SameSet compares the identities of two sets.
func (s Set) SameSet(other Set) bool {
	return s.Code != "" && s.Code == other.Code
}

// IsReleased reports whether the set was released before or at t. Sets without release date count as released.
func (s Set) IsReleased(t time.Time) bool {
	return s.ReleasedAt.IsZero() || !s.ReleasedAt.After(t)
}
