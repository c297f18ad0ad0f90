package scryfall

import (
	"fmt"

	"github.com/konstantinfoerster/scryfall-go/internal/jsonfield"
)

// List is a single page of a list or search result.
// NextPage is set if and only if HasMore is true.
type List struct {
	Data       []jsonfield.Object
	HasMore    bool
	NextPage   string
	TotalCards int
}

// NewList maps a raw list envelope.
func NewList(obj jsonfield.Object) (List, error) {
	if _, ok := jsonfield.LookupArray(obj, "data"); !ok {
		return List{}, fmt.Errorf("list object without data array")
	}

	l := List{
		Data:       jsonfield.Objects(obj, "data"),
		HasMore:    jsonfield.Bool(obj, "has_more"),
		NextPage:   jsonfield.String(obj, "next_page"),
		TotalCards: jsonfield.Int(obj, "total_cards"),
	}
	if l.HasMore && l.NextPage == "" {
		return List{}, fmt.Errorf("list has more pages but no next_page uri")
	}
	if !l.HasMore {
		l.NextPage = ""
	}

	return l, nil
}
