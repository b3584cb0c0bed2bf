package client

import (
	"errors"
	"fmt"
)

// ErrUnknownCategory is returned when a category name or value is not one of the curated categories.
var ErrUnknownCategory = errors.New("unknown category")

// Category is one of the curated Twitch categories that can be searched.
type Category int

const (
	Art Category = iota + 1
	BeautyAndBodyArt
	FoodAndDrink
	JustChatting
	MakersAndCrafting
	Music
	Retro
	ScienceAndTechnology
	SoftwareAndGameDevelopment
	TalkShowsAndPodcasts
)

type categoryInfo struct {
	name        string
	displayName string
	gameID      string
}

// categories is ordered the way the categories are offered to users.
var categories = []struct {
	category Category
	info     categoryInfo
}{
	{Art, categoryInfo{"Art", "Art", "509660"}},
	{BeautyAndBodyArt, categoryInfo{"BeautyAndBodyArt", "Beauty & Body Art", "509669"}},
	{FoodAndDrink, categoryInfo{"FoodAndDrink", "Food & Drink", "509667"}},
	{JustChatting, categoryInfo{"JustChatting", "Just Chatting", "509658"}},
	{MakersAndCrafting, categoryInfo{"MakersAndCrafting", "Makers & Crafting", "509673"}},
	{Music, categoryInfo{"Music", "Music", "26936"}},
	{Retro, categoryInfo{"Retro", "Retro", "27284"}},
	{ScienceAndTechnology, categoryInfo{"ScienceAndTechnology", "Science & Technology", "509670"}},
	{SoftwareAndGameDevelopment, categoryInfo{"SoftwareAndGameDevelopment", "Software and Game Development", "1469308723"}},
	{TalkShowsAndPodcasts, categoryInfo{"TalkShowsAndPodcasts", "Talk Shows & Podcasts", "417752"}},
}

// DefaultCategory is preselected in the search form.
const DefaultCategory = SoftwareAndGameDevelopment

func (c Category) info() (categoryInfo, bool) {
	for _, entry := range categories {
		if entry.category == c {
			return entry.info, true
		}
	}
	return categoryInfo{}, false
}

// Categories returns every searchable category in menu order.
func Categories() []Category {
	out := make([]Category, 0, len(categories))
	for _, entry := range categories {
		out = append(out, entry.category)
	}
	return out
}

// ParseCategory maps a category name such as "JustChatting" to its Category.
// Names are case-sensitive.
func ParseCategory(name string) (Category, error) {
	for _, entry := range categories {
		if entry.info.name == name {
			return entry.category, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// String returns the category name used in query strings and JSON.
func (c Category) String() string {
	if info, ok := c.info(); ok {
		return info.name
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// DisplayName returns the human readable category name.
func (c Category) DisplayName() string {
	if info, ok := c.info(); ok {
		return info.displayName
	}
	return c.String()
}

// GameID returns the Twitch game id of the category, or "" for an unknown category.
func (c Category) GameID() string {
	info, _ := c.info()
	return info.gameID
}

// Valid reports whether c is one of the curated categories.
func (c Category) Valid() bool {
	_, ok := c.info()
	return ok
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
