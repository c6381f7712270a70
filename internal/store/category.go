package store

import "fmt"

// Category identifies one of the fixed catalog listings
type Category string

const (
	CategoryNowPlaying Category = "now_playing"
	CategoryUpcoming   Category = "upcoming"
	CategoryPopular    Category = "popular"
	CategorySearch     Category = "search"
)

// Categories lists every category the store tracks state for
var Categories = []Category{
	CategoryNowPlaying,
	CategoryUpcoming,
	CategoryPopular,
	CategorySearch,
}

// discoverCategories are the listings backed by the discover endpoint.
// Search state is driven by Search, never by FetchCategory.
var discoverCategories = []Category{
	CategoryNowPlaying,
	CategoryUpcoming,
	CategoryPopular,
}

// String returns the string representation of Category
func (c Category) String() string {
	return string(c)
}

// IsValid checks if the category is one of the fixed listings
func (c Category) IsValid() bool {
	switch c {
	case CategoryNowPlaying, CategoryUpcoming, CategoryPopular, CategorySearch:
		return true
	}
	return false
}

// ParseCategory maps an external string to a Category
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}
