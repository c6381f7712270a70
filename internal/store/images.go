package store

import (
	"fmt"
	"strings"
	"unicode"
)

// ImageSize selects a poster size variant
type ImageSize string

const (
	ImageSizeSmall    ImageSize = "small"
	ImageSizeMedium   ImageSize = "medium"
	ImageSizeLarge    ImageSize = "large"
	ImageSizeOriginal ImageSize = "original"
)

// imageSizeSegments maps a size keyword to the image CDN path segment
var imageSizeSegments = map[ImageSize]string{
	ImageSizeSmall:    "w185",
	ImageSizeMedium:   "w342",
	ImageSizeLarge:    "w780",
	ImageSizeOriginal: "original",
}

// PlaceholderPosterURL is returned for movies without a poster
const PlaceholderPosterURL = "https://via.placeholder.com/342x513.png?text=No+Image"

// PlaceholderAvatarURL is returned for accounts without an avatar
const PlaceholderAvatarURL = "https://via.placeholder.com/185x185.png?text=No+Avatar"

// PosterURL resolves an image path fragment to a full URL. Nil or empty
// fragments resolve to the placeholder; fragments that are already absolute
// URLs pass through unchanged. Unknown sizes fall back to medium.
func (s *Store) PosterURL(path *string, size ImageSize) string {
	if path == nil || *path == "" {
		return PlaceholderPosterURL
	}
	if strings.HasPrefix(*path, "http://") || strings.HasPrefix(*path, "https://") {
		return *path
	}

	segment, ok := imageSizeSegments[size]
	if !ok {
		segment = imageSizeSegments[ImageSizeMedium]
	}
	return fmt.Sprintf("%s/%s%s", s.imageBase, segment, *path)
}

// AvatarURL resolves the current account's avatar, preferring the gravatar
// hash, then the provider avatar path, then the placeholder
func (s *Store) AvatarURL() string {
	s.mu.RLock()
	account := s.account
	s.mu.RUnlock()

	if account != nil {
		if hash := account.Avatar.Gravatar.Hash; hash != "" {
			return fmt.Sprintf("https://secure.gravatar.com/avatar/%s?s=185", hash)
		}
		if p := account.Avatar.TMDB.AvatarPath; p != nil && *p != "" {
			return s.PosterURL(p, ImageSizeSmall)
		}
	}
	return PlaceholderAvatarURL
}

// UserInitial returns the first letter of the account's name, falling back
// to the username, then "?"
func (s *Store) UserInitial() string {
	s.mu.RLock()
	account := s.account
	s.mu.RUnlock()

	if account != nil {
		if initial := firstLetter(account.Name); initial != "" {
			return initial
		}
		if initial := firstLetter(account.Username); initial != "" {
			return initial
		}
	}
	return "?"
}

func firstLetter(s string) string {
	for _, r := range strings.TrimSpace(s) {
		return string(unicode.ToUpper(r))
	}
	return ""
}
