package models

// Account represents the authenticated user's account record
type Account struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	Avatar       Avatar `json:"avatar"`
	ISO6391      string `json:"iso_639_1"`
	ISO31661     string `json:"iso_3166_1"`
	IncludeAdult bool   `json:"include_adult"`
}

// Avatar holds the two avatar sources an account may carry
type Avatar struct {
	Gravatar Gravatar   `json:"gravatar"`
	TMDB     TMDBAvatar `json:"tmdb"`
}

// Gravatar references an externally hosted avatar by hash
type Gravatar struct {
	Hash string `json:"hash"`
}

// TMDBAvatar references a provider-hosted avatar image path
type TMDBAvatar struct {
	AvatarPath *string `json:"avatar_path"`
}

// WatchlistResult is the response body of the watchlist mutation endpoint.
// Success is the authoritative indicator; the status fields carry the
// provider's diagnostic message.
type WatchlistResult struct {
	Success       bool   `json:"success"`
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
