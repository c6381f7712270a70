package tmdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/misterbo271/movie-database-app-mienpv/internal/models"
)

// Client handles interactions with The Movie Database API
type Client struct {
	client    *http.Client
	token     string
	accountID string
	baseURL   string
	language  string
}

// Config holds TMDB client configuration
type Config struct {
	AccessToken string
	AccountID   string
	BaseURL     string
	Language    string
}

// NewClient creates a new TMDB client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.themoviedb.org/3"
	}
	if cfg.Language == "" {
		cfg.Language = "en-US"
	}
	return &Client{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		token:     cfg.AccessToken,
		accountID: cfg.AccountID,
		baseURL:   cfg.BaseURL,
		language:  cfg.Language,
	}
}

// DiscoverOptions parameterizes the discover endpoint
type DiscoverOptions struct {
	Page            int
	SortBy          string
	ReleaseDateGTE  string
	ReleaseDateLTE  string
	WithReleaseType string
}

// get performs a GET request against the TMDB API
func (c *Client) get(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	url := fmt.Sprintf("%s%s", c.baseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("Content-Type", "application/json")

	q := req.URL.Query()
	q.Add("language", c.language)
	for key, value := range params {
		q.Add(key, value)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TMDB API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// post performs a POST request with a JSON body against the TMDB API
func (c *Client) post(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	url := fmt.Sprintf("%s%s", c.baseURL, endpoint)

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("TMDB API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// DiscoverMovies queries the discover endpoint with the given filters
func (c *Client) DiscoverMovies(ctx context.Context, opts DiscoverOptions) (*models.MovieList, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.SortBy == "" {
		opts.SortBy = "popularity.desc"
	}

	params := map[string]string{
		"page":          fmt.Sprintf("%d", opts.Page),
		"include_adult": "false",
		"include_video": "false",
		"sort_by":       opts.SortBy,
	}
	if opts.ReleaseDateGTE != "" {
		params["release_date.gte"] = opts.ReleaseDateGTE
	}
	if opts.ReleaseDateLTE != "" {
		params["release_date.lte"] = opts.ReleaseDateLTE
	}
	if opts.WithReleaseType != "" {
		params["with_release_type"] = opts.WithReleaseType
	}

	body, err := c.get(ctx, "/discover/movie", params)
	if err != nil {
		return nil, err
	}

	var list models.MovieList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal discover results: %w", err)
	}

	return &list, nil
}

// SearchMovies searches for movies by title
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*models.MovieList, error) {
	if page < 1 {
		page = 1
	}

	params := map[string]string{
		"query":         query,
		"page":          fmt.Sprintf("%d", page),
		"include_adult": "false",
	}

	body, err := c.get(ctx, "/search/movie", params)
	if err != nil {
		return nil, err
	}

	var list models.MovieList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal search results: %w", err)
	}

	return &list, nil
}

// GetMovieDetails retrieves a movie with its credits in a single round trip
func (c *Client) GetMovieDetails(ctx context.Context, movieID int) (*models.MovieDetail, error) {
	endpoint := fmt.Sprintf("/movie/%d", movieID)
	params := map[string]string{
		"append_to_response": "credits",
	}

	body, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	var detail models.MovieDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("failed to unmarshal movie detail: %w", err)
	}

	return &detail, nil
}

// GetWatchlistMovies retrieves a page of the account's movie watchlist
func (c *Client) GetWatchlistMovies(ctx context.Context, page int) (*models.MovieList, error) {
	if page < 1 {
		page = 1
	}

	endpoint := fmt.Sprintf("/account/%s/watchlist/movies", c.accountID)
	params := map[string]string{
		"page":    fmt.Sprintf("%d", page),
		"sort_by": "created_at.desc",
	}

	body, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	var list models.MovieList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal watchlist: %w", err)
	}

	return &list, nil
}

// watchlistRequest is the mutation body for the watchlist endpoint
type watchlistRequest struct {
	MediaType string `json:"media_type"`
	MediaID   int    `json:"media_id"`
	Watchlist bool   `json:"watchlist"`
}

// SetWatchlist marks a movie as watchlisted or not on the remote account
func (c *Client) SetWatchlist(ctx context.Context, mediaID int, watchlisted bool) (*models.WatchlistResult, error) {
	endpoint := fmt.Sprintf("/account/%s/watchlist", c.accountID)
	payload := watchlistRequest{
		MediaType: "movie",
		MediaID:   mediaID,
		Watchlist: watchlisted,
	}

	body, err := c.post(ctx, endpoint, payload)
	if err != nil {
		return nil, err
	}

	var result models.WatchlistResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal watchlist result: %w", err)
	}

	return &result, nil
}

// GetAccount retrieves the account record
func (c *Client) GetAccount(ctx context.Context) (*models.Account, error) {
	endpoint := fmt.Sprintf("/account/%s", c.accountID)

	body, err := c.get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var account models.Account
	if err := json.Unmarshal(body, &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	return &account, nil
}
